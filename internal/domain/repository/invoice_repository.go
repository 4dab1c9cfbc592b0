package repository

import "github.com/jhoicas/opsdesk-api/internal/domain/entity"

// InvoiceFilter filtro de listado de facturas.
type InvoiceFilter struct {
	CreatedBy string
	Status    string
	Limit     int
	Offset    int
}

// InvoiceRepository define el puerto de persistencia para Invoice. Create debe
// retornar domain.ErrDuplicate ante colisión del número de factura (índice
// único); el caller regenera el número y reintenta.
type InvoiceRepository interface {
	Create(invoice *entity.Invoice) error
	GetByID(id string) (*entity.Invoice, error)
	List(filter InvoiceFilter) ([]*entity.Invoice, error)
	Update(invoice *entity.Invoice) error
}
