package usecase

import (
	"context"

	"github.com/jhoicas/opsdesk-api/internal/domain/entity"
	"github.com/jhoicas/opsdesk-api/internal/domain/repository"
)

// TxRunner ejecuta una función con repositorios de órdenes y facturas ligados
// a la misma transacción. El caller externo debe serializar mutaciones
// concurrentes sobre el mismo registro; la transacción da atomicidad a las
// escrituras multi-sentencia (cabecera + ítems), no resolución de conflictos.
type TxRunner interface {
	RunOps(ctx context.Context, fn func(
		orderRepo repository.OrderRepository,
		invoiceRepo repository.InvoiceRepository,
	) error) error
}

// InvoicePDFGenerator genera la representación imprimible de una factura.
type InvoicePDFGenerator interface {
	GenerateInvoicePDF(ctx context.Context, invoice *entity.Invoice) ([]byte, error)
}
