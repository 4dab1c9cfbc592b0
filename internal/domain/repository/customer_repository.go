package repository

import "github.com/jhoicas/opsdesk-api/internal/domain/entity"

// CustomerFilter filtro de listado. AssignedTo vacío = sin filtrar por asignación.
type CustomerFilter struct {
	AssignedTo string
	Status     string
	Limit      int
	Offset     int
}

// CustomerRepository define el puerto de persistencia para Customer.
// No hay Delete: el borrado de clientes es lógico (status = inactive) vía Update.
type CustomerRepository interface {
	Create(customer *entity.Customer) error
	GetByID(id string) (*entity.Customer, error)
	List(filter CustomerFilter) ([]*entity.Customer, error)
	Update(customer *entity.Customer) error
}
