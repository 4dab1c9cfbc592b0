package repository

import "github.com/jhoicas/opsdesk-api/internal/domain/entity"

// OrderFilter filtro de listado de órdenes.
type OrderFilter struct {
	AssignedTo string
	CustomerID string
	Status     string
	Limit      int
	Offset     int
}

// OrderRepository define el puerto de persistencia para Order. Las
// implementaciones leen y escriben la orden junto con sus ítems.
type OrderRepository interface {
	Create(order *entity.Order) error
	GetByID(id string) (*entity.Order, error)
	List(filter OrderFilter) ([]*entity.Order, error)
	Update(order *entity.Order) error
	Delete(id string) error
}
