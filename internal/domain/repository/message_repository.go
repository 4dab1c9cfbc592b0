package repository

import "github.com/jhoicas/opsdesk-api/internal/domain/entity"

// MessageRepository define el puerto de persistencia para Message.
type MessageRepository interface {
	Create(message *entity.Message) error
	ListByCustomer(customerID string, limit, offset int) ([]*entity.Message, error)
}
