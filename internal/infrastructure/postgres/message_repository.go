package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/opsdesk-api/internal/domain/entity"
	"github.com/jhoicas/opsdesk-api/internal/domain/repository"
)

var _ repository.MessageRepository = (*MessageRepo)(nil)

// MessageRepo implementación de MessageRepository (usable con pool o tx).
type MessageRepo struct {
	q Querier
}

// NewMessageRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMessageRepository(q Querier) *MessageRepo {
	return &MessageRepo{q: q}
}

// Create persiste un mensaje.
func (r *MessageRepo) Create(message *entity.Message) error {
	query := `
		INSERT INTO messages (id, customer_id, sender_id, channel, body, sent_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(context.Background(), query,
		message.ID, message.CustomerID, message.SenderID, message.Channel, message.Body, message.SentAt,
	)
	if err != nil {
		return fmt.Errorf("insert message: %w", err)
	}
	return nil
}

// ListByCustomer lista los mensajes del canal de un cliente, más recientes primero.
func (r *MessageRepo) ListByCustomer(customerID string, limit, offset int) ([]*entity.Message, error) {
	query := `
		SELECT id, customer_id, sender_id, channel, body, sent_at
		FROM messages WHERE customer_id = $1 ORDER BY sent_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, customerID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()
	var list []*entity.Message
	for rows.Next() {
		var m entity.Message
		if err := rows.Scan(&m.ID, &m.CustomerID, &m.SenderID, &m.Channel, &m.Body, &m.SentAt); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}
