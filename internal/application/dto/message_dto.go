package dto

import "time"

// SendMessageRequest envío de un mensaje por el canal de un cliente.
type SendMessageRequest struct {
	Channel string `json:"channel"` // whatsapp | email
	Body    string `json:"body"`
}

// MessageResponse mensaje en respuestas.
type MessageResponse struct {
	ID         string    `json:"id"`
	CustomerID string    `json:"customer_id"`
	SenderID   string    `json:"sender_id"`
	Channel    string    `json:"channel"`
	Body       string    `json:"body"`
	SentAt     time.Time `json:"sent_at"`
}
