package entity

import "time"

// Canales de mensajería soportados.
const (
	ChannelWhatsApp = "whatsapp"
	ChannelEmail    = "email"
)

// Message un mensaje enviado por el canal de un cliente. El canal pertenece al
// cliente; la visibilidad para asistentes depende de la asignación del cliente.
type Message struct {
	ID         string
	CustomerID string
	SenderID   string
	Channel    string // whatsapp, email
	Body       string
	SentAt     time.Time
}
