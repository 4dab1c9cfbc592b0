package entity

import "time"

// Roles válidos para User. El rol se fija al crear la cuenta y no es mutable por el núcleo.
const (
	RoleAdmin     = "admin"
	RoleAssistant = "assistant"
)

// Estados de cuenta.
const (
	UserStatusActive   = "active"
	UserStatusInactive = "inactive"
)

// User representa un usuario del sistema (admin o asistente).
type User struct {
	ID           string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Name         string
	Role         string // admin, assistant
	Status       string // active, inactive
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
