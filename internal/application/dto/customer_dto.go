package dto

import "time"

// CreateCustomerRequest alta de cliente. AssignedTo solo lo respeta un Admin;
// si el creador es Assistant el cliente se auto-asigna al creador.
type CreateCustomerRequest struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	AssignedTo string `json:"assigned_to"`
}

// UpdateCustomerRequest edición de campos de contacto. Punteros: nil = no tocar.
type UpdateCustomerRequest struct {
	Name       *string `json:"name"`
	Email      *string `json:"email"`
	Phone      *string `json:"phone"`
	AssignedTo *string `json:"assigned_to"` // reasignación, solo Admin
}

// CustomerResponse cliente en respuestas.
type CustomerResponse struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Phone      string    `json:"phone"`
	AssignedTo string    `json:"assigned_to,omitempty"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
