package entity

import "time"

// Estados de un cliente. El borrado es lógico: un cliente "eliminado" pasa a inactive.
const (
	CustomerStatusActive   = "active"
	CustomerStatusInactive = "inactive"
)

// Customer representa un cliente de la empresa.
// AssignedTo es una referencia débil (ID de usuario); vacío = sin asignar.
type Customer struct {
	ID         string
	Name       string
	Email      string
	Phone      string
	AssignedTo string
	Status     string // active, inactive
	CreatedBy  string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// AssignedToID implementa assignment.Record.
func (c *Customer) AssignedToID() string { return c.AssignedTo }

// SetAssignedTo implementa assignment.Claimable.
func (c *Customer) SetAssignedTo(userID string) { c.AssignedTo = userID }
