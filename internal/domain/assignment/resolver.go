// Package assignment resuelve si un actor puede operar sobre un registro según
// su rol y la relación de asignación (assignedTo).
//
// La asignación es una referencia débil: el registro guarda el ID del usuario
// responsable; resolver ese ID a un usuario completo es trabajo de los
// colaboradores, nunca de este paquete.
package assignment

import (
	"github.com/jhoicas/opsdesk-api/internal/domain"
	"github.com/jhoicas/opsdesk-api/internal/domain/entity"
)

// Action acciones evaluables sobre un registro.
type Action string

const (
	ActionView   Action = "view"
	ActionEdit   Action = "edit"
	ActionDelete Action = "delete"
	ActionClaim  Action = "claim"
)

// Actor el usuario autenticado que ejecuta la operación.
type Actor struct {
	ID   string
	Role string
}

// Record un registro con relación de asignación (Customer, Order).
type Record interface {
	AssignedToID() string
}

// Claimable un registro cuya asignación puede tomarse (claim).
type Claimable interface {
	Record
	SetAssignedTo(userID string)
}

// CanActOn evalúa las reglas en orden:
//  1. Admin puede view/edit/delete cualquier registro.
//  2. Assistant puede view/edit solo si el registro le está asignado.
//  3. Assistant no puede delete nada (delete es exclusivo de Admin).
//  4. Cualquier actor puede claim si el registro no está asignado (o ya es suyo).
//
// Chequeo de solo lectura: el caller debe invocarlo antes de pasar a los
// motores de ciclo de vida.
func CanActOn(actor Actor, rec Record, action Action) bool {
	if rec == nil {
		return false
	}
	switch action {
	case ActionView, ActionEdit:
		if actor.Role == entity.RoleAdmin {
			return true
		}
		return actor.Role == entity.RoleAssistant && actor.ID != "" && rec.AssignedToID() == actor.ID
	case ActionDelete:
		return actor.Role == entity.RoleAdmin
	case ActionClaim:
		return rec.AssignedToID() == "" || rec.AssignedToID() == actor.ID
	}
	return false
}

// Claim toma la asignación de un registro sin dueño. Es la única operación de
// este paquete que muta estado.
//
//   - Registro sin asignar → se asigna al actor.
//   - Registro ya asignado al actor → no-op exitoso (idempotente).
//   - Registro asignado a otro → ErrForbidden.
func Claim(actor Actor, rec Claimable) error {
	if rec == nil || actor.ID == "" {
		return domain.ErrInvalidInput
	}
	current := rec.AssignedToID()
	if current == actor.ID {
		return nil
	}
	if current != "" {
		return domain.ErrForbidden
	}
	rec.SetAssignedTo(actor.ID)
	return nil
}
