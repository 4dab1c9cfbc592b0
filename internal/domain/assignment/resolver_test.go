package assignment_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/opsdesk-api/internal/domain"
	"github.com/jhoicas/opsdesk-api/internal/domain/assignment"
	"github.com/jhoicas/opsdesk-api/internal/domain/entity"
)

var (
	admin = assignment.Actor{ID: "u-admin", Role: entity.RoleAdmin}
	ana   = assignment.Actor{ID: "u-ana", Role: entity.RoleAssistant}
	beto  = assignment.Actor{ID: "u-beto", Role: entity.RoleAssistant}
)

func customerAssignedTo(userID string) *entity.Customer {
	return &entity.Customer{ID: "c-1", Name: "Acme SAS", AssignedTo: userID}
}

// ──────────────────────────────────────────────────────────────────────────────
// CanActOn
// ──────────────────────────────────────────────────────────────────────────────

// Admin opera sobre cualquier registro, asignado o no, sin importar a quién.
func TestCanActOn_AdminBypassDeAsignacion(t *testing.T) {
	for _, rec := range []*entity.Customer{
		customerAssignedTo(""),
		customerAssignedTo("u-ana"),
		customerAssignedTo("u-otro"),
	} {
		assert.True(t, assignment.CanActOn(admin, rec, assignment.ActionView))
		assert.True(t, assignment.CanActOn(admin, rec, assignment.ActionEdit))
		assert.True(t, assignment.CanActOn(admin, rec, assignment.ActionDelete))
	}
}

// Un Assistant solo ve y edita lo que le está asignado.
func TestCanActOn_AssistantSoloLoAsignado(t *testing.T) {
	mio := customerAssignedTo("u-ana")
	deOtro := customerAssignedTo("u-beto")
	sinAsignar := customerAssignedTo("")

	assert.True(t, assignment.CanActOn(ana, mio, assignment.ActionView))
	assert.True(t, assignment.CanActOn(ana, mio, assignment.ActionEdit))

	assert.False(t, assignment.CanActOn(ana, deOtro, assignment.ActionView))
	assert.False(t, assignment.CanActOn(ana, deOtro, assignment.ActionEdit))
	assert.False(t, assignment.CanActOn(ana, sinAsignar, assignment.ActionView),
		"sin asignar no es visible para un Assistant; primero debe reclamarlo")
}

// delete es exclusivo de Admin, incluso sobre registros propios.
func TestCanActOn_DeleteSoloAdmin(t *testing.T) {
	mio := customerAssignedTo("u-ana")
	assert.False(t, assignment.CanActOn(ana, mio, assignment.ActionDelete))
	assert.True(t, assignment.CanActOn(admin, mio, assignment.ActionDelete))
}

// claim procede si el registro está libre o ya es del actor.
func TestCanActOn_Claim(t *testing.T) {
	assert.True(t, assignment.CanActOn(ana, customerAssignedTo(""), assignment.ActionClaim))
	assert.True(t, assignment.CanActOn(ana, customerAssignedTo("u-ana"), assignment.ActionClaim))
	assert.False(t, assignment.CanActOn(ana, customerAssignedTo("u-beto"), assignment.ActionClaim))
}

// Registro nil o acción desconocida → denegado, nunca pánico.
func TestCanActOn_EntradasDegeneradas(t *testing.T) {
	assert.False(t, assignment.CanActOn(admin, nil, assignment.ActionView))
	assert.False(t, assignment.CanActOn(admin, customerAssignedTo(""), assignment.Action("archivar")))
}

// ──────────────────────────────────────────────────────────────────────────────
// Claim
// ──────────────────────────────────────────────────────────────────────────────

// Reclamar un registro libre lo asigna al actor.
func TestClaim_RegistroLibre(t *testing.T) {
	rec := customerAssignedTo("")
	require.NoError(t, assignment.Claim(ana, rec))
	assert.Equal(t, "u-ana", rec.AssignedTo)
}

// Reclamar lo propio es idempotente.
func TestClaim_Idempotente(t *testing.T) {
	rec := customerAssignedTo("u-ana")
	require.NoError(t, assignment.Claim(ana, rec))
	assert.Equal(t, "u-ana", rec.AssignedTo)
}

// Reclamar lo de otro falla y no muta: la reasignación es una operación
// explícita de Admin, no un claim.
func TestClaim_RegistroDeOtro(t *testing.T) {
	rec := customerAssignedTo("u-beto")
	err := assignment.Claim(ana, rec)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.Equal(t, "u-beto", rec.AssignedTo, "la asignación no debe cambiar")
}

// Actor sin ID no puede reclamar.
func TestClaim_ActorVacio(t *testing.T) {
	rec := customerAssignedTo("")
	err := assignment.Claim(assignment.Actor{}, rec)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
