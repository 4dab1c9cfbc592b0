package usecase_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/opsdesk-api/internal/application/dto"
	"github.com/jhoicas/opsdesk-api/internal/application/usecase"
	"github.com/jhoicas/opsdesk-api/internal/domain"
	"github.com/jhoicas/opsdesk-api/internal/domain/access"
	"github.com/jhoicas/opsdesk-api/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fixture
// ──────────────────────────────────────────────────────────────────────────────

type customerFixture struct {
	uc        *usecase.CustomerUseCase
	customers *fakeCustomerRepo
}

func newCustomerFixture() *customerFixture {
	customers := &fakeCustomerRepo{byID: map[string]*entity.Customer{}}
	return &customerFixture{
		uc:        usecase.NewCustomerUseCase(customers, access.DefaultPolicy()),
		customers: customers,
	}
}

func strPtr(s string) *string { return &s }

// ──────────────────────────────────────────────────────────────────────────────
// Alta con auto-asignación
// ──────────────────────────────────────────────────────────────────────────────

// Un cliente creado por un Assistant queda asignado a su creador, aunque la
// petición pida asignarlo a otro.
func TestCustomerCreate_AssistantSeAutoasigna(t *testing.T) {
	f := newCustomerFixture()

	resp, err := f.uc.Create(ucAna, dto.CreateCustomerRequest{
		Name:       "Acme SAS",
		Email:      "compras@acme.co",
		AssignedTo: "u-beto", // se ignora: el creador no es Admin
	})
	require.NoError(t, err)

	assert.Equal(t, "u-ana", resp.AssignedTo, "el creador Assistant queda como asignado")
	assert.Equal(t, entity.CustomerStatusActive, resp.Status)
	assert.Equal(t, "u-ana", f.customers.byID[resp.ID].AssignedTo, "la asignación debe persistirse")
}

// Un Admin decide la asignación inicial: a alguien concreto o sin asignar.
func TestCustomerCreate_AdminEligeAsignacion(t *testing.T) {
	f := newCustomerFixture()

	conDueno, err := f.uc.Create(ucAdmin, dto.CreateCustomerRequest{Name: "Acme SAS", AssignedTo: "u-ana"})
	require.NoError(t, err)
	assert.Equal(t, "u-ana", conDueno.AssignedTo)

	libre, err := f.uc.Create(ucAdmin, dto.CreateCustomerRequest{Name: "Beta Ltda"})
	require.NoError(t, err)
	assert.Empty(t, libre.AssignedTo, "un Admin puede dejar el cliente sin asignar")
}

// Nombre vacío se rechaza antes de tocar el repositorio.
func TestCustomerCreate_NombreObligatorio(t *testing.T) {
	f := newCustomerFixture()
	_, err := f.uc.Create(ucAna, dto.CreateCustomerRequest{Email: "x@y.z"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Empty(t, f.customers.byID)
}

// ──────────────────────────────────────────────────────────────────────────────
// Edición bajo la regla de asignación
// ──────────────────────────────────────────────────────────────────────────────

// El cliente de Ana no es editable por Beto; el registro queda intacto.
func TestCustomerUpdate_AssistantAjeno(t *testing.T) {
	f := newCustomerFixture()
	resp, err := f.uc.Create(ucAna, dto.CreateCustomerRequest{Name: "Acme SAS"})
	require.NoError(t, err)

	_, err = f.uc.Update(ucBeto, resp.ID, dto.UpdateCustomerRequest{Name: strPtr("Hackeado")})
	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.Equal(t, "Acme SAS", f.customers.byID[resp.ID].Name, "el nombre no debe cambiar")

	actualizado, err := f.uc.Update(ucAna, resp.ID, dto.UpdateCustomerRequest{Name: strPtr("Acme Group")})
	require.NoError(t, err)
	assert.Equal(t, "Acme Group", actualizado.Name)
}

// Reasignar (AssignedTo) es exclusivo de Admin: un Assistant no puede, ni
// siquiera sobre su propio cliente; el Admin reasigna sin importar el dueño.
func TestCustomerUpdate_ReasignacionSoloAdmin(t *testing.T) {
	f := newCustomerFixture()
	resp, err := f.uc.Create(ucAna, dto.CreateCustomerRequest{Name: "Acme SAS"})
	require.NoError(t, err)

	_, err = f.uc.Update(ucAna, resp.ID, dto.UpdateCustomerRequest{AssignedTo: strPtr("u-beto")})
	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.Equal(t, "u-ana", f.customers.byID[resp.ID].AssignedTo, "la asignación no debe cambiar")

	reasignado, err := f.uc.Update(ucAdmin, resp.ID, dto.UpdateCustomerRequest{AssignedTo: strPtr("u-beto")})
	require.NoError(t, err)
	assert.Equal(t, "u-beto", reasignado.AssignedTo)

	// Tras la reasignación cambia quién puede editar
	_, err = f.uc.Update(ucAna, resp.ID, dto.UpdateCustomerRequest{Name: strPtr("Otro")})
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = f.uc.Update(ucBeto, resp.ID, dto.UpdateCustomerRequest{Name: strPtr("Acme de Beto")})
	assert.NoError(t, err)
}

// ──────────────────────────────────────────────────────────────────────────────
// Visibilidad, claim y borrado lógico
// ──────────────────────────────────────────────────────────────────────────────

// Un Assistant ve y lista solo sus asignados; Admin ve todos.
func TestCustomerVisibilidad_PorAsignacion(t *testing.T) {
	f := newCustomerFixture()
	deAna, err := f.uc.Create(ucAna, dto.CreateCustomerRequest{Name: "Acme SAS"})
	require.NoError(t, err)
	_, err = f.uc.Create(ucBeto, dto.CreateCustomerRequest{Name: "Beta Ltda"})
	require.NoError(t, err)

	_, err = f.uc.Get(ucBeto, deAna.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = f.uc.Get(ucAdmin, deAna.ID)
	assert.NoError(t, err)

	listaAna, err := f.uc.List(ucAna, dto.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, listaAna, 1)

	listaAdmin, err := f.uc.List(ucAdmin, dto.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, listaAdmin, 2)
}

// Claim sobre un cliente libre lo asigna y persiste; reclamar lo de otro falla.
func TestCustomerClaim_PersisteAsignacion(t *testing.T) {
	f := newCustomerFixture()
	libre, err := f.uc.Create(ucAdmin, dto.CreateCustomerRequest{Name: "Acme SAS"})
	require.NoError(t, err)

	resp, err := f.uc.Claim(ucAna, libre.ID)
	require.NoError(t, err)
	assert.Equal(t, "u-ana", resp.AssignedTo)
	assert.Equal(t, "u-ana", f.customers.byID[libre.ID].AssignedTo)

	_, err = f.uc.Claim(ucBeto, libre.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

// El borrado es lógico (status = inactive) y exclusivo de Admin.
func TestCustomerDelete_LogicoYSoloAdmin(t *testing.T) {
	f := newCustomerFixture()
	resp, err := f.uc.Create(ucAna, dto.CreateCustomerRequest{Name: "Acme SAS"})
	require.NoError(t, err)

	err = f.uc.Delete(ucAna, resp.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden, "un Assistant no borra ni lo propio")

	require.NoError(t, f.uc.Delete(ucAdmin, resp.ID))
	assert.Equal(t, entity.CustomerStatusInactive, f.customers.byID[resp.ID].Status,
		"el registro sigue existiendo, solo cambia de estado")
}
