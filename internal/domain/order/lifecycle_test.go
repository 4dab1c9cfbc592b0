package order_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/opsdesk-api/internal/domain"
	"github.com/jhoicas/opsdesk-api/internal/domain/assignment"
	"github.com/jhoicas/opsdesk-api/internal/domain/entity"
	"github.com/jhoicas/opsdesk-api/internal/domain/order"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

var (
	admin     = assignment.Actor{ID: "u-admin", Role: entity.RoleAdmin}
	assistant = assignment.Actor{ID: "u-asst", Role: entity.RoleAssistant}
)

// newOrder construye una orden pending con una línea de 2 × 50.00.
func newOrder() *entity.Order {
	o := &entity.Order{
		ID:            "o-1",
		CustomerID:    "c-1",
		Status:        entity.OrderStatusPending,
		PaymentStatus: entity.PaymentStatusPending,
		Items: []entity.OrderItem{
			{ProductName: "Camiseta", Quantity: 2, UnitPrice: decimal.NewFromInt(50)},
		},
	}
	order.RecomputeTotal(o)
	return o
}

// ──────────────────────────────────────────────────────────────────────────────
// Máquina de estados de fulfillment
// ──────────────────────────────────────────────────────────────────────────────

// El camino feliz completo debe avanzar sin errores.
func TestEvaluateTransition_CaminoFelizCompleto(t *testing.T) {
	o := newOrder()
	for _, next := range []string{
		entity.OrderStatusConfirmed,
		entity.OrderStatusInProgress,
		entity.OrderStatusCompleted,
	} {
		require.NoError(t, order.EvaluateTransition(o, next, assistant))
		assert.Equal(t, next, o.Status)
	}
}

// Saltos hacia adelante (pending → completed) están permitidos.
func TestEvaluateTransition_SaltoHaciaAdelante(t *testing.T) {
	o := newOrder()
	require.NoError(t, order.EvaluateTransition(o, entity.OrderStatusCompleted, assistant))
	assert.Equal(t, entity.OrderStatusCompleted, o.Status)
}

// Retroceder (completed → in_progress) es exclusivo de Admin; un Assistant
// recibe acceso denegado y la orden queda intacta.
func TestEvaluateTransition_RetrocesoSoloAdmin(t *testing.T) {
	o := newOrder()
	o.Status = entity.OrderStatusCompleted

	err := order.EvaluateTransition(o, entity.OrderStatusInProgress, assistant)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.Equal(t, entity.OrderStatusCompleted, o.Status, "la orden debe quedar intacta")

	require.NoError(t, order.EvaluateTransition(o, entity.OrderStatusInProgress, admin))
	assert.Equal(t, entity.OrderStatusInProgress, o.Status)
}

// cancelled es alcanzable desde cualquier estado no terminal.
func TestEvaluateTransition_CancelarDesdeNoTerminal(t *testing.T) {
	for _, from := range []string{
		entity.OrderStatusPending,
		entity.OrderStatusConfirmed,
		entity.OrderStatusInProgress,
	} {
		o := newOrder()
		o.Status = from
		require.NoError(t, order.EvaluateTransition(o, entity.OrderStatusCancelled, assistant),
			"cancelar desde %s debe ser válido", from)
	}
}

// cancelled no tiene salidas: ni siquiera Admin puede revivir una orden cancelada.
func TestEvaluateTransition_CancelledEsFinal(t *testing.T) {
	o := newOrder()
	o.Status = entity.OrderStatusCancelled

	for _, next := range []string{
		entity.OrderStatusPending,
		entity.OrderStatusConfirmed,
		entity.OrderStatusCompleted,
		entity.OrderStatusCancelled,
	} {
		err := order.EvaluateTransition(o, next, admin)
		assert.ErrorIs(t, err, domain.ErrInvalidTransition, "cancelled → %s debe fallar", next)
	}
}

// Mismo estado y estados desconocidos se rechazan.
func TestEvaluateTransition_EstadosInvalidos(t *testing.T) {
	o := newOrder()
	assert.ErrorIs(t, order.EvaluateTransition(o, entity.OrderStatusPending, admin), domain.ErrInvalidTransition)
	assert.ErrorIs(t, order.EvaluateTransition(o, "archivado", admin), domain.ErrInvalidTransition)
}

// Completar o cancelar una orden sin ítems viola la invariante de ítems no vacíos.
func TestEvaluateTransition_SinItemsNoCompletaNiCancela(t *testing.T) {
	o := newOrder()
	o.Items = nil
	assert.ErrorIs(t, order.EvaluateTransition(o, entity.OrderStatusCompleted, admin), domain.ErrInvariantViolation)
	assert.ErrorIs(t, order.EvaluateTransition(o, entity.OrderStatusCancelled, admin), domain.ErrInvariantViolation)
}

// ──────────────────────────────────────────────────────────────────────────────
// Máquina de estados de pago
// ──────────────────────────────────────────────────────────────────────────────

// El eje de pago es independiente y estrictamente hacia adelante.
func TestEvaluatePaymentTransition_SoloHaciaAdelante(t *testing.T) {
	o := newOrder()

	require.NoError(t, order.EvaluatePaymentTransition(o, entity.PaymentStatusPartial))
	require.NoError(t, order.EvaluatePaymentTransition(o, entity.PaymentStatusPaid))

	// Retroceder el pago no está permitido para nadie
	assert.ErrorIs(t, order.EvaluatePaymentTransition(o, entity.PaymentStatusPending), domain.ErrInvalidTransition)
	assert.ErrorIs(t, order.EvaluatePaymentTransition(o, entity.PaymentStatusPartial), domain.ErrInvalidTransition)

	// Una corrección de dinero se expresa con refunded
	require.NoError(t, order.EvaluatePaymentTransition(o, entity.PaymentStatusRefunded))
}

// refunded solo es alcanzable desde paid.
func TestEvaluatePaymentTransition_RefundedSoloDesdePaid(t *testing.T) {
	o := newOrder()
	assert.ErrorIs(t, order.EvaluatePaymentTransition(o, entity.PaymentStatusRefunded), domain.ErrInvalidTransition)

	o.PaymentStatus = entity.PaymentStatusPartial
	assert.ErrorIs(t, order.EvaluatePaymentTransition(o, entity.PaymentStatusRefunded), domain.ErrInvalidTransition)
}

// El pago puede avanzar aunque la orden esté cancelada: los ejes no se acoplan.
func TestEvaluatePaymentTransition_IndependienteDeFulfillment(t *testing.T) {
	o := newOrder()
	o.Status = entity.OrderStatusCancelled
	require.NoError(t, order.EvaluatePaymentTransition(o, entity.PaymentStatusPaid))
}

// ──────────────────────────────────────────────────────────────────────────────
// Mutación de ítems y total en servidor
// ──────────────────────────────────────────────────────────────────────────────

// El total siempre es Σ(cantidad × precio), recalculado tras cada mutación.
func TestItems_TotalRecalculado(t *testing.T) {
	o := newOrder()
	assert.True(t, o.Total.Equal(decimal.NewFromInt(100)), "total inicial 2×50 = 100")

	require.NoError(t, order.AddItem(o, entity.OrderItem{
		ProductName: "Gorra", Quantity: 3, UnitPrice: decimal.NewFromFloat(10.50),
	}))
	assert.True(t, o.Total.Equal(decimal.NewFromFloat(131.50)), "100 + 3×10.50 = 131.50, got %s", o.Total)

	require.NoError(t, order.UpdateItem(o, 1, entity.OrderItem{
		ProductName: "Gorra", Quantity: 1, UnitPrice: decimal.NewFromInt(10),
	}))
	assert.True(t, o.Total.Equal(decimal.NewFromInt(110)))

	require.NoError(t, order.RemoveItem(o, 1))
	assert.True(t, o.Total.Equal(decimal.NewFromInt(100)))
}

// Una orden terminal congela sus ítems.
func TestItems_OrdenTerminalNoMuta(t *testing.T) {
	for _, status := range []string{entity.OrderStatusCompleted, entity.OrderStatusCancelled} {
		o := newOrder()
		o.Status = status
		it := entity.OrderItem{ProductName: "Gorra", Quantity: 1, UnitPrice: decimal.NewFromInt(10)}

		assert.ErrorIs(t, order.AddItem(o, it), domain.ErrInvalidState)
		assert.ErrorIs(t, order.UpdateItem(o, 0, it), domain.ErrInvalidState)
		assert.ErrorIs(t, order.RemoveItem(o, 0), domain.ErrInvalidState)
	}
}

// Quitar la última línea dejaría la orden sin ítems: se rechaza.
func TestItems_NoSePuedeQuitarLaUltimaLinea(t *testing.T) {
	o := newOrder()
	require.Len(t, o.Items, 1)
	assert.ErrorIs(t, order.RemoveItem(o, 0), domain.ErrInvariantViolation)
	assert.Len(t, o.Items, 1, "la línea debe seguir ahí")
}

// Índice fuera de rango → not found; línea inválida → validación.
func TestItems_IndicesYValidacion(t *testing.T) {
	o := newOrder()
	it := entity.OrderItem{ProductName: "Gorra", Quantity: 1, UnitPrice: decimal.NewFromInt(10)}

	assert.ErrorIs(t, order.UpdateItem(o, 5, it), domain.ErrNotFound)
	assert.ErrorIs(t, order.RemoveItem(o, -1), domain.ErrNotFound)

	assert.ErrorIs(t, order.AddItem(o, entity.OrderItem{ProductName: "", Quantity: 1, UnitPrice: decimal.NewFromInt(1)}), domain.ErrInvalidInput)
	assert.ErrorIs(t, order.AddItem(o, entity.OrderItem{ProductName: "X", Quantity: 0, UnitPrice: decimal.NewFromInt(1)}), domain.ErrInvalidInput)
	assert.ErrorIs(t, order.AddItem(o, entity.OrderItem{ProductName: "X", Quantity: 1, UnitPrice: decimal.NewFromInt(-1)}), domain.ErrInvalidInput)
}

// ValidateItems exige al menos una línea.
func TestValidateItems_VaciaVialaInvariante(t *testing.T) {
	assert.ErrorIs(t, order.ValidateItems(nil), domain.ErrInvariantViolation)
}
