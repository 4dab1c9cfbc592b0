package usecase_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/opsdesk-api/internal/application/usecase"
	"github.com/jhoicas/opsdesk-api/internal/domain"
	"github.com/jhoicas/opsdesk-api/internal/domain/access"
	"github.com/jhoicas/opsdesk-api/internal/domain/assignment"
	"github.com/jhoicas/opsdesk-api/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fixture
// ──────────────────────────────────────────────────────────────────────────────

// newDashboardFixture monta el caso de uso con página de instantánea pequeña
// para que cualquier dataset de más de 5 registros cruce varias páginas.
func newDashboardFixture(orders *fakeOrderRepo, invoices *fakeInvoiceRepo) *usecase.DashboardUseCase {
	return usecase.NewDashboardUseCase(
		orders, invoices, access.DefaultPolicy(),
		usecase.DashboardConfig{SnapshotPageSize: 5},
	)
}

func seedOrders(n int, assignedTo, status string, total int64) *fakeOrderRepo {
	repo := &fakeOrderRepo{byID: map[string]*entity.Order{}}
	for i := 0; i < n; i++ {
		id := fmt.Sprintf("o-%03d", i)
		repo.byID[id] = &entity.Order{
			ID:            id,
			Status:        status,
			PaymentStatus: entity.PaymentStatusPending,
			AssignedTo:    assignedTo,
			Total:         decimal.NewFromInt(total),
		}
	}
	return repo
}

// ──────────────────────────────────────────────────────────────────────────────
// Instantánea completa por páginas
// ──────────────────────────────────────────────────────────────────────────────

// Los contadores cubren la colección completa aunque exceda el tamaño de
// página: 23 órdenes con página de 5 → 23 contadas, no 5.
func TestDashboardSummary_RecorreTodasLasPaginas(t *testing.T) {
	orders := seedOrders(23, "u-ana", entity.OrderStatusCompleted, 10)
	invoices := newFakeInvoiceRepo()
	for i := 0; i < 12; i++ {
		id := fmt.Sprintf("f-%03d", i)
		invoices.byID[id] = &entity.Invoice{
			ID:          id,
			Status:      entity.InvoiceStatusSent,
			CreatedBy:   "u-ana",
			TotalAmount: decimal.NewFromInt(100),
			DueDate:     time.Now().Add(24 * time.Hour),
		}
	}
	uc := newDashboardFixture(orders, invoices)

	out, err := uc.Summary(ucAdmin)
	require.NoError(t, err)

	assert.Equal(t, 23, out.TotalOrders, "la instantánea no debe truncarse en una página")
	assert.Equal(t, 23, out.OrdersByStatus[entity.OrderStatusCompleted])
	assert.Equal(t, 100, out.CompletedPct)
	assert.Equal(t, 12, out.TotalInvoices)
	assert.True(t, out.TotalValue.Equal(decimal.NewFromInt(230)), "23 × 10, got %s", out.TotalValue)
	assert.True(t, out.TotalBilled.Equal(decimal.NewFromInt(1200)))
}

// Un dataset que cabe justo en una página no duplica ni pierde registros.
func TestDashboardSummary_PaginaExacta(t *testing.T) {
	orders := seedOrders(5, "u-ana", entity.OrderStatusPending, 10)
	uc := newDashboardFixture(orders, newFakeInvoiceRepo())

	out, err := uc.Summary(ucAdmin)
	require.NoError(t, err)
	assert.Equal(t, 5, out.TotalOrders)
}

// ──────────────────────────────────────────────────────────────────────────────
// Alcance por rol
// ──────────────────────────────────────────────────────────────────────────────

// Un Assistant solo cuenta sus órdenes asignadas; Admin cuenta todo.
func TestDashboardSummary_AssistantVeSoloLoSuyo(t *testing.T) {
	orders := seedOrders(7, "u-ana", entity.OrderStatusPending, 10)
	for i := 0; i < 4; i++ {
		id := fmt.Sprintf("ob-%03d", i)
		orders.byID[id] = &entity.Order{
			ID: id, Status: entity.OrderStatusPending,
			PaymentStatus: entity.PaymentStatusPending,
			AssignedTo:    "u-beto",
			Total:         decimal.NewFromInt(10),
		}
	}
	uc := newDashboardFixture(orders, newFakeInvoiceRepo())

	deAna, err := uc.Summary(ucAna)
	require.NoError(t, err)
	assert.Equal(t, 7, deAna.TotalOrders)

	deAdmin, err := uc.Summary(ucAdmin)
	require.NoError(t, err)
	assert.Equal(t, 11, deAdmin.TotalOrders)
}

// Los montos solo se llenan con view_financial_data; los widgets siguen la
// tabla de componentes del rol.
func TestDashboardSummary_CamposFinancierosGateados(t *testing.T) {
	orders := seedOrders(3, "u-ana", entity.OrderStatusPending, 50)
	uc := newDashboardFixture(orders, newFakeInvoiceRepo())

	deAna, err := uc.Summary(ucAna)
	require.NoError(t, err)
	assert.False(t, deAna.Financial)
	assert.True(t, deAna.TotalValue.IsZero(), "sin view_financial_data los montos quedan en cero")
	assert.NotContains(t, deAna.Components, "revenue_summary")

	deAdmin, err := uc.Summary(ucAdmin)
	require.NoError(t, err)
	assert.True(t, deAdmin.Financial)
	assert.True(t, deAdmin.TotalValue.Equal(decimal.NewFromInt(150)))
	assert.Contains(t, deAdmin.Components, "revenue_summary")
}

// Sin view_basic_metrics no hay resumen.
func TestDashboardSummary_SinPermisoDeMetricas(t *testing.T) {
	uc := newDashboardFixture(seedOrders(1, "u-ana", entity.OrderStatusPending, 1), newFakeInvoiceRepo())
	_, err := uc.Summary(assignment.Actor{ID: "u-x", Role: "vendedor"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
