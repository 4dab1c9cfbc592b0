package usecase_test

import (
	"context"
	"sort"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/opsdesk-api/internal/application/dto"
	"github.com/jhoicas/opsdesk-api/internal/application/usecase"
	"github.com/jhoicas/opsdesk-api/internal/domain"
	"github.com/jhoicas/opsdesk-api/internal/domain/access"
	"github.com/jhoicas/opsdesk-api/internal/domain/assignment"
	"github.com/jhoicas/opsdesk-api/internal/domain/entity"
	"github.com/jhoicas/opsdesk-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
// ──────────────────────────────────────────────────────────────────────────────

type fakeInvoiceRepo struct {
	byID map[string]*entity.Invoice
	// colisiones de número pendientes: Create falla con ErrDuplicate mientras
	// quede saldo, simulando el índice único de la tabla
	collisions int
}

func newFakeInvoiceRepo() *fakeInvoiceRepo {
	return &fakeInvoiceRepo{byID: map[string]*entity.Invoice{}}
}

func (r *fakeInvoiceRepo) Create(inv *entity.Invoice) error {
	if r.collisions > 0 {
		r.collisions--
		return domain.ErrDuplicate
	}
	cp := *inv
	r.byID[inv.ID] = &cp
	return nil
}

func (r *fakeInvoiceRepo) GetByID(id string) (*entity.Invoice, error) {
	inv, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *inv
	return &cp, nil
}

func (r *fakeInvoiceRepo) List(filter repository.InvoiceFilter) ([]*entity.Invoice, error) {
	var out []*entity.Invoice
	for _, inv := range r.byID {
		if filter.CreatedBy != "" && inv.CreatedBy != filter.CreatedBy {
			continue
		}
		if filter.Status != "" && inv.Status != filter.Status {
			continue
		}
		cp := *inv
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return pageSlice(out, filter.Limit, filter.Offset), nil
}

func (r *fakeInvoiceRepo) Update(inv *entity.Invoice) error {
	if _, ok := r.byID[inv.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *inv
	r.byID[inv.ID] = &cp
	return nil
}

type fakeOrderRepo struct {
	byID map[string]*entity.Order
}

func (r *fakeOrderRepo) Create(o *entity.Order) error { r.byID[o.ID] = o; return nil }
func (r *fakeOrderRepo) GetByID(id string) (*entity.Order, error) {
	o, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	return o, nil
}
func (r *fakeOrderRepo) List(filter repository.OrderFilter) ([]*entity.Order, error) {
	var out []*entity.Order
	for _, o := range r.byID {
		if filter.AssignedTo != "" && o.AssignedTo != filter.AssignedTo {
			continue
		}
		if filter.Status != "" && o.Status != filter.Status {
			continue
		}
		if filter.CustomerID != "" && o.CustomerID != filter.CustomerID {
			continue
		}
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return pageSlice(out, filter.Limit, filter.Offset), nil
}

// pageSlice aplica Limit/Offset sobre una colección ya ordenada.
func pageSlice[T any](in []T, limit, offset int) []T {
	if offset > 0 {
		if offset >= len(in) {
			return nil
		}
		in = in[offset:]
	}
	if limit > 0 && limit < len(in) {
		in = in[:limit]
	}
	return in
}
func (r *fakeOrderRepo) Update(o *entity.Order) error                         { r.byID[o.ID] = o; return nil }
func (r *fakeOrderRepo) Delete(id string) error                               { delete(r.byID, id); return nil }

type fakeCustomerRepo struct {
	byID map[string]*entity.Customer
}

func (r *fakeCustomerRepo) Create(c *entity.Customer) error { r.byID[c.ID] = c; return nil }
func (r *fakeCustomerRepo) GetByID(id string) (*entity.Customer, error) {
	c, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	return c, nil
}
func (r *fakeCustomerRepo) List(filter repository.CustomerFilter) ([]*entity.Customer, error) {
	var out []*entity.Customer
	for _, c := range r.byID {
		if filter.AssignedTo != "" && c.AssignedTo != filter.AssignedTo {
			continue
		}
		if filter.Status != "" && c.Status != filter.Status {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}
func (r *fakeCustomerRepo) Update(c *entity.Customer) error { r.byID[c.ID] = c; return nil }

// fakeTxRunner ejecuta la función directamente sobre los repos: en memoria no
// hay transacción que coordinar.
type fakeTxRunner struct {
	orders   repository.OrderRepository
	invoices repository.InvoiceRepository
}

func (tx *fakeTxRunner) RunOps(_ context.Context, fn func(repository.OrderRepository, repository.InvoiceRepository) error) error {
	return fn(tx.orders, tx.invoices)
}

type fakePDFGenerator struct{}

func (fakePDFGenerator) GenerateInvoicePDF(context.Context, *entity.Invoice) ([]byte, error) {
	return []byte("%PDF-1.7"), nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Fixture
// ──────────────────────────────────────────────────────────────────────────────

var (
	ucAdmin = assignment.Actor{ID: "u-admin", Role: entity.RoleAdmin}
	ucAna   = assignment.Actor{ID: "u-ana", Role: entity.RoleAssistant}
	ucBeto  = assignment.Actor{ID: "u-beto", Role: entity.RoleAssistant}
)

type invoiceFixture struct {
	uc       *usecase.InvoiceUseCase
	invoices *fakeInvoiceRepo
	orders   *fakeOrderRepo
}

// newInvoiceFixture monta el caso de uso con una orden de Ana (2 × 50) y su
// cliente ya cargados.
func newInvoiceFixture() *invoiceFixture {
	invoices := newFakeInvoiceRepo()
	orders := &fakeOrderRepo{byID: map[string]*entity.Order{
		"o-1": {
			ID:         "o-1",
			CustomerID: "c-1",
			Status:     entity.OrderStatusCompleted,
			AssignedTo: "u-ana",
			Items: []entity.OrderItem{
				{ProductName: "Camiseta", Quantity: 2, UnitPrice: decimal.NewFromInt(50)},
			},
		},
	}}
	customers := &fakeCustomerRepo{byID: map[string]*entity.Customer{
		"c-1": {ID: "c-1", Name: "Acme SAS", Email: "compras@acme.co"},
	}}
	uc := usecase.NewInvoiceUseCase(
		invoices, orders, customers,
		&fakeTxRunner{orders: orders, invoices: invoices},
		fakePDFGenerator{},
		access.DefaultPolicy(),
		usecase.InvoiceConfig{Prefix: "INV"},
	)
	return &invoiceFixture{uc: uc, invoices: invoices, orders: orders}
}

func deriveReq() dto.DeriveInvoiceRequest {
	return dto.DeriveInvoiceRequest{TermDays: 30, TaxRate: decimal.NewFromFloat(0.16)}
}

// ──────────────────────────────────────────────────────────────────────────────
// CreateFromOrder
// ──────────────────────────────────────────────────────────────────────────────

// Ana deriva factura de su propia orden: instantánea de cliente y totales.
func TestCreateFromOrder_AssistantSobreOrdenPropia(t *testing.T) {
	f := newInvoiceFixture()

	resp, err := f.uc.CreateFromOrder(context.Background(), ucAna, "o-1", deriveReq())
	require.NoError(t, err)

	assert.Equal(t, "o-1", resp.OrderID)
	assert.Equal(t, "Acme SAS", resp.CustomerName)
	assert.Equal(t, entity.InvoiceStatusDraft, resp.Status)
	assert.True(t, resp.TotalAmount.Equal(decimal.NewFromInt(116)), "100 + 16%%, got %s", resp.TotalAmount)
	assert.Equal(t, "u-ana", resp.CreatedBy)
	assert.Contains(t, resp.Number, "INV-")
}

// La orden de Ana no es facturable por Beto; Admin sí puede.
func TestCreateFromOrder_OrdenDeOtroAssistant(t *testing.T) {
	f := newInvoiceFixture()

	_, err := f.uc.CreateFromOrder(context.Background(), ucBeto, "o-1", deriveReq())
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = f.uc.CreateFromOrder(context.Background(), ucAdmin, "o-1", deriveReq())
	assert.NoError(t, err)
}

// Orden inexistente → not found, antes de tocar numeración o persistencia.
func TestCreateFromOrder_OrdenInexistente(t *testing.T) {
	f := newInvoiceFixture()
	_, err := f.uc.CreateFromOrder(context.Background(), ucAna, "o-nope", deriveReq())
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Empty(t, f.invoices.byID)
}

// Ante colisión del número se regenera y reintenta hasta lograr la creación.
func TestCreateFromOrder_ReintentaNumeroDuplicado(t *testing.T) {
	f := newInvoiceFixture()
	f.invoices.collisions = 2

	resp, err := f.uc.CreateFromOrder(context.Background(), ucAna, "o-1", deriveReq())
	require.NoError(t, err, "dos colisiones caben dentro del presupuesto de reintentos")
	assert.Len(t, f.invoices.byID, 1)
	assert.Contains(t, resp.Number, "INV-")
}

// Si la colisión persiste se agotan los reintentos y el error sube al caller.
func TestCreateFromOrder_ColisionPersistente(t *testing.T) {
	f := newInvoiceFixture()
	f.invoices.collisions = 100

	_, err := f.uc.CreateFromOrder(context.Background(), ucAna, "o-1", deriveReq())
	assert.ErrorIs(t, err, domain.ErrDuplicate)
	assert.Empty(t, f.invoices.byID)
}

// ──────────────────────────────────────────────────────────────────────────────
// Visibilidad y transiciones
// ──────────────────────────────────────────────────────────────────────────────

// Un Assistant solo ve y lista las facturas que creó; Admin ve todas.
func TestInvoiceVisibilidad_PorCreador(t *testing.T) {
	f := newInvoiceFixture()
	resp, err := f.uc.CreateFromOrder(context.Background(), ucAna, "o-1", deriveReq())
	require.NoError(t, err)

	_, err = f.uc.Get(ucBeto, resp.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = f.uc.Get(ucAdmin, resp.ID)
	assert.NoError(t, err)

	deAna, err := f.uc.List(ucAna, "", dto.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, deAna, 1)

	deBeto, err := f.uc.List(ucBeto, "", dto.PageRequest{})
	require.NoError(t, err)
	assert.Empty(t, deBeto, "beto no creó facturas")
}

// draft → sent → paid vía el caso de uso; el salto inválido se rechaza sin
// persistir.
func TestInvoiceUpdateStatus_Transiciones(t *testing.T) {
	f := newInvoiceFixture()
	resp, err := f.uc.CreateFromOrder(context.Background(), ucAna, "o-1", deriveReq())
	require.NoError(t, err)

	_, err = f.uc.UpdateStatus(ucAna, resp.ID, entity.InvoiceStatusPaid)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition, "draft no salta directo a paid")

	sent, err := f.uc.UpdateStatus(ucAna, resp.ID, entity.InvoiceStatusSent)
	require.NoError(t, err)
	assert.Equal(t, entity.InvoiceStatusSent, sent.Status)

	paid, err := f.uc.UpdateStatus(ucAna, resp.ID, entity.InvoiceStatusPaid)
	require.NoError(t, err)
	assert.Equal(t, entity.InvoiceStatusPaid, paid.Status)
}

// El PDF respeta la misma visibilidad que Get.
func TestInvoiceGetPDF_Visibilidad(t *testing.T) {
	f := newInvoiceFixture()
	resp, err := f.uc.CreateFromOrder(context.Background(), ucAna, "o-1", deriveReq())
	require.NoError(t, err)

	pdf, err := f.uc.GetPDF(context.Background(), ucAna, resp.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, pdf)

	_, err = f.uc.GetPDF(context.Background(), ucBeto, resp.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
