package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/jhoicas/opsdesk-api/internal/application/dto"
	"github.com/jhoicas/opsdesk-api/internal/domain"
	"github.com/jhoicas/opsdesk-api/internal/domain/access"
	"github.com/jhoicas/opsdesk-api/internal/domain/assignment"
	"github.com/jhoicas/opsdesk-api/internal/domain/entity"
	"github.com/jhoicas/opsdesk-api/internal/domain/invoice"
	"github.com/jhoicas/opsdesk-api/internal/domain/repository"
)

// Intentos ante colisión del número de factura. La unicidad es invariante
// dura: se reintenta con número regenerado, nunca se sobrescribe.
const invoiceNumberRetries = 3

// InvoiceConfig política de numeración.
type InvoiceConfig struct {
	Prefix string // prefijo del número, ej: "INV"
}

// InvoiceUseCase casos de uso de facturas: derivación desde orden, alta
// manual, transiciones de estado y PDF.
type InvoiceUseCase struct {
	invoiceRepo  repository.InvoiceRepository
	orderRepo    repository.OrderRepository
	customerRepo repository.CustomerRepository
	txRunner     TxRunner
	pdfGenerator InvoicePDFGenerator
	policy       *access.Policy
	cfg          InvoiceConfig
}

// NewInvoiceUseCase construye el caso de uso.
func NewInvoiceUseCase(
	invoiceRepo repository.InvoiceRepository,
	orderRepo repository.OrderRepository,
	customerRepo repository.CustomerRepository,
	txRunner TxRunner,
	pdfGenerator InvoicePDFGenerator,
	policy *access.Policy,
	cfg InvoiceConfig,
) *InvoiceUseCase {
	return &InvoiceUseCase{
		invoiceRepo:  invoiceRepo,
		orderRepo:    orderRepo,
		customerRepo: customerRepo,
		txRunner:     txRunner,
		pdfGenerator: pdfGenerator,
		policy:       policy,
		cfg:          cfg,
	}
}

// CreateFromOrder deriva una factura desde una orden: instantánea de cliente e
// ítems al momento de la llamada. Ante colisión de número (índice único) se
// regenera y reintenta.
func (uc *InvoiceUseCase) CreateFromOrder(ctx context.Context, actor assignment.Actor, orderID string, in dto.DeriveInvoiceRequest) (*dto.InvoiceResponse, error) {
	if !uc.policy.HasPermission(actor.Role, access.PermCreateInvoices) {
		return nil, domain.ErrForbidden
	}
	o, err := uc.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, domain.ErrNotFound
	}
	if !assignment.CanActOn(actor, o, assignment.ActionEdit) {
		return nil, domain.ErrForbidden
	}
	customer, err := uc.customerRepo.GetByID(o.CustomerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, domain.ErrNotFound
	}

	inv, err := invoice.FromOrder(o, customer, actor.ID, invoice.Options{
		Prefix:   uc.cfg.Prefix,
		TermDays: in.TermDays,
		TaxRate:  in.TaxRate,
	})
	if err != nil {
		return nil, err
	}
	if err := uc.createWithRetry(ctx, inv); err != nil {
		return nil, err
	}
	return toInvoiceResponse(inv, time.Now()), nil
}

// CreateManual crea una factura desde entrada manual (sin orden de origen).
func (uc *InvoiceUseCase) CreateManual(ctx context.Context, actor assignment.Actor, in dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error) {
	if !uc.policy.HasPermission(actor.Role, access.PermCreateInvoices) {
		return nil, domain.ErrForbidden
	}
	items := make([]entity.InvoiceItem, 0, len(in.Items))
	for _, it := range in.Items {
		items = append(items, entity.InvoiceItem{
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
		})
	}
	inv, err := invoice.Manual(in.CustomerName, in.CustomerEmail, actor.ID, items, invoice.Options{
		Prefix:   uc.cfg.Prefix,
		TermDays: in.TermDays,
		TaxRate:  in.TaxRate,
	})
	if err != nil {
		return nil, err
	}
	if err := uc.createWithRetry(ctx, inv); err != nil {
		return nil, err
	}
	return toInvoiceResponse(inv, time.Now()), nil
}

// UpdateStatus aplica una transición de estado de factura (draft → sent →
// paid; cancelled solo desde draft o sent).
func (uc *InvoiceUseCase) UpdateStatus(actor assignment.Actor, id, newStatus string) (*dto.InvoiceResponse, error) {
	inv, err := uc.getOwned(actor, id)
	if err != nil {
		return nil, err
	}
	if err := invoice.Transition(inv, newStatus); err != nil {
		return nil, err
	}
	if err := uc.invoiceRepo.Update(inv); err != nil {
		return nil, err
	}
	return toInvoiceResponse(inv, time.Now()), nil
}

// Get devuelve una factura si el actor puede verla.
func (uc *InvoiceUseCase) Get(actor assignment.Actor, id string) (*dto.InvoiceResponse, error) {
	inv, err := uc.getOwned(actor, id)
	if err != nil {
		return nil, err
	}
	return toInvoiceResponse(inv, time.Now()), nil
}

// List lista facturas: todas para Admin, las propias para Assistant.
func (uc *InvoiceUseCase) List(actor assignment.Actor, status string, page dto.PageRequest) ([]*dto.InvoiceResponse, error) {
	page.DefaultPage()
	filter := repository.InvoiceFilter{Status: status, Limit: page.Limit, Offset: page.Offset}
	if actor.Role != entity.RoleAdmin {
		filter.CreatedBy = actor.ID
	}
	list, err := uc.invoiceRepo.List(filter)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	out := make([]*dto.InvoiceResponse, 0, len(list))
	for _, inv := range list {
		out = append(out, toInvoiceResponse(inv, now))
	}
	return out, nil
}

// GetPDF genera la representación imprimible de la factura.
func (uc *InvoiceUseCase) GetPDF(ctx context.Context, actor assignment.Actor, id string) ([]byte, error) {
	inv, err := uc.getOwned(actor, id)
	if err != nil {
		return nil, err
	}
	return uc.pdfGenerator.GenerateInvoicePDF(ctx, inv)
}

// createWithRetry persiste la factura; ante ErrDuplicate regenera el número y
// reintenta hasta invoiceNumberRetries veces.
func (uc *InvoiceUseCase) createWithRetry(ctx context.Context, inv *entity.Invoice) error {
	var err error
	for attempt := 0; attempt < invoiceNumberRetries; attempt++ {
		err = uc.txRunner.RunOps(ctx, func(_ repository.OrderRepository, invoices repository.InvoiceRepository) error {
			return invoices.Create(inv)
		})
		if err == nil {
			return nil
		}
		if !errors.Is(err, domain.ErrDuplicate) {
			return err
		}
		inv.Number = invoice.NewNumber(uc.cfg.Prefix, time.Now())
	}
	return err
}

// getOwned obtiene la factura y verifica visibilidad: Admin cualquiera,
// Assistant solo las que creó (derivadas o manuales).
func (uc *InvoiceUseCase) getOwned(actor assignment.Actor, id string) (*entity.Invoice, error) {
	inv, err := uc.invoiceRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	if actor.Role != entity.RoleAdmin && inv.CreatedBy != actor.ID {
		return nil, domain.ErrForbidden
	}
	return inv, nil
}

func toInvoiceResponse(inv *entity.Invoice, now time.Time) *dto.InvoiceResponse {
	items := make([]dto.InvoiceItemResponse, 0, len(inv.Items))
	for _, it := range inv.Items {
		items = append(items, dto.InvoiceItemResponse{
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			TotalPrice:  it.TotalPrice,
		})
	}
	return &dto.InvoiceResponse{
		ID:            inv.ID,
		Number:        inv.Number,
		OrderID:       inv.OrderID,
		CustomerName:  inv.CustomerName,
		CustomerEmail: inv.CustomerEmail,
		Items:         items,
		Subtotal:      inv.Subtotal,
		TaxAmount:     inv.TaxAmount,
		TotalAmount:   inv.TotalAmount,
		Status:        inv.Status,
		Overdue:       invoice.IsOverdue(inv, now),
		InvoiceDate:   inv.InvoiceDate,
		DueDate:       inv.DueDate,
		CreatedBy:     inv.CreatedBy,
	}
}
