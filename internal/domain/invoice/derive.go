// Package invoice implementa el motor de derivación de facturas: construcción
// desde una orden (o manual), numeración, máquina de estados y totales.
package invoice

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/opsdesk-api/internal/domain"
	"github.com/jhoicas/opsdesk-api/internal/domain/entity"
)

// Transiciones permitidas de estado de factura. paid y cancelled son finales;
// cancelled no es alcanzable desde paid.
var statusEdges = map[string][]string{
	entity.InvoiceStatusDraft: {entity.InvoiceStatusSent, entity.InvoiceStatusCancelled},
	entity.InvoiceStatusSent:  {entity.InvoiceStatusPaid, entity.InvoiceStatusCancelled},
}

// Options parámetros de derivación. TermDays es obligatorio: si el caller no
// lo especifica el motor falla cerrado en lugar de adivinar un plazo.
type Options struct {
	Prefix   string          // prefijo del número de factura, ej: "INV"
	TermDays int             // plazo de pago en días; DueDate = InvoiceDate + TermDays
	TaxRate  decimal.Decimal // tasa de impuesto en [0,1]; cero si no aplica
	Now      time.Time       // reloj inyectable; cero = time.Now()
}

func (opts Options) validate() error {
	if opts.TermDays <= 0 {
		return domain.ErrInvalidInput
	}
	if opts.TaxRate.IsNegative() || opts.TaxRate.GreaterThan(decimal.NewFromInt(1)) {
		return domain.ErrInvalidInput
	}
	return nil
}

func (opts Options) now() time.Time {
	if opts.Now.IsZero() {
		return time.Now()
	}
	return opts.Now
}

// NewNumber genera un número de factura: prefijo + sufijo derivado del reloj.
// La unicidad es una invariante dura que garantiza el almacén (índice único);
// ante colisión el caller debe regenerar y reintentar, nunca sobrescribir.
func NewNumber(prefix string, now time.Time) string {
	if prefix == "" {
		prefix = "INV"
	}
	return fmt.Sprintf("%s-%d", prefix, now.UnixNano())
}

// FromOrder construye una factura a partir de una orden.
//
// Toma una instantánea del nombre/email del cliente y de los ítems al momento
// de la llamada (sin referencia viva), queda en estado draft y con
// DueDate = InvoiceDate + TermDays, lo que garantiza DueDate >= InvoiceDate.
func FromOrder(o *entity.Order, customer *entity.Customer, createdBy string, opts Options) (*entity.Invoice, error) {
	if o == nil || customer == nil {
		return nil, domain.ErrInvalidInput
	}
	if len(o.Items) == 0 {
		return nil, domain.ErrInvariantViolation
	}
	if err := opts.validate(); err != nil {
		return nil, err
	}

	now := opts.now()
	items := make([]entity.InvoiceItem, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, entity.InvoiceItem{
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			TotalPrice:  it.LineTotal(),
		})
	}

	inv := &entity.Invoice{
		ID:            uuid.New().String(),
		Number:        NewNumber(opts.Prefix, now),
		OrderID:       o.ID,
		CustomerName:  customer.Name,
		CustomerEmail: customer.Email,
		Items:         items,
		Status:        entity.InvoiceStatusDraft,
		InvoiceDate:   now,
		DueDate:       now.AddDate(0, 0, opts.TermDays),
		CreatedBy:     createdBy,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	computeTotals(inv, opts.TaxRate)
	return inv, nil
}

// Manual construye una factura desde entrada manual (sin orden de origen).
// Los datos del cliente se reciben ya como instantánea.
func Manual(customerName, customerEmail, createdBy string, items []entity.InvoiceItem, opts Options) (*entity.Invoice, error) {
	if customerName == "" || len(items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	if err := opts.validate(); err != nil {
		return nil, err
	}
	for i := range items {
		if items[i].ProductName == "" || items[i].Quantity <= 0 || items[i].UnitPrice.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		items[i].TotalPrice = decimal.NewFromInt(items[i].Quantity).Mul(items[i].UnitPrice)
	}

	now := opts.now()
	inv := &entity.Invoice{
		ID:            uuid.New().String(),
		Number:        NewNumber(opts.Prefix, now),
		CustomerName:  customerName,
		CustomerEmail: customerEmail,
		Items:         items,
		Status:        entity.InvoiceStatusDraft,
		InvoiceDate:   now,
		DueDate:       now.AddDate(0, 0, opts.TermDays),
		CreatedBy:     createdBy,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	computeTotals(inv, opts.TaxRate)
	return inv, nil
}

// Transition aplica un cambio de estado si la arista existe; si no, deja la
// factura intacta y retorna ErrInvalidTransition.
func Transition(inv *entity.Invoice, newStatus string) error {
	for _, allowed := range statusEdges[inv.Status] {
		if allowed == newStatus {
			inv.Status = newStatus
			inv.UpdatedAt = time.Now()
			return nil
		}
	}
	return domain.ErrInvalidTransition
}

// RecomputeTotals recalcula subtotal, impuesto y total mientras la factura
// sigue en draft; a partir de sent los totales quedan congelados.
func RecomputeTotals(inv *entity.Invoice, taxRate decimal.Decimal) error {
	if inv.Status != entity.InvoiceStatusDraft {
		return domain.ErrInvalidState
	}
	if taxRate.IsNegative() || taxRate.GreaterThan(decimal.NewFromInt(1)) {
		return domain.ErrInvalidInput
	}
	for i := range inv.Items {
		inv.Items[i].TotalPrice = decimal.NewFromInt(inv.Items[i].Quantity).Mul(inv.Items[i].UnitPrice)
	}
	computeTotals(inv, taxRate)
	inv.UpdatedAt = time.Now()
	return nil
}

// IsOverdue predicado derivado, nunca almacenado: la factura está vencida si
// ya pasó DueDate y no está paid ni cancelled.
func IsOverdue(inv *entity.Invoice, now time.Time) bool {
	if inv.Status == entity.InvoiceStatusPaid || inv.Status == entity.InvoiceStatusCancelled {
		return false
	}
	return now.After(inv.DueDate)
}

// computeTotals: subtotal = Σ TotalPrice, taxAmount = subtotal × taxRate,
// totalAmount = subtotal + taxAmount. Todo redondeado a 2 decimales con
// round-half-up (Round de decimal redondea half away from zero, que para
// montos no negativos es half-up).
func computeTotals(inv *entity.Invoice, taxRate decimal.Decimal) {
	subtotal := decimal.Zero
	for _, it := range inv.Items {
		subtotal = subtotal.Add(it.TotalPrice)
	}
	inv.Subtotal = subtotal.Round(2)
	inv.TaxAmount = subtotal.Mul(taxRate).Round(2)
	inv.TotalAmount = inv.Subtotal.Add(inv.TaxAmount)
}
