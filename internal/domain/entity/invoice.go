package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una factura. draft → sent → paid; cancelled solo desde draft o sent.
// "Vencida" (overdue) NO es un estado almacenado: es un predicado derivado de
// DueDate y del estado actual.
const (
	InvoiceStatusDraft     = "draft"
	InvoiceStatusSent      = "sent"
	InvoiceStatusPaid      = "paid"
	InvoiceStatusCancelled = "cancelled"
)

// InvoiceItem una línea de una factura. Misma forma que OrderItem más el
// total de línea ya calculado.
type InvoiceItem struct {
	ProductName string
	Quantity    int64
	UnitPrice   decimal.Decimal
	TotalPrice  decimal.Decimal
}

// Invoice representa una factura.
//
// CustomerName y CustomerEmail son una instantánea tomada al momento de crear
// la factura, NO una referencia viva: la factura debe permanecer estable aunque
// el registro del cliente cambie después. OrderID es una referencia débil a la
// orden de origen (vacío si la factura fue manual).
type Invoice struct {
	ID            string
	Number        string // único, generado (prefijo + sufijo derivado del reloj)
	OrderID       string
	CustomerName  string
	CustomerEmail string
	Items         []InvoiceItem
	Subtotal      decimal.Decimal
	TaxAmount     decimal.Decimal
	TotalAmount   decimal.Decimal // Subtotal + TaxAmount, redondeado a 2 decimales
	Status        string
	InvoiceDate   time.Time
	DueDate       time.Time // invariante: DueDate >= InvoiceDate
	CreatedBy     string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
