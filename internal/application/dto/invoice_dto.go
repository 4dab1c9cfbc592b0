package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// DeriveInvoiceRequest derivar factura desde una orden. TermDays es
// obligatorio: el motor falla cerrado si falta, no asume un plazo canónico.
type DeriveInvoiceRequest struct {
	TermDays int             `json:"term_days"`
	TaxRate  decimal.Decimal `json:"tax_rate"` // en [0,1]; cero si no aplica
}

// InvoiceItemRequest línea de una factura manual.
type InvoiceItemRequest struct {
	ProductName string          `json:"product_name"`
	Quantity    int64           `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

// CreateInvoiceRequest factura manual (sin orden de origen). Los datos del
// cliente viajan ya como instantánea.
type CreateInvoiceRequest struct {
	CustomerName  string               `json:"customer_name"`
	CustomerEmail string               `json:"customer_email"`
	Items         []InvoiceItemRequest `json:"items"`
	TermDays      int                  `json:"term_days"`
	TaxRate       decimal.Decimal      `json:"tax_rate"`
}

// UpdateInvoiceStatusRequest cambio de estado de factura.
type UpdateInvoiceStatusRequest struct {
	Status string `json:"status"`
}

// InvoiceItemResponse línea en respuestas.
type InvoiceItemResponse struct {
	ProductName string          `json:"product_name"`
	Quantity    int64           `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TotalPrice  decimal.Decimal `json:"total_price"`
}

// InvoiceResponse factura en respuestas. Overdue se deriva al serializar,
// nunca se guarda.
type InvoiceResponse struct {
	ID            string                `json:"id"`
	Number        string                `json:"number"`
	OrderID       string                `json:"order_id,omitempty"`
	CustomerName  string                `json:"customer_name"`
	CustomerEmail string                `json:"customer_email"`
	Items         []InvoiceItemResponse `json:"items"`
	Subtotal      decimal.Decimal       `json:"subtotal"`
	TaxAmount     decimal.Decimal       `json:"tax_amount"`
	TotalAmount   decimal.Decimal       `json:"total_amount"`
	Status        string                `json:"status"`
	Overdue       bool                  `json:"overdue"`
	InvoiceDate   time.Time             `json:"invoice_date"`
	DueDate       time.Time             `json:"due_date"`
	CreatedBy     string                `json:"created_by"`
}
