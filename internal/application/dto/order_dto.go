package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderItemRequest una línea enviada por el cliente HTTP.
type OrderItemRequest struct {
	ProductName string          `json:"product_name"`
	Quantity    int64           `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

// CreateOrderRequest alta de orden. Total se acepta en el JSON por
// compatibilidad con la UI pero SIEMPRE se descarta: el total se recalcula en
// servidor a partir de los ítems.
type CreateOrderRequest struct {
	CustomerID string             `json:"customer_id"`
	Items      []OrderItemRequest `json:"items"`
	Total      decimal.Decimal    `json:"total"` // ignorado
}

// UpdateOrderStatusRequest cambio de estado de fulfillment.
type UpdateOrderStatusRequest struct {
	Status string `json:"status"`
}

// UpdatePaymentStatusRequest cambio de estado de pago.
type UpdatePaymentStatusRequest struct {
	PaymentStatus string `json:"payment_status"`
}

// OrderItemResponse línea en respuestas con su total calculado.
type OrderItemResponse struct {
	ProductName string          `json:"product_name"`
	Quantity    int64           `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// OrderResponse orden en respuestas.
type OrderResponse struct {
	ID            string              `json:"id"`
	CustomerID    string              `json:"customer_id"`
	Items         []OrderItemResponse `json:"items"`
	Total         decimal.Decimal     `json:"total"`
	Status        string              `json:"status"`
	PaymentStatus string              `json:"payment_status"`
	AssignedTo    string              `json:"assigned_to,omitempty"`
	CreatedBy     string              `json:"created_by"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}
