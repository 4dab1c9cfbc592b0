package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de fulfillment de una orden.
// pending → confirmed → in_progress → completed; cancelled es alcanzable desde
// cualquier estado no terminal.
const (
	OrderStatusPending    = "pending"
	OrderStatusConfirmed  = "confirmed"
	OrderStatusInProgress = "in_progress"
	OrderStatusCompleted  = "completed"
	OrderStatusCancelled  = "cancelled"
)

// Estados de pago de una orden. Eje independiente del estado de fulfillment:
// una orden puede estar completed con pago pending (clientes a crédito).
const (
	PaymentStatusPending  = "pending"
	PaymentStatusPartial  = "partial"
	PaymentStatusPaid     = "paid"
	PaymentStatusRefunded = "refunded"
)

// OrderItem una línea de producto dentro de una orden.
type OrderItem struct {
	ProductName string
	Quantity    int64
	UnitPrice   decimal.Decimal
}

// LineTotal devuelve Quantity × UnitPrice.
func (i OrderItem) LineTotal() decimal.Decimal {
	return decimal.NewFromInt(i.Quantity).Mul(i.UnitPrice)
}

// Order representa una orden de un cliente.
// CustomerID y AssignedTo son referencias débiles (solo IDs); resolverlas es
// responsabilidad de los colaboradores, nunca del núcleo.
type Order struct {
	ID            string
	CustomerID    string
	Items         []OrderItem
	Total         decimal.Decimal // siempre recalculado en servidor; nunca se acepta del cliente
	Status        string
	PaymentStatus string
	AssignedTo    string // vacío = sin asignar
	CreatedBy     string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// IsTerminal indica si la orden está en un estado que congela ítems y totales.
func (o *Order) IsTerminal() bool {
	return o.Status == OrderStatusCompleted || o.Status == OrderStatusCancelled
}

// AssignedToID implementa assignment.Record.
func (o *Order) AssignedToID() string { return o.AssignedTo }

// SetAssignedTo implementa assignment.Claimable.
func (o *Order) SetAssignedTo(userID string) { o.AssignedTo = userID }
