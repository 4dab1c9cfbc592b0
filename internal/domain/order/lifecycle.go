// Package order implementa el motor de ciclo de vida de órdenes: las máquinas
// de estado de fulfillment y de pago, el contrato de mutación de ítems y el
// recálculo de totales en servidor.
package order

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/opsdesk-api/internal/domain"
	"github.com/jhoicas/opsdesk-api/internal/domain/assignment"
	"github.com/jhoicas/opsdesk-api/internal/domain/entity"
)

// Orden de avance del estado de fulfillment. cancelled no tiene rango: se
// alcanza desde cualquier estado no terminal y no tiene salidas.
var statusRank = map[string]int{
	entity.OrderStatusPending:    0,
	entity.OrderStatusConfirmed:  1,
	entity.OrderStatusInProgress: 2,
	entity.OrderStatusCompleted:  3,
}

// Transiciones permitidas del estado de pago. Eje independiente del estado de
// fulfillment; estrictamente hacia adelante para ambos roles (una corrección
// de dinero se expresa con refunded, no reescribiendo el historial).
var paymentEdges = map[string][]string{
	entity.PaymentStatusPending: {entity.PaymentStatusPartial, entity.PaymentStatusPaid},
	entity.PaymentStatusPartial: {entity.PaymentStatusPaid},
	entity.PaymentStatusPaid:    {entity.PaymentStatusRefunded},
}

// RecomputeTotal recalcula Total como Σ(Quantity × UnitPrice). Se invoca tras
// cada mutación de ítems y antes de cada escritura; cualquier total enviado
// por el cliente se descarta siempre.
func RecomputeTotal(o *entity.Order) {
	total := decimal.Zero
	for _, it := range o.Items {
		total = total.Add(it.LineTotal())
	}
	o.Total = total
}

// ValidateItem valida una línea: nombre de producto presente, cantidad > 0 y
// precio unitario >= 0.
func ValidateItem(it entity.OrderItem) error {
	if it.ProductName == "" || it.Quantity <= 0 || it.UnitPrice.IsNegative() {
		return domain.ErrInvalidInput
	}
	return nil
}

// ValidateItems valida la secuencia completa; debe ser no vacía.
func ValidateItems(items []entity.OrderItem) error {
	if len(items) == 0 {
		return domain.ErrInvariantViolation
	}
	for _, it := range items {
		if err := ValidateItem(it); err != nil {
			return err
		}
	}
	return nil
}

// EvaluateTransition aplica un cambio de estado de fulfillment si pertenece al
// conjunto de transiciones permitidas; si no, deja la orden intacta y retorna
// el error correspondiente.
//
// Reglas:
//   - Saltos hacia adelante permitidos (ej: pending → completed).
//   - Retrocesos (ej: completed → pending) solo para Admin; Assistant queda
//     restringido a avanzar o cancelar.
//   - cancelled es alcanzable desde cualquier estado no terminal y es final.
//   - Entrar a completed o cancelled con la orden sin ítems viola la
//     invariante de ítems no vacíos.
func EvaluateTransition(o *entity.Order, newStatus string, actor assignment.Actor) error {
	if newStatus == o.Status {
		return domain.ErrInvalidTransition
	}

	if newStatus == entity.OrderStatusCancelled {
		if o.IsTerminal() {
			return domain.ErrInvalidTransition
		}
		if len(o.Items) == 0 {
			return domain.ErrInvariantViolation
		}
		return apply(o, newStatus)
	}

	toRank, ok := statusRank[newStatus]
	if !ok {
		return domain.ErrInvalidTransition
	}
	fromRank, ok := statusRank[o.Status]
	if !ok {
		// cancelled (o un estado corrupto) no tiene salidas
		return domain.ErrInvalidTransition
	}

	if toRank > fromRank {
		if newStatus == entity.OrderStatusCompleted && len(o.Items) == 0 {
			return domain.ErrInvariantViolation
		}
		return apply(o, newStatus)
	}

	// Retroceso: exclusivo de Admin
	if actor.Role != entity.RoleAdmin {
		return domain.ErrForbidden
	}
	return apply(o, newStatus)
}

// EvaluatePaymentTransition aplica un cambio de estado de pago si la arista
// existe en paymentEdges. refunded solo es alcanzable desde paid.
func EvaluatePaymentTransition(o *entity.Order, newStatus string) error {
	for _, allowed := range paymentEdges[o.PaymentStatus] {
		if allowed == newStatus {
			o.PaymentStatus = newStatus
			o.UpdatedAt = time.Now()
			return nil
		}
	}
	return domain.ErrInvalidTransition
}

// AddItem agrega una línea a una orden no terminal y recalcula el total.
func AddItem(o *entity.Order, it entity.OrderItem) error {
	if o.IsTerminal() {
		return domain.ErrInvalidState
	}
	if err := ValidateItem(it); err != nil {
		return err
	}
	o.Items = append(o.Items, it)
	RecomputeTotal(o)
	o.UpdatedAt = time.Now()
	return nil
}

// UpdateItem reemplaza la línea en index y recalcula el total.
func UpdateItem(o *entity.Order, index int, it entity.OrderItem) error {
	if o.IsTerminal() {
		return domain.ErrInvalidState
	}
	if index < 0 || index >= len(o.Items) {
		return domain.ErrNotFound
	}
	if err := ValidateItem(it); err != nil {
		return err
	}
	o.Items[index] = it
	RecomputeTotal(o)
	o.UpdatedAt = time.Now()
	return nil
}

// RemoveItem elimina la línea en index. Quitar la última línea se rechaza:
// los ítems deben permanecer no vacíos mientras la orden no sea terminal.
func RemoveItem(o *entity.Order, index int) error {
	if o.IsTerminal() {
		return domain.ErrInvalidState
	}
	if index < 0 || index >= len(o.Items) {
		return domain.ErrNotFound
	}
	if len(o.Items) == 1 {
		return domain.ErrInvariantViolation
	}
	o.Items = append(o.Items[:index], o.Items[index+1:]...)
	RecomputeTotal(o)
	o.UpdatedAt = time.Now()
	return nil
}

func apply(o *entity.Order, newStatus string) error {
	o.Status = newStatus
	o.UpdatedAt = time.Now()
	return nil
}
