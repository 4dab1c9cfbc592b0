package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/opsdesk-api/internal/application/dto"
	"github.com/jhoicas/opsdesk-api/internal/domain"
	"github.com/jhoicas/opsdesk-api/internal/domain/access"
	"github.com/jhoicas/opsdesk-api/internal/domain/assignment"
	"github.com/jhoicas/opsdesk-api/internal/domain/entity"
	"github.com/jhoicas/opsdesk-api/internal/domain/order"
	"github.com/jhoicas/opsdesk-api/internal/domain/repository"
)

// OrderUseCase casos de uso de órdenes. La cadena por mutación es siempre la
// misma: permiso por rol → regla de asignación → motor de ciclo de vida →
// persistencia. Una violación en cualquier eslabón deja el registro intacto.
type OrderUseCase struct {
	orderRepo    repository.OrderRepository
	customerRepo repository.CustomerRepository
	txRunner     TxRunner
	policy       *access.Policy
}

// NewOrderUseCase construye el caso de uso.
func NewOrderUseCase(
	orderRepo repository.OrderRepository,
	customerRepo repository.CustomerRepository,
	txRunner TxRunner,
	policy *access.Policy,
) *OrderUseCase {
	return &OrderUseCase{
		orderRepo:    orderRepo,
		customerRepo: customerRepo,
		txRunner:     txRunner,
		policy:       policy,
	}
}

// Create crea una orden en pending con sus ítems validados. El total que envíe
// el cliente se descarta y se recalcula en servidor.
func (uc *OrderUseCase) Create(ctx context.Context, actor assignment.Actor, in dto.CreateOrderRequest) (*dto.OrderResponse, error) {
	if in.CustomerID == "" {
		return nil, domain.ErrInvalidInput
	}
	customer, err := uc.customerRepo.GetByID(in.CustomerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, domain.ErrNotFound
	}
	// Crear una orden para un cliente es actuar sobre ese cliente
	if !assignment.CanActOn(actor, customer, assignment.ActionView) {
		return nil, domain.ErrForbidden
	}

	items := make([]entity.OrderItem, 0, len(in.Items))
	for _, it := range in.Items {
		items = append(items, entity.OrderItem{
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
		})
	}
	if err := order.ValidateItems(items); err != nil {
		return nil, err
	}

	assignedTo := ""
	if actor.Role == entity.RoleAssistant {
		assignedTo = actor.ID
	}
	now := time.Now()
	o := &entity.Order{
		ID:            uuid.New().String(),
		CustomerID:    in.CustomerID,
		Items:         items,
		Status:        entity.OrderStatusPending,
		PaymentStatus: entity.PaymentStatusPending,
		AssignedTo:    assignedTo,
		CreatedBy:     actor.ID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	order.RecomputeTotal(o)

	err = uc.txRunner.RunOps(ctx, func(orders repository.OrderRepository, _ repository.InvoiceRepository) error {
		return orders.Create(o)
	})
	if err != nil {
		return nil, err
	}
	return toOrderResponse(o), nil
}

// Get devuelve una orden si el actor puede verla.
func (uc *OrderUseCase) Get(actor assignment.Actor, id string) (*dto.OrderResponse, error) {
	o, err := uc.getOwned(actor, id, assignment.ActionView)
	if err != nil {
		return nil, err
	}
	return toOrderResponse(o), nil
}

// List lista órdenes: todas para Admin, solo las asignadas para Assistant.
func (uc *OrderUseCase) List(actor assignment.Actor, status string, page dto.PageRequest) ([]*dto.OrderResponse, error) {
	page.DefaultPage()
	filter := repository.OrderFilter{Status: status, Limit: page.Limit, Offset: page.Offset}
	if actor.Role != entity.RoleAdmin {
		filter.AssignedTo = actor.ID
	}
	list, err := uc.orderRepo.List(filter)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.OrderResponse, 0, len(list))
	for _, o := range list {
		out = append(out, toOrderResponse(o))
	}
	return out, nil
}

// UpdateStatus evalúa y aplica una transición de fulfillment.
func (uc *OrderUseCase) UpdateStatus(ctx context.Context, actor assignment.Actor, id, newStatus string) (*dto.OrderResponse, error) {
	if !uc.policy.HasPermission(actor.Role, access.PermUpdateOrderStatus) {
		return nil, domain.ErrForbidden
	}
	o, err := uc.getOwned(actor, id, assignment.ActionEdit)
	if err != nil {
		return nil, err
	}
	if err := order.EvaluateTransition(o, newStatus, actor); err != nil {
		return nil, err
	}
	order.RecomputeTotal(o)
	if err := uc.persist(ctx, o); err != nil {
		return nil, err
	}
	return toOrderResponse(o), nil
}

// UpdatePaymentStatus evalúa y aplica una transición de pago. Eje independiente
// del estado de fulfillment.
func (uc *OrderUseCase) UpdatePaymentStatus(ctx context.Context, actor assignment.Actor, id, newStatus string) (*dto.OrderResponse, error) {
	if !uc.policy.HasPermission(actor.Role, access.PermUpdatePaymentStatus) {
		return nil, domain.ErrForbidden
	}
	o, err := uc.getOwned(actor, id, assignment.ActionEdit)
	if err != nil {
		return nil, err
	}
	if err := order.EvaluatePaymentTransition(o, newStatus); err != nil {
		return nil, err
	}
	if err := uc.persist(ctx, o); err != nil {
		return nil, err
	}
	return toOrderResponse(o), nil
}

// AddItem agrega una línea a una orden no terminal.
func (uc *OrderUseCase) AddItem(ctx context.Context, actor assignment.Actor, id string, in dto.OrderItemRequest) (*dto.OrderResponse, error) {
	return uc.mutateItems(ctx, actor, id, func(o *entity.Order) error {
		return order.AddItem(o, entity.OrderItem{
			ProductName: in.ProductName,
			Quantity:    in.Quantity,
			UnitPrice:   in.UnitPrice,
		})
	})
}

// UpdateItem reemplaza la línea en index.
func (uc *OrderUseCase) UpdateItem(ctx context.Context, actor assignment.Actor, id string, index int, in dto.OrderItemRequest) (*dto.OrderResponse, error) {
	return uc.mutateItems(ctx, actor, id, func(o *entity.Order) error {
		return order.UpdateItem(o, index, entity.OrderItem{
			ProductName: in.ProductName,
			Quantity:    in.Quantity,
			UnitPrice:   in.UnitPrice,
		})
	})
}

// RemoveItem elimina la línea en index; nunca deja la orden sin ítems.
func (uc *OrderUseCase) RemoveItem(ctx context.Context, actor assignment.Actor, id string, index int) (*dto.OrderResponse, error) {
	return uc.mutateItems(ctx, actor, id, func(o *entity.Order) error {
		return order.RemoveItem(o, index)
	})
}

// Claim toma una orden sin asignar.
func (uc *OrderUseCase) Claim(ctx context.Context, actor assignment.Actor, id string) (*dto.OrderResponse, error) {
	o, err := uc.orderRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, domain.ErrNotFound
	}
	before := o.AssignedTo
	if err := assignment.Claim(actor, o); err != nil {
		return nil, err
	}
	if o.AssignedTo != before {
		o.UpdatedAt = time.Now()
		if err := uc.persist(ctx, o); err != nil {
			return nil, err
		}
	}
	return toOrderResponse(o), nil
}

// Delete elimina una orden. Exclusivo de Admin.
func (uc *OrderUseCase) Delete(actor assignment.Actor, id string) error {
	if !uc.policy.HasPermission(actor.Role, access.PermDeleteOrders) {
		return domain.ErrForbidden
	}
	o, err := uc.getOwned(actor, id, assignment.ActionDelete)
	if err != nil {
		return err
	}
	return uc.orderRepo.Delete(o.ID)
}

// mutateItems factoriza la cadena gate → motor → persistencia de las
// mutaciones de ítems.
func (uc *OrderUseCase) mutateItems(ctx context.Context, actor assignment.Actor, id string, mutate func(*entity.Order) error) (*dto.OrderResponse, error) {
	o, err := uc.getOwned(actor, id, assignment.ActionEdit)
	if err != nil {
		return nil, err
	}
	if err := mutate(o); err != nil {
		return nil, err
	}
	if err := uc.persist(ctx, o); err != nil {
		return nil, err
	}
	return toOrderResponse(o), nil
}

// persist escribe cabecera + ítems en una transacción, con el total ya
// recalculado por el motor.
func (uc *OrderUseCase) persist(ctx context.Context, o *entity.Order) error {
	return uc.txRunner.RunOps(ctx, func(orders repository.OrderRepository, _ repository.InvoiceRepository) error {
		return orders.Update(o)
	})
}

func (uc *OrderUseCase) getOwned(actor assignment.Actor, id string, action assignment.Action) (*entity.Order, error) {
	o, err := uc.orderRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, domain.ErrNotFound
	}
	if !assignment.CanActOn(actor, o, action) {
		return nil, domain.ErrForbidden
	}
	return o, nil
}

func toOrderResponse(o *entity.Order) *dto.OrderResponse {
	items := make([]dto.OrderItemResponse, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, dto.OrderItemResponse{
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			LineTotal:   it.LineTotal(),
		})
	}
	return &dto.OrderResponse{
		ID:            o.ID,
		CustomerID:    o.CustomerID,
		Items:         items,
		Total:         o.Total,
		Status:        o.Status,
		PaymentStatus: o.PaymentStatus,
		AssignedTo:    o.AssignedTo,
		CreatedBy:     o.CreatedBy,
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
	}
}
