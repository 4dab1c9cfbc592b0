package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/opsdesk-api/internal/domain"
	"github.com/jhoicas/opsdesk-api/internal/domain/entity"
	"github.com/jhoicas/opsdesk-api/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

// OrderRepo implementación de OrderRepository (usable con pool o tx).
// La orden se persiste como cabecera en orders más líneas en order_items;
// las escrituras multi-sentencia deben correr dentro del TxRunner.
type OrderRepo struct {
	q Querier
}

// NewOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

// Create persiste la cabecera y las líneas de una orden.
func (r *OrderRepo) Create(order *entity.Order) error {
	query := `
		INSERT INTO orders (id, customer_id, total, status, payment_status, assigned_to, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		order.ID, order.CustomerID, order.Total, order.Status, order.PaymentStatus,
		nullIfEmpty(order.AssignedTo), order.CreatedBy, order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert order: %w", err)
	}
	return r.insertItems(order.ID, order.Items)
}

// GetByID obtiene una orden completa (cabecera + líneas) por ID.
func (r *OrderRepo) GetByID(id string) (*entity.Order, error) {
	query := `
		SELECT id, customer_id, total, status, payment_status, COALESCE(assigned_to, ''), created_by, created_at, updated_at
		FROM orders WHERE id = $1`
	var o entity.Order
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&o.ID, &o.CustomerID, &o.Total, &o.Status, &o.PaymentStatus, &o.AssignedTo,
		&o.CreatedBy, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	items, err := r.itemsByOrder(o.ID)
	if err != nil {
		return nil, err
	}
	o.Items = items
	return &o, nil
}

// List lista órdenes con filtros opcionales y paginación, cada una con sus líneas.
func (r *OrderRepo) List(filter repository.OrderFilter) ([]*entity.Order, error) {
	query := `
		SELECT id, customer_id, total, status, payment_status, COALESCE(assigned_to, ''), created_by, created_at, updated_at
		FROM orders
		WHERE ($1 = '' OR assigned_to = $1)
		  AND ($2 = '' OR customer_id = $2)
		  AND ($3 = '' OR status = $3)
		ORDER BY created_at DESC LIMIT $4 OFFSET $5`
	rows, err := r.q.Query(context.Background(), query,
		filter.AssignedTo, filter.CustomerID, filter.Status, filter.Limit, filter.Offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()
	var list []*entity.Order
	for rows.Next() {
		var o entity.Order
		if err := rows.Scan(&o.ID, &o.CustomerID, &o.Total, &o.Status, &o.PaymentStatus, &o.AssignedTo, &o.CreatedBy, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		list = append(list, &o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, o := range list {
		items, err := r.itemsByOrder(o.ID)
		if err != nil {
			return nil, err
		}
		o.Items = items
	}
	return list, nil
}

// Update reescribe la cabecera y reemplaza las líneas.
func (r *OrderRepo) Update(order *entity.Order) error {
	query := `
		UPDATE orders SET customer_id = $2, total = $3, status = $4, payment_status = $5, assigned_to = $6, updated_at = $7
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		order.ID, order.CustomerID, order.Total, order.Status, order.PaymentStatus,
		nullIfEmpty(order.AssignedTo), order.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update order: %w", err)
	}
	if _, err := r.q.Exec(context.Background(), `DELETE FROM order_items WHERE order_id = $1`, order.ID); err != nil {
		return fmt.Errorf("delete order items: %w", err)
	}
	return r.insertItems(order.ID, order.Items)
}

// Delete elimina una orden con sus líneas (ON DELETE CASCADE en order_items).
func (r *OrderRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	return nil
}

func (r *OrderRepo) insertItems(orderID string, items []entity.OrderItem) error {
	query := `
		INSERT INTO order_items (order_id, position, product_name, quantity, unit_price)
		VALUES ($1, $2, $3, $4, $5)`
	for i, it := range items {
		_, err := r.q.Exec(context.Background(), query,
			orderID, i, it.ProductName, it.Quantity, it.UnitPrice,
		)
		if err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}
	}
	return nil
}

func (r *OrderRepo) itemsByOrder(orderID string) ([]entity.OrderItem, error) {
	query := `
		SELECT product_name, quantity, unit_price
		FROM order_items WHERE order_id = $1 ORDER BY position`
	rows, err := r.q.Query(context.Background(), query, orderID)
	if err != nil {
		return nil, fmt.Errorf("list order items: %w", err)
	}
	defer rows.Close()
	var items []entity.OrderItem
	for rows.Next() {
		var it entity.OrderItem
		if err := rows.Scan(&it.ProductName, &it.Quantity, &it.UnitPrice); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}
