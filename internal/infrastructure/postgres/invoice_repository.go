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

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// InvoiceRepo implementación de InvoiceRepository (usable con pool o tx).
// number tiene índice único; una colisión en Create se reporta como
// domain.ErrDuplicate para que el caller regenere el número y reintente.
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

// Create persiste la cabecera y las líneas de la factura.
func (r *InvoiceRepo) Create(invoice *entity.Invoice) error {
	query := `
		INSERT INTO invoices (id, number, order_id, customer_name, customer_email, subtotal, tax_amount, total_amount, status, invoice_date, due_date, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(context.Background(), query,
		invoice.ID, invoice.Number, nullIfEmpty(invoice.OrderID),
		invoice.CustomerName, invoice.CustomerEmail,
		invoice.Subtotal, invoice.TaxAmount, invoice.TotalAmount,
		invoice.Status, invoice.InvoiceDate, invoice.DueDate,
		invoice.CreatedBy, invoice.CreatedAt, invoice.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert invoice: %w", err)
	}
	return r.insertItems(invoice.ID, invoice.Items)
}

// GetByID obtiene una factura completa (cabecera + líneas) por ID.
func (r *InvoiceRepo) GetByID(id string) (*entity.Invoice, error) {
	query := `
		SELECT id, number, COALESCE(order_id, ''), customer_name, customer_email,
		       subtotal, tax_amount, total_amount, status, invoice_date, due_date,
		       created_by, created_at, updated_at
		FROM invoices WHERE id = $1`
	var inv entity.Invoice
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&inv.ID, &inv.Number, &inv.OrderID, &inv.CustomerName, &inv.CustomerEmail,
		&inv.Subtotal, &inv.TaxAmount, &inv.TotalAmount, &inv.Status,
		&inv.InvoiceDate, &inv.DueDate, &inv.CreatedBy, &inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	items, err := r.itemsByInvoice(inv.ID)
	if err != nil {
		return nil, err
	}
	inv.Items = items
	return &inv, nil
}

// List lista facturas con filtros opcionales y paginación, cada una con sus líneas.
func (r *InvoiceRepo) List(filter repository.InvoiceFilter) ([]*entity.Invoice, error) {
	query := `
		SELECT id, number, COALESCE(order_id, ''), customer_name, customer_email,
		       subtotal, tax_amount, total_amount, status, invoice_date, due_date,
		       created_by, created_at, updated_at
		FROM invoices
		WHERE ($1 = '' OR created_by = $1)
		  AND ($2 = '' OR status = $2)
		ORDER BY invoice_date DESC LIMIT $3 OFFSET $4`
	rows, err := r.q.Query(context.Background(), query,
		filter.CreatedBy, filter.Status, filter.Limit, filter.Offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()
	var list []*entity.Invoice
	for rows.Next() {
		var inv entity.Invoice
		if err := rows.Scan(
			&inv.ID, &inv.Number, &inv.OrderID, &inv.CustomerName, &inv.CustomerEmail,
			&inv.Subtotal, &inv.TaxAmount, &inv.TotalAmount, &inv.Status,
			&inv.InvoiceDate, &inv.DueDate, &inv.CreatedBy, &inv.CreatedAt, &inv.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		list = append(list, &inv)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, inv := range list {
		items, err := r.itemsByInvoice(inv.ID)
		if err != nil {
			return nil, err
		}
		inv.Items = items
	}
	return list, nil
}

// Update reescribe la cabecera. Las líneas de una factura son inmutables una
// vez creada (instantánea), así que no se tocan.
func (r *InvoiceRepo) Update(invoice *entity.Invoice) error {
	query := `
		UPDATE invoices SET status = $2, subtotal = $3, tax_amount = $4, total_amount = $5, due_date = $6, updated_at = $7
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		invoice.ID, invoice.Status, invoice.Subtotal, invoice.TaxAmount,
		invoice.TotalAmount, invoice.DueDate, invoice.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update invoice: %w", err)
	}
	return nil
}

func (r *InvoiceRepo) insertItems(invoiceID string, items []entity.InvoiceItem) error {
	query := `
		INSERT INTO invoice_items (invoice_id, position, product_name, quantity, unit_price, total_price)
		VALUES ($1, $2, $3, $4, $5, $6)`
	for i, it := range items {
		_, err := r.q.Exec(context.Background(), query,
			invoiceID, i, it.ProductName, it.Quantity, it.UnitPrice, it.TotalPrice,
		)
		if err != nil {
			return fmt.Errorf("insert invoice item: %w", err)
		}
	}
	return nil
}

func (r *InvoiceRepo) itemsByInvoice(invoiceID string) ([]entity.InvoiceItem, error) {
	query := `
		SELECT product_name, quantity, unit_price, total_price
		FROM invoice_items WHERE invoice_id = $1 ORDER BY position`
	rows, err := r.q.Query(context.Background(), query, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("list invoice items: %w", err)
	}
	defer rows.Close()
	var items []entity.InvoiceItem
	for rows.Next() {
		var it entity.InvoiceItem
		if err := rows.Scan(&it.ProductName, &it.Quantity, &it.UnitPrice, &it.TotalPrice); err != nil {
			return nil, fmt.Errorf("scan invoice item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}
