package dto

import "github.com/shopspring/decimal"

// DashboardSummaryDTO resumen del dashboard. Los campos financieros solo se
// llenan para actores con view_financial_data; para el resto el flag
// Financial queda en false y los montos en cero.
type DashboardSummaryDTO struct {
	Financial bool `json:"financial"`

	TotalOrders    int            `json:"total_orders"`
	OrdersByStatus map[string]int `json:"orders_by_status"`
	PaidOrders     int            `json:"paid_orders"`
	CompletedPct   int            `json:"completed_pct"`
	PaidPct        int            `json:"paid_pct"`

	TotalInvoices    int            `json:"total_invoices"`
	InvoicesByStatus map[string]int `json:"invoices_by_status"`
	OverdueInvoices  int            `json:"overdue_invoices"`
	CollectedPct     int            `json:"collected_pct"`

	TotalValue        decimal.Decimal `json:"total_value,omitempty"`
	AverageOrderValue decimal.Decimal `json:"average_order_value,omitempty"`
	TotalBilled       decimal.Decimal `json:"total_billed,omitempty"`
	TotalCollected    decimal.Decimal `json:"total_collected,omitempty"`

	Components []string `json:"components"` // widgets visibles para el rol
}
