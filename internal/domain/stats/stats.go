// Package stats calcula los contadores del dashboard a partir de colecciones
// instantáneas de órdenes y facturas.
//
// Lectura pura, recalculada bajo demanda: no se mantiene incrementalmente.
// Se paga el costo de recómputo a cambio de simplicidad y de corrección ante
// escrituras concurrentes.
package stats

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/opsdesk-api/internal/domain/entity"
	"github.com/jhoicas/opsdesk-api/internal/domain/invoice"
)

var hundred = decimal.NewFromInt(100)

// OrderStats contadores derivados de una colección de órdenes.
type OrderStats struct {
	TotalOrders       int
	CountByStatus     map[string]int
	TotalValue        decimal.Decimal
	PaidOrders        int
	AverageOrderValue decimal.Decimal // 0 cuando no hay órdenes, nunca división por cero
	CompletedPct      int             // % de órdenes completed, redondeado a entero
	PaidPct           int             // % de órdenes con pago paid
}

// InvoiceStats contadores derivados de una colección de facturas. Overdue se
// calcula con el predicado derivado, nunca con un estado almacenado.
type InvoiceStats struct {
	TotalInvoices  int
	CountByStatus  map[string]int
	Overdue        int
	TotalBilled    decimal.Decimal
	TotalCollected decimal.Decimal // suma de facturas paid
	CollectedPct   int
}

// ComputeOrderStats recorre la instantánea una vez y deriva todos los
// contadores.
func ComputeOrderStats(orders []*entity.Order) OrderStats {
	s := OrderStats{
		CountByStatus:     make(map[string]int),
		TotalValue:        decimal.Zero,
		AverageOrderValue: decimal.Zero,
	}
	completed := 0
	for _, o := range orders {
		s.TotalOrders++
		s.CountByStatus[o.Status]++
		s.TotalValue = s.TotalValue.Add(o.Total)
		if o.PaymentStatus == entity.PaymentStatusPaid {
			s.PaidOrders++
		}
		if o.Status == entity.OrderStatusCompleted {
			completed++
		}
	}
	if s.TotalOrders > 0 {
		s.AverageOrderValue = s.TotalValue.Div(decimal.NewFromInt(int64(s.TotalOrders))).Round(2)
	}
	s.TotalValue = s.TotalValue.Round(2)
	s.CompletedPct = percent(completed, s.TotalOrders)
	s.PaidPct = percent(s.PaidOrders, s.TotalOrders)
	return s
}

// ComputeInvoiceStats deriva los contadores de facturación; now alimenta el
// predicado de vencimiento.
func ComputeInvoiceStats(invoices []*entity.Invoice, now time.Time) InvoiceStats {
	s := InvoiceStats{
		CountByStatus:  make(map[string]int),
		TotalBilled:    decimal.Zero,
		TotalCollected: decimal.Zero,
	}
	paid := 0
	for _, inv := range invoices {
		s.TotalInvoices++
		s.CountByStatus[inv.Status]++
		s.TotalBilled = s.TotalBilled.Add(inv.TotalAmount)
		if inv.Status == entity.InvoiceStatusPaid {
			paid++
			s.TotalCollected = s.TotalCollected.Add(inv.TotalAmount)
		}
		if invoice.IsOverdue(inv, now) {
			s.Overdue++
		}
	}
	s.TotalBilled = s.TotalBilled.Round(2)
	s.TotalCollected = s.TotalCollected.Round(2)
	s.CollectedPct = percent(paid, s.TotalInvoices)
	return s
}

// percent = round(num/den × 100) para display; den == 0 → 0.
func percent(num, den int) int {
	if den == 0 {
		return 0
	}
	pct := decimal.NewFromInt(int64(num)).Div(decimal.NewFromInt(int64(den))).Mul(hundred)
	return int(pct.Round(0).IntPart())
}
