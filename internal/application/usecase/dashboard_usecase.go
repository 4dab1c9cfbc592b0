package usecase

import (
	"sync"
	"time"

	"github.com/jhoicas/opsdesk-api/internal/application/dto"
	"github.com/jhoicas/opsdesk-api/internal/domain"
	"github.com/jhoicas/opsdesk-api/internal/domain/access"
	"github.com/jhoicas/opsdesk-api/internal/domain/assignment"
	"github.com/jhoicas/opsdesk-api/internal/domain/entity"
	"github.com/jhoicas/opsdesk-api/internal/domain/repository"
	"github.com/jhoicas/opsdesk-api/internal/domain/stats"
)

// Tamaño de página por defecto al recorrer el almacén para la instantánea.
const defaultSnapshotPageSize = 10000

// DashboardConfig política de lectura de la instantánea.
type DashboardConfig struct {
	SnapshotPageSize int // tamaño de página; <= 0 usa el default
}

// DashboardUseCase arma el resumen del dashboard: contadores sobre una
// instantánea de órdenes y facturas, filtrados por lo que el rol puede ver.
// La instantánea recorre la colección completa por páginas: los contadores
// nunca se calculan sobre un prefijo truncado.
type DashboardUseCase struct {
	orderRepo   repository.OrderRepository
	invoiceRepo repository.InvoiceRepository
	policy      *access.Policy
	cfg         DashboardConfig
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(
	orderRepo repository.OrderRepository,
	invoiceRepo repository.InvoiceRepository,
	policy *access.Policy,
	cfg DashboardConfig,
) *DashboardUseCase {
	return &DashboardUseCase{
		orderRepo:   orderRepo,
		invoiceRepo: invoiceRepo,
		policy:      policy,
		cfg:         cfg,
	}
}

func (uc *DashboardUseCase) pageSize() int {
	if uc.cfg.SnapshotPageSize <= 0 {
		return defaultSnapshotPageSize
	}
	return uc.cfg.SnapshotPageSize
}

// listAllOrders recorre el almacén por páginas hasta agotar la colección.
func (uc *DashboardUseCase) listAllOrders(filter repository.OrderFilter) ([]*entity.Order, error) {
	size := uc.pageSize()
	var all []*entity.Order
	for offset := 0; ; offset += size {
		filter.Limit = size
		filter.Offset = offset
		page, err := uc.orderRepo.List(filter)
		if err != nil {
			return nil, err
		}
		all = append(all, page...)
		if len(page) < size {
			return all, nil
		}
	}
}

// listAllInvoices recorre el almacén por páginas hasta agotar la colección.
func (uc *DashboardUseCase) listAllInvoices(filter repository.InvoiceFilter) ([]*entity.Invoice, error) {
	size := uc.pageSize()
	var all []*entity.Invoice
	for offset := 0; ; offset += size {
		filter.Limit = size
		filter.Offset = offset
		page, err := uc.invoiceRepo.List(filter)
		if err != nil {
			return nil, err
		}
		all = append(all, page...)
		if len(page) < size {
			return all, nil
		}
	}
}

// Summary calcula el resumen para el actor. Admin ve todo el negocio; un
// Assistant solo sus órdenes asignadas y sus facturas. Los montos se omiten
// sin view_financial_data.
func (uc *DashboardUseCase) Summary(actor assignment.Actor) (*dto.DashboardSummaryDTO, error) {
	if !uc.policy.HasPermission(actor.Role, access.PermViewBasicMetrics) {
		return nil, domain.ErrForbidden
	}

	var orderFilter repository.OrderFilter
	var invoiceFilter repository.InvoiceFilter
	if actor.Role != entity.RoleAdmin {
		orderFilter.AssignedTo = actor.ID
		invoiceFilter.CreatedBy = actor.ID
	}

	// Ambas instantáneas se leen en paralelo; son lecturas independientes
	var (
		wg       sync.WaitGroup
		orders   []*entity.Order
		invoices []*entity.Invoice
		ordErr   error
		invErr   error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		orders, ordErr = uc.listAllOrders(orderFilter)
	}()
	go func() {
		defer wg.Done()
		invoices, invErr = uc.listAllInvoices(invoiceFilter)
	}()
	wg.Wait()
	if ordErr != nil {
		return nil, ordErr
	}
	if invErr != nil {
		return nil, invErr
	}

	os := stats.ComputeOrderStats(orders)
	is := stats.ComputeInvoiceStats(invoices, time.Now())

	out := &dto.DashboardSummaryDTO{
		TotalOrders:      os.TotalOrders,
		OrdersByStatus:   os.CountByStatus,
		PaidOrders:       os.PaidOrders,
		CompletedPct:     os.CompletedPct,
		PaidPct:          os.PaidPct,
		TotalInvoices:    is.TotalInvoices,
		InvoicesByStatus: is.CountByStatus,
		OverdueInvoices:  is.Overdue,
		CollectedPct:     is.CollectedPct,
		Components:       uc.policy.AccessibleComponents(actor.Role, "dashboard"),
	}
	if uc.policy.HasPermission(actor.Role, access.PermViewFinancialData) {
		out.Financial = true
		out.TotalValue = os.TotalValue
		out.AverageOrderValue = os.AverageOrderValue
		out.TotalBilled = is.TotalBilled
		out.TotalCollected = is.TotalCollected
	}
	return out, nil
}
