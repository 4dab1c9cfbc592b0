// Package access implementa el modelo de permisos por rol.
//
// La tabla rol → permisos es configuración, no datos de usuario: se construye
// una vez como valor inmutable y se inyecta donde se necesite. Ningún punto de
// la aplicación la consulta vía estado global, lo que permite probar con
// tablas alternativas.
package access

import (
	"sort"
	"strings"

	"github.com/jhoicas/opsdesk-api/internal/domain/entity"
)

// Permission es una etiqueta opaca dentro de un conjunto cerrado.
// Todo permiso nuevo debe asignarse explícitamente a uno o ambos roles:
// no existe default-allow.
type Permission string

const (
	PermViewFinancialData    Permission = "view_financial_data"
	PermViewAllCustomers     Permission = "view_all_customers"
	PermEditCustomers        Permission = "edit_customers"
	PermDeleteCustomers      Permission = "delete_customers"
	PermManageTeam           Permission = "manage_team"
	PermManageSystem         Permission = "manage_system"
	PermUpdateOrderStatus    Permission = "update_order_status"
	PermUpdatePaymentStatus  Permission = "update_payment_status"
	PermDeleteOrders         Permission = "delete_orders"
	PermCreateInvoices       Permission = "create_invoices"
	PermSendMessages         Permission = "send_messages"
	PermViewAssignedChannels Permission = "view_assigned_channels"
	PermViewAllChannels      Permission = "view_all_channels"
	PermViewBasicMetrics     Permission = "view_basic_metrics"
)

// Policy tabla inmutable de permisos, rutas y componentes visibles por rol.
// Consultas puras: rol o permiso desconocido → false, nunca error.
type Policy struct {
	grants     map[string]map[Permission]struct{}
	routes     map[string]map[string]struct{} // prefijo de ruta → roles con acceso
	components map[string]map[string][]string // área → rol → componentes visibles
}

// NewPolicy construye una Policy con copia defensiva de las tablas.
func NewPolicy(
	grants map[string][]Permission,
	routes map[string][]string,
	components map[string]map[string][]string,
) *Policy {
	p := &Policy{
		grants:     make(map[string]map[Permission]struct{}, len(grants)),
		routes:     make(map[string]map[string]struct{}, len(routes)),
		components: make(map[string]map[string][]string, len(components)),
	}
	for role, perms := range grants {
		set := make(map[Permission]struct{}, len(perms))
		for _, perm := range perms {
			set[perm] = struct{}{}
		}
		p.grants[role] = set
	}
	for prefix, roles := range routes {
		set := make(map[string]struct{}, len(roles))
		for _, role := range roles {
			set[role] = struct{}{}
		}
		p.routes[prefix] = set
	}
	for area, byRole := range components {
		cp := make(map[string][]string, len(byRole))
		for role, names := range byRole {
			cp[role] = append([]string(nil), names...)
		}
		p.components[area] = cp
	}
	return p
}

// HasPermission indica si el rol tiene el permiso. Lookup puro, sin efectos.
func (p *Policy) HasPermission(role string, perm Permission) bool {
	set, ok := p.grants[role]
	if !ok {
		return false
	}
	_, ok = set[perm]
	return ok
}

// CanAccessRoute indica si el rol puede acceder a la ruta. Se resuelve por el
// prefijo más largo que coincida; ruta sin entrada en la tabla → false.
func (p *Policy) CanAccessRoute(role, path string) bool {
	best := ""
	for prefix := range p.routes {
		if strings.HasPrefix(path, prefix) && len(prefix) > len(best) {
			best = prefix
		}
	}
	if best == "" {
		return false
	}
	_, ok := p.routes[best][role]
	return ok
}

// AccessibleComponents devuelve los componentes visibles del área para el rol,
// ordenados. Área o rol desconocido → slice vacío.
func (p *Policy) AccessibleComponents(role, area string) []string {
	byRole, ok := p.components[area]
	if !ok {
		return []string{}
	}
	names := append([]string(nil), byRole[role]...)
	sort.Strings(names)
	return names
}

// DefaultPolicy devuelve la tabla de producción.
//
// Admin es un superconjunto estricto: datos financieros, visibilidad de todos
// los clientes, gestión de equipo/sistema y todos los canales de mensajería.
// Assistant queda restringido a: editar (no borrar) clientes, actualizar
// estado de orden/pago, enviar y ver solo canales asignados y métricas básicas
// no financieras.
func DefaultPolicy() *Policy {
	return NewPolicy(
		map[string][]Permission{
			entity.RoleAdmin: {
				PermViewFinancialData,
				PermViewAllCustomers,
				PermEditCustomers,
				PermDeleteCustomers,
				PermManageTeam,
				PermManageSystem,
				PermUpdateOrderStatus,
				PermUpdatePaymentStatus,
				PermDeleteOrders,
				PermCreateInvoices,
				PermSendMessages,
				PermViewAssignedChannels,
				PermViewAllChannels,
				PermViewBasicMetrics,
			},
			entity.RoleAssistant: {
				PermEditCustomers,
				PermUpdateOrderStatus,
				PermUpdatePaymentStatus,
				PermCreateInvoices,
				PermSendMessages,
				PermViewAssignedChannels,
				PermViewBasicMetrics,
			},
		},
		map[string][]string{
			"/api/customers": {entity.RoleAdmin, entity.RoleAssistant},
			"/api/orders":    {entity.RoleAdmin, entity.RoleAssistant},
			"/api/invoices":  {entity.RoleAdmin, entity.RoleAssistant},
			"/api/messages":  {entity.RoleAdmin, entity.RoleAssistant},
			"/api/dashboard": {entity.RoleAdmin, entity.RoleAssistant},
			"/api/reports":   {entity.RoleAdmin},
			"/api/team":      {entity.RoleAdmin},
			"/api/settings":  {entity.RoleAdmin},
		},
		map[string]map[string][]string{
			"dashboard": {
				entity.RoleAdmin: {
					"orders_overview", "revenue_summary", "invoice_aging",
					"team_activity", "customer_list",
				},
				entity.RoleAssistant: {
					"orders_overview", "my_customers", "my_channels",
				},
			},
			"sidebar": {
				entity.RoleAdmin:     {"customers", "orders", "invoices", "messages", "reports", "team", "settings"},
				entity.RoleAssistant: {"customers", "orders", "invoices", "messages"},
			},
		},
	)
}
