package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/opsdesk-api/internal/application/auth"
	"github.com/jhoicas/opsdesk-api/internal/application/usecase"
	"github.com/jhoicas/opsdesk-api/internal/domain/access"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC      *auth.AuthUseCase
	CustomerUC  *usecase.CustomerUseCase
	OrderUC     *usecase.OrderUseCase
	InvoiceUC   *usecase.InvoiceUseCase
	DashboardUC *usecase.DashboardUseCase
	MessageUC   *usecase.MessageUseCase
	TeamUC      *usecase.TeamUseCase
	Policy      *access.Policy
	JWTSecret   string
}

// Router registra las rutas de la API.
// Todo lo protegido pasa por AuthMiddleware (token) y RouteAccessMiddleware
// (tabla de rutas por rol); los permisos finos los verifica cada caso de uso.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC, deps.JWTSecret)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token + acceso de ruta por rol)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret), RouteAccessMiddleware(deps.Policy))

	// Customers
	customers := protected.Group("/customers")
	customerHandler := NewCustomerHandler(deps.CustomerUC)
	customers.Post("/", customerHandler.Create)
	customers.Get("/", customerHandler.List)
	customers.Get("/:id", customerHandler.GetByID)
	customers.Put("/:id", customerHandler.Update)
	customers.Delete("/:id", customerHandler.Delete)
	customers.Post("/:id/claim", customerHandler.Claim)

	// Orders
	orders := protected.Group("/orders")
	orderHandler := NewOrderHandler(deps.OrderUC)
	orders.Post("/", orderHandler.Create)
	orders.Get("/", orderHandler.List)
	orders.Get("/:id", orderHandler.GetByID)
	orders.Patch("/:id/status", orderHandler.UpdateStatus)
	orders.Patch("/:id/payment-status", orderHandler.UpdatePaymentStatus)
	orders.Post("/:id/items", orderHandler.AddItem)
	orders.Put("/:id/items/:index", orderHandler.UpdateItem)
	orders.Delete("/:id/items/:index", orderHandler.RemoveItem)
	orders.Post("/:id/claim", orderHandler.Claim)
	orders.Delete("/:id", orderHandler.Delete)

	// Invoices
	invoices := protected.Group("/invoices")
	invoiceHandler := NewInvoiceHandler(deps.InvoiceUC)
	invoices.Post("/", invoiceHandler.Create)
	invoices.Post("/from-order/:orderId", invoiceHandler.CreateFromOrder)
	invoices.Get("/", invoiceHandler.List)
	invoices.Get("/:id", invoiceHandler.GetByID)
	invoices.Patch("/:id/status", invoiceHandler.UpdateStatus)
	invoices.Get("/:id/pdf", invoiceHandler.GetPDF)

	// Dashboard
	dashboard := protected.Group("/dashboard")
	dashboardHandler := NewDashboardHandler(deps.DashboardUC)
	dashboard.Get("/", dashboardHandler.Summary)

	// Messages (canales por cliente)
	messages := protected.Group("/messages")
	messageHandler := NewMessageHandler(deps.MessageUC)
	messages.Post("/customers/:customerId", messageHandler.Send)
	messages.Get("/customers/:customerId", messageHandler.ListByCustomer)

	// Team (solo Admin por la tabla de rutas; doble cerrojo con el permiso)
	team := protected.Group("/team", RequirePermission(deps.Policy, access.PermManageTeam))
	teamHandler := NewTeamHandler(deps.TeamUC)
	team.Get("/", teamHandler.List)
	team.Patch("/:id/status", teamHandler.SetStatus)
}
