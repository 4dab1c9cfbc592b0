package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jhoicas/opsdesk-api/internal/application/auth"
	"github.com/jhoicas/opsdesk-api/internal/application/usecase"
	"github.com/jhoicas/opsdesk-api/internal/domain/access"
	infrapdf "github.com/jhoicas/opsdesk-api/internal/infrastructure/pdf"
	"github.com/jhoicas/opsdesk-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/opsdesk-api/internal/interfaces/http"
	"github.com/jhoicas/opsdesk-api/pkg/config"
	"github.com/jhoicas/opsdesk-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   "info",
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	userRepo := postgres.NewUserRepository(pool)
	customerRepo := postgres.NewCustomerRepository(pool)
	orderRepo := postgres.NewOrderRepository(pool)
	invoiceRepo := postgres.NewInvoiceRepository(pool)
	messageRepo := postgres.NewMessageRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Tabla de permisos por rol: valor inmutable, inyectado donde se necesite.
	policy := access.DefaultPolicy()

	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	customerUC := usecase.NewCustomerUseCase(customerRepo, policy)
	orderUC := usecase.NewOrderUseCase(orderRepo, customerRepo, txRunner, policy)

	pdfGenerator := infrapdf.NewMarotoPDFGenerator(cfg.App.Name)
	invoiceUC := usecase.NewInvoiceUseCase(
		invoiceRepo, orderRepo, customerRepo, txRunner, pdfGenerator, policy,
		usecase.InvoiceConfig{Prefix: cfg.Invoice.NumberPrefix},
	)
	dashboardUC := usecase.NewDashboardUseCase(orderRepo, invoiceRepo, policy, usecase.DashboardConfig{})
	messageUC := usecase.NewMessageUseCase(messageRepo, customerRepo, policy)
	teamUC := usecase.NewTeamUseCase(userRepo, policy)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "OpsDesk API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:      authUC,
		CustomerUC:  customerUC,
		OrderUC:     orderUC,
		InvoiceUC:   invoiceUC,
		DashboardUC: dashboardUC,
		MessageUC:   messageUC,
		TeamUC:      teamUC,
		Policy:      policy,
		JWTSecret:   cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
