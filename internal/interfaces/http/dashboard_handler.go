package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/opsdesk-api/internal/application/usecase"
)

// DashboardHandler maneja el resumen del dashboard (protegido).
type DashboardHandler struct {
	uc *usecase.DashboardUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *usecase.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// Summary GET /api/dashboard
func (h *DashboardHandler) Summary(c *fiber.Ctx) error {
	summary, err := h.uc.Summary(ActorFromCtx(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(summary)
}
