package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/opsdesk-api/internal/application/dto"
	"github.com/jhoicas/opsdesk-api/internal/application/usecase"
)

// OrderHandler maneja las peticiones HTTP de órdenes (protegido).
type OrderHandler struct {
	uc *usecase.OrderUseCase
}

// NewOrderHandler construye el handler.
func NewOrderHandler(uc *usecase.OrderUseCase) *OrderHandler {
	return &OrderHandler{uc: uc}
}

// Create POST /api/orders
func (h *OrderHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	order, err := h.uc.Create(c.Context(), ActorFromCtx(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(order)
}

// GetByID GET /api/orders/:id
func (h *OrderHandler) GetByID(c *fiber.Ctx) error {
	order, err := h.uc.Get(ActorFromCtx(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(order)
}

// List GET /api/orders?status=pending&limit=20&offset=0
func (h *OrderHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "query inválida"})
	}
	list, err := h.uc.List(ActorFromCtx(c), c.Query("status"), page)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(list)
}

// UpdateStatus PATCH /api/orders/:id/status
func (h *OrderHandler) UpdateStatus(c *fiber.Ctx) error {
	var in dto.UpdateOrderStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	order, err := h.uc.UpdateStatus(c.Context(), ActorFromCtx(c), c.Params("id"), in.Status)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(order)
}

// UpdatePaymentStatus PATCH /api/orders/:id/payment-status
func (h *OrderHandler) UpdatePaymentStatus(c *fiber.Ctx) error {
	var in dto.UpdatePaymentStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	order, err := h.uc.UpdatePaymentStatus(c.Context(), ActorFromCtx(c), c.Params("id"), in.PaymentStatus)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(order)
}

// AddItem POST /api/orders/:id/items
func (h *OrderHandler) AddItem(c *fiber.Ctx) error {
	var in dto.OrderItemRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	order, err := h.uc.AddItem(c.Context(), ActorFromCtx(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(order)
}

// UpdateItem PUT /api/orders/:id/items/:index
func (h *OrderHandler) UpdateItem(c *fiber.Ctx) error {
	index, err := strconv.Atoi(c.Params("index"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "index inválido"})
	}
	var in dto.OrderItemRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	order, err := h.uc.UpdateItem(c.Context(), ActorFromCtx(c), c.Params("id"), index, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(order)
}

// RemoveItem DELETE /api/orders/:id/items/:index
func (h *OrderHandler) RemoveItem(c *fiber.Ctx) error {
	index, err := strconv.Atoi(c.Params("index"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "index inválido"})
	}
	order, err := h.uc.RemoveItem(c.Context(), ActorFromCtx(c), c.Params("id"), index)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(order)
}

// Claim POST /api/orders/:id/claim
func (h *OrderHandler) Claim(c *fiber.Ctx) error {
	order, err := h.uc.Claim(c.Context(), ActorFromCtx(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(order)
}

// Delete DELETE /api/orders/:id
func (h *OrderHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(ActorFromCtx(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
