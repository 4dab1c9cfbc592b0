package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/opsdesk-api/internal/application/dto"
	"github.com/jhoicas/opsdesk-api/internal/application/usecase"
)

// MessageHandler maneja la mensajería por cliente (protegido).
type MessageHandler struct {
	uc *usecase.MessageUseCase
}

// NewMessageHandler construye el handler.
func NewMessageHandler(uc *usecase.MessageUseCase) *MessageHandler {
	return &MessageHandler{uc: uc}
}

// Send POST /api/messages/customers/:customerId
func (h *MessageHandler) Send(c *fiber.Ctx) error {
	var in dto.SendMessageRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	msg, err := h.uc.Send(ActorFromCtx(c), c.Params("customerId"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(msg)
}

// ListByCustomer GET /api/messages/customers/:customerId?limit=20&offset=0
func (h *MessageHandler) ListByCustomer(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "query inválida"})
	}
	list, err := h.uc.ListByCustomer(ActorFromCtx(c), c.Params("customerId"), page)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(list)
}
