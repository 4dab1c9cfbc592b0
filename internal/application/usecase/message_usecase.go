package usecase

import (
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/opsdesk-api/internal/application/dto"
	"github.com/jhoicas/opsdesk-api/internal/domain"
	"github.com/jhoicas/opsdesk-api/internal/domain/access"
	"github.com/jhoicas/opsdesk-api/internal/domain/assignment"
	"github.com/jhoicas/opsdesk-api/internal/domain/entity"
	"github.com/jhoicas/opsdesk-api/internal/domain/repository"
)

// MessageUseCase mensajería por cliente (whatsapp / email). El canal de un
// cliente es visible para quien lo tiene asignado o para quien ve todos los
// canales.
type MessageUseCase struct {
	messageRepo  repository.MessageRepository
	customerRepo repository.CustomerRepository
	policy       *access.Policy
}

// NewMessageUseCase construye el caso de uso.
func NewMessageUseCase(
	messageRepo repository.MessageRepository,
	customerRepo repository.CustomerRepository,
	policy *access.Policy,
) *MessageUseCase {
	return &MessageUseCase{
		messageRepo:  messageRepo,
		customerRepo: customerRepo,
		policy:       policy,
	}
}

// Send registra un mensaje saliente en el canal del cliente.
func (uc *MessageUseCase) Send(actor assignment.Actor, customerID string, in dto.SendMessageRequest) (*dto.MessageResponse, error) {
	if !uc.policy.HasPermission(actor.Role, access.PermSendMessages) {
		return nil, domain.ErrForbidden
	}
	if in.Channel != entity.ChannelWhatsApp && in.Channel != entity.ChannelEmail {
		return nil, domain.ErrInvalidInput
	}
	if in.Body == "" {
		return nil, domain.ErrInvalidInput
	}
	customer, err := uc.visibleCustomer(actor, customerID)
	if err != nil {
		return nil, err
	}
	msg := &entity.Message{
		ID:         uuid.New().String(),
		CustomerID: customer.ID,
		SenderID:   actor.ID,
		Channel:    in.Channel,
		Body:       in.Body,
		SentAt:     time.Now(),
	}
	if err := uc.messageRepo.Create(msg); err != nil {
		return nil, err
	}
	return toMessageResponse(msg), nil
}

// ListByCustomer devuelve el historial del canal de un cliente.
func (uc *MessageUseCase) ListByCustomer(actor assignment.Actor, customerID string, page dto.PageRequest) ([]*dto.MessageResponse, error) {
	if _, err := uc.visibleCustomer(actor, customerID); err != nil {
		return nil, err
	}
	page.DefaultPage()
	list, err := uc.messageRepo.ListByCustomer(customerID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.MessageResponse, 0, len(list))
	for _, m := range list {
		out = append(out, toMessageResponse(m))
	}
	return out, nil
}

// visibleCustomer resuelve si el actor puede ver el canal del cliente:
// view_all_channels lo ve siempre; view_assigned_channels exige asignación.
func (uc *MessageUseCase) visibleCustomer(actor assignment.Actor, customerID string) (*entity.Customer, error) {
	customer, err := uc.customerRepo.GetByID(customerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, domain.ErrNotFound
	}
	if uc.policy.HasPermission(actor.Role, access.PermViewAllChannels) {
		return customer, nil
	}
	if !uc.policy.HasPermission(actor.Role, access.PermViewAssignedChannels) {
		return nil, domain.ErrForbidden
	}
	if !assignment.CanActOn(actor, customer, assignment.ActionView) {
		return nil, domain.ErrForbidden
	}
	return customer, nil
}

func toMessageResponse(m *entity.Message) *dto.MessageResponse {
	return &dto.MessageResponse{
		ID:         m.ID,
		CustomerID: m.CustomerID,
		SenderID:   m.SenderID,
		Channel:    m.Channel,
		Body:       m.Body,
		SentAt:     m.SentAt,
	}
}
