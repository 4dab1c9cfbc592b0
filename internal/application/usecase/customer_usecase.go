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

// CustomerUseCase casos de uso de clientes. Toda mutación pasa primero por la
// tabla de permisos y por el resolutor de asignación.
type CustomerUseCase struct {
	repo   repository.CustomerRepository
	policy *access.Policy
}

// NewCustomerUseCase construye el caso de uso.
func NewCustomerUseCase(repo repository.CustomerRepository, policy *access.Policy) *CustomerUseCase {
	return &CustomerUseCase{repo: repo, policy: policy}
}

// Create crea un cliente. Un Admin puede dejarlo sin asignar (o asignarlo a
// alguien); un Assistant lo crea auto-asignado a sí mismo.
func (uc *CustomerUseCase) Create(actor assignment.Actor, in dto.CreateCustomerRequest) (*dto.CustomerResponse, error) {
	if !uc.policy.HasPermission(actor.Role, access.PermEditCustomers) {
		return nil, domain.ErrForbidden
	}
	if in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	assignedTo := in.AssignedTo
	if actor.Role == entity.RoleAssistant {
		assignedTo = actor.ID
	}
	now := time.Now()
	customer := &entity.Customer{
		ID:         uuid.New().String(),
		Name:       in.Name,
		Email:      in.Email,
		Phone:      in.Phone,
		AssignedTo: assignedTo,
		Status:     entity.CustomerStatusActive,
		CreatedBy:  actor.ID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := uc.repo.Create(customer); err != nil {
		return nil, err
	}
	return toCustomerResponse(customer), nil
}

// Get devuelve un cliente si el actor puede verlo.
func (uc *CustomerUseCase) Get(actor assignment.Actor, id string) (*dto.CustomerResponse, error) {
	customer, err := uc.getOwned(actor, id, assignment.ActionView)
	if err != nil {
		return nil, err
	}
	return toCustomerResponse(customer), nil
}

// List lista clientes: todos para quien tiene view_all_customers, solo los
// asignados para el resto.
func (uc *CustomerUseCase) List(actor assignment.Actor, page dto.PageRequest) ([]*dto.CustomerResponse, error) {
	page.DefaultPage()
	filter := repository.CustomerFilter{Limit: page.Limit, Offset: page.Offset}
	if !uc.policy.HasPermission(actor.Role, access.PermViewAllCustomers) {
		filter.AssignedTo = actor.ID
	}
	list, err := uc.repo.List(filter)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.CustomerResponse, 0, len(list))
	for _, c := range list {
		out = append(out, toCustomerResponse(c))
	}
	return out, nil
}

// Update edita campos de contacto. La reasignación (AssignedTo) es exclusiva
// de Admin y siempre procede: el bypass de Admin no depende de la asignación.
func (uc *CustomerUseCase) Update(actor assignment.Actor, id string, in dto.UpdateCustomerRequest) (*dto.CustomerResponse, error) {
	if !uc.policy.HasPermission(actor.Role, access.PermEditCustomers) {
		return nil, domain.ErrForbidden
	}
	customer, err := uc.getOwned(actor, id, assignment.ActionEdit)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		if *in.Name == "" {
			return nil, domain.ErrInvalidInput
		}
		customer.Name = *in.Name
	}
	if in.Email != nil {
		customer.Email = *in.Email
	}
	if in.Phone != nil {
		customer.Phone = *in.Phone
	}
	if in.AssignedTo != nil {
		if actor.Role != entity.RoleAdmin {
			return nil, domain.ErrForbidden
		}
		customer.AssignedTo = *in.AssignedTo
	}
	customer.UpdatedAt = time.Now()
	if err := uc.repo.Update(customer); err != nil {
		return nil, err
	}
	return toCustomerResponse(customer), nil
}

// Delete borra lógicamente (status = inactive). Exclusivo de Admin sin
// importar la asignación; un Assistant nunca borra clientes.
func (uc *CustomerUseCase) Delete(actor assignment.Actor, id string) error {
	if !uc.policy.HasPermission(actor.Role, access.PermDeleteCustomers) {
		return domain.ErrForbidden
	}
	customer, err := uc.getOwned(actor, id, assignment.ActionDelete)
	if err != nil {
		return err
	}
	customer.Status = entity.CustomerStatusInactive
	customer.UpdatedAt = time.Now()
	return uc.repo.Update(customer)
}

// Claim toma un cliente sin asignar. Idempotente para el mismo actor;
// reclamar el registro asignado a otro falla con acceso denegado.
func (uc *CustomerUseCase) Claim(actor assignment.Actor, id string) (*dto.CustomerResponse, error) {
	customer, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, domain.ErrNotFound
	}
	before := customer.AssignedTo
	if err := assignment.Claim(actor, customer); err != nil {
		return nil, err
	}
	if customer.AssignedTo != before {
		customer.UpdatedAt = time.Now()
		if err := uc.repo.Update(customer); err != nil {
			return nil, err
		}
	}
	return toCustomerResponse(customer), nil
}

// getOwned obtiene el cliente y verifica la regla de asignación para la acción.
func (uc *CustomerUseCase) getOwned(actor assignment.Actor, id string, action assignment.Action) (*entity.Customer, error) {
	customer, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, domain.ErrNotFound
	}
	if !assignment.CanActOn(actor, customer, action) {
		return nil, domain.ErrForbidden
	}
	return customer, nil
}

func toCustomerResponse(c *entity.Customer) *dto.CustomerResponse {
	return &dto.CustomerResponse{
		ID:         c.ID,
		Name:       c.Name,
		Email:      c.Email,
		Phone:      c.Phone,
		AssignedTo: c.AssignedTo,
		Status:     c.Status,
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
	}
}
