package usecase

import (
	"time"

	"github.com/jhoicas/opsdesk-api/internal/application/dto"
	"github.com/jhoicas/opsdesk-api/internal/domain"
	"github.com/jhoicas/opsdesk-api/internal/domain/access"
	"github.com/jhoicas/opsdesk-api/internal/domain/assignment"
	"github.com/jhoicas/opsdesk-api/internal/domain/entity"
	"github.com/jhoicas/opsdesk-api/internal/domain/repository"
)

// TeamUseCase administración del equipo. Exclusivo de Admin: listar usuarios
// y activar/desactivar cuentas. El rol se fija en el registro y no se edita.
type TeamUseCase struct {
	userRepo repository.UserRepository
	policy   *access.Policy
}

// NewTeamUseCase construye el caso de uso.
func NewTeamUseCase(userRepo repository.UserRepository, policy *access.Policy) *TeamUseCase {
	return &TeamUseCase{userRepo: userRepo, policy: policy}
}

// List lista los usuarios del equipo.
func (uc *TeamUseCase) List(actor assignment.Actor, page dto.PageRequest) ([]*dto.UserResponse, error) {
	if !uc.policy.HasPermission(actor.Role, access.PermManageTeam) {
		return nil, domain.ErrForbidden
	}
	page.DefaultPage()
	list, err := uc.userRepo.List(page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.UserResponse, 0, len(list))
	for _, u := range list {
		out = append(out, toTeamUserResponse(u))
	}
	return out, nil
}

// SetStatus activa o desactiva una cuenta. Un Admin no puede desactivarse a
// sí mismo.
func (uc *TeamUseCase) SetStatus(actor assignment.Actor, userID, status string) (*dto.UserResponse, error) {
	if !uc.policy.HasPermission(actor.Role, access.PermManageTeam) {
		return nil, domain.ErrForbidden
	}
	if status != entity.UserStatusActive && status != entity.UserStatusInactive {
		return nil, domain.ErrInvalidInput
	}
	if userID == actor.ID && status == entity.UserStatusInactive {
		return nil, domain.ErrInvalidInput
	}
	user, err := uc.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	user.Status = status
	user.UpdatedAt = time.Now()
	if err := uc.userRepo.Update(user); err != nil {
		return nil, err
	}
	return toTeamUserResponse(user), nil
}

func toTeamUserResponse(u *entity.User) *dto.UserResponse {
	return &dto.UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      u.Role,
		Status:    u.Status,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
