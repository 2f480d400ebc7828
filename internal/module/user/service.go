package user

import (
	"context"

	"github.com/simp-lee/transitdesk/internal/domain"
)

// userService implements domain.UserService.
type userService struct {
	repo domain.UserRepository
}

// NewUserService creates a new UserService with the given repository.
func NewUserService(repo domain.UserRepository) domain.UserService {
	return &userService{repo: repo}
}

// ListUsers returns one page of profiles, newest first.
func (s *userService) ListUsers(ctx context.Context, filters domain.UserFilters, req domain.PageRequest) (*domain.Page[domain.AdminUser], error) {
	if filters.Role != "" && !filters.Role.Valid() {
		return nil, domain.NewValidationError(domain.FieldErrors{"role": "unknown role"})
	}
	return s.repo.GetAll(ctx, filters, req)
}

// GetUser retrieves a profile by uid.
func (s *userService) GetUser(ctx context.Context, id string) (*domain.AdminUser, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.NewAppError(domain.CodeNotFound, "user not found", nil)
	}
	return u, nil
}

// CreateUser validates input and persists the profile. Reusing an existing
// uid is rejected.
func (s *userService) CreateUser(ctx context.Context, in domain.UserInput) (*domain.AdminUser, error) {
	in, err := domain.ValidateUserInput(in)
	if err != nil {
		return nil, err
	}
	return s.repo.Create(ctx, in)
}

// UpdateUser validates the patch and merges it into the stored profile.
func (s *userService) UpdateUser(ctx context.Context, id string, patch domain.UserPatch) (*domain.AdminUser, error) {
	patch, err := domain.ValidateUserPatch(patch)
	if err != nil {
		return nil, err
	}
	return s.repo.Update(ctx, id, patch)
}

// SetRole changes only the role field.
func (s *userService) SetRole(ctx context.Context, id string, role domain.UserRole) (*domain.AdminUser, error) {
	if !role.Valid() {
		return nil, domain.NewValidationError(domain.FieldErrors{"role": "Role must be admin, agent, or customer"})
	}
	if err := s.repo.UpdateRole(ctx, id, role); err != nil {
		return nil, err
	}
	return s.reread(ctx, id)
}

// SetActive changes only the soft-delete flag.
func (s *userService) SetActive(ctx context.Context, id string, active bool) (*domain.AdminUser, error) {
	if err := s.repo.UpdateActive(ctx, id, active); err != nil {
		return nil, err
	}
	return s.reread(ctx, id)
}

// DeleteUser removes a profile. The sign-in identity is left alone.
func (s *userService) DeleteUser(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func (s *userService) reread(ctx context.Context, id string) (*domain.AdminUser, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.NewRetrievalError("Failed to retrieve updated user")
	}
	return u, nil
}
