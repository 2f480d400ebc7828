package user

import "github.com/simp-lee/transitdesk/internal/domain"

// CreateUserRequest represents the input for creating a user profile.
type CreateUserRequest struct {
	ID          string `json:"id" binding:"omitempty,max=128"`
	Email       string `json:"email" binding:"required,email"`
	DisplayName string `json:"display_name" binding:"max=100"`
	Role        string `json:"role" binding:"omitempty,oneof=admin agent customer"`
	IsActive    *bool  `json:"is_active"`
}

func (r CreateUserRequest) input() domain.UserInput {
	active := true
	if r.IsActive != nil {
		active = *r.IsActive
	}
	return domain.UserInput{
		ID:          r.ID,
		Email:       r.Email,
		DisplayName: r.DisplayName,
		Role:        domain.UserRole(r.Role),
		IsActive:    active,
	}
}

// UpdateUserRequest is a merge patch; omitted fields are left untouched.
type UpdateUserRequest struct {
	Email       *string `json:"email" binding:"omitempty,email"`
	DisplayName *string `json:"display_name" binding:"omitempty,max=100"`
	Role        *string `json:"role" binding:"omitempty,oneof=admin agent customer"`
	IsActive    *bool   `json:"is_active"`
}

func (r UpdateUserRequest) patch() domain.UserPatch {
	p := domain.UserPatch{
		Email:       r.Email,
		DisplayName: r.DisplayName,
		IsActive:    r.IsActive,
	}
	if r.Role != nil {
		role := domain.UserRole(*r.Role)
		p.Role = &role
	}
	return p
}

// SetRoleRequest changes a user's role.
type SetRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=admin agent customer"`
}

// SetActiveRequest toggles the soft-delete flag.
type SetActiveRequest struct {
	IsActive *bool `json:"is_active" binding:"required"`
}
