package domain

import (
	"context"
	"net/mail"
	"strings"
	"unicode/utf8"
)

// UserRole is the access level of an admin-panel user.
type UserRole string

const (
	RoleAdmin    UserRole = "admin"
	RoleAgent    UserRole = "agent"
	RoleCustomer UserRole = "customer"
)

// Valid reports whether r is one of the known roles.
func (r UserRole) Valid() bool {
	switch r {
	case RoleAdmin, RoleAgent, RoleCustomer:
		return true
	}
	return false
}

// CanAccessAdmin reports whether r may use the admin panel at all.
func (r UserRole) CanAccessAdmin() bool {
	return r == RoleAdmin || r == RoleAgent
}

// AdminUser is the profile document kept for every signed-in identity.
// The document id is the identity's uid.
type AdminUser struct {
	Entity
	Email       string   `json:"email"`
	DisplayName string   `json:"display_name"`
	Role        UserRole `json:"role"`
}

// UserFilters narrows a user listing. Zero-valued fields are not applied.
type UserFilters struct {
	Role     UserRole
	IsActive *bool
}

// UserInput is the full payload for creating a user profile. ID is the uid
// issued by the authentication provider; when empty the store assigns one.
type UserInput struct {
	ID          string
	Email       string
	DisplayName string
	Role        UserRole
	IsActive    bool
}

// UserPatch is a merge patch: nil fields are left untouched.
type UserPatch struct {
	Email       *string
	DisplayName *string
	Role        *UserRole
	IsActive    *bool
}

// UserRepository defines the data access interface for user profiles.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*AdminUser, error)
	GetAll(ctx context.Context, filters UserFilters, req PageRequest) (*Page[AdminUser], error)
	Create(ctx context.Context, in UserInput) (*AdminUser, error)
	Update(ctx context.Context, id string, patch UserPatch) (*AdminUser, error)
	Delete(ctx context.Context, id string) error
	UpdateRole(ctx context.Context, id string, role UserRole) error
	UpdateActive(ctx context.Context, id string, active bool) error
}

// UserService defines the business logic interface for user management.
type UserService interface {
	ListUsers(ctx context.Context, filters UserFilters, req PageRequest) (*Page[AdminUser], error)
	GetUser(ctx context.Context, id string) (*AdminUser, error)
	CreateUser(ctx context.Context, in UserInput) (*AdminUser, error)
	UpdateUser(ctx context.Context, id string, patch UserPatch) (*AdminUser, error)
	SetRole(ctx context.Context, id string, role UserRole) (*AdminUser, error)
	SetActive(ctx context.Context, id string, active bool) (*AdminUser, error)
	DeleteUser(ctx context.Context, id string) error
}

const roleMessage = "Role must be admin, agent, or customer"

// ValidateUserInput trims the input and checks email, name length and role.
func ValidateUserInput(in UserInput) (UserInput, error) {
	in.ID = strings.TrimSpace(in.ID)
	in.Email = strings.TrimSpace(in.Email)
	in.DisplayName = strings.TrimSpace(in.DisplayName)
	if in.Role == "" {
		in.Role = RoleCustomer
	}

	fe := FieldErrors{}
	if in.Email == "" {
		fe["email"] = "Email is required"
	} else if !validEmail(in.Email) {
		fe["email"] = "Email must be a valid email address"
	}
	if utf8.RuneCountInString(in.DisplayName) > 100 {
		fe["display_name"] = "Display name must be at most 100 characters"
	}
	if !in.Role.Valid() {
		fe["role"] = roleMessage
	}
	if err := NewValidationError(fe); err != nil {
		return in, err
	}
	return in, nil
}

// ValidateUserPatch checks the present fields.
func ValidateUserPatch(p UserPatch) (UserPatch, error) {
	fe := FieldErrors{}
	if p.Email != nil {
		email := strings.TrimSpace(*p.Email)
		p.Email = &email
		if !validEmail(email) {
			fe["email"] = "Email must be a valid email address"
		}
	}
	trimOptional(&p.DisplayName)
	if p.DisplayName != nil && utf8.RuneCountInString(*p.DisplayName) > 100 {
		fe["display_name"] = "Display name must be at most 100 characters"
	}
	if p.Role != nil && !p.Role.Valid() {
		fe["role"] = roleMessage
	}
	if err := NewValidationError(fe); err != nil {
		return p, err
	}
	return p, nil
}

func validEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Name == "" && addr.Address == email
}
