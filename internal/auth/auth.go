// Package auth signs identities in and issues the session tokens that the
// HTTP API and the admin console use to carry them.
package auth

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/simp-lee/transitdesk/internal/domain"
)

// Identity is what a sign-in provider vouches for.
type Identity struct {
	UID         string `json:"uid"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
}

// ErrInvalidCredentials is returned for an unknown email or a wrong password.
var ErrInvalidCredentials = &domain.AppError{Code: domain.CodeUnauthorized, Message: "Invalid email or password"}

// ProfileSource reads profile documents by uid.
type ProfileSource interface {
	GetByID(ctx context.Context, id string) (*domain.AdminUser, error)
}

// ResolveProfile loads the stored profile for id. An identity without a
// profile document gets an active customer profile built from the identity
// itself; nothing is written.
func ResolveProfile(ctx context.Context, profiles ProfileSource, id Identity) (*domain.AdminUser, error) {
	p, err := profiles.GetByID(ctx, id.UID)
	if err != nil {
		return nil, err
	}
	if p != nil {
		return p, nil
	}
	return &domain.AdminUser{
		Entity:      domain.Entity{ID: id.UID, IsActive: true},
		Email:       id.Email,
		DisplayName: id.DisplayName,
		Role:        domain.RoleCustomer,
	}, nil
}

// Principal is an authenticated caller: its verified claims and current
// profile.
type Principal struct {
	Claims  *Claims
	Profile *domain.AdminUser
}

const principalKey = "auth.principal"

// SetPrincipal attaches p to the request.
func SetPrincipal(c *gin.Context, p *Principal) {
	c.Set(principalKey, p)
}

// PrincipalFrom returns the principal attached by SetPrincipal.
func PrincipalFrom(c *gin.Context) (*Principal, bool) {
	v, ok := c.Get(principalKey)
	if !ok {
		return nil, false
	}
	p, ok := v.(*Principal)
	return p, ok && p != nil
}
