package auth

import (
	"errors"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/simp-lee/transitdesk/internal/domain"
)

// Claims is the payload of a session token. The subject is the uid.
type Claims struct {
	Email string          `json:"email,omitempty"`
	Name  string          `json:"name,omitempty"`
	Role  domain.UserRole `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// Identity returns the identity the claims were issued for.
func (c *Claims) Identity() Identity {
	return Identity{UID: c.Subject, Email: c.Email, DisplayName: c.Name}
}

// TokenService issues and verifies HS256 session tokens. Revoked token ids
// are remembered in memory until the token would have expired anyway.
type TokenService struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time

	mu      sync.Mutex
	revoked map[string]time.Time
}

// NewTokenService creates a TokenService. secret must be at least 32 bytes.
func NewTokenService(secret, issuer string, ttl time.Duration) (*TokenService, error) {
	if len(secret) < 32 {
		return nil, errors.New("jwt secret must be at least 32 bytes")
	}
	if ttl <= 0 {
		return nil, errors.New("token expiry must be positive")
	}
	return &TokenService{
		secret:  []byte(secret),
		issuer:  issuer,
		ttl:     ttl,
		now:     time.Now,
		revoked: make(map[string]time.Time),
	}, nil
}

// Issue signs a token for id carrying role.
func (s *TokenService) Issue(id Identity, role domain.UserRole) (string, time.Time, error) {
	now := s.now()
	exp := now.Add(s.ttl)
	claims := Claims{
		Email: id.Email,
		Name:  id.DisplayName,
		Role:  role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   id.UID,
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, domain.NewAppError(domain.CodeInternal, "failed to sign token", err)
	}
	return signed, exp, nil
}

// Parse verifies token and returns its claims. Any failure, including a
// revoked token, is reported as unauthorized.
func (s *TokenService) Parse(token string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, domain.NewAppError(domain.CodeUnauthorized, "invalid or expired token", err)
	}
	if claims.Subject == "" {
		return nil, domain.NewAppError(domain.CodeUnauthorized, "invalid or expired token", nil)
	}

	s.mu.Lock()
	_, revoked := s.revoked[claims.ID]
	s.mu.Unlock()
	if revoked {
		return nil, domain.NewAppError(domain.CodeUnauthorized, "token has been revoked", nil)
	}
	return claims, nil
}

// Revoke invalidates the token described by claims.
func (s *TokenService) Revoke(claims *Claims) {
	if claims == nil || claims.ID == "" {
		return
	}
	exp := s.now().Add(s.ttl)
	if claims.ExpiresAt != nil {
		exp = claims.ExpiresAt.Time
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	for id, until := range s.revoked {
		if now.After(until) {
			delete(s.revoked, id)
		}
	}
	s.revoked[claims.ID] = exp
}
