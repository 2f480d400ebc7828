package auth

import (
	"context"
	"log/slog"
	"time"

	"github.com/simp-lee/transitdesk/internal/auth"
	"github.com/simp-lee/transitdesk/internal/domain"
	"github.com/simp-lee/transitdesk/internal/metrics"
)

// Service defines the authentication operations.
type Service interface {
	Login(ctx context.Context, email, password string) (*Session, error)
	Register(ctx context.Context, name, email, password string) (*Session, error)
	LoginWithGoogle(ctx context.Context, cred auth.GoogleCredential) (*Session, error)
	GoogleAuthURL(state string) (string, error)
	Logout(claims *auth.Claims)
}

// PasswordProvider is the email and password sign-in backend.
type PasswordProvider interface {
	SignIn(ctx context.Context, email, password string) (*auth.Identity, error)
	Register(ctx context.Context, email, password, displayName string) (*auth.Identity, error)
}

// GoogleProvider is the Google sign-in backend.
type GoogleProvider interface {
	SignIn(ctx context.Context, cred auth.GoogleCredential) (*auth.Identity, error)
	AuthCodeURL(state string) string
}

// Tokens issues and revokes session tokens.
type Tokens interface {
	Issue(id auth.Identity, role domain.UserRole) (string, time.Time, error)
	Revoke(claims *auth.Claims)
}

// Option configures the auth service.
type Option func(*authService)

// WithGoogle enables Google sign-in.
func WithGoogle(g GoogleProvider) Option {
	return func(s *authService) { s.google = g }
}

type authService struct {
	password PasswordProvider
	google   GoogleProvider
	tokens   Tokens
	users    domain.UserRepository
}

// NewService creates a new auth Service.
func NewService(password PasswordProvider, tokens Tokens, users domain.UserRepository, opts ...Option) Service {
	s := &authService{password: password, tokens: tokens, users: users}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var errGoogleDisabled = domain.NewAppError(domain.CodeForbidden, "Google sign-in is not enabled", nil)

// Login signs in with email and password.
func (s *authService) Login(ctx context.Context, email, password string) (*Session, error) {
	id, err := s.password.SignIn(ctx, email, password)
	if err != nil {
		metrics.AuthAttempts.WithLabelValues("password", "failure").Inc()
		return nil, err
	}
	return s.open(ctx, "password", *id)
}

// Register creates an email account and its customer profile, then signs in.
func (s *authService) Register(ctx context.Context, name, email, password string) (*Session, error) {
	id, err := s.password.Register(ctx, email, password, name)
	if err != nil {
		return nil, err
	}

	profile, err := s.users.Create(ctx, domain.UserInput{
		ID:          id.UID,
		Email:       id.Email,
		DisplayName: id.DisplayName,
		Role:        domain.RoleCustomer,
		IsActive:    true,
	})
	if err != nil {
		slog.ErrorContext(ctx, "profile creation failed after registration",
			slog.String("uid", id.UID), slog.Any("error", err))
		return nil, err
	}
	return s.issue(ctx, "password", *id, profile)
}

// LoginWithGoogle signs in with a Google ID token or authorization code.
func (s *authService) LoginWithGoogle(ctx context.Context, cred auth.GoogleCredential) (*Session, error) {
	if s.google == nil {
		return nil, errGoogleDisabled
	}
	id, err := s.google.SignIn(ctx, cred)
	if err != nil {
		metrics.AuthAttempts.WithLabelValues("google", "failure").Inc()
		return nil, err
	}
	return s.open(ctx, "google", *id)
}

// GoogleAuthURL returns the consent page URL for the code flow.
func (s *authService) GoogleAuthURL(state string) (string, error) {
	if s.google == nil {
		return "", errGoogleDisabled
	}
	return s.google.AuthCodeURL(state), nil
}

// Logout revokes the presented token.
func (s *authService) Logout(claims *auth.Claims) {
	s.tokens.Revoke(claims)
}

func (s *authService) open(ctx context.Context, provider string, id auth.Identity) (*Session, error) {
	profile, err := auth.ResolveProfile(ctx, s.users, id)
	if err != nil {
		metrics.AuthAttempts.WithLabelValues(provider, "failure").Inc()
		return nil, err
	}
	return s.issue(ctx, provider, id, profile)
}

func (s *authService) issue(ctx context.Context, provider string, id auth.Identity, profile *domain.AdminUser) (*Session, error) {
	if !profile.IsActive {
		metrics.AuthAttempts.WithLabelValues(provider, "failure").Inc()
		slog.InfoContext(ctx, "sign-in refused for disabled account", slog.String("uid", id.UID))
		return nil, domain.NewAppError(domain.CodeForbidden, "Account is disabled", nil)
	}

	token, exp, err := s.tokens.Issue(id, profile.Role)
	if err != nil {
		metrics.AuthAttempts.WithLabelValues(provider, "failure").Inc()
		return nil, err
	}
	metrics.AuthAttempts.WithLabelValues(provider, "success").Inc()
	return &Session{Token: token, ExpiresAt: exp.Unix(), User: profile}, nil
}
