package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/mail"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/simp-lee/transitdesk/internal/docstore"
	"github.com/simp-lee/transitdesk/internal/domain"
	"github.com/simp-lee/transitdesk/internal/pkg"
)

const credentialsCollection = "credentials"

// PasswordProvider signs identities in with an email and password. Hashes
// live in the "credentials" collection, one document per normalised email.
type PasswordProvider struct {
	client docstore.Client
	cost   int
}

// PasswordOption configures a PasswordProvider.
type PasswordOption func(*PasswordProvider)

// WithCost sets the bcrypt cost used for new hashes.
func WithCost(cost int) PasswordOption {
	return func(p *PasswordProvider) { p.cost = cost }
}

// NewPasswordProvider creates a PasswordProvider over client.
func NewPasswordProvider(client docstore.Client, opts ...PasswordOption) *PasswordProvider {
	p := &PasswordProvider{client: client, cost: bcrypt.DefaultCost}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// credentialID maps an email to a stable document id that is safe for any
// backend.
func credentialID(email string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("mailto:"+strings.ToLower(strings.TrimSpace(email)))).String()
}

// SignIn verifies email and password. Unknown emails and wrong passwords are
// indistinguishable to the caller.
func (p *PasswordProvider) SignIn(ctx context.Context, email, password string) (*Identity, error) {
	doc, err := p.client.Get(ctx, credentialsCollection, credentialID(email))
	if errors.Is(err, docstore.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		slog.ErrorContext(ctx, "credential lookup failed", slog.Any("error", err))
		return nil, domain.NewStorageError("Sign-in failed", err)
	}

	d := pkg.Doc(doc.Data)
	if err := bcrypt.CompareHashAndPassword([]byte(d.String("passwordHash")), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return &Identity{
		UID:         d.String("uid"),
		Email:       d.String("email"),
		DisplayName: d.String("displayName"),
	}, nil
}

// Register creates a credential for a new email and returns its identity.
func (p *PasswordProvider) Register(ctx context.Context, email, password, displayName string) (*Identity, error) {
	email = strings.TrimSpace(email)
	displayName = strings.TrimSpace(displayName)

	fe := domain.FieldErrors{}
	if addr, err := mail.ParseAddress(email); err != nil || addr.Name != "" || addr.Address != email {
		fe["email"] = "Email must be a valid email address"
	}
	if len(password) < 8 {
		fe["password"] = "Password must be at least 8 characters"
	} else if len(password) > 72 {
		fe["password"] = "Password must not exceed 72 characters"
	}
	if err := domain.NewValidationError(fe); err != nil {
		return nil, err
	}

	id := credentialID(email)
	_, err := p.client.Get(ctx, credentialsCollection, id)
	switch {
	case err == nil:
		return nil, errEmailTaken(nil)
	case !errors.Is(err, docstore.ErrNotFound):
		slog.ErrorContext(ctx, "credential lookup failed", slog.Any("error", err))
		return nil, domain.NewStorageError("Registration failed", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), p.cost)
	if err != nil {
		return nil, domain.NewAppError(domain.CodeInternal, "failed to hash password", err)
	}

	ident := &Identity{UID: uuid.NewString(), Email: email, DisplayName: displayName}
	// Create fails if a concurrent registration got here first.
	err = p.client.Create(ctx, credentialsCollection, id, map[string]any{
		"uid":          ident.UID,
		"email":        ident.Email,
		"displayName":  ident.DisplayName,
		"passwordHash": string(hash),
		"createdAt":    docstore.ServerTimestamp,
	})
	if errors.Is(err, docstore.ErrAlreadyExists) {
		return nil, errEmailTaken(err)
	}
	if err != nil {
		slog.ErrorContext(ctx, "credential write failed", slog.Any("error", err))
		return nil, domain.NewStorageError("Registration failed", err)
	}
	return ident, nil
}

func errEmailTaken(cause error) error {
	return domain.NewAppError(domain.CodeAlreadyExists, "Email already registered", cause)
}
