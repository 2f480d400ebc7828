package store

import (
	"context"
	"sync"

	"github.com/simp-lee/transitdesk/internal/auth"
	"github.com/simp-lee/transitdesk/internal/domain"
	"github.com/simp-lee/transitdesk/internal/guard"
	authmod "github.com/simp-lee/transitdesk/internal/module/auth"
)

// Authenticator signs identities in and out.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (*authmod.Session, error)
	LoginWithGoogle(ctx context.Context, cred auth.GoogleCredential) (*authmod.Session, error)
	Logout(claims *auth.Claims)
}

// TokenParser verifies a session token.
type TokenParser interface {
	Parse(token string) (*auth.Claims, error)
}

// AuthStore holds the signed-in identity, its profile and the session token.
type AuthStore struct {
	authn    Authenticator
	tokens   TokenParser
	profiles auth.ProfileSource

	mu      sync.Mutex
	user    *auth.Identity
	profile *domain.AdminUser
	token   string
	claims  *auth.Claims
	loading bool
	err     string

	subMu  sync.Mutex
	nextID int
	subs   map[int]func(*auth.Identity)
}

// NewAuthStore creates a signed-out AuthStore.
func NewAuthStore(authn Authenticator, tokens TokenParser, profiles auth.ProfileSource) *AuthStore {
	return &AuthStore{
		authn:    authn,
		tokens:   tokens,
		profiles: profiles,
		subs:     make(map[int]func(*auth.Identity)),
	}
}

// Subscribe registers fn for "current user changed" notifications. fn
// receives nil on sign-out. The returned func unsubscribes.
func (s *AuthStore) Subscribe(fn func(*auth.Identity)) func() {
	s.subMu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

func (s *AuthStore) notify(user *auth.Identity) {
	s.subMu.Lock()
	fns := make([]func(*auth.Identity), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn(clone(user))
	}
}

// LoginWithEmail signs in with email and password.
func (s *AuthStore) LoginWithEmail(ctx context.Context, email, password string) Result[domain.AdminUser] {
	return s.login(func() (*authmod.Session, error) {
		return s.authn.Login(ctx, email, password)
	}, "Login failed")
}

// LoginWithGoogle signs in with a Google ID token or authorization code.
func (s *AuthStore) LoginWithGoogle(ctx context.Context, cred auth.GoogleCredential) Result[domain.AdminUser] {
	return s.login(func() (*authmod.Session, error) {
		return s.authn.LoginWithGoogle(ctx, cred)
	}, "Google login failed")
}

func (s *AuthStore) login(open func() (*authmod.Session, error), fallback string) Result[domain.AdminUser] {
	s.begin()

	sess, err := open()
	var claims *auth.Claims
	if err == nil {
		claims, err = s.tokens.Parse(sess.Token)
	}

	s.mu.Lock()
	s.loading = false
	if err != nil {
		s.err = domain.Message(err, fallback)
		s.mu.Unlock()
		return failed[domain.AdminUser](err, fallback)
	}
	id := claims.Identity()
	s.user = &id
	s.claims = claims
	s.token = sess.Token
	s.profile = clone(sess.User)
	s.mu.Unlock()

	s.notify(&id)
	return ok(clone(sess.User))
}

// Logout revokes the session and clears all identity state.
func (s *AuthStore) Logout() {
	s.mu.Lock()
	claims := s.claims
	wasSignedIn := s.user != nil
	s.user, s.profile, s.claims, s.token, s.err = nil, nil, nil, "", ""
	s.mu.Unlock()

	if claims != nil {
		s.authn.Logout(claims)
	}
	if wasSignedIn {
		s.notify(nil)
	}
}

// FetchUserProfile reloads the signed-in user's profile. A missing profile
// document yields the default customer profile.
func (s *AuthStore) FetchUserProfile(ctx context.Context) Result[domain.AdminUser] {
	s.mu.Lock()
	user := clone(s.user)
	s.mu.Unlock()
	if user == nil {
		return Result[domain.AdminUser]{Error: "Not signed in"}
	}

	s.begin()
	profile, err := auth.ResolveProfile(ctx, s.profiles, *user)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		s.err = domain.Message(err, "Failed to load user profile")
		return failed[domain.AdminUser](err, "Failed to load user profile")
	}
	s.profile = clone(profile)
	return ok(profile)
}

func (s *AuthStore) begin() {
	s.mu.Lock()
	s.loading = true
	s.err = ""
	s.mu.Unlock()
}

// User returns the signed-in identity, or nil.
func (s *AuthStore) User() *auth.Identity {
	s.mu.Lock()
	defer s.mu.Unlock()
	return clone(s.user)
}

// Profile returns the signed-in user's profile, or nil.
func (s *AuthStore) Profile() *domain.AdminUser {
	s.mu.Lock()
	defer s.mu.Unlock()
	return clone(s.profile)
}

// Token returns the bearer token of the current session.
func (s *AuthStore) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

func (s *AuthStore) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

func (s *AuthStore) Error() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *AuthStore) IsAuthenticated() bool { return s.GuardState().Authenticated }
func (s *AuthStore) IsAdmin() bool         { return s.GuardState().IsAdmin() }
func (s *AuthStore) CanAccessAdmin() bool  { return s.GuardState().CanAccessAdmin() }

func (s *AuthStore) IsAgent() bool {
	st := s.GuardState()
	return st.Authenticated && st.Role == domain.RoleAgent
}

// GuardState reports the auth state consumed by the route guard.
func (s *AuthStore) GuardState() guard.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := guard.State{Loading: s.loading, Authenticated: s.user != nil}
	if s.profile != nil {
		st.Role = s.profile.Role
	}
	return st
}
