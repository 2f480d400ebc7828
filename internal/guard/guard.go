// Package guard decides whether a caller may reach a path, and where to send
// them when they may not.
package guard

import "github.com/simp-lee/transitdesk/internal/domain"

// Well-known redirect targets.
const (
	LoginPath     = "/login"
	HomePath      = "/"
	ForbiddenPath = "/403"
)

var publicPaths = map[string]bool{LoginPath: true}

// IsPublic reports whether path is reachable without signing in.
func IsPublic(path string) bool {
	return publicPaths[path]
}

// Meta carries the access flags attached to a path.
type Meta struct {
	RequiresAdmin bool
	RequiresAgent bool
}

// State is the caller's authentication state as seen by the guard.
type State struct {
	Loading       bool
	Authenticated bool
	Role          domain.UserRole
}

// IsAdmin reports whether the caller is a signed-in admin.
func (s State) IsAdmin() bool {
	return s.Authenticated && s.Role == domain.RoleAdmin
}

// CanAccessAdmin reports whether the caller is a signed-in admin or agent.
func (s State) CanAccessAdmin() bool {
	return s.Authenticated && s.Role.CanAccessAdmin()
}

// Decision is the outcome of a guard check. An empty Redirect allows the
// navigation.
type Decision struct {
	Redirect string
}

// Allow is the decision that lets the navigation through.
var Allow = Decision{}

// Allowed reports whether d lets the navigation through.
func (d Decision) Allowed() bool {
	return d.Redirect == ""
}

// Outcome names d for metrics and logs: allow, login, home or forbidden.
func (d Decision) Outcome() string {
	switch d.Redirect {
	case "":
		return "allow"
	case LoginPath:
		return "login"
	case HomePath:
		return "home"
	default:
		return "forbidden"
	}
}

// Evaluate applies the guard rules for navigating to path. While the auth
// state is still loading every navigation is allowed.
func Evaluate(path string, meta Meta, st State) Decision {
	if st.Loading {
		return Allow
	}

	public := IsPublic(path)
	if !st.Authenticated {
		if public {
			return Allow
		}
		return Decision{Redirect: LoginPath}
	}
	if path == LoginPath {
		return Decision{Redirect: HomePath}
	}
	if public {
		return Allow
	}

	if meta.RequiresAdmin && !st.IsAdmin() {
		return Decision{Redirect: ForbiddenPath}
	}
	if meta.RequiresAgent && !st.CanAccessAdmin() {
		return Decision{Redirect: ForbiddenPath}
	}
	return Allow
}

// Guest is the check for pages only signed-out callers should see.
func Guest(st State) Decision {
	if st.Authenticated {
		return Decision{Redirect: HomePath}
	}
	return Allow
}
