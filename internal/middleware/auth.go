package middleware

import (
	"log/slog"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/simp-lee/logger"

	"github.com/simp-lee/transitdesk/internal/auth"
	"github.com/simp-lee/transitdesk/internal/domain"
	"github.com/simp-lee/transitdesk/internal/guard"
	"github.com/simp-lee/transitdesk/internal/metrics"
	"github.com/simp-lee/transitdesk/internal/pkg"
)

// TokenParser verifies bearer tokens.
type TokenParser interface {
	Parse(token string) (*auth.Claims, error)
}

// Authenticate resolves the bearer token, when one is sent, into an
// auth.Principal. Requests without an Authorization header pass through
// anonymously; Guard decides whether that is acceptable. The profile is
// re-read on every request so role changes and deactivation apply at once.
func Authenticate(tokens TokenParser, profiles auth.ProfileSource) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.Next()
			return
		}

		scheme, token, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			pkg.Error(c, domain.NewAppError(domain.CodeUnauthorized, "malformed authorization header", nil))
			c.Abort()
			return
		}

		claims, err := tokens.Parse(strings.TrimSpace(token))
		if err != nil {
			pkg.Error(c, err)
			c.Abort()
			return
		}

		ctx := c.Request.Context()
		profile, err := auth.ResolveProfile(ctx, profiles, claims.Identity())
		if err != nil {
			pkg.Error(c, err)
			c.Abort()
			return
		}
		if !profile.IsActive {
			pkg.Error(c, domain.NewAppError(domain.CodeForbidden, "Account is disabled", nil))
			c.Abort()
			return
		}

		auth.SetPrincipal(c, &auth.Principal{Claims: claims, Profile: profile})
		c.Request = c.Request.WithContext(logger.WithContextAttrs(ctx, slog.String("uid", claims.Subject)))
		c.Next()
	}
}

// Guard enforces meta for every route below it. A login redirect becomes 401
// and a forbidden redirect 403.
func Guard(meta guard.Meta) gin.HandlerFunc {
	return func(c *gin.Context) {
		var st guard.State
		if p, ok := auth.PrincipalFrom(c); ok {
			st.Authenticated = true
			st.Role = p.Profile.Role
		}

		d := guard.Evaluate(c.Request.URL.Path, meta, st)
		metrics.GuardDecisions.WithLabelValues(d.Outcome()).Inc()

		switch d.Redirect {
		case guard.LoginPath:
			pkg.Error(c, domain.NewAppError(domain.CodeUnauthorized, "authentication required", nil))
			c.Abort()
		case guard.ForbiddenPath:
			pkg.Error(c, domain.NewAppError(domain.CodeForbidden, "insufficient permissions", nil))
			c.Abort()
		default:
			c.Next()
		}
	}
}
