package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/simp-lee/transitdesk/internal/auth"
	"github.com/simp-lee/transitdesk/internal/docstore"
	"github.com/simp-lee/transitdesk/internal/guard"
	"github.com/simp-lee/transitdesk/internal/middleware"
)

// RouteDeps holds all dependencies needed to register routes.
type RouteDeps struct {
	Store    docstore.Client
	Tokens   middleware.TokenParser
	Profiles auth.ProfileSource

	Public []Module // mounted without a guard
	Agent  []Module // require the admin or agent role
	Admin  []Module // require the admin role
}

// RegisterRoutes registers all application routes on the given gin.Engine.
func RegisterRoutes(r *gin.Engine, deps *RouteDeps) error {
	if r == nil {
		return errors.New("router is nil")
	}
	if deps == nil {
		return errors.New("route dependencies are nil")
	}
	if len(deps.Public)+len(deps.Agent)+len(deps.Admin) == 0 {
		return errors.New("at least one module is required")
	}
	if deps.Tokens == nil || deps.Profiles == nil {
		return errors.New("token parser and profile source are required")
	}

	r.GET("/health", healthHandler(deps.Store))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api/v1", middleware.Authenticate(deps.Tokens, deps.Profiles))
	agent := api.Group("", middleware.Guard(guard.Meta{RequiresAgent: true}))
	admin := api.Group("", middleware.Guard(guard.Meta{RequiresAdmin: true}))

	groups := []struct {
		name    string
		group   *gin.RouterGroup
		modules []Module
	}{
		{"public", api, deps.Public},
		{"agent", agent, deps.Agent},
		{"admin", admin, deps.Admin},
	}
	for _, g := range groups {
		for i, m := range g.modules {
			if m == nil {
				return fmt.Errorf("%s module at index %d is nil", g.name, i)
			}
			m.RegisterRoutes(g.group)
		}
	}

	r.NoRoute(func(c *gin.Context) { renderError(c, http.StatusNotFound, "") })
	r.NoMethod(func(c *gin.Context) { renderError(c, http.StatusMethodNotAllowed, "") })

	return nil
}

// healthHandler returns a handler that pings the document store and reports
// status.
func healthHandler(store docstore.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		storeStatus := "ok"
		status := "ok"
		code := http.StatusOK

		if store == nil {
			storeStatus, status, code = "error", "degraded", http.StatusServiceUnavailable
		} else {
			ctx, cancel := context.WithTimeout(c.Request.Context(), time.Second)
			defer cancel()
			if err := store.Ping(ctx); err != nil {
				storeStatus, status, code = "error", "degraded", http.StatusServiceUnavailable
			}
		}

		c.JSON(code, gin.H{
			"status": status,
			"components": gin.H{
				"docstore": storeStatus,
			},
		})
	}
}
