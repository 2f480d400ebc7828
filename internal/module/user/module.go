package user

import "github.com/gin-gonic/gin"

// UserModule implements the app.Module interface for user management.
type UserModule struct {
	handler *UserHandler
}

// NewModule creates a new UserModule with the given handler.
// Panics if h is nil.
func NewModule(h *UserHandler) *UserModule {
	if h == nil {
		panic("user.NewModule: handler must not be nil")
	}
	return &UserModule{handler: h}
}

// RegisterRoutes registers the user API. The caller is expected to mount it
// behind an admin-only guard.
func (m *UserModule) RegisterRoutes(api *gin.RouterGroup) {
	api.POST("/users", m.handler.Create)
	api.GET("/users/:id", m.handler.Get)
	api.GET("/users", m.handler.List)
	api.PATCH("/users/:id", m.handler.Update)
	api.PUT("/users/:id/role", m.handler.SetRole)
	api.PUT("/users/:id/active", m.handler.SetActive)
	api.DELETE("/users/:id", m.handler.Delete)
}
