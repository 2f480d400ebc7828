package route

import "github.com/gin-gonic/gin"

// RouteModule implements the app.Module interface for the route domain.
type RouteModule struct {
	handler *RouteHandler
}

// NewModule creates a new RouteModule. Panics if h is nil.
func NewModule(h *RouteHandler) *RouteModule {
	if h == nil {
		panic("route.NewModule: handler must not be nil")
	}
	return &RouteModule{handler: h}
}

// RegisterRoutes registers the route API.
func (m *RouteModule) RegisterRoutes(api *gin.RouterGroup) {
	api.GET("/routes", m.handler.List)
	api.GET("/routes/filter-options", m.handler.FilterOptions)
	api.GET("/routes/:id", m.handler.Get)
	api.POST("/routes", m.handler.Create)
	api.PATCH("/routes/:id", m.handler.Update)
	api.PUT("/routes/:id/active", m.handler.SetActive)
	api.DELETE("/routes/:id", m.handler.Delete)
}
