package vehicle

import "github.com/gin-gonic/gin"

// VehicleModule implements the app.Module interface for the fleet.
type VehicleModule struct {
	handler *VehicleHandler
}

// NewModule creates a new VehicleModule. Panics if h is nil.
func NewModule(h *VehicleHandler) *VehicleModule {
	if h == nil {
		panic("vehicle.NewModule: handler must not be nil")
	}
	return &VehicleModule{handler: h}
}

// RegisterRoutes registers the vehicle API.
func (m *VehicleModule) RegisterRoutes(api *gin.RouterGroup) {
	api.GET("/vehicles", m.handler.List)
	api.GET("/vehicles/:id", m.handler.Get)
	api.POST("/vehicles", m.handler.Create)
	api.PATCH("/vehicles/:id", m.handler.Update)
	api.DELETE("/vehicles/:id", m.handler.Delete)
}
