package trip

import "github.com/gin-gonic/gin"

// TripModule implements the app.Module interface for the trip domain.
type TripModule struct {
	handler *TripHandler
}

// NewModule creates a new TripModule. Panics if h is nil.
func NewModule(h *TripHandler) *TripModule {
	if h == nil {
		panic("trip.NewModule: handler must not be nil")
	}
	return &TripModule{handler: h}
}

// RegisterRoutes registers the trip API.
func (m *TripModule) RegisterRoutes(api *gin.RouterGroup) {
	api.GET("/trips", m.handler.List)
	api.GET("/trips/:id", m.handler.Get)
	api.POST("/trips", m.handler.Create)
	api.PATCH("/trips/:id", m.handler.Update)
	api.DELETE("/trips/:id", m.handler.Delete)
}
