package trip

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/simp-lee/transitdesk/internal/domain"
	"github.com/simp-lee/transitdesk/internal/pkg"
)

// TripHandler handles REST API requests for the trip resource.
type TripHandler struct {
	svc domain.TripService
}

// NewTripHandler creates a new TripHandler with the given service.
func NewTripHandler(svc domain.TripService) *TripHandler {
	return &TripHandler{svc: svc}
}

// List handles GET /api/v1/trips.
func (h *TripHandler) List(c *gin.Context) {
	req, err := pkg.ParsePageRequest(c)
	if err != nil {
		pkg.Error(c, err)
		return
	}

	filters := domain.TripFilters{
		Status:  domain.TripStatus(strings.TrimSpace(c.Query("status"))),
		RouteID: strings.TrimSpace(c.Query("route_id")),
	}
	page, err := h.svc.ListTrips(c.Request.Context(), filters, req)
	if err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.List(c, page)
}

// Get handles GET /api/v1/trips/:id.
func (h *TripHandler) Get(c *gin.Context) {
	trip, err := h.svc.GetTrip(c.Request.Context(), c.Param("id"))
	if err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.Success(c, trip)
}

// Create handles POST /api/v1/trips.
func (h *TripHandler) Create(c *gin.Context) {
	var req CreateTripRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}

	trip, err := h.svc.CreateTrip(c.Request.Context(), req.input())
	if err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.Created(c, trip)
}

// Update handles PATCH /api/v1/trips/:id.
func (h *TripHandler) Update(c *gin.Context) {
	var req UpdateTripRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}

	trip, err := h.svc.UpdateTrip(c.Request.Context(), c.Param("id"), req.patch())
	if err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.Success(c, trip)
}

// Delete handles DELETE /api/v1/trips/:id.
func (h *TripHandler) Delete(c *gin.Context) {
	if err := h.svc.DeleteTrip(c.Request.Context(), c.Param("id")); err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.Success(c, nil)
}
