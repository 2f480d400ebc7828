package vehicle

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/simp-lee/transitdesk/internal/domain"
	"github.com/simp-lee/transitdesk/internal/pkg"
)

// VehicleHandler handles REST API requests for the vehicle resource.
type VehicleHandler struct {
	svc domain.VehicleService
}

// NewVehicleHandler creates a new VehicleHandler with the given service.
func NewVehicleHandler(svc domain.VehicleService) *VehicleHandler {
	return &VehicleHandler{svc: svc}
}

// List handles GET /api/v1/vehicles.
func (h *VehicleHandler) List(c *gin.Context) {
	req, err := pkg.ParsePageRequest(c)
	if err != nil {
		pkg.Error(c, err)
		return
	}
	active, err := pkg.QueryBool(c, "is_active")
	if err != nil {
		pkg.Error(c, err)
		return
	}

	filters := domain.VehicleFilters{
		Status:   domain.VehicleStatus(strings.TrimSpace(c.Query("status"))),
		IsActive: active,
	}
	page, err := h.svc.ListVehicles(c.Request.Context(), filters, req)
	if err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.List(c, page)
}

// Get handles GET /api/v1/vehicles/:id.
func (h *VehicleHandler) Get(c *gin.Context) {
	v, err := h.svc.GetVehicle(c.Request.Context(), c.Param("id"))
	if err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.Success(c, v)
}

// Create handles POST /api/v1/vehicles.
func (h *VehicleHandler) Create(c *gin.Context) {
	var req CreateVehicleRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}

	v, err := h.svc.CreateVehicle(c.Request.Context(), req.input())
	if err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.Created(c, v)
}

// Update handles PATCH /api/v1/vehicles/:id.
func (h *VehicleHandler) Update(c *gin.Context) {
	var req UpdateVehicleRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}

	v, err := h.svc.UpdateVehicle(c.Request.Context(), c.Param("id"), req.patch())
	if err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.Success(c, v)
}

// Delete handles DELETE /api/v1/vehicles/:id.
func (h *VehicleHandler) Delete(c *gin.Context) {
	if err := h.svc.DeleteVehicle(c.Request.Context(), c.Param("id")); err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.Success(c, nil)
}
