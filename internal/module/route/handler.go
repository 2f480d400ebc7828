package route

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/simp-lee/transitdesk/internal/domain"
	"github.com/simp-lee/transitdesk/internal/pkg"
)

// RouteHandler handles REST API requests for the route resource.
type RouteHandler struct {
	svc domain.RouteService
}

// NewRouteHandler creates a new RouteHandler with the given service.
func NewRouteHandler(svc domain.RouteService) *RouteHandler {
	return &RouteHandler{svc: svc}
}

// List handles GET /api/v1/routes.
func (h *RouteHandler) List(c *gin.Context) {
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

	filters := domain.RouteFilters{
		Origin:      strings.TrimSpace(c.Query("origin")),
		Destination: strings.TrimSpace(c.Query("destination")),
		IsActive:    active,
	}
	page, err := h.svc.ListRoutes(c.Request.Context(), filters, req)
	if err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.List(c, page)
}

// FilterOptions handles GET /api/v1/routes/filter-options.
func (h *RouteHandler) FilterOptions(c *gin.Context) {
	pkg.Success(c, h.svc.FilterOptions(c.Request.Context()))
}

// Get handles GET /api/v1/routes/:id.
func (h *RouteHandler) Get(c *gin.Context) {
	route, err := h.svc.GetRoute(c.Request.Context(), c.Param("id"))
	if err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.Success(c, route)
}

// Create handles POST /api/v1/routes.
func (h *RouteHandler) Create(c *gin.Context) {
	var req CreateRouteRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}

	route, err := h.svc.CreateRoute(c.Request.Context(), req.input())
	if err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.Created(c, route)
}

// Update handles PATCH /api/v1/routes/:id.
func (h *RouteHandler) Update(c *gin.Context) {
	var req UpdateRouteRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}

	route, err := h.svc.UpdateRoute(c.Request.Context(), c.Param("id"), req.patch())
	if err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.Success(c, route)
}

// SetActive handles PUT /api/v1/routes/:id/active.
func (h *RouteHandler) SetActive(c *gin.Context) {
	var req SetActiveRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}

	route, err := h.svc.SetRouteActive(c.Request.Context(), c.Param("id"), *req.IsActive)
	if err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.Success(c, route)
}

// Delete handles DELETE /api/v1/routes/:id.
func (h *RouteHandler) Delete(c *gin.Context) {
	if err := h.svc.DeleteRoute(c.Request.Context(), c.Param("id")); err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.Success(c, nil)
}
