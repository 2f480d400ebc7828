package user

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/simp-lee/transitdesk/internal/domain"
	"github.com/simp-lee/transitdesk/internal/pkg"
)

// UserHandler handles REST API requests for the user resource.
type UserHandler struct {
	svc domain.UserService
}

// NewUserHandler creates a new UserHandler with the given service.
func NewUserHandler(svc domain.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

// Create handles POST /api/v1/users.
func (h *UserHandler) Create(c *gin.Context) {
	var req CreateUserRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}

	user, err := h.svc.CreateUser(c.Request.Context(), req.input())
	if err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.Created(c, user)
}

// Get handles GET /api/v1/users/:id.
func (h *UserHandler) Get(c *gin.Context) {
	user, err := h.svc.GetUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.Success(c, user)
}

// List handles GET /api/v1/users.
func (h *UserHandler) List(c *gin.Context) {
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

	filters := domain.UserFilters{
		Role:     domain.UserRole(strings.TrimSpace(c.Query("role"))),
		IsActive: active,
	}
	result, err := h.svc.ListUsers(c.Request.Context(), filters, req)
	if err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.List(c, result)
}

// Update handles PATCH /api/v1/users/:id.
func (h *UserHandler) Update(c *gin.Context) {
	var req UpdateUserRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}

	user, err := h.svc.UpdateUser(c.Request.Context(), c.Param("id"), req.patch())
	if err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.Success(c, user)
}

// SetRole handles PUT /api/v1/users/:id/role.
func (h *UserHandler) SetRole(c *gin.Context) {
	var req SetRoleRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}

	user, err := h.svc.SetRole(c.Request.Context(), c.Param("id"), domain.UserRole(req.Role))
	if err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.Success(c, user)
}

// SetActive handles PUT /api/v1/users/:id/active.
func (h *UserHandler) SetActive(c *gin.Context) {
	var req SetActiveRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}

	user, err := h.svc.SetActive(c.Request.Context(), c.Param("id"), *req.IsActive)
	if err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.Success(c, user)
}

// Delete handles DELETE /api/v1/users/:id.
func (h *UserHandler) Delete(c *gin.Context) {
	if err := h.svc.DeleteUser(c.Request.Context(), c.Param("id")); err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.Success(c, nil)
}
