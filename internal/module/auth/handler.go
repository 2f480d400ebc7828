package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/simp-lee/transitdesk/internal/auth"
	"github.com/simp-lee/transitdesk/internal/domain"
	"github.com/simp-lee/transitdesk/internal/pkg"
)

// AuthHandler handles REST API requests for authentication.
type AuthHandler struct {
	svc Service
}

// NewHandler creates a new AuthHandler with the given service.
func NewHandler(svc Service) *AuthHandler {
	return &AuthHandler{svc: svc}
}

// Login handles POST /api/v1/auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}

	session, err := h.svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.Success(c, session)
}

// Register handles POST /api/v1/auth/register.
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}

	session, err := h.svc.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		pkg.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, pkg.Response{
		Code:    http.StatusCreated,
		Message: "user registered successfully",
		Data:    session,
	})
}

// Google handles POST /api/v1/auth/google.
func (h *AuthHandler) Google(c *gin.Context) {
	var req GoogleLoginRequest
	if !pkg.BindAndValidate(c, &req) {
		return
	}

	session, err := h.svc.LoginWithGoogle(c.Request.Context(), auth.GoogleCredential{IDToken: req.IDToken, Code: req.Code})
	if err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.Success(c, session)
}

// GoogleURL handles GET /api/v1/auth/google/url. The state value is returned
// alongside the URL so the client can check it on the way back.
func (h *AuthHandler) GoogleURL(c *gin.Context) {
	state := uuid.NewString()
	url, err := h.svc.GoogleAuthURL(state)
	if err != nil {
		pkg.Error(c, err)
		return
	}

	pkg.Success(c, gin.H{"url": url, "state": state})
}

// Logout handles POST /api/v1/auth/logout.
func (h *AuthHandler) Logout(c *gin.Context) {
	p, ok := auth.PrincipalFrom(c)
	if !ok {
		pkg.Error(c, domain.ErrUnauthorized)
		return
	}

	h.svc.Logout(p.Claims)
	pkg.Success(c, nil)
}

// Me handles GET /api/v1/auth/me.
func (h *AuthHandler) Me(c *gin.Context) {
	p, ok := auth.PrincipalFrom(c)
	if !ok {
		pkg.Error(c, domain.ErrUnauthorized)
		return
	}

	pkg.Success(c, p.Profile)
}
