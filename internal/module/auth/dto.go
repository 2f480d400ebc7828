package auth

import "github.com/simp-lee/transitdesk/internal/domain"

// LoginRequest represents the input for email and password sign-in.
type LoginRequest struct {
	Email    string `json:"email" form:"email" binding:"required,email"`
	Password string `json:"password" form:"password" binding:"required,min=8"`
}

// RegisterRequest represents the input for creating an email account.
type RegisterRequest struct {
	Name     string `json:"name" form:"name" binding:"max=100"`
	Email    string `json:"email" form:"email" binding:"required,email"`
	Password string `json:"password" form:"password" binding:"required,min=8,max=72"`
}

// GoogleLoginRequest carries the result of the Google consent flow.
type GoogleLoginRequest struct {
	IDToken string `json:"id_token" form:"id_token"`
	Code    string `json:"code" form:"code"`
}

// Session is returned by every successful sign-in.
type Session struct {
	Token     string            `json:"token"`
	ExpiresAt int64             `json:"expires_at"`
	User      *domain.AdminUser `json:"user"`
}
