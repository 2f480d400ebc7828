package app

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/simp-lee/transitdesk/internal/pkg"
)

// renderError aborts with the JSON envelope. An empty message falls back to
// the standard status text.
func renderError(c *gin.Context, code int, message string) {
	if message == "" {
		message = defaultStatusText(code)
	}
	c.AbortWithStatusJSON(code, pkg.Response{
		Code:    code,
		Message: message,
		Data:    nil,
	})
}

// defaultStatusText returns a short lower-case label for an HTTP status.
func defaultStatusText(code int) string {
	switch code {
	case http.StatusBadRequest:
		return "bad request"
	case http.StatusNotFound:
		return "not found"
	case http.StatusMethodNotAllowed:
		return "method not allowed"
	case http.StatusRequestTimeout:
		return "request timeout"
	case http.StatusInternalServerError:
		return "internal server error"
	case http.StatusServiceUnavailable:
		return "service unavailable"
	default:
		return "error"
	}
}
