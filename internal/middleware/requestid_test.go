package middleware

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/simp-lee/logger"
)

func setupRequestIDRouter(mw gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(mw)
	r.GET("/test", func(c *gin.Context) {
		c.String(http.StatusOK, GetRequestID(c))
	})
	r.GET("/ctx", func(c *gin.Context) {
		c.String(http.StatusOK, findAttrValue(logger.FromContext(c.Request.Context()), "request_id"))
	})
	return r
}

func findAttrValue(attrs []slog.Attr, key string) string {
	for _, a := range attrs {
		if a.Key == key {
			return a.Value.String()
		}
	}
	return ""
}

func requestWithID(r *gin.Engine, path, upstream string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if upstream != "" {
		req.Header.Set(requestIDHeader, upstream)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequestID_Generates(t *testing.T) {
	r := setupRequestIDRouter(RequestID())

	w := requestWithID(r, "/test", "")
	id := w.Body.String()
	if _, err := uuid.Parse(id); err != nil {
		t.Fatalf("expected a uuid, got %q", id)
	}
	if got := w.Header().Get(requestIDHeader); got != id {
		t.Errorf("header = %q, context = %q", got, id)
	}

	if other := requestWithID(r, "/test", "").Body.String(); other == id {
		t.Error("expected a fresh id per request")
	}
}

func TestRequestID_Upstream(t *testing.T) {
	tests := []struct {
		name     string
		trust    bool
		upstream string
		reuse    bool
	}{
		{"ignored by default", false, "abc-123", false},
		{"trusted", true, "abc-123", true},
		{"trusted but invalid chars", true, "abc 123;drop", false},
		{"trusted but too long", true, strings.Repeat("a", 65), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := setupRequestIDRouter(RequestIDWithConfig(RequestIDConfig{TrustUpstream: tt.trust}))
			got := requestWithID(r, "/test", tt.upstream).Body.String()
			if (got == tt.upstream) != tt.reuse {
				t.Errorf("id = %q, upstream %q, want reuse=%v", got, tt.upstream, tt.reuse)
			}
			if got == "" {
				t.Error("expected an id")
			}
		})
	}
}

func TestRequestID_InContext(t *testing.T) {
	r := setupRequestIDRouter(RequestIDWithConfig(RequestIDConfig{TrustUpstream: true}))
	if got := requestWithID(r, "/ctx", "ctx-id-1").Body.String(); got != "ctx-id-1" {
		t.Errorf("context request_id = %q, want ctx-id-1", got)
	}
}

func TestGetRequestID_Unset(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	if got := GetRequestID(c); got != "" {
		t.Errorf("GetRequestID() = %q, want empty", got)
	}
}
