package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func setupRouter(middleware gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(middleware)
	r.GET("/test", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	return r
}

func corsRequest(r *gin.Engine, method, origin string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, "/test", nil)
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCORS(t *testing.T) {
	restricted := CORSConfig{
		AllowOrigins:     []string{"https://admin.example.com"},
		AllowMethods:     []string{http.MethodGet},
		AllowHeaders:     []string{"Authorization"},
		AllowCredentials: true,
		MaxAge:           time.Hour,
	}
	wildcardCreds := DefaultCORSConfig()
	wildcardCreds.AllowCredentials = true

	tests := []struct {
		name       string
		mw         gin.HandlerFunc
		method     string
		origin     string
		wantStatus int
		wantOrigin string
		wantMaxAge string
		wantCreds  string
	}{
		{"no origin", CORS(), http.MethodGet, "", http.StatusOK, "", "", ""},
		{"default wildcard", CORS(), http.MethodGet, "http://a.example", http.StatusOK, "*", "", ""},
		{"default preflight", CORS(), http.MethodOptions, "http://a.example", http.StatusNoContent, "*", "86400", ""},
		{"listed origin", CORSWithConfig(restricted), http.MethodGet, "https://admin.example.com", http.StatusOK, "https://admin.example.com", "", "true"},
		{"listed preflight", CORSWithConfig(restricted), http.MethodOptions, "https://admin.example.com", http.StatusNoContent, "https://admin.example.com", "3600", "true"},
		{"unlisted origin", CORSWithConfig(restricted), http.MethodGet, "https://evil.example", http.StatusOK, "", "", ""},
		{"wildcard with credentials echoes", CORSWithConfig(wildcardCreds), http.MethodGet, "http://b.example", http.StatusOK, "http://b.example", "", "true"},
		{"origins argument", CORS("http://c.example"), http.MethodGet, "http://c.example", http.StatusOK, "http://c.example", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := corsRequest(setupRouter(tt.mw), tt.method, tt.origin)
			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			if got := w.Header().Get("Access-Control-Allow-Origin"); got != tt.wantOrigin {
				t.Errorf("Allow-Origin = %q, want %q", got, tt.wantOrigin)
			}
			if got := w.Header().Get("Access-Control-Max-Age"); got != tt.wantMaxAge {
				t.Errorf("Max-Age = %q, want %q", got, tt.wantMaxAge)
			}
			if got := w.Header().Get("Access-Control-Allow-Credentials"); got != tt.wantCreds {
				t.Errorf("Allow-Credentials = %q, want %q", got, tt.wantCreds)
			}
			if tt.origin != "" && w.Header().Get("Vary") != "Origin" {
				t.Errorf("Vary = %q, want Origin", w.Header().Get("Vary"))
			}
		})
	}
}

func TestCORS_ExposesRequestID(t *testing.T) {
	w := corsRequest(setupRouter(CORS()), http.MethodGet, "http://a.example")
	if got := w.Header().Get("Access-Control-Expose-Headers"); got != requestIDHeader {
		t.Errorf("Expose-Headers = %q, want %q", got, requestIDHeader)
	}
}
