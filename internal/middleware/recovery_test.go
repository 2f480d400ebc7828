package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func setupRecoveryRouter(buf *bytes.Buffer) (*gin.Engine, *bool) {
	reached := false
	r := gin.New()
	r.Use(Recovery(newTestLogger(buf)))
	r.GET("/panic", func(c *gin.Context) {
		panic("test panic")
	}, func(c *gin.Context) {
		reached = true
	})
	r.GET("/late-panic", func(c *gin.Context) {
		c.String(http.StatusAccepted, "partial")
		panic("after write")
	})
	r.GET("/ok", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	return r, &reached
}

func TestRecovery_NoPanic_PassesThrough(t *testing.T) {
	var buf bytes.Buffer
	r, _ := setupRecoveryRouter(&buf)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ok", nil))

	if w.Code != http.StatusOK || w.Body.String() != "ok" {
		t.Fatalf("got %d %q", w.Code, w.Body.String())
	}
	if buf.Len() != 0 {
		t.Errorf("expected no log output, got:\n%s", buf.String())
	}
}

func TestRecovery_Panic_JSONEnvelope(t *testing.T) {
	var buf bytes.Buffer
	r, reached := setupRecoveryRouter(&buf)

	// HTML clients get the same JSON body.
	req := httptest.NewRequest(http.MethodGet, "/panic", nil)
	req.Header.Set("Accept", "text/html")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", w.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to parse JSON response: %v", err)
	}
	if body["code"] != float64(500) || body["message"] != "internal server error" {
		t.Errorf("unexpected body %v", body)
	}
	if v, ok := body["data"]; !ok || v != nil {
		t.Errorf("expected data: null, got %v", body["data"])
	}
	if *reached {
		t.Error("handler after the panic must not run")
	}

	log := buf.String()
	for _, want := range []string{"panic recovered", "test panic", "path=/panic", "stack="} {
		if !strings.Contains(log, want) {
			t.Errorf("expected log to contain %q, got:\n%s", want, log)
		}
	}
}

func TestRecovery_PanicAfterWrite_KeepsResponse(t *testing.T) {
	var buf bytes.Buffer
	r, _ := setupRecoveryRouter(&buf)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/late-panic", nil))

	if w.Code != http.StatusAccepted || w.Body.String() != "partial" {
		t.Errorf("got %d %q, want the already written response", w.Code, w.Body.String())
	}
	if !strings.Contains(buf.String(), "after write") {
		t.Errorf("expected panic to be logged, got:\n%s", buf.String())
	}
}
