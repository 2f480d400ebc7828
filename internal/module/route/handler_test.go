package route

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/simp-lee/transitdesk/internal/docstore/sqldoc"
	"github.com/simp-lee/transitdesk/internal/pkg"
)

// setupAPIRouter wires the real service and repository over an in-memory store.
func setupAPIRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	store, err := sqldoc.NewMemory()
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	h := NewRouteHandler(NewRouteService(NewRouteRepository(store)))
	r := gin.New()
	NewModule(h).RegisterRoutes(r.Group("/api/v1"))
	return r
}

func do(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

type routeBody struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"base_price"`
	IsActive bool    `json:"is_active"`
}

type pageBody struct {
	Data    []routeBody `json:"data"`
	Cursor  *string     `json:"cursor"`
	HasMore bool        `json:"has_more"`
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder, into any) {
	t.Helper()
	var resp struct {
		Code int             `json:"code"`
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if err := json.Unmarshal(resp.Data, into); err != nil {
		t.Fatalf("failed to unmarshal data: %v", err)
	}
}

func TestRouteHandler_CreateGetPatch(t *testing.T) {
	r := setupAPIRouter(t)

	w := do(r, http.MethodPost, "/api/v1/routes",
		`{"name":"Express","origin":"Kampala","destination":"Jinja","base_price":15000,"estimated_duration_minutes":90}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", w.Code, w.Body.String())
	}
	var created routeBody
	decodeData(t, w, &created)
	if created.ID == "" || !created.IsActive {
		t.Fatalf("unexpected created route: %+v", created)
	}

	w = do(r, http.MethodPatch, "/api/v1/routes/"+created.ID, `{"base_price":17500}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	var patched routeBody
	decodeData(t, w, &patched)
	if patched.Name != "Express" || patched.Price != 17500 {
		t.Errorf("patch did not merge: %+v", patched)
	}

	w = do(r, http.MethodPut, "/api/v1/routes/"+created.ID+"/active", `{"is_active":false}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	w = do(r, http.MethodGet, "/api/v1/routes/"+created.ID, "")
	var got routeBody
	decodeData(t, w, &got)
	if got.IsActive {
		t.Error("route should be inactive after toggle")
	}
}

func TestRouteHandler_CreateValidationError(t *testing.T) {
	r := setupAPIRouter(t)

	w := do(r, http.MethodPost, "/api/v1/routes",
		`{"name":"Express","origin":"Kampala","destination":"Jinja","base_price":0,"estimated_duration_minutes":90}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", w.Code)
	}
	var resp pkg.ValidationErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if _, ok := resp.Errors["base_price"]; !ok {
		t.Errorf("expected base_price error, got %v", resp.Errors)
	}
}

func TestRouteHandler_ListPaginates(t *testing.T) {
	r := setupAPIRouter(t)
	for _, n := range []string{"C", "A", "B"} {
		body := `{"name":"` + n + `","origin":"Kampala","destination":"Jinja","base_price":1,"estimated_duration_minutes":1}`
		if w := do(r, http.MethodPost, "/api/v1/routes", body); w.Code != http.StatusCreated {
			t.Fatalf("seed %s: status %d", n, w.Code)
		}
	}

	w := do(r, http.MethodGet, "/api/v1/routes?page_size=2&is_active=true", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	var p1 pageBody
	decodeData(t, w, &p1)
	if len(p1.Data) != 2 || p1.Data[0].Name != "A" || !p1.HasMore || p1.Cursor == nil {
		t.Fatalf("unexpected first page: %+v", p1)
	}

	w = do(r, http.MethodGet, "/api/v1/routes?page_size=2&is_active=true&cursor="+*p1.Cursor, "")
	var p2 pageBody
	decodeData(t, w, &p2)
	if len(p2.Data) != 1 || p2.Data[0].Name != "C" || p2.HasMore {
		t.Fatalf("unexpected second page: %+v", p2)
	}

	// The cursor belongs to the is_active=true listing.
	w = do(r, http.MethodGet, "/api/v1/routes?page_size=2&cursor="+*p1.Cursor, "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400 for foreign cursor, got %d", w.Code)
	}

	w = do(r, http.MethodGet, "/api/v1/routes?cursor=not-a-cursor", "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400 for malformed cursor, got %d", w.Code)
	}
}

func TestRouteHandler_GetMissing(t *testing.T) {
	r := setupAPIRouter(t)

	w := do(r, http.MethodGet, "/api/v1/routes/nope", "")
	if w.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", w.Code)
	}
}

func TestRouteHandler_FilterOptions(t *testing.T) {
	r := setupAPIRouter(t)
	do(r, http.MethodPost, "/api/v1/routes",
		`{"name":"X","origin":"Kampala","destination":"Jinja","base_price":1,"estimated_duration_minutes":1}`)

	w := do(r, http.MethodGet, "/api/v1/routes/filter-options", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	var opts struct {
		Origins      []string `json:"origins"`
		Destinations []string `json:"destinations"`
	}
	decodeData(t, w, &opts)
	if len(opts.Origins) != 1 || opts.Origins[0] != "Kampala" {
		t.Errorf("origins = %v", opts.Origins)
	}
}
