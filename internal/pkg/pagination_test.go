package pkg

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/simp-lee/transitdesk/internal/docstore"
	"github.com/simp-lee/transitdesk/internal/domain"
)

func newTestContext(queryParams url.Values) *gin.Context {
	req := httptest.NewRequest(http.MethodGet, "/?"+queryParams.Encode(), nil)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req
	return c
}

func TestParsePageRequest_PageSize(t *testing.T) {
	tests := []struct {
		name  string
		query url.Values
		want  int
	}{
		{"default", url.Values{}, DefaultPageSize},
		{"custom", url.Values{"page_size": {"7"}}, 7},
		{"zero", url.Values{"page_size": {"0"}}, DefaultPageSize},
		{"negative", url.Values{"page_size": {"-5"}}, DefaultPageSize},
		{"blank", url.Values{"page_size": {" "}}, DefaultPageSize},
		{"clamped", url.Values{"page_size": {"5000"}}, MaxPageSize},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := ParsePageRequest(newTestContext(tt.query))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if req.PageSize != tt.want {
				t.Errorf("PageSize = %d, want %d", req.PageSize, tt.want)
			}
			if req.Cursor != nil {
				t.Error("expected no cursor")
			}
		})
	}
}

func TestParsePageRequest_NonIntegerPageSize(t *testing.T) {
	for _, raw := range []string{"abc", "2.5", "1e3"} {
		t.Run(raw, func(t *testing.T) {
			_, err := ParsePageRequest(newTestContext(url.Values{"page_size": {raw}}))
			if !domain.IsValidation(err) {
				t.Fatalf("expected validation error, got %v", err)
			}
			if got := domain.FieldErrorsOf(err)["page_size"]; got != "must be an integer" {
				t.Errorf("page_size message = %q", got)
			}
		})
	}
}

func TestParsePageRequest_Cursor(t *testing.T) {
	token, err := domain.NewCursor("scope", "doc-1", "B").Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	req, err := ParsePageRequest(newTestContext(url.Values{"cursor": {token}}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.Cursor == nil || req.Cursor.ID() != "doc-1" {
		t.Errorf("cursor not decoded: %+v", req.Cursor)
	}

	_, err = ParsePageRequest(newTestContext(url.Values{"cursor": {"not-a-cursor"}}))
	if !domain.IsValidation(err) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestQueryBool(t *testing.T) {
	tests := []struct {
		raw     string
		want    *bool
		wantErr bool
	}{
		{"", nil, false},
		{"true", boolPtr(true), false},
		{"0", boolPtr(false), false},
		{"maybe", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := QueryBool(newTestContext(url.Values{"is_active": {tt.raw}}), "is_active")
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if _, ok := domain.FieldErrorsOf(err)["is_active"]; !ok {
					t.Errorf("expected is_active field error, got %v", err)
				}
				return
			}
			if (got == nil) != (tt.want == nil) || (got != nil && *got != *tt.want) {
				t.Errorf("QueryBool() = %v, want %v", got, tt.want)
			}
		})
	}
}

func boolPtr(b bool) *bool { return &b }

// sortedClient serves a fixed, already ordered ascending slice of documents
// keyed by "name", honouring StartAfter and Limit.
type sortedClient struct {
	docstore.Client
	docs []docstore.Document
	runs int
	err  error
}

func (s *sortedClient) Run(_ context.Context, q docstore.Query) ([]docstore.Document, error) {
	s.runs++
	if s.err != nil {
		return nil, s.err
	}
	var out []docstore.Document
	for _, d := range s.docs {
		if q.AfterID != "" {
			name, _ := d.Data["name"].(string)
			after, _ := q.AfterVals[0].(string)
			if c := strings.Compare(name, after); c < 0 || (c == 0 && d.ID <= q.AfterID) {
				continue
			}
		}
		out = append(out, d)
		if q.Max > 0 && len(out) == q.Max {
			break
		}
	}
	return out, nil
}

func namedDocs(names ...string) []docstore.Document {
	docs := make([]docstore.Document, 0, len(names))
	for _, n := range names {
		docs = append(docs, docstore.Document{ID: "id-" + n, Data: map[string]any{"name": n}})
	}
	return docs
}

func decodeName(d docstore.Document) string {
	name, _ := d.Data["name"].(string)
	return name
}

func TestFetchPage_WalksAllPages(t *testing.T) {
	client := &sortedClient{docs: namedDocs("A", "B", "C", "D", "E")}
	q := docstore.From("routes").OrderBy("name", docstore.Asc)

	var got []string
	req := domain.PageRequest{PageSize: 2}
	var pages int
	for {
		page, err := FetchPage(context.Background(), client, q, req, decodeName)
		if err != nil {
			t.Fatalf("FetchPage: %v", err)
		}
		pages++
		got = append(got, page.Data...)
		if !page.HasMore {
			break
		}
		req.Cursor = page.Cursor
	}
	if strings.Join(got, "") != "ABCDE" {
		t.Errorf("got %v, want A..E", got)
	}
	if pages != 3 {
		t.Errorf("pages = %d, want 3", pages)
	}
}

func TestFetchPage_ExactMultipleReportsExtraEmptyPage(t *testing.T) {
	client := &sortedClient{docs: namedDocs("A", "B")}
	q := docstore.From("routes").OrderBy("name", docstore.Asc)

	first, err := FetchPage(context.Background(), client, q, domain.PageRequest{PageSize: 2}, decodeName)
	if err != nil {
		t.Fatalf("FetchPage: %v", err)
	}
	if !first.HasMore {
		t.Fatal("a full page must report HasMore")
	}
	second, err := FetchPage(context.Background(), client, q, domain.PageRequest{PageSize: 2, Cursor: first.Cursor}, decodeName)
	if err != nil {
		t.Fatalf("FetchPage: %v", err)
	}
	if len(second.Data) != 0 || second.HasMore || second.Cursor != nil {
		t.Errorf("expected empty final page with nil cursor, got %+v", second)
	}
}

func TestFetchPage_ForeignCursorRejected(t *testing.T) {
	client := &sortedClient{docs: namedDocs("A", "B", "C")}
	byName := docstore.From("routes").OrderBy("name", docstore.Asc)
	filtered := byName.Where("origin", "Kampala")

	page, err := FetchPage(context.Background(), client, byName, domain.PageRequest{PageSize: 1}, decodeName)
	if err != nil {
		t.Fatalf("FetchPage: %v", err)
	}
	runs := client.runs

	_, err = FetchPage(context.Background(), client, filtered, domain.PageRequest{PageSize: 1, Cursor: page.Cursor}, decodeName)
	if !errors.Is(err, domain.ErrInvalidCursor) {
		t.Errorf("expected ErrInvalidCursor, got %v", err)
	}
	if client.runs != runs {
		t.Error("a rejected cursor must not reach the store")
	}
}

func TestFetchPage_DefaultSizeAndErrors(t *testing.T) {
	client := &sortedClient{err: errors.New("unavailable")}
	q := docstore.From("routes").OrderBy("name", docstore.Asc)

	if _, err := FetchPage(context.Background(), client, q, domain.PageRequest{}, decodeName); err == nil {
		t.Error("expected backend error to propagate")
	}
	if NormalizePageSize(0) != DefaultPageSize || NormalizePageSize(3) != 3 {
		t.Error("NormalizePageSize mismatch")
	}
}
