package pkg

import (
	"context"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/simp-lee/transitdesk/internal/docstore"
	"github.com/simp-lee/transitdesk/internal/domain"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// NormalizePageSize substitutes the default for non-positive sizes.
func NormalizePageSize(size int) int {
	if size < 1 {
		return DefaultPageSize
	}
	return size
}

// ParsePageRequest reads page_size and cursor from the query string.
// page_size is clamped to [1, MaxPageSize]; a non-integer page_size or a
// malformed cursor is a validation error.
func ParsePageRequest(c *gin.Context) (domain.PageRequest, error) {
	pageSize := DefaultPageSize
	if raw := strings.TrimSpace(c.Query("page_size")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return domain.PageRequest{}, domain.NewValidationError(domain.FieldErrors{"page_size": "must be an integer"})
		}
		pageSize = n
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}

	req := domain.PageRequest{PageSize: pageSize}
	if token := strings.TrimSpace(c.Query("cursor")); token != "" {
		cursor, err := domain.DecodeCursor(token)
		if err != nil {
			return req, err
		}
		req.Cursor = cursor
	}
	return req, nil
}

// QueryBool parses an optional boolean query parameter. It returns nil when
// the parameter is absent or empty.
func QueryBool(c *gin.Context, key string) (*bool, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, domain.NewValidationError(domain.FieldErrors{key: "must be a boolean"})
	}
	return &b, nil
}

// FetchPage runs one page of q and wraps the decoded results.
//
// The query must already carry its filters and order. When req has a cursor
// it must come from the same collection, filters and order; otherwise
// domain.ErrInvalidCursor is returned and nothing is read. Exactly
// req.PageSize documents are requested, and HasMore is true when that many
// came back. The returned cursor marks the last document, or is nil for an
// empty page.
func FetchPage[T any](ctx context.Context, client docstore.Client, q docstore.Query, req domain.PageRequest, decode func(docstore.Document) T) (*domain.Page[T], error) {
	scope := q.Fingerprint()
	if req.Cursor != nil {
		if req.Cursor.Scope() != scope {
			return nil, domain.ErrInvalidCursor
		}
		q = q.StartAfter(req.Cursor.ID(), req.Cursor.Values()...)
	}

	size := NormalizePageSize(req.PageSize)
	docs, err := client.Run(ctx, q.Limit(size))
	if err != nil {
		return nil, err
	}

	page := &domain.Page[T]{
		Data:    make([]T, 0, len(docs)),
		HasMore: len(docs) == size,
	}
	for _, d := range docs {
		page.Data = append(page.Data, decode(d))
	}
	if n := len(docs); n > 0 {
		last := docs[n-1]
		page.Cursor = domain.NewCursor(scope, last.ID, last.Data[q.OrderField])
	}
	return page, nil
}
