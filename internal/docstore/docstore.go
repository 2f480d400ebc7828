// Package docstore defines the document database boundary used by every
// repository: named collections of schemaless documents with exact-match
// filters, single-field ordering and start-after cursors.
package docstore

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// ErrNotFound is returned by Get and Update when the document does not exist.
var ErrNotFound = errors.New("docstore: document not found")

// ErrAlreadyExists is returned by Create when the id is already taken.
var ErrAlreadyExists = errors.New("docstore: document already exists")

// ErrInvalidQuery is returned when a query references an unusable field name
// or has no collection.
var ErrInvalidQuery = errors.New("docstore: invalid query")

// Direction is the sort direction of a query.
type Direction int

const (
	Asc Direction = iota
	Desc
)

func (d Direction) String() string {
	if d == Desc {
		return "desc"
	}
	return "asc"
}

type serverTimestamp struct{}

// ServerTimestamp is replaced by the backend's clock when written.
var ServerTimestamp any = serverTimestamp{}

// IsServerTimestamp reports whether v is the ServerTimestamp sentinel.
func IsServerTimestamp(v any) bool {
	_, ok := v.(serverTimestamp)
	return ok
}

// Document is a stored record. Data holds the decoded field values.
type Document struct {
	ID   string
	Data map[string]any
}

// Client is the document database contract shared by all backends.
// Implementations must be safe for concurrent use.
type Client interface {
	Get(ctx context.Context, collection, id string) (*Document, error)
	Run(ctx context.Context, q Query) ([]Document, error)
	Add(ctx context.Context, collection string, data map[string]any) (string, error)
	// Create writes data under a caller-chosen id. It fails with
	// ErrAlreadyExists, leaving the stored document untouched, when the id is
	// taken.
	Create(ctx context.Context, collection, id string, data map[string]any) error
	// Update merges data into an existing document.
	Update(ctx context.Context, collection, id string, data map[string]any) error
	// Delete removes the document; deleting a missing id is not an error.
	Delete(ctx context.Context, collection, id string) error
	Ping(ctx context.Context) error
	Close() error
}

// Filter is a single equality predicate.
type Filter struct {
	Field string
	Value any
}

// Query describes a filtered, ordered, cursor-paginated read. Queries are
// values; every builder method returns a modified copy.
type Query struct {
	Collection string
	Filters    []Filter
	OrderField string
	OrderDir   Direction
	AfterID    string
	AfterVals  []any
	Max        int
}

// From starts a query over collection.
func From(collection string) Query {
	return Query{Collection: collection}
}

// Where adds an equality filter.
func (q Query) Where(field string, value any) Query {
	q.Filters = append(append([]Filter(nil), q.Filters...), Filter{Field: field, Value: value})
	return q
}

// OrderBy sets the sort field. Ties are broken by document id in the same
// direction, and documents without the field are not returned.
func (q Query) OrderBy(field string, dir Direction) Query {
	q.OrderField = field
	q.OrderDir = dir
	return q
}

// StartAfter resumes the query strictly after the document id whose order
// field holds values.
func (q Query) StartAfter(id string, values ...any) Query {
	q.AfterID = id
	q.AfterVals = append([]any(nil), values...)
	return q
}

// Limit caps the number of returned documents. Zero means no limit.
func (q Query) Limit(n int) Query {
	q.Max = n
	return q
}

// validFieldName matches top-level document field names.
var validFieldName = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// ValidField reports whether name can be used in a filter or order clause.
func ValidField(name string) bool {
	return validFieldName.MatchString(name)
}

// Validate checks the collection and every field name.
func (q Query) Validate() error {
	if q.Collection == "" {
		return fmt.Errorf("%w: empty collection", ErrInvalidQuery)
	}
	for _, f := range q.Filters {
		if !ValidField(f.Field) {
			return fmt.Errorf("%w: filter field %q", ErrInvalidQuery, f.Field)
		}
	}
	if q.OrderField != "" && !ValidField(q.OrderField) {
		return fmt.Errorf("%w: order field %q", ErrInvalidQuery, q.OrderField)
	}
	if q.AfterID != "" && q.OrderField == "" {
		return fmt.Errorf("%w: start-after without order", ErrInvalidQuery)
	}
	return nil
}

// Fingerprint identifies the collection, filter set and order of q,
// independent of cursor and limit. Filter order does not matter.
func (q Query) Fingerprint() string {
	parts := make([]string, 0, len(q.Filters))
	for _, f := range q.Filters {
		v, err := json.Marshal(f.Value)
		if err != nil {
			v = []byte(fmt.Sprint(f.Value))
		}
		parts = append(parts, f.Field+"="+string(v))
	}
	sort.Strings(parts)

	h := sha256.New()
	fmt.Fprintf(h, "%s|%s|%s|%s", q.Collection, strings.Join(parts, "&"), q.OrderField, q.OrderDir)
	return hex.EncodeToString(h.Sum(nil))[:16]
}
