package domain

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"
)

// Entity is the envelope shared by every stored record.
// ID and the timestamps are assigned by the document store; IsActive is the
// soft-delete flag and defaults to true.
type Entity struct {
	ID        string     `json:"id"`
	IsActive  bool       `json:"is_active"`
	CreatedAt *time.Time `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
}

// GetID returns the store-assigned identifier.
func (e Entity) GetID() string {
	return e.ID
}

// PageRequest holds the page size and the optional resume position.
type PageRequest struct {
	PageSize int
	Cursor   *Cursor
}

// Page is one slice of an ordered, filtered result set.
//
// HasMore is inferred rather than counted: it is true whenever the page came
// back full, so a collection whose size is an exact multiple of the page size
// reports one extra, empty page.
type Page[T any] struct {
	Data    []T     `json:"data"`
	Cursor  *Cursor `json:"cursor"`
	HasMore bool    `json:"has_more"`
}

// Cursor is an opaque marker for the last item of a previously fetched page.
// It is only meaningful for the exact filter and order combination (its
// scope) that produced it.
type Cursor struct {
	scope  string
	id     string
	values []any
}

// NewCursor builds a cursor positioned after the document id whose order key
// values are values.
func NewCursor(scope, id string, values ...any) *Cursor {
	return &Cursor{scope: scope, id: id, values: append([]any(nil), values...)}
}

// Scope returns the fingerprint of the query that produced the cursor.
func (c *Cursor) Scope() string { return c.scope }

// ID returns the document id the cursor points at.
func (c *Cursor) ID() string { return c.id }

// Values returns a copy of the order key values at the cursor position.
func (c *Cursor) Values() []any { return append([]any(nil), c.values...) }

type cursorValue struct {
	Kind  string          `json:"k"`
	Value json.RawMessage `json:"v"`
}

type cursorWire struct {
	Scope  string        `json:"s"`
	ID     string        `json:"i"`
	Values []cursorValue `json:"v,omitempty"`
}

// Encode serialises the cursor into a URL-safe token.
func (c *Cursor) Encode() (string, error) {
	wire := cursorWire{Scope: c.scope, ID: c.id}
	for _, v := range c.values {
		kind := "json"
		if t, ok := v.(time.Time); ok {
			kind = "time"
			v = t.UTC().Format(time.RFC3339Nano)
		}
		raw, err := json.Marshal(v)
		if err != nil {
			return "", fmt.Errorf("encode cursor value: %w", err)
		}
		wire.Values = append(wire.Values, cursorValue{Kind: kind, Value: raw})
	}
	b, err := json.Marshal(wire)
	if err != nil {
		return "", fmt.Errorf("encode cursor: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// DecodeCursor parses a token produced by Encode.
func DecodeCursor(token string) (*Cursor, error) {
	b, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return nil, NewAppError(CodeValidation, ErrInvalidCursor.Message, err)
	}
	var wire cursorWire
	if err := json.Unmarshal(b, &wire); err != nil {
		return nil, NewAppError(CodeValidation, ErrInvalidCursor.Message, err)
	}
	if wire.ID == "" || wire.Scope == "" {
		return nil, ErrInvalidCursor
	}

	c := &Cursor{scope: wire.Scope, id: wire.ID}
	for _, cv := range wire.Values {
		var v any
		if err := json.Unmarshal(cv.Value, &v); err != nil {
			return nil, NewAppError(CodeValidation, ErrInvalidCursor.Message, err)
		}
		if cv.Kind == "time" {
			s, _ := v.(string)
			t, err := time.Parse(time.RFC3339Nano, s)
			if err != nil {
				return nil, NewAppError(CodeValidation, ErrInvalidCursor.Message, err)
			}
			v = t
		}
		c.values = append(c.values, v)
	}
	return c, nil
}

// MarshalJSON renders the cursor as its token string.
func (c *Cursor) MarshalJSON() ([]byte, error) {
	if c == nil {
		return []byte("null"), nil
	}
	token, err := c.Encode()
	if err != nil {
		return nil, err
	}
	return json.Marshal(token)
}

// UnmarshalJSON parses a token string.
func (c *Cursor) UnmarshalJSON(b []byte) error {
	var token string
	if err := json.Unmarshal(b, &token); err != nil {
		return err
	}
	decoded, err := DecodeCursor(token)
	if err != nil {
		return err
	}
	*c = *decoded
	return nil
}
