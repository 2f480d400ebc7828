// Package store holds the stateful controllers that page through repository
// results and keep an accumulated, caller-facing list in memory.
//
// A store issues at most one pagination request at a time. Its mutex guards
// the in-memory state only and is never held across a repository call, so
// getters stay responsive while a fetch is outstanding.
package store

import (
	"context"
	"sync"

	"github.com/simp-lee/transitdesk/internal/domain"
)

// Status is the request state of a store.
type Status int

const (
	Idle Status = iota
	Loading
	Loaded
	Failed
)

func (s Status) String() string {
	switch s {
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	case Failed:
		return "error"
	default:
		return "idle"
	}
}

// Identified is implemented by every stored entity.
type Identified interface {
	GetID() string
}

// Result is the outcome of a single-entity store action.
type Result[T any] struct {
	Success bool
	Entity  *T
	Error   string
	Fields  domain.FieldErrors
}

func ok[T any](v *T) Result[T] {
	return Result[T]{Success: true, Entity: v}
}

func failed[T any](err error, fallback string) Result[T] {
	return Result[T]{Error: domain.Message(err, fallback), Fields: domain.FieldErrorsOf(err)}
}

// Lister runs one filtered page query.
type Lister[T any, F any] interface {
	GetAll(ctx context.Context, filters F, req domain.PageRequest) (*domain.Page[T], error)
}

// Snapshot is a copy of a list store's observable state.
type Snapshot[T any, F any] struct {
	Items   []T
	Current *T
	Filters F
	HasMore bool
	Status  Status
	Error   string
}

// ListStore accumulates pages of T for one filter selection.
type ListStore[T Identified, F any] struct {
	lister   Lister[T, F]
	pageSize int
	plural   string

	mu      sync.Mutex
	items   []T
	current *T
	filters F
	cursor  *domain.Cursor
	hasMore bool
	status  Status
	err     string
	// epoch is bumped by every reset so that a page fetched for an older
	// query is dropped instead of merged.
	epoch uint64
}

// NewListStore creates a ListStore. plural names the entities in messages,
// e.g. "routes".
func NewListStore[T Identified, F any](lister Lister[T, F], plural string, pageSize int) *ListStore[T, F] {
	if pageSize < 1 {
		pageSize = 20
	}
	return &ListStore[T, F]{lister: lister, plural: plural, pageSize: pageSize}
}

// Fetch runs the current query. A reset discards the accumulated list and
// cursor first and starts from the top; otherwise the next page after the
// stored cursor is appended. On failure the message is recorded, the list is
// left as it was when the query started and the error is returned.
func (s *ListStore[T, F]) Fetch(ctx context.Context, reset bool) error {
	return s.fetch(ctx, reset, false)
}

// LoadMore fetches the next page. It does nothing when the last page reported
// no more results or when a fetch is already in flight.
func (s *ListStore[T, F]) LoadMore(ctx context.Context) error {
	return s.fetch(ctx, false, true)
}

func (s *ListStore[T, F]) fetch(ctx context.Context, reset, guarded bool) error {
	s.mu.Lock()
	if guarded && (!s.hasMore || s.status == Loading) {
		s.mu.Unlock()
		return nil
	}
	if reset {
		s.items = nil
		s.cursor = nil
		s.hasMore = false
		s.epoch++
	}
	s.status = Loading
	s.err = ""
	epoch := s.epoch
	filters := s.filters
	req := domain.PageRequest{PageSize: s.pageSize, Cursor: s.cursor}
	s.mu.Unlock()

	page, err := s.lister.GetAll(ctx, filters, req)

	s.mu.Lock()
	defer s.mu.Unlock()
	if epoch != s.epoch {
		return nil
	}
	if err != nil {
		s.status = Failed
		s.err = domain.Message(err, "Failed to fetch "+s.plural)
		return err
	}

	if reset {
		s.items = append([]T(nil), page.Data...)
	} else {
		s.items = append(s.items, page.Data...)
	}
	// An empty page carries no cursor; resuming from the previous one is
	// still correct.
	if page.Cursor != nil {
		s.cursor = page.Cursor
	}
	s.hasMore = page.HasMore
	s.status = Loaded
	return nil
}

// SetFilters replaces the whole filter selection; use UpdateFilters to
// change some fields and keep the rest. It does not fetch.
func (s *ListStore[T, F]) SetFilters(f F) {
	s.mu.Lock()
	s.filters = f
	s.mu.Unlock()
}

// UpdateFilters applies fn to the filter selection, leaving fields fn does
// not touch unchanged. It does not fetch.
func (s *ListStore[T, F]) UpdateFilters(fn func(*F)) {
	s.mu.Lock()
	fn(&s.filters)
	s.mu.Unlock()
}

// ResetFilters clears the filter selection. It does not fetch.
func (s *ListStore[T, F]) ResetFilters() {
	var zero F
	s.SetFilters(zero)
}

// ClearCurrent drops the single-entity selection.
func (s *ListStore[T, F]) ClearCurrent() {
	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()
}

// ClearError drops the recorded error message.
func (s *ListStore[T, F]) ClearError() {
	s.mu.Lock()
	s.err = ""
	if s.status == Failed {
		s.status = Idle
	}
	s.mu.Unlock()
}

// Items returns a copy of the accumulated list.
func (s *ListStore[T, F]) Items() []T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]T(nil), s.items...)
}

// Current returns a copy of the single-entity selection, or nil.
func (s *ListStore[T, F]) Current() *T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return clone(s.current)
}

func (s *ListStore[T, F]) Filters() F {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filters
}

func (s *ListStore[T, F]) HasMore() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hasMore
}

func (s *ListStore[T, F]) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

func (s *ListStore[T, F]) Loading() bool { return s.Status() == Loading }

func (s *ListStore[T, F]) Error() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Snapshot returns a consistent copy of the whole state.
func (s *ListStore[T, F]) Snapshot() Snapshot[T, F] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot[T, F]{
		Items:   append([]T(nil), s.items...),
		Current: clone(s.current),
		Filters: s.filters,
		HasMore: s.hasMore,
		Status:  s.status,
		Error:   s.err,
	}
}

// prepend puts v at the front without re-sorting.
func (s *ListStore[T, F]) prepend(v T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append([]T{v}, s.items...)
}

// replace swaps the entry with v's id in place and refreshes the current
// selection when it points at the same id.
func (s *ListStore[T, F]) replace(v T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.modify(v.GetID(), func(*T) T { return v })
}

// modify applies fn to the entry and current selection with the given id and
// returns the updated entry, or nil when neither holds it.
func (s *ListStore[T, F]) modify(id string, fn func(*T) T) *T {
	var out *T
	for i := range s.items {
		if s.items[i].GetID() == id {
			s.items[i] = fn(&s.items[i])
			out = clone(&s.items[i])
			break
		}
	}
	if s.current != nil && (*s.current).GetID() == id {
		v := fn(s.current)
		s.current = &v
		if out == nil {
			out = clone(s.current)
		}
	}
	return out
}

// remove drops the entry with id and clears the current selection when it
// points at it.
func (s *ListStore[T, F]) remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].GetID() == id {
			s.items = append(s.items[:i:i], s.items[i+1:]...)
			break
		}
	}
	if s.current != nil && (*s.current).GetID() == id {
		s.current = nil
	}
}

func (s *ListStore[T, F]) setCurrent(v *T) {
	s.mu.Lock()
	s.current = clone(v)
	s.mu.Unlock()
}

func (s *ListStore[T, F]) setError(msg string) {
	s.mu.Lock()
	s.err = msg
	s.mu.Unlock()
}

// filter returns the accumulated entries matching keep.
func (s *ListStore[T, F]) filter(keep func(T) bool) []T {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]T, 0, len(s.items))
	for _, v := range s.items {
		if keep(v) {
			out = append(out, v)
		}
	}
	return out
}

func clone[T any](v *T) *T {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
