package store

import (
	"context"

	"github.com/simp-lee/transitdesk/internal/domain"
)

// Repository is the data access surface an EntityStore drives. Every domain
// repository satisfies it for its own types.
type Repository[T any, F any, I any, P any] interface {
	Lister[T, F]
	GetByID(ctx context.Context, id string) (*T, error)
	Create(ctx context.Context, in I) (*T, error)
	Update(ctx context.Context, id string, patch P) (*T, error)
	Delete(ctx context.Context, id string) error
}

// EntityConfig names an entity and supplies its input checks.
type EntityConfig[I any, P any] struct {
	Singular      string // e.g. "route"
	Plural        string // e.g. "routes"
	PageSize      int
	ValidateInput func(I) (I, error)
	ValidatePatch func(P) (P, error)
}

// EntityStore adds single-entity reads and writes to a ListStore and keeps
// the accumulated list in step with them.
type EntityStore[T Identified, F any, I any, P any] struct {
	*ListStore[T, F]
	repo Repository[T, F, I, P]
	cfg  EntityConfig[I, P]
}

// NewEntityStore creates an EntityStore over repo.
func NewEntityStore[T Identified, F any, I any, P any](repo Repository[T, F, I, P], cfg EntityConfig[I, P]) *EntityStore[T, F, I, P] {
	return &EntityStore[T, F, I, P]{
		ListStore: NewListStore[T, F](repo, cfg.Plural, cfg.PageSize),
		repo:      repo,
		cfg:       cfg,
	}
}

// FetchByID loads one entity into the current selection.
func (s *EntityStore[T, F, I, P]) FetchByID(ctx context.Context, id string) Result[T] {
	v, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return s.fail(err, "Failed to fetch "+s.cfg.Singular)
	}
	if v == nil {
		s.setCurrent(nil)
		return s.fail(domain.NewAppError(domain.CodeNotFound, s.cfg.Singular+" not found", nil), "")
	}
	s.setCurrent(v)
	return ok(clone(v))
}

// Create validates in, stores it and puts the new entity at the front of the
// list.
func (s *EntityStore[T, F, I, P]) Create(ctx context.Context, in I) Result[T] {
	if s.cfg.ValidateInput != nil {
		var err error
		if in, err = s.cfg.ValidateInput(in); err != nil {
			return s.fail(err, "Invalid "+s.cfg.Singular)
		}
	}
	v, err := s.repo.Create(ctx, in)
	if err != nil {
		return s.fail(err, "Failed to create "+s.cfg.Singular)
	}
	s.prepend(*v)
	return ok(clone(v))
}

// Update validates patch, merges it and replaces the matching list entry in
// place.
func (s *EntityStore[T, F, I, P]) Update(ctx context.Context, id string, patch P) Result[T] {
	if s.cfg.ValidatePatch != nil {
		var err error
		if patch, err = s.cfg.ValidatePatch(patch); err != nil {
			return s.fail(err, "Invalid "+s.cfg.Singular)
		}
	}
	v, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return s.fail(err, "Failed to update "+s.cfg.Singular)
	}
	s.replace(*v)
	return ok(clone(v))
}

// Delete removes the entity and drops it from the list.
func (s *EntityStore[T, F, I, P]) Delete(ctx context.Context, id string) Result[T] {
	if err := s.repo.Delete(ctx, id); err != nil {
		return s.fail(err, "Failed to delete "+s.cfg.Singular)
	}
	s.remove(id)
	return Result[T]{Success: true}
}

func (s *EntityStore[T, F, I, P]) fail(err error, fallback string) Result[T] {
	r := failed[T](err, fallback)
	s.setError(r.Error)
	return r
}
