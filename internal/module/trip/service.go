package trip

import (
	"context"

	"github.com/simp-lee/transitdesk/internal/domain"
)

// tripService implements domain.TripService.
type tripService struct {
	repo domain.TripRepository
}

// NewTripService creates a new TripService with the given repository.
func NewTripService(repo domain.TripRepository) domain.TripService {
	return &tripService{repo: repo}
}

func (s *tripService) ListTrips(ctx context.Context, filters domain.TripFilters, req domain.PageRequest) (*domain.Page[domain.Trip], error) {
	if filters.Status != "" && !filters.Status.Valid() {
		return nil, domain.NewValidationError(domain.FieldErrors{"status": "unknown trip status"})
	}
	return s.repo.GetAll(ctx, filters, req)
}

func (s *tripService) GetTrip(ctx context.Context, id string) (*domain.Trip, error) {
	trip, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if trip == nil {
		return nil, domain.NewAppError(domain.CodeNotFound, "trip not found", nil)
	}
	return trip, nil
}

func (s *tripService) CreateTrip(ctx context.Context, in domain.TripInput) (*domain.Trip, error) {
	in, err := domain.ValidateTripInput(in)
	if err != nil {
		return nil, err
	}
	return s.repo.Create(ctx, in)
}

func (s *tripService) UpdateTrip(ctx context.Context, id string, patch domain.TripPatch) (*domain.Trip, error) {
	patch, err := domain.ValidateTripPatch(patch)
	if err != nil {
		return nil, err
	}
	return s.repo.Update(ctx, id, patch)
}

func (s *tripService) DeleteTrip(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
