package vehicle

import (
	"context"

	"github.com/simp-lee/transitdesk/internal/domain"
)

// vehicleService implements domain.VehicleService.
type vehicleService struct {
	repo domain.VehicleRepository
}

// NewVehicleService creates a new VehicleService with the given repository.
func NewVehicleService(repo domain.VehicleRepository) domain.VehicleService {
	return &vehicleService{repo: repo}
}

func (s *vehicleService) ListVehicles(ctx context.Context, filters domain.VehicleFilters, req domain.PageRequest) (*domain.Page[domain.Vehicle], error) {
	if filters.Status != "" && !filters.Status.Valid() {
		return nil, domain.NewValidationError(domain.FieldErrors{"status": "unknown vehicle status"})
	}
	return s.repo.GetAll(ctx, filters, req)
}

func (s *vehicleService) GetVehicle(ctx context.Context, id string) (*domain.Vehicle, error) {
	v, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, domain.NewAppError(domain.CodeNotFound, "vehicle not found", nil)
	}
	return v, nil
}

func (s *vehicleService) CreateVehicle(ctx context.Context, in domain.VehicleInput) (*domain.Vehicle, error) {
	in, err := domain.ValidateVehicleInput(in)
	if err != nil {
		return nil, err
	}
	return s.repo.Create(ctx, in)
}

func (s *vehicleService) UpdateVehicle(ctx context.Context, id string, patch domain.VehiclePatch) (*domain.Vehicle, error) {
	patch, err := domain.ValidateVehiclePatch(patch)
	if err != nil {
		return nil, err
	}
	return s.repo.Update(ctx, id, patch)
}

func (s *vehicleService) DeleteVehicle(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
