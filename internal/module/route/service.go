package route

import (
	"context"

	"github.com/simp-lee/transitdesk/internal/domain"
)

// routeService implements domain.RouteService.
type routeService struct {
	repo domain.RouteRepository
}

// NewRouteService creates a new RouteService with the given repository.
func NewRouteService(repo domain.RouteRepository) domain.RouteService {
	return &routeService{repo: repo}
}

// ListRoutes returns one page of routes ordered by name.
func (s *routeService) ListRoutes(ctx context.Context, filters domain.RouteFilters, req domain.PageRequest) (*domain.Page[domain.Route], error) {
	return s.repo.GetAll(ctx, filters, req)
}

// GetRoute retrieves a route by ID. A missing route is a NotFound error.
func (s *routeService) GetRoute(ctx context.Context, id string) (*domain.Route, error) {
	route, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if route == nil {
		return nil, domain.NewAppError(domain.CodeNotFound, "route not found", nil)
	}
	return route, nil
}

// CreateRoute validates input and persists it.
func (s *routeService) CreateRoute(ctx context.Context, in domain.RouteInput) (*domain.Route, error) {
	in, err := domain.ValidateRouteInput(in)
	if err != nil {
		return nil, err
	}
	return s.repo.Create(ctx, in)
}

// UpdateRoute validates the patch and merges it into the stored route.
func (s *routeService) UpdateRoute(ctx context.Context, id string, patch domain.RoutePatch) (*domain.Route, error) {
	patch, err := domain.ValidateRoutePatch(patch)
	if err != nil {
		return nil, err
	}
	return s.repo.Update(ctx, id, patch)
}

// SetRouteActive flips the soft-delete flag.
func (s *routeService) SetRouteActive(ctx context.Context, id string, active bool) (*domain.Route, error) {
	return s.repo.ToggleActive(ctx, id, active)
}

// DeleteRoute removes a route by ID.
func (s *routeService) DeleteRoute(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// FilterOptions lists the distinct origins and destinations. It never fails.
func (s *routeService) FilterOptions(ctx context.Context) domain.RouteFilterOptions {
	return domain.RouteFilterOptions{
		Origins:      s.repo.DistinctOrigins(ctx),
		Destinations: s.repo.DistinctDestinations(ctx),
	}
}
