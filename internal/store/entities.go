package store

import (
	"context"
	"log/slog"

	"github.com/simp-lee/transitdesk/internal/domain"
)

// RouteStore is the route controller. Besides the shared list behaviour it
// offers local views over the accumulated routes and the filter dropdown
// values.
type RouteStore struct {
	*EntityStore[domain.Route, domain.RouteFilters, domain.RouteInput, domain.RoutePatch]
	repo    domain.RouteRepository
	options domain.RouteFilterOptions
}

// NewRouteStore creates a RouteStore over repo.
func NewRouteStore(repo domain.RouteRepository, pageSize int) *RouteStore {
	return &RouteStore{
		EntityStore: NewEntityStore[domain.Route, domain.RouteFilters, domain.RouteInput, domain.RoutePatch](repo, EntityConfig[domain.RouteInput, domain.RoutePatch]{
			Singular:      "route",
			Plural:        "routes",
			PageSize:      pageSize,
			ValidateInput: domain.ValidateRouteInput,
			ValidatePatch: domain.ValidateRoutePatch,
		}),
		repo:    repo,
		options: domain.RouteFilterOptions{Origins: []string{}, Destinations: []string{}},
	}
}

func (s *RouteStore) ActiveRoutes() []domain.Route {
	return s.filter(func(r domain.Route) bool { return r.IsActive })
}

func (s *RouteStore) InactiveRoutes() []domain.Route {
	return s.filter(func(r domain.Route) bool { return !r.IsActive })
}

func (s *RouteStore) RoutesByOrigin(origin string) []domain.Route {
	return s.filter(func(r domain.Route) bool { return r.Origin == origin })
}

func (s *RouteStore) RoutesByDestination(destination string) []domain.Route {
	return s.filter(func(r domain.Route) bool { return r.Destination == destination })
}

// ToggleActive sets the soft-delete flag and replaces the list entry.
func (s *RouteStore) ToggleActive(ctx context.Context, id string, active bool) Result[domain.Route] {
	r, err := s.repo.ToggleActive(ctx, id, active)
	if err != nil {
		return s.fail(err, "Failed to toggle route status")
	}
	s.replace(*r)
	return ok(clone(r))
}

// FetchFilterOptions loads the distinct origins and destinations. It is best
// effort: the repository logs failures and yields empty lists.
func (s *RouteStore) FetchFilterOptions(ctx context.Context) domain.RouteFilterOptions {
	opts := domain.RouteFilterOptions{
		Origins:      s.repo.DistinctOrigins(ctx),
		Destinations: s.repo.DistinctDestinations(ctx),
	}
	s.mu.Lock()
	s.options = opts
	s.mu.Unlock()
	return opts
}

// FilterOptions returns the values loaded by the last FetchFilterOptions.
func (s *RouteStore) FilterOptions() domain.RouteFilterOptions {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.options
}

// TripStore is the trip controller.
type TripStore = EntityStore[domain.Trip, domain.TripFilters, domain.TripInput, domain.TripPatch]

// NewTripStore creates a TripStore over repo.
func NewTripStore(repo domain.TripRepository, pageSize int) *TripStore {
	return NewEntityStore[domain.Trip, domain.TripFilters, domain.TripInput, domain.TripPatch](repo, EntityConfig[domain.TripInput, domain.TripPatch]{
		Singular:      "trip",
		Plural:        "trips",
		PageSize:      pageSize,
		ValidateInput: domain.ValidateTripInput,
		ValidatePatch: domain.ValidateTripPatch,
	})
}

// VehicleStore is the vehicle controller.
type VehicleStore = EntityStore[domain.Vehicle, domain.VehicleFilters, domain.VehicleInput, domain.VehiclePatch]

// NewVehicleStore creates a VehicleStore over repo.
func NewVehicleStore(repo domain.VehicleRepository, pageSize int) *VehicleStore {
	return NewEntityStore[domain.Vehicle, domain.VehicleFilters, domain.VehicleInput, domain.VehiclePatch](repo, EntityConfig[domain.VehicleInput, domain.VehiclePatch]{
		Singular:      "vehicle",
		Plural:        "vehicles",
		PageSize:      pageSize,
		ValidateInput: domain.ValidateVehicleInput,
		ValidatePatch: domain.ValidateVehiclePatch,
	})
}

// UserStore is the user management controller.
type UserStore struct {
	*EntityStore[domain.AdminUser, domain.UserFilters, domain.UserInput, domain.UserPatch]
	repo domain.UserRepository
}

// NewUserStore creates a UserStore over repo.
func NewUserStore(repo domain.UserRepository, pageSize int) *UserStore {
	return &UserStore{
		EntityStore: NewEntityStore[domain.AdminUser, domain.UserFilters, domain.UserInput, domain.UserPatch](repo, EntityConfig[domain.UserInput, domain.UserPatch]{
			Singular:      "user",
			Plural:        "users",
			PageSize:      pageSize,
			ValidateInput: domain.ValidateUserInput,
			ValidatePatch: domain.ValidateUserPatch,
		}),
		repo: repo,
	}
}

// UpdateRole writes the role and patches the local copies without a re-read.
// Entity is nil when the user is not held locally.
func (s *UserStore) UpdateRole(ctx context.Context, id string, role domain.UserRole) Result[domain.AdminUser] {
	if _, err := domain.ValidateUserPatch(domain.UserPatch{Role: &role}); err != nil {
		return s.fail(err, "Invalid role")
	}
	if err := s.repo.UpdateRole(ctx, id, role); err != nil {
		return s.fail(err, "Failed to update user role")
	}
	slog.InfoContext(ctx, "user role changed", slog.String("id", id), slog.String("role", string(role)))
	return ok(s.patchLocal(id, func(u *domain.AdminUser) domain.AdminUser {
		c := *u
		c.Role = role
		return c
	}))
}

// UpdateActive writes the soft-delete flag and patches the local copies.
func (s *UserStore) UpdateActive(ctx context.Context, id string, active bool) Result[domain.AdminUser] {
	if err := s.repo.UpdateActive(ctx, id, active); err != nil {
		return s.fail(err, "Failed to update user status")
	}
	return ok(s.patchLocal(id, func(u *domain.AdminUser) domain.AdminUser {
		c := *u
		c.IsActive = active
		return c
	}))
}

func (s *UserStore) patchLocal(id string, fn func(*domain.AdminUser) domain.AdminUser) *domain.AdminUser {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.modify(id, fn)
}
