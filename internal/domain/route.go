package domain

import (
	"context"
	"strings"
)

// Route is a named origin → destination line with a base fare.
type Route struct {
	Entity
	Name                     string   `json:"name"`
	Origin                   string   `json:"origin"`
	Destination              string   `json:"destination"`
	BasePrice                float64  `json:"base_price"`
	EstimatedDurationMinutes int      `json:"estimated_duration_minutes"`
	Stops                    []string `json:"stops"`
}

// RouteFilters narrows a route listing. Zero-valued fields are not applied.
type RouteFilters struct {
	Origin      string
	Destination string
	IsActive    *bool
}

// RouteInput is the full payload for creating a route.
type RouteInput struct {
	Name                     string
	Origin                   string
	Destination              string
	BasePrice                float64
	EstimatedDurationMinutes int
	Stops                    []string
	IsActive                 bool
}

// RoutePatch is a merge patch: nil fields are left untouched.
type RoutePatch struct {
	Name                     *string
	Origin                   *string
	Destination              *string
	BasePrice                *float64
	EstimatedDurationMinutes *int
	Stops                    *[]string
	IsActive                 *bool
}

// RouteRepository defines the data access interface for routes.
type RouteRepository interface {
	GetByID(ctx context.Context, id string) (*Route, error)
	GetAll(ctx context.Context, filters RouteFilters, req PageRequest) (*Page[Route], error)
	Create(ctx context.Context, in RouteInput) (*Route, error)
	Update(ctx context.Context, id string, patch RoutePatch) (*Route, error)
	Delete(ctx context.Context, id string) error
	ToggleActive(ctx context.Context, id string, active bool) (*Route, error)
	DistinctOrigins(ctx context.Context) []string
	DistinctDestinations(ctx context.Context) []string
}

// RouteFilterOptions lists the values offered by the origin/destination dropdowns.
type RouteFilterOptions struct {
	Origins      []string `json:"origins"`
	Destinations []string `json:"destinations"`
}

// RouteService defines the business logic interface for routes.
type RouteService interface {
	ListRoutes(ctx context.Context, filters RouteFilters, req PageRequest) (*Page[Route], error)
	GetRoute(ctx context.Context, id string) (*Route, error)
	CreateRoute(ctx context.Context, in RouteInput) (*Route, error)
	UpdateRoute(ctx context.Context, id string, patch RoutePatch) (*Route, error)
	SetRouteActive(ctx context.Context, id string, active bool) (*Route, error)
	DeleteRoute(ctx context.Context, id string) error
	FilterOptions(ctx context.Context) RouteFilterOptions
}

// ValidateRouteInput trims the input and checks required fields and ranges.
// The sanitized input is returned alongside a validation error, if any.
func ValidateRouteInput(in RouteInput) (RouteInput, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Origin = strings.TrimSpace(in.Origin)
	in.Destination = strings.TrimSpace(in.Destination)
	in.Stops = cleanStrings(in.Stops)

	fe := FieldErrors{}
	if in.Name == "" {
		fe["name"] = "Route name is required"
	}
	if in.Origin == "" {
		fe["origin"] = "Origin is required"
	}
	if in.Destination == "" {
		fe["destination"] = "Destination is required"
	}
	if in.BasePrice <= 0 {
		fe["base_price"] = "Base price must be positive"
	}
	if in.EstimatedDurationMinutes <= 0 {
		fe["estimated_duration_minutes"] = "Duration must be positive"
	}
	if err := NewValidationError(fe); err != nil {
		return in, err
	}
	return in, nil
}

// ValidateRoutePatch applies the same rules as ValidateRouteInput to the
// fields that are present.
func ValidateRoutePatch(p RoutePatch) (RoutePatch, error) {
	fe := FieldErrors{}
	trimRequired(fe, &p.Name, "name", "Route name is required")
	trimRequired(fe, &p.Origin, "origin", "Origin is required")
	trimRequired(fe, &p.Destination, "destination", "Destination is required")
	if p.BasePrice != nil && *p.BasePrice <= 0 {
		fe["base_price"] = "Base price must be positive"
	}
	if p.EstimatedDurationMinutes != nil && *p.EstimatedDurationMinutes <= 0 {
		fe["estimated_duration_minutes"] = "Duration must be positive"
	}
	if p.Stops != nil {
		stops := cleanStrings(*p.Stops)
		p.Stops = &stops
	}
	if err := NewValidationError(fe); err != nil {
		return p, err
	}
	return p, nil
}

// trimRequired trims a present string field in place and records msg when it
// ends up empty.
func trimRequired(fe FieldErrors, field **string, key, msg string) {
	if *field == nil {
		return
	}
	v := strings.TrimSpace(**field)
	*field = &v
	if v == "" {
		fe[key] = msg
	}
}

// cleanStrings trims every element and drops the empty ones.
func cleanStrings(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
