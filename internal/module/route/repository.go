package route

import (
	"context"
	"log/slog"
	"sort"

	"github.com/simp-lee/transitdesk/internal/docstore"
	"github.com/simp-lee/transitdesk/internal/domain"
	"github.com/simp-lee/transitdesk/internal/pkg"
)

// routeRepository implements domain.RouteRepository on a document store.
type routeRepository struct {
	coll pkg.Collection[domain.Route]
}

// NewRouteRepository creates a RouteRepository over the "routes" collection,
// ordered by name.
func NewRouteRepository(client docstore.Client) domain.RouteRepository {
	return &routeRepository{coll: pkg.Collection[domain.Route]{
		Client:   client,
		Name:     "routes",
		Singular: "route",
		Order:    "name",
		Dir:      docstore.Asc,
		Decode:   decodeRoute,
	}}
}

func (r *routeRepository) GetByID(ctx context.Context, id string) (*domain.Route, error) {
	return r.coll.Get(ctx, id)
}

func (r *routeRepository) GetAll(ctx context.Context, f domain.RouteFilters, req domain.PageRequest) (*domain.Page[domain.Route], error) {
	q := r.coll.Query()
	if f.Origin != "" {
		q = q.Where("origin", f.Origin)
	}
	if f.Destination != "" {
		q = q.Where("destination", f.Destination)
	}
	if f.IsActive != nil {
		q = q.Where("isActive", *f.IsActive)
	}
	return r.coll.Page(ctx, q, req)
}

func (r *routeRepository) Create(ctx context.Context, in domain.RouteInput) (*domain.Route, error) {
	stops := in.Stops
	if stops == nil {
		stops = []string{}
	}
	return r.coll.Create(ctx, map[string]any{
		"name":                     in.Name,
		"origin":                   in.Origin,
		"destination":              in.Destination,
		"basePrice":                in.BasePrice,
		"estimatedDurationMinutes": in.EstimatedDurationMinutes,
		"stops":                    stops,
		"isActive":                 in.IsActive,
	})
}

func (r *routeRepository) Update(ctx context.Context, id string, p domain.RoutePatch) (*domain.Route, error) {
	data := map[string]any{}
	if p.Name != nil {
		data["name"] = *p.Name
	}
	if p.Origin != nil {
		data["origin"] = *p.Origin
	}
	if p.Destination != nil {
		data["destination"] = *p.Destination
	}
	if p.BasePrice != nil {
		data["basePrice"] = *p.BasePrice
	}
	if p.EstimatedDurationMinutes != nil {
		data["estimatedDurationMinutes"] = *p.EstimatedDurationMinutes
	}
	if p.Stops != nil {
		data["stops"] = *p.Stops
	}
	if p.IsActive != nil {
		data["isActive"] = *p.IsActive
	}
	return r.coll.Update(ctx, id, data)
}

func (r *routeRepository) Delete(ctx context.Context, id string) error {
	return r.coll.Delete(ctx, id)
}

func (r *routeRepository) ToggleActive(ctx context.Context, id string, active bool) (*domain.Route, error) {
	return r.coll.Update(ctx, id, map[string]any{"isActive": active})
}

// DistinctOrigins is best effort: failures are logged and yield an empty list.
func (r *routeRepository) DistinctOrigins(ctx context.Context) []string {
	return r.distinct(ctx, "origin")
}

// DistinctDestinations is best effort like DistinctOrigins.
func (r *routeRepository) DistinctDestinations(ctx context.Context) []string {
	return r.distinct(ctx, "destination")
}

func (r *routeRepository) distinct(ctx context.Context, field string) []string {
	docs, err := r.coll.Client.Run(ctx, docstore.From(r.coll.Name))
	if err != nil {
		slog.WarnContext(ctx, "failed to load route filter options",
			slog.String("field", field), slog.Any("error", err))
		return []string{}
	}
	seen := make(map[string]struct{})
	out := []string{}
	for _, d := range docs {
		v := pkg.Doc(d.Data).String(field)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// decodeRoute never fails; missing fields take their zero value and the
// duration falls back through its legacy names.
func decodeRoute(d docstore.Document) domain.Route {
	doc := pkg.Doc(d.Data)
	return domain.Route{
		Entity: domain.Entity{
			ID:        d.ID,
			IsActive:  doc.Active(),
			CreatedAt: doc.Time("createdAt"),
			UpdatedAt: doc.Time("updatedAt"),
		},
		Name:                     doc.String("name"),
		Origin:                   doc.String("origin"),
		Destination:              doc.String("destination"),
		BasePrice:                doc.Number("basePrice"),
		EstimatedDurationMinutes: doc.Int("estimatedDurationMinutes", "durationMinutes", "estimatedDuration"),
		Stops:                    doc.Strings("stops"),
	}
}
