package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/simp-lee/transitdesk/internal/domain"
)

// fakeRoutes is an in-memory domain.RouteRepository ordered by name.
type fakeRoutes struct {
	mu      sync.Mutex
	routes  []domain.Route
	calls   int
	creates int
	nextID  int
	err     error

	// When block is set, GetAll calls that resume from a cursor signal
	// entered and then wait for block to be closed.
	block   chan struct{}
	entered chan struct{}
}

func newFakeRoutes(names ...string) *fakeRoutes {
	f := &fakeRoutes{}
	for _, n := range names {
		f.add(domain.Route{Entity: domain.Entity{IsActive: true}, Name: n, Origin: "Kampala", Destination: "Jinja"})
	}
	return f
}

func (f *fakeRoutes) add(r domain.Route) domain.Route {
	f.nextID++
	r.ID = fmt.Sprintf("r%03d", f.nextID)
	f.routes = append(f.routes, r)
	sort.SliceStable(f.routes, func(i, j int) bool { return f.routes[i].Name < f.routes[j].Name })
	return r
}

func (f *fakeRoutes) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *fakeRoutes) setBlocking() {
	f.mu.Lock()
	f.block = make(chan struct{})
	f.entered = make(chan struct{}, 1)
	f.mu.Unlock()
}

func (f *fakeRoutes) fail(err error) {
	f.mu.Lock()
	f.err = err
	f.mu.Unlock()
}

func (f *fakeRoutes) GetAll(_ context.Context, filters domain.RouteFilters, req domain.PageRequest) (*domain.Page[domain.Route], error) {
	f.mu.Lock()
	f.calls++
	block, entered := f.block, f.entered
	f.mu.Unlock()

	if block != nil && req.Cursor != nil {
		entered <- struct{}{}
		<-block
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}

	var match []domain.Route
	for _, r := range f.routes {
		if filters.IsActive != nil && r.IsActive != *filters.IsActive {
			continue
		}
		if filters.Origin != "" && r.Origin != filters.Origin {
			continue
		}
		match = append(match, r)
	}

	start := 0
	if req.Cursor != nil {
		for i, r := range match {
			if r.ID == req.Cursor.ID() {
				start = i + 1
			}
		}
	}
	end := min(start+req.PageSize, len(match))
	page := &domain.Page[domain.Route]{
		Data:    append([]domain.Route{}, match[start:end]...),
		HasMore: end-start == req.PageSize,
	}
	if end > start {
		page.Cursor = domain.NewCursor("routes", match[end-1].ID)
	}
	return page, nil
}

func (f *fakeRoutes) GetByID(_ context.Context, id string) (*domain.Route, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	for _, r := range f.routes {
		if r.ID == id {
			return &r, nil
		}
	}
	return nil, nil
}

func (f *fakeRoutes) Create(_ context.Context, in domain.RouteInput) (*domain.Route, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.creates++
	if f.err != nil {
		return nil, f.err
	}
	r := f.add(domain.Route{
		Entity:      domain.Entity{IsActive: in.IsActive},
		Name:        in.Name,
		Origin:      in.Origin,
		Destination: in.Destination,
		BasePrice:   in.BasePrice,
	})
	return &r, nil
}

func (f *fakeRoutes) Update(_ context.Context, id string, p domain.RoutePatch) (*domain.Route, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.routes {
		if f.routes[i].ID != id {
			continue
		}
		if p.Name != nil {
			f.routes[i].Name = *p.Name
		}
		if p.BasePrice != nil {
			f.routes[i].BasePrice = *p.BasePrice
		}
		if p.IsActive != nil {
			f.routes[i].IsActive = *p.IsActive
		}
		r := f.routes[i]
		return &r, nil
	}
	return nil, domain.NewAppError(domain.CodeNotFound, "route not found", nil)
}

func (f *fakeRoutes) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	for i := range f.routes {
		if f.routes[i].ID == id {
			f.routes = append(f.routes[:i], f.routes[i+1:]...)
			break
		}
	}
	return nil
}

func (f *fakeRoutes) ToggleActive(ctx context.Context, id string, active bool) (*domain.Route, error) {
	return f.Update(ctx, id, domain.RoutePatch{IsActive: &active})
}

func (f *fakeRoutes) DistinctOrigins(context.Context) []string {
	return f.distinct(func(r domain.Route) string { return r.Origin })
}

func (f *fakeRoutes) DistinctDestinations(context.Context) []string {
	return f.distinct(func(r domain.Route) string { return r.Destination })
}

func (f *fakeRoutes) distinct(field func(domain.Route) string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []string{}
	if f.err != nil {
		return out
	}
	seen := map[string]bool{}
	for _, r := range f.routes {
		if v := field(r); v != "" && !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	sort.Strings(out)
	return out
}

func routeNames(routes []domain.Route) []string {
	out := make([]string, 0, len(routes))
	for _, r := range routes {
		out = append(out, r.Name)
	}
	return out
}
