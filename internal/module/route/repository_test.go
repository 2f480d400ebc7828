package route

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simp-lee/transitdesk/internal/docstore"
	"github.com/simp-lee/transitdesk/internal/docstore/docstoretest"
	"github.com/simp-lee/transitdesk/internal/docstore/sqldoc"
	"github.com/simp-lee/transitdesk/internal/domain"
)

func setupStore(t *testing.T) *sqldoc.Store {
	t.Helper()
	s, err := sqldoc.NewMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func seedRoutes(t *testing.T, repo domain.RouteRepository, names ...string) {
	t.Helper()
	for _, n := range names {
		_, err := repo.Create(context.Background(), domain.RouteInput{
			Name: n, Origin: "Kampala", Destination: "Jinja",
			BasePrice: 15000, EstimatedDurationMinutes: 90, IsActive: true,
		})
		require.NoError(t, err)
	}
}

func names(routes []domain.Route) []string {
	out := make([]string, 0, len(routes))
	for _, r := range routes {
		out = append(out, r.Name)
	}
	return out
}

func TestRouteRepository_CreateAndGet(t *testing.T) {
	repo := NewRouteRepository(setupStore(t))
	ctx := context.Background()

	created, err := repo.Create(ctx, domain.RouteInput{
		Name: "Express", Origin: "Kampala", Destination: "Mbarara",
		BasePrice: 30000, EstimatedDurationMinutes: 240,
		Stops: []string{"Masaka"}, IsActive: true,
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	assert.NotNil(t, created.CreatedAt)
	assert.NotNil(t, created.UpdatedAt)
	assert.Equal(t, []string{"Masaka"}, created.Stops)

	got, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)

	missing, err := repo.GetByID(ctx, "nope")
	assert.NoError(t, err)
	assert.Nil(t, missing)
}

func TestRouteRepository_PagesInNameOrder(t *testing.T) {
	repo := NewRouteRepository(setupStore(t))
	ctx := context.Background()
	seedRoutes(t, repo, "E", "C", "A", "D", "B")

	active := true
	filters := domain.RouteFilters{IsActive: &active}

	p1, err := repo.GetAll(ctx, filters, domain.PageRequest{PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, names(p1.Data))
	assert.True(t, p1.HasMore)

	p2, err := repo.GetAll(ctx, filters, domain.PageRequest{PageSize: 2, Cursor: p1.Cursor})
	require.NoError(t, err)
	assert.Equal(t, []string{"C", "D"}, names(p2.Data))
	assert.True(t, p2.HasMore)

	p3, err := repo.GetAll(ctx, filters, domain.PageRequest{PageSize: 2, Cursor: p2.Cursor})
	require.NoError(t, err)
	assert.Equal(t, []string{"E"}, names(p3.Data))
	assert.False(t, p3.HasMore)
}

func TestRouteRepository_ExactMultipleReportsOneEmptyPage(t *testing.T) {
	repo := NewRouteRepository(setupStore(t))
	ctx := context.Background()
	seedRoutes(t, repo, "A", "B", "C", "D")

	p1, err := repo.GetAll(ctx, domain.RouteFilters{}, domain.PageRequest{PageSize: 2})
	require.NoError(t, err)
	p2, err := repo.GetAll(ctx, domain.RouteFilters{}, domain.PageRequest{PageSize: 2, Cursor: p1.Cursor})
	require.NoError(t, err)
	assert.True(t, p2.HasMore, "a full last page still reports more")

	p3, err := repo.GetAll(ctx, domain.RouteFilters{}, domain.PageRequest{PageSize: 2, Cursor: p2.Cursor})
	require.NoError(t, err)
	assert.Empty(t, p3.Data)
	assert.False(t, p3.HasMore)
	assert.Nil(t, p3.Cursor)
}

func TestRouteRepository_Filters(t *testing.T) {
	repo := NewRouteRepository(setupStore(t))
	ctx := context.Background()

	inputs := []domain.RouteInput{
		{Name: "R1", Origin: "Kampala", Destination: "Gulu", BasePrice: 1, EstimatedDurationMinutes: 1, IsActive: true},
		{Name: "R2", Origin: "Kampala", Destination: "Jinja", BasePrice: 1, EstimatedDurationMinutes: 1, IsActive: false},
		{Name: "R3", Origin: "Entebbe", Destination: "Jinja", BasePrice: 1, EstimatedDurationMinutes: 1, IsActive: true},
	}
	for _, in := range inputs {
		_, err := repo.Create(ctx, in)
		require.NoError(t, err)
	}

	inactive := false
	tests := []struct {
		name    string
		filters domain.RouteFilters
		want    []string
	}{
		{"none", domain.RouteFilters{}, []string{"R1", "R2", "R3"}},
		{"origin", domain.RouteFilters{Origin: "Kampala"}, []string{"R1", "R2"}},
		{"destination", domain.RouteFilters{Destination: "Jinja"}, []string{"R2", "R3"}},
		{"inactive", domain.RouteFilters{IsActive: &inactive}, []string{"R2"}},
		{"conjunction", domain.RouteFilters{Origin: "Kampala", Destination: "Jinja"}, []string{"R2"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := repo.GetAll(ctx, tt.filters, domain.PageRequest{PageSize: 10})
			require.NoError(t, err)
			assert.Equal(t, tt.want, names(page.Data))
		})
	}
}

func TestRouteRepository_CursorFromOtherFiltersRejected(t *testing.T) {
	repo := NewRouteRepository(setupStore(t))
	ctx := context.Background()
	seedRoutes(t, repo, "A", "B", "C")

	p1, err := repo.GetAll(ctx, domain.RouteFilters{}, domain.PageRequest{PageSize: 1})
	require.NoError(t, err)

	_, err = repo.GetAll(ctx, domain.RouteFilters{Origin: "Kampala"}, domain.PageRequest{PageSize: 1, Cursor: p1.Cursor})
	assert.True(t, domain.IsValidation(err), "got %v", err)
}

func TestRouteRepository_UpdateMerges(t *testing.T) {
	repo := NewRouteRepository(setupStore(t))
	ctx := context.Background()

	created, err := repo.Create(ctx, domain.RouteInput{
		Name: "Old", Origin: "Kampala", Destination: "Jinja",
		BasePrice: 10, EstimatedDurationMinutes: 60, IsActive: true,
	})
	require.NoError(t, err)

	price := 12.5
	updated, err := repo.Update(ctx, created.ID, domain.RoutePatch{BasePrice: &price})
	require.NoError(t, err)
	assert.Equal(t, "Old", updated.Name)
	assert.Equal(t, "Kampala", updated.Origin)
	assert.Equal(t, 12.5, updated.BasePrice)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)

	toggled, err := repo.ToggleActive(ctx, created.ID, false)
	require.NoError(t, err)
	assert.False(t, toggled.IsActive)

	_, err = repo.Update(ctx, "missing", domain.RoutePatch{BasePrice: &price})
	assert.True(t, domain.IsNotFound(err), "got %v", err)
}

func TestRouteRepository_DeleteIsIdempotent(t *testing.T) {
	repo := NewRouteRepository(setupStore(t))
	ctx := context.Background()
	seedRoutes(t, repo, "A")

	page, err := repo.GetAll(ctx, domain.RouteFilters{}, domain.PageRequest{PageSize: 5})
	require.NoError(t, err)
	id := page.Data[0].ID

	require.NoError(t, repo.Delete(ctx, id))
	require.NoError(t, repo.Delete(ctx, id))

	got, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRouteRepository_DistinctOptions(t *testing.T) {
	repo := NewRouteRepository(setupStore(t))
	ctx := context.Background()

	for _, pair := range [][2]string{{"Kampala", "Jinja"}, {"Entebbe", "Jinja"}, {"Kampala", "Gulu"}} {
		_, err := repo.Create(ctx, domain.RouteInput{
			Name: pair[0] + "-" + pair[1], Origin: pair[0], Destination: pair[1],
			BasePrice: 1, EstimatedDurationMinutes: 1, IsActive: true,
		})
		require.NoError(t, err)
	}

	assert.Equal(t, []string{"Entebbe", "Kampala"}, repo.DistinctOrigins(ctx))
	assert.Equal(t, []string{"Gulu", "Jinja"}, repo.DistinctDestinations(ctx))
}

func TestRouteRepository_StorageFailures(t *testing.T) {
	failing := &docstoretest.Failing{Err: errors.New("connection reset")}
	repo := NewRouteRepository(failing)
	ctx := context.Background()

	_, err := repo.GetByID(ctx, "r1")
	assert.True(t, domain.IsStorage(err))
	assert.Equal(t, "Failed to fetch route", domain.Message(err, ""))

	_, err = repo.GetAll(ctx, domain.RouteFilters{}, domain.PageRequest{PageSize: 2})
	assert.True(t, domain.IsStorage(err))
	assert.Equal(t, "Failed to fetch routes", domain.Message(err, ""))

	_, err = repo.Create(ctx, domain.RouteInput{Name: "x"})
	assert.Equal(t, "Failed to create route", domain.Message(err, ""))
	assert.ErrorIs(t, err, failing.Err)

	// Best-effort reads swallow the failure.
	assert.Empty(t, repo.DistinctOrigins(ctx))
}

func TestRouteRepository_CreateRereadMiss(t *testing.T) {
	repo := NewRouteRepository(docstoretest.Vanishing{Client: setupStore(t)})

	_, err := repo.Create(context.Background(), domain.RouteInput{Name: "Ghost", BasePrice: 1, EstimatedDurationMinutes: 1})
	assert.True(t, domain.IsRetrieval(err), "got %v", err)
	assert.Equal(t, "Failed to retrieve created route", domain.Message(err, ""))
}

func TestDecodeRoute_Defaults(t *testing.T) {
	tests := []struct {
		name string
		data map[string]any
		want domain.Route
	}{
		{
			name: "empty document",
			data: map[string]any{},
			want: domain.Route{Entity: domain.Entity{ID: "r1", IsActive: true}, Stops: []string{}},
		},
		{
			name: "legacy duration and string price",
			data: map[string]any{"name": "Old", "durationMinutes": float64(45), "basePrice": "12.5", "isActive": false},
			want: domain.Route{
				Entity: domain.Entity{ID: "r1"}, Name: "Old",
				BasePrice: 12.5, EstimatedDurationMinutes: 45, Stops: []string{},
			},
		},
		{
			name: "oldest duration name",
			data: map[string]any{"estimatedDuration": float64(30), "stops": []any{"A", 3, "B"}},
			want: domain.Route{
				Entity:                   domain.Entity{ID: "r1", IsActive: true},
				EstimatedDurationMinutes: 30, Stops: []string{"A", "B"},
			},
		},
		{
			name: "unparsable price",
			data: map[string]any{"basePrice": "free"},
			want: domain.Route{Entity: domain.Entity{ID: "r1", IsActive: true}, Stops: []string{}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := decodeRoute(docstore.Document{ID: "r1", Data: tt.data})
			assert.Equal(t, tt.want, got)
		})
	}
}
