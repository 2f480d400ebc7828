package vehicle

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

func setupRepo(t *testing.T) domain.VehicleRepository {
	t.Helper()
	s, err := sqldoc.NewMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return NewVehicleRepository(s)
}

func numbers(vs []domain.Vehicle) []string {
	out := make([]string, 0, len(vs))
	for _, v := range vs {
		out = append(out, v.VehicleNumber)
	}
	return out
}

func TestVehicleRepository_OrderAndFilters(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	for _, in := range []domain.VehicleInput{
		{VehicleNumber: "UBC 300", Status: domain.VehicleOnline, IsActive: true},
		{VehicleNumber: "UBA 100", Status: domain.VehicleMaintenance, IsActive: true},
		{VehicleNumber: "UBB 200", Status: domain.VehicleOnline, IsActive: false},
	} {
		_, err := repo.Create(ctx, in)
		require.NoError(t, err)
	}

	all, err := repo.GetAll(ctx, domain.VehicleFilters{}, domain.PageRequest{PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, []string{"UBA 100", "UBB 200", "UBC 300"}, numbers(all.Data))
	assert.False(t, all.HasMore)

	active := true
	online, err := repo.GetAll(ctx, domain.VehicleFilters{Status: domain.VehicleOnline, IsActive: &active}, domain.PageRequest{PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, []string{"UBC 300"}, numbers(online.Data))
}

func TestVehicleRepository_UpdateCrew(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, domain.VehicleInput{VehicleNumber: "UBA 100", Status: domain.VehicleOffline, IsActive: true})
	require.NoError(t, err)
	assert.Equal(t, []string{}, created.Crew)

	crew := []string{"Okello", "Namubiru"}
	updated, err := repo.Update(ctx, created.ID, domain.VehiclePatch{Crew: &crew})
	require.NoError(t, err)
	assert.Equal(t, crew, updated.Crew)
	assert.Equal(t, "UBA 100", updated.VehicleNumber)
	assert.Equal(t, domain.VehicleOffline, updated.Status)

	_, err = repo.Update(ctx, "missing", domain.VehiclePatch{Crew: &crew})
	assert.True(t, domain.IsNotFound(err))
}

func TestVehicleRepository_StorageFailure(t *testing.T) {
	repo := NewVehicleRepository(&docstoretest.Failing{Err: errors.New("unavailable")})

	_, err := repo.GetAll(context.Background(), domain.VehicleFilters{}, domain.PageRequest{})
	require.Error(t, err)
	assert.True(t, domain.IsStorage(err))
	assert.Equal(t, "Failed to fetch vehicles", domain.Message(err, ""))

	_, err = repo.Create(context.Background(), domain.VehicleInput{VehicleNumber: "x", Status: domain.VehicleOnline})
	assert.Equal(t, "Failed to create vehicle", domain.Message(err, ""))
}

func TestDecodeVehicle_Defaults(t *testing.T) {
	got := decodeVehicle(docstore.Document{ID: "v1", Data: map[string]any{"vehicleNumber": "UBA 100"}})
	assert.Equal(t, "v1", got.ID)
	assert.Equal(t, domain.VehicleOffline, got.Status)
	assert.Equal(t, []string{}, got.Crew)
	assert.Equal(t, "", got.Notes)
	assert.True(t, got.IsActive)
}
