package vehicle

import (
	"context"

	"github.com/simp-lee/transitdesk/internal/docstore"
	"github.com/simp-lee/transitdesk/internal/domain"
	"github.com/simp-lee/transitdesk/internal/pkg"
)

// vehicleRepository implements domain.VehicleRepository on a document store.
type vehicleRepository struct {
	coll pkg.Collection[domain.Vehicle]
}

// NewVehicleRepository creates a VehicleRepository over the "vehicles"
// collection, ordered by vehicle number.
func NewVehicleRepository(client docstore.Client) domain.VehicleRepository {
	return &vehicleRepository{coll: pkg.Collection[domain.Vehicle]{
		Client:   client,
		Name:     "vehicles",
		Singular: "vehicle",
		Order:    "vehicleNumber",
		Dir:      docstore.Asc,
		Decode:   decodeVehicle,
	}}
}

func (r *vehicleRepository) GetByID(ctx context.Context, id string) (*domain.Vehicle, error) {
	return r.coll.Get(ctx, id)
}

func (r *vehicleRepository) GetAll(ctx context.Context, f domain.VehicleFilters, req domain.PageRequest) (*domain.Page[domain.Vehicle], error) {
	q := r.coll.Query()
	if f.Status != "" {
		q = q.Where("status", string(f.Status))
	}
	if f.IsActive != nil {
		q = q.Where("isActive", *f.IsActive)
	}
	return r.coll.Page(ctx, q, req)
}

func (r *vehicleRepository) Create(ctx context.Context, in domain.VehicleInput) (*domain.Vehicle, error) {
	crew := in.Crew
	if crew == nil {
		crew = []string{}
	}
	return r.coll.Create(ctx, map[string]any{
		"vehicleNumber": in.VehicleNumber,
		"status":        string(in.Status),
		"crew":          crew,
		"notes":         in.Notes,
		"isActive":      in.IsActive,
	})
}

func (r *vehicleRepository) Update(ctx context.Context, id string, p domain.VehiclePatch) (*domain.Vehicle, error) {
	data := map[string]any{}
	if p.VehicleNumber != nil {
		data["vehicleNumber"] = *p.VehicleNumber
	}
	if p.Status != nil {
		data["status"] = string(*p.Status)
	}
	if p.Crew != nil {
		data["crew"] = *p.Crew
	}
	if p.Notes != nil {
		data["notes"] = *p.Notes
	}
	if p.IsActive != nil {
		data["isActive"] = *p.IsActive
	}
	return r.coll.Update(ctx, id, data)
}

func (r *vehicleRepository) Delete(ctx context.Context, id string) error {
	return r.coll.Delete(ctx, id)
}

func decodeVehicle(d docstore.Document) domain.Vehicle {
	doc := pkg.Doc(d.Data)
	status := domain.VehicleStatus(doc.String("status"))
	if status == "" {
		status = domain.VehicleOffline
	}
	return domain.Vehicle{
		Entity: domain.Entity{
			ID:        d.ID,
			IsActive:  doc.Active(),
			CreatedAt: doc.Time("createdAt"),
			UpdatedAt: doc.Time("updatedAt"),
		},
		VehicleNumber: doc.String("vehicleNumber"),
		Status:        status,
		Crew:          doc.Strings("crew"),
		Notes:         doc.String("notes"),
	}
}
