package trip

import (
	"context"
	"log/slog"

	"github.com/simp-lee/transitdesk/internal/docstore"
	"github.com/simp-lee/transitdesk/internal/domain"
	"github.com/simp-lee/transitdesk/internal/pkg"
)

// tripRepository implements domain.TripRepository on a document store.
type tripRepository struct {
	coll pkg.Collection[domain.Trip]
}

// NewTripRepository creates a TripRepository over the "trips" collection,
// newest departure first.
func NewTripRepository(client docstore.Client) domain.TripRepository {
	return &tripRepository{coll: pkg.Collection[domain.Trip]{
		Client:   client,
		Name:     "trips",
		Singular: "trip",
		Order:    "departureTime",
		Dir:      docstore.Desc,
		Decode:   decodeTrip,
	}}
}

func (r *tripRepository) GetByID(ctx context.Context, id string) (*domain.Trip, error) {
	return r.coll.Get(ctx, id)
}

func (r *tripRepository) GetAll(ctx context.Context, f domain.TripFilters, req domain.PageRequest) (*domain.Page[domain.Trip], error) {
	q := r.coll.Query()
	if f.Status != "" {
		q = q.Where("status", string(f.Status))
	}
	if f.RouteID != "" {
		q = q.Where("routeId", f.RouteID)
	}
	return r.coll.Page(ctx, q, req)
}

func (r *tripRepository) Create(ctx context.Context, in domain.TripInput) (*domain.Trip, error) {
	seats := in.AvailableSeats
	if seats == nil {
		seats = []int{}
	}
	data := map[string]any{
		"title":          in.Title,
		"routeId":        in.RouteID,
		"vehicleId":      in.VehicleID,
		"totalSeats":     in.TotalSeats,
		"seatsBooked":    in.SeatsBooked,
		"availableSeats": seats,
		"status":         string(in.Status),
		"notes":          in.Notes,
		"vehicleNumber":  in.VehicleNumber,
		"driverName":     in.DriverName,
		"conductorName":  in.ConductorName,
		"isActive":       in.IsActive,
	}
	setTime(ctx, data, "departureTime", in.DepartureTime)
	setTime(ctx, data, "arrivalTime", in.ArrivalTime)
	return r.coll.Create(ctx, data)
}

func (r *tripRepository) Update(ctx context.Context, id string, p domain.TripPatch) (*domain.Trip, error) {
	data := map[string]any{}
	putString(data, "title", p.Title)
	putString(data, "routeId", p.RouteID)
	putString(data, "vehicleId", p.VehicleID)
	putString(data, "notes", p.Notes)
	putString(data, "vehicleNumber", p.VehicleNumber)
	putString(data, "driverName", p.DriverName)
	putString(data, "conductorName", p.ConductorName)
	if p.DepartureTime != nil {
		setTime(ctx, data, "departureTime", *p.DepartureTime)
	}
	if p.ArrivalTime != nil {
		setTime(ctx, data, "arrivalTime", *p.ArrivalTime)
	}
	if p.TotalSeats != nil {
		data["totalSeats"] = *p.TotalSeats
	}
	if p.SeatsBooked != nil {
		data["seatsBooked"] = *p.SeatsBooked
	}
	if p.AvailableSeats != nil {
		data["availableSeats"] = *p.AvailableSeats
	}
	if p.Status != nil {
		data["status"] = string(*p.Status)
	}
	if p.IsActive != nil {
		data["isActive"] = *p.IsActive
	}
	return r.coll.Update(ctx, id, data)
}

func (r *tripRepository) Delete(ctx context.Context, id string) error {
	return r.coll.Delete(ctx, id)
}

func putString(data map[string]any, key string, v *string) {
	if v != nil {
		data[key] = *v
	}
}

// setTime stores a parsed timestamp under key. Unparsable input leaves the
// field out of the write entirely.
func setTime(ctx context.Context, data map[string]any, key, raw string) {
	t, err := pkg.ParseTimestamp(raw)
	if err != nil {
		slog.DebugContext(ctx, "dropping unparsable trip time",
			slog.String("field", key), slog.String("value", raw))
		return
	}
	data[key] = t.UTC()
}

func decodeTrip(d docstore.Document) domain.Trip {
	doc := pkg.Doc(d.Data)

	total := doc.Int("totalSeats", "seatCapacity", "capacity")
	booked := 0
	switch {
	case doc.Has("seatsBooked"):
		booked = doc.Int("seatsBooked")
	case doc.List("availableSeats") != nil:
		booked = max(total-len(doc.List("availableSeats")), 0)
	}

	status := domain.TripStatus(doc.String("status"))
	if status == "" {
		status = domain.TripScheduled
	}

	return domain.Trip{
		Entity: domain.Entity{
			ID:        d.ID,
			IsActive:  doc.Active(),
			CreatedAt: doc.Time("createdAt"),
			UpdatedAt: doc.Time("updatedAt"),
		},
		Title:          doc.String("title", "name"),
		RouteID:        doc.String("routeId", "route"),
		VehicleID:      doc.String("vehicleId", "vehicle"),
		DepartureTime:  doc.TimeString("departureTime"),
		ArrivalTime:    doc.TimeString("arrivalTime"),
		TotalSeats:     total,
		SeatsBooked:    booked,
		AvailableSeats: doc.Ints("availableSeats"),
		Status:         status,
		Notes:          doc.String("notes"),
		VehicleNumber:  doc.String("vehicleNumber"),
		DriverName:     doc.String("driverName"),
		ConductorName:  doc.String("conductorName"),
	}
}
