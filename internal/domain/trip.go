package domain

import (
	"context"
	"strings"
)

// TripStatus is the lifecycle state of a trip.
type TripStatus string

const (
	TripScheduled TripStatus = "scheduled"
	TripActive    TripStatus = "active"
	TripCompleted TripStatus = "completed"
	TripCancelled TripStatus = "cancelled"
)

// Valid reports whether s is one of the known trip states.
func (s TripStatus) Valid() bool {
	switch s {
	case TripScheduled, TripActive, TripCompleted, TripCancelled:
		return true
	}
	return false
}

// Trip is a scheduled run of a vehicle along a route.
// DepartureTime and ArrivalTime are RFC 3339 strings, empty when unknown.
type Trip struct {
	Entity
	Title          string     `json:"title"`
	RouteID        string     `json:"route_id"`
	VehicleID      string     `json:"vehicle_id"`
	DepartureTime  string     `json:"departure_time"`
	ArrivalTime    string     `json:"arrival_time"`
	TotalSeats     int        `json:"total_seats"`
	SeatsBooked    int        `json:"seats_booked"`
	AvailableSeats []int      `json:"available_seats"`
	Status         TripStatus `json:"status"`
	Notes          string     `json:"notes"`
	VehicleNumber  string     `json:"vehicle_number"`
	DriverName     string     `json:"driver_name"`
	ConductorName  string     `json:"conductor_name"`
}

// TripFilters narrows a trip listing. Zero-valued fields are not applied.
type TripFilters struct {
	Status  TripStatus
	RouteID string
}

// TripInput is the full payload for creating a trip.
type TripInput struct {
	Title          string
	RouteID        string
	VehicleID      string
	DepartureTime  string
	ArrivalTime    string
	TotalSeats     int
	SeatsBooked    int
	AvailableSeats []int
	Status         TripStatus
	Notes          string
	VehicleNumber  string
	DriverName     string
	ConductorName  string
	IsActive       bool
}

// TripPatch is a merge patch: nil fields are left untouched.
type TripPatch struct {
	Title          *string
	RouteID        *string
	VehicleID      *string
	DepartureTime  *string
	ArrivalTime    *string
	TotalSeats     *int
	SeatsBooked    *int
	AvailableSeats *[]int
	Status         *TripStatus
	Notes          *string
	VehicleNumber  *string
	DriverName     *string
	ConductorName  *string
	IsActive       *bool
}

// TripRepository defines the data access interface for trips.
type TripRepository interface {
	GetByID(ctx context.Context, id string) (*Trip, error)
	GetAll(ctx context.Context, filters TripFilters, req PageRequest) (*Page[Trip], error)
	Create(ctx context.Context, in TripInput) (*Trip, error)
	Update(ctx context.Context, id string, patch TripPatch) (*Trip, error)
	Delete(ctx context.Context, id string) error
}

// TripService defines the business logic interface for trips.
type TripService interface {
	ListTrips(ctx context.Context, filters TripFilters, req PageRequest) (*Page[Trip], error)
	GetTrip(ctx context.Context, id string) (*Trip, error)
	CreateTrip(ctx context.Context, in TripInput) (*Trip, error)
	UpdateTrip(ctx context.Context, id string, patch TripPatch) (*Trip, error)
	DeleteTrip(ctx context.Context, id string) error
}

// ValidateTripInput trims the input and checks required fields and seat ranges.
func ValidateTripInput(in TripInput) (TripInput, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.RouteID = strings.TrimSpace(in.RouteID)
	in.VehicleID = strings.TrimSpace(in.VehicleID)
	in.DepartureTime = strings.TrimSpace(in.DepartureTime)
	in.ArrivalTime = strings.TrimSpace(in.ArrivalTime)
	in.Notes = strings.TrimSpace(in.Notes)
	in.VehicleNumber = strings.TrimSpace(in.VehicleNumber)
	in.DriverName = strings.TrimSpace(in.DriverName)
	in.ConductorName = strings.TrimSpace(in.ConductorName)
	in.AvailableSeats = nonNegative(in.AvailableSeats)
	if in.Status == "" {
		in.Status = TripScheduled
	}

	fe := FieldErrors{}
	if in.Title == "" {
		fe["title"] = "Trip title is required"
	}
	if in.RouteID == "" {
		fe["route_id"] = "Route is required"
	}
	if in.VehicleID == "" {
		fe["vehicle_id"] = "Vehicle ID is required"
	}
	if in.DepartureTime == "" {
		fe["departure_time"] = "Departure time is required"
	}
	if in.ArrivalTime == "" {
		fe["arrival_time"] = "Arrival time is required"
	}
	if in.TotalSeats <= 0 {
		fe["total_seats"] = "Seat capacity must be positive"
	}
	if in.SeatsBooked < 0 || in.SeatsBooked > in.TotalSeats {
		fe["seats_booked"] = "Booked seats must be between 0 and capacity"
	}
	if seatOutOfRange(in.AvailableSeats, in.TotalSeats) {
		fe["available_seats"] = "Available seats must be within seat capacity"
	}
	if !in.Status.Valid() {
		fe["status"] = "Status must be scheduled, active, completed, or cancelled"
	}
	if err := NewValidationError(fe); err != nil {
		return in, err
	}
	return in, nil
}

// ValidateTripPatch checks the present fields. Cross-field seat checks only
// run when both sides of the comparison are part of the patch.
func ValidateTripPatch(p TripPatch) (TripPatch, error) {
	fe := FieldErrors{}
	trimRequired(fe, &p.Title, "title", "Trip title is required")
	trimRequired(fe, &p.RouteID, "route_id", "Route is required")
	trimRequired(fe, &p.VehicleID, "vehicle_id", "Vehicle ID is required")
	trimOptional(&p.Notes)
	trimOptional(&p.VehicleNumber)
	trimOptional(&p.DriverName)
	trimOptional(&p.ConductorName)
	trimOptional(&p.DepartureTime)
	trimOptional(&p.ArrivalTime)

	if p.TotalSeats != nil && *p.TotalSeats <= 0 {
		fe["total_seats"] = "Seat capacity must be positive"
	}
	if p.SeatsBooked != nil {
		if *p.SeatsBooked < 0 || (p.TotalSeats != nil && *p.SeatsBooked > *p.TotalSeats) {
			fe["seats_booked"] = "Booked seats must be between 0 and capacity"
		}
	}
	if p.AvailableSeats != nil {
		seats := nonNegative(*p.AvailableSeats)
		p.AvailableSeats = &seats
		if p.TotalSeats != nil && seatOutOfRange(seats, *p.TotalSeats) {
			fe["available_seats"] = "Available seats must be within seat capacity"
		}
	}
	if p.Status != nil && !p.Status.Valid() {
		fe["status"] = "Status must be scheduled, active, completed, or cancelled"
	}
	if err := NewValidationError(fe); err != nil {
		return p, err
	}
	return p, nil
}

func trimOptional(field **string) {
	if *field == nil {
		return
	}
	v := strings.TrimSpace(**field)
	*field = &v
}

func nonNegative(seats []int) []int {
	out := make([]int, 0, len(seats))
	for _, s := range seats {
		if s >= 0 {
			out = append(out, s)
		}
	}
	return out
}

func seatOutOfRange(seats []int, total int) bool {
	for _, s := range seats {
		if s < 0 || s > total {
			return true
		}
	}
	return false
}
