package trip

import "github.com/simp-lee/transitdesk/internal/domain"

// CreateTripRequest represents the input for scheduling a trip.
type CreateTripRequest struct {
	Title          string `json:"title" binding:"required"`
	RouteID        string `json:"route_id" binding:"required"`
	VehicleID      string `json:"vehicle_id" binding:"required"`
	DepartureTime  string `json:"departure_time" binding:"required"`
	ArrivalTime    string `json:"arrival_time" binding:"required"`
	TotalSeats     int    `json:"total_seats"`
	SeatsBooked    int    `json:"seats_booked"`
	AvailableSeats []int  `json:"available_seats"`
	Status         string `json:"status" binding:"omitempty,oneof=scheduled active completed cancelled"`
	Notes          string `json:"notes" binding:"max=2000"`
	VehicleNumber  string `json:"vehicle_number"`
	DriverName     string `json:"driver_name"`
	ConductorName  string `json:"conductor_name"`
	IsActive       *bool  `json:"is_active"`
}

func (r CreateTripRequest) input() domain.TripInput {
	active := true
	if r.IsActive != nil {
		active = *r.IsActive
	}
	return domain.TripInput{
		Title:          r.Title,
		RouteID:        r.RouteID,
		VehicleID:      r.VehicleID,
		DepartureTime:  r.DepartureTime,
		ArrivalTime:    r.ArrivalTime,
		TotalSeats:     r.TotalSeats,
		SeatsBooked:    r.SeatsBooked,
		AvailableSeats: r.AvailableSeats,
		Status:         domain.TripStatus(r.Status),
		Notes:          r.Notes,
		VehicleNumber:  r.VehicleNumber,
		DriverName:     r.DriverName,
		ConductorName:  r.ConductorName,
		IsActive:       active,
	}
}

// UpdateTripRequest is a merge patch; omitted fields are left untouched.
type UpdateTripRequest struct {
	Title          *string `json:"title"`
	RouteID        *string `json:"route_id"`
	VehicleID      *string `json:"vehicle_id"`
	DepartureTime  *string `json:"departure_time"`
	ArrivalTime    *string `json:"arrival_time"`
	TotalSeats     *int    `json:"total_seats"`
	SeatsBooked    *int    `json:"seats_booked"`
	AvailableSeats *[]int  `json:"available_seats"`
	Status         *string `json:"status" binding:"omitempty,oneof=scheduled active completed cancelled"`
	Notes          *string `json:"notes" binding:"omitempty,max=2000"`
	VehicleNumber  *string `json:"vehicle_number"`
	DriverName     *string `json:"driver_name"`
	ConductorName  *string `json:"conductor_name"`
	IsActive       *bool   `json:"is_active"`
}

func (r UpdateTripRequest) patch() domain.TripPatch {
	p := domain.TripPatch{
		Title:          r.Title,
		RouteID:        r.RouteID,
		VehicleID:      r.VehicleID,
		DepartureTime:  r.DepartureTime,
		ArrivalTime:    r.ArrivalTime,
		TotalSeats:     r.TotalSeats,
		SeatsBooked:    r.SeatsBooked,
		AvailableSeats: r.AvailableSeats,
		Notes:          r.Notes,
		VehicleNumber:  r.VehicleNumber,
		DriverName:     r.DriverName,
		ConductorName:  r.ConductorName,
		IsActive:       r.IsActive,
	}
	if r.Status != nil {
		status := domain.TripStatus(*r.Status)
		p.Status = &status
	}
	return p
}
