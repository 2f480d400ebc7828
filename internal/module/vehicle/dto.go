package vehicle

import "github.com/simp-lee/transitdesk/internal/domain"

// CreateVehicleRequest represents the input for registering a vehicle.
type CreateVehicleRequest struct {
	VehicleNumber string   `json:"vehicle_number" binding:"required,max=50"`
	Status        string   `json:"status" binding:"required,oneof=online offline maintenance"`
	Crew          []string `json:"crew" binding:"omitempty,dive,max=100"`
	Notes         string   `json:"notes" binding:"max=2000"`
	IsActive      *bool    `json:"is_active"`
}

func (r CreateVehicleRequest) input() domain.VehicleInput {
	active := true
	if r.IsActive != nil {
		active = *r.IsActive
	}
	return domain.VehicleInput{
		VehicleNumber: r.VehicleNumber,
		Status:        domain.VehicleStatus(r.Status),
		Crew:          r.Crew,
		Notes:         r.Notes,
		IsActive:      active,
	}
}

// UpdateVehicleRequest is a merge patch; omitted fields are left untouched.
type UpdateVehicleRequest struct {
	VehicleNumber *string   `json:"vehicle_number" binding:"omitempty,max=50"`
	Status        *string   `json:"status" binding:"omitempty,oneof=online offline maintenance"`
	Crew          *[]string `json:"crew"`
	Notes         *string   `json:"notes" binding:"omitempty,max=2000"`
	IsActive      *bool     `json:"is_active"`
}

func (r UpdateVehicleRequest) patch() domain.VehiclePatch {
	p := domain.VehiclePatch{
		VehicleNumber: r.VehicleNumber,
		Crew:          r.Crew,
		Notes:         r.Notes,
		IsActive:      r.IsActive,
	}
	if r.Status != nil {
		status := domain.VehicleStatus(*r.Status)
		p.Status = &status
	}
	return p
}
