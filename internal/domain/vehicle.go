package domain

import (
	"context"
	"strings"
)

// VehicleStatus is the operational state of a vehicle.
type VehicleStatus string

const (
	VehicleOnline      VehicleStatus = "online"
	VehicleOffline     VehicleStatus = "offline"
	VehicleMaintenance VehicleStatus = "maintenance"
)

// Valid reports whether s is one of the known vehicle states.
func (s VehicleStatus) Valid() bool {
	switch s {
	case VehicleOnline, VehicleOffline, VehicleMaintenance:
		return true
	}
	return false
}

// Vehicle is a bus in the fleet together with its crew.
type Vehicle struct {
	Entity
	VehicleNumber string        `json:"vehicle_number"`
	Status        VehicleStatus `json:"status"`
	Crew          []string      `json:"crew"`
	Notes         string        `json:"notes"`
}

// VehicleFilters narrows a vehicle listing. Zero-valued fields are not applied.
type VehicleFilters struct {
	Status   VehicleStatus
	IsActive *bool
}

// VehicleInput is the full payload for creating a vehicle.
type VehicleInput struct {
	VehicleNumber string
	Status        VehicleStatus
	Crew          []string
	Notes         string
	IsActive      bool
}

// VehiclePatch is a merge patch: nil fields are left untouched.
type VehiclePatch struct {
	VehicleNumber *string
	Status        *VehicleStatus
	Crew          *[]string
	Notes         *string
	IsActive      *bool
}

// VehicleRepository defines the data access interface for vehicles.
type VehicleRepository interface {
	GetByID(ctx context.Context, id string) (*Vehicle, error)
	GetAll(ctx context.Context, filters VehicleFilters, req PageRequest) (*Page[Vehicle], error)
	Create(ctx context.Context, in VehicleInput) (*Vehicle, error)
	Update(ctx context.Context, id string, patch VehiclePatch) (*Vehicle, error)
	Delete(ctx context.Context, id string) error
}

// VehicleService defines the business logic interface for vehicles.
type VehicleService interface {
	ListVehicles(ctx context.Context, filters VehicleFilters, req PageRequest) (*Page[Vehicle], error)
	GetVehicle(ctx context.Context, id string) (*Vehicle, error)
	CreateVehicle(ctx context.Context, in VehicleInput) (*Vehicle, error)
	UpdateVehicle(ctx context.Context, id string, patch VehiclePatch) (*Vehicle, error)
	DeleteVehicle(ctx context.Context, id string) error
}

const vehicleStatusMessage = "Status must be online, offline, or maintenance"

// ValidateVehicleInput trims the input and checks the number and status.
func ValidateVehicleInput(in VehicleInput) (VehicleInput, error) {
	in.VehicleNumber = strings.TrimSpace(in.VehicleNumber)
	in.Crew = cleanStrings(in.Crew)
	in.Notes = strings.TrimSpace(in.Notes)

	fe := FieldErrors{}
	if in.VehicleNumber == "" {
		fe["vehicle_number"] = "Vehicle number is required"
	}
	if !in.Status.Valid() {
		fe["status"] = vehicleStatusMessage
	}
	if err := NewValidationError(fe); err != nil {
		return in, err
	}
	return in, nil
}

// ValidateVehiclePatch checks the present fields.
func ValidateVehiclePatch(p VehiclePatch) (VehiclePatch, error) {
	fe := FieldErrors{}
	trimRequired(fe, &p.VehicleNumber, "vehicle_number", "Vehicle number is required")
	trimOptional(&p.Notes)
	if p.Crew != nil {
		crew := cleanStrings(*p.Crew)
		p.Crew = &crew
	}
	if p.Status != nil && !p.Status.Valid() {
		fe["status"] = vehicleStatusMessage
	}
	if err := NewValidationError(fe); err != nil {
		return p, err
	}
	return p, nil
}
