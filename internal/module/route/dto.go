package route

import "github.com/simp-lee/transitdesk/internal/domain"

// CreateRouteRequest represents the input for creating a new route.
type CreateRouteRequest struct {
	Name                     string   `json:"name" binding:"required,max=200"`
	Origin                   string   `json:"origin" binding:"required,max=200"`
	Destination              string   `json:"destination" binding:"required,max=200"`
	BasePrice                float64  `json:"base_price"`
	EstimatedDurationMinutes int      `json:"estimated_duration_minutes"`
	Stops                    []string `json:"stops" binding:"omitempty,dive,max=200"`
	IsActive                 *bool    `json:"is_active"`
}

func (r CreateRouteRequest) input() domain.RouteInput {
	active := true
	if r.IsActive != nil {
		active = *r.IsActive
	}
	return domain.RouteInput{
		Name:                     r.Name,
		Origin:                   r.Origin,
		Destination:              r.Destination,
		BasePrice:                r.BasePrice,
		EstimatedDurationMinutes: r.EstimatedDurationMinutes,
		Stops:                    r.Stops,
		IsActive:                 active,
	}
}

// UpdateRouteRequest is a merge patch; omitted fields are left untouched.
type UpdateRouteRequest struct {
	Name                     *string   `json:"name" binding:"omitempty,max=200"`
	Origin                   *string   `json:"origin" binding:"omitempty,max=200"`
	Destination              *string   `json:"destination" binding:"omitempty,max=200"`
	BasePrice                *float64  `json:"base_price"`
	EstimatedDurationMinutes *int      `json:"estimated_duration_minutes"`
	Stops                    *[]string `json:"stops"`
	IsActive                 *bool     `json:"is_active"`
}

func (r UpdateRouteRequest) patch() domain.RoutePatch {
	return domain.RoutePatch{
		Name:                     r.Name,
		Origin:                   r.Origin,
		Destination:              r.Destination,
		BasePrice:                r.BasePrice,
		EstimatedDurationMinutes: r.EstimatedDurationMinutes,
		Stops:                    r.Stops,
		IsActive:                 r.IsActive,
	}
}

// SetActiveRequest toggles the soft-delete flag.
type SetActiveRequest struct {
	IsActive *bool `json:"is_active" binding:"required"`
}
