// Package dto
package dto

type TeamDTO struct {
	UUID       string  `json:"uuid"`
	Name       string  `json:"name" example:"Yankees"`
	Sport      string  `json:"sport" example:"baseball"`
	Multiplier float64 `json:"multiplier" example:"2.5"`
	Tier       string  `json:"tier" example:"strong"`
	IsActive   bool    `json:"is_active"`
}

type CreateTeamRequest struct {
	Name       string  `json:"name" validate:"required,min=1,max=255"`
	Sport      string  `json:"sport" validate:"required"`
	Multiplier float64 `json:"multiplier" validate:"required,gt=0,lte=5"`
}

type UpdateTeamRequest struct {
	Name       *string  `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
	Multiplier *float64 `json:"multiplier,omitempty" validate:"omitempty,gt=0,lte=5"`
	IsActive   *bool    `json:"is_active,omitempty"`
}
