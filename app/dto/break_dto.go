// Package dto
package dto

import "time"

type BreakDTO struct {
	UUID              string  `json:"uuid"`
	Title             string  `json:"title"`
	Sport             string  `json:"sport" example:"baseball"`
	Status            string  `json:"status" example:"live"`
	CostTotal         float64 `json:"cost_total"`
	ProfitMarginPct   float64 `json:"profit_margin_pct"`
	CustomModifierPct float64 `json:"custom_modifier_pct"`
	SpotPrice         float64 `json:"spot_price"`
	SpotCount         int     `json:"spot_count"`
	ScheduledAt       string  `json:"scheduled_at,omitempty"`
	CreatedAt         string  `json:"created_at"`
}

type BoxDTO struct {
	ID          uint    `json:"id"`
	Description string  `json:"description"`
	Quantity    int     `json:"quantity"`
	UnitCost    float64 `json:"unit_cost"`
	LineTotal   float64 `json:"line_total"`
}

type SpotDTO struct {
	ID         uint    `json:"id"`
	Price      float64 `json:"price"`
	Sold       bool    `json:"sold"`
	TeamName   string  `json:"team_name,omitempty"`
	Multiplier float64 `json:"multiplier,omitempty"`
	Tier       string  `json:"tier,omitempty" example:"elite"`
}

// BreakDetailDTO is the full admin/storefront view of one break.
// FinalTotal is the revenue target with the custom modifier applied; it is a
// summary figure only.
type BreakDetailDTO struct {
	Break      BreakDTO  `json:"break"`
	Boxes      []BoxDTO  `json:"boxes,omitempty"`
	Spots      []SpotDTO `json:"spots,omitempty"`
	FinalTotal float64   `json:"final_total,omitempty"`
}

type CreateBreakRequest struct {
	Title             string     `json:"title" validate:"required,min=1,max=255"`
	Sport             string     `json:"sport" validate:"required"`
	ProfitMarginPct   float64    `json:"profit_margin_pct" validate:"gte=-100,lte=500"`
	CustomModifierPct float64    `json:"custom_modifier_pct" validate:"gte=-100,lte=500"`
	ScheduledAt       *time.Time `json:"scheduled_at,omitempty"`
}

type UpdateBreakRequest struct {
	Title             *string    `json:"title,omitempty" validate:"omitempty,min=1,max=255"`
	ProfitMarginPct   *float64   `json:"profit_margin_pct,omitempty" validate:"omitempty,gte=-100,lte=500"`
	CustomModifierPct *float64   `json:"custom_modifier_pct,omitempty" validate:"omitempty,gte=-100,lte=500"`
	ScheduledAt       *time.Time `json:"scheduled_at,omitempty"`
}

type UpdateBreakStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=draft live sold_out completed"`
}

type AddBoxRequest struct {
	Description string  `json:"description" validate:"required,min=1,max=255"`
	Quantity    int     `json:"quantity" validate:"required,gt=0"`
	UnitCost    float64 `json:"unit_cost" validate:"gte=0"`
}

type ListBreaksRequest struct {
	Status   string `json:"status,omitempty" query:"status"`
	Page     int    `json:"page,omitempty" query:"page"`
	PageSize int    `json:"page_size,omitempty" query:"page_size"`
}
