// Package dto
package dto

import "time"

type ReleaseDTO struct {
	ID          uint   `json:"id"`
	Title       string `json:"title"`
	Sport       string `json:"sport"`
	Brand       string `json:"brand,omitempty"`
	ReleaseDate string `json:"release_date" example:"2026-09-15"`
	Notes       string `json:"notes,omitempty"`
}

type CreateReleaseRequest struct {
	Title       string    `json:"title" validate:"required,min=1,max=255"`
	Sport       string    `json:"sport" validate:"required"`
	Brand       string    `json:"brand" validate:"max=128"`
	ReleaseDate time.Time `json:"release_date" validate:"required"`
	Notes       *string   `json:"notes,omitempty"`
}

type UpdateReleaseRequest struct {
	Title       *string    `json:"title,omitempty" validate:"omitempty,min=1,max=255"`
	Brand       *string    `json:"brand,omitempty" validate:"omitempty,max=128"`
	ReleaseDate *time.Time `json:"release_date,omitempty"`
	Notes       *string    `json:"notes,omitempty"`
}

type TaskDTO struct {
	ID       uint   `json:"id"`
	Title    string `json:"title"`
	Notes    string `json:"notes,omitempty"`
	Done     bool   `json:"done"`
	DueAt    string `json:"due_at,omitempty"`
	Position int    `json:"position"`
}

type CreateTaskRequest struct {
	Title    string     `json:"title" validate:"required,min=1,max=255"`
	Notes    *string    `json:"notes,omitempty"`
	DueAt    *time.Time `json:"due_at,omitempty"`
	Position int        `json:"position" validate:"gte=0"`
}

type UpdateTaskRequest struct {
	Title    *string    `json:"title,omitempty" validate:"omitempty,min=1,max=255"`
	Notes    *string    `json:"notes,omitempty"`
	Done     *bool      `json:"done,omitempty"`
	DueAt    *time.Time `json:"due_at,omitempty"`
	Position *int       `json:"position,omitempty" validate:"omitempty,gte=0"`
}
