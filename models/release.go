package models

import (
	"time"

	"gorm.io/gorm"
)

// Release is a release-calendar entry for an upcoming product.
// Table: releases
type Release struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	Sport       string    `gorm:"size:32;not null;index:idx_releases_sport" json:"sport"`
	Brand       string    `gorm:"size:128" json:"brand"`
	ReleaseDate time.Time `gorm:"not null;index:idx_releases_release_date" json:"release_date"`
	Notes       *string   `gorm:"type:text" json:"notes,omitempty"`

	CreatedAt time.Time      `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
	UpdatedAt time.Time      `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Release) TableName() string {
	return "releases"
}

// ReleaseFilter represents filter criteria for release queries
type ReleaseFilter struct {
	ID          *uint      `json:"id,omitempty"`
	Sport       *string    `json:"sport,omitempty"`
	ReleasedAfter  *time.Time `json:"released_after,omitempty"`
	ReleasedBefore *time.Time `json:"released_before,omitempty"`
}
