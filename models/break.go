package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Break statuses
const (
	BreakStatusDraft     = "draft"
	BreakStatusLive      = "live"
	BreakStatusSoldOut   = "sold_out"
	BreakStatusCompleted = "completed"
)

// Break is a group-purchase pricing event: the cost of its boxes is
// distributed across spots proportionally to team popularity.
//
// CostTotal, SpotPrice and SpotCount are derived fields. They are only ever
// written by the pricing recompute and must never be authored directly.
// Table: breaks
type Break struct {
	ID     uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UUID   uuid.UUID `gorm:"type:uuid;uniqueIndex:uk_breaks_uuid;not null" json:"uuid"`
	Title  string    `gorm:"size:255;not null" json:"title"`
	Sport  string    `gorm:"size:32;not null;index:idx_breaks_sport" json:"sport"`
	Status string    `gorm:"size:32;not null;default:'draft';index:idx_breaks_status" json:"status"`

	// Pricing parameters (authored by the admin)
	ProfitMarginPct   float64 `gorm:"type:numeric(6,2);not null;default:0" json:"profit_margin_pct"`
	CustomModifierPct float64 `gorm:"type:numeric(6,2);not null;default:0" json:"custom_modifier_pct"`

	// Derived fields (written only by the pricing recompute)
	CostTotal float64 `gorm:"type:numeric(12,2);not null;default:0" json:"cost_total"`
	SpotPrice float64 `gorm:"type:numeric(12,2);not null;default:0" json:"spot_price"`
	SpotCount int     `gorm:"not null;default:0" json:"spot_count"`

	ScheduledAt *time.Time `gorm:"index:idx_breaks_scheduled_at" json:"scheduled_at,omitempty"`

	CreatedAt time.Time      `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_breaks_created_at" json:"created_at"`
	UpdatedAt time.Time      `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	// Relationships
	Boxes []Box  `gorm:"foreignKey:BreakID" json:"boxes,omitempty"`
	Spots []Spot `gorm:"foreignKey:BreakID" json:"spots,omitempty"`
}

func (Break) TableName() string {
	return "breaks"
}

// BeforeCreate ensures UUID is set
func (b *Break) BeforeCreate(tx *gorm.DB) error {
	if b.UUID == uuid.Nil {
		b.UUID = uuid.New()
	}
	return nil
}

// IsValidBreakStatus reports whether the given status is one of the four
// break lifecycle states.
func IsValidBreakStatus(status string) bool {
	switch status {
	case BreakStatusDraft, BreakStatusLive, BreakStatusSoldOut, BreakStatusCompleted:
		return true
	default:
		return false
	}
}

// BreakFilter represents filter criteria for break queries
type BreakFilter struct {
	ID     *uint      `json:"id,omitempty"`
	UUID   *uuid.UUID `json:"uuid,omitempty"`
	Sport  *string    `json:"sport,omitempty"`
	Status *string    `json:"status,omitempty"`
}
