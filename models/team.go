package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Team is a weight entry: a named entity whose popularity multiplier
// determines its proportional share of a break's target revenue.
// Multipliers live on a 0-5 scale; values must be > 0 to participate in
// pricing. Table: teams
type Team struct {
	ID         uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UUID       uuid.UUID `gorm:"type:uuid;uniqueIndex:uk_teams_uuid;not null" json:"uuid"`
	Name       string    `gorm:"size:255;not null;uniqueIndex:uk_teams_sport_name,priority:2" json:"name"`
	Sport      string    `gorm:"size:32;not null;uniqueIndex:uk_teams_sport_name,priority:1;index:idx_teams_sport" json:"sport"`
	Multiplier float64   `gorm:"type:numeric(6,4);not null" json:"multiplier"`
	IsActive   *bool     `gorm:"default:true;index:idx_teams_is_active" json:"is_active"`

	CreatedAt time.Time      `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
	UpdatedAt time.Time      `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Team) TableName() string {
	return "teams"
}

// Tier returns the display tier label for this team's multiplier.
func (t *Team) Tier() string {
	return TierFor(t.Multiplier)
}

// BeforeCreate ensures UUID is set
func (t *Team) BeforeCreate(tx *gorm.DB) error {
	if t.UUID == uuid.Nil {
		t.UUID = uuid.New()
	}
	return nil
}

// TeamFilter represents filter criteria for team queries
type TeamFilter struct {
	ID       *uint      `json:"id,omitempty"`
	UUID     *uuid.UUID `json:"uuid,omitempty"`
	Name     *string    `json:"name,omitempty"`
	Sport    *string    `json:"sport,omitempty"`
	IsActive *bool      `json:"is_active,omitempty"`
}
