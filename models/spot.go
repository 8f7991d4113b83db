package models

import (
	"time"
)

// Spot is a derived allocation record: one priced, purchasable unit within a
// break, corresponding to one team. Spots are never authored directly; the
// pricing recompute deletes and reinserts the full set atomically.
// Table: spots
type Spot struct {
	ID      uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	BreakID uint    `gorm:"not null;index:idx_spots_break_id" json:"break_id"`
	TeamID  uint    `gorm:"not null;index:idx_spots_team_id" json:"team_id"`
	Price   float64 `gorm:"type:numeric(12,2);not null" json:"price"`
	Sold    *bool   `gorm:"default:false;index:idx_spots_sold" json:"sold"`

	// Set when the spot is purchased at checkout.
	OrderItemID *uint `gorm:"index:idx_spots_order_item_id" json:"order_item_id,omitempty"`

	CreatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`

	Break *Break `gorm:"foreignKey:BreakID;constraint:OnDelete:CASCADE" json:"break,omitempty"`
	Team  *Team  `gorm:"foreignKey:TeamID" json:"team,omitempty"`
}

func (Spot) TableName() string {
	return "spots"
}

// SpotFilter represents filter criteria for spot queries
type SpotFilter struct {
	ID      *uint `json:"id,omitempty"`
	BreakID *uint `json:"break_id,omitempty"`
	TeamID  *uint `json:"team_id,omitempty"`
	Sold    *bool `json:"sold,omitempty"`
}
