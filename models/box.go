package models

import (
	"time"
)

// Box is a cost-contributing line item owned by exactly one break.
// Every box mutation triggers a break recompute. Table: boxes
type Box struct {
	ID          uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	BreakID     uint    `gorm:"not null;index:idx_boxes_break_id" json:"break_id"`
	Description string  `gorm:"size:255;not null" json:"description"`
	Quantity    int     `gorm:"not null" json:"quantity"`
	UnitCost    float64 `gorm:"type:numeric(12,2);not null" json:"unit_cost"`

	CreatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
	UpdatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`

	Break *Break `gorm:"foreignKey:BreakID;constraint:OnDelete:CASCADE" json:"break,omitempty"`
}

func (Box) TableName() string {
	return "boxes"
}

// LineTotal returns quantity x unit cost for this box.
func (b *Box) LineTotal() float64 {
	return float64(b.Quantity) * b.UnitCost
}

// BoxFilter represents filter criteria for box queries
type BoxFilter struct {
	ID      *uint `json:"id,omitempty"`
	BreakID *uint `json:"break_id,omitempty"`
}
