package models

import (
	"time"

	"gorm.io/gorm"
)

// Category groups storefront products. Table: categories
type Category struct {
	ID       uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name     string `gorm:"size:255;not null" json:"name"`
	Slug     string `gorm:"size:255;not null;uniqueIndex:uk_categories_slug" json:"slug"`
	Position int    `gorm:"not null;default:0" json:"position"`

	CreatedAt time.Time      `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
	UpdatedAt time.Time      `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	Products []Product `gorm:"foreignKey:CategoryID" json:"products,omitempty"`
}

func (Category) TableName() string {
	return "categories"
}

// CategoryFilter represents filter criteria for category queries
type CategoryFilter struct {
	ID   *uint   `json:"id,omitempty"`
	Slug *string `json:"slug,omitempty"`
}
