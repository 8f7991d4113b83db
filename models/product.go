package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Product is a storefront item (single card or sealed product).
// Table: products
type Product struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UUID        uuid.UUID `gorm:"type:uuid;uniqueIndex:uk_products_uuid;not null" json:"uuid"`
	CategoryID  uint      `gorm:"not null;index:idx_products_category_id" json:"category_id"`
	Name        string    `gorm:"size:255;not null" json:"name"`
	Description *string   `gorm:"type:text" json:"description,omitempty"`
	SKU         *string   `gorm:"size:64;uniqueIndex:uk_products_sku" json:"sku,omitempty"`
	Price       float64   `gorm:"type:numeric(12,2);not null" json:"price"`
	Stock       int       `gorm:"not null;default:0" json:"stock"`
	ImageURL    *string   `gorm:"size:1024" json:"image_url,omitempty"`
	IsActive    *bool     `gorm:"default:true;index:idx_products_is_active" json:"is_active"`

	CreatedAt time.Time      `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_products_created_at" json:"created_at"`
	UpdatedAt time.Time      `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}

func (Product) TableName() string {
	return "products"
}

// BeforeCreate ensures UUID is set
func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.UUID == uuid.Nil {
		p.UUID = uuid.New()
	}
	return nil
}

// ProductFilter represents filter criteria for product queries
type ProductFilter struct {
	ID         *uint      `json:"id,omitempty"`
	UUID       *uuid.UUID `json:"uuid,omitempty"`
	CategoryID *uint      `json:"category_id,omitempty"`
	SKU        *string    `json:"sku,omitempty"`
	IsActive   *bool      `json:"is_active,omitempty"`
}
