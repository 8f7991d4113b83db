// Package dto
package dto

type CategoryDTO struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	Slug     string `json:"slug" example:"wax"`
	Position int    `json:"position"`
}

type ProductDTO struct {
	UUID        string  `json:"uuid"`
	CategoryID  uint    `json:"category_id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	SKU         string  `json:"sku,omitempty"`
	Price       float64 `json:"price"`
	Stock       int     `json:"stock"`
	ImageURL    string  `json:"image_url,omitempty"`
	IsActive    bool    `json:"is_active"`
}

type CreateCategoryRequest struct {
	Name     string `json:"name" validate:"required,min=1,max=255"`
	Slug     string `json:"slug" validate:"required,min=1,max=255"`
	Position int    `json:"position" validate:"gte=0"`
}

type CreateProductRequest struct {
	CategoryID  uint    `json:"category_id" validate:"required,gt=0"`
	Name        string  `json:"name" validate:"required,min=1,max=255"`
	Description *string `json:"description,omitempty"`
	SKU         *string `json:"sku,omitempty" validate:"omitempty,max=64"`
	Price       float64 `json:"price" validate:"gte=0"`
	Stock       int     `json:"stock" validate:"gte=0"`
	ImageURL    *string `json:"image_url,omitempty" validate:"omitempty,url"`
}

type UpdateProductRequest struct {
	Name        *string  `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
	Description *string  `json:"description,omitempty"`
	Price       *float64 `json:"price,omitempty" validate:"omitempty,gte=0"`
	Stock       *int     `json:"stock,omitempty" validate:"omitempty,gte=0"`
	ImageURL    *string  `json:"image_url,omitempty" validate:"omitempty,url"`
	IsActive    *bool    `json:"is_active,omitempty"`
}
