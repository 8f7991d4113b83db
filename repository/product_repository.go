package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/ripvault/breakroom/models"
	"github.com/ripvault/breakroom/utils"
	"gorm.io/gorm"
)

// ErrInsufficientStock is returned by DecrementStock when the product does
// not have enough stock left for the requested quantity.
var ErrInsufficientStock = errors.New("insufficient product stock")

// ProductRepositoryImpl implements ProductRepository
type ProductRepositoryImpl struct {
	*BaseRepository[models.Product, models.ProductFilter]
}

// NewProductRepository creates a new repository for storefront products
func NewProductRepository(db *gorm.DB) ProductRepository {
	return &ProductRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Product, models.ProductFilter](db),
	}
}

// ByUUID retrieves a product by its UUID, nil when not found.
func (r *ProductRepositoryImpl) ByUUID(ctx context.Context, uuid string) (*models.Product, error) {
	db := r.getDB(ctx)

	var p models.Product
	err := db.Where("uuid = ?", uuid).First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find product by UUID %s: %w", uuid, err)
	}
	return &p, nil
}

// ListActiveByCategory returns active products in a category, newest first.
func (r *ProductRepositoryImpl) ListActiveByCategory(ctx context.Context, categoryID uint, limit, offset int) ([]*models.Product, error) {
	active := true
	return r.ByFilter(ctx, models.ProductFilter{CategoryID: &categoryID, IsActive: &active}, "created_at DESC", limit, offset)
}

// DecrementStock atomically reduces a product's stock. The guarded UPDATE
// keeps stock from going negative under concurrent checkouts.
func (r *ProductRepositoryImpl) DecrementStock(ctx context.Context, productID uint, quantity int) error {
	db := r.getDB(ctx)

	res := db.Model(&models.Product{}).
		Where("id = ? AND stock >= ?", productID, quantity).
		Updates(map[string]any{
			"stock":      gorm.Expr("stock - ?", quantity),
			"updated_at": utils.UTCNow(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrInsufficientStock
	}
	return nil
}

// Delete soft-deletes a product.
func (r *ProductRepositoryImpl) Delete(ctx context.Context, id uint) error {
	db := r.getDB(ctx)
	return db.Delete(&models.Product{}, id).Error
}

// applyFilter applies filter conditions to the GORM query
func (r *ProductRepositoryImpl) applyFilter(db *gorm.DB, filter models.ProductFilter) *gorm.DB {
	if filter.ID != nil {
		db = db.Where("id = ?", *filter.ID)
	}
	if filter.UUID != nil {
		db = db.Where("uuid = ?", *filter.UUID)
	}
	if filter.CategoryID != nil {
		db = db.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.SKU != nil {
		db = db.Where("sku = ?", *filter.SKU)
	}
	if filter.IsActive != nil {
		db = db.Where("is_active = ?", *filter.IsActive)
	}
	return db
}

// ByFilter retrieves products based on filter criteria.
func (r *ProductRepositoryImpl) ByFilter(ctx context.Context, filter models.ProductFilter, orderBy string, limit, offset int) ([]*models.Product, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Product{}), filter)

	if orderBy == "" {
		orderBy = "created_at DESC"
	}
	query = query.Order(orderBy)

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var rows []*models.Product
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Count returns the number of products matching the filter.
func (r *ProductRepositoryImpl) Count(ctx context.Context, filter models.ProductFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Product{}), filter)

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Exists checks if any product matching the filter exists.
func (r *ProductRepositoryImpl) Exists(ctx context.Context, filter models.ProductFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
