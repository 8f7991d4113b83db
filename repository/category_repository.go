package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/ripvault/breakroom/models"
	"gorm.io/gorm"
)

// CategoryRepositoryImpl implements CategoryRepository
type CategoryRepositoryImpl struct {
	*BaseRepository[models.Category, models.CategoryFilter]
}

// NewCategoryRepository creates a new repository for product categories
func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &CategoryRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Category, models.CategoryFilter](db),
	}
}

// BySlug retrieves a category by its slug, nil when not found.
func (r *CategoryRepositoryImpl) BySlug(ctx context.Context, slug string) (*models.Category, error) {
	db := r.getDB(ctx)

	var c models.Category
	err := db.Where("slug = ?", slug).First(&c).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find category by slug %s: %w", slug, err)
	}
	return &c, nil
}

// ListOrdered returns all categories in display order.
func (r *CategoryRepositoryImpl) ListOrdered(ctx context.Context) ([]*models.Category, error) {
	return r.ByFilter(ctx, models.CategoryFilter{}, "position ASC, name ASC", 0, 0)
}

// Delete soft-deletes a category.
func (r *CategoryRepositoryImpl) Delete(ctx context.Context, id uint) error {
	db := r.getDB(ctx)
	return db.Delete(&models.Category{}, id).Error
}

// applyFilter applies filter conditions to the GORM query
func (r *CategoryRepositoryImpl) applyFilter(db *gorm.DB, filter models.CategoryFilter) *gorm.DB {
	if filter.ID != nil {
		db = db.Where("id = ?", *filter.ID)
	}
	if filter.Slug != nil {
		db = db.Where("slug = ?", *filter.Slug)
	}
	return db
}

// ByFilter retrieves categories based on filter criteria.
func (r *CategoryRepositoryImpl) ByFilter(ctx context.Context, filter models.CategoryFilter, orderBy string, limit, offset int) ([]*models.Category, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Category{}), filter)

	if orderBy == "" {
		orderBy = "position ASC"
	}
	query = query.Order(orderBy)

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var rows []*models.Category
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Count returns the number of categories matching the filter.
func (r *CategoryRepositoryImpl) Count(ctx context.Context, filter models.CategoryFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Category{}), filter)

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Exists checks if any category matching the filter exists.
func (r *CategoryRepositoryImpl) Exists(ctx context.Context, filter models.CategoryFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
