package repository

import (
	"context"

	"github.com/ripvault/breakroom/models"
	"gorm.io/gorm"
)

// BoxRepositoryImpl implements BoxRepository
type BoxRepositoryImpl struct {
	*BaseRepository[models.Box, models.BoxFilter]
}

// NewBoxRepository creates a new repository for break boxes
func NewBoxRepository(db *gorm.DB) BoxRepository {
	return &BoxRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Box, models.BoxFilter](db),
	}
}

// ListByBreak returns all boxes of a break, oldest first.
func (r *BoxRepositoryImpl) ListByBreak(ctx context.Context, breakID uint) ([]*models.Box, error) {
	return r.ByFilter(ctx, models.BoxFilter{BreakID: &breakID}, "id ASC", 0, 0)
}

// SumLineTotals returns the sum of quantity * unit_cost over all boxes of a
// break. An empty box set sums to zero.
func (r *BoxRepositoryImpl) SumLineTotals(ctx context.Context, breakID uint) (float64, error) {
	db := r.getDB(ctx)

	var total float64
	err := db.Model(&models.Box{}).
		Where("break_id = ?", breakID).
		Select("COALESCE(SUM(quantity * unit_cost), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	return total, nil
}

// Delete removes a box.
func (r *BoxRepositoryImpl) Delete(ctx context.Context, id uint) error {
	db := r.getDB(ctx)
	return db.Delete(&models.Box{}, id).Error
}

// applyFilter applies filter conditions to the GORM query
func (r *BoxRepositoryImpl) applyFilter(db *gorm.DB, filter models.BoxFilter) *gorm.DB {
	if filter.ID != nil {
		db = db.Where("id = ?", *filter.ID)
	}
	if filter.BreakID != nil {
		db = db.Where("break_id = ?", *filter.BreakID)
	}
	return db
}

// ByFilter retrieves boxes based on filter criteria.
func (r *BoxRepositoryImpl) ByFilter(ctx context.Context, filter models.BoxFilter, orderBy string, limit, offset int) ([]*models.Box, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Box{}), filter)

	if orderBy == "" {
		orderBy = "id ASC"
	}
	query = query.Order(orderBy)

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var rows []*models.Box
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Count returns the number of boxes matching the filter.
func (r *BoxRepositoryImpl) Count(ctx context.Context, filter models.BoxFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Box{}), filter)

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Exists checks if any box matching the filter exists.
func (r *BoxRepositoryImpl) Exists(ctx context.Context, filter models.BoxFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
