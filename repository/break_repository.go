package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/ripvault/breakroom/models"
	"gorm.io/gorm"
)

// BreakRepositoryImpl implements BreakRepository
type BreakRepositoryImpl struct {
	*BaseRepository[models.Break, models.BreakFilter]
}

// NewBreakRepository creates a new repository for breaks
func NewBreakRepository(db *gorm.DB) BreakRepository {
	return &BreakRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Break, models.BreakFilter](db),
	}
}

// ByUUID retrieves a break by its UUID, nil when not found.
func (r *BreakRepositoryImpl) ByUUID(ctx context.Context, uuid string) (*models.Break, error) {
	db := r.getDB(ctx)

	var b models.Break
	err := db.Where("uuid = ?", uuid).First(&b).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find break by UUID %s: %w", uuid, err)
	}
	return &b, nil
}

// ListByStatus returns breaks in the given lifecycle status, newest first.
func (r *BreakRepositoryImpl) ListByStatus(ctx context.Context, status string, limit, offset int) ([]*models.Break, error) {
	return r.ByFilter(ctx, models.BreakFilter{Status: &status}, "created_at DESC", limit, offset)
}

// Delete soft-deletes a break.
func (r *BreakRepositoryImpl) Delete(ctx context.Context, id uint) error {
	db := r.getDB(ctx)
	return db.Delete(&models.Break{}, id).Error
}

// applyFilter applies filter conditions to the GORM query
func (r *BreakRepositoryImpl) applyFilter(db *gorm.DB, filter models.BreakFilter) *gorm.DB {
	if filter.ID != nil {
		db = db.Where("id = ?", *filter.ID)
	}
	if filter.UUID != nil {
		db = db.Where("uuid = ?", *filter.UUID)
	}
	if filter.Sport != nil {
		db = db.Where("sport = ?", *filter.Sport)
	}
	if filter.Status != nil {
		db = db.Where("status = ?", *filter.Status)
	}
	return db
}

// ByFilter retrieves breaks based on filter criteria.
func (r *BreakRepositoryImpl) ByFilter(ctx context.Context, filter models.BreakFilter, orderBy string, limit, offset int) ([]*models.Break, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Break{}), filter)

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

	var rows []*models.Break
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Count returns the number of breaks matching the filter.
func (r *BreakRepositoryImpl) Count(ctx context.Context, filter models.BreakFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Break{}), filter)

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Exists checks if any break matching the filter exists.
func (r *BreakRepositoryImpl) Exists(ctx context.Context, filter models.BreakFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
