package repository

import (
	"context"
	"time"

	"github.com/ripvault/breakroom/models"
	"gorm.io/gorm"
)

// ReleaseRepositoryImpl implements ReleaseRepository
type ReleaseRepositoryImpl struct {
	*BaseRepository[models.Release, models.ReleaseFilter]
}

// NewReleaseRepository creates a new repository for release-calendar entries
func NewReleaseRepository(db *gorm.DB) ReleaseRepository {
	return &ReleaseRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Release, models.ReleaseFilter](db),
	}
}

// ListUpcoming returns releases on or after the given date, soonest first.
func (r *ReleaseRepositoryImpl) ListUpcoming(ctx context.Context, from time.Time, limit int) ([]*models.Release, error) {
	db := r.getDB(ctx)

	query := db.Model(&models.Release{}).
		Where("release_date >= ?", from).
		Order("release_date ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var rows []*models.Release
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Delete soft-deletes a release entry.
func (r *ReleaseRepositoryImpl) Delete(ctx context.Context, id uint) error {
	db := r.getDB(ctx)
	return db.Delete(&models.Release{}, id).Error
}

// applyFilter applies filter conditions to the GORM query
func (r *ReleaseRepositoryImpl) applyFilter(db *gorm.DB, filter models.ReleaseFilter) *gorm.DB {
	if filter.ID != nil {
		db = db.Where("id = ?", *filter.ID)
	}
	if filter.Sport != nil {
		db = db.Where("sport = ?", *filter.Sport)
	}
	if filter.ReleasedAfter != nil {
		db = db.Where("release_date >= ?", *filter.ReleasedAfter)
	}
	if filter.ReleasedBefore != nil {
		db = db.Where("release_date <= ?", *filter.ReleasedBefore)
	}
	return db
}

// ByFilter retrieves releases based on filter criteria.
func (r *ReleaseRepositoryImpl) ByFilter(ctx context.Context, filter models.ReleaseFilter, orderBy string, limit, offset int) ([]*models.Release, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Release{}), filter)

	if orderBy == "" {
		orderBy = "release_date ASC"
	}
	query = query.Order(orderBy)

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var rows []*models.Release
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Count returns the number of releases matching the filter.
func (r *ReleaseRepositoryImpl) Count(ctx context.Context, filter models.ReleaseFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Release{}), filter)

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Exists checks if any release matching the filter exists.
func (r *ReleaseRepositoryImpl) Exists(ctx context.Context, filter models.ReleaseFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
