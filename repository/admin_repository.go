package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ripvault/breakroom/models"
	"gorm.io/gorm"
)

// AdminRepositoryImpl implements AdminRepository
type AdminRepositoryImpl struct {
	*BaseRepository[models.Admin, models.AdminFilter]
}

// NewAdminRepository creates a new repository for back-office users
func NewAdminRepository(db *gorm.DB) AdminRepository {
	return &AdminRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Admin, models.AdminFilter](db),
	}
}

// ByUsername retrieves an admin by username, nil when not found.
func (r *AdminRepositoryImpl) ByUsername(ctx context.Context, username string) (*models.Admin, error) {
	db := r.getDB(ctx)

	var a models.Admin
	err := db.Where("username = ?", username).First(&a).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find admin by username %s: %w", username, err)
	}
	return &a, nil
}

// TouchLastLogin records the time of a successful login.
func (r *AdminRepositoryImpl) TouchLastLogin(ctx context.Context, adminID uint, at time.Time) error {
	db := r.getDB(ctx)
	return db.Model(&models.Admin{}).
		Where("id = ?", adminID).
		Update("last_login_at", at).Error
}

// applyFilter applies filter conditions to the GORM query
func (r *AdminRepositoryImpl) applyFilter(db *gorm.DB, filter models.AdminFilter) *gorm.DB {
	if filter.ID != nil {
		db = db.Where("id = ?", *filter.ID)
	}
	if filter.UUID != nil {
		db = db.Where("uuid = ?", *filter.UUID)
	}
	if filter.Username != nil {
		db = db.Where("username = ?", *filter.Username)
	}
	if filter.IsActive != nil {
		db = db.Where("is_active = ?", *filter.IsActive)
	}
	return db
}

// ByFilter retrieves admins based on filter criteria.
func (r *AdminRepositoryImpl) ByFilter(ctx context.Context, filter models.AdminFilter, orderBy string, limit, offset int) ([]*models.Admin, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Admin{}), filter)

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

	var rows []*models.Admin
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Count returns the number of admins matching the filter.
func (r *AdminRepositoryImpl) Count(ctx context.Context, filter models.AdminFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Admin{}), filter)

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Exists checks if any admin matching the filter exists.
func (r *AdminRepositoryImpl) Exists(ctx context.Context, filter models.AdminFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
