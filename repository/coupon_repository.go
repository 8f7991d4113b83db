package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ripvault/breakroom/models"
	"github.com/ripvault/breakroom/utils"
	"gorm.io/gorm"
)

// CouponRepositoryImpl implements CouponRepository
type CouponRepositoryImpl struct {
	*BaseRepository[models.Coupon, models.CouponFilter]
}

// NewCouponRepository creates a new repository for coupon codes
func NewCouponRepository(db *gorm.DB) CouponRepository {
	return &CouponRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Coupon, models.CouponFilter](db),
	}
}

// ByCode retrieves a coupon by its code (case-insensitive), nil when not found.
func (r *CouponRepositoryImpl) ByCode(ctx context.Context, code string) (*models.Coupon, error) {
	db := r.getDB(ctx)

	var c models.Coupon
	err := db.Where("UPPER(code) = ?", strings.ToUpper(code)).First(&c).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find coupon by code %s: %w", code, err)
	}
	return &c, nil
}

// IncrementRedemptions bumps a coupon's redemption counter.
func (r *CouponRepositoryImpl) IncrementRedemptions(ctx context.Context, couponID uint) error {
	db := r.getDB(ctx)
	return db.Model(&models.Coupon{}).
		Where("id = ?", couponID).
		Updates(map[string]any{
			"redemptions": gorm.Expr("redemptions + 1"),
			"updated_at":  utils.UTCNow(),
		}).Error
}

// Delete soft-deletes a coupon.
func (r *CouponRepositoryImpl) Delete(ctx context.Context, id uint) error {
	db := r.getDB(ctx)
	return db.Delete(&models.Coupon{}, id).Error
}

// applyFilter applies filter conditions to the GORM query
func (r *CouponRepositoryImpl) applyFilter(db *gorm.DB, filter models.CouponFilter) *gorm.DB {
	if filter.ID != nil {
		db = db.Where("id = ?", *filter.ID)
	}
	if filter.Code != nil {
		db = db.Where("code = ?", *filter.Code)
	}
	if filter.IsActive != nil {
		db = db.Where("is_active = ?", *filter.IsActive)
	}
	return db
}

// ByFilter retrieves coupons based on filter criteria.
func (r *CouponRepositoryImpl) ByFilter(ctx context.Context, filter models.CouponFilter, orderBy string, limit, offset int) ([]*models.Coupon, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Coupon{}), filter)

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

	var rows []*models.Coupon
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Count returns the number of coupons matching the filter.
func (r *CouponRepositoryImpl) Count(ctx context.Context, filter models.CouponFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Coupon{}), filter)

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Exists checks if any coupon matching the filter exists.
func (r *CouponRepositoryImpl) Exists(ctx context.Context, filter models.CouponFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
