package repository

import (
	"context"
	"errors"

	"github.com/ripvault/breakroom/models"
	"github.com/ripvault/breakroom/utils"
	"gorm.io/gorm"
)

// ErrSpotAlreadySold is returned by MarkSold when the spot was already sold
// (or no longer exists), so a capture can never double-sell a spot.
var ErrSpotAlreadySold = errors.New("spot already sold")

// SpotRepositoryImpl implements SpotRepository
type SpotRepositoryImpl struct {
	*BaseRepository[models.Spot, models.SpotFilter]
}

// NewSpotRepository creates a new repository for break spots
func NewSpotRepository(db *gorm.DB) SpotRepository {
	return &SpotRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Spot, models.SpotFilter](db),
	}
}

// ListByBreak returns all spots of a break with their teams preloaded,
// ordered by team name to match allocation order.
func (r *SpotRepositoryImpl) ListByBreak(ctx context.Context, breakID uint) ([]*models.Spot, error) {
	db := r.getDB(ctx)

	var rows []*models.Spot
	err := db.Model(&models.Spot{}).
		Joins("JOIN teams ON teams.id = spots.team_id").
		Where("spots.break_id = ?", breakID).
		Order("teams.name ASC").
		Preload("Team").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// DeleteByBreak removes every spot of a break. Called inside the recompute
// transaction so readers never observe a break with zero spots mid-update.
func (r *SpotRepositoryImpl) DeleteByBreak(ctx context.Context, breakID uint) error {
	db := r.getDB(ctx)
	return db.Where("break_id = ?", breakID).Delete(&models.Spot{}).Error
}

// CountSoldByBreak returns how many spots of a break have been sold.
func (r *SpotRepositoryImpl) CountSoldByBreak(ctx context.Context, breakID uint) (int64, error) {
	db := r.getDB(ctx)

	var count int64
	err := db.Model(&models.Spot{}).
		Where("break_id = ? AND sold = ?", breakID, true).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

// MarkSold flags a spot as sold and links it to the purchasing order item.
// The guarded UPDATE makes the sale atomic: if the spot was sold in between,
// zero rows match and the caller gets ErrSpotAlreadySold.
func (r *SpotRepositoryImpl) MarkSold(ctx context.Context, spotID uint, orderItemID uint) error {
	db := r.getDB(ctx)

	res := db.Model(&models.Spot{}).
		Where("id = ? AND sold = ?", spotID, false).
		Updates(map[string]any{
			"sold":          true,
			"order_item_id": orderItemID,
			"updated_at":    utils.UTCNow(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrSpotAlreadySold
	}
	return nil
}

// applyFilter applies filter conditions to the GORM query
func (r *SpotRepositoryImpl) applyFilter(db *gorm.DB, filter models.SpotFilter) *gorm.DB {
	if filter.ID != nil {
		db = db.Where("id = ?", *filter.ID)
	}
	if filter.BreakID != nil {
		db = db.Where("break_id = ?", *filter.BreakID)
	}
	if filter.TeamID != nil {
		db = db.Where("team_id = ?", *filter.TeamID)
	}
	if filter.Sold != nil {
		db = db.Where("sold = ?", *filter.Sold)
	}
	return db
}

// ByFilter retrieves spots based on filter criteria.
func (r *SpotRepositoryImpl) ByFilter(ctx context.Context, filter models.SpotFilter, orderBy string, limit, offset int) ([]*models.Spot, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Spot{}), filter)

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

	var rows []*models.Spot
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Count returns the number of spots matching the filter.
func (r *SpotRepositoryImpl) Count(ctx context.Context, filter models.SpotFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Spot{}), filter)

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Exists checks if any spot matching the filter exists.
func (r *SpotRepositoryImpl) Exists(ctx context.Context, filter models.SpotFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
