package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/ripvault/breakroom/models"
	"gorm.io/gorm"
)

// TeamRepositoryImpl implements TeamRepository
type TeamRepositoryImpl struct {
	*BaseRepository[models.Team, models.TeamFilter]
}

// NewTeamRepository creates a new repository for teams
func NewTeamRepository(db *gorm.DB) TeamRepository {
	return &TeamRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Team, models.TeamFilter](db),
	}
}

// ByUUID retrieves a team by its UUID, nil when not found.
func (r *TeamRepositoryImpl) ByUUID(ctx context.Context, uuid string) (*models.Team, error) {
	db := r.getDB(ctx)

	var t models.Team
	err := db.Where("uuid = ?", uuid).First(&t).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find team by UUID %s: %w", uuid, err)
	}
	return &t, nil
}

// ListActiveBySport returns the active teams of a sport ordered by name.
// This ordering is what makes spot allocation deterministic.
func (r *TeamRepositoryImpl) ListActiveBySport(ctx context.Context, sport string) ([]*models.Team, error) {
	db := r.getDB(ctx)

	var rows []*models.Team
	err := db.Model(&models.Team{}).
		Where("sport = ? AND is_active = ?", sport, true).
		Order("name ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// Delete soft-deletes a team.
func (r *TeamRepositoryImpl) Delete(ctx context.Context, id uint) error {
	db := r.getDB(ctx)
	return db.Delete(&models.Team{}, id).Error
}

// applyFilter applies filter conditions to the GORM query
func (r *TeamRepositoryImpl) applyFilter(db *gorm.DB, filter models.TeamFilter) *gorm.DB {
	if filter.ID != nil {
		db = db.Where("id = ?", *filter.ID)
	}
	if filter.UUID != nil {
		db = db.Where("uuid = ?", *filter.UUID)
	}
	if filter.Name != nil {
		db = db.Where("name = ?", *filter.Name)
	}
	if filter.Sport != nil {
		db = db.Where("sport = ?", *filter.Sport)
	}
	if filter.IsActive != nil {
		db = db.Where("is_active = ?", *filter.IsActive)
	}
	return db
}

// ByFilter retrieves teams based on filter criteria.
func (r *TeamRepositoryImpl) ByFilter(ctx context.Context, filter models.TeamFilter, orderBy string, limit, offset int) ([]*models.Team, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Team{}), filter)

	if orderBy == "" {
		orderBy = "name ASC"
	}
	query = query.Order(orderBy)

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var rows []*models.Team
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Count returns the number of teams matching the filter.
func (r *TeamRepositoryImpl) Count(ctx context.Context, filter models.TeamFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Team{}), filter)

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Exists checks if any team matching the filter exists.
func (r *TeamRepositoryImpl) Exists(ctx context.Context, filter models.TeamFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
