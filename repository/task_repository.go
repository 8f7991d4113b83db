package repository

import (
	"context"

	"github.com/ripvault/breakroom/models"
	"gorm.io/gorm"
)

// TaskRepositoryImpl implements TaskRepository
type TaskRepositoryImpl struct {
	*BaseRepository[models.Task, models.TaskFilter]
}

// NewTaskRepository creates a new repository for back-office to-do items
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &TaskRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Task, models.TaskFilter](db),
	}
}

// ListOpen returns unfinished tasks in board order.
func (r *TaskRepositoryImpl) ListOpen(ctx context.Context) ([]*models.Task, error) {
	done := false
	return r.ByFilter(ctx, models.TaskFilter{Done: &done}, "position ASC, id ASC", 0, 0)
}

// Delete soft-deletes a task.
func (r *TaskRepositoryImpl) Delete(ctx context.Context, id uint) error {
	db := r.getDB(ctx)
	return db.Delete(&models.Task{}, id).Error
}

// applyFilter applies filter conditions to the GORM query
func (r *TaskRepositoryImpl) applyFilter(db *gorm.DB, filter models.TaskFilter) *gorm.DB {
	if filter.ID != nil {
		db = db.Where("id = ?", *filter.ID)
	}
	if filter.Done != nil {
		db = db.Where("done = ?", *filter.Done)
	}
	return db
}

// ByFilter retrieves tasks based on filter criteria.
func (r *TaskRepositoryImpl) ByFilter(ctx context.Context, filter models.TaskFilter, orderBy string, limit, offset int) ([]*models.Task, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Task{}), filter)

	if orderBy == "" {
		orderBy = "position ASC, id ASC"
	}
	query = query.Order(orderBy)

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var rows []*models.Task
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Count returns the number of tasks matching the filter.
func (r *TaskRepositoryImpl) Count(ctx context.Context, filter models.TaskFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Task{}), filter)

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Exists checks if any task matching the filter exists.
func (r *TaskRepositoryImpl) Exists(ctx context.Context, filter models.TaskFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
