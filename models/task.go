package models

import (
	"time"

	"gorm.io/gorm"
)

// Task is a back-office to-do item. Table: tasks
type Task struct {
	ID       uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	Title    string     `gorm:"size:255;not null" json:"title"`
	Notes    *string    `gorm:"type:text" json:"notes,omitempty"`
	Done     *bool      `gorm:"default:false;index:idx_tasks_done" json:"done"`
	DueAt    *time.Time `gorm:"index:idx_tasks_due_at" json:"due_at,omitempty"`
	Position int        `gorm:"not null;default:0" json:"position"`

	CreatedAt time.Time      `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
	UpdatedAt time.Time      `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Task) TableName() string {
	return "tasks"
}

// TaskFilter represents filter criteria for task queries
type TaskFilter struct {
	ID   *uint `json:"id,omitempty"`
	Done *bool `json:"done,omitempty"`
}
