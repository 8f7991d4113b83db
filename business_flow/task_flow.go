package businessflow

import (
	"context"

	"github.com/ripvault/breakroom/app/dto"
	"github.com/ripvault/breakroom/models"
	"github.com/ripvault/breakroom/repository"
	"github.com/ripvault/breakroom/utils"
)

// TaskFlow manages the back-office to-do list
type TaskFlow interface {
	CreateTask(ctx context.Context, req *dto.CreateTaskRequest, metadata *ClientMetadata) (*dto.TaskDTO, error)
	UpdateTask(ctx context.Context, taskID uint, req *dto.UpdateTaskRequest, metadata *ClientMetadata) (*dto.TaskDTO, error)
	DeleteTask(ctx context.Context, taskID uint, metadata *ClientMetadata) error
	ListOpenTasks(ctx context.Context) ([]dto.TaskDTO, error)
}

// TaskFlowImpl implements the to-do flow
type TaskFlowImpl struct {
	taskRepo repository.TaskRepository
}

// NewTaskFlow creates a new task flow instance
func NewTaskFlow(taskRepo repository.TaskRepository) TaskFlow {
	return &TaskFlowImpl{taskRepo: taskRepo}
}

// CreateTask adds a to-do item.
func (f *TaskFlowImpl) CreateTask(ctx context.Context, req *dto.CreateTaskRequest, metadata *ClientMetadata) (*dto.TaskDTO, error) {
	task := &models.Task{
		Title:     req.Title,
		Notes:     req.Notes,
		Done:      utils.ToPtr(false),
		DueAt:     req.DueAt,
		Position:  req.Position,
		CreatedAt: utils.UTCNow(),
		UpdatedAt: utils.UTCNow(),
	}
	if err := f.taskRepo.Save(ctx, task); err != nil {
		return nil, NewBusinessError("CREATE_TASK_FAILED", "Failed to create task", err)
	}

	taskDTO := ToTaskDTO(*task)
	return &taskDTO, nil
}

// UpdateTask edits a to-do item, including toggling its done flag.
func (f *TaskFlowImpl) UpdateTask(ctx context.Context, taskID uint, req *dto.UpdateTaskRequest, metadata *ClientMetadata) (*dto.TaskDTO, error) {
	task, err := f.taskRepo.ByID(ctx, taskID)
	if err != nil {
		return nil, NewBusinessError("UPDATE_TASK_FAILED", "Update task failed", err)
	}
	if task == nil {
		return nil, NewBusinessError("UPDATE_TASK_FAILED", "Update task failed", ErrTaskNotFound)
	}

	if req.Title != nil {
		task.Title = *req.Title
	}
	if req.Notes != nil {
		task.Notes = req.Notes
	}
	if req.Done != nil {
		task.Done = req.Done
	}
	if req.DueAt != nil {
		task.DueAt = req.DueAt
	}
	if req.Position != nil {
		task.Position = *req.Position
	}

	task.UpdatedAt = utils.UTCNow()
	if err := f.taskRepo.Update(ctx, task); err != nil {
		return nil, NewBusinessError("UPDATE_TASK_FAILED", "Failed to update task", err)
	}

	taskDTO := ToTaskDTO(*task)
	return &taskDTO, nil
}

// DeleteTask removes a to-do item.
func (f *TaskFlowImpl) DeleteTask(ctx context.Context, taskID uint, metadata *ClientMetadata) error {
	task, err := f.taskRepo.ByID(ctx, taskID)
	if err != nil {
		return NewBusinessError("DELETE_TASK_FAILED", "Delete task failed", err)
	}
	if task == nil {
		return NewBusinessError("DELETE_TASK_FAILED", "Delete task failed", ErrTaskNotFound)
	}
	if err := f.taskRepo.Delete(ctx, task.ID); err != nil {
		return NewBusinessError("DELETE_TASK_FAILED", "Failed to delete task", err)
	}
	return nil
}

// ListOpenTasks returns unfinished tasks ordered by position.
func (f *TaskFlowImpl) ListOpenTasks(ctx context.Context) ([]dto.TaskDTO, error) {
	tasks, err := f.taskRepo.ListOpen(ctx)
	if err != nil {
		return nil, NewBusinessError("LIST_TASKS_FAILED", "Failed to list tasks", err)
	}

	out := make([]dto.TaskDTO, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, ToTaskDTO(*t))
	}
	return out, nil
}

// ToTaskDTO converts a task model to its response DTO.
func ToTaskDTO(t models.Task) dto.TaskDTO {
	d := dto.TaskDTO{
		ID:       t.ID,
		Title:    t.Title,
		Done:     utils.IsTrue(t.Done),
		Position: t.Position,
		DueAt:    formatTimePtr(t.DueAt),
	}
	if t.Notes != nil {
		d.Notes = *t.Notes
	}
	return d
}
