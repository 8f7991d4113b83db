package handlers

import (
	"context"
	"log"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/ripvault/breakroom/app/dto"
	businessflow "github.com/ripvault/breakroom/business_flow"
	"github.com/ripvault/breakroom/utils"
)

// BackofficeHandlerInterface defines the contract for release calendar and to-do handlers
type BackofficeHandlerInterface interface {
	CreateRelease(c fiber.Ctx) error
	UpdateRelease(c fiber.Ctx) error
	DeleteRelease(c fiber.Ctx) error
	ListUpcomingReleases(c fiber.Ctx) error
	CreateTask(c fiber.Ctx) error
	UpdateTask(c fiber.Ctx) error
	DeleteTask(c fiber.Ctx) error
	ListOpenTasks(c fiber.Ctx) error
}

// BackofficeHandler implements BackofficeHandlerInterface
type BackofficeHandler struct {
	releases  businessflow.ReleaseFlow
	tasks     businessflow.TaskFlow
	validator *validator.Validate
}

func NewBackofficeHandler(releases businessflow.ReleaseFlow, tasks businessflow.TaskFlow) BackofficeHandlerInterface {
	return &BackofficeHandler{
		releases:  releases,
		tasks:     tasks,
		validator: validator.New(),
	}
}

// ErrorResponse standard JSON error
func (h *BackofficeHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

// SuccessResponse standard JSON success
func (h *BackofficeHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func (h *BackofficeHandler) validateRequest(c fiber.Ctx, req any) error {
	if err := h.validator.Struct(req); err != nil {
		var validationErrors []string
		for _, err := range err.(validator.ValidationErrors) {
			validationErrors = append(validationErrors, getValidationErrorMessage(err))
		}
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors)
	}
	return nil
}

// CreateRelease adds an entry to the release calendar
// @Summary Create release
// @Tags Backoffice
// @Router /api/v1/admin/releases [post]
func (h *BackofficeHandler) CreateRelease(c fiber.Ctx) error {
	var req dto.CreateReleaseRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if err := h.validateRequest(c, &req); err != nil {
		return err
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	result, err := h.releases.CreateRelease(h.createRequestContext(c, "/api/v1/admin/releases"), &req, metadata)
	if err != nil {
		log.Println("Create release failed", err)
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Create release failed", "CREATE_RELEASE_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusCreated, "Release created", result)
}

// UpdateRelease edits a release entry
// @Summary Update release
// @Tags Backoffice
// @Router /api/v1/admin/releases/{id} [put]
func (h *BackofficeHandler) UpdateRelease(c fiber.Ctx) error {
	releaseID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid release id", "INVALID_REQUEST", nil)
	}

	var req dto.UpdateReleaseRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if err := h.validateRequest(c, &req); err != nil {
		return err
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	result, err := h.releases.UpdateRelease(h.createRequestContext(c, "/api/v1/admin/releases/:id"), uint(releaseID), &req, metadata)
	if err != nil {
		log.Println("Update release failed", err)
		if businessflow.IsReleaseNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Release not found", "RELEASE_NOT_FOUND", nil)
		}
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Update release failed", "UPDATE_RELEASE_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Release updated", result)
}

// DeleteRelease removes a release entry
// @Summary Delete release
// @Tags Backoffice
// @Router /api/v1/admin/releases/{id} [delete]
func (h *BackofficeHandler) DeleteRelease(c fiber.Ctx) error {
	releaseID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid release id", "INVALID_REQUEST", nil)
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	if err := h.releases.DeleteRelease(h.createRequestContext(c, "/api/v1/admin/releases/:id"), uint(releaseID), metadata); err != nil {
		log.Println("Delete release failed", err)
		if businessflow.IsReleaseNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Release not found", "RELEASE_NOT_FOUND", nil)
		}
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Delete release failed", "DELETE_RELEASE_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Release deleted", nil)
}

// ListUpcomingReleases returns upcoming calendar entries for the admin view
// @Summary List upcoming releases
// @Tags Backoffice
// @Router /api/v1/admin/releases [get]
func (h *BackofficeHandler) ListUpcomingReleases(c fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit", "50"))

	result, err := h.releases.ListUpcoming(h.createRequestContext(c, "/api/v1/admin/releases"), limit)
	if err != nil {
		log.Println("List releases failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "List releases failed", "LIST_RELEASES_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Releases retrieved", result)
}

// CreateTask adds an item to the admin to-do list
// @Summary Create task
// @Tags Backoffice
// @Router /api/v1/admin/tasks [post]
func (h *BackofficeHandler) CreateTask(c fiber.Ctx) error {
	var req dto.CreateTaskRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if err := h.validateRequest(c, &req); err != nil {
		return err
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	result, err := h.tasks.CreateTask(h.createRequestContext(c, "/api/v1/admin/tasks"), &req, metadata)
	if err != nil {
		log.Println("Create task failed", err)
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Create task failed", "CREATE_TASK_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusCreated, "Task created", result)
}

// UpdateTask edits or completes a to-do item
// @Summary Update task
// @Tags Backoffice
// @Router /api/v1/admin/tasks/{id} [put]
func (h *BackofficeHandler) UpdateTask(c fiber.Ctx) error {
	taskID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid task id", "INVALID_REQUEST", nil)
	}

	var req dto.UpdateTaskRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if err := h.validateRequest(c, &req); err != nil {
		return err
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	result, err := h.tasks.UpdateTask(h.createRequestContext(c, "/api/v1/admin/tasks/:id"), uint(taskID), &req, metadata)
	if err != nil {
		log.Println("Update task failed", err)
		if businessflow.IsTaskNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Task not found", "TASK_NOT_FOUND", nil)
		}
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Update task failed", "UPDATE_TASK_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Task updated", result)
}

// DeleteTask removes a to-do item
// @Summary Delete task
// @Tags Backoffice
// @Router /api/v1/admin/tasks/{id} [delete]
func (h *BackofficeHandler) DeleteTask(c fiber.Ctx) error {
	taskID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid task id", "INVALID_REQUEST", nil)
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	if err := h.tasks.DeleteTask(h.createRequestContext(c, "/api/v1/admin/tasks/:id"), uint(taskID), metadata); err != nil {
		log.Println("Delete task failed", err)
		if businessflow.IsTaskNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Task not found", "TASK_NOT_FOUND", nil)
		}
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Delete task failed", "DELETE_TASK_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Task deleted", nil)
}

// ListOpenTasks returns all open to-do items
// @Summary List open tasks
// @Tags Backoffice
// @Router /api/v1/admin/tasks [get]
func (h *BackofficeHandler) ListOpenTasks(c fiber.Ctx) error {
	result, err := h.tasks.ListOpenTasks(h.createRequestContext(c, "/api/v1/admin/tasks"))
	if err != nil {
		log.Println("List tasks failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "List tasks failed", "LIST_TASKS_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Tasks retrieved", result)
}

func (h *BackofficeHandler) createRequestContext(c fiber.Ctx, endpoint string) context.Context {
	return h.createRequestContextWithTimeout(c, endpoint, 30*time.Second)
}

func (h *BackofficeHandler) createRequestContextWithTimeout(c fiber.Ctx, endpoint string, timeout time.Duration) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	ctx = context.WithValue(ctx, utils.RequestIDKey, c.Get("X-Request-ID"))
	ctx = context.WithValue(ctx, utils.UserAgentKey, c.Get("User-Agent"))
	ctx = context.WithValue(ctx, utils.IPAddressKey, c.IP())
	ctx = context.WithValue(ctx, utils.EndpointKey, endpoint)
	ctx = context.WithValue(ctx, utils.TimeoutKey, timeout)
	ctx = context.WithValue(ctx, utils.CancelFuncKey, cancel)
	return ctx
}
