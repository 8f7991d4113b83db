// Package handlers contains HTTP request handlers and presentation layer logic for the API endpoints
package handlers

import (
	"context"
	"log"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/ripvault/breakroom/app/dto"
	businessflow "github.com/ripvault/breakroom/business_flow"
	"github.com/ripvault/breakroom/utils"
)

// TeamHandlerInterface defines the contract for team management handlers
type TeamHandlerInterface interface {
	CreateTeam(c fiber.Ctx) error
	UpdateTeam(c fiber.Ctx) error
	DeleteTeam(c fiber.Ctx) error
	ListTeams(c fiber.Ctx) error
}

// TeamHandler implements TeamHandlerInterface
type TeamHandler struct {
	flow      businessflow.TeamFlow
	validator *validator.Validate
}

func NewTeamHandler(flow businessflow.TeamFlow) TeamHandlerInterface {
	return &TeamHandler{
		flow:      flow,
		validator: validator.New(),
	}
}

// ErrorResponse standard JSON error
func (h *TeamHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
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
func (h *TeamHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// CreateTeam adds a team weight entry
// @Summary Create team
// @Tags Teams
// @Router /api/v1/admin/teams [post]
func (h *TeamHandler) CreateTeam(c fiber.Ctx) error {
	var req dto.CreateTeamRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if err := h.validator.Struct(&req); err != nil {
		var validationErrors []string
		for _, err := range err.(validator.ValidationErrors) {
			validationErrors = append(validationErrors, getValidationErrorMessage(err))
		}
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors)
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	result, err := h.flow.CreateTeam(h.createRequestContext(c, "/api/v1/admin/teams"), &req, metadata)
	if err != nil {
		if businessflow.IsTeamMultiplierInvalid(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Multiplier out of range", "TEAM_MULTIPLIER_INVALID", nil)
		}
		log.Println("Create team failed", err)
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Create team failed", "CREATE_TEAM_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusCreated, "Team created", result)
}

// UpdateTeam edits a team's name, multiplier or active flag
// @Summary Update team
// @Tags Teams
// @Router /api/v1/admin/teams/{uuid} [put]
func (h *TeamHandler) UpdateTeam(c fiber.Ctx) error {
	var req dto.UpdateTeamRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if err := h.validator.Struct(&req); err != nil {
		var validationErrors []string
		for _, err := range err.(validator.ValidationErrors) {
			validationErrors = append(validationErrors, getValidationErrorMessage(err))
		}
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors)
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	result, err := h.flow.UpdateTeam(h.createRequestContext(c, "/api/v1/admin/teams/:uuid"), c.Params("uuid"), &req, metadata)
	if err != nil {
		if businessflow.IsTeamNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Team not found", "TEAM_NOT_FOUND", nil)
		}
		if businessflow.IsTeamMultiplierInvalid(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Multiplier out of range", "TEAM_MULTIPLIER_INVALID", nil)
		}
		log.Println("Update team failed", err)
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Update team failed", "UPDATE_TEAM_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Team updated", result)
}

// DeleteTeam soft-deletes a team
// @Summary Delete team
// @Tags Teams
// @Router /api/v1/admin/teams/{uuid} [delete]
func (h *TeamHandler) DeleteTeam(c fiber.Ctx) error {
	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	err := h.flow.DeleteTeam(h.createRequestContext(c, "/api/v1/admin/teams/:uuid"), c.Params("uuid"), metadata)
	if err != nil {
		if businessflow.IsTeamNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Team not found", "TEAM_NOT_FOUND", nil)
		}
		log.Println("Delete team failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Delete team failed", "DELETE_TEAM_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Team deleted", nil)
}

// ListTeams returns active teams for a sport
// @Summary List teams
// @Tags Teams
// @Router /api/v1/admin/teams [get]
func (h *TeamHandler) ListTeams(c fiber.Ctx) error {
	result, err := h.flow.ListTeams(h.createRequestContext(c, "/api/v1/admin/teams"), c.Query("sport"))
	if err != nil {
		log.Println("List teams failed", err)
		return h.ErrorResponse(c, fiber.StatusBadRequest, "List teams failed", "LIST_TEAMS_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Teams retrieved", result)
}

// createRequestContext mirrors other handlers for request-scoped values
func (h *TeamHandler) createRequestContext(c fiber.Ctx, endpoint string) context.Context {
	return h.createRequestContextWithTimeout(c, endpoint, 30*time.Second)
}

func (h *TeamHandler) createRequestContextWithTimeout(c fiber.Ctx, endpoint string, timeout time.Duration) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	ctx = context.WithValue(ctx, utils.RequestIDKey, c.Get("X-Request-ID"))
	ctx = context.WithValue(ctx, utils.UserAgentKey, c.Get("User-Agent"))
	ctx = context.WithValue(ctx, utils.IPAddressKey, c.IP())
	ctx = context.WithValue(ctx, utils.EndpointKey, endpoint)
	ctx = context.WithValue(ctx, utils.TimeoutKey, timeout)
	ctx = context.WithValue(ctx, utils.CancelFuncKey, cancel)
	return ctx
}
