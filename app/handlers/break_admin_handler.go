// Package handlers contains HTTP request handlers and presentation layer logic for the API endpoints
package handlers

import (
	"context"
	"log"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/ripvault/breakroom/app/dto"
	"github.com/ripvault/breakroom/app/middleware"
	businessflow "github.com/ripvault/breakroom/business_flow"
	"github.com/ripvault/breakroom/utils"
)

// BreakAdminHandlerInterface defines the contract for break administration handlers
type BreakAdminHandlerInterface interface {
	CreateBreak(c fiber.Ctx) error
	UpdateBreak(c fiber.Ctx) error
	UpdateBreakStatus(c fiber.Ctx) error
	DeleteBreak(c fiber.Ctx) error
	GetBreak(c fiber.Ctx) error
	ListBreaks(c fiber.Ctx) error
	AddBox(c fiber.Ctx) error
	RemoveBox(c fiber.Ctx) error
	Recompute(c fiber.Ctx) error
	ListSpots(c fiber.Ctx) error
}

// BreakAdminHandler implements BreakAdminHandlerInterface
type BreakAdminHandler struct {
	flow        businessflow.BreakAdminFlow
	pricingFlow businessflow.PricingFlow
	validator   *validator.Validate
}

func NewBreakAdminHandler(flow businessflow.BreakAdminFlow, pricingFlow businessflow.PricingFlow) BreakAdminHandlerInterface {
	return &BreakAdminHandler{
		flow:        flow,
		pricingFlow: pricingFlow,
		validator:   validator.New(),
	}
}

// ErrorResponse standard JSON error
func (h *BreakAdminHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
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
func (h *BreakAdminHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func (h *BreakAdminHandler) validateRequest(c fiber.Ctx, req any) error {
	if err := h.validator.Struct(req); err != nil {
		var validationErrors []string
		for _, err := range err.(validator.ValidationErrors) {
			validationErrors = append(validationErrors, getValidationErrorMessage(err))
		}
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors)
	}
	return nil
}

// CreateBreak creates a new draft break
// @Summary Create break
// @Tags Breaks
// @Accept json
// @Produce json
// @Param request body dto.CreateBreakRequest true "Break data"
// @Success 201 {object} dto.APIResponse{data=dto.BreakDTO} "Break created"
// @Router /api/v1/admin/breaks [post]
func (h *BreakAdminHandler) CreateBreak(c fiber.Ctx) error {
	var req dto.CreateBreakRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if err := h.validateRequest(c, &req); err != nil {
		return err
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	result, err := h.flow.CreateBreak(h.createRequestContext(c, "/api/v1/admin/breaks"), &req, metadata)
	if err != nil {
		log.Println("Create break failed", err)
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Create break failed", "CREATE_BREAK_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusCreated, "Break created", result)
}

// UpdateBreak edits a break's authored fields
// @Summary Update break
// @Tags Breaks
// @Router /api/v1/admin/breaks/{uuid} [put]
func (h *BreakAdminHandler) UpdateBreak(c fiber.Ctx) error {
	var req dto.UpdateBreakRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if err := h.validateRequest(c, &req); err != nil {
		return err
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	result, err := h.flow.UpdateBreak(h.createRequestContext(c, "/api/v1/admin/breaks/:uuid"), c.Params("uuid"), &req, metadata)
	if err != nil {
		if businessflow.IsBreakNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Break not found", "BREAK_NOT_FOUND", nil)
		}
		if businessflow.IsBreakHasSoldSpots(err) {
			return h.ErrorResponse(c, fiber.StatusConflict, "Break has sold spots", "BREAK_HAS_SOLD_SPOTS", nil)
		}
		log.Println("Update break failed", err)
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Update break failed", "UPDATE_BREAK_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Break updated", result)
}

// UpdateBreakStatus moves a break through its lifecycle
// @Summary Update break status
// @Tags Breaks
// @Router /api/v1/admin/breaks/{uuid}/status [put]
func (h *BreakAdminHandler) UpdateBreakStatus(c fiber.Ctx) error {
	var req dto.UpdateBreakStatusRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if err := h.validateRequest(c, &req); err != nil {
		return err
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	result, err := h.flow.UpdateBreakStatus(h.createRequestContext(c, "/api/v1/admin/breaks/:uuid/status"), c.Params("uuid"), &req, metadata)
	if err != nil {
		if businessflow.IsBreakNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Break not found", "BREAK_NOT_FOUND", nil)
		}
		log.Println("Update break status failed", err)
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Update break status failed", "UPDATE_BREAK_STATUS_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Break status updated", result)
}

// DeleteBreak soft-deletes a break
// @Summary Delete break
// @Tags Breaks
// @Router /api/v1/admin/breaks/{uuid} [delete]
func (h *BreakAdminHandler) DeleteBreak(c fiber.Ctx) error {
	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	err := h.flow.DeleteBreak(h.createRequestContext(c, "/api/v1/admin/breaks/:uuid"), c.Params("uuid"), metadata)
	if err != nil {
		if businessflow.IsBreakNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Break not found", "BREAK_NOT_FOUND", nil)
		}
		if businessflow.IsBreakHasSoldSpots(err) {
			return h.ErrorResponse(c, fiber.StatusConflict, "Break has sold spots", "BREAK_HAS_SOLD_SPOTS", nil)
		}
		log.Println("Delete break failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Delete break failed", "DELETE_BREAK_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Break deleted", nil)
}

// GetBreak returns one break with boxes and spots
// @Summary Get break
// @Tags Breaks
// @Router /api/v1/admin/breaks/{uuid} [get]
func (h *BreakAdminHandler) GetBreak(c fiber.Ctx) error {
	result, err := h.flow.GetBreak(h.createRequestContext(c, "/api/v1/admin/breaks/:uuid"), c.Params("uuid"))
	if err != nil {
		if businessflow.IsBreakNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Break not found", "BREAK_NOT_FOUND", nil)
		}
		log.Println("Get break failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Get break failed", "GET_BREAK_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Break retrieved", result)
}

// ListBreaks returns breaks filtered by status
// @Summary List breaks
// @Tags Breaks
// @Router /api/v1/admin/breaks [get]
func (h *BreakAdminHandler) ListBreaks(c fiber.Ctx) error {
	req := &dto.ListBreaksRequest{Status: c.Query("status"), Page: 1, PageSize: 20}
	if v := c.Query("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			req.Page = n
		}
	}
	if v := c.Query("page_size"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			req.PageSize = n
		}
	}

	result, err := h.flow.ListBreaks(h.createRequestContext(c, "/api/v1/admin/breaks"), req)
	if err != nil {
		log.Println("List breaks failed", err)
		return h.ErrorResponse(c, fiber.StatusBadRequest, "List breaks failed", "LIST_BREAKS_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Breaks retrieved", result)
}

// AddBox appends a cost line and reprices the break
// @Summary Add box
// @Tags Breaks
// @Router /api/v1/admin/breaks/{uuid}/boxes [post]
func (h *BreakAdminHandler) AddBox(c fiber.Ctx) error {
	var req dto.AddBoxRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if err := h.validateRequest(c, &req); err != nil {
		return err
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	result, err := h.flow.AddBox(h.createRequestContext(c, "/api/v1/admin/breaks/:uuid/boxes"), c.Params("uuid"), &req, metadata)
	if err != nil {
		if businessflow.IsBreakNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Break not found", "BREAK_NOT_FOUND", nil)
		}
		if businessflow.IsBreakHasSoldSpots(err) {
			return h.ErrorResponse(c, fiber.StatusConflict, "Break has sold spots", "BREAK_HAS_SOLD_SPOTS", nil)
		}
		log.Println("Add box failed", err)
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Add box failed", "ADD_BOX_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusCreated, "Box added", result)
}

// RemoveBox deletes a cost line and reprices the break
// @Summary Remove box
// @Tags Breaks
// @Router /api/v1/admin/breaks/{uuid}/boxes/{box_id} [delete]
func (h *BreakAdminHandler) RemoveBox(c fiber.Ctx) error {
	boxID, err := strconv.ParseUint(c.Params("box_id"), 10, 32)
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid box id", "INVALID_REQUEST", nil)
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	result, err := h.flow.RemoveBox(h.createRequestContext(c, "/api/v1/admin/breaks/:uuid/boxes/:box_id"), c.Params("uuid"), uint(boxID), metadata)
	if err != nil {
		if businessflow.IsBreakNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Break not found", "BREAK_NOT_FOUND", nil)
		}
		if businessflow.IsBreakHasSoldSpots(err) {
			return h.ErrorResponse(c, fiber.StatusConflict, "Break has sold spots", "BREAK_HAS_SOLD_SPOTS", nil)
		}
		log.Println("Remove box failed", err)
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Remove box failed", "REMOVE_BOX_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Box removed", result)
}

// Recompute reruns the pricing allocation for a break
// @Summary Recompute break pricing
// @Tags Breaks
// @Router /api/v1/admin/breaks/{uuid}/recompute [post]
func (h *BreakAdminHandler) Recompute(c fiber.Ctx) error {
	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	result, err := h.pricingFlow.Recompute(h.createRequestContext(c, "/api/v1/admin/breaks/:uuid/recompute"), c.Params("uuid"), metadata)
	if err != nil {
		if businessflow.IsBreakNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Break not found", "BREAK_NOT_FOUND", nil)
		}
		if businessflow.IsBreakHasSoldSpots(err) {
			return h.ErrorResponse(c, fiber.StatusConflict, "Break has sold spots", "BREAK_HAS_SOLD_SPOTS", nil)
		}
		log.Println("Recompute failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Could not update pricing", "PRICING_RECOMPUTE_FAILED", nil)
	}

	middleware.RecordRecompute()
	return h.SuccessResponse(c, fiber.StatusOK, "Pricing recomputed", result)
}

// ListSpots returns the current spot rows for a break
// @Summary List spots
// @Tags Breaks
// @Router /api/v1/admin/breaks/{uuid}/spots [get]
func (h *BreakAdminHandler) ListSpots(c fiber.Ctx) error {
	result, err := h.pricingFlow.ListSpots(h.createRequestContext(c, "/api/v1/admin/breaks/:uuid/spots"), c.Params("uuid"))
	if err != nil {
		if businessflow.IsBreakNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Break not found", "BREAK_NOT_FOUND", nil)
		}
		log.Println("List spots failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "List spots failed", "LIST_SPOTS_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Spots retrieved", result)
}

// createRequestContext mirrors other handlers for request-scoped values
func (h *BreakAdminHandler) createRequestContext(c fiber.Ctx, endpoint string) context.Context {
	return h.createRequestContextWithTimeout(c, endpoint, 30*time.Second)
}

func (h *BreakAdminHandler) createRequestContextWithTimeout(c fiber.Ctx, endpoint string, timeout time.Duration) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	ctx = context.WithValue(ctx, utils.RequestIDKey, c.Get("X-Request-ID"))
	ctx = context.WithValue(ctx, utils.UserAgentKey, c.Get("User-Agent"))
	ctx = context.WithValue(ctx, utils.IPAddressKey, c.IP())
	ctx = context.WithValue(ctx, utils.EndpointKey, endpoint)
	ctx = context.WithValue(ctx, utils.TimeoutKey, timeout)
	ctx = context.WithValue(ctx, utils.CancelFuncKey, cancel)
	return ctx
}
