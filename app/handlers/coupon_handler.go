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

// CouponHandlerInterface defines the contract for coupon administration handlers
type CouponHandlerInterface interface {
	CreateCoupon(c fiber.Ctx) error
	ListCoupons(c fiber.Ctx) error
	DeleteCoupon(c fiber.Ctx) error
}

// CouponHandler implements CouponHandlerInterface
type CouponHandler struct {
	flow      businessflow.CouponFlow
	validator *validator.Validate
}

func NewCouponHandler(flow businessflow.CouponFlow) CouponHandlerInterface {
	return &CouponHandler{
		flow:      flow,
		validator: validator.New(),
	}
}

// ErrorResponse standard JSON error
func (h *CouponHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
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
func (h *CouponHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// CreateCoupon registers a new discount code
// @Summary Create coupon
// @Tags Coupons
// @Router /api/v1/admin/coupons [post]
func (h *CouponHandler) CreateCoupon(c fiber.Ctx) error {
	var req dto.CreateCouponRequest
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
	result, err := h.flow.CreateCoupon(h.createRequestContext(c, "/api/v1/admin/coupons"), &req, metadata)
	if err != nil {
		log.Println("Create coupon failed", err)
		if businessflow.IsCouponCodeTaken(err) {
			return h.ErrorResponse(c, fiber.StatusConflict, "Coupon code already in use", "COUPON_CODE_TAKEN", nil)
		}
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Create coupon failed", "CREATE_COUPON_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusCreated, "Coupon created", result)
}

// ListCoupons returns all coupons
// @Summary List coupons
// @Tags Coupons
// @Router /api/v1/admin/coupons [get]
func (h *CouponHandler) ListCoupons(c fiber.Ctx) error {
	result, err := h.flow.ListCoupons(h.createRequestContext(c, "/api/v1/admin/coupons"))
	if err != nil {
		log.Println("List coupons failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "List coupons failed", "LIST_COUPONS_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Coupons retrieved", result)
}

// DeleteCoupon deactivates a coupon by code
// @Summary Delete coupon
// @Tags Coupons
// @Router /api/v1/admin/coupons/{code} [delete]
func (h *CouponHandler) DeleteCoupon(c fiber.Ctx) error {
	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	if err := h.flow.DeleteCoupon(h.createRequestContext(c, "/api/v1/admin/coupons/:code"), c.Params("code"), metadata); err != nil {
		log.Println("Delete coupon failed", err)
		if businessflow.IsCouponNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Coupon not found", "COUPON_NOT_FOUND", nil)
		}
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Delete coupon failed", "DELETE_COUPON_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Coupon deleted", nil)
}

func (h *CouponHandler) createRequestContext(c fiber.Ctx, endpoint string) context.Context {
	return h.createRequestContextWithTimeout(c, endpoint, 30*time.Second)
}

func (h *CouponHandler) createRequestContextWithTimeout(c fiber.Ctx, endpoint string, timeout time.Duration) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	ctx = context.WithValue(ctx, utils.RequestIDKey, c.Get("X-Request-ID"))
	ctx = context.WithValue(ctx, utils.UserAgentKey, c.Get("User-Agent"))
	ctx = context.WithValue(ctx, utils.IPAddressKey, c.IP())
	ctx = context.WithValue(ctx, utils.EndpointKey, endpoint)
	ctx = context.WithValue(ctx, utils.TimeoutKey, timeout)
	ctx = context.WithValue(ctx, utils.CancelFuncKey, cancel)
	return ctx
}
