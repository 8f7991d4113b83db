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

// StorefrontHandlerInterface defines the contract for public storefront handlers
type StorefrontHandlerInterface interface {
	ListLiveBreaks(c fiber.Ctx) error
	GetLiveBreak(c fiber.Ctx) error
	ListCategories(c fiber.Ctx) error
	ListProducts(c fiber.Ctx) error
	ApplyCoupon(c fiber.Ctx) error
	BeginCheckout(c fiber.Ctx) error
	CaptureCheckout(c fiber.Ctx) error
	GetOrder(c fiber.Ctx) error
	ListUpcomingReleases(c fiber.Ctx) error
}

// StorefrontHandler implements StorefrontHandlerInterface
type StorefrontHandler struct {
	storefront businessflow.StorefrontFlow
	checkout   businessflow.CheckoutFlow
	coupons    businessflow.CouponFlow
	releases   businessflow.ReleaseFlow
	validator  *validator.Validate
}

func NewStorefrontHandler(
	storefront businessflow.StorefrontFlow,
	checkout businessflow.CheckoutFlow,
	coupons businessflow.CouponFlow,
	releases businessflow.ReleaseFlow,
) StorefrontHandlerInterface {
	return &StorefrontHandler{
		storefront: storefront,
		checkout:   checkout,
		coupons:    coupons,
		releases:   releases,
		validator:  validator.New(),
	}
}

// ErrorResponse standard JSON error
func (h *StorefrontHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
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
func (h *StorefrontHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func (h *StorefrontHandler) validateRequest(c fiber.Ctx, req any) error {
	if err := h.validator.Struct(req); err != nil {
		var validationErrors []string
		for _, err := range err.(validator.ValidationErrors) {
			validationErrors = append(validationErrors, getValidationErrorMessage(err))
		}
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors)
	}
	return nil
}

// ListLiveBreaks returns live breaks with per-spot pricing
// @Summary List live breaks
// @Tags Storefront
// @Router /api/v1/breaks [get]
func (h *StorefrontHandler) ListLiveBreaks(c fiber.Ctx) error {
	result, err := h.storefront.ListLiveBreaks(h.createRequestContext(c, "/api/v1/breaks"))
	if err != nil {
		log.Println("List live breaks failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "List breaks failed", "LIST_BREAKS_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Breaks retrieved", result)
}

// GetLiveBreak returns one live break with boxes and spots
// @Summary Get live break
// @Tags Storefront
// @Router /api/v1/breaks/{uuid} [get]
func (h *StorefrontHandler) GetLiveBreak(c fiber.Ctx) error {
	result, err := h.storefront.GetLiveBreak(h.createRequestContext(c, "/api/v1/breaks/:uuid"), c.Params("uuid"))
	if err != nil {
		log.Println("Get live break failed", err)
		if businessflow.IsBreakNotFound(err) || businessflow.IsBreakNotLive(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Break not found", "BREAK_NOT_FOUND", nil)
		}
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Get break failed", "GET_BREAK_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Break retrieved", result)
}

// ListCategories returns storefront categories
// @Summary List categories
// @Tags Storefront
// @Router /api/v1/categories [get]
func (h *StorefrontHandler) ListCategories(c fiber.Ctx) error {
	result, err := h.storefront.ListCategories(h.createRequestContext(c, "/api/v1/categories"))
	if err != nil {
		log.Println("List categories failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "List categories failed", "LIST_CATEGORIES_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Categories retrieved", result)
}

// ListProducts returns products, optionally filtered by category slug
// @Summary List products
// @Tags Storefront
// @Router /api/v1/products [get]
func (h *StorefrontHandler) ListProducts(c fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	pageSize, _ := strconv.Atoi(c.Query("page_size", "20"))

	result, err := h.storefront.ListProducts(h.createRequestContext(c, "/api/v1/products"), c.Query("category"), page, pageSize)
	if err != nil {
		log.Println("List products failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "List products failed", "LIST_PRODUCTS_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Products retrieved", result)
}

// ApplyCoupon previews a coupon discount against a subtotal
// @Summary Apply coupon
// @Tags Storefront
// @Router /api/v1/coupons/apply [post]
func (h *StorefrontHandler) ApplyCoupon(c fiber.Ctx) error {
	var req dto.ApplyCouponRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if err := h.validateRequest(c, &req); err != nil {
		return err
	}

	coupon, discount, err := h.coupons.Validate(h.createRequestContext(c, "/api/v1/coupons/apply"), req.Code, req.Subtotal)
	if err != nil {
		log.Println("Apply coupon failed", err)
		switch {
		case businessflow.IsCouponNotFound(err):
			return h.ErrorResponse(c, fiber.StatusNotFound, "Coupon not found", "COUPON_NOT_FOUND", nil)
		case businessflow.IsCouponExpired(err):
			return h.ErrorResponse(c, fiber.StatusUnprocessableEntity, "Coupon has expired", "COUPON_EXPIRED", nil)
		case businessflow.IsCouponExhausted(err):
			return h.ErrorResponse(c, fiber.StatusUnprocessableEntity, "Coupon redemption limit reached", "COUPON_EXHAUSTED", nil)
		default:
			return h.ErrorResponse(c, fiber.StatusUnprocessableEntity, "Coupon cannot be applied", "COUPON_NOT_APPLICABLE", nil)
		}
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Coupon applied", dto.ApplyCouponResponse{
		Code:     coupon.Code,
		Discount: utils.RoundMoney(discount),
		Total:    utils.RoundMoney(req.Subtotal - discount),
	})
}

// BeginCheckout creates a pending order and a PayPal approval URL
// @Summary Begin checkout
// @Tags Storefront
// @Router /api/v1/checkout [post]
func (h *StorefrontHandler) BeginCheckout(c fiber.Ctx) error {
	var req dto.CheckoutRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if err := h.validateRequest(c, &req); err != nil {
		return err
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	result, err := h.checkout.BeginCheckout(h.createRequestContextWithTimeout(c, "/api/v1/checkout", 60*time.Second), &req, metadata)
	if err != nil {
		log.Println("Begin checkout failed", err)
		middleware.RecordCheckout("failed")
		return h.checkoutErrorResponse(c, err)
	}

	middleware.RecordCheckout("created")
	return h.SuccessResponse(c, fiber.StatusCreated, "Checkout created", result)
}

// CaptureCheckout captures the approved PayPal payment and finalizes the order
// @Summary Capture checkout
// @Tags Storefront
// @Router /api/v1/checkout/{uuid}/capture [post]
func (h *StorefrontHandler) CaptureCheckout(c fiber.Ctx) error {
	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	result, err := h.checkout.CaptureCheckout(h.createRequestContextWithTimeout(c, "/api/v1/checkout/:uuid/capture", 60*time.Second), c.Params("uuid"), metadata)
	if err != nil {
		log.Println("Capture checkout failed", err)
		middleware.RecordCheckout("failed")
		return h.checkoutErrorResponse(c, err)
	}

	middleware.RecordCheckout("captured")
	return h.SuccessResponse(c, fiber.StatusOK, "Order completed", result)
}

// GetOrder returns a customer's order by its public UUID
// @Summary Get order
// @Tags Storefront
// @Router /api/v1/orders/{uuid} [get]
func (h *StorefrontHandler) GetOrder(c fiber.Ctx) error {
	result, err := h.checkout.GetOrder(h.createRequestContext(c, "/api/v1/orders/:uuid"), c.Params("uuid"))
	if err != nil {
		log.Println("Get order failed", err)
		if businessflow.IsOrderNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Order not found", "ORDER_NOT_FOUND", nil)
		}
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Get order failed", "GET_ORDER_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Order retrieved", result)
}

// ListUpcomingReleases returns the public release calendar
// @Summary Upcoming releases
// @Tags Storefront
// @Router /api/v1/releases [get]
func (h *StorefrontHandler) ListUpcomingReleases(c fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit", "50"))

	result, err := h.releases.ListUpcoming(h.createRequestContext(c, "/api/v1/releases"), limit)
	if err != nil {
		log.Println("List releases failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "List releases failed", "LIST_RELEASES_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Releases retrieved", result)
}

func (h *StorefrontHandler) checkoutErrorResponse(c fiber.Ctx, err error) error {
	switch {
	case businessflow.IsSpotAlreadySold(err):
		return h.ErrorResponse(c, fiber.StatusConflict, "One or more spots are already sold", "SPOT_ALREADY_SOLD", nil)
	case businessflow.IsProductOutOfStock(err):
		return h.ErrorResponse(c, fiber.StatusConflict, "One or more products are out of stock", "PRODUCT_OUT_OF_STOCK", nil)
	case businessflow.IsBreakNotLive(err):
		return h.ErrorResponse(c, fiber.StatusUnprocessableEntity, "Break is not open for purchase", "BREAK_NOT_LIVE", nil)
	case businessflow.IsCouponNotFound(err), businessflow.IsCouponExpired(err), businessflow.IsCouponExhausted(err):
		return h.ErrorResponse(c, fiber.StatusUnprocessableEntity, "Coupon cannot be applied", "COUPON_NOT_APPLICABLE", nil)
	case businessflow.IsPaymentCaptureFailed(err):
		return h.ErrorResponse(c, fiber.StatusBadGateway, "Payment could not be captured", "PAYMENT_CAPTURE_FAILED", nil)
	case businessflow.IsOrderNotFound(err):
		return h.ErrorResponse(c, fiber.StatusNotFound, "Order not found", "ORDER_NOT_FOUND", nil)
	default:
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Checkout failed", "CHECKOUT_FAILED", nil)
	}
}

func (h *StorefrontHandler) createRequestContext(c fiber.Ctx, endpoint string) context.Context {
	return h.createRequestContextWithTimeout(c, endpoint, 30*time.Second)
}

func (h *StorefrontHandler) createRequestContextWithTimeout(c fiber.Ctx, endpoint string, timeout time.Duration) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	ctx = context.WithValue(ctx, utils.RequestIDKey, c.Get("X-Request-ID"))
	ctx = context.WithValue(ctx, utils.UserAgentKey, c.Get("User-Agent"))
	ctx = context.WithValue(ctx, utils.IPAddressKey, c.IP())
	ctx = context.WithValue(ctx, utils.EndpointKey, endpoint)
	ctx = context.WithValue(ctx, utils.TimeoutKey, timeout)
	ctx = context.WithValue(ctx, utils.CancelFuncKey, cancel)
	return ctx
}
