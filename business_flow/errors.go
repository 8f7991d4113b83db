// Package businessflow contains the business logic for the break shop.
package businessflow

import (
	"errors"
	"fmt"
)

// Business flow error constants
var (
	// Break-related errors
	ErrBreakNotFound       = errors.New("break not found")
	ErrBreakTitleRequired  = errors.New("break title is required")
	ErrBreakSportInvalid   = errors.New("break sport is invalid")
	ErrBreakStatusInvalid  = errors.New("break status is invalid")
	ErrBreakHasSoldSpots   = errors.New("break has sold spots")
	ErrBoxNotFound         = errors.New("box not found")
	ErrBoxQuantityInvalid  = errors.New("box quantity must be positive")
	ErrBoxUnitCostInvalid  = errors.New("box unit cost must not be negative")

	// Team-related errors
	ErrTeamNotFound          = errors.New("team not found")
	ErrTeamNameRequired      = errors.New("team name is required")
	ErrTeamSportInvalid      = errors.New("team sport is invalid")
	ErrTeamMultiplierInvalid = errors.New("team multiplier must be between 0 and 5")
	ErrTeamAlreadyExists     = errors.New("team already exists for this sport")

	// Catalog errors
	ErrCategoryNotFound     = errors.New("category not found")
	ErrCategorySlugRequired = errors.New("category slug is required")
	ErrCategorySlugTaken    = errors.New("category slug already in use")
	ErrProductNotFound      = errors.New("product not found")
	ErrProductNameRequired  = errors.New("product name is required")
	ErrProductPriceInvalid  = errors.New("product price must not be negative")

	// Coupon errors
	ErrCouponNotFound      = errors.New("coupon not found")
	ErrCouponCodeRequired  = errors.New("coupon code is required")
	ErrCouponCodeTaken     = errors.New("coupon code already in use")
	ErrCouponTypeInvalid   = errors.New("coupon type must be percent or fixed")
	ErrCouponAmountInvalid = errors.New("coupon amount is invalid")
	ErrCouponInactive      = errors.New("coupon is inactive")
	ErrCouponExpired       = errors.New("coupon has expired")
	ErrCouponExhausted     = errors.New("coupon redemption limit reached")
	ErrCouponMinSubtotal   = errors.New("cart subtotal below coupon minimum")

	// Checkout errors
	ErrCartEmpty             = errors.New("cart is empty")
	ErrCartItemInvalid       = errors.New("cart item is invalid")
	ErrSpotNotFound          = errors.New("spot not found")
	ErrSpotAlreadySold       = errors.New("spot is already sold")
	ErrBreakNotLive          = errors.New("break is not live")
	ErrProductInactive       = errors.New("product is not available")
	ErrProductOutOfStock     = errors.New("product is out of stock")
	ErrPaymentCaptureFailed  = errors.New("payment capture failed")
	ErrOrderNotFound         = errors.New("order not found")

	// Admin auth errors
	ErrAdminNotFound       = errors.New("admin not found")
	ErrAdminInactive       = errors.New("admin account is inactive")
	ErrIncorrectPassword   = errors.New("incorrect password")
	ErrInvalidCaptcha      = errors.New("captcha validation failed")
	ErrCaptchaNotAvailable = errors.New("captcha service not available")

	// Release/task errors
	ErrReleaseNotFound = errors.New("release not found")
	ErrTaskNotFound    = errors.New("task not found")

	// Filter errors
	ErrInvalidPage     = errors.New("page must be at least 1")
	ErrInvalidPageSize = errors.New("page size must be between 1 and 100")
)

type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func NewBusinessErrorf(code, message string, err error, args ...any) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: fmt.Sprintf(message, args...),
		Err:     err,
	}
}

func IsBreakNotFound(err error) bool {
	return errors.Is(err, ErrBreakNotFound)
}

func IsBreakHasSoldSpots(err error) bool {
	return errors.Is(err, ErrBreakHasSoldSpots)
}

func IsBreakStatusInvalid(err error) bool {
	return errors.Is(err, ErrBreakStatusInvalid)
}

func IsTeamNotFound(err error) bool {
	return errors.Is(err, ErrTeamNotFound)
}

func IsTeamMultiplierInvalid(err error) bool {
	return errors.Is(err, ErrTeamMultiplierInvalid)
}

func IsCouponNotFound(err error) bool {
	return errors.Is(err, ErrCouponNotFound)
}

func IsCouponCodeTaken(err error) bool {
	return errors.Is(err, ErrCouponCodeTaken)
}

func IsCouponExpired(err error) bool {
	return errors.Is(err, ErrCouponExpired)
}

func IsCouponExhausted(err error) bool {
	return errors.Is(err, ErrCouponExhausted)
}

func IsSpotAlreadySold(err error) bool {
	return errors.Is(err, ErrSpotAlreadySold)
}

func IsProductOutOfStock(err error) bool {
	return errors.Is(err, ErrProductOutOfStock)
}

func IsPaymentCaptureFailed(err error) bool {
	return errors.Is(err, ErrPaymentCaptureFailed)
}

func IsAdminNotFound(err error) bool {
	return errors.Is(err, ErrAdminNotFound)
}

func IsAdminInactive(err error) bool {
	return errors.Is(err, ErrAdminInactive)
}

func IsIncorrectPassword(err error) bool {
	return errors.Is(err, ErrIncorrectPassword)
}

func IsInvalidCaptcha(err error) bool {
	return errors.Is(err, ErrInvalidCaptcha)
}

func IsOrderNotFound(err error) bool {
	return errors.Is(err, ErrOrderNotFound)
}

func IsBreakNotLive(err error) bool {
	return errors.Is(err, ErrBreakNotLive)
}

func IsReleaseNotFound(err error) bool {
	return errors.Is(err, ErrReleaseNotFound)
}

func IsTaskNotFound(err error) bool {
	return errors.Is(err, ErrTaskNotFound)
}
