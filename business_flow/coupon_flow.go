package businessflow

import (
	"context"
	"fmt"
	"strings"

	"github.com/ripvault/breakroom/app/dto"
	"github.com/ripvault/breakroom/models"
	"github.com/ripvault/breakroom/repository"
	"github.com/ripvault/breakroom/utils"
)

// CouponFlow manages coupon codes and checks their eligibility
type CouponFlow interface {
	CreateCoupon(ctx context.Context, req *dto.CreateCouponRequest, metadata *ClientMetadata) (*dto.CouponDTO, error)
	ListCoupons(ctx context.Context) ([]dto.CouponDTO, error)
	DeleteCoupon(ctx context.Context, code string, metadata *ClientMetadata) error
	Validate(ctx context.Context, code string, subtotal float64) (*models.Coupon, float64, error)
}

// CouponFlowImpl implements the coupon management flow
type CouponFlowImpl struct {
	couponRepo repository.CouponRepository
	auditRepo  repository.AuditLogRepository
}

// NewCouponFlow creates a new coupon flow instance
func NewCouponFlow(couponRepo repository.CouponRepository, auditRepo repository.AuditLogRepository) CouponFlow {
	return &CouponFlowImpl{
		couponRepo: couponRepo,
		auditRepo:  auditRepo,
	}
}

// CreateCoupon adds a new coupon code. Codes are stored uppercase.
func (f *CouponFlowImpl) CreateCoupon(ctx context.Context, req *dto.CreateCouponRequest, metadata *ClientMetadata) (*dto.CouponDTO, error) {
	code := strings.ToUpper(strings.TrimSpace(req.Code))
	if code == "" {
		return nil, NewBusinessError("CREATE_COUPON_FAILED", "Create coupon failed", ErrCouponCodeRequired)
	}
	if req.Type != models.CouponTypePercent && req.Type != models.CouponTypeFixed {
		return nil, NewBusinessError("CREATE_COUPON_FAILED", "Create coupon failed", ErrCouponTypeInvalid)
	}
	if req.Amount <= 0 || (req.Type == models.CouponTypePercent && req.Amount > 100) {
		return nil, NewBusinessError("CREATE_COUPON_FAILED", "Create coupon failed", ErrCouponAmountInvalid)
	}

	existing, err := f.couponRepo.ByCode(ctx, code)
	if err != nil {
		return nil, NewBusinessError("CREATE_COUPON_FAILED", "Create coupon failed", err)
	}
	if existing != nil {
		return nil, NewBusinessError("CREATE_COUPON_FAILED", "Create coupon failed", ErrCouponCodeTaken)
	}

	coupon := &models.Coupon{
		Code:           code,
		Type:           req.Type,
		Amount:         req.Amount,
		MinSubtotal:    req.MinSubtotal,
		MaxRedemptions: req.MaxRedemptions,
		ExpiresAt:      req.ExpiresAt,
		IsActive:       utils.ToPtr(true),
		CreatedAt:      utils.UTCNow(),
		UpdatedAt:      utils.UTCNow(),
	}
	if err := f.couponRepo.Save(ctx, coupon); err != nil {
		return nil, NewBusinessError("CREATE_COUPON_FAILED", "Failed to create coupon", err)
	}

	couponDTO := ToCouponDTO(*coupon)
	return &couponDTO, nil
}

// ListCoupons returns all coupons.
func (f *CouponFlowImpl) ListCoupons(ctx context.Context) ([]dto.CouponDTO, error) {
	coupons, err := f.couponRepo.ByFilter(ctx, models.CouponFilter{}, "created_at DESC", 0, 0)
	if err != nil {
		return nil, NewBusinessError("LIST_COUPONS_FAILED", "Failed to list coupons", err)
	}

	out := make([]dto.CouponDTO, 0, len(coupons))
	for _, c := range coupons {
		out = append(out, ToCouponDTO(*c))
	}
	return out, nil
}

// DeleteCoupon soft-deletes a coupon by code.
func (f *CouponFlowImpl) DeleteCoupon(ctx context.Context, code string, metadata *ClientMetadata) error {
	coupon, err := f.couponRepo.ByCode(ctx, strings.ToUpper(code))
	if err != nil {
		return NewBusinessError("DELETE_COUPON_FAILED", "Delete coupon failed", err)
	}
	if coupon == nil {
		return NewBusinessError("DELETE_COUPON_FAILED", "Delete coupon failed", ErrCouponNotFound)
	}
	if err := f.couponRepo.Delete(ctx, coupon.ID); err != nil {
		return NewBusinessError("DELETE_COUPON_FAILED", "Failed to delete coupon", err)
	}
	return nil
}

// Validate checks a coupon's eligibility against a cart subtotal and returns
// the coupon with the discount it grants. Redemption is counted at checkout,
// not here.
func (f *CouponFlowImpl) Validate(ctx context.Context, code string, subtotal float64) (*models.Coupon, float64, error) {
	coupon, err := f.couponRepo.ByCode(ctx, strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		return nil, 0, err
	}
	if coupon == nil {
		return nil, 0, ErrCouponNotFound
	}
	if !utils.IsTrue(coupon.IsActive) {
		return nil, 0, ErrCouponInactive
	}
	if utils.IsExpiredPtr(coupon.ExpiresAt) {
		return nil, 0, ErrCouponExpired
	}
	if coupon.MaxRedemptions != nil && coupon.Redemptions >= *coupon.MaxRedemptions {
		return nil, 0, ErrCouponExhausted
	}
	if subtotal < coupon.MinSubtotal {
		return nil, 0, fmt.Errorf("%w: minimum is %.2f", ErrCouponMinSubtotal, coupon.MinSubtotal)
	}

	return coupon, utils.RoundMoney(coupon.DiscountAmount(subtotal)), nil
}

// ToCouponDTO converts a coupon model to its response DTO.
func ToCouponDTO(c models.Coupon) dto.CouponDTO {
	d := dto.CouponDTO{
		Code:        c.Code,
		Type:        c.Type,
		Amount:      c.Amount,
		MinSubtotal: c.MinSubtotal,
		Redemptions: c.Redemptions,
		IsActive:    utils.IsTrue(c.IsActive),
		ExpiresAt:   formatTimePtr(c.ExpiresAt),
	}
	if c.MaxRedemptions != nil {
		d.MaxRedemptions = *c.MaxRedemptions
	}
	return d
}
