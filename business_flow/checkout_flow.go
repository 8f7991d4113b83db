package businessflow

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/ripvault/breakroom/app/dto"
	"github.com/ripvault/breakroom/app/services"
	"github.com/ripvault/breakroom/config"
	"github.com/ripvault/breakroom/models"
	"github.com/ripvault/breakroom/repository"
	"github.com/ripvault/breakroom/utils"
	"gorm.io/gorm"
)

// CheckoutSession is the fully resolved state of one checkout request: every
// cart line priced from the database, the coupon validated, totals computed.
// It is built per request and passed explicitly; no checkout state lives
// outside it.
type CheckoutSession struct {
	Lines    []CheckoutLine
	Subtotal float64
	Coupon   *models.Coupon
	Discount float64
	Total    float64
}

// CheckoutLine is one resolved cart line.
type CheckoutLine struct {
	Kind        string
	ProductID   *uint
	SpotID      *uint
	Description string
	Quantity    int
	UnitPrice   float64
	LineTotal   float64
}

// CheckoutFlow runs the storefront purchase path
type CheckoutFlow interface {
	BeginCheckout(ctx context.Context, req *dto.CheckoutRequest, metadata *ClientMetadata) (*dto.CheckoutResponse, error)
	CaptureCheckout(ctx context.Context, orderUUID string, metadata *ClientMetadata) (*dto.OrderDTO, error)
	GetOrder(ctx context.Context, orderUUID string) (*dto.OrderDTO, error)
}

// CheckoutFlowImpl implements the checkout business flow
type CheckoutFlowImpl struct {
	orderRepo     repository.OrderRepository
	orderItemRepo repository.OrderItemRepository
	productRepo   repository.ProductRepository
	spotRepo      repository.SpotRepository
	breakRepo     repository.BreakRepository
	couponRepo    repository.CouponRepository
	couponFlow    CouponFlow
	auditRepo     repository.AuditLogRepository
	notifier      services.NotificationService
	db            *gorm.DB

	paypalCfg config.PayPalConfig
}

// NewCheckoutFlow creates a new checkout flow instance
func NewCheckoutFlow(
	orderRepo repository.OrderRepository,
	orderItemRepo repository.OrderItemRepository,
	productRepo repository.ProductRepository,
	spotRepo repository.SpotRepository,
	breakRepo repository.BreakRepository,
	couponRepo repository.CouponRepository,
	couponFlow CouponFlow,
	auditRepo repository.AuditLogRepository,
	notifier services.NotificationService,
	db *gorm.DB,
	paypalCfg config.PayPalConfig,
) CheckoutFlow {
	return &CheckoutFlowImpl{
		orderRepo:     orderRepo,
		orderItemRepo: orderItemRepo,
		productRepo:   productRepo,
		spotRepo:      spotRepo,
		breakRepo:     breakRepo,
		couponRepo:    couponRepo,
		couponFlow:    couponFlow,
		auditRepo:     auditRepo,
		notifier:      notifier,
		db:            db,
		paypalCfg:     paypalCfg,
	}
}

// buildSession resolves cart lines against current prices and validates the
// coupon. All prices come from the database, never from the client.
func (f *CheckoutFlowImpl) buildSession(ctx context.Context, req *dto.CheckoutRequest) (CheckoutSession, error) {
	session := CheckoutSession{}
	if len(req.Items) == 0 {
		return session, ErrCartEmpty
	}

	for _, item := range req.Items {
		switch item.Kind {
		case models.OrderItemKindProduct:
			if item.ProductUUID == "" || item.Quantity <= 0 {
				return session, ErrCartItemInvalid
			}
			product, err := f.productRepo.ByUUID(ctx, item.ProductUUID)
			if err != nil {
				return session, err
			}
			if product == nil {
				return session, ErrProductNotFound
			}
			if !utils.IsTrue(product.IsActive) {
				return session, ErrProductInactive
			}
			if product.Stock < item.Quantity {
				return session, ErrProductOutOfStock
			}
			line := CheckoutLine{
				Kind:        models.OrderItemKindProduct,
				ProductID:   utils.ToPtr(product.ID),
				Description: product.Name,
				Quantity:    item.Quantity,
				UnitPrice:   product.Price,
				LineTotal:   utils.RoundMoney(product.Price * float64(item.Quantity)),
			}
			session.Lines = append(session.Lines, line)
			session.Subtotal += line.LineTotal

		case models.OrderItemKindSpot:
			if item.SpotID == 0 {
				return session, ErrCartItemInvalid
			}
			spot, err := f.spotRepo.ByID(ctx, item.SpotID)
			if err != nil {
				return session, err
			}
			if spot == nil {
				return session, ErrSpotNotFound
			}
			if utils.IsTrue(spot.Sold) {
				return session, ErrSpotAlreadySold
			}
			brk, err := f.breakRepo.ByID(ctx, spot.BreakID)
			if err != nil {
				return session, err
			}
			if brk == nil || brk.Status != models.BreakStatusLive {
				return session, ErrBreakNotLive
			}
			line := CheckoutLine{
				Kind:        models.OrderItemKindSpot,
				SpotID:      utils.ToPtr(spot.ID),
				Description: fmt.Sprintf("%s - spot %d", brk.Title, spot.ID),
				Quantity:    1,
				UnitPrice:   spot.Price,
				LineTotal:   utils.RoundMoney(spot.Price),
			}
			session.Lines = append(session.Lines, line)
			session.Subtotal += line.LineTotal

		default:
			return session, ErrCartItemInvalid
		}
	}

	session.Subtotal = utils.RoundMoney(session.Subtotal)

	if req.CouponCode != "" {
		coupon, discount, err := f.couponFlow.Validate(ctx, req.CouponCode, session.Subtotal)
		if err != nil {
			return session, err
		}
		session.Coupon = coupon
		session.Discount = discount
	}

	session.Total = utils.RoundMoney(session.Subtotal - session.Discount)
	return session, nil
}

// BeginCheckout prices the cart, records a pending order and opens a PayPal
// order for approval. Nothing is sold or decremented until capture succeeds.
func (f *CheckoutFlowImpl) BeginCheckout(ctx context.Context, req *dto.CheckoutRequest, metadata *ClientMetadata) (*dto.CheckoutResponse, error) {
	session, err := f.buildSession(ctx, req)
	if err != nil {
		return nil, NewBusinessError("CHECKOUT_FAILED", "Checkout failed", err)
	}

	order := &models.Order{
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		ShippingLine1: req.ShippingLine1,
		ShippingLine2: req.ShippingLine2,
		ShippingCity:  req.ShippingCity,
		ShippingState: req.ShippingState,
		ShippingZip:   req.ShippingZip,
		Subtotal:      session.Subtotal,
		Discount:      session.Discount,
		Total:         session.Total,
		Status:        models.OrderStatusPending,
		StatusReason:  "awaiting payment approval",
		PaymentMethod: req.PaymentMethod,
		CreatedAt:     utils.UTCNow(),
		UpdatedAt:     utils.UTCNow(),
	}
	if session.Coupon != nil {
		order.CouponCode = utils.ToPtr(session.Coupon.Code)
	}

	err = repository.WithTransaction(ctx, f.db, func(txCtx context.Context) error {
		if err := f.orderRepo.Save(txCtx, order); err != nil {
			return err
		}
		items := make([]*models.OrderItem, 0, len(session.Lines))
		for _, line := range session.Lines {
			items = append(items, &models.OrderItem{
				OrderID:     order.ID,
				Kind:        line.Kind,
				ProductID:   line.ProductID,
				SpotID:      line.SpotID,
				Description: line.Description,
				Quantity:    line.Quantity,
				UnitPrice:   line.UnitPrice,
				LineTotal:   line.LineTotal,
				CreatedAt:   utils.UTCNow(),
			})
		}
		return f.orderItemRepo.SaveBatch(txCtx, items)
	})
	if err != nil {
		return nil, NewBusinessError("CHECKOUT_FAILED", "Failed to record order", err)
	}

	paypalOrderID, approvalURL, err := f.callPayPalCreateOrder(ctx, order)
	if err != nil {
		errMsg := fmt.Sprintf("PayPal order creation failed for order %s: %s", order.UUID, err.Error())
		_ = createAuditLog(ctx, f.auditRepo, nil, models.AuditActionCheckoutFailed, errMsg, false, &errMsg, metadata)

		order.Status = models.OrderStatusFailed
		order.StatusReason = "payment gateway rejected order creation"
		order.UpdatedAt = utils.UTCNow()
		_ = f.orderRepo.Update(ctx, order)

		return nil, NewBusinessError("CHECKOUT_FAILED", "Failed to open payment", err)
	}

	order.PaymentRef = utils.ToPtr(paypalOrderID)
	order.UpdatedAt = utils.UTCNow()
	if err := f.orderRepo.Update(ctx, order); err != nil {
		return nil, NewBusinessError("CHECKOUT_FAILED", "Failed to record payment reference", err)
	}

	return &dto.CheckoutResponse{
		OrderUUID:     order.UUID.String(),
		PayPalOrderID: paypalOrderID,
		ApprovalURL:   approvalURL,
		Subtotal:      session.Subtotal,
		Discount:      session.Discount,
		Total:         session.Total,
	}, nil
}

// CaptureCheckout captures the approved PayPal order and finalizes the sale:
// spots are marked sold, product stock decremented and the coupon redemption
// counted, all in one transaction. A failed capture marks the order failed.
func (f *CheckoutFlowImpl) CaptureCheckout(ctx context.Context, orderUUID string, metadata *ClientMetadata) (*dto.OrderDTO, error) {
	order, err := f.orderRepo.ByUUID(ctx, orderUUID)
	if err != nil {
		return nil, NewBusinessError("CAPTURE_FAILED", "Capture failed", err)
	}
	if order == nil {
		return nil, NewBusinessError("CAPTURE_FAILED", "Capture failed", ErrOrderNotFound)
	}
	if order.Status != models.OrderStatusPending || order.PaymentRef == nil {
		return nil, NewBusinessError("CAPTURE_FAILED", "Capture failed", ErrOrderNotFound)
	}

	captureRef, err := f.callPayPalCaptureOrder(ctx, *order.PaymentRef)
	if err != nil {
		errMsg := fmt.Sprintf("Payment capture failed for order %s: %s", order.UUID, err.Error())
		_ = createAuditLog(ctx, f.auditRepo, nil, models.AuditActionCheckoutFailed, errMsg, false, &errMsg, metadata)

		order.Status = models.OrderStatusFailed
		order.StatusReason = "payment capture failed"
		order.UpdatedAt = utils.UTCNow()
		_ = f.orderRepo.Update(ctx, order)

		return nil, NewBusinessError("CAPTURE_FAILED", "Payment capture failed", ErrPaymentCaptureFailed)
	}

	items, err := f.orderItemRepo.ListByOrder(ctx, order.ID)
	if err != nil {
		return nil, NewBusinessError("CAPTURE_FAILED", "Capture failed", err)
	}

	err = repository.WithTransaction(ctx, f.db, func(txCtx context.Context) error {
		for _, item := range items {
			switch item.Kind {
			case models.OrderItemKindSpot:
				if err := f.spotRepo.MarkSold(txCtx, *item.SpotID, item.ID); err != nil {
					if errors.Is(err, repository.ErrSpotAlreadySold) {
						return ErrSpotAlreadySold
					}
					return err
				}
			case models.OrderItemKindProduct:
				if err := f.productRepo.DecrementStock(txCtx, *item.ProductID, item.Quantity); err != nil {
					if errors.Is(err, repository.ErrInsufficientStock) {
						return ErrProductOutOfStock
					}
					return err
				}
			default:
				return ErrCartItemInvalid
			}
		}

		if order.CouponCode != nil {
			coupon, err := f.couponRepo.ByCode(txCtx, *order.CouponCode)
			if err != nil {
				return err
			}
			if coupon != nil {
				if err := f.couponRepo.IncrementRedemptions(txCtx, coupon.ID); err != nil {
					return err
				}
			}
		}

		order.Status = models.OrderStatusPaid
		order.StatusReason = fmt.Sprintf("captured as %s", captureRef)
		order.PaidAt = utils.UTCNowPtr()
		order.UpdatedAt = utils.UTCNow()
		return f.orderRepo.Update(txCtx, order)
	})
	if err != nil {
		errMsg := fmt.Sprintf("Order finalization failed for order %s: %s", order.UUID, err.Error())
		_ = createAuditLog(ctx, f.auditRepo, nil, models.AuditActionCheckoutFailed, errMsg, false, &errMsg, metadata)

		return nil, NewBusinessError("CAPTURE_FAILED", "Failed to finalize order", err)
	}

	desc := fmt.Sprintf("Order %s paid: %.2f %s", order.UUID, order.Total, utils.USDCurrency)
	_ = createAuditLog(ctx, f.auditRepo, nil, models.AuditActionCheckoutCompleted, desc, true, nil, metadata)
	if order.CouponCode != nil {
		couponDesc := fmt.Sprintf("Coupon %s redeemed on order %s", *order.CouponCode, order.UUID)
		_ = createAuditLog(ctx, f.auditRepo, nil, models.AuditActionCouponRedeemed, couponDesc, true, nil, metadata)
	}

	if f.notifier != nil {
		subject := "Your Breakroom order is confirmed"
		body := fmt.Sprintf("Hi %s,\n\nOrder %s is confirmed. Total charged: $%.2f.\n\nThanks for ripping with us!", order.CustomerName, order.UUID, order.Total)
		_ = f.notifier.SendEmail(order.CustomerEmail, subject, body)
	}

	orderDTO := ToOrderDTO(*order, items)
	return &orderDTO, nil
}

// GetOrder returns an order with its items.
func (f *CheckoutFlowImpl) GetOrder(ctx context.Context, orderUUID string) (*dto.OrderDTO, error) {
	order, err := f.orderRepo.ByUUID(ctx, orderUUID)
	if err != nil {
		return nil, NewBusinessError("GET_ORDER_FAILED", "Get order failed", err)
	}
	if order == nil {
		return nil, NewBusinessError("GET_ORDER_FAILED", "Get order failed", ErrOrderNotFound)
	}

	items, err := f.orderItemRepo.ListByOrder(ctx, order.ID)
	if err != nil {
		return nil, NewBusinessError("GET_ORDER_FAILED", "Get order failed", err)
	}

	orderDTO := ToOrderDTO(*order, items)
	return &orderDTO, nil
}

// paypalHTTPClient builds a client bound to the configured PayPal timeout.
func (f *CheckoutFlowImpl) paypalHTTPClient() *http.Client {
	timeout := f.paypalCfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &http.Client{Timeout: timeout}
}

// callPayPalCreateOrder opens a PayPal order for the given amount and returns
// the PayPal order id and the buyer approval link.
func (f *CheckoutFlowImpl) callPayPalCreateOrder(ctx context.Context, order *models.Order) (string, string, error) {
	token, err := f.callPayPalOAuth(ctx)
	if err != nil {
		return "", "", err
	}

	payload := map[string]any{
		"intent": "CAPTURE",
		"purchase_units": []map[string]any{
			{
				"reference_id": order.UUID.String(),
				"amount": map[string]any{
					"currency_code": utils.USDCurrency,
					"value":         fmt.Sprintf("%.2f", order.Total),
				},
			},
		},
		"application_context": map[string]any{
			"brand_name": f.paypalCfg.BrandName,
			"return_url": f.paypalCfg.ReturnURL,
			"cancel_url": f.paypalCfg.CancelURL,
		},
	}
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return "", "", err
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", f.paypalCfg.BaseURL+"/v2/checkout/orders", bytes.NewReader(payloadBytes))
	if err != nil {
		return "", "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+token)

	client := f.paypalHTTPClient()
	resp, err := client.Do(httpReq)
	if err != nil {
		return "", "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", "", fmt.Errorf("paypal create order returned status %d", resp.StatusCode)
	}

	var createResponse struct {
		ID     string `json:"id"`
		Status string `json:"status"`
		Links  []struct {
			Href string `json:"href"`
			Rel  string `json:"rel"`
		} `json:"links"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&createResponse); err != nil {
		return "", "", err
	}
	if createResponse.ID == "" {
		return "", "", fmt.Errorf("paypal create order returned empty id")
	}

	approvalURL := ""
	for _, link := range createResponse.Links {
		if link.Rel == "approve" {
			approvalURL = link.Href
		}
	}
	return createResponse.ID, approvalURL, nil
}

// callPayPalCaptureOrder captures an approved PayPal order and returns the
// capture id.
func (f *CheckoutFlowImpl) callPayPalCaptureOrder(ctx context.Context, paypalOrderID string) (string, error) {
	token, err := f.callPayPalOAuth(ctx)
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/v2/checkout/orders/%s/capture", f.paypalCfg.BaseURL, paypalOrderID)
	httpReq, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader([]byte("{}")))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+token)

	client := f.paypalHTTPClient()
	resp, err := client.Do(httpReq)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("paypal capture returned status %d", resp.StatusCode)
	}

	var captureResponse struct {
		ID            string `json:"id"`
		Status        string `json:"status"`
		PurchaseUnits []struct {
			Payments struct {
				Captures []struct {
					ID     string `json:"id"`
					Status string `json:"status"`
				} `json:"captures"`
			} `json:"payments"`
		} `json:"purchase_units"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&captureResponse); err != nil {
		return "", err
	}
	if captureResponse.Status != "COMPLETED" {
		return "", fmt.Errorf("paypal capture status: %s", captureResponse.Status)
	}

	for _, pu := range captureResponse.PurchaseUnits {
		for _, capture := range pu.Payments.Captures {
			if capture.Status == "COMPLETED" {
				return capture.ID, nil
			}
		}
	}
	return captureResponse.ID, nil
}

// callPayPalOAuth exchanges client credentials for an access token.
func (f *CheckoutFlowImpl) callPayPalOAuth(ctx context.Context) (string, error) {
	httpReq, err := http.NewRequestWithContext(ctx, "POST", f.paypalCfg.BaseURL+"/v1/oauth2/token", bytes.NewReader([]byte("grant_type=client_credentials")))
	if err != nil {
		return "", err
	}
	httpReq.SetBasicAuth(f.paypalCfg.ClientID, f.paypalCfg.Secret)
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	client := f.paypalHTTPClient()
	resp, err := client.Do(httpReq)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("paypal oauth returned status %d", resp.StatusCode)
	}

	var tokenResponse struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tokenResponse); err != nil {
		return "", err
	}
	if tokenResponse.AccessToken == "" {
		return "", fmt.Errorf("paypal oauth returned empty access token")
	}
	return tokenResponse.AccessToken, nil
}

// ToOrderDTO converts an order and its items to the response DTO.
func ToOrderDTO(order models.Order, items []*models.OrderItem) dto.OrderDTO {
	d := dto.OrderDTO{
		UUID:          order.UUID.String(),
		CustomerName:  order.CustomerName,
		CustomerEmail: order.CustomerEmail,
		Subtotal:      utils.RoundMoney(order.Subtotal),
		Discount:      utils.RoundMoney(order.Discount),
		Total:         utils.RoundMoney(order.Total),
		Status:        order.Status,
		PaymentMethod: order.PaymentMethod,
		PaidAt:        formatTimePtr(order.PaidAt),
		CreatedAt:     order.CreatedAt.Format(time.RFC3339),
	}
	if order.CouponCode != nil {
		d.CouponCode = *order.CouponCode
	}
	if order.PaymentRef != nil {
		d.PaymentRef = *order.PaymentRef
	}
	for _, item := range items {
		d.Items = append(d.Items, dto.OrderItemDTO{
			Kind:        item.Kind,
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   utils.RoundMoney(item.UnitPrice),
			LineTotal:   utils.RoundMoney(item.LineTotal),
		})
	}
	return d
}
