package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/ripvault/breakroom/models"
	"gorm.io/gorm"
)

// OrderRepositoryImpl implements OrderRepository
type OrderRepositoryImpl struct {
	*BaseRepository[models.Order, models.OrderFilter]
}

// NewOrderRepository creates a new repository for orders
func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &OrderRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Order, models.OrderFilter](db),
	}
}

// ByUUID retrieves an order with its items by UUID, nil when not found.
func (r *OrderRepositoryImpl) ByUUID(ctx context.Context, uuid string) (*models.Order, error) {
	db := r.getDB(ctx)

	var o models.Order
	err := db.Preload("Items").Where("uuid = ?", uuid).First(&o).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find order by UUID %s: %w", uuid, err)
	}
	return &o, nil
}

// ByPaymentRef retrieves an order by its payment capture reference.
func (r *OrderRepositoryImpl) ByPaymentRef(ctx context.Context, paymentRef string) (*models.Order, error) {
	db := r.getDB(ctx)

	var o models.Order
	err := db.Where("payment_ref = ?", paymentRef).First(&o).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find order by payment ref %s: %w", paymentRef, err)
	}
	return &o, nil
}

// ListRecent returns orders newest first.
func (r *OrderRepositoryImpl) ListRecent(ctx context.Context, limit, offset int) ([]*models.Order, error) {
	return r.ByFilter(ctx, models.OrderFilter{}, "created_at DESC", limit, offset)
}

// applyFilter applies filter conditions to the GORM query
func (r *OrderRepositoryImpl) applyFilter(db *gorm.DB, filter models.OrderFilter) *gorm.DB {
	if filter.ID != nil {
		db = db.Where("id = ?", *filter.ID)
	}
	if filter.UUID != nil {
		db = db.Where("uuid = ?", *filter.UUID)
	}
	if filter.CustomerEmail != nil {
		db = db.Where("customer_email = ?", *filter.CustomerEmail)
	}
	if filter.Status != nil {
		db = db.Where("status = ?", *filter.Status)
	}
	if filter.CouponCode != nil {
		db = db.Where("coupon_code = ?", *filter.CouponCode)
	}
	return db
}

// ByFilter retrieves orders based on filter criteria.
func (r *OrderRepositoryImpl) ByFilter(ctx context.Context, filter models.OrderFilter, orderBy string, limit, offset int) ([]*models.Order, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Order{}), filter)

	if orderBy == "" {
		orderBy = "created_at DESC"
	}
	query = query.Order(orderBy)

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var rows []*models.Order
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Count returns the number of orders matching the filter.
func (r *OrderRepositoryImpl) Count(ctx context.Context, filter models.OrderFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Order{}), filter)

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Exists checks if any order matching the filter exists.
func (r *OrderRepositoryImpl) Exists(ctx context.Context, filter models.OrderFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// OrderItemRepositoryImpl implements OrderItemRepository
type OrderItemRepositoryImpl struct {
	*BaseRepository[models.OrderItem, models.OrderFilter]
}

// NewOrderItemRepository creates a new repository for order line items
func NewOrderItemRepository(db *gorm.DB) OrderItemRepository {
	return &OrderItemRepositoryImpl{
		BaseRepository: NewBaseRepository[models.OrderItem, models.OrderFilter](db),
	}
}

// ListByOrder returns the line items of an order, oldest first.
func (r *OrderItemRepositoryImpl) ListByOrder(ctx context.Context, orderID uint) ([]*models.OrderItem, error) {
	db := r.getDB(ctx)

	var rows []*models.OrderItem
	err := db.Model(&models.OrderItem{}).
		Where("order_id = ?", orderID).
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// ByFilter retrieves order items for an order filter (order id only).
func (r *OrderItemRepositoryImpl) ByFilter(ctx context.Context, filter models.OrderFilter, orderBy string, limit, offset int) ([]*models.OrderItem, error) {
	db := r.getDB(ctx)
	query := db.Model(&models.OrderItem{})
	if filter.ID != nil {
		query = query.Where("order_id = ?", *filter.ID)
	}

	if orderBy == "" {
		orderBy = "id ASC"
	}
	query = query.Order(orderBy)

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var rows []*models.OrderItem
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Count returns the number of order items for an order filter.
func (r *OrderItemRepositoryImpl) Count(ctx context.Context, filter models.OrderFilter) (int64, error) {
	db := r.getDB(ctx)
	query := db.Model(&models.OrderItem{})
	if filter.ID != nil {
		query = query.Where("order_id = ?", *filter.ID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Exists checks if any order item matching the filter exists.
func (r *OrderItemRepositoryImpl) Exists(ctx context.Context, filter models.OrderFilter) (bool, error) {
	count, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
