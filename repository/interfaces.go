// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"time"

	"github.com/ripvault/breakroom/models"
)

// RepositoryContext key for transaction in context
type contextKey string

const TxContextKey contextKey = "tx"

type Repository[T any, F any] interface {
	ByID(ctx context.Context, id uint) (*T, error)
	ByFilter(ctx context.Context, filter F, orderBy string, limit, offset int) ([]*T, error)
	Save(ctx context.Context, entity *T) error
	SaveBatch(ctx context.Context, entities []*T) error
	Update(ctx context.Context, entity *T) error
	Count(ctx context.Context, filter F) (int64, error)
	Exists(ctx context.Context, filter F) (bool, error)
}

// BreakRepository defines operations for breaks
type BreakRepository interface {
	Repository[models.Break, models.BreakFilter]
	ByUUID(ctx context.Context, uuid string) (*models.Break, error)
	ListByStatus(ctx context.Context, status string, limit, offset int) ([]*models.Break, error)
	Delete(ctx context.Context, id uint) error
}

// BoxRepository defines operations for break boxes
type BoxRepository interface {
	Repository[models.Box, models.BoxFilter]
	ListByBreak(ctx context.Context, breakID uint) ([]*models.Box, error)
	SumLineTotals(ctx context.Context, breakID uint) (float64, error)
	Delete(ctx context.Context, id uint) error
}

// TeamRepository defines operations for teams (weight entries)
type TeamRepository interface {
	Repository[models.Team, models.TeamFilter]
	ByUUID(ctx context.Context, uuid string) (*models.Team, error)
	ListActiveBySport(ctx context.Context, sport string) ([]*models.Team, error)
	Delete(ctx context.Context, id uint) error
}

// SpotRepository defines operations for break spots
type SpotRepository interface {
	Repository[models.Spot, models.SpotFilter]
	ListByBreak(ctx context.Context, breakID uint) ([]*models.Spot, error)
	DeleteByBreak(ctx context.Context, breakID uint) error
	CountSoldByBreak(ctx context.Context, breakID uint) (int64, error)
	MarkSold(ctx context.Context, spotID uint, orderItemID uint) error
}

// CategoryRepository defines operations for product categories
type CategoryRepository interface {
	Repository[models.Category, models.CategoryFilter]
	BySlug(ctx context.Context, slug string) (*models.Category, error)
	ListOrdered(ctx context.Context) ([]*models.Category, error)
	Delete(ctx context.Context, id uint) error
}

// ProductRepository defines operations for storefront products
type ProductRepository interface {
	Repository[models.Product, models.ProductFilter]
	ByUUID(ctx context.Context, uuid string) (*models.Product, error)
	ListActiveByCategory(ctx context.Context, categoryID uint, limit, offset int) ([]*models.Product, error)
	DecrementStock(ctx context.Context, productID uint, quantity int) error
	Delete(ctx context.Context, id uint) error
}

// CouponRepository defines operations for coupon codes
type CouponRepository interface {
	Repository[models.Coupon, models.CouponFilter]
	ByCode(ctx context.Context, code string) (*models.Coupon, error)
	IncrementRedemptions(ctx context.Context, couponID uint) error
	Delete(ctx context.Context, id uint) error
}

// OrderRepository defines operations for orders
type OrderRepository interface {
	Repository[models.Order, models.OrderFilter]
	ByUUID(ctx context.Context, uuid string) (*models.Order, error)
	ByPaymentRef(ctx context.Context, paymentRef string) (*models.Order, error)
	ListRecent(ctx context.Context, limit, offset int) ([]*models.Order, error)
}

// OrderItemRepository defines operations for order line items
type OrderItemRepository interface {
	Repository[models.OrderItem, models.OrderFilter]
	ListByOrder(ctx context.Context, orderID uint) ([]*models.OrderItem, error)
}

// ReleaseRepository defines operations for release-calendar entries
type ReleaseRepository interface {
	Repository[models.Release, models.ReleaseFilter]
	ListUpcoming(ctx context.Context, from time.Time, limit int) ([]*models.Release, error)
	Delete(ctx context.Context, id uint) error
}

// TaskRepository defines operations for back-office to-do items
type TaskRepository interface {
	Repository[models.Task, models.TaskFilter]
	ListOpen(ctx context.Context) ([]*models.Task, error)
	Delete(ctx context.Context, id uint) error
}

// AdminRepository defines operations for back-office users
type AdminRepository interface {
	Repository[models.Admin, models.AdminFilter]
	ByUsername(ctx context.Context, username string) (*models.Admin, error)
	TouchLastLogin(ctx context.Context, adminID uint, at time.Time) error
}

// AuditLogRepository defines operations for audit logs
type AuditLogRepository interface {
	Repository[models.AuditLog, models.AuditLogFilter]
	ListByAdmin(ctx context.Context, adminID uint, limit, offset int) ([]*models.AuditLog, error)
	ListByAction(ctx context.Context, action string, limit, offset int) ([]*models.AuditLog, error)
}
