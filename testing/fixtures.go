// Package testing provides test utilities and database setup for integration tests
package testing

import (
	"fmt"
	"math/rand"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/ripvault/breakroom/models"
	"github.com/ripvault/breakroom/utils"
)

// TestFixtures provides helper methods for creating test data
type TestFixtures struct {
	DB *TestDB
}

// NewTestFixtures creates a new test fixtures instance
func NewTestFixtures(db *TestDB) *TestFixtures {
	return &TestFixtures{DB: db}
}

// CreateTestTeam creates an active weight entry for a sport
func (tf *TestFixtures) CreateTestTeam(sport, name string, multiplier float64) (*models.Team, error) {
	team := &models.Team{
		UUID:       uuid.New(),
		Name:       name,
		Sport:      sport,
		Multiplier: multiplier,
		IsActive:   utils.ToPtr(true),
	}
	if err := tf.DB.DB.Create(team).Error; err != nil {
		return nil, fmt.Errorf("failed to create test team: %w", err)
	}
	return team, nil
}

// CreateTestBreak creates a draft break with the given pricing parameters
func (tf *TestFixtures) CreateTestBreak(sport string, marginPct, modifierPct float64) (*models.Break, error) {
	brk := &models.Break{
		UUID:              uuid.New(),
		Title:             fmt.Sprintf("Test Break %04d", rand.Intn(10000)),
		Sport:             sport,
		Status:            models.BreakStatusDraft,
		ProfitMarginPct:   marginPct,
		CustomModifierPct: modifierPct,
	}
	if err := tf.DB.DB.Create(brk).Error; err != nil {
		return nil, fmt.Errorf("failed to create test break: %w", err)
	}
	return brk, nil
}

// AddTestBox attaches a cost line to a break
func (tf *TestFixtures) AddTestBox(breakID uint, quantity int, unitCost float64) (*models.Box, error) {
	box := &models.Box{
		BreakID:     breakID,
		Description: "Hobby box",
		Quantity:    quantity,
		UnitCost:    unitCost,
	}
	if err := tf.DB.DB.Create(box).Error; err != nil {
		return nil, fmt.Errorf("failed to create test box: %w", err)
	}
	return box, nil
}

// CreateTestCategory creates a storefront category
func (tf *TestFixtures) CreateTestCategory(name, slug string) (*models.Category, error) {
	category := &models.Category{
		Name: name,
		Slug: slug,
	}
	if err := tf.DB.DB.Create(category).Error; err != nil {
		return nil, fmt.Errorf("failed to create test category: %w", err)
	}
	return category, nil
}

// CreateTestProduct creates an active in-stock product in a category
func (tf *TestFixtures) CreateTestProduct(categoryID uint, name string, price float64, stock int) (*models.Product, error) {
	sku := fmt.Sprintf("SKU-%06d", rand.Intn(1000000))
	product := &models.Product{
		UUID:       uuid.New(),
		CategoryID: categoryID,
		Name:       name,
		SKU:        &sku,
		Price:      price,
		Stock:      stock,
		IsActive:   utils.ToPtr(true),
	}
	if err := tf.DB.DB.Create(product).Error; err != nil {
		return nil, fmt.Errorf("failed to create test product: %w", err)
	}
	return product, nil
}

// CreateTestCoupon creates an active coupon
func (tf *TestFixtures) CreateTestCoupon(code, couponType string, amount float64) (*models.Coupon, error) {
	coupon := &models.Coupon{
		Code:     code,
		Type:     couponType,
		Amount:   amount,
		IsActive: utils.ToPtr(true),
	}
	if err := tf.DB.DB.Create(coupon).Error; err != nil {
		return nil, fmt.Errorf("failed to create test coupon: %w", err)
	}
	return coupon, nil
}

// CreateTestAdmin creates an active back-office account with the given password
func (tf *TestFixtures) CreateTestAdmin(username, password string) (*models.Admin, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	admin := &models.Admin{
		UUID:         uuid.New(),
		Username:     username,
		DisplayName:  "Test Admin",
		PasswordHash: string(hash),
		IsActive:     utils.ToPtr(true),
	}
	if err := tf.DB.DB.Create(admin).Error; err != nil {
		return nil, fmt.Errorf("failed to create test admin: %w", err)
	}
	return admin, nil
}
