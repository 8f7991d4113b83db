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

// CatalogFlow manages product categories and products
type CatalogFlow interface {
	CreateCategory(ctx context.Context, req *dto.CreateCategoryRequest, metadata *ClientMetadata) (*dto.CategoryDTO, error)
	ListCategories(ctx context.Context) ([]dto.CategoryDTO, error)
	DeleteCategory(ctx context.Context, categoryID uint, metadata *ClientMetadata) error

	CreateProduct(ctx context.Context, req *dto.CreateProductRequest, metadata *ClientMetadata) (*dto.ProductDTO, error)
	UpdateProduct(ctx context.Context, productUUID string, req *dto.UpdateProductRequest, metadata *ClientMetadata) (*dto.ProductDTO, error)
	ListProducts(ctx context.Context, categorySlug string, page, pageSize int) ([]dto.ProductDTO, error)
	DeleteProduct(ctx context.Context, productUUID string, metadata *ClientMetadata) error
}

// CatalogFlowImpl implements the catalog management flow
type CatalogFlowImpl struct {
	categoryRepo repository.CategoryRepository
	productRepo  repository.ProductRepository
	auditRepo    repository.AuditLogRepository
}

// NewCatalogFlow creates a new catalog flow instance
func NewCatalogFlow(
	categoryRepo repository.CategoryRepository,
	productRepo repository.ProductRepository,
	auditRepo repository.AuditLogRepository,
) CatalogFlow {
	return &CatalogFlowImpl{
		categoryRepo: categoryRepo,
		productRepo:  productRepo,
		auditRepo:    auditRepo,
	}
}

// CreateCategory adds a storefront category. Slugs are lowercased and unique.
func (f *CatalogFlowImpl) CreateCategory(ctx context.Context, req *dto.CreateCategoryRequest, metadata *ClientMetadata) (*dto.CategoryDTO, error) {
	slug := strings.ToLower(strings.TrimSpace(req.Slug))
	if slug == "" {
		return nil, NewBusinessError("CREATE_CATEGORY_FAILED", "Create category failed", ErrCategorySlugRequired)
	}

	existing, err := f.categoryRepo.BySlug(ctx, slug)
	if err != nil {
		return nil, NewBusinessError("CREATE_CATEGORY_FAILED", "Create category failed", err)
	}
	if existing != nil {
		return nil, NewBusinessError("CREATE_CATEGORY_FAILED", "Create category failed", ErrCategorySlugTaken)
	}

	category := &models.Category{
		Name:      req.Name,
		Slug:      slug,
		Position:  req.Position,
		CreatedAt: utils.UTCNow(),
		UpdatedAt: utils.UTCNow(),
	}
	if err := f.categoryRepo.Save(ctx, category); err != nil {
		return nil, NewBusinessError("CREATE_CATEGORY_FAILED", "Failed to create category", err)
	}

	categoryDTO := ToCategoryDTO(*category)
	return &categoryDTO, nil
}

// ListCategories returns all categories in display order.
func (f *CatalogFlowImpl) ListCategories(ctx context.Context) ([]dto.CategoryDTO, error) {
	categories, err := f.categoryRepo.ListOrdered(ctx)
	if err != nil {
		return nil, NewBusinessError("LIST_CATEGORIES_FAILED", "Failed to list categories", err)
	}

	out := make([]dto.CategoryDTO, 0, len(categories))
	for _, c := range categories {
		out = append(out, ToCategoryDTO(*c))
	}
	return out, nil
}

// DeleteCategory soft-deletes a category.
func (f *CatalogFlowImpl) DeleteCategory(ctx context.Context, categoryID uint, metadata *ClientMetadata) error {
	category, err := f.categoryRepo.ByID(ctx, categoryID)
	if err != nil {
		return NewBusinessError("DELETE_CATEGORY_FAILED", "Delete category failed", err)
	}
	if category == nil {
		return NewBusinessError("DELETE_CATEGORY_FAILED", "Delete category failed", ErrCategoryNotFound)
	}
	if err := f.categoryRepo.Delete(ctx, category.ID); err != nil {
		return NewBusinessError("DELETE_CATEGORY_FAILED", "Failed to delete category", err)
	}
	return nil
}

// CreateProduct adds a product to a category.
func (f *CatalogFlowImpl) CreateProduct(ctx context.Context, req *dto.CreateProductRequest, metadata *ClientMetadata) (*dto.ProductDTO, error) {
	if req.Name == "" {
		return nil, NewBusinessError("CREATE_PRODUCT_FAILED", "Create product failed", ErrProductNameRequired)
	}
	if req.Price < 0 {
		return nil, NewBusinessError("CREATE_PRODUCT_FAILED", "Create product failed", ErrProductPriceInvalid)
	}

	category, err := f.categoryRepo.ByID(ctx, req.CategoryID)
	if err != nil {
		return nil, NewBusinessError("CREATE_PRODUCT_FAILED", "Create product failed", err)
	}
	if category == nil {
		return nil, NewBusinessError("CREATE_PRODUCT_FAILED", "Create product failed", ErrCategoryNotFound)
	}

	product := &models.Product{
		CategoryID:  category.ID,
		Name:        req.Name,
		Description: req.Description,
		SKU:         req.SKU,
		Price:       req.Price,
		Stock:       req.Stock,
		ImageURL:    req.ImageURL,
		IsActive:    utils.ToPtr(true),
		CreatedAt:   utils.UTCNow(),
		UpdatedAt:   utils.UTCNow(),
	}
	if err := f.productRepo.Save(ctx, product); err != nil {
		return nil, NewBusinessError("CREATE_PRODUCT_FAILED", "Failed to create product", err)
	}

	desc := fmt.Sprintf("Product %s created in category %s", product.UUID, category.Slug)
	_ = createAuditLog(ctx, f.auditRepo, nil, models.AuditActionProductCreated, desc, true, nil, metadata)

	productDTO := ToProductDTO(*product)
	return &productDTO, nil
}

// UpdateProduct changes a product's fields.
func (f *CatalogFlowImpl) UpdateProduct(ctx context.Context, productUUID string, req *dto.UpdateProductRequest, metadata *ClientMetadata) (*dto.ProductDTO, error) {
	product, err := f.productRepo.ByUUID(ctx, productUUID)
	if err != nil {
		return nil, NewBusinessError("UPDATE_PRODUCT_FAILED", "Update product failed", err)
	}
	if product == nil {
		return nil, NewBusinessError("UPDATE_PRODUCT_FAILED", "Update product failed", ErrProductNotFound)
	}

	if req.Name != nil {
		if *req.Name == "" {
			return nil, NewBusinessError("UPDATE_PRODUCT_FAILED", "Update product failed", ErrProductNameRequired)
		}
		product.Name = *req.Name
	}
	if req.Description != nil {
		product.Description = req.Description
	}
	if req.Price != nil {
		if *req.Price < 0 {
			return nil, NewBusinessError("UPDATE_PRODUCT_FAILED", "Update product failed", ErrProductPriceInvalid)
		}
		product.Price = *req.Price
	}
	if req.Stock != nil {
		product.Stock = *req.Stock
	}
	if req.ImageURL != nil {
		product.ImageURL = req.ImageURL
	}
	if req.IsActive != nil {
		product.IsActive = req.IsActive
	}

	product.UpdatedAt = utils.UTCNow()
	if err := f.productRepo.Update(ctx, product); err != nil {
		return nil, NewBusinessError("UPDATE_PRODUCT_FAILED", "Failed to update product", err)
	}

	desc := fmt.Sprintf("Product %s updated", product.UUID)
	_ = createAuditLog(ctx, f.auditRepo, nil, models.AuditActionProductUpdated, desc, true, nil, metadata)

	productDTO := ToProductDTO(*product)
	return &productDTO, nil
}

// ListProducts returns active products in a category, newest first.
func (f *CatalogFlowImpl) ListProducts(ctx context.Context, categorySlug string, page, pageSize int) ([]dto.ProductDTO, error) {
	limit, offset, err := pagination(page, pageSize)
	if err != nil {
		return nil, NewBusinessError("LIST_PRODUCTS_FAILED", "List products failed", err)
	}

	category, err := f.categoryRepo.BySlug(ctx, strings.ToLower(categorySlug))
	if err != nil {
		return nil, NewBusinessError("LIST_PRODUCTS_FAILED", "List products failed", err)
	}
	if category == nil {
		return nil, NewBusinessError("LIST_PRODUCTS_FAILED", "List products failed", ErrCategoryNotFound)
	}

	products, err := f.productRepo.ListActiveByCategory(ctx, category.ID, limit, offset)
	if err != nil {
		return nil, NewBusinessError("LIST_PRODUCTS_FAILED", "Failed to list products", err)
	}

	out := make([]dto.ProductDTO, 0, len(products))
	for _, p := range products {
		out = append(out, ToProductDTO(*p))
	}
	return out, nil
}

// DeleteProduct soft-deletes a product.
func (f *CatalogFlowImpl) DeleteProduct(ctx context.Context, productUUID string, metadata *ClientMetadata) error {
	product, err := f.productRepo.ByUUID(ctx, productUUID)
	if err != nil {
		return NewBusinessError("DELETE_PRODUCT_FAILED", "Delete product failed", err)
	}
	if product == nil {
		return NewBusinessError("DELETE_PRODUCT_FAILED", "Delete product failed", ErrProductNotFound)
	}
	if err := f.productRepo.Delete(ctx, product.ID); err != nil {
		return NewBusinessError("DELETE_PRODUCT_FAILED", "Failed to delete product", err)
	}
	return nil
}

// ToCategoryDTO converts a category model to its response DTO.
func ToCategoryDTO(c models.Category) dto.CategoryDTO {
	return dto.CategoryDTO{
		ID:       c.ID,
		Name:     c.Name,
		Slug:     c.Slug,
		Position: c.Position,
	}
}

// ToProductDTO converts a product model to its response DTO.
func ToProductDTO(p models.Product) dto.ProductDTO {
	d := dto.ProductDTO{
		UUID:       p.UUID.String(),
		CategoryID: p.CategoryID,
		Name:       p.Name,
		Price:      utils.RoundMoney(p.Price),
		Stock:      p.Stock,
		IsActive:   utils.IsTrue(p.IsActive),
	}
	if p.Description != nil {
		d.Description = *p.Description
	}
	if p.SKU != nil {
		d.SKU = *p.SKU
	}
	if p.ImageURL != nil {
		d.ImageURL = *p.ImageURL
	}
	return d
}
