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
	businessflow "github.com/ripvault/breakroom/business_flow"
	"github.com/ripvault/breakroom/utils"
)

// CatalogHandlerInterface defines the contract for catalog administration handlers
type CatalogHandlerInterface interface {
	CreateCategory(c fiber.Ctx) error
	ListCategories(c fiber.Ctx) error
	DeleteCategory(c fiber.Ctx) error
	CreateProduct(c fiber.Ctx) error
	UpdateProduct(c fiber.Ctx) error
	DeleteProduct(c fiber.Ctx) error
	DownloadListingsCSV(c fiber.Ctx) error
	DownloadListingsExcel(c fiber.Ctx) error
}

// CatalogHandler implements CatalogHandlerInterface
type CatalogHandler struct {
	flow       businessflow.CatalogFlow
	exportFlow businessflow.ListingExportFlow
	validator  *validator.Validate
}

func NewCatalogHandler(flow businessflow.CatalogFlow, exportFlow businessflow.ListingExportFlow) CatalogHandlerInterface {
	return &CatalogHandler{
		flow:       flow,
		exportFlow: exportFlow,
		validator:  validator.New(),
	}
}

// ErrorResponse standard JSON error
func (h *CatalogHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
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
func (h *CatalogHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func (h *CatalogHandler) validateRequest(c fiber.Ctx, req any) error {
	if err := h.validator.Struct(req); err != nil {
		var validationErrors []string
		for _, err := range err.(validator.ValidationErrors) {
			validationErrors = append(validationErrors, getValidationErrorMessage(err))
		}
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors)
	}
	return nil
}

// CreateCategory adds a storefront category
// @Summary Create category
// @Tags Catalog
// @Router /api/v1/admin/categories [post]
func (h *CatalogHandler) CreateCategory(c fiber.Ctx) error {
	var req dto.CreateCategoryRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if err := h.validateRequest(c, &req); err != nil {
		return err
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	result, err := h.flow.CreateCategory(h.createRequestContext(c, "/api/v1/admin/categories"), &req, metadata)
	if err != nil {
		log.Println("Create category failed", err)
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Create category failed", "CREATE_CATEGORY_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusCreated, "Category created", result)
}

// ListCategories returns all categories in display order
// @Summary List categories
// @Tags Catalog
// @Router /api/v1/admin/categories [get]
func (h *CatalogHandler) ListCategories(c fiber.Ctx) error {
	result, err := h.flow.ListCategories(h.createRequestContext(c, "/api/v1/admin/categories"))
	if err != nil {
		log.Println("List categories failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "List categories failed", "LIST_CATEGORIES_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Categories retrieved", result)
}

// DeleteCategory soft-deletes a category
// @Summary Delete category
// @Tags Catalog
// @Router /api/v1/admin/categories/{id} [delete]
func (h *CatalogHandler) DeleteCategory(c fiber.Ctx) error {
	categoryID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid category id", "INVALID_REQUEST", nil)
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	if err := h.flow.DeleteCategory(h.createRequestContext(c, "/api/v1/admin/categories/:id"), uint(categoryID), metadata); err != nil {
		log.Println("Delete category failed", err)
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Delete category failed", "DELETE_CATEGORY_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Category deleted", nil)
}

// CreateProduct adds a product to a category
// @Summary Create product
// @Tags Catalog
// @Router /api/v1/admin/products [post]
func (h *CatalogHandler) CreateProduct(c fiber.Ctx) error {
	var req dto.CreateProductRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if err := h.validateRequest(c, &req); err != nil {
		return err
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	result, err := h.flow.CreateProduct(h.createRequestContext(c, "/api/v1/admin/products"), &req, metadata)
	if err != nil {
		log.Println("Create product failed", err)
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Create product failed", "CREATE_PRODUCT_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusCreated, "Product created", result)
}

// UpdateProduct edits a product
// @Summary Update product
// @Tags Catalog
// @Router /api/v1/admin/products/{uuid} [put]
func (h *CatalogHandler) UpdateProduct(c fiber.Ctx) error {
	var req dto.UpdateProductRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if err := h.validateRequest(c, &req); err != nil {
		return err
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	result, err := h.flow.UpdateProduct(h.createRequestContext(c, "/api/v1/admin/products/:uuid"), c.Params("uuid"), &req, metadata)
	if err != nil {
		log.Println("Update product failed", err)
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Update product failed", "UPDATE_PRODUCT_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Product updated", result)
}

// DeleteProduct soft-deletes a product
// @Summary Delete product
// @Tags Catalog
// @Router /api/v1/admin/products/{uuid} [delete]
func (h *CatalogHandler) DeleteProduct(c fiber.Ctx) error {
	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))
	if err := h.flow.DeleteProduct(h.createRequestContext(c, "/api/v1/admin/products/:uuid"), c.Params("uuid"), metadata); err != nil {
		log.Println("Delete product failed", err)
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Delete product failed", "DELETE_PRODUCT_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Product deleted", nil)
}

// DownloadListingsCSV streams the eBay bulk-listing CSV
// @Summary Download listings CSV
// @Tags Catalog
// @Produce text/csv
// @Router /api/v1/admin/listings/export.csv [get]
func (h *CatalogHandler) DownloadListingsCSV(c fiber.Ctx) error {
	filename, data, err := h.exportFlow.DownloadListingsCSV(h.createRequestContext(c, "/api/v1/admin/listings/export.csv"))
	if err != nil {
		log.Println("Listing CSV export failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Listing export failed", "LISTING_EXPORT_FAILED", nil)
	}

	c.Set("Content-Type", "text/csv")
	c.Set("Content-Disposition", "attachment; filename="+filename)
	return c.Send(data)
}

// DownloadListingsExcel streams the eBay listing workbook
// @Summary Download listings Excel
// @Tags Catalog
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Router /api/v1/admin/listings/export.xlsx [get]
func (h *CatalogHandler) DownloadListingsExcel(c fiber.Ctx) error {
	filename, data, err := h.exportFlow.DownloadListingsExcel(h.createRequestContext(c, "/api/v1/admin/listings/export.xlsx"))
	if err != nil {
		log.Println("Listing Excel export failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Listing export failed", "LISTING_EXPORT_FAILED", nil)
	}

	c.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set("Content-Disposition", "attachment; filename="+filename)
	return c.Send(data)
}

// createRequestContext mirrors other handlers for request-scoped values
func (h *CatalogHandler) createRequestContext(c fiber.Ctx, endpoint string) context.Context {
	return h.createRequestContextWithTimeout(c, endpoint, 30*time.Second)
}

func (h *CatalogHandler) createRequestContextWithTimeout(c fiber.Ctx, endpoint string, timeout time.Duration) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	ctx = context.WithValue(ctx, utils.RequestIDKey, c.Get("X-Request-ID"))
	ctx = context.WithValue(ctx, utils.UserAgentKey, c.Get("User-Agent"))
	ctx = context.WithValue(ctx, utils.IPAddressKey, c.IP())
	ctx = context.WithValue(ctx, utils.EndpointKey, endpoint)
	ctx = context.WithValue(ctx, utils.TimeoutKey, timeout)
	ctx = context.WithValue(ctx, utils.CancelFuncKey, cancel)
	return ctx
}
