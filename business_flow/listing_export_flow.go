package businessflow

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"github.com/ripvault/breakroom/models"
	"github.com/ripvault/breakroom/repository"
	"github.com/ripvault/breakroom/utils"
	"github.com/xuri/excelize/v2"
)

// ListingExportFlow builds eBay-ready listing exports of the catalog
type ListingExportFlow interface {
	DownloadListingsCSV(ctx context.Context) (string, []byte, error)
	DownloadListingsExcel(ctx context.Context) (string, []byte, error)
}

// ListingExportFlowImpl implements the listing export flow
type ListingExportFlowImpl struct {
	categoryRepo repository.CategoryRepository
	productRepo  repository.ProductRepository
}

// NewListingExportFlow creates a new listing export flow instance
func NewListingExportFlow(categoryRepo repository.CategoryRepository, productRepo repository.ProductRepository) ListingExportFlow {
	return &ListingExportFlowImpl{
		categoryRepo: categoryRepo,
		productRepo:  productRepo,
	}
}

var listingHeader = []string{"title", "sku", "category", "price", "quantity", "image_url", "description"}

func listingRecord(categorySlug string, p *models.Product) []string {
	sku := ""
	if p.SKU != nil {
		sku = *p.SKU
	}
	imageURL := ""
	if p.ImageURL != nil {
		imageURL = *p.ImageURL
	}
	description := ""
	if p.Description != nil {
		description = *p.Description
	}
	return []string{
		p.Name,
		sku,
		categorySlug,
		fmt.Sprintf("%.2f", utils.RoundMoney(p.Price)),
		strconv.Itoa(p.Stock),
		imageURL,
		description,
	}
}

// DownloadListingsCSV flattens all active products into one CSV suitable for
// eBay's bulk listing upload.
func (f *ListingExportFlowImpl) DownloadListingsCSV(ctx context.Context) (string, []byte, error) {
	categories, err := f.categoryRepo.ListOrdered(ctx)
	if err != nil {
		return "", nil, NewBusinessError("FETCH_LISTINGS_FAILED", "Failed to fetch categories", err)
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(listingHeader); err != nil {
		return "", nil, NewBusinessError("CSV_WRITE_ERROR", "Failed to write CSV header", err)
	}

	for _, category := range categories {
		products, err := f.productRepo.ListActiveByCategory(ctx, category.ID, 0, 0)
		if err != nil {
			return "", nil, NewBusinessError("FETCH_LISTINGS_FAILED", "Failed to fetch products", err)
		}
		for _, p := range products {
			if err := w.Write(listingRecord(category.Slug, p)); err != nil {
				return "", nil, NewBusinessError("CSV_WRITE_ERROR", "Failed to write CSV row", err)
			}
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", nil, NewBusinessError("CSV_WRITE_ERROR", "Failed to flush CSV", err)
	}
	return "ebay_listings.csv", buf.Bytes(), nil
}

// DownloadListingsExcel builds a workbook with one sheet per category.
func (f *ListingExportFlowImpl) DownloadListingsExcel(ctx context.Context) (string, []byte, error) {
	categories, err := f.categoryRepo.ListOrdered(ctx)
	if err != nil {
		return "", nil, NewBusinessError("FETCH_LISTINGS_FAILED", "Failed to fetch categories", err)
	}

	xl := excelize.NewFile()
	defer func() { _ = xl.Close() }()

	usedNames := map[string]bool{}
	sheetWritten := false
	for i, category := range categories {
		products, err := f.productRepo.ListActiveByCategory(ctx, category.ID, 0, 0)
		if err != nil {
			return "", nil, NewBusinessError("FETCH_LISTINGS_FAILED", "Failed to fetch products", err)
		}

		baseName := sanitizeSheetName(category.Slug)
		name := baseName
		idx := 1
		for usedNames[name] {
			idx++
			name = truncateSheetName(fmt.Sprintf("%s_%d", baseName, idx))
		}
		usedNames[name] = true
		if i == 0 {
			xl.SetSheetName(xl.GetSheetName(0), name)
		} else {
			_, _ = xl.NewSheet(name)
		}
		sheetWritten = true

		_ = xl.SetSheetRow(name, "A1", &listingHeader)
		for ri, p := range products {
			record := listingRecord(category.Slug, p)
			cellRef, _ := excelize.CoordinatesToCellName(1, ri+2)
			_ = xl.SetSheetRow(name, cellRef, &record)
		}
	}

	if !sheetWritten {
		xl.SetSheetName(xl.GetSheetName(0), "listings")
		_ = xl.SetSheetRow("listings", "A1", &listingHeader)
	}

	buf, err := xl.WriteToBuffer()
	if err != nil {
		return "", nil, NewBusinessError("EXCEL_WRITE_ERROR", "Failed to write Excel file", err)
	}
	return "ebay_listings.xlsx", buf.Bytes(), nil
}

func sanitizeSheetName(name string) string {
	// Excel sheet names cannot contain: : \\ / ? * [ ] and must be <= 31 chars
	replacer := strings.NewReplacer(":", "_", "\\", "_", "/", "_", "?", "_", "*", "_", "[", "_", "]", "_")
	safe := replacer.Replace(name)
	return truncateSheetName(strings.TrimSpace(safe))
}

func truncateSheetName(name string) string {
	if len(name) > 31 {
		return name[:31]
	}
	if name == "" {
		return "Sheet"
	}
	return name
}
