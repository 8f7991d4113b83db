package businessflow

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"github.com/ripvault/breakroom/app/dto"
	"github.com/ripvault/breakroom/config"
	"github.com/ripvault/breakroom/models"
	"github.com/ripvault/breakroom/repository"
	"github.com/ripvault/breakroom/utils"
)

// StorefrontFlow serves the public, read-only shop surface
type StorefrontFlow interface {
	ListLiveBreaks(ctx context.Context) ([]dto.BreakDTO, error)
	GetLiveBreak(ctx context.Context, breakUUID string) (*dto.BreakDetailDTO, error)
	ListCategories(ctx context.Context) ([]dto.CategoryDTO, error)
	ListProducts(ctx context.Context, categorySlug string, page, pageSize int) ([]dto.ProductDTO, error)
}

// StorefrontFlowImpl implements the public storefront flow
type StorefrontFlowImpl struct {
	breakRepo   repository.BreakRepository
	spotRepo    repository.SpotRepository
	catalogFlow CatalogFlow
	rc          *redis.Client
	cacheCfg    *config.CacheConfig
}

// NewStorefrontFlow creates a new storefront flow instance
func NewStorefrontFlow(
	breakRepo repository.BreakRepository,
	spotRepo repository.SpotRepository,
	catalogFlow CatalogFlow,
	rc *redis.Client,
	cacheCfg *config.CacheConfig,
) StorefrontFlow {
	return &StorefrontFlowImpl{
		breakRepo:   breakRepo,
		spotRepo:    spotRepo,
		catalogFlow: catalogFlow,
		rc:          rc,
		cacheCfg:    cacheCfg,
	}
}

// ListLiveBreaks returns breaks currently open for purchase. The listing is
// cached; a repriced or status-changed break busts the cache.
func (f *StorefrontFlowImpl) ListLiveBreaks(ctx context.Context) ([]dto.BreakDTO, error) {
	cacheKey := redisKey(*f.cacheCfg, utils.LiveBreaksCacheKey)

	if f.rc != nil && f.cacheCfg.Enabled {
		if bs, err := f.rc.Get(ctx, cacheKey).Bytes(); err == nil && len(bs) > 0 {
			var cached []dto.BreakDTO
			if err := json.Unmarshal(bs, &cached); err == nil {
				return cached, nil
			}
		}
	}

	breaks, err := f.breakRepo.ListByStatus(ctx, models.BreakStatusLive, 100, 0)
	if err != nil {
		return nil, NewBusinessError("LIST_LIVE_BREAKS_FAILED", "Failed to list live breaks", err)
	}

	out := make([]dto.BreakDTO, 0, len(breaks))
	for _, b := range breaks {
		out = append(out, ToBreakDTO(*b))
	}

	if f.rc != nil && f.cacheCfg.Enabled {
		if bs, err := json.Marshal(out); err == nil {
			_ = f.rc.Set(ctx, cacheKey, bs, f.cacheCfg.DefaultTTL).Err()
		}
	}
	return out, nil
}

// GetLiveBreak returns one live break with its open and sold spots.
func (f *StorefrontFlowImpl) GetLiveBreak(ctx context.Context, breakUUID string) (*dto.BreakDetailDTO, error) {
	brk, err := getBreak(ctx, f.breakRepo, breakUUID)
	if err != nil {
		return nil, NewBusinessError("GET_LIVE_BREAK_FAILED", "Get break failed", err)
	}
	if brk.Status != models.BreakStatusLive && brk.Status != models.BreakStatusSoldOut {
		return nil, NewBusinessError("GET_LIVE_BREAK_FAILED", "Get break failed", ErrBreakNotLive)
	}

	spots, err := f.spotRepo.ListByBreak(ctx, brk.ID)
	if err != nil {
		return nil, NewBusinessError("GET_LIVE_BREAK_FAILED", "Get break failed", err)
	}

	detail := &dto.BreakDetailDTO{Break: ToBreakDTO(*brk)}
	for _, s := range spots {
		detail.Spots = append(detail.Spots, ToSpotDTO(*s))
	}
	return detail, nil
}

// ListCategories returns storefront categories in display order.
func (f *StorefrontFlowImpl) ListCategories(ctx context.Context) ([]dto.CategoryDTO, error) {
	return f.catalogFlow.ListCategories(ctx)
}

// ListProducts returns active products in a category.
func (f *StorefrontFlowImpl) ListProducts(ctx context.Context, categorySlug string, page, pageSize int) ([]dto.ProductDTO, error) {
	return f.catalogFlow.ListProducts(ctx, categorySlug, page, pageSize)
}
