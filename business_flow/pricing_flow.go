package businessflow

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/ripvault/breakroom/app/dto"
	"github.com/ripvault/breakroom/config"
	"github.com/ripvault/breakroom/models"
	"github.com/ripvault/breakroom/repository"
	"github.com/ripvault/breakroom/utils"
	"gorm.io/gorm"
)

// PricingFlow recomputes a break's spot prices from its boxes and team weights
type PricingFlow interface {
	Recompute(ctx context.Context, breakUUID string, metadata *ClientMetadata) (*dto.BreakDTO, error)
	ListSpots(ctx context.Context, breakUUID string) ([]dto.SpotDTO, error)
}

// PricingFlowImpl implements the pricing business flow
type PricingFlowImpl struct {
	breakRepo repository.BreakRepository
	boxRepo   repository.BoxRepository
	teamRepo  repository.TeamRepository
	spotRepo  repository.SpotRepository
	auditRepo repository.AuditLogRepository
	rc        *redis.Client
	cacheCfg  *config.CacheConfig
	db        *gorm.DB
}

// NewPricingFlow creates a new pricing flow instance
func NewPricingFlow(
	breakRepo repository.BreakRepository,
	boxRepo repository.BoxRepository,
	teamRepo repository.TeamRepository,
	spotRepo repository.SpotRepository,
	auditRepo repository.AuditLogRepository,
	rc *redis.Client,
	cacheCfg *config.CacheConfig,
	db *gorm.DB,
) PricingFlow {
	return &PricingFlowImpl{
		breakRepo: breakRepo,
		boxRepo:   boxRepo,
		teamRepo:  teamRepo,
		spotRepo:  spotRepo,
		auditRepo: auditRepo,
		rc:        rc,
		cacheCfg:  cacheCfg,
		db:        db,
	}
}

// Recompute rebuilds the break's derived pricing fields and spot rows from the
// current boxes and active team weights. Spots are replaced atomically so
// readers never observe a break without spots mid-update. Breaks with sold
// spots refuse recomputation.
func (p *PricingFlowImpl) Recompute(ctx context.Context, breakUUID string, metadata *ClientMetadata) (*dto.BreakDTO, error) {
	var brk *models.Break

	err := repository.WithTransaction(ctx, p.db, func(txCtx context.Context) error {
		var err error
		brk, err = getBreak(txCtx, p.breakRepo, breakUUID)
		if err != nil {
			return err
		}

		soldCount, err := p.spotRepo.CountSoldByBreak(txCtx, brk.ID)
		if err != nil {
			return err
		}
		if soldCount > 0 {
			return ErrBreakHasSoldSpots
		}

		totalCost, err := p.boxRepo.SumLineTotals(txCtx, brk.ID)
		if err != nil {
			return err
		}

		teams, err := p.teamRepo.ListActiveBySport(txCtx, brk.Sport)
		if err != nil {
			return err
		}

		weights := make([]WeightEntry, 0, len(teams))
		for _, t := range teams {
			weights = append(weights, WeightEntry{TeamID: t.ID, Name: t.Name, Multiplier: t.Multiplier})
		}

		result := AllocateSpotPrices(totalCost, brk.ProfitMarginPct, brk.CustomModifierPct, weights)

		brk.CostTotal = totalCost
		brk.SpotPrice = result.AverageSpotPrice
		brk.SpotCount = len(result.Spots)
		brk.UpdatedAt = utils.UTCNow()
		if err := p.breakRepo.Update(txCtx, brk); err != nil {
			return err
		}

		if err := p.spotRepo.DeleteByBreak(txCtx, brk.ID); err != nil {
			return err
		}

		if len(result.Spots) == 0 {
			return nil
		}

		spots := make([]*models.Spot, 0, len(result.Spots))
		for _, s := range result.Spots {
			spots = append(spots, &models.Spot{
				BreakID: brk.ID,
				TeamID:  s.TeamID,
				Price:   s.Price,
				Sold:    utils.ToPtr(false),
			})
		}
		return p.spotRepo.SaveBatch(txCtx, spots)
	})

	if err != nil {
		errMsg := fmt.Sprintf("Pricing recompute failed for break %s: %s", breakUUID, err.Error())
		_ = createAuditLog(ctx, p.auditRepo, nil, models.AuditActionBreakRepriced, errMsg, false, &errMsg, metadata)

		return nil, NewBusinessError("PRICING_RECOMPUTE_FAILED", "Failed to recompute pricing", err)
	}

	desc := fmt.Sprintf("Break %s repriced: %d spots at avg %.2f", breakUUID, brk.SpotCount, brk.SpotPrice)
	_ = createAuditLog(ctx, p.auditRepo, nil, models.AuditActionBreakRepriced, desc, true, nil, metadata)

	// Stale storefront listings are worse than a cold cache.
	if p.rc != nil {
		_ = p.rc.Del(ctx, redisKey(*p.cacheCfg, utils.LiveBreaksCacheKey)).Err()
	}

	breakDTO := ToBreakDTO(*brk)
	return &breakDTO, nil
}

// ListSpots returns the current spot rows for a break, team and tier included.
func (p *PricingFlowImpl) ListSpots(ctx context.Context, breakUUID string) ([]dto.SpotDTO, error) {
	brk, err := getBreak(ctx, p.breakRepo, breakUUID)
	if err != nil {
		return nil, NewBusinessError("LIST_SPOTS_FAILED", "Failed to list spots", err)
	}

	spots, err := p.spotRepo.ListByBreak(ctx, brk.ID)
	if err != nil {
		return nil, NewBusinessError("LIST_SPOTS_FAILED", "Failed to list spots", err)
	}

	out := make([]dto.SpotDTO, 0, len(spots))
	for _, s := range spots {
		out = append(out, ToSpotDTO(*s))
	}
	return out, nil
}

// getBreak resolves a break by UUID, mapping missing rows to ErrBreakNotFound.
func getBreak(ctx context.Context, repo repository.BreakRepository, breakUUID string) (*models.Break, error) {
	brk, err := repo.ByUUID(ctx, breakUUID)
	if err != nil {
		return nil, err
	}
	if brk == nil {
		return nil, ErrBreakNotFound
	}
	return brk, nil
}
