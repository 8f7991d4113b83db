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

// BreakAdminFlow handles back-office management of breaks and their boxes
type BreakAdminFlow interface {
	CreateBreak(ctx context.Context, req *dto.CreateBreakRequest, metadata *ClientMetadata) (*dto.BreakDTO, error)
	UpdateBreak(ctx context.Context, breakUUID string, req *dto.UpdateBreakRequest, metadata *ClientMetadata) (*dto.BreakDTO, error)
	UpdateBreakStatus(ctx context.Context, breakUUID string, req *dto.UpdateBreakStatusRequest, metadata *ClientMetadata) (*dto.BreakDTO, error)
	DeleteBreak(ctx context.Context, breakUUID string, metadata *ClientMetadata) error
	GetBreak(ctx context.Context, breakUUID string) (*dto.BreakDetailDTO, error)
	ListBreaks(ctx context.Context, req *dto.ListBreaksRequest) ([]dto.BreakDTO, error)
	AddBox(ctx context.Context, breakUUID string, req *dto.AddBoxRequest, metadata *ClientMetadata) (*dto.BreakDTO, error)
	RemoveBox(ctx context.Context, breakUUID string, boxID uint, metadata *ClientMetadata) (*dto.BreakDTO, error)
}

// BreakAdminFlowImpl implements the break administration flow
type BreakAdminFlowImpl struct {
	breakRepo   repository.BreakRepository
	boxRepo     repository.BoxRepository
	spotRepo    repository.SpotRepository
	auditRepo   repository.AuditLogRepository
	pricingFlow PricingFlow
	rc          *redis.Client
	cacheCfg    *config.CacheConfig
	db          *gorm.DB
}

// NewBreakAdminFlow creates a new break administration flow instance
func NewBreakAdminFlow(
	breakRepo repository.BreakRepository,
	boxRepo repository.BoxRepository,
	spotRepo repository.SpotRepository,
	auditRepo repository.AuditLogRepository,
	pricingFlow PricingFlow,
	rc *redis.Client,
	cacheCfg *config.CacheConfig,
	db *gorm.DB,
) BreakAdminFlow {
	return &BreakAdminFlowImpl{
		breakRepo:   breakRepo,
		boxRepo:     boxRepo,
		spotRepo:    spotRepo,
		auditRepo:   auditRepo,
		pricingFlow: pricingFlow,
		rc:          rc,
		cacheCfg:    cacheCfg,
		db:          db,
	}
}

// CreateBreak creates a draft break. Derived pricing fields start at zero and
// stay there until the first box is added.
func (f *BreakAdminFlowImpl) CreateBreak(ctx context.Context, req *dto.CreateBreakRequest, metadata *ClientMetadata) (*dto.BreakDTO, error) {
	if req.Title == "" {
		return nil, NewBusinessError("CREATE_BREAK_FAILED", "Create break failed", ErrBreakTitleRequired)
	}
	if !models.IsValidSport(req.Sport) {
		return nil, NewBusinessError("CREATE_BREAK_FAILED", "Create break failed", ErrBreakSportInvalid)
	}

	brk := &models.Break{
		Title:             req.Title,
		Sport:             req.Sport,
		Status:            models.BreakStatusDraft,
		ProfitMarginPct:   req.ProfitMarginPct,
		CustomModifierPct: req.CustomModifierPct,
		ScheduledAt:       req.ScheduledAt,
		CreatedAt:         utils.UTCNow(),
		UpdatedAt:         utils.UTCNow(),
	}
	if err := f.breakRepo.Save(ctx, brk); err != nil {
		return nil, NewBusinessError("CREATE_BREAK_FAILED", "Failed to create break", err)
	}

	desc := fmt.Sprintf("Break %s created for sport %s", brk.UUID, brk.Sport)
	_ = createAuditLog(ctx, f.auditRepo, nil, models.AuditActionBreakCreated, desc, true, nil, metadata)

	breakDTO := ToBreakDTO(*brk)
	return &breakDTO, nil
}

// UpdateBreak changes the authored fields of a break. Margin or modifier
// changes trigger a full pricing recompute.
func (f *BreakAdminFlowImpl) UpdateBreak(ctx context.Context, breakUUID string, req *dto.UpdateBreakRequest, metadata *ClientMetadata) (*dto.BreakDTO, error) {
	brk, err := getBreak(ctx, f.breakRepo, breakUUID)
	if err != nil {
		return nil, NewBusinessError("UPDATE_BREAK_FAILED", "Update break failed", err)
	}

	repriceNeeded := false
	if req.Title != nil {
		if *req.Title == "" {
			return nil, NewBusinessError("UPDATE_BREAK_FAILED", "Update break failed", ErrBreakTitleRequired)
		}
		brk.Title = *req.Title
	}
	if req.ProfitMarginPct != nil && *req.ProfitMarginPct != brk.ProfitMarginPct {
		brk.ProfitMarginPct = *req.ProfitMarginPct
		repriceNeeded = true
	}
	if req.CustomModifierPct != nil && *req.CustomModifierPct != brk.CustomModifierPct {
		brk.CustomModifierPct = *req.CustomModifierPct
		repriceNeeded = true
	}
	if req.ScheduledAt != nil {
		brk.ScheduledAt = req.ScheduledAt
	}

	brk.UpdatedAt = utils.UTCNow()
	if err := f.breakRepo.Update(ctx, brk); err != nil {
		return nil, NewBusinessError("UPDATE_BREAK_FAILED", "Failed to update break", err)
	}

	desc := fmt.Sprintf("Break %s updated", brk.UUID)
	_ = createAuditLog(ctx, f.auditRepo, nil, models.AuditActionBreakUpdated, desc, true, nil, metadata)

	if repriceNeeded {
		return f.pricingFlow.Recompute(ctx, breakUUID, metadata)
	}

	breakDTO := ToBreakDTO(*brk)
	return &breakDTO, nil
}

// UpdateBreakStatus moves a break through its lifecycle. Each current status
// has an explicit branch; there is no fallthrough between transitions.
func (f *BreakAdminFlowImpl) UpdateBreakStatus(ctx context.Context, breakUUID string, req *dto.UpdateBreakStatusRequest, metadata *ClientMetadata) (*dto.BreakDTO, error) {
	if !models.IsValidBreakStatus(req.Status) {
		return nil, NewBusinessError("UPDATE_BREAK_STATUS_FAILED", "Update break status failed", ErrBreakStatusInvalid)
	}

	brk, err := getBreak(ctx, f.breakRepo, breakUUID)
	if err != nil {
		return nil, NewBusinessError("UPDATE_BREAK_STATUS_FAILED", "Update break status failed", err)
	}

	var allowed bool
	switch brk.Status {
	case models.BreakStatusDraft:
		allowed = req.Status == models.BreakStatusLive || req.Status == models.BreakStatusDraft
	case models.BreakStatusLive:
		allowed = req.Status == models.BreakStatusSoldOut || req.Status == models.BreakStatusCompleted || req.Status == models.BreakStatusDraft
	case models.BreakStatusSoldOut:
		allowed = req.Status == models.BreakStatusCompleted || req.Status == models.BreakStatusLive
	case models.BreakStatusCompleted:
		allowed = false
	default:
		allowed = false
	}
	if !allowed && req.Status != brk.Status {
		return nil, NewBusinessErrorf("UPDATE_BREAK_STATUS_FAILED", "Cannot move break from %s to %s", ErrBreakStatusInvalid, brk.Status, req.Status)
	}

	brk.Status = req.Status
	brk.UpdatedAt = utils.UTCNow()
	if err := f.breakRepo.Update(ctx, brk); err != nil {
		return nil, NewBusinessError("UPDATE_BREAK_STATUS_FAILED", "Failed to update break status", err)
	}

	desc := fmt.Sprintf("Break %s moved to %s", brk.UUID, brk.Status)
	_ = createAuditLog(ctx, f.auditRepo, nil, models.AuditActionBreakUpdated, desc, true, nil, metadata)

	// A status change moves the break in or out of the storefront listing.
	if f.rc != nil {
		_ = f.rc.Del(ctx, redisKey(*f.cacheCfg, utils.LiveBreaksCacheKey)).Err()
	}

	breakDTO := ToBreakDTO(*brk)
	return &breakDTO, nil
}

// DeleteBreak soft-deletes a break. Breaks with sold spots cannot be deleted.
func (f *BreakAdminFlowImpl) DeleteBreak(ctx context.Context, breakUUID string, metadata *ClientMetadata) error {
	brk, err := getBreak(ctx, f.breakRepo, breakUUID)
	if err != nil {
		return NewBusinessError("DELETE_BREAK_FAILED", "Delete break failed", err)
	}

	soldCount, err := f.spotRepo.CountSoldByBreak(ctx, brk.ID)
	if err != nil {
		return NewBusinessError("DELETE_BREAK_FAILED", "Delete break failed", err)
	}
	if soldCount > 0 {
		return NewBusinessError("DELETE_BREAK_FAILED", "Delete break failed", ErrBreakHasSoldSpots)
	}

	if err := f.breakRepo.Delete(ctx, brk.ID); err != nil {
		return NewBusinessError("DELETE_BREAK_FAILED", "Failed to delete break", err)
	}

	desc := fmt.Sprintf("Break %s deleted", brk.UUID)
	_ = createAuditLog(ctx, f.auditRepo, nil, models.AuditActionBreakDeleted, desc, true, nil, metadata)
	return nil
}

// GetBreak returns a break with its boxes and spots.
func (f *BreakAdminFlowImpl) GetBreak(ctx context.Context, breakUUID string) (*dto.BreakDetailDTO, error) {
	brk, err := getBreak(ctx, f.breakRepo, breakUUID)
	if err != nil {
		return nil, NewBusinessError("GET_BREAK_FAILED", "Get break failed", err)
	}

	boxes, err := f.boxRepo.ListByBreak(ctx, brk.ID)
	if err != nil {
		return nil, NewBusinessError("GET_BREAK_FAILED", "Get break failed", err)
	}

	spots, err := f.pricingFlow.ListSpots(ctx, breakUUID)
	if err != nil {
		return nil, err
	}

	detail := &dto.BreakDetailDTO{
		Break: ToBreakDTO(*brk),
		Spots: spots,
	}
	for _, b := range boxes {
		detail.Boxes = append(detail.Boxes, dto.BoxDTO{
			ID:          b.ID,
			Description: b.Description,
			Quantity:    b.Quantity,
			UnitCost:    utils.RoundMoney(b.UnitCost),
			LineTotal:   utils.RoundMoney(b.LineTotal()),
		})
	}
	finalTotal := brk.CostTotal * (1 + brk.ProfitMarginPct/100) * (1 + brk.CustomModifierPct/100)
	detail.FinalTotal = utils.RoundMoney(finalTotal)
	return detail, nil
}

// ListBreaks returns breaks, newest first, optionally filtered by status.
func (f *BreakAdminFlowImpl) ListBreaks(ctx context.Context, req *dto.ListBreaksRequest) ([]dto.BreakDTO, error) {
	limit, offset, err := pagination(req.Page, req.PageSize)
	if err != nil {
		return nil, NewBusinessError("LIST_BREAKS_FAILED", "List breaks failed", err)
	}

	filter := models.BreakFilter{}
	if req.Status != "" {
		if !models.IsValidBreakStatus(req.Status) {
			return nil, NewBusinessError("LIST_BREAKS_FAILED", "List breaks failed", ErrBreakStatusInvalid)
		}
		filter.Status = &req.Status
	}

	breaks, err := f.breakRepo.ByFilter(ctx, filter, "created_at DESC", limit, offset)
	if err != nil {
		return nil, NewBusinessError("LIST_BREAKS_FAILED", "Failed to list breaks", err)
	}

	out := make([]dto.BreakDTO, 0, len(breaks))
	for _, b := range breaks {
		out = append(out, ToBreakDTO(*b))
	}
	return out, nil
}

// AddBox appends a cost line to a break and recomputes its pricing.
func (f *BreakAdminFlowImpl) AddBox(ctx context.Context, breakUUID string, req *dto.AddBoxRequest, metadata *ClientMetadata) (*dto.BreakDTO, error) {
	if req.Quantity <= 0 {
		return nil, NewBusinessError("ADD_BOX_FAILED", "Add box failed", ErrBoxQuantityInvalid)
	}
	if req.UnitCost < 0 {
		return nil, NewBusinessError("ADD_BOX_FAILED", "Add box failed", ErrBoxUnitCostInvalid)
	}

	brk, err := getBreak(ctx, f.breakRepo, breakUUID)
	if err != nil {
		return nil, NewBusinessError("ADD_BOX_FAILED", "Add box failed", err)
	}

	box := &models.Box{
		BreakID:     brk.ID,
		Description: req.Description,
		Quantity:    req.Quantity,
		UnitCost:    req.UnitCost,
		CreatedAt:   utils.UTCNow(),
		UpdatedAt:   utils.UTCNow(),
	}
	if err := f.boxRepo.Save(ctx, box); err != nil {
		return nil, NewBusinessError("ADD_BOX_FAILED", "Failed to add box", err)
	}

	desc := fmt.Sprintf("Box %d added to break %s (%d x %.2f)", box.ID, brk.UUID, box.Quantity, box.UnitCost)
	_ = createAuditLog(ctx, f.auditRepo, nil, models.AuditActionBoxAdded, desc, true, nil, metadata)

	return f.pricingFlow.Recompute(ctx, breakUUID, metadata)
}

// RemoveBox deletes a cost line from a break and recomputes its pricing.
func (f *BreakAdminFlowImpl) RemoveBox(ctx context.Context, breakUUID string, boxID uint, metadata *ClientMetadata) (*dto.BreakDTO, error) {
	brk, err := getBreak(ctx, f.breakRepo, breakUUID)
	if err != nil {
		return nil, NewBusinessError("REMOVE_BOX_FAILED", "Remove box failed", err)
	}

	box, err := f.boxRepo.ByID(ctx, boxID)
	if err != nil {
		return nil, NewBusinessError("REMOVE_BOX_FAILED", "Remove box failed", err)
	}
	if box == nil || box.BreakID != brk.ID {
		return nil, NewBusinessError("REMOVE_BOX_FAILED", "Remove box failed", ErrBoxNotFound)
	}

	if err := f.boxRepo.Delete(ctx, box.ID); err != nil {
		return nil, NewBusinessError("REMOVE_BOX_FAILED", "Failed to remove box", err)
	}

	desc := fmt.Sprintf("Box %d removed from break %s", box.ID, brk.UUID)
	_ = createAuditLog(ctx, f.auditRepo, nil, models.AuditActionBoxRemoved, desc, true, nil, metadata)

	return f.pricingFlow.Recompute(ctx, breakUUID, metadata)
}

// pagination normalizes page/pageSize into limit/offset.
func pagination(page, pageSize int) (limit, offset int, err error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	if pageSize > 100 {
		return 0, 0, ErrInvalidPageSize
	}
	return pageSize, (page - 1) * pageSize, nil
}
