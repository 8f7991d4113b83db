package businessflow

import (
	"context"
	"time"

	"github.com/ripvault/breakroom/app/dto"
	"github.com/ripvault/breakroom/models"
	"github.com/ripvault/breakroom/repository"
	"github.com/ripvault/breakroom/utils"
)

// ReleaseFlow manages the product release calendar
type ReleaseFlow interface {
	CreateRelease(ctx context.Context, req *dto.CreateReleaseRequest, metadata *ClientMetadata) (*dto.ReleaseDTO, error)
	UpdateRelease(ctx context.Context, releaseID uint, req *dto.UpdateReleaseRequest, metadata *ClientMetadata) (*dto.ReleaseDTO, error)
	DeleteRelease(ctx context.Context, releaseID uint, metadata *ClientMetadata) error
	ListUpcoming(ctx context.Context, limit int) ([]dto.ReleaseDTO, error)
}

// ReleaseFlowImpl implements the release calendar flow
type ReleaseFlowImpl struct {
	releaseRepo repository.ReleaseRepository
}

// NewReleaseFlow creates a new release flow instance
func NewReleaseFlow(releaseRepo repository.ReleaseRepository) ReleaseFlow {
	return &ReleaseFlowImpl{releaseRepo: releaseRepo}
}

// CreateRelease adds a calendar entry.
func (f *ReleaseFlowImpl) CreateRelease(ctx context.Context, req *dto.CreateReleaseRequest, metadata *ClientMetadata) (*dto.ReleaseDTO, error) {
	if !models.IsValidSport(req.Sport) {
		return nil, NewBusinessError("CREATE_RELEASE_FAILED", "Create release failed", ErrTeamSportInvalid)
	}

	release := &models.Release{
		Title:       req.Title,
		Sport:       req.Sport,
		Brand:       req.Brand,
		ReleaseDate: req.ReleaseDate.UTC(),
		Notes:       req.Notes,
		CreatedAt:   utils.UTCNow(),
		UpdatedAt:   utils.UTCNow(),
	}
	if err := f.releaseRepo.Save(ctx, release); err != nil {
		return nil, NewBusinessError("CREATE_RELEASE_FAILED", "Failed to create release", err)
	}

	releaseDTO := ToReleaseDTO(*release)
	return &releaseDTO, nil
}

// UpdateRelease edits a calendar entry.
func (f *ReleaseFlowImpl) UpdateRelease(ctx context.Context, releaseID uint, req *dto.UpdateReleaseRequest, metadata *ClientMetadata) (*dto.ReleaseDTO, error) {
	release, err := f.releaseRepo.ByID(ctx, releaseID)
	if err != nil {
		return nil, NewBusinessError("UPDATE_RELEASE_FAILED", "Update release failed", err)
	}
	if release == nil {
		return nil, NewBusinessError("UPDATE_RELEASE_FAILED", "Update release failed", ErrReleaseNotFound)
	}

	if req.Title != nil {
		release.Title = *req.Title
	}
	if req.Brand != nil {
		release.Brand = *req.Brand
	}
	if req.ReleaseDate != nil {
		release.ReleaseDate = req.ReleaseDate.UTC()
	}
	if req.Notes != nil {
		release.Notes = req.Notes
	}

	release.UpdatedAt = utils.UTCNow()
	if err := f.releaseRepo.Update(ctx, release); err != nil {
		return nil, NewBusinessError("UPDATE_RELEASE_FAILED", "Failed to update release", err)
	}

	releaseDTO := ToReleaseDTO(*release)
	return &releaseDTO, nil
}

// DeleteRelease removes a calendar entry.
func (f *ReleaseFlowImpl) DeleteRelease(ctx context.Context, releaseID uint, metadata *ClientMetadata) error {
	release, err := f.releaseRepo.ByID(ctx, releaseID)
	if err != nil {
		return NewBusinessError("DELETE_RELEASE_FAILED", "Delete release failed", err)
	}
	if release == nil {
		return NewBusinessError("DELETE_RELEASE_FAILED", "Delete release failed", ErrReleaseNotFound)
	}
	if err := f.releaseRepo.Delete(ctx, release.ID); err != nil {
		return NewBusinessError("DELETE_RELEASE_FAILED", "Failed to delete release", err)
	}
	return nil
}

// ListUpcoming returns releases from today onward, soonest first.
func (f *ReleaseFlowImpl) ListUpcoming(ctx context.Context, limit int) ([]dto.ReleaseDTO, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	releases, err := f.releaseRepo.ListUpcoming(ctx, utils.UTCNow().Truncate(24*time.Hour), limit)
	if err != nil {
		return nil, NewBusinessError("LIST_RELEASES_FAILED", "Failed to list releases", err)
	}

	out := make([]dto.ReleaseDTO, 0, len(releases))
	for _, r := range releases {
		out = append(out, ToReleaseDTO(*r))
	}
	return out, nil
}

// ToReleaseDTO converts a release model to its response DTO.
func ToReleaseDTO(r models.Release) dto.ReleaseDTO {
	d := dto.ReleaseDTO{
		ID:          r.ID,
		Title:       r.Title,
		Sport:       r.Sport,
		Brand:       r.Brand,
		ReleaseDate: r.ReleaseDate.Format("2006-01-02"),
	}
	if r.Notes != nil {
		d.Notes = *r.Notes
	}
	return d
}
