package businessflow

import (
	"context"
	"fmt"

	"github.com/ripvault/breakroom/app/dto"
	"github.com/ripvault/breakroom/models"
	"github.com/ripvault/breakroom/repository"
	"github.com/ripvault/breakroom/utils"
)

// TeamFlow manages teams and their popularity multipliers
type TeamFlow interface {
	CreateTeam(ctx context.Context, req *dto.CreateTeamRequest, metadata *ClientMetadata) (*dto.TeamDTO, error)
	UpdateTeam(ctx context.Context, teamUUID string, req *dto.UpdateTeamRequest, metadata *ClientMetadata) (*dto.TeamDTO, error)
	DeleteTeam(ctx context.Context, teamUUID string, metadata *ClientMetadata) error
	ListTeams(ctx context.Context, sport string) ([]dto.TeamDTO, error)
}

// TeamFlowImpl implements the team management flow
type TeamFlowImpl struct {
	teamRepo  repository.TeamRepository
	auditRepo repository.AuditLogRepository
}

// NewTeamFlow creates a new team flow instance
func NewTeamFlow(teamRepo repository.TeamRepository, auditRepo repository.AuditLogRepository) TeamFlow {
	return &TeamFlowImpl{
		teamRepo:  teamRepo,
		auditRepo: auditRepo,
	}
}

func validateMultiplier(m float64) error {
	if m <= 0 || m > utils.MaxTeamMultiplier {
		return ErrTeamMultiplierInvalid
	}
	return nil
}

// CreateTeam adds a weight entry for a sport. Names are unique per sport.
func (f *TeamFlowImpl) CreateTeam(ctx context.Context, req *dto.CreateTeamRequest, metadata *ClientMetadata) (*dto.TeamDTO, error) {
	if req.Name == "" {
		return nil, NewBusinessError("CREATE_TEAM_FAILED", "Create team failed", ErrTeamNameRequired)
	}
	if !models.IsValidSport(req.Sport) {
		return nil, NewBusinessError("CREATE_TEAM_FAILED", "Create team failed", ErrTeamSportInvalid)
	}
	if err := validateMultiplier(req.Multiplier); err != nil {
		return nil, NewBusinessError("CREATE_TEAM_FAILED", "Create team failed", err)
	}

	exists, err := f.teamRepo.Exists(ctx, models.TeamFilter{Name: &req.Name, Sport: &req.Sport})
	if err != nil {
		return nil, NewBusinessError("CREATE_TEAM_FAILED", "Create team failed", err)
	}
	if exists {
		return nil, NewBusinessError("CREATE_TEAM_FAILED", "Create team failed", ErrTeamAlreadyExists)
	}

	team := &models.Team{
		Name:       req.Name,
		Sport:      req.Sport,
		Multiplier: req.Multiplier,
		IsActive:   utils.ToPtr(true),
		CreatedAt:  utils.UTCNow(),
		UpdatedAt:  utils.UTCNow(),
	}
	if err := f.teamRepo.Save(ctx, team); err != nil {
		return nil, NewBusinessError("CREATE_TEAM_FAILED", "Failed to create team", err)
	}

	desc := fmt.Sprintf("Team %s (%s) created with multiplier %.2f", team.Name, team.Sport, team.Multiplier)
	_ = createAuditLog(ctx, f.auditRepo, nil, models.AuditActionTeamCreated, desc, true, nil, metadata)

	teamDTO := ToTeamDTO(*team)
	return &teamDTO, nil
}

// UpdateTeam changes a team's name, multiplier or active flag. A multiplier
// change only affects breaks on their next recompute.
func (f *TeamFlowImpl) UpdateTeam(ctx context.Context, teamUUID string, req *dto.UpdateTeamRequest, metadata *ClientMetadata) (*dto.TeamDTO, error) {
	team, err := getTeam(ctx, f.teamRepo, teamUUID)
	if err != nil {
		return nil, NewBusinessError("UPDATE_TEAM_FAILED", "Update team failed", err)
	}

	if req.Name != nil {
		if *req.Name == "" {
			return nil, NewBusinessError("UPDATE_TEAM_FAILED", "Update team failed", ErrTeamNameRequired)
		}
		team.Name = *req.Name
	}
	if req.Multiplier != nil {
		if err := validateMultiplier(*req.Multiplier); err != nil {
			return nil, NewBusinessError("UPDATE_TEAM_FAILED", "Update team failed", err)
		}
		team.Multiplier = *req.Multiplier
	}
	if req.IsActive != nil {
		team.IsActive = req.IsActive
	}

	team.UpdatedAt = utils.UTCNow()
	if err := f.teamRepo.Update(ctx, team); err != nil {
		return nil, NewBusinessError("UPDATE_TEAM_FAILED", "Failed to update team", err)
	}

	desc := fmt.Sprintf("Team %s updated", team.UUID)
	_ = createAuditLog(ctx, f.auditRepo, nil, models.AuditActionTeamUpdated, desc, true, nil, metadata)

	teamDTO := ToTeamDTO(*team)
	return &teamDTO, nil
}

// DeleteTeam soft-deletes a team. Existing spots keep their prices; the team
// simply stops appearing in future recomputes.
func (f *TeamFlowImpl) DeleteTeam(ctx context.Context, teamUUID string, metadata *ClientMetadata) error {
	team, err := getTeam(ctx, f.teamRepo, teamUUID)
	if err != nil {
		return NewBusinessError("DELETE_TEAM_FAILED", "Delete team failed", err)
	}

	if err := f.teamRepo.Delete(ctx, team.ID); err != nil {
		return NewBusinessError("DELETE_TEAM_FAILED", "Failed to delete team", err)
	}

	desc := fmt.Sprintf("Team %s deleted", team.UUID)
	_ = createAuditLog(ctx, f.auditRepo, nil, models.AuditActionTeamDeleted, desc, true, nil, metadata)
	return nil
}

// ListTeams returns active teams for a sport, ordered by name.
func (f *TeamFlowImpl) ListTeams(ctx context.Context, sport string) ([]dto.TeamDTO, error) {
	if !models.IsValidSport(sport) {
		return nil, NewBusinessError("LIST_TEAMS_FAILED", "List teams failed", ErrTeamSportInvalid)
	}

	teams, err := f.teamRepo.ListActiveBySport(ctx, sport)
	if err != nil {
		return nil, NewBusinessError("LIST_TEAMS_FAILED", "Failed to list teams", err)
	}

	out := make([]dto.TeamDTO, 0, len(teams))
	for _, t := range teams {
		out = append(out, ToTeamDTO(*t))
	}
	return out, nil
}

// getTeam resolves a team by UUID, mapping missing rows to ErrTeamNotFound.
func getTeam(ctx context.Context, repo repository.TeamRepository, teamUUID string) (*models.Team, error) {
	team, err := repo.ByUUID(ctx, teamUUID)
	if err != nil {
		return nil, err
	}
	if team == nil {
		return nil, ErrTeamNotFound
	}
	return team, nil
}

// ToTeamDTO converts a team model to its response DTO.
func ToTeamDTO(team models.Team) dto.TeamDTO {
	return dto.TeamDTO{
		UUID:       team.UUID.String(),
		Name:       team.Name,
		Sport:      team.Sport,
		Multiplier: team.Multiplier,
		Tier:       team.Tier(),
		IsActive:   utils.IsTrue(team.IsActive),
	}
}
