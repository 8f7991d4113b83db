// Package businessflow contains the business logic for the break shop.
package businessflow

import (
	"context"
	"encoding/json"
	"time"

	"github.com/ripvault/breakroom/app/dto"
	"github.com/ripvault/breakroom/config"
	"github.com/ripvault/breakroom/models"
	"github.com/ripvault/breakroom/repository"
	"github.com/ripvault/breakroom/utils"
)

// redisKey namespaces a cache key with the configured prefix.
func redisKey(cfg config.CacheConfig, key string) string {
	if cfg.RedisPrefix == "" {
		return key
	}
	return cfg.RedisPrefix + ":" + key
}

// ClientMetadata holds all client-related information for audit logging
type ClientMetadata struct {
	IPAddress  string            `json:"ip_address"`
	UserAgent  string            `json:"user_agent"`
	RequestID  string            `json:"request_id,omitempty"`
	Additional map[string]string `json:"additional,omitempty"`
}

// NewClientMetadata creates a new ClientMetadata instance with basic information
func NewClientMetadata(ipAddress, userAgent string) *ClientMetadata {
	return &ClientMetadata{
		IPAddress:  ipAddress,
		UserAgent:  userAgent,
		Additional: make(map[string]string),
	}
}

// AddAdditional adds additional custom information to the metadata
func (cm *ClientMetadata) AddAdditional(key, value string) {
	if cm.Additional == nil {
		cm.Additional = make(map[string]string)
	}
	cm.Additional[key] = value
}

// SetRequestID sets the request ID
func (cm *ClientMetadata) SetRequestID(requestID string) {
	cm.RequestID = requestID
}

// createAuditLog writes an audit entry; failures are logged by callers but
// never fail the surrounding flow.
func createAuditLog(ctx context.Context, auditRepo repository.AuditLogRepository, adminID *uint, action, description string, success bool, errorMessage *string, metadata *ClientMetadata) error {
	entry := &models.AuditLog{
		AdminID:     adminID,
		Action:      action,
		Description: utils.ToPtr(description),
		Success:     utils.ToPtr(success),
		CreatedAt:   utils.UTCNow(),
	}
	if errorMessage != nil {
		entry.ErrorMessage = errorMessage
	}
	if metadata != nil {
		if metadata.IPAddress != "" {
			entry.IPAddress = utils.ToPtr(metadata.IPAddress)
		}
		if metadata.UserAgent != "" {
			entry.UserAgent = utils.ToPtr(metadata.UserAgent)
		}
		if metadata.RequestID != "" {
			entry.RequestID = utils.ToPtr(metadata.RequestID)
		}
		if len(metadata.Additional) > 0 {
			if raw, err := json.Marshal(metadata.Additional); err == nil {
				entry.Metadata = raw
			}
		}
	}
	return auditRepo.Save(ctx, entry)
}

// ToAdminDTO converts an admin model to its response DTO.
func ToAdminDTO(admin models.Admin) dto.AdminDTO {
	return dto.AdminDTO{
		ID:          admin.ID,
		UUID:        admin.UUID.String(),
		Username:    admin.Username,
		DisplayName: admin.DisplayName,
		IsActive:    admin.IsActive,
		CreatedAt:   admin.CreatedAt.Format(time.RFC3339),
	}
}

// ToAdminSessionDTO wraps freshly issued tokens for the login response.
func ToAdminSessionDTO(accessToken, refreshToken string) dto.AdminSessionDTO {
	return dto.AdminSessionDTO{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int(utils.AccessTokenTTL.Seconds()),
		TokenType:    "Bearer",
	}
}

// ToSpotDTO converts a spot (with its team preloaded) to its response DTO.
func ToSpotDTO(spot models.Spot) dto.SpotDTO {
	d := dto.SpotDTO{
		ID:    spot.ID,
		Price: utils.RoundMoney(spot.Price),
		Sold:  utils.IsTrue(spot.Sold),
	}
	if spot.Team != nil {
		d.TeamName = spot.Team.Name
		d.Multiplier = spot.Team.Multiplier
		d.Tier = spot.Team.Tier()
	}
	return d
}

// ToBreakDTO converts a break model to its response DTO.
func ToBreakDTO(b models.Break) dto.BreakDTO {
	return dto.BreakDTO{
		UUID:              b.UUID.String(),
		Title:             b.Title,
		Sport:             b.Sport,
		Status:            b.Status,
		CostTotal:         utils.RoundMoney(b.CostTotal),
		ProfitMarginPct:   b.ProfitMarginPct,
		CustomModifierPct: b.CustomModifierPct,
		SpotPrice:         utils.RoundMoney(b.SpotPrice),
		SpotCount:         b.SpotCount,
		ScheduledAt:       formatTimePtr(b.ScheduledAt),
		CreatedAt:         b.CreatedAt.Format(time.RFC3339),
	}
}

func formatTimePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339)
}
