// Package businessflow contains the core business logic and use cases for authentication workflows
package businessflow

import (
	"context"
	"fmt"

	"github.com/ripvault/breakroom/app/dto"
	"github.com/ripvault/breakroom/app/services"
	"github.com/ripvault/breakroom/models"
	"github.com/ripvault/breakroom/repository"
	"github.com/ripvault/breakroom/utils"
	"golang.org/x/crypto/bcrypt"
)

// AdminAuthFlow represents the back-office authentication flow used by handlers
type AdminAuthFlow interface {
	InitCaptcha(ctx context.Context) (*dto.AdminCaptchaInitResponse, error)
	Login(ctx context.Context, req *dto.AdminLoginRequest, metadata *ClientMetadata) (*dto.AdminLoginResponse, error)
}

// AdminAuthFlowImpl provides captcha-init and admin credential verification
type AdminAuthFlowImpl struct {
	adminRepo    repository.AdminRepository
	auditRepo    repository.AuditLogRepository
	tokenService services.TokenService
	captchaSvc   services.CaptchaService
}

func NewAdminAuthFlow(
	adminRepo repository.AdminRepository,
	auditRepo repository.AuditLogRepository,
	tokenService services.TokenService,
	captchaSvc services.CaptchaService,
) AdminAuthFlow {
	return &AdminAuthFlowImpl{
		adminRepo:    adminRepo,
		auditRepo:    auditRepo,
		tokenService: tokenService,
		captchaSvc:   captchaSvc,
	}
}

func (af *AdminAuthFlowImpl) InitCaptcha(ctx context.Context) (*dto.AdminCaptchaInitResponse, error) {
	if af.captchaSvc == nil {
		return nil, NewBusinessError("CAPTCHA_NOT_AVAILABLE", "Captcha service not available", ErrCaptchaNotAvailable)
	}
	ch, err := af.captchaSvc.GenerateRotate(ctx)
	if err != nil {
		return nil, NewBusinessError("CAPTCHA_INIT_FAILED", "Failed to initialize captcha", err)
	}
	return &dto.AdminCaptchaInitResponse{
		ChallengeID:       ch.ID,
		MasterImageBase64: ch.MasterImageBase64,
		ThumbImageBase64:  ch.ThumbImageBase64,
	}, nil
}

// Login verifies the captcha and credentials, touches the last-login stamp
// and issues a token pair.
func (af *AdminAuthFlowImpl) Login(ctx context.Context, req *dto.AdminLoginRequest, metadata *ClientMetadata) (*dto.AdminLoginResponse, error) {
	// Validate request
	if req == nil {
		return nil, NewBusinessError("ADMIN_LOGIN_VALIDATION_FAILED", "Admin login validation failed", ErrAdminNotFound)
	}
	if len(req.Username) == 0 || len(req.Password) == 0 {
		return nil, NewBusinessError("ADMIN_LOGIN_VALIDATION_FAILED", "Admin login validation failed", ErrIncorrectPassword)
	}
	if len(req.ChallengeID) == 0 {
		return nil, NewBusinessError("CAPTCHA_INVALID", "Captcha challenge missing", ErrInvalidCaptcha)
	}

	// Verify captcha first
	if af.captchaSvc == nil || !af.captchaSvc.VerifyRotate(ctx, req.ChallengeID, req.UserAngle) {
		return nil, NewBusinessError("CAPTCHA_INVALID", "Captcha validation failed", ErrInvalidCaptcha)
	}

	// Lookup admin
	admin, err := af.adminRepo.ByUsername(ctx, req.Username)
	if err != nil {
		return nil, NewBusinessError("ADMIN_LOOKUP_FAILED", "Failed to lookup admin", err)
	}
	if admin == nil {
		af.auditLoginFailure(ctx, nil, req.Username, ErrAdminNotFound, metadata)
		return nil, NewBusinessError("ADMIN_NOT_FOUND", "Admin not found", ErrAdminNotFound)
	}
	if !utils.IsTrue(admin.IsActive) {
		af.auditLoginFailure(ctx, &admin.ID, req.Username, ErrAdminInactive, metadata)
		return nil, NewBusinessError("ADMIN_INACTIVE", "Admin account is inactive", ErrAdminInactive)
	}

	// Verify password
	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(req.Password)); err != nil {
		af.auditLoginFailure(ctx, &admin.ID, req.Username, ErrIncorrectPassword, metadata)
		return nil, NewBusinessError("ADMIN_INCORRECT_PASSWORD", "Incorrect password", ErrIncorrectPassword)
	}

	// Generate admin tokens
	accessToken, refreshToken, err := af.tokenService.GenerateAdminTokens(admin.ID)
	if err != nil {
		return nil, NewBusinessError("TOKEN_GENERATION_FAILED", "Failed to generate tokens", err)
	}

	if err := af.adminRepo.TouchLastLogin(ctx, admin.ID, utils.UTCNow()); err != nil {
		return nil, NewBusinessError("ADMIN_LOGIN_FAILED", "Failed to record login", err)
	}

	desc := fmt.Sprintf("Admin %s logged in", admin.Username)
	_ = createAuditLog(ctx, af.auditRepo, &admin.ID, models.AuditActionAdminLoginSuccess, desc, true, nil, metadata)

	resp := &dto.AdminLoginResponse{
		Admin:   ToAdminDTO(*admin),
		Session: ToAdminSessionDTO(accessToken, refreshToken),
	}
	return resp, nil
}

func (af *AdminAuthFlowImpl) auditLoginFailure(ctx context.Context, adminID *uint, username string, cause error, metadata *ClientMetadata) {
	errMsg := fmt.Sprintf("Admin login failed for %s: %s", username, cause.Error())
	_ = createAuditLog(ctx, af.auditRepo, adminID, models.AuditActionAdminLoginFailed, errMsg, false, &errMsg, metadata)
}
