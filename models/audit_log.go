package models

import (
	"encoding/json"
	"time"
)

// AuditLog is an append-only record of admin and checkout actions.
// Table: audit_log
type AuditLog struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	AdminID      *uint           `gorm:"index:idx_audit_admin_id" json:"admin_id,omitempty"`
	Admin        *Admin          `gorm:"foreignKey:AdminID;references:ID" json:"admin,omitempty"`
	Action       string          `gorm:"size:64;not null;index:idx_audit_action" json:"action"`
	Description  *string         `gorm:"type:text" json:"description,omitempty"`
	IPAddress    *string         `gorm:"type:inet;index:idx_audit_ip_address" json:"ip_address,omitempty"`
	UserAgent    *string         `gorm:"type:text" json:"user_agent,omitempty"`
	RequestID    *string         `gorm:"size:255;index:idx_audit_request_id" json:"request_id,omitempty"`
	Metadata     json.RawMessage `gorm:"type:jsonb" json:"metadata,omitempty"`
	Success      *bool           `gorm:"default:true;index:idx_audit_success" json:"success"`
	ErrorMessage *string         `gorm:"type:text" json:"error_message,omitempty"`
	CreatedAt    time.Time       `gorm:"default:CURRENT_TIMESTAMP;index:idx_audit_created_at" json:"created_at"`
}

func (AuditLog) TableName() string {
	return "audit_log"
}

// Audit action constants
const (
	AuditActionAdminLoginSuccess = "admin_login_success"
	AuditActionAdminLoginFailed  = "admin_login_failed"

	AuditActionBreakCreated   = "break_created"
	AuditActionBreakUpdated   = "break_updated"
	AuditActionBreakDeleted   = "break_deleted"
	AuditActionBreakRepriced  = "break_repriced"
	AuditActionBoxAdded       = "box_added"
	AuditActionBoxRemoved     = "box_removed"
	AuditActionTeamCreated    = "team_created"
	AuditActionTeamUpdated    = "team_updated"
	AuditActionTeamDeleted    = "team_deleted"
	AuditActionProductCreated = "product_created"
	AuditActionProductUpdated = "product_updated"

	AuditActionCheckoutCompleted = "checkout_completed"
	AuditActionCheckoutFailed    = "checkout_failed"
	AuditActionCouponRedeemed    = "coupon_redeemed"
)

// AuditLogFilter represents filter criteria for audit log queries
type AuditLogFilter struct {
	ID            *uint      `json:"id,omitempty"`
	AdminID       *uint      `json:"admin_id,omitempty"`
	Action        *string    `json:"action,omitempty"`
	Success       *bool      `json:"success,omitempty"`
	CreatedAfter  *time.Time `json:"created_after,omitempty"`
	CreatedBefore *time.Time `json:"created_before,omitempty"`
}
