package utils

import (
	"time"
)

// ContextKey is the type for request-scoped context values set by handlers.
type ContextKey string

// Request context keys
const (
	RequestIDKey  ContextKey = "request_id"
	UserAgentKey  ContextKey = "user_agent"
	IPAddressKey  ContextKey = "ip_address"
	EndpointKey   ContextKey = "endpoint"
	TimeoutKey    ContextKey = "timeout"
	CancelFuncKey ContextKey = "cancel_func"
)

// Token and session time constants
const (
	// AccessTokenTTL is the time-to-live for admin access tokens (24 hours)
	AccessTokenTTL = 24 * time.Hour

	// RefreshTokenTTL is the time-to-live for admin refresh tokens (7 days)
	RefreshTokenTTL = 7 * 24 * time.Hour
)

// Cache keys
const (
	// LiveBreaksCacheKey caches the public live-break listing; invalidated
	// whenever a break is repriced or its status changes.
	LiveBreaksCacheKey = "storefront:breaks:live"
)

// CORS and security constants
const (
	// CORSMaxAge is the maximum age for CORS preflight requests (24 hours)
	CORSMaxAge = 86400
)

// Pricing constants
const (
	USDCurrency = "USD"

	// MaxTeamMultiplier bounds the canonical popularity scale.
	MaxTeamMultiplier = 5.0

	// InternalPriceScale is the decimal precision used for intermediate
	// pricing arithmetic; money is rounded to 2 decimals only at the DTO
	// boundary.
	InternalPriceScale = 4
)
