// Package router provides HTTP routing, middleware configuration, and server setup for the web application
package router

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gofiber/fiber/v3/middleware/compress"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/helmet"
	"github.com/gofiber/fiber/v3/middleware/limiter"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/gofiber/fiber/v3/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/ripvault/breakroom/app/dto"
	"github.com/ripvault/breakroom/app/handlers"
	"github.com/ripvault/breakroom/app/middleware"
	"github.com/ripvault/breakroom/config"
	"github.com/ripvault/breakroom/utils"
)

// Router interface for HTTP routing
type Router interface {
	SetupRoutes()
	Start(address string) error
	GetApp() *fiber.App
}

// FiberRouter implements Router using Fiber v3
type FiberRouter struct {
	app               *fiber.App
	cfg               *config.ProductionConfig
	authMiddleware    *middleware.AuthMiddleware
	adminAuthHandler  handlers.AdminAuthHandlerInterface
	breakAdminHandler handlers.BreakAdminHandlerInterface
	teamHandler       handlers.TeamHandlerInterface
	catalogHandler    handlers.CatalogHandlerInterface
	couponHandler     handlers.CouponHandlerInterface
	backofficeHandler handlers.BackofficeHandlerInterface
	storefrontHandler handlers.StorefrontHandlerInterface
}

// NewFiberRouter creates a new Fiber router
func NewFiberRouter(
	cfg *config.ProductionConfig,
	authMiddleware *middleware.AuthMiddleware,
	adminAuthHandler handlers.AdminAuthHandlerInterface,
	breakAdminHandler handlers.BreakAdminHandlerInterface,
	teamHandler handlers.TeamHandlerInterface,
	catalogHandler handlers.CatalogHandlerInterface,
	couponHandler handlers.CouponHandlerInterface,
	backofficeHandler handlers.BackofficeHandlerInterface,
	storefrontHandler handlers.StorefrontHandlerInterface,
) Router {
	app := fiber.New(fiber.Config{
		AppName:      "Breakroom API",
		ServerHeader: "Breakroom",
		ErrorHandler: errorHandler,
		BodyLimit:    4 * 1024 * 1024, // 4MB
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
		JSONEncoder:  json.Marshal,
		JSONDecoder:  json.Unmarshal,
	})

	return &FiberRouter{
		app:               app,
		cfg:               cfg,
		authMiddleware:    authMiddleware,
		adminAuthHandler:  adminAuthHandler,
		breakAdminHandler: breakAdminHandler,
		teamHandler:       teamHandler,
		catalogHandler:    catalogHandler,
		couponHandler:     couponHandler,
		backofficeHandler: backofficeHandler,
		storefrontHandler: storefrontHandler,
	}
}

// SetupRoutes configures all application routes
func (r *FiberRouter) SetupRoutes() {
	log.Println("Setting up routes...")

	// Global middleware
	r.setupMiddleware()

	// Metrics exposition for Prometheus scraping
	if r.cfg == nil || r.cfg.Metrics.Enabled {
		r.app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
	}

	// API routes
	api := r.app.Group("/api/v1")

	// Health check route (no rate limiting)
	api.Get("/health", r.healthCheck)

	// Apply general rate limiting to all API routes (aligned with nginx)
	api.Use(limiter.New(limiter.Config{
		Max:        2000,            // Maximum 2000 requests (matches nginx api zone)
		Expiration: 1 * time.Minute, // Per minute
		KeyGenerator: func(c fiber.Ctx) string {
			return c.IP() // Rate limit by IP
		},
		LimitReached: func(c fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(dto.APIResponse{
				Success: false,
				Message: "Too many requests. Please try again later.",
				Error: dto.ErrorDetail{
					Code: "RATE_LIMIT_EXCEEDED",
				},
			})
		},
		Next: func(c fiber.Ctx) bool {
			// Skip rate limiting for health checks
			return c.Path() == "/api/v1/health"
		},
	}))

	// Public storefront endpoints
	api.Get("/breaks", r.storefrontHandler.ListLiveBreaks)
	api.Get("/breaks/:uuid", r.storefrontHandler.GetLiveBreak)
	api.Get("/teams", r.teamHandler.ListTeams)
	api.Get("/categories", r.storefrontHandler.ListCategories)
	api.Get("/products", r.storefrontHandler.ListProducts)
	api.Get("/releases", r.storefrontHandler.ListUpcomingReleases)
	api.Post("/coupons/apply", r.storefrontHandler.ApplyCoupon)
	api.Post("/checkout", r.storefrontHandler.BeginCheckout)
	api.Post("/checkout/:uuid/capture", r.storefrontHandler.CaptureCheckout)
	api.Get("/orders/:uuid", r.storefrontHandler.GetOrder)

	// Admin auth routes with stricter rate limiting
	adminAuth := api.Group("/admin/auth")

	// Apply stricter rate limiting to auth endpoints (aligned with nginx)
	adminAuth.Use(limiter.New(limiter.Config{
		Max:        20,              // Maximum 20 requests (matches nginx auth zone)
		Expiration: 1 * time.Minute, // Per minute
		KeyGenerator: func(c fiber.Ctx) string {
			return c.IP() // Rate limit by IP
		},
		LimitReached: func(c fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(dto.APIResponse{
				Success: false,
				Message: "Too many requests. Please try again later.",
				Error: dto.ErrorDetail{
					Code: "RATE_LIMIT_EXCEEDED",
				},
			})
		},
	}))

	adminAuth.Get("/captcha", r.adminAuthHandler.InitCaptcha)
	adminAuth.Post("/login", r.adminAuthHandler.Login)

	// Protected admin endpoints
	admin := api.Group("/admin", r.authMiddleware.AdminAuthenticate())

	admin.Post("/breaks", r.breakAdminHandler.CreateBreak)
	admin.Get("/breaks", r.breakAdminHandler.ListBreaks)
	admin.Get("/breaks/:uuid", r.breakAdminHandler.GetBreak)
	admin.Put("/breaks/:uuid", r.breakAdminHandler.UpdateBreak)
	admin.Patch("/breaks/:uuid/status", r.breakAdminHandler.UpdateBreakStatus)
	admin.Delete("/breaks/:uuid", r.breakAdminHandler.DeleteBreak)
	admin.Post("/breaks/:uuid/boxes", r.breakAdminHandler.AddBox)
	admin.Delete("/breaks/:uuid/boxes/:box_id", r.breakAdminHandler.RemoveBox)
	admin.Post("/breaks/:uuid/recompute", r.breakAdminHandler.Recompute)
	admin.Get("/breaks/:uuid/spots", r.breakAdminHandler.ListSpots)

	admin.Post("/teams", r.teamHandler.CreateTeam)
	admin.Get("/teams", r.teamHandler.ListTeams)
	admin.Put("/teams/:uuid", r.teamHandler.UpdateTeam)
	admin.Delete("/teams/:uuid", r.teamHandler.DeleteTeam)

	admin.Post("/categories", r.catalogHandler.CreateCategory)
	admin.Get("/categories", r.catalogHandler.ListCategories)
	admin.Delete("/categories/:id", r.catalogHandler.DeleteCategory)
	admin.Post("/products", r.catalogHandler.CreateProduct)
	admin.Put("/products/:uuid", r.catalogHandler.UpdateProduct)
	admin.Delete("/products/:uuid", r.catalogHandler.DeleteProduct)
	admin.Get("/listings/export.csv", r.catalogHandler.DownloadListingsCSV)
	admin.Get("/listings/export.xlsx", r.catalogHandler.DownloadListingsExcel)

	admin.Post("/coupons", r.couponHandler.CreateCoupon)
	admin.Get("/coupons", r.couponHandler.ListCoupons)
	admin.Delete("/coupons/:code", r.couponHandler.DeleteCoupon)

	admin.Post("/releases", r.backofficeHandler.CreateRelease)
	admin.Get("/releases", r.backofficeHandler.ListUpcomingReleases)
	admin.Put("/releases/:id", r.backofficeHandler.UpdateRelease)
	admin.Delete("/releases/:id", r.backofficeHandler.DeleteRelease)

	admin.Post("/tasks", r.backofficeHandler.CreateTask)
	admin.Get("/tasks", r.backofficeHandler.ListOpenTasks)
	admin.Put("/tasks/:id", r.backofficeHandler.UpdateTask)
	admin.Delete("/tasks/:id", r.backofficeHandler.DeleteTask)

	// Not found handler
	r.app.Use(r.notFoundHandler)

	log.Println("Routes configured successfully")
}

// SetupMiddleware configures global middleware
func (r *FiberRouter) setupMiddleware() {
	// Request ID middleware - must be first
	r.app.Use(requestid.New(requestid.Config{
		Header: "X-Request-ID",
		Generator: func() string {
			return generateRequestID()
		},
	}))

	// Security headers middleware
	r.app.Use(helmet.New(helmet.Config{
		XSSProtection:             "1; mode=block",
		ContentTypeNosniff:        "nosniff",
		XFrameOptions:             "DENY",
		HSTSMaxAge:                31536000, // 1 year
		HSTSExcludeSubdomains:     false,
		ContentSecurityPolicy:     "default-src 'self'; script-src 'self' 'unsafe-inline'; style-src 'self' 'unsafe-inline'; img-src 'self' data: https:; font-src 'self' https:; connect-src 'self' https:; frame-ancestors 'none';",
		ReferrerPolicy:            "strict-origin-when-cross-origin",
		CrossOriginEmbedderPolicy: "require-corp",
		CrossOriginOpenerPolicy:   "same-origin",
		CrossOriginResourcePolicy: "cross-origin",
		OriginAgentCluster:        "?1",
		XDNSPrefetchControl:       "off",
		XDownloadOptions:          "noopen",
		XPermittedCrossDomain:     "none",
	}))

	// CORS middleware with production settings
	allowOrigins := []string{
		"https://ripvault.com",
		"https://www.ripvault.com",
		"https://admin.ripvault.com",
	}
	if r.cfg != nil && len(r.cfg.Server.AllowedOrigins) > 0 {
		allowOrigins = r.cfg.Server.AllowedOrigins
	}
	r.app.Use(cors.New(cors.Config{
		AllowOrigins: allowOrigins,
		AllowMethods: []string{
			"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS",
		},
		AllowHeaders: []string{
			"Origin",
			"Content-Type",
			"Accept",
			"Authorization",
			"X-Requested-With",
			"X-Request-ID",
			"Cache-Control",
		},
		ExposeHeaders: []string{
			"X-Request-ID",
			"X-Response-Time",
			"Content-Disposition",
		},
		AllowCredentials: true,
		MaxAge:           utils.CORSMaxAge,
	}))

	// Compression middleware for performance
	r.app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
		Next: func(c fiber.Ctx) bool {
			// Skip compression for certain content types
			contentType := c.Get("Content-Type")
			return contains(contentType, "image/") ||
				contains(contentType, "video/") ||
				contains(contentType, "audio/")
		},
	}))

	// Advanced logging middleware
	r.app.Use(logger.New(logger.Config{
		Format:     `{"time":"${time}","pid":"${pid}","request_id":"${locals:requestid}","level":"info","method":"${method}","path":"${path}","protocol":"${protocol}","ip":"${ip}","user_agent":"${ua}","status":${status},"latency":"${latency}","bytes_in":${bytesReceived},"bytes_out":${bytesSent},"referer":"${referer}"}` + "\n",
		TimeFormat: time.RFC3339,
		TimeZone:   "UTC",
		Next: func(c fiber.Ctx) bool {
			// Skip logging for health checks in production
			return c.Path() == "/api/v1/health"
		},
	}))

	// Prometheus request metrics
	r.app.Use(middleware.Metrics())

	// Custom security middleware
	r.app.Use(r.securityMiddleware)

	// Recovery middleware with custom error handling
	r.app.Use(recover.New(recover.Config{
		EnableStackTrace: true,
		StackTraceHandler: func(c fiber.Ctx, e interface{}) {
			// Log panic with request context
			log.Printf(`{"time":"%s","level":"error","request_id":"%s","event":"panic","error":"%v","path":"%s","method":"%s","ip":"%s"}`,
				utils.UTCNow().Format(time.RFC3339),
				c.Locals("requestid"),
				e,
				c.Path(),
				c.Method(),
				c.IP(),
			)
		},
	}))
}

// Custom security middleware
func (r *FiberRouter) securityMiddleware(c fiber.Ctx) error {
	// Add security headers
	c.Set("X-Response-Time", utils.UTCNow().Format(time.RFC3339))
	c.Set("Server", "Breakroom")

	// IP blocklist (if configured)
	if r.cfg != nil && len(r.cfg.Server.BlockedIPs) > 0 {
		clientIP := c.IP()
		for _, blockedIP := range r.cfg.Server.BlockedIPs {
			if clientIP == blockedIP {
				return c.Status(fiber.StatusForbidden).JSON(dto.APIResponse{
					Success: false,
					Message: "Access denied from this IP address",
					Error: dto.ErrorDetail{
						Code: "ACCESS_DENIED",
					},
				})
			}
		}
	}

	return c.Next()
}

// Start starts the HTTP server
func (r *FiberRouter) Start(address string) error {
	log.Printf("Starting server on %s", address)
	return r.app.Listen(address)
}

// GetApp returns the Fiber app instance
func (r *FiberRouter) GetApp() *fiber.App {
	return r.app
}

// Health check endpoint
func (r *FiberRouter) healthCheck(c fiber.Ctx) error {
	return c.JSON(dto.APIResponse{
		Success: true,
		Message: "Service is healthy",
		Data: fiber.Map{
			"status":    "ok",
			"timestamp": utils.UTCNow().Unix(),
			"version":   "1.0.0",
			"service":   "breakroom-api",
		},
	})
}

// Not found handler
func (r *FiberRouter) notFoundHandler(c fiber.Ctx) error {
	requestID := c.Locals("requestid")

	return c.Status(fiber.StatusNotFound).JSON(dto.APIResponse{
		Success: false,
		Message: "The requested resource was not found",
		Error: dto.ErrorDetail{
			Code: "NOT_FOUND",
			Details: fiber.Map{
				"path":       c.Path(),
				"method":     c.Method(),
				"request_id": requestID,
			},
		},
	})
}

// Global error handler
func errorHandler(c fiber.Ctx, err error) error {
	// Default error code
	code := fiber.StatusInternalServerError

	// Retrieve the custom status code if it's a fiber.*Error
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	// Log the error
	log.Printf("Error %d: %v", code, err)

	// Get RequestID for tracing
	requestID := c.Locals("requestid")

	// Return JSON error response
	return c.Status(code).JSON(dto.APIResponse{
		Success: false,
		Message: "An internal server error occurred",
		Error: dto.ErrorDetail{
			Code: "INTERNAL_ERROR",
			Details: fiber.Map{
				"timestamp":  utils.UTCNow().Unix(),
				"request_id": requestID,
			},
		},
	})
}

// Helper functions

// generateRequestID creates a unique request ID
func generateRequestID() string {
	bytes := make([]byte, 8)
	rand.Read(bytes)
	return hex.EncodeToString(bytes)
}

// contains checks if a string contains a substring
func contains(str, substr string) bool {
	return strings.Contains(str, substr)
}
