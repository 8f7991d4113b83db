// Package main provides the main entry point for the Breakroom commerce API
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/natefinch/lumberjack.v2"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/ripvault/breakroom/app/handlers"
	"github.com/ripvault/breakroom/app/middleware"
	"github.com/ripvault/breakroom/app/router"
	"github.com/ripvault/breakroom/app/services"
	businessflow "github.com/ripvault/breakroom/business_flow"
	"github.com/ripvault/breakroom/config"
	"github.com/ripvault/breakroom/models"
	"github.com/ripvault/breakroom/repository"
	"github.com/ripvault/breakroom/utils"
)

// Application represents the main application structure
type Application struct {
	router    *router.FiberRouter
	config    *config.ProductionConfig
	server    *fiber.App
	stopFuncs []func()
}

func main() {
	log.Println("Starting Breakroom application...")

	// Load production configuration
	cfg, err := config.LoadProductionConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	setupLogging(cfg.Logging)

	// Initialize application
	app, err := initializeApplication(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	// Setup routes
	app.router.SetupRoutes()

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Start server in goroutine
	go func() {
		address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		log.Printf("Server starting on %s", address)

		if err := app.server.Listen(address); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for shutdown signal
	<-sigChan
	log.Println("Shutting down gracefully...")

	// Stop background workers
	for _, fn := range app.stopFuncs {
		fn()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := app.server.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}

	log.Println("Server stopped")
}

// setupLogging routes the standard logger through a rotating file sink when configured
func setupLogging(cfg config.LoggingConfig) {
	if cfg.Output != "file" && cfg.Output != "both" {
		return
	}

	sink := &lumberjack.Logger{
		Filename:   cfg.FilePath,
		MaxSize:    cfg.MaxSize,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAge,
		Compress:   cfg.Compress,
	}

	if cfg.Output == "both" {
		log.SetOutput(io.MultiWriter(os.Stdout, sink))
		return
	}
	log.SetOutput(sink)
}

// initializeDatabase initializes the database connection with connection pooling
func initializeDatabase(cfg config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name, cfg.SSLMode)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying sql.DB for connection pooling configuration
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	// Configure connection pooling
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	// Test the connection
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Printf("Database connection established with %d max open connections, %d max idle connections",
		cfg.MaxOpenConns, cfg.MaxIdleConns)

	return db, nil
}

// initializeCache initializes the Cache client and verifies connectivity
func initializeCache(cfg config.CacheConfig) (*redis.Client, error) {
	if !cfg.Enabled || cfg.Provider != "redis" {
		return nil, nil
	}

	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	// Override DB if provided in config
	opt.DB = cfg.RedisDB

	rc := redis.NewClient(opt)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rc.Ping(ctx).Err(); err != nil {
		_ = rc.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	log.Printf("Redis connection established to %s (db=%d)", cfg.RedisURL, cfg.RedisDB)
	return rc, nil
}

// startCacheHealthMonitor starts a background goroutine that periodically pings Redis
// to detect connectivity issues. The returned cancel function stops the monitor.
func startCacheHealthMonitor(parent context.Context, client *redis.Client, interval time.Duration) func() {
	monitorCtx, cancel := context.WithCancel(parent)
	if client == nil {
		return cancel
	}
	if interval <= 0 {
		interval = 30 * time.Second
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-monitorCtx.Done():
				return
			case <-ticker.C:
				ctx, c := context.WithTimeout(context.Background(), 3*time.Second)
				if err := client.Ping(ctx).Err(); err != nil {
					log.Printf("Redis healthcheck failed: %v", err)
				}
				c()
			}
		}
	}()
	return cancel
}

// initializeNotificationService initializes the notification service
func initializeNotificationService(cfg *config.ProductionConfig) services.NotificationService {
	var emailProvider services.EmailProvider
	if cfg.Email.Host != "" {
		emailProvider = services.NewSMTPEmailProvider(cfg.Email.Host, cfg.Email.Port, cfg.Email.Username, cfg.Email.Password, cfg.Email.FromEmail)
	} else {
		emailProvider = services.NewMockEmailProvider()
	}

	return services.NewNotificationService(emailProvider)
}

// initializeApplication initializes the main application components
func initializeApplication(cfg *config.ProductionConfig) (*Application, error) {
	var stopFuncs []func()

	// Initialize database
	db, err := initializeDatabase(cfg.Database)
	if err != nil {
		return nil, err
	}

	rc, err := initializeCache(cfg.Cache)
	if err != nil {
		return nil, err
	}

	cancel := startCacheHealthMonitor(context.Background(), rc, 30*time.Second)
	stopFuncs = append(stopFuncs, cancel)

	// Initialize repositories
	breakRepo := repository.NewBreakRepository(db)
	boxRepo := repository.NewBoxRepository(db)
	teamRepo := repository.NewTeamRepository(db)
	spotRepo := repository.NewSpotRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	productRepo := repository.NewProductRepository(db)
	couponRepo := repository.NewCouponRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	orderItemRepo := repository.NewOrderItemRepository(db)
	releaseRepo := repository.NewReleaseRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	adminRepo := repository.NewAdminRepository(db)
	auditRepo := repository.NewAuditLogRepository(db)

	// Seed the back-office account
	if err := ensureDefaultAdmin(adminRepo, cfg); err != nil {
		return nil, err
	}

	// Initialize services
	notificationService := initializeNotificationService(cfg)

	// Captcha service for admin login
	captchaSvc, err := services.NewCaptchaServiceRotate(cfg.Security.CaptchaTTL, 15, 300)
	if err != nil {
		return nil, err
	}

	// Initialize token service
	tokenService, err := services.NewTokenService(
		cfg.JWT.AccessTokenTTL,
		cfg.JWT.RefreshTokenTTL,
		cfg.JWT.Issuer,
		cfg.JWT.Audience,
		cfg.JWT.UseRSAKeys,
		cfg.JWT.PrivateKey,
		cfg.JWT.PublicKey,
		cfg.JWT.SecretKey,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize token service: %w", err)
	}

	log.Printf("Token service initialized with issuer: %s, audience: %s", cfg.JWT.Issuer, cfg.JWT.Audience)

	// Initialize flows
	pricingFlow := businessflow.NewPricingFlow(
		breakRepo,
		boxRepo,
		teamRepo,
		spotRepo,
		auditRepo,
		rc,
		&cfg.Cache,
		db,
	)

	breakAdminFlow := businessflow.NewBreakAdminFlow(
		breakRepo,
		boxRepo,
		spotRepo,
		auditRepo,
		pricingFlow,
		rc,
		&cfg.Cache,
		db,
	)

	teamFlow := businessflow.NewTeamFlow(teamRepo, auditRepo)

	catalogFlow := businessflow.NewCatalogFlow(categoryRepo, productRepo, auditRepo)

	couponFlow := businessflow.NewCouponFlow(couponRepo, auditRepo)

	storefrontFlow := businessflow.NewStorefrontFlow(
		breakRepo,
		spotRepo,
		catalogFlow,
		rc,
		&cfg.Cache,
	)

	checkoutFlow := businessflow.NewCheckoutFlow(
		orderRepo,
		orderItemRepo,
		productRepo,
		spotRepo,
		breakRepo,
		couponRepo,
		couponFlow,
		auditRepo,
		notificationService,
		db,
		cfg.PayPal,
	)

	releaseFlow := businessflow.NewReleaseFlow(releaseRepo)

	taskFlow := businessflow.NewTaskFlow(taskRepo)

	listingExportFlow := businessflow.NewListingExportFlow(categoryRepo, productRepo)

	adminAuthFlow := businessflow.NewAdminAuthFlow(
		adminRepo,
		auditRepo,
		tokenService,
		captchaSvc,
	)

	// Initialize handlers
	adminAuthHandler := handlers.NewAdminAuthHandler(adminAuthFlow)
	breakAdminHandler := handlers.NewBreakAdminHandler(breakAdminFlow, pricingFlow)
	teamHandler := handlers.NewTeamHandler(teamFlow)
	catalogHandler := handlers.NewCatalogHandler(catalogFlow, listingExportFlow)
	couponHandler := handlers.NewCouponHandler(couponFlow)
	backofficeHandler := handlers.NewBackofficeHandler(releaseFlow, taskFlow)
	storefrontHandler := handlers.NewStorefrontHandler(storefrontFlow, checkoutFlow, couponFlow, releaseFlow)

	// Initialize auth middleware
	authMiddleware := middleware.NewAuthMiddleware(tokenService)

	// Initialize router
	appRouter := router.NewFiberRouter(
		cfg,
		authMiddleware,
		adminAuthHandler,
		breakAdminHandler,
		teamHandler,
		catalogHandler,
		couponHandler,
		backofficeHandler,
		storefrontHandler,
	)

	// Create application struct from FiberRouter
	fiberRouter := appRouter.(*router.FiberRouter)
	application := &Application{
		router:    fiberRouter,
		config:    cfg,
		server:    fiberRouter.GetApp(),
		stopFuncs: stopFuncs,
	}

	return application, nil
}

// ensureDefaultAdmin creates the seed back-office account when it does not exist
func ensureDefaultAdmin(adminRepo repository.AdminRepository, cfg *config.ProductionConfig) error {
	existing, err := adminRepo.ByUsername(context.Background(), cfg.Admin.Username)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}

	if cfg.Admin.Password == "" {
		log.Printf("Admin account %q does not exist and ADMIN_PASSWORD is not set; skipping seed", cfg.Admin.Username)
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.Admin.Password), cfg.Security.BcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	admin := &models.Admin{
		UUID:         uuid.New(),
		Username:     cfg.Admin.Username,
		DisplayName:  cfg.Admin.DisplayName,
		PasswordHash: string(hash),
		IsActive:     utils.ToPtr(true),
		CreatedAt:    utils.UTCNow(),
		UpdatedAt:    utils.UTCNow(),
	}
	if err := adminRepo.Save(context.Background(), admin); err != nil {
		return fmt.Errorf("failed to seed admin account: %w", err)
	}

	log.Printf("Seeded admin account %q", cfg.Admin.Username)
	return nil
}
