package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/GTDGit/offline_console/internal/cache"
	"github.com/GTDGit/offline_console/internal/config"
	"github.com/GTDGit/offline_console/internal/database"
	"github.com/GTDGit/offline_console/internal/handler"
	"github.com/GTDGit/offline_console/internal/middleware"
	"github.com/GTDGit/offline_console/internal/repository"
	"github.com/GTDGit/offline_console/internal/service"
	"github.com/GTDGit/offline_console/internal/utils"
	"github.com/GTDGit/offline_console/internal/worker"
	"github.com/GTDGit/offline_console/pkg/offline"
	"github.com/GTDGit/offline_console/pkg/postal"
)

const rateLimitCleanupInterval = 5 * time.Minute

// main is the entrypoint of the offline admin console backend.
func main() {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// 2. Setup logger
	setupLogger(cfg.Env)
	log.Info().Str("env", cfg.Env).Msg("starting offline console")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 3. Connect database (optional, backs the activity log)
	var activityRepo *repository.ActivityLogRepository
	if cfg.DB.Enabled() {
		db, err := database.Connect(&cfg.DB)
		if err != nil {
			log.Error().Err(err).Msg("database connection failed")
			fmt.Fprintf(os.Stderr, "database connection failed: %v\n", err)
			os.Exit(1)
		}
		defer db.Close()

		if err := database.Migrate(db.DB); err != nil {
			log.Error().Err(err).Msg("migration failed")
			fmt.Fprintf(os.Stderr, "migration failed: %v\n", err)
			os.Exit(1)
		}
		log.Info().Msg("migrations completed successfully")
		activityRepo = repository.NewActivityLogRepository(db)
	} else {
		log.Warn().Msg("DB_HOST not set - activity log disabled")
	}

	// 4. Connect to Redis
	redisClient, err := cache.NewRedisClient(&cfg.Redis)
	if err != nil {
		log.Error().Err(err).Msg("redis connection failed")
		fmt.Fprintf(os.Stderr, "redis connection failed: %v\n", err)
		os.Exit(1)
	}
	defer redisClient.Close()
	log.Info().Msg("redis connected successfully")
	sessionCache := cache.NewSessionCache(redisClient, cfg.Redis.SessionTTL)

	// 5. Initialize remote clients
	offlineClient := offline.NewClient(cfg.OfflineAPI.BaseURL, cfg.OfflineAPI.Timeout)
	postalClient := postal.NewClient(cfg.Postal.BaseURL, cfg.Postal.Country)

	documentSvc, err := service.NewDocumentService(ctx, &cfg.S3)
	if err != nil {
		log.Warn().Err(err).Msg("document service initialization failed - invoice documents will be unavailable")
	}

	// 6. Initialize services
	tokens := utils.NewTokenIssuer(cfg.JWTSecret, cfg.JWTTTL)
	authSvc := service.NewAuthService(cfg.Admin, tokens, sessionCache)
	activitySvc := service.NewActivityService(activityRepo)
	preferenceSvc := service.NewPreferenceService(sessionCache)
	workspaces := service.NewWorkspaceRegistry(
		offlineClient, postalClient, documentSvc, activitySvc, sessionCache,
		cfg.Screens, cfg.Workspace.IdleTimeout,
	)

	// 7. Initialize handlers
	rateLimiter := middleware.NewInvalidAuthRateLimiter()
	handlers := &Handlers{
		Health:     handler.NewHealthHandler(redisClient, activitySvc.Enabled(), workspaces.Len),
		Auth:       handler.NewAuthHandler(authSvc, workspaces, rateLimiter),
		Preference: handler.NewPreferenceHandler(preferenceSvc),
		Activity:   handler.NewActivityHandler(activitySvc),
		Inventory:  handler.NewInventoryHandler(workspaces),
		Stocks:     handler.NewStocksHandler(workspaces),
		Billing:    handler.NewBillingHandler(workspaces),
	}

	// 8. Initialize middleware
	jwtMw := middleware.NewJWTMiddleware(tokens, authSvc, workspaces)

	// 9. Setup router
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.MetricsMiddleware())
	router.Use(middleware.CORSMiddleware(cfg.CORSAllowedHosts))
	router.Use(middleware.LoggingMiddleware())
	setupRoutes(router, handlers, jwtMw, rateLimiter)

	// 10. Start workers
	go worker.NewWorkspaceSweeper(workspaces, cfg.Workspace.SweepInterval).Start(ctx)
	go rateLimiter.Cleanup(ctx, rateLimitCleanupInterval)

	// 11. Start HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// 12. Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// 13. Cancel context to stop workers
	cancel()

	// 14. Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited")
}

func setupLogger(env string) {
	if env == "production" {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
}
