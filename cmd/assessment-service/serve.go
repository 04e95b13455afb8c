package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/SAP-F-2025/talentflow-assessment/internal/cache"
	"github.com/SAP-F-2025/talentflow-assessment/internal/config"
	"github.com/SAP-F-2025/talentflow-assessment/internal/handlers"
	"github.com/SAP-F-2025/talentflow-assessment/internal/repositories/postgres"
	"github.com/SAP-F-2025/talentflow-assessment/internal/services"
	"github.com/SAP-F-2025/talentflow-assessment/internal/utils"
	"github.com/SAP-F-2025/talentflow-assessment/internal/validator"
	"github.com/SAP-F-2025/talentflow-assessment/pkg"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func runServe(ctx context.Context) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := utils.NewLogger(cfg.Environment)
	slogger := utils.ToSlogLogger(logger)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
		if !cfg.Casdoor.Enabled() {
			return errors.New("casdoor must be configured in production")
		}
	}

	initCtx, initCancel := context.WithTimeout(ctx, 30*time.Second)
	defer initCancel()

	db, err := pkg.InitDatabase(initCtx, cfg)
	if err != nil {
		return err
	}
	if err := postgres.AutoMigrate(db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	logger.Info("Database connected")

	var assessmentCache *cache.AssessmentCache
	redisClient, err := pkg.NewRedisClient(initCtx, cfg)
	if err != nil {
		logger.Warn("Redis unavailable, assessment cache disabled", "error", err)
	} else {
		defer redisClient.Close()
		assessmentCache = cache.NewAssessmentCache(cache.NewRedisCache(redisClient, slogger), cfg.CacheTTL, slogger)
		// entries written before a migration may not match the current schema
		if err := assessmentCache.Flush(initCtx); err != nil {
			logger.Warn("Failed to flush assessment cache", "error", err)
		}
	}

	publisher, err := cfg.Events.CreateEventPublisher(slogger)
	if err != nil {
		return fmt.Errorf("failed to create event publisher: %w", err)
	}
	defer publisher.Close()

	manager := services.NewServiceManager(postgres.NewRepository(db), assessmentCache, publisher, slogger, validator.New())
	auth := handlers.NewAuthenticator(cfg.Casdoor, logger)
	router := handlers.NewRouter(handlers.NewHandlerManager(manager, auth, logger), logger)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("HTTP server starting", "addr", httpServer.Addr, "environment", cfg.Environment)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		return fmt.Errorf("HTTP server error: %w", err)
	case <-quit:
	}

	logger.Info("Shutting down gracefully")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", "error", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}

	logger.Info("Assessment service stopped")
	return nil
}
