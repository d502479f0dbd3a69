package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"

	"github.com/urlcut/urlcut-backend/internal/config"
	"github.com/urlcut/urlcut-backend/internal/database"
	"github.com/urlcut/urlcut-backend/internal/handlers"
	"github.com/urlcut/urlcut-backend/internal/middleware"
	"github.com/urlcut/urlcut-backend/internal/migrations"
	"github.com/urlcut/urlcut-backend/internal/models"
	"github.com/urlcut/urlcut-backend/internal/routes"
	"github.com/urlcut/urlcut-backend/internal/services"
	"github.com/urlcut/urlcut-backend/internal/store"
	"github.com/urlcut/urlcut-backend/pkg/logger"
)

func main() {
	// 0. Load Config & Initialize Logger
	config.LoadConfig()

	env := os.Getenv("GO_ENV")
	if env == "" {
		env = "development"
	}
	logger.Init(env)

	logger.Info().Str("environment", env).Msg("Starting urlcut backend...")

	if env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// 1. Connect Database & Redis
	database.Connect()
	database.InitRedis()

	logger.Info().Msg("🔄 Running database migrations...")
	if err := database.DB.AutoMigrate(&models.User{}, &models.Mapping{}); err != nil {
		logger.Fatal().Err(err).Msg("Failed to migrate tables")
	}
	if err := migrations.NewMigrator(database.DB).Run(); err != nil {
		logger.Fatal().Err(err).Msg("Failed to run migrations")
	}
	logger.Info().Msg("✅ Database migrations complete")

	// 2. Wire core services
	mappingStore := store.NewMappingStore(database.DB, config.AppConfig.KeyLength)
	guestExpiry := time.Duration(config.AppConfig.GuestExpiryHours) * time.Hour
	mappingSvc := services.NewMappingService(mappingStore, guestExpiry)
	handlers.InitMappings(mappingSvc, config.AppConfig.BaseURL)

	dispatcher := services.NewSMTPDispatcher(
		config.AppConfig.SMTPHost,
		config.AppConfig.SMTPPort,
		config.AppConfig.SMTPUser,
		config.AppConfig.SMTPPassword,
		config.AppConfig.SMTPFrom,
	)
	reaper := services.NewExpiryReaper(mappingStore, dispatcher)

	// 3. Schedule the cleanup job
	scheduler := cron.New()
	_, err := scheduler.AddFunc(config.AppConfig.CleanupSchedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		deleted, err := reaper.Run(ctx)
		if err != nil {
			logger.Error().Err(err).Msg("Cleanup run failed")
			return
		}
		logger.Info().Int64("deleted", deleted).Msg("Cleanup run finished")
	})
	if err != nil {
		logger.Fatal().Err(err).Str("schedule", config.AppConfig.CleanupSchedule).Msg("Invalid cleanup schedule")
	}
	scheduler.Start()
	defer scheduler.Stop()

	// 4. Setup Router
	r := gin.New()

	r.Use(middleware.LoggingMiddleware())
	r.Use(middleware.ErrorHandlerMiddleware())
	r.Use(gin.Recovery())
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORSMiddleware())
	r.Use(middleware.GeneralRateLimit())

	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		auth.Use(middleware.AuthRateLimit())
		routes.RegisterAuthRoutes(auth)

		routes.RegisterMappingRoutes(api)
	}

	// Health check with DB and Redis status
	r.GET("/health", func(c *gin.Context) {
		dbStatus := "ok"
		redisStatus := "ok"

		sqlDB, err := database.DB.DB()
		if err != nil || sqlDB.Ping() != nil {
			dbStatus = "error"
		}

		if database.Redis != nil {
			if _, err := database.Redis.Ping(context.Background()).Result(); err != nil {
				redisStatus = "error"
			}
		} else {
			redisStatus = "not configured"
		}

		status := "ok"
		if dbStatus != "ok" || (redisStatus != "ok" && redisStatus != "not configured") {
			status = "degraded"
		}

		c.JSON(200, gin.H{
			"status": status,
			"checks": gin.H{
				"database": dbStatus,
				"redis":    redisStatus,
			},
		})
	})

	// Redirect wildcard goes last
	routes.RegisterRedirectRoutes(r)

	// 5. Start Server with graceful shutdown
	port := config.AppConfig.Port
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Str("port", port).Str("env", env).Msg("Server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("🛑 Shutting down server gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Info().Msg("✅ Server exited gracefully")
}
