package main

import (
	"context"
	"os"
	"time"

	"github.com/urlcut/urlcut-backend/internal/config"
	"github.com/urlcut/urlcut-backend/internal/database"
	"github.com/urlcut/urlcut-backend/internal/services"
	"github.com/urlcut/urlcut-backend/internal/store"
	"github.com/urlcut/urlcut-backend/pkg/logger"
)

// One-shot cleanup run for external schedulers (system cron, k8s CronJob).
// The server process schedules the same job internally; this tool exists for
// deployments that prefer running it out of process.
func main() {
	config.LoadConfig()

	env := os.Getenv("GO_ENV")
	if env == "" {
		env = "development"
	}
	logger.Init(env)

	database.Connect()
	database.InitRedis()

	mappingStore := store.NewMappingStore(database.DB, config.AppConfig.KeyLength)
	dispatcher := services.NewSMTPDispatcher(
		config.AppConfig.SMTPHost,
		config.AppConfig.SMTPPort,
		config.AppConfig.SMTPUser,
		config.AppConfig.SMTPPassword,
		config.AppConfig.SMTPFrom,
	)
	reaper := services.NewExpiryReaper(mappingStore, dispatcher)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	deleted, err := reaper.Run(ctx)
	if err != nil {
		logger.Fatal().Err(err).Msg("Cleanup run failed")
	}

	logger.Info().Int64("deleted", deleted).Msg("Cleanup run finished")
}
