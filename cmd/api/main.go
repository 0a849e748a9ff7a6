package main

import (
	"errors"
	"os"

	"github.com/joho/godotenv"

	"github.com/yt-insights/ytreport/internal/api"
	"github.com/yt-insights/ytreport/internal/config"
	"github.com/yt-insights/ytreport/internal/logging"
	"github.com/yt-insights/ytreport/internal/models"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		logging.Logger.Warn().Msg(".env file not found")
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logging.Logger.Fatal().Err(err).Msg("failed to load configuration")
	}
	logging.Init(cfg.LogLevel, "ytreport-api")

	// Requests may carry their own key, so a missing server key is not fatal
	if err := cfg.Validate(); errors.Is(err, config.ErrMissingAPIKey) {
		logging.Logger.Warn().Msg("no server API key configured, requests must send " + api.APIKeyHeader)
	} else if err != nil {
		logging.Logger.Fatal().Err(err).Msg("invalid configuration")
	}

	// Initialize the optional report archive
	var archive api.ReportArchive
	if cfg.ArchiveDSN != "" {
		db, err := models.NewDatabase(cfg.ArchiveDSN)
		if err != nil {
			logging.Logger.Error().Err(err).Msg("report archive unavailable, continuing without it")
		} else {
			defer db.Close()
			archive = db
		}
	}

	server := api.NewServer(cfg, api.YouTubeProviders, archive)
	if err := server.Start(cfg.Port); err != nil {
		logging.Logger.Error().Err(err).Msg("failed to start server")
		os.Exit(1)
	}
}
