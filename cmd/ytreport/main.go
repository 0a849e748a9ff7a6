package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/yt-insights/ytreport/cmd/ytreport/commands"
	"github.com/yt-insights/ytreport/internal/api"
	"github.com/yt-insights/ytreport/internal/config"
	"github.com/yt-insights/ytreport/internal/logging"
)

func main() {
	// .env is optional
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	logging.Init(cfg.LogLevel, "ytreport-cli")
	if err := cfg.Validate(); err != nil && !errors.Is(err, config.ErrMissingAPIKey) {
		fmt.Fprintf(os.Stderr, "Error: invalid configuration: %v\n", err)
		os.Exit(1)
	}

	root := commands.NewRootCommand(&commands.Dependencies{
		Config:      cfg,
		Providers:   api.YouTubeProviders,
		OpenArchive: commands.OpenSQLiteCloudArchive,
	})
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
