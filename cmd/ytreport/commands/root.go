package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/yt-insights/ytreport/internal/api"
	"github.com/yt-insights/ytreport/internal/config"
	"github.com/yt-insights/ytreport/internal/models"
)

// ArchiveOpener connects to the report archive and returns a cleanup func
type ArchiveOpener func(dsn string) (api.ReportArchive, func(), error)

// Dependencies are the collaborators shared by every command
type Dependencies struct {
	Config      *config.Config
	Providers   api.ProviderFactory
	OpenArchive ArchiveOpener
	Timeout     time.Duration
}

// OpenSQLiteCloudArchive is the ArchiveOpener backed by SQLite Cloud
func OpenSQLiteCloudArchive(dsn string) (api.ReportArchive, func(), error) {
	db, err := models.NewDatabase(dsn)
	if err != nil {
		return nil, nil, err
	}
	return db, func() { db.Close() }, nil
}

// NewRootCommand builds the ytreport command tree
func NewRootCommand(deps *Dependencies) *cobra.Command {
	root := &cobra.Command{
		Use:           "ytreport",
		Short:         "YouTube channel engagement reports",
		Long:          `Resolve a YouTube channel, sample its recent uploads and export engagement reports as CSV or PDF.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().String("api-key", "", "YouTube Data API key (overrides YOUTUBE_API_KEY)")

	root.AddCommand(NewReportCommand(deps))
	root.AddCommand(NewExportCommand(deps))
	root.AddCommand(NewHistoryCommand(deps))
	root.AddCommand(NewServeCommand(deps))
	return root
}

// apiKey returns the --api-key flag or the configured key
func apiKey(cmd *cobra.Command, deps *Dependencies) string {
	if key, _ := cmd.Flags().GetString("api-key"); strings.TrimSpace(key) != "" {
		return strings.TrimSpace(key)
	}
	return deps.Config.YouTubeAPIKey
}

func commandContext(deps *Dependencies) (context.Context, context.CancelFunc) {
	timeout := deps.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return context.WithTimeout(context.Background(), timeout)
}

// runSession builds a report for channel with the command's key and the configured limits
func runSession(cmd *cobra.Command, deps *Dependencies, channel string) (*models.Report, error) {
	key := apiKey(cmd, deps)
	if key == "" {
		return nil, fmt.Errorf("%w (set --api-key or YOUTUBE_API_KEY)", config.ErrMissingAPIKey)
	}

	ctx, cancel := commandContext(deps)
	defer cancel()

	provider, err := deps.Providers(ctx, key)
	if err != nil {
		return nil, err
	}

	session := api.NewSession(provider, api.SessionOptions{
		Uploads: api.UploadOptions{MaxItems: deps.Config.MaxUploads, MaxPages: deps.Config.MaxUploadPages},
		Batch:   api.BatchOptions{Strict: deps.Config.StrictBatch},
	})
	return session.Run(ctx, channel)
}

// withArchive opens the configured archive, or returns nil when none is configured
func withArchive(deps *Dependencies) (api.ReportArchive, func(), error) {
	if deps.Config.ArchiveDSN == "" || deps.OpenArchive == nil {
		return nil, func() {}, nil
	}
	return deps.OpenArchive(deps.Config.ArchiveDSN)
}
