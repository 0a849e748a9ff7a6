package api

import (
	"context"
	"fmt"
	"strings"
	"time"

	apperrors "github.com/yt-insights/ytreport/internal/errors"
	"github.com/yt-insights/ytreport/internal/logging"
	"github.com/yt-insights/ytreport/internal/models"
)

// Provider is the read-only channel data source a Session drives
type Provider interface {
	ResolveChannel(ctx context.Context, name string) (string, error)
	FetchChannelProfile(ctx context.Context, channelID string) (*models.ChannelProfile, error)
	ListUploads(ctx context.Context, playlistID string, opts UploadOptions) ([]models.UploadItem, error)
	BatchVideoStatistics(ctx context.Context, videoIDs []string, opts BatchOptions) (*models.StatisticsTable, error)
}

// SessionOptions configures the upload sample and batch policy of a Session
type SessionOptions struct {
	Uploads UploadOptions
	Batch   BatchOptions
	// Now stamps reports; defaults to time.Now.
	Now func() time.Time
}

// Session runs the report stages in order against one provider
type Session struct {
	provider Provider
	opts     SessionOptions
}

// NewSession creates a Session bound to a provider
func NewSession(provider Provider, opts SessionOptions) *Session {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Session{provider: provider, opts: opts}
}

// Run resolves the channel, fetches its profile, lists recent uploads and
// batches their statistics.
//
// A rejected key, an unknown channel or a failed profile fetch stop the run
// with an error. Failures of the later stages are recorded as report warnings
// and leave the affected data empty.
func (s *Session) Run(ctx context.Context, channelName string) (*models.Report, error) {
	channelName = strings.TrimSpace(channelName)
	if channelName == "" {
		return nil, apperrors.New(apperrors.CodeInvalidArg, "channel name is required")
	}

	log := logging.Logger.With().Str("channel", channelName).Logger()

	channelID, err := s.provider.ResolveChannel(ctx, channelName)
	if err != nil {
		if apperrors.Is(err, apperrors.CodeNotFound) {
			log.Info().Msg("channel not found")
			return nil, err
		}
		log.Error().Err(err).Msg("channel resolution failed")
		return nil, err
	}
	log = log.With().Str("channel_id", channelID).Logger()

	profile, err := s.provider.FetchChannelProfile(ctx, channelID)
	if err != nil {
		log.Error().Err(err).Msg("could not fetch channel statistics")
		return nil, err
	}

	report := &models.Report{
		ChannelID:   channelID,
		Profile:     profile,
		Uploads:     []models.UploadItem{},
		Statistics:  &models.StatisticsTable{Rows: []models.VideoStatistics{}},
		GeneratedAt: s.opts.Now().UTC(),
	}

	uploads, err := s.provider.ListUploads(ctx, profile.UploadsPlaylistID, s.opts.Uploads)
	if err != nil {
		if apperrors.Is(err, apperrors.CodeUnauthorized) {
			return nil, err
		}
		log.Warn().Err(err).Msg("upload listing failed")
		report.Warnings = append(report.Warnings, fmt.Sprintf("Error fetching videos: %v", err))
		return report, nil
	}
	if len(uploads) == 0 {
		report.Warnings = append(report.Warnings, "No uploads found for this channel.")
		return report, nil
	}
	report.Uploads = uploads

	table, err := s.provider.BatchVideoStatistics(ctx, report.VideoIDs(), s.opts.Batch)
	if err != nil {
		if apperrors.Is(err, apperrors.CodeUnauthorized) {
			return nil, err
		}
		log.Warn().Err(err).Msg("statistics batch failed")
		report.Warnings = append(report.Warnings, fmt.Sprintf("Error fetching video stats: %v", err))
		return report, nil
	}
	if table != nil {
		report.Statistics = table
	}

	for _, chunk := range report.Statistics.FailedChunks {
		report.Warnings = append(report.Warnings,
			fmt.Sprintf("Statistics unavailable for videos %d-%d: %s", chunk.Start+1, chunk.End, chunk.Error))
	}
	if report.Statistics.Empty() {
		report.Warnings = append(report.Warnings, "No detailed video stats available.")
	}

	log.Info().
		Int("uploads", len(report.Uploads)).
		Int("rows", len(report.Statistics.Rows)).
		Int("failed_chunks", len(report.Statistics.FailedChunks)).
		Msg("report built")
	return report, nil
}
