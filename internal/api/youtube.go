package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"

	apperrors "github.com/yt-insights/ytreport/internal/errors"
	"github.com/yt-insights/ytreport/internal/logging"
	"github.com/yt-insights/ytreport/internal/models"
)

const (
	// MaxBatchSize is the most video IDs videos.list accepts in one call.
	MaxBatchSize = 50
	// MaxPageSize is the most items playlistItems.list returns in one page.
	MaxPageSize = 50
	// DefaultMaxUploads is how many recent uploads a report samples.
	DefaultMaxUploads = 20
)

// UploadOptions bounds the Upload Lister. MaxPages > 1 follows page tokens
// until MaxItems is reached; the default is a single page.
type UploadOptions struct {
	MaxItems int
	MaxPages int
}

// BatchOptions controls the statistics batch failure policy. With Strict set,
// any failed chunk empties the whole table.
type BatchOptions struct {
	Strict bool
}

// YouTubeClient issues read-only YouTube Data API queries for one API key
type YouTubeClient struct {
	service *youtube.Service
}

// NewYouTubeClient creates a provider session for the given API key. Extra
// options are appended after the key (endpoints, HTTP clients in tests).
func NewYouTubeClient(ctx context.Context, apiKey string, opts ...option.ClientOption) (*YouTubeClient, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, apperrors.New(apperrors.CodeUnauthorized, "API key is required")
	}

	opts = append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)
	service, err := youtube.NewService(ctx, opts...)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeUnauthorized, "failed to create YouTube service")
	}

	logging.Logger.Debug().Str("api_key", logging.MaskKey(apiKey)).Msg("youtube service created")
	return &YouTubeClient{service: service}, nil
}

// ResolveChannel maps a channel name or @handle to a channel ID using a single
// channel-scoped search for one result
func (c *YouTubeClient) ResolveChannel(ctx context.Context, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", apperrors.New(apperrors.CodeInvalidArg, "channel name is required")
	}

	response, err := c.service.Search.List([]string{"snippet"}).
		Q(name).
		Type("channel").
		MaxResults(1).
		Context(ctx).
		Do()
	if err != nil {
		return "", classifyProviderError(err, "failed to search for channel")
	}

	if len(response.Items) == 0 {
		return "", apperrors.New(apperrors.CodeNotFound, fmt.Sprintf("no channel found for %q", name))
	}

	item := response.Items[0]
	var channelID string
	if item.Snippet != nil {
		channelID = item.Snippet.ChannelId
	}
	if channelID == "" && item.Id != nil {
		channelID = item.Id.ChannelId
	}
	if channelID == "" {
		return "", apperrors.New(apperrors.CodeNotFound, fmt.Sprintf("no channel found for %q", name))
	}

	logging.Logger.Debug().Str("query", name).Str("channel_id", channelID).Msg("channel resolved")
	return channelID, nil
}

// FetchChannelProfile retrieves snippet, content details and statistics for a channel
func (c *YouTubeClient) FetchChannelProfile(ctx context.Context, channelID string) (*models.ChannelProfile, error) {
	if channelID == "" {
		return nil, apperrors.New(apperrors.CodeInvalidArg, "channel ID is required")
	}

	response, err := c.service.Channels.List([]string{"snippet", "contentDetails", "statistics"}).
		Id(channelID).
		Context(ctx).
		Do()
	if err != nil {
		return nil, classifyProviderError(err, "failed to fetch channel statistics")
	}

	if len(response.Items) == 0 {
		return nil, apperrors.New(apperrors.CodeNotFound, fmt.Sprintf("channel %s not found", channelID))
	}

	return channelProfile(response.Items[0]), nil
}

func channelProfile(item *youtube.Channel) *models.ChannelProfile {
	profile := &models.ChannelProfile{ID: item.Id}
	if item.Snippet != nil {
		profile.Name = item.Snippet.Title
		profile.Description = item.Snippet.Description
	}
	// Absent statistics fields decode as zero.
	if item.Statistics != nil {
		profile.Subscribers = item.Statistics.SubscriberCount
		profile.TotalViews = item.Statistics.ViewCount
		profile.TotalVideos = item.Statistics.VideoCount
	}
	if item.ContentDetails != nil && item.ContentDetails.RelatedPlaylists != nil {
		profile.UploadsPlaylistID = item.ContentDetails.RelatedPlaylists.Uploads
	}
	return profile
}

// ListUploads retrieves the most recent items of an uploads playlist in
// provider order. On any fetch error it returns no items.
func (c *YouTubeClient) ListUploads(ctx context.Context, playlistID string, opts UploadOptions) ([]models.UploadItem, error) {
	if playlistID == "" {
		return nil, apperrors.New(apperrors.CodeInvalidArg, "uploads playlist ID is required")
	}
	if opts.MaxItems <= 0 {
		opts.MaxItems = DefaultMaxUploads
	}
	if opts.MaxPages <= 0 {
		opts.MaxPages = 1
	}

	uploads := make([]models.UploadItem, 0, min(opts.MaxItems, MaxPageSize))
	pageToken := ""

	for page := 0; page < opts.MaxPages; page++ {
		pageSize := min(opts.MaxItems-len(uploads), MaxPageSize)

		call := c.service.PlaylistItems.List([]string{"snippet", "contentDetails"}).
			PlaylistId(playlistID).
			MaxResults(int64(pageSize)).
			Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		response, err := call.Do()
		if err != nil {
			return nil, classifyProviderError(err, "failed to fetch videos")
		}

		for _, item := range response.Items {
			if upload, ok := uploadItem(item); ok {
				uploads = append(uploads, upload)
			}
		}

		pageToken = response.NextPageToken
		if pageToken == "" || len(uploads) >= opts.MaxItems {
			break
		}
	}

	if len(uploads) > opts.MaxItems {
		uploads = uploads[:opts.MaxItems]
	}
	return uploads, nil
}

func uploadItem(item *youtube.PlaylistItem) (models.UploadItem, bool) {
	if item == nil {
		return models.UploadItem{}, false
	}

	var videoID, title string
	if item.ContentDetails != nil {
		videoID = item.ContentDetails.VideoId
	}
	if item.Snippet != nil {
		title = item.Snippet.Title
		if videoID == "" && item.Snippet.ResourceId != nil {
			videoID = item.Snippet.ResourceId.VideoId
		}
	}
	if videoID == "" {
		return models.UploadItem{}, false
	}

	return models.UploadItem{
		Title:   title,
		VideoID: videoID,
		URL:     models.WatchURL(videoID),
	}, true
}

// BatchVideoStatistics fetches snippet and statistics for every video ID, one
// videos.list call per contiguous chunk of at most MaxBatchSize IDs. Rows keep
// chunk order, then provider order within a chunk.
//
// By default failed chunks are recorded in FailedChunks and the rows of the
// other chunks are kept; an error is returned only if nothing succeeded. A
// rejected API key always aborts.
func (c *YouTubeClient) BatchVideoStatistics(ctx context.Context, videoIDs []string, opts BatchOptions) (*models.StatisticsTable, error) {
	table := &models.StatisticsTable{Rows: make([]models.VideoStatistics, 0, len(videoIDs))}

	for start := 0; start < len(videoIDs); start += MaxBatchSize {
		end := min(start+MaxBatchSize, len(videoIDs))
		chunk := videoIDs[start:end]

		response, err := c.service.Videos.List([]string{"snippet", "statistics"}).
			Id(chunk...).
			Context(ctx).
			Do()
		if err != nil {
			err = classifyProviderError(err, fmt.Sprintf("failed to fetch video stats for items %d-%d", start, end-1))
			if opts.Strict || apperrors.Is(err, apperrors.CodeUnauthorized) {
				return &models.StatisticsTable{Rows: []models.VideoStatistics{}}, err
			}

			logging.Logger.Warn().Err(err).Int("start", start).Int("end", end).Msg("statistics chunk failed")
			table.FailedChunks = append(table.FailedChunks, models.ChunkRange{
				Start: start,
				End:   end,
				Error: err.Error(),
			})
			continue
		}

		for _, item := range response.Items {
			if item != nil {
				table.Rows = append(table.Rows, videoStatistics(item))
			}
		}
	}

	if len(table.FailedChunks) > 0 && len(table.Rows) == 0 {
		return table, apperrors.New(apperrors.CodeExternal,
			fmt.Sprintf("all %d statistics requests failed", len(table.FailedChunks)))
	}
	return table, nil
}

func videoStatistics(item *youtube.Video) models.VideoStatistics {
	stats := models.VideoStatistics{VideoID: item.Id}
	if item.Snippet != nil {
		stats.Title = item.Snippet.Title
	}
	if item.Statistics != nil {
		stats.Views = item.Statistics.ViewCount
		stats.Likes = item.Statistics.LikeCount
		stats.Comments = item.Statistics.CommentCount
	}
	return stats
}

// credentialReasons are googleapi error reasons that mean the key itself is unusable.
var credentialReasons = map[string]bool{
	"keyInvalid":          true,
	"keyExpired":          true,
	"accessNotConfigured": true,
	"ipRefererBlocked":    true,
}

// classifyProviderError converts a provider call error into an AppError.
// Key rejections become UNAUTHORIZED, everything else EXTERNAL_ERROR.
func classifyProviderError(err error, message string) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		if gerr.Code == http.StatusUnauthorized {
			return apperrors.Wrap(err, apperrors.CodeUnauthorized, message)
		}
		for _, item := range gerr.Errors {
			if credentialReasons[item.Reason] {
				return apperrors.Wrap(err, apperrors.CodeUnauthorized, message)
			}
		}
		if strings.Contains(gerr.Message, "API key not valid") {
			return apperrors.Wrap(err, apperrors.CodeUnauthorized, message)
		}
	}
	return apperrors.Wrap(err, apperrors.CodeExternal, message)
}
