package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yt-insights/ytreport/internal/api"
	"github.com/yt-insights/ytreport/internal/config"
	apperrors "github.com/yt-insights/ytreport/internal/errors"
	"github.com/yt-insights/ytreport/internal/models"
)

// Mock provider
type mockProvider struct {
	ResolveChannelFunc func(ctx context.Context, name string) (string, error)
	uploads            []models.UploadItem
	stats              *models.StatisticsTable
}

func (m *mockProvider) ResolveChannel(ctx context.Context, name string) (string, error) {
	if m.ResolveChannelFunc != nil {
		return m.ResolveChannelFunc(ctx, name)
	}
	return "UC123", nil
}

func (m *mockProvider) FetchChannelProfile(ctx context.Context, channelID string) (*models.ChannelProfile, error) {
	return &models.ChannelProfile{
		ID:                channelID,
		Name:              "Example Channel",
		Subscribers:       1000,
		TotalViews:        50000,
		TotalVideos:       10,
		UploadsPlaylistID: "UU123",
	}, nil
}

func (m *mockProvider) ListUploads(ctx context.Context, playlistID string, opts api.UploadOptions) ([]models.UploadItem, error) {
	return m.uploads, nil
}

func (m *mockProvider) BatchVideoStatistics(ctx context.Context, videoIDs []string, opts api.BatchOptions) (*models.StatisticsTable, error) {
	if m.stats == nil {
		return &models.StatisticsTable{}, nil
	}
	return m.stats, nil
}

// Mock archive
type mockArchive struct {
	saved     int
	snapshots []models.ReportSnapshot
}

func (a *mockArchive) SaveReport(r *models.Report) error {
	a.saved++
	return nil
}

func (a *mockArchive) RecentReports(limit int) ([]models.ReportSnapshot, error) {
	return a.snapshots, nil
}

func populatedProvider() *mockProvider {
	return &mockProvider{
		uploads: []models.UploadItem{
			{Title: "First", VideoID: "a1", URL: models.WatchURL("a1")},
			{Title: "Second", VideoID: "b2", URL: models.WatchURL("b2")},
		},
		stats: &models.StatisticsTable{Rows: []models.VideoStatistics{
			{VideoID: "a1", Title: "First", Views: 1234567, Likes: 890, Comments: 12},
			{VideoID: "b2", Title: "Second", Views: 1000, Likes: 10, Comments: 0},
		}},
	}
}

type testEnv struct {
	deps    *Dependencies
	keys    []string
	archive *mockArchive
}

func newTestEnv(p api.Provider) *testEnv {
	env := &testEnv{archive: &mockArchive{}}
	env.deps = &Dependencies{
		Config: &config.Config{
			YouTubeAPIKey:  "config-key",
			MaxUploads:     20,
			MaxUploadPages: 1,
		},
		Providers: func(ctx context.Context, apiKey string) (api.Provider, error) {
			env.keys = append(env.keys, apiKey)
			return p, nil
		},
		OpenArchive: func(dsn string) (api.ReportArchive, func(), error) {
			return env.archive, func() {}, nil
		},
	}
	return env
}

func execute(t *testing.T, deps *Dependencies, args ...string) (string, string, error) {
	t.Helper()
	root := NewRootCommand(deps)
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func TestReportCommand(t *testing.T) {
	tests := []struct {
		name           string
		args           []string
		provider       *mockProvider
		expectedOutput []string
		wantErr        bool
	}{
		{
			name:     "text report",
			args:     []string{"report", "Example Channel"},
			provider: populatedProvider(),
			expectedOutput: []string{
				"Channel: Example Channel (UC123)",
				"Subscribers:  1,000",
				"Total Views:  50,000",
				"https://www.youtube.com/watch?v=a1",
				"Views: 1,234,567 | Likes: 890 | Comments: 12",
			},
		},
		{
			name:           "no uploads",
			args:           []string{"report", "Example Channel"},
			provider:       &mockProvider{},
			expectedOutput: []string{"Warning: No uploads found for this channel."},
		},
		{
			name: "channel not found",
			args: []string{"report", "nobody"},
			provider: &mockProvider{
				ResolveChannelFunc: func(ctx context.Context, name string) (string, error) {
					return "", apperrors.New(apperrors.CodeNotFound, "no channel found")
				},
			},
			wantErr: true,
		},
		{
			name:     "missing channel argument",
			args:     []string{"report"},
			provider: &mockProvider{},
			wantErr:  true,
		},
		{
			name:     "unsupported format",
			args:     []string{"report", "Example Channel", "--format", "xml"},
			provider: populatedProvider(),
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(tt.provider)
			stdout, _, err := execute(t, env.deps, tt.args...)

			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			for _, want := range tt.expectedOutput {
				assert.Contains(t, stdout, want)
			}
		})
	}
}

func TestReportCommand_JSON(t *testing.T) {
	env := newTestEnv(populatedProvider())
	stdout, _, err := execute(t, env.deps, "report", "Example Channel", "--format", "json")
	require.NoError(t, err)

	var out struct {
		ChannelID string               `json:"channelId"`
		Summary   models.ReportSummary `json:"summary"`
		Charts    []json.RawMessage    `json:"charts"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &out))
	assert.Equal(t, "UC123", out.ChannelID)
	assert.Equal(t, 2, out.Summary.TotalVideos)
	assert.Len(t, out.Charts, 2)
}

func TestReportCommand_APIKey(t *testing.T) {
	env := newTestEnv(populatedProvider())
	_, _, err := execute(t, env.deps, "report", "Example Channel", "--api-key", "flag-key")
	require.NoError(t, err)
	assert.Equal(t, []string{"flag-key"}, env.keys)

	env = newTestEnv(populatedProvider())
	env.deps.Config.YouTubeAPIKey = ""
	_, _, err = execute(t, env.deps, "report", "Example Channel")
	require.Error(t, err)
	assert.True(t, errors.Is(err, config.ErrMissingAPIKey))
	assert.Empty(t, env.keys)
}

func TestReportCommand_Archives(t *testing.T) {
	env := newTestEnv(populatedProvider())
	_, _, err := execute(t, env.deps, "report", "Example Channel")
	require.NoError(t, err)
	assert.Equal(t, 0, env.archive.saved)

	env.deps.Config.ArchiveDSN = "sqlitecloud://example.test/reports?apikey=secret"
	_, _, err = execute(t, env.deps, "report", "Example Channel")
	require.NoError(t, err)
	assert.Equal(t, 1, env.archive.saved)
}

func TestExportCommand(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "out.csv")
	pdfPath := filepath.Join(dir, "out.pdf")

	env := newTestEnv(populatedProvider())
	stdout, _, err := execute(t, env.deps, "export", "Example Channel", "--csv", csvPath, "--pdf", pdfPath)
	require.NoError(t, err)
	assert.Contains(t, stdout, "CSV report written to "+csvPath)
	assert.Contains(t, stdout, "PDF report written to "+pdfPath)

	csvData, err := os.ReadFile(csvPath)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(csvData)), "\n")
	assert.Equal(t, []string{
		"Video_Title,Views,Likes,Comments",
		"First,1234567,890,12",
		"Second,1000,10,0",
	}, lines)

	pdfData, err := os.ReadFile(pdfPath)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdfData, []byte("%PDF")))
}

func TestExportCommand_OnlyCSV(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "only.csv")

	env := newTestEnv(populatedProvider())
	stdout, _, err := execute(t, env.deps, "export", "Example Channel", "--csv", csvPath)
	require.NoError(t, err)
	assert.NotContains(t, stdout, "PDF report")
	assert.FileExists(t, csvPath)
}

func TestExportCommand_NoStatistics(t *testing.T) {
	env := newTestEnv(&mockProvider{})
	_, stderr, err := execute(t, env.deps, "export", "Example Channel", "--csv", filepath.Join(t.TempDir(), "x.csv"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no detailed video stats available")
	assert.Contains(t, stderr, "No uploads found")
}

func TestHistoryCommand(t *testing.T) {
	t.Run("no archive configured", func(t *testing.T) {
		env := newTestEnv(&mockProvider{})
		_, _, err := execute(t, env.deps, "history")
		assert.ErrorIs(t, err, ErrNoArchive)
	})

	t.Run("lists snapshots", func(t *testing.T) {
		env := newTestEnv(&mockProvider{})
		env.deps.Config.ArchiveDSN = "sqlitecloud://example.test/reports"
		env.archive.snapshots = []models.ReportSnapshot{{
			ChannelID:   "UC123",
			ChannelName: "Example Channel",
			Subscribers: 1000,
			TotalViews:  50000,
			VideoCount:  20,
			CreatedAt:   time.Now().Add(-2 * time.Hour),
		}}

		stdout, _, err := execute(t, env.deps, "history")
		require.NoError(t, err)
		assert.Contains(t, stdout, "Example Channel (UC123)")
		assert.Contains(t, stdout, "subscribers 1,000")
		assert.Contains(t, stdout, "views 50,000")
		assert.Contains(t, stdout, "2 hours ago")
	})

	t.Run("invalid limit", func(t *testing.T) {
		env := newTestEnv(&mockProvider{})
		_, _, err := execute(t, env.deps, "history", "--limit", "0")
		assert.Error(t, err)
	})
}

func TestFormatHistory_Empty(t *testing.T) {
	assert.Equal(t, "No archived reports.\n", FormatHistory(nil))
}

func TestNewFormatter(t *testing.T) {
	f, err := NewFormatter("text")
	require.NoError(t, err)
	assert.IsType(t, &TextFormatter{}, f)

	f, err = NewFormatter("json")
	require.NoError(t, err)
	assert.IsType(t, &JSONFormatter{}, f)

	_, err = NewFormatter("yaml")
	assert.Error(t, err)
}
