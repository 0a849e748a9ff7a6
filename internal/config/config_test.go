package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points HOME at a temp dir and clears every variable Load reads.
func isolate(t *testing.T) string {
	t.Helper()
	tempDir := t.TempDir()
	t.Setenv("HOME", tempDir)
	for _, name := range []string{
		"YTREPORT_CONFIG", "YOUTUBE_API_KEY", "PORT", "LOG_LEVEL", "ARCHIVE_DSN",
		"ALLOWED_ORIGINS", "MAX_UPLOADS", "MAX_UPLOAD_PAGES", "STRICT_BATCH",
	} {
		t.Setenv(name, "")
	}
	return tempDir
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DefaultPort, cfg.Port)
	assert.Equal(t, DefaultLogLevel, cfg.LogLevel)
	assert.Equal(t, 20, cfg.MaxUploads)
	assert.Equal(t, 1, cfg.MaxUploadPages)
	assert.False(t, cfg.StrictBatch)
	assert.Empty(t, cfg.ArchiveDSN)
}

func TestLoad_ConfigFile(t *testing.T) {
	tempDir := isolate(t)
	configDir := filepath.Join(tempDir, ".ytreport")
	require.NoError(t, os.MkdirAll(configDir, 0755))

	content := `youtube_api_key: "file-key"
max_uploads: 35
strict_batch: true
allowed_origins:
  - "https://reports.example.com"
`
	require.NoError(t, os.WriteFile(filepath.Join(configDir, "config.yaml"), []byte(content), 0644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "file-key", cfg.YouTubeAPIKey)
	assert.Equal(t, 35, cfg.MaxUploads)
	assert.True(t, cfg.StrictBatch)
	assert.Equal(t, []string{"https://reports.example.com"}, cfg.AllowedOrigins)
}

func TestLoad_EnvironmentOverride(t *testing.T) {
	tempDir := isolate(t)
	path := filepath.Join(tempDir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`youtube_api_key: "file-key"`), 0644))

	t.Setenv("YTREPORT_CONFIG", path)
	t.Setenv("YOUTUBE_API_KEY", "env-key")
	t.Setenv("MAX_UPLOAD_PAGES", "3")
	t.Setenv("STRICT_BATCH", "true")
	t.Setenv("ALLOWED_ORIGINS", "http://a.test, http://b.test")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "env-key", cfg.YouTubeAPIKey)
	assert.Equal(t, 3, cfg.MaxUploadPages)
	assert.True(t, cfg.StrictBatch)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.AllowedOrigins)
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name string
		env  string
		val  string
	}{
		{"non numeric uploads", "MAX_UPLOADS", "many"},
		{"non boolean strict", "STRICT_BATCH", "maybe"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			t.Setenv(tt.env, tt.val)

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.env)
		})
	}
}

func TestLoad_MalformedFile(t *testing.T) {
	tempDir := isolate(t)
	path := filepath.Join(tempDir, "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("max_uploads: [unclosed"), 0644))
	t.Setenv("YTREPORT_CONFIG", path)

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config file")
}

func TestValidate(t *testing.T) {
	cfg := &Config{YouTubeAPIKey: "key", MaxUploads: 20, MaxUploadPages: 1}
	assert.NoError(t, cfg.Validate())

	cfg.YouTubeAPIKey = ""
	assert.True(t, errors.Is(cfg.Validate(), ErrMissingAPIKey))

	cfg = &Config{YouTubeAPIKey: "key", MaxUploads: 0, MaxUploadPages: 1}
	assert.Error(t, cfg.Validate())

	cfg = &Config{YouTubeAPIKey: "key", MaxUploads: 5, MaxUploadPages: 0}
	assert.Error(t, cfg.Validate())

	cfg = &Config{YouTubeAPIKey: "key", MaxUploads: 5, MaxUploadPages: 1, AllowedOrigins: []string{"localhost:3000"}}
	assert.ErrorContains(t, cfg.Validate(), "localhost:3000")

	cfg.AllowedOrigins = []string{"https://reports.example.com", "*"}
	assert.NoError(t, cfg.Validate())
}
