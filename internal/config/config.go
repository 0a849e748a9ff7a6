package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	ErrMissingAPIKey = errors.New("YouTube API key is required")
)

const (
	DefaultPort           = "8080"
	DefaultLogLevel       = "info"
	DefaultMaxUploads     = 20
	DefaultMaxUploadPages = 1
)

// Config holds the application configuration
type Config struct {
	YouTubeAPIKey  string   `yaml:"youtube_api_key"`
	Port           string   `yaml:"port"`
	LogLevel       string   `yaml:"log_level"`
	MaxUploads     int      `yaml:"max_uploads"`
	MaxUploadPages int      `yaml:"max_upload_pages"`
	StrictBatch    bool     `yaml:"strict_batch"`
	ArchiveDSN     string   `yaml:"archive_dsn"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// Load loads the configuration with the following priority:
// Environment variables > Config file (optional) > defaults
func Load() (*Config, error) {
	cfg := &Config{
		Port:           DefaultPort,
		LogLevel:       DefaultLogLevel,
		MaxUploads:     DefaultMaxUploads,
		MaxUploadPages: DefaultMaxUploadPages,
		AllowedOrigins: []string{"http://localhost:3000", "http://localhost:3001"},
	}

	if err := loadConfigFile(cfg); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.MaxUploads <= 0 {
		return fmt.Errorf("max uploads must be positive, got %d", c.MaxUploads)
	}
	if c.MaxUploadPages <= 0 {
		return fmt.Errorf("max upload pages must be positive, got %d", c.MaxUploadPages)
	}
	for _, origin := range c.AllowedOrigins {
		if !strings.Contains(origin, "*") &&
			!strings.HasPrefix(origin, "http://") && !strings.HasPrefix(origin, "https://") {
			return fmt.Errorf("invalid allowed origin %q: must start with http:// or https://", origin)
		}
	}
	// Checked last so callers can treat a missing key alone as non-fatal.
	if c.YouTubeAPIKey == "" {
		return fmt.Errorf("%w: YOUTUBE_API_KEY environment variable is not set", ErrMissingAPIKey)
	}
	return nil
}

// GetConfigPath returns the path to the configuration file
func GetConfigPath() (string, error) {
	if p := os.Getenv("YTREPORT_CONFIG"); p != "" {
		return p, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, ".ytreport", "config.yaml"), nil
}

// loadConfigFile loads configuration from ~/.ytreport/config.yaml
func loadConfigFile(cfg *Config) error {
	configPath, err := GetConfigPath()
	if err != nil {
		return err
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv("YOUTUBE_API_KEY"); v != "" {
		cfg.YouTubeAPIKey = v
	}
	if v := os.Getenv("PORT"); v != "" {
		cfg.Port = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("ARCHIVE_DSN"); v != "" {
		cfg.ArchiveDSN = v
	}
	if v := os.Getenv("ALLOWED_ORIGINS"); v != "" {
		var origins []string
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		cfg.AllowedOrigins = origins
	}

	ints := []struct {
		name string
		dst  *int
	}{
		{"MAX_UPLOADS", &cfg.MaxUploads},
		{"MAX_UPLOAD_PAGES", &cfg.MaxUploadPages},
	}
	for _, e := range ints {
		v := os.Getenv(e.name)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", e.name, v, err)
		}
		*e.dst = n
	}

	if v := os.Getenv("STRICT_BATCH"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid STRICT_BATCH %q: %w", v, err)
		}
		cfg.StrictBatch = b
	}
	return nil
}
