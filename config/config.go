// Package config manages application configuration.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

// ErrMissingAPIKey indicates no YouTube Data API key was configured.
var ErrMissingAPIKey = errors.New("config: YOUTUBE_API_KEY not set")

// Config holds settings for fetching and labelling lesson videos.
type Config struct {
	// APIKey is the YouTube Data API v3 key. Usually supplied via YOUTUBE_API_KEY.
	APIKey string `json:"api_key"`
	// RateLimitPause separates consecutive pages and record annotations
	RateLimitPause time.Duration `json:"rate_limit_pause"`

	// SearchPageSize is the search.list page size (1-50)
	SearchPageSize int `json:"search_page_size"`
	// MetadataBatchSize is the number of IDs per videos.list call (1-50)
	MetadataBatchSize int `json:"metadata_batch_size"`

	// LevelThreshold is the minimum fuzzy score for a level (0-100]
	LevelThreshold float64 `json:"level_threshold"`
	// TopicThreshold is the minimum fuzzy score for a topic (0-100]
	TopicThreshold float64 `json:"topic_threshold"`
	// KeywordsFile optionally overrides the built-in keyword tables
	KeywordsFile string `json:"keywords_file"`

	// LogLevel is a zerolog level name ("debug", "info", "warn", ...)
	LogLevel string `json:"log_level"`
}

// DefaultConfig returns configuration with safe defaults.
func DefaultConfig() *Config {
	return &Config{
		RateLimitPause:    800 * time.Millisecond,
		SearchPageSize:    50,
		MetadataBatchSize: 50,
		LevelThreshold:    80,
		TopicThreshold:    70,
		LogLevel:          "info",
	}
}

// Load builds the configuration. Sources, lowest priority first: defaults,
// the config file, then environment variables (including those from a .env
// file in the working directory). An empty path searches ytlessons.json in
// the working directory and ~/.config/ytlessons/; an explicit path must exist.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := DefaultConfig()

	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, fmt.Errorf("load config file: %w", err)
		}
	} else if err := cfg.loadFromFile(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("load config file: %w", err)
	}

	cfg.loadFromEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadFromFile tries the default config locations in order.
func (c *Config) loadFromFile() error {
	paths := []string{"ytlessons.json"}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "ytlessons", "ytlessons.json"))
	}

	for _, path := range paths {
		err := c.loadFile(path)
		if os.IsNotExist(err) {
			continue
		}
		return err
	}
	return os.ErrNotExist
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

// loadFromEnv overrides config with environment variables. Unparseable
// values are ignored.
func (c *Config) loadFromEnv() {
	if v := os.Getenv("YOUTUBE_API_KEY"); v != "" {
		c.APIKey = v
	}
	if v := os.Getenv("YTLESSONS_RATE_LIMIT_PAUSE"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.RateLimitPause = d
		}
	}
	if v := os.Getenv("YTLESSONS_SEARCH_PAGE_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.SearchPageSize = n
		}
	}
	if v := os.Getenv("YTLESSONS_METADATA_BATCH_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MetadataBatchSize = n
		}
	}
	if v := os.Getenv("YTLESSONS_LEVEL_THRESHOLD"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.LevelThreshold = f
		}
	}
	if v := os.Getenv("YTLESSONS_TOPIC_THRESHOLD"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.TopicThreshold = f
		}
	}
	if v := os.Getenv("YTLESSONS_KEYWORDS_FILE"); v != "" {
		c.KeywordsFile = v
	}
	if v := os.Getenv("YTLESSONS_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
}

// Validate checks that configuration values are valid and consistent.
// The API key is not required here; see RequireAPIKey.
func (c *Config) Validate() error {
	if c.RateLimitPause < 0 {
		return fmt.Errorf("rate_limit_pause must be non-negative")
	}
	if c.SearchPageSize < 1 || c.SearchPageSize > 50 {
		return fmt.Errorf("search_page_size must be between 1 and 50")
	}
	if c.MetadataBatchSize < 1 || c.MetadataBatchSize > 50 {
		return fmt.Errorf("metadata_batch_size must be between 1 and 50")
	}
	if c.LevelThreshold <= 0 || c.LevelThreshold > 100 {
		return fmt.Errorf("level_threshold must be in (0, 100]")
	}
	if c.TopicThreshold <= 0 || c.TopicThreshold > 100 {
		return fmt.Errorf("topic_threshold must be in (0, 100]")
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// RequireAPIKey returns ErrMissingAPIKey when no key is configured.
func (c *Config) RequireAPIKey() error {
	if c.APIKey == "" {
		return ErrMissingAPIKey
	}
	return nil
}

// Level parses LogLevel. An empty value means info.
func (c *Config) Level() (zerolog.Level, error) {
	if c.LogLevel == "" {
		return zerolog.InfoLevel, nil
	}
	lvl, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("log_level: %w", err)
	}
	return lvl, nil
}
