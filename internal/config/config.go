// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New(ctx) to build a Config with defaults.
// - Secrets (sheets_url, sheets_token) are never logged.
// - External errors must be wrapped via this package's sentinel errors.
package config

import (
	"context"
	"fmt"
	"time"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8501".
	Addr string `koanf:"addr"`

	// SheetsURL and SheetsToken address the spreadsheet web endpoint. Both are required.
	SheetsURL   string `koanf:"sheets_url"`
	SheetsToken string `koanf:"sheets_token"`

	// RefreshSeconds is the page auto-refresh interval.
	RefreshSeconds int `koanf:"refresh_seconds"`

	// CacheTTLSeconds bounds how long a fetched payload is reused. Must be
	// shorter than RefreshSeconds so each refresh normally fetches.
	CacheTTLSeconds int `koanf:"cache_ttl_seconds"`

	// FetchTimeoutSeconds bounds one GET against the endpoint.
	FetchTimeoutSeconds int `koanf:"fetch_timeout_seconds"`

	// FrameHeight is the page height in pixels.
	FrameHeight int `koanf:"frame_height"`

	// RatioCeiling: rates in [0, RatioCeiling] are read as 0..1 ratios, larger ones as percents.
	RatioCeiling float64 `koanf:"ratio_ceiling"`

	// TopPeople caps the meetings donut before the others bucket.
	TopPeople int `koanf:"top_people"`

	// OthersLabel names the others bucket.
	OthersLabel string `koanf:"others_label"`

	// HistoryPath is a SQLite file for revenue history. Empty keeps it in memory.
	HistoryPath string `koanf:"history_path"`

	// HistorySize is how many samples per indicator are kept.
	HistorySize int `koanf:"history_size"`

	// Photos maps a person's name to an image URL or local file.
	Photos map[string]string `koanf:"photos"`
}

// New creates a Config with defaults. Context is accepted first to satisfy
// the project-wide convention.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:            "info",
		LogFormat:           "text",
		Addr:                ":8501",
		RefreshSeconds:      5,
		CacheTTLSeconds:     4,
		FetchTimeoutSeconds: 25,
		FrameHeight:         1080,
		RatioCeiling:        1.5,
		TopPeople:           5,
		OthersLabel:         "OUTROS",
		HistorySize:         30,
		Photos:              map[string]string{},
	}
}

// Validate reports missing secrets with ErrMissingSecret and any other
// inconsistency with ErrInvalidConfig.
func (c *Config) Validate() error {
	if c.SheetsURL == "" || c.SheetsToken == "" {
		return ErrMissingSecret
	}
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.RefreshSeconds <= 0:
		return fmt.Errorf("%w: refresh_seconds must be positive", ErrInvalidConfig)
	case c.CacheTTLSeconds <= 0 || c.CacheTTLSeconds >= c.RefreshSeconds:
		return fmt.Errorf("%w: cache_ttl_seconds must be in (0, refresh_seconds)", ErrInvalidConfig)
	case c.FetchTimeoutSeconds <= 0:
		return fmt.Errorf("%w: fetch_timeout_seconds must be positive", ErrInvalidConfig)
	case c.RatioCeiling <= 0:
		return fmt.Errorf("%w: ratio_ceiling must be positive", ErrInvalidConfig)
	case c.HistorySize <= 0:
		return fmt.Errorf("%w: history_size must be positive", ErrInvalidConfig)
	case c.FrameHeight <= 0:
		return fmt.Errorf("%w: frame_height must be positive", ErrInvalidConfig)
	}
	return nil
}

// CacheTTL is CacheTTLSeconds as a duration.
func (c *Config) CacheTTL() time.Duration { return time.Duration(c.CacheTTLSeconds) * time.Second }

// FetchTimeout is FetchTimeoutSeconds as a duration.
func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.FetchTimeoutSeconds) * time.Second
}
