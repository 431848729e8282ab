package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix prefixes every environment key.
const EnvPrefix = "PAINEL_"

// Older deployments name the secrets this way; they are read when the
// PAINEL_ variables are unset.
const (
	legacyURLEnv   = "SHEETS_WEBAPP_URL"
	legacyTokenEnv = "SHEETS_WEBAPP_TOKEN"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New(ctx))
//  2. file (YAML) if PAINEL_CONFIG is set
//  3. env (prefix PAINEL_)
//
// The result is validated; see Config.Validate.
func Load(ctx context.Context) (*Config, error) {
	base := New(ctx)

	k := koanf.New(".")

	if path := os.Getenv(EnvPrefix + "CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrLoadConfig, path, err)
		}
	}

	// PAINEL_SHEETS_URL -> sheets_url. Underscores are kept to match the koanf tags.
	envProvider := env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.TrimPrefix(strings.ToLower(s), strings.ToLower(EnvPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if cfg.SheetsURL == "" {
		cfg.SheetsURL = os.Getenv(legacyURLEnv)
	}
	if cfg.SheetsToken == "" {
		cfg.SheetsToken = os.Getenv(legacyTokenEnv)
	}
	cfg.SheetsURL = strings.TrimSpace(cfg.SheetsURL)
	cfg.SheetsToken = strings.TrimSpace(cfg.SheetsToken)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
