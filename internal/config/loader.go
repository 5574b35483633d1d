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

	"github.com/okian/statline/internal/domain/schema"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if STATLINE_CONFIG is set
//  3. env (prefix STATLINE_)
func Load(ctx context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv("STATLINE_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
		}
	}

	// Environment variables: STATLINE_OUTPUT_DIR, STATLINE_WORKER_COUNT, ...
	// Underscores are preserved to match the koanf tags on the struct.
	envProvider := env.Provider("STATLINE_", ".", func(s string) string {
		s = strings.ToLower(s)
		return strings.TrimPrefix(s, "statline_")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// validate rejects configurations the pipeline cannot run under.
func (c *Config) validate() error {
	if _, ok := schema.LookupFeatureSet(c.FeatureSchemaVersion); !ok {
		return fmt.Errorf("%w: unknown feature_schema_version %q", ErrInvalidConfig, c.FeatureSchemaVersion)
	}
	if len(c.RollingWindowSizes) == 0 {
		return fmt.Errorf("%w: rolling_window_sizes must not be empty", ErrInvalidConfig)
	}
	for _, w := range c.RollingWindowSizes {
		if w <= 0 {
			return fmt.Errorf("%w: rolling window size %d must be positive", ErrInvalidConfig, w)
		}
	}
	if c.MinWindowFraction <= 0 || c.MinWindowFraction > 1 {
		return fmt.Errorf("%w: min_window_fraction %v must be in (0, 1]", ErrInvalidConfig, c.MinWindowFraction)
	}
	if c.OutputDir == "" {
		return fmt.Errorf("%w: output_dir must not be empty", ErrInvalidConfig)
	}
	return nil
}
