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

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):.
//  1. defaults (New(ctx))
//  2. file (YAML) if EDGELINE_CONFIG is set
//  3. env (prefix EDGELINE_)
func Load(ctx context.Context) (*Config, error) {
	// Start with defaults
	base := New(ctx)

	k := koanf.New(".")

	// Load from file if provided
	if path := os.Getenv("EDGELINE_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Environment variables: EDGELINE_WORKER_COUNT, EDGELINE_QUEUE_CAPACITY, ...
	// Map env keys like EDGELINE_QUEUE_CAPACITY -> queue_capacity (flat keys).
	// Preserve underscores to match koanf tags on the struct.
	envProvider := env.Provider("EDGELINE_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "edgeline_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	// Unmarshal into a copy
	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func validate(cfg *Config) error {
	if cfg.WorkerCount <= 0 {
		return fmt.Errorf("%w: worker_count must be positive", ErrInvalidConfig)
	}
	if cfg.QueueCapacity <= 0 {
		return fmt.Errorf("%w: queue_capacity must be positive", ErrInvalidConfig)
	}
	if cfg.CacheMaxSize <= 0 {
		return fmt.Errorf("%w: cache_max_size must be positive", ErrInvalidConfig)
	}
	switch cfg.CacheEvictionPolicy {
	case "oldest", "newest":
	default:
		return fmt.Errorf("%w: cache_eviction_policy must be oldest or newest", ErrInvalidConfig)
	}
	if cfg.SimilarityTopN <= 0 {
		return fmt.Errorf("%w: similarity_top_n must be positive", ErrInvalidConfig)
	}
	if cfg.LuckRegressionStrength < 0 || cfg.LuckRegressionStrength > 1 {
		return fmt.Errorf("%w: luck_regression_strength must be in [0,1]", ErrInvalidConfig)
	}
	return nil
}
