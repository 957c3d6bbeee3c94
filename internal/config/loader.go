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

const (
	envPrefix = "ALUMNET_"
	envFile   = "ALUMNET_CONFIG"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New(ctx))
//  2. file (YAML) if ALUMNET_CONFIG is set
//  3. env (prefix ALUMNET_)
func Load(ctx context.Context) (*Config, error) {
	base := New(ctx)
	k := koanf.New(".")

	if path := os.Getenv(envFile); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrLoadConfig, path, err)
		}
	}

	// ALUMNET_QUEUE_SIZE -> queue_size. ALUMNET_CONFIG itself is skipped.
	envProvider := env.Provider(envPrefix, ".", func(s string) string {
		if s == envFile {
			return ""
		}
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %v", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.StoreDriver != DriverMemory && c.StoreDriver != DriverSQLite && c.StoreDriver != DriverPostgres:
		return fmt.Errorf("%w: unknown store_driver %q", ErrInvalidConfig, c.StoreDriver)
	case c.StoreDriver != DriverMemory && c.StoreDSN == "":
		return fmt.Errorf("%w: store_dsn required for %s", ErrInvalidConfig, c.StoreDriver)
	case c.QueueSize <= 0 || c.WorkerCount <= 0:
		return fmt.Errorf("%w: queue_size and worker_count must be positive", ErrInvalidConfig)
	case c.HistoryLimit <= 0:
		return fmt.Errorf("%w: history_limit must be positive", ErrInvalidConfig)
	case c.LeaderboardLimit <= 0 || c.LeaderboardLimit > c.MaxLeaderboardLimit:
		return fmt.Errorf("%w: leaderboard_limit must be in 1..max_leaderboard_limit", ErrInvalidConfig)
	case c.MaxUploadBytes <= 0:
		return fmt.Errorf("%w: max_upload_bytes must be positive", ErrInvalidConfig)
	}
	return nil
}
