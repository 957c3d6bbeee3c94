// Package config defines service configuration and its loading.
//
// Values are layered: defaults from New, then an optional YAML file named by
// ALUMNET_CONFIG, then ALUMNET_-prefixed environment variables.
package config

import (
	"context"
	"runtime"
	"time"
)

// Store drivers.
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`
	// LogFormat is text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`
	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`

	// StoreDriver selects memory, sqlite or postgres.
	StoreDriver string `koanf:"store_driver"`
	// StoreDSN is the driver data source, e.g. a sqlite file path.
	StoreDSN string `koanf:"store_dsn"`

	// CatalogPath optionally overrides the embedded skill and role catalog.
	CatalogPath string `koanf:"catalog_path"`

	// QueueSize bounds the in-memory notification queue.
	QueueSize int `koanf:"queue_size"`
	// WorkerCount sets the number of notification workers.
	WorkerCount int `koanf:"worker_count"`

	// DedupeSize bounds the idempotency key cache.
	DedupeSize int `koanf:"dedupe_size"`

	MaxUploadBytes   int64 `koanf:"max_upload_bytes"`
	MinResumeChars   int   `koanf:"min_resume_chars"`
	HistoryLimit     int   `koanf:"history_limit"`
	DefaultCredits   int   `koanf:"default_credits"`
	LeaderboardLimit int   `koanf:"leaderboard_limit"`
	// MaxLeaderboardLimit caps GET /api/leaderboard?limit.
	MaxLeaderboardLimit int `koanf:"max_leaderboard_limit"`

	// UploadRatePerSec and UploadBurst limit résumé uploads per user.
	UploadRatePerSec float64 `koanf:"upload_rate_per_sec"`
	UploadBurst      int     `koanf:"upload_burst"`

	// AMQPURL enables the broker notification sink when set.
	AMQPURL      string `koanf:"amqp_url"`
	AMQPExchange string `koanf:"amqp_exchange"`

	// AllowedOrigins restricts realtime websocket origins. Empty allows all.
	AllowedOrigins []string `koanf:"allowed_origins"`
}

// New returns a Config with defaults. ctx is reserved for sources that need it.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:            "info",
		LogFormat:           "text",
		Addr:                ":9080",
		ShutdownTimeout:     10 * time.Second,
		StoreDriver:         DriverMemory,
		QueueSize:           10_000,
		WorkerCount:         runtime.NumCPU(),
		DedupeSize:          50_000,
		MaxUploadBytes:      5 << 20,
		MinResumeChars:      20,
		HistoryLimit:        30,
		DefaultCredits:      10,
		LeaderboardLimit:    10,
		MaxLeaderboardLimit: 100,
		UploadRatePerSec:    0.2,
		UploadBurst:         3,
		AMQPExchange:        "alumnet.notifications",
	}
}
