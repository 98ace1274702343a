// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load layers defaults, an optional YAML file and TALENTMATCH_ env vars.
// - External errors are wrapped with this package's sentinels.
package config

import (
	"runtime"
	"time"
)

// Source drivers accepted by source_driver.
const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
	DriverYAML     = "yaml"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level" validate:"oneof=debug info warn error"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr" validate:"required"`

	// SourceDriver selects where employee data is read from.
	SourceDriver string `koanf:"source_driver" validate:"oneof=sqlite3 postgres yaml"`

	// SourceDSN is the database connection string for SQL drivers.
	SourceDSN string `koanf:"source_dsn" validate:"required_unless=SourceDriver yaml"`

	// SnapshotPath is the YAML snapshot read when SourceDriver is yaml.
	SnapshotPath string `koanf:"snapshot_path" validate:"required_if=SourceDriver yaml"`

	// FetchTimeoutMS bounds the fetch stage of one analysis run.
	FetchTimeoutMS int `koanf:"fetch_timeout_ms" validate:"gt=0"`

	// WorkerCount caps concurrent per-employee scoring.
	WorkerCount int `koanf:"worker_count" validate:"gt=0"`

	// MaxLeaderboardLimit caps GET /analyses/{run_id}/leaderboard?limit.
	MaxLeaderboardLimit int `koanf:"max_leaderboard_limit" validate:"gt=0"`

	// ResultRetention is how many analysis results are kept for display.
	ResultRetention int `koanf:"result_retention" validate:"gt=0"`

	// RateLimitRPS and RateLimitBurst throttle POST /analyses.
	RateLimitRPS   float64 `koanf:"rate_limit_rps" validate:"gt=0"`
	RateLimitBurst int     `koanf:"rate_limit_burst" validate:"gt=0"`

	// RosterFallback lists employees without an identity row as "Employee N".
	RosterFallback bool `koanf:"roster_fallback"`

	// MetricsEnabled turns metric recording on or off. /healthz is served either way.
	MetricsEnabled bool `koanf:"metrics_enabled"`

	// MetricsNamespace prefixes every exported metric name.
	MetricsNamespace string `koanf:"metrics_namespace" validate:"required"`

	// MetricsLabels are constant labels attached to every metric (YAML only).
	MetricsLabels map[string]string `koanf:"metrics_labels"`

	// MetricsBuckets overrides the millisecond latency buckets (YAML only).
	MetricsBuckets []float64 `koanf:"metrics_buckets" validate:"omitempty,dive,gt=0"`

	// MetricsRefreshMS is how often `serve` refreshes the system gauges.
	MetricsRefreshMS int `koanf:"metrics_refresh_ms" validate:"gt=0"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:            "info",
		Addr:                ":9080",
		SourceDriver:        DriverSQLite,
		SourceDSN:           "talentmatch.db",
		FetchTimeoutMS:      10_000,
		WorkerCount:         runtime.NumCPU(),
		MaxLeaderboardLimit: 100,
		ResultRetention:     100,
		RateLimitRPS:        5,
		RateLimitBurst:      10,
		RosterFallback:      true,
		MetricsEnabled:      true,
		MetricsNamespace:    "talentmatch",
		MetricsRefreshMS:    10_000,
	}
}

// FetchTimeout returns FetchTimeoutMS as a duration.
func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.FetchTimeoutMS) * time.Millisecond
}

// MetricsRefresh returns MetricsRefreshMS as a duration.
func (c *Config) MetricsRefresh() time.Duration {
	return time.Duration(c.MetricsRefreshMS) * time.Millisecond
}
