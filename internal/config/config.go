// Package config defines process configuration and its loading hooks.
//
// Conventions:
// - Defaults live in New; Load layers file and environment on top.
// - External errors are wrapped with this package's sentinels so callers
//   can errors.Is against them.
package config

import (
	"runtime"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the metrics/health listen address, e.g. ":9090".
	Addr string `koanf:"addr"`

	// QueueSize bounds the in-memory registration event queue.
	QueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of reconcile workers.
	WorkerCount int `koanf:"worker_count"`

	// DedupeSize sets the size of the upload digest cache.
	DedupeSize int `koanf:"dedupe_size"`

	// MaxRatingLimit caps how many rating entries one query may return.
	MaxRatingLimit int `koanf:"max_rating_limit"`

	// DefaultAgeCategory is stamped on imports that carry no age category.
	DefaultAgeCategory string `koanf:"default_age_category"`
}

// New creates a Config holding the defaults.
func New() *Config {
	return &Config{
		LogLevel:           "info",
		Addr:               ":9090",
		QueueSize:          10_000,
		WorkerCount:        runtime.NumCPU() * 2,
		DedupeSize:         10_000,
		MaxRatingLimit:     100,
		DefaultAgeCategory: "adults",
	}
}
