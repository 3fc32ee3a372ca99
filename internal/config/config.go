// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - New returns a Config populated with defaults.
// - Load layers defaults, an optional YAML file and environment variables.
// - Errors from Load wrap ErrLoadConfig or ErrInvalidConfig.
package config

import (
	"runtime"

	"github.com/okian/spdi/internal/domain/history"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`
	// LogFormat selects text or json log records.
	LogFormat string `koanf:"log_format"`
	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`
	// WorkerCount sets the number of batch evaluation workers.
	WorkerCount int `koanf:"worker_count"`
	// QueueSize bounds the batch evaluation queue.
	QueueSize int `koanf:"queue_size"`
	// MaxBatchSize caps the inputs accepted by one batch request.
	MaxBatchSize int `koanf:"max_batch_size"`
	// CORSAllowedOrigins lists origins allowed to call the API from a browser.
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins"`
	// History is the prior composite series shown on the trend line.
	History []history.Point `koanf:"history"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:           "info",
		LogFormat:          "text",
		Addr:               ":9080",
		WorkerCount:        runtime.NumCPU(),
		QueueSize:          1024,
		MaxBatchSize:       500,
		CORSAllowedOrigins: []string{"*"},
		History:            history.DefaultPoints(),
	}
}
