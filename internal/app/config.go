package app

import (
	"errors"
	"fmt"
	"time"

	"github.com/vk/nodegraph/internal/render"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	LogFormat       string
	LogLevel        string
	Output          render.Format
	Trace           bool
	HealthcheckPort int

	// CacheExpiration bounds how long a serving session retains computed
	// outputs. Zero keeps them until an edit invalidates them.
	CacheExpiration time.Duration
	// WatchDebounce is the quiet period before a changed file is re-evaluated.
	WatchDebounce time.Duration
}

// NewConfig validates cfg and fills in defaults.
func NewConfig(cfg Config) (*Config, error) {
	switch cfg.LogLevel {
	case "":
		cfg.LogLevel = "info"
	case "debug", "info", "warn", "error":
	default:
		return nil, fmt.Errorf("invalid log-level %q: must be 'debug', 'info', 'warn', or 'error'", cfg.LogLevel)
	}

	switch cfg.LogFormat {
	case "":
		cfg.LogFormat = "text"
	case "text", "json":
	default:
		return nil, fmt.Errorf("invalid log-format %q: must be 'text' or 'json'", cfg.LogFormat)
	}

	if cfg.Output == "" {
		cfg.Output = render.Text
	}
	if _, err := render.ParseFormat(string(cfg.Output)); err != nil {
		return nil, err
	}

	if cfg.HealthcheckPort < 0 || cfg.HealthcheckPort > 65535 {
		return nil, errors.New("healthcheck-port must be between 0 and 65535")
	}
	if cfg.CacheExpiration < 0 {
		return nil, errors.New("cache-expiration cannot be negative")
	}
	if cfg.WatchDebounce < 0 {
		return nil, errors.New("debounce cannot be negative")
	}

	return &cfg, nil
}
