package app

import (
	"errors"
	"fmt"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	ConfigPaths []string // .hcl / .yaml run configuration files or directories
	Overrides   []string // path=value pairs applied after loading
	DataPath    string   // overrides data.path when set
	GraphOut    string   // DOT file written before execution when set
	Modules     []string // modules scanned by Configs; empty means all

	LogFormat       string
	LogLevel        string
	HealthcheckPort int
	WorkerCount     int
	NoColor         bool
}

// NewConfig validates cfg and returns a copy of it.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.WorkerCount < 1 {
		return nil, fmt.Errorf("workers must be at least 1, got %d", cfg.WorkerCount)
	}
	if cfg.HealthcheckPort < 0 || cfg.HealthcheckPort > 65535 {
		return nil, fmt.Errorf("healthcheck-port out of range: %d", cfg.HealthcheckPort)
	}
	switch cfg.LogFormat {
	case "", "text", "json":
	default:
		return nil, errors.New("invalid log-format: must be 'text' or 'json'")
	}
	if _, ok := parseLevel(cfg.LogLevel); !ok && cfg.LogLevel != "" {
		return nil, errors.New("invalid log-level: must be 'debug', 'info', 'warn', or 'error'")
	}
	return &cfg, nil
}
