// Package config loads txkv runtime configuration from YAML and flags
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultPrompt is printed once before the read loop starts
const DefaultPrompt = "Ready to work:"

var (
	// ErrInvalidLogLevel indicates an unknown log level name
	ErrInvalidLogLevel = errors.New("config: invalid log level")

	// ErrInvalidPort indicates a port outside 0-65535
	ErrInvalidPort = errors.New("config: invalid port")
)

// Config is the full runtime configuration
type Config struct {
	Log     LogConfig     `yaml:"log"`
	Prompt  string        `yaml:"prompt"`
	GRPC    GRPCConfig    `yaml:"grpc"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// LogConfig controls structured logging
type LogConfig struct {
	Level  string `yaml:"level"`
	Pretty bool   `yaml:"pretty"`
}

// GRPCConfig controls the remote session server. Port 0 disables it.
type GRPCConfig struct {
	Port int `yaml:"port"`
}

// MetricsConfig controls the observability HTTP server. Port 0 disables it.
type MetricsConfig struct {
	Port int `yaml:"port"`
}

// Default returns the configuration used when no file is given
func Default() Config {
	return Config{
		Log:    LogConfig{Level: "warn"},
		Prompt: DefaultPrompt,
	}
}

// Load reads path over the defaults. An empty path returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}

	return cfg, cfg.Validate()
}

// Validate checks field ranges
func (c Config) Validate() error {
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: %q", ErrInvalidLogLevel, c.Log.Level)
	}

	for name, port := range map[string]int{"grpc": c.GRPC.Port, "metrics": c.Metrics.Port} {
		if port < 0 || port > 65535 {
			return fmt.Errorf("%w: %s port %d", ErrInvalidPort, name, port)
		}
	}

	return nil
}
