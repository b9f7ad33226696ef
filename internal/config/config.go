package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the complete daemon configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Metrics MetricsConfig `yaml:"metrics"`
	Logging LoggingConfig `yaml:"logging"`
	Limits  LimitsConfig  `yaml:"limits"`
}

// ServerConfig contains the chat listener settings.
type ServerConfig struct {
	Listen string `yaml:"listen"`
}

// MetricsConfig contains the Prometheus endpoint settings.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Listen  string `yaml:"listen"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// LimitsConfig bounds the server's internal buffers.
type LimitsConfig struct {
	EventBuffer   int `yaml:"event_buffer"`
	OutBuffer     int `yaml:"out_buffer"`
	MaxBodyLength int `yaml:"max_body_length"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Server:  ServerConfig{Listen: ":5000"},
		Metrics: MetricsConfig{Enabled: true, Listen: ":9090"},
		Logging: LoggingConfig{Level: "info"},
		Limits: LimitsConfig{
			EventBuffer:   128,
			OutBuffer:     32,
			MaxBodyLength: 512,
		},
	}
}

// Load reads a YAML configuration file. Fields absent from the file keep
// their defaults.
func Load(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}
