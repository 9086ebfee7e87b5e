// Package common provides shared utilities for Stonks
package common

import (
	"fmt"
	"os"
	"strconv"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds all configuration for Stonks
type Config struct {
	Environment string        `toml:"environment"`
	Server      ServerConfig  `toml:"server"`
	Storage     StorageConfig `toml:"storage"`
	Clients     ClientsConfig `toml:"clients"`
	Logging     LoggingConfig `toml:"logging"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// StorageConfig holds the BadgerHold data directory.
type StorageConfig struct {
	Path string `toml:"path"`
}

// ClientsConfig holds API client configurations
type ClientsConfig struct {
	MFAPI MFAPIConfig `toml:"mfapi"`
}

// MFAPIConfig configures the mfapi.in NAV source client.
type MFAPIConfig struct {
	BaseURL         string `toml:"base_url"`
	TimeoutSeconds  int    `toml:"timeout_seconds"`
	RateLimit       int    `toml:"rate_limit"` // requests per second
	CacheTTLMinutes int    `toml:"cache_ttl_minutes"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `toml:"level"`
}

// IsProduction reports whether the config targets a production environment.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// DefaultConfig returns a configuration with sane defaults.
func DefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Storage: StorageConfig{
			Path: "data/stonks",
		},
		Clients: ClientsConfig{
			MFAPI: MFAPIConfig{
				BaseURL:         "https://api.mfapi.in",
				TimeoutSeconds:  30,
				RateLimit:       10,
				CacheTTLMinutes: 60,
			},
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// LoadConfig loads configuration from a TOML file, applying defaults for
// missing values and STONKS_* environment overrides on top.
func LoadConfig(path string) (*Config, error) {
	config := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
			}
		} else if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)

	if config.Server.Port <= 0 || config.Server.Port > 65535 {
		return nil, fmt.Errorf("invalid server port: %d", config.Server.Port)
	}

	return config, nil
}

func applyEnvOverrides(config *Config) {
	if v := os.Getenv("STONKS_ENVIRONMENT"); v != "" {
		config.Environment = v
	}
	if v := os.Getenv("STONKS_SERVER_HOST"); v != "" {
		config.Server.Host = v
	}
	if v := os.Getenv("STONKS_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			config.Server.Port = port
		}
	}
	if v := os.Getenv("STONKS_STORAGE_PATH"); v != "" {
		config.Storage.Path = v
	}
	if v := os.Getenv("STONKS_MFAPI_BASE_URL"); v != "" {
		config.Clients.MFAPI.BaseURL = v
	}
	if v := os.Getenv("STONKS_LOG_LEVEL"); v != "" {
		config.Logging.Level = v
	}
}
