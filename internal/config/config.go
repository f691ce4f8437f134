// Filmdash - Movie Dataset Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/filmdash

// Package config loads Filmdash configuration from struct defaults, an
// optional YAML file and environment variables, in that order of priority.
package config

import (
	"fmt"
	"time"
)

// Config is the full application configuration.
type Config struct {
	Source   SourceConfig   `koanf:"source"`
	Database DatabaseConfig `koanf:"database"`
	Cache    CacheConfig    `koanf:"cache"`
	Server   ServerConfig   `koanf:"server"`
	Security SecurityConfig `koanf:"security"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// SourceConfig describes where the flat movie CSV comes from.
//
// Environment Variables:
//   - MOVIES_CSV_PATH: path to the source CSV (default: data/movies.csv)
//   - ETL_ON_STARTUP: run the ETL once before serving (default: false)
type SourceConfig struct {
	CSVPath      string `koanf:"csv_path"`
	ETLOnStartup bool   `koanf:"etl_on_startup"`
}

// DatabaseConfig holds DuckDB settings.
type DatabaseConfig struct {
	Path                   string `koanf:"path"`
	MaxMemory              string `koanf:"max_memory"`
	Threads                int    `koanf:"threads"` // 0 = NumCPU
	PreserveInsertionOrder bool   `koanf:"preserve_insertion_order"`

	// Circuit breaker around dataset reads.
	BreakerFailures int           `koanf:"breaker_failures"`
	BreakerTimeout  time.Duration `koanf:"breaker_timeout"`
}

// CacheConfig holds the dataset cache settings.
type CacheConfig struct {
	TTL time.Duration `koanf:"ttl"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port        int           `koanf:"port"`
	Host        string        `koanf:"host"`
	Timeout     time.Duration `koanf:"timeout"`
	Environment string        `koanf:"environment"`
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// SecurityConfig holds CORS and rate limiting settings. There is no
// authentication: the dashboard is read-mostly and meant for trusted networks.
type SecurityConfig struct {
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// LoggingConfig holds logging settings for zerolog.
//
// Environment Variables:
//   - LOG_LEVEL: trace, debug, info, warn, error (default: info)
//   - LOG_FORMAT: json, console (default: json)
//   - LOG_CALLER: true/false (default: false)
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Load reads the configuration. It is an alias kept for call sites that do
// not care which loader is used.
func Load() (*Config, error) {
	return LoadWithKoanf()
}
