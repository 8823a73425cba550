// Confit - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/confit

// Package config loads and validates application configuration.
//
// Configuration is resolved in three layers with koanf, later layers
// overriding earlier ones:
//
//  1. Struct defaults (defaultConfig)
//  2. YAML config file (config.yaml, or CONFIG_PATH)
//  3. Environment variables with the CONFIT_ prefix, e.g.
//     CONFIT_SERVER_PORT=8080, CONFIT_DATABASE_URL=postgres://...
package config

import (
	"fmt"
	"time"
)

// Config is the root configuration for the application.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	Security SecurityConfig `koanf:"security"`
	Media    MediaConfig    `koanf:"media"`
	Limits   LimitsConfig   `koanf:"limits"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	// URL is a full connection string. When set it takes precedence over
	// the discrete fields below.
	URL      string `koanf:"url"`
	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	Name     string `koanf:"name"`
	User     string `koanf:"user"`
	Password string `koanf:"password"`
	SSLMode  string `koanf:"ssl_mode"`
	MaxConns int32  `koanf:"max_conns"`
	MinConns int32  `koanf:"min_conns"`
}

// ConnString returns the pgx connection string.
func (c DatabaseConfig) ConnString() string {
	if c.URL != "" {
		return c.URL
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Name, c.SSLMode)
}

// SecurityConfig holds authentication and rate limiting settings.
type SecurityConfig struct {
	// JWTSecret signs session tokens. Minimum 32 characters.
	JWTSecret string `koanf:"jwt_secret"`

	// SessionTimeout is the JWT lifetime.
	SessionTimeout time.Duration `koanf:"session_timeout"`

	// BcryptCost is the bcrypt work factor for password hashing.
	BcryptCost int `koanf:"bcrypt_cost"`

	// RateLimitReqs requests are allowed per RateLimitWindow per client IP.
	RateLimitReqs   int           `koanf:"rate_limit_requests"`
	RateLimitWindow time.Duration `koanf:"rate_limit_window"`

	// CORSOrigins lists allowed CORS origins.
	CORSOrigins []string `koanf:"cors_origins"`
}

// MediaConfig holds uploaded-image storage settings.
type MediaConfig struct {
	// Root is the directory all uploaded media lives under. The client
	// avatar, recipe avatar and stage picture subdirectories are created
	// beneath it at startup.
	Root string `koanf:"root"`

	// MaxUploadBytes caps a single image upload.
	MaxUploadBytes int64 `koanf:"max_upload_bytes"`
}

// LimitsConfig caps the nested child collections of a recipe. An edit that
// would grow a collection past its cap silently drops the excess payloads.
type LimitsConfig struct {
	MaxIngredients int `koanf:"max_ingredients"`
	MaxCookStages  int `koanf:"max_cook_stages"`
	MaxTags        int `koanf:"max_tags"`
}

// LoggingConfig holds log output settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// defaultConfig returns a Config with all defaults applied. Defaults are the
// first koanf layer; config file and environment override them.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Database: DatabaseConfig{
			Host:     "127.0.0.1",
			Port:     5432,
			Name:     "confit",
			User:     "confit",
			SSLMode:  "disable",
			MaxConns: 10,
			MinConns: 2,
		},
		Security: SecurityConfig{
			SessionTimeout:  24 * time.Hour,
			BcryptCost:      12,
			RateLimitReqs:   100,
			RateLimitWindow: time.Minute,
			CORSOrigins:     []string{"*"},
		},
		Media: MediaConfig{
			Root:           "/data/media",
			MaxUploadBytes: 8 << 20, // 8MB
		},
		Limits: LimitsConfig{
			MaxIngredients: 20,
			MaxCookStages:  30,
			MaxTags:        5,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Validate checks the configuration for values that would prevent the
// application from operating safely.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}
	if len(c.Security.JWTSecret) < 32 {
		return fmt.Errorf("security.jwt_secret must be at least 32 characters")
	}
	if c.Security.BcryptCost < 10 || c.Security.BcryptCost > 31 {
		return fmt.Errorf("security.bcrypt_cost must be between 10 and 31, got %d", c.Security.BcryptCost)
	}
	if c.Media.Root == "" {
		return fmt.Errorf("media.root is required")
	}
	if c.Media.MaxUploadBytes <= 0 {
		return fmt.Errorf("media.max_upload_bytes must be positive")
	}
	if c.Limits.MaxIngredients < 1 || c.Limits.MaxCookStages < 1 || c.Limits.MaxTags < 1 {
		return fmt.Errorf("limits must all be at least 1")
	}
	return nil
}
