// Confit - Recipe Sharing Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/confit

package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists where config files are searched, in order.
// The first file found wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/confit/config.yaml",
	"/etc/confit/config.yml",
}

// ConfigPathEnvVar overrides the config file path when set.
const ConfigPathEnvVar = "CONFIG_PATH"

// envPrefix namespaces the environment variable layer.
const envPrefix = "CONFIT_"

// envMappings maps CONFIT_* environment variable names (lowercased, prefix
// stripped) to config paths. An explicit table avoids guessing where the
// section name ends in multi-word keys.
var envMappings = map[string]string{
	"server_host":             "server.host",
	"server_port":             "server.port",
	"server_read_timeout":     "server.read_timeout",
	"server_write_timeout":    "server.write_timeout",
	"server_shutdown_timeout": "server.shutdown_timeout",

	"database_url":       "database.url",
	"database_host":      "database.host",
	"database_port":      "database.port",
	"database_name":      "database.name",
	"database_user":      "database.user",
	"database_password":  "database.password",
	"database_ssl_mode":  "database.ssl_mode",
	"database_max_conns": "database.max_conns",
	"database_min_conns": "database.min_conns",

	"jwt_secret":          "security.jwt_secret",
	"session_timeout":     "security.session_timeout",
	"bcrypt_cost":         "security.bcrypt_cost",
	"rate_limit_requests": "security.rate_limit_requests",
	"rate_limit_window":   "security.rate_limit_window",
	"cors_origins":        "security.cors_origins",

	"media_root":             "media.root",
	"media_max_upload_bytes": "media.max_upload_bytes",

	"max_ingredients": "limits.max_ingredients",
	"max_cook_stages": "limits.max_cook_stages",
	"max_tags":        "limits.max_tags",

	"log_level":  "logging.level",
	"log_format": "logging.format",
}

// Load resolves the configuration: struct defaults, then the first config
// file found (or CONFIG_PATH), then CONFIT_* environment variables. The
// result is validated before being returned.
func Load() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: defaults
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: config file (optional)
	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	// Layer 3: environment overlay. CONFIT_SERVER_PORT → server.port
	err := k.Load(env.Provider(envPrefix, ".", envTransformFunc), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// envTransformFunc maps an environment variable name to its config path.
// Unknown variables are dropped so unrelated CONFIT_* values cannot corrupt
// the configuration tree.
func envTransformFunc(key string) string {
	key = strings.ToLower(strings.TrimPrefix(key, envPrefix))
	if path, ok := envMappings[key]; ok {
		return path
	}
	return ""
}

// findConfigFile returns the config file path to use, or empty string when
// no file exists. CONFIG_PATH takes precedence; a CONFIG_PATH pointing at a
// missing file is deliberately ignored rather than fatal so containerized
// deployments can mount the file optionally.
func findConfigFile() string {
	if path := os.Getenv(ConfigPathEnvVar); path != "" {
		if _, err := os.Stat(path); err == nil {
			return path
		}
		return ""
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
