// Opsboard - Role-Aware Business Metrics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/opsboard

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/dotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the YAML config locations searched in order.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/opsboard/config.yaml",
	"/etc/opsboard/config.yml",
}

const (
	// ConfigPathEnvVar overrides the YAML config file path.
	ConfigPathEnvVar = "CONFIG_PATH"

	// EnvFileEnvVar overrides the dotenv file path.
	EnvFileEnvVar = "ENV_FILE"

	defaultEnvFile = ".env"
)

func defaultConfig() *Config {
	return &Config{
		App: AppConfig{
			Title: "Enterprise Analytics Dashboard",
			Debug: false,
		},
		Server: ServerConfig{
			Port:              8050,
			Host:              "0.0.0.0",
			Timeout:           30 * time.Second,
			CORSOrigins:       []string{"*"},
			RateLimitReqs:     300,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
		},
		Data: DataConfig{
			Source:          SourceSynthetic,
			APIBaseURL:      "",
			APICollections:  []string{"metrics"},
			DBURL:           "",
			SQLTable:        "analytics_facts",
			MaxRows:         7000,
			Seed:            42,
			ProviderTimeout: 30 * time.Second,
		},
		Auth: AuthConfig{
			Disabled:  false,
			JWTSecret: "dev-secret",
		},
		Cache: CacheConfig{
			Type:           "SimpleCache",
			TimeoutSeconds: 86400,
			RedisURL:       "redis://localhost:6379/0",
			Dir:            "./data/cache",
			WarmOnStart:    false,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// Load reads configuration from all layers, normalizes it and validates it.
// A validation failure is returned as one or more joined *ConfigError values.
func Load() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: defaults
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: YAML file (optional)
	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: dotenv file (optional)
	if envPath := findEnvFile(); envPath != "" {
		if err := loadEnvFile(k, envPath); err != nil {
			return nil, fmt.Errorf("failed to load env file %s: %w", envPath, err)
		}
	}

	// Layer 4: process environment
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}
	if port := os.Getenv("HTTP_PORT"); port != "" {
		if err := k.Set("server.port", port); err != nil {
			return nil, fmt.Errorf("failed to set server.port: %w", err)
		}
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// findEnvFile returns ENV_FILE when set (even if missing, so typos surface as
// errors), otherwise .env when it exists.
func findEnvFile() string {
	if envPath := os.Getenv(EnvFileEnvVar); envPath != "" {
		return envPath
	}
	if _, err := os.Stat(defaultEnvFile); err == nil {
		return defaultEnvFile
	}
	return ""
}

// loadEnvFile parses a dotenv file and merges the mapped variables into k.
// Variables without a mapping are ignored, the same as for the environment.
func loadEnvFile(k *koanf.Koanf, path string) error {
	dk := koanf.New(".")
	if err := dk.Load(file.Provider(path), dotenv.Parser()); err != nil {
		return err
	}
	var httpPort interface{}
	for name, val := range dk.All() {
		key := strings.ToUpper(name)
		if key == "HTTP_PORT" {
			httpPort = val
			continue
		}
		if koanfPath := envTransformFunc(key); koanfPath != "" {
			if err := k.Set(koanfPath, val); err != nil {
				return fmt.Errorf("failed to set %s: %w", koanfPath, err)
			}
		}
	}
	if httpPort != nil {
		if err := k.Set("server.port", httpPort); err != nil {
			return fmt.Errorf("failed to set server.port: %w", err)
		}
	}
	return nil
}

var sliceConfigPaths = []string{
	"server.cors_origins",
	"data.api_collections",
}

// processSliceFields splits comma-separated strings (from env vars) into slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		val := k.Get(path)
		if val == nil {
			continue
		}
		if _, ok := val.([]interface{}); ok {
			continue
		}
		if _, ok := val.([]string); ok {
			continue
		}

		strVal, ok := val.(string)
		if !ok || strVal == "" {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}

// envMappings maps lower-cased environment variable names to koanf paths.
// HTTP_PORT is applied after the environment layer so that it wins over PORT.
var envMappings = map[string]string{
	"app_title": "app.title",
	"debug":     "app.debug",

	"port":                "server.port",
	"http_host":           "server.host",
	"http_timeout":        "server.timeout",
	"cors_origins":        "server.cors_origins",
	"rate_limit_requests": "server.rate_limit_reqs",
	"rate_limit_window":   "server.rate_limit_window",
	"disable_rate_limit":  "server.rate_limit_disabled",

	"data_source":      "data.source",
	"api_base_url":     "data.api_base_url",
	"api_collections":  "data.api_collections",
	"db_url":           "data.db_url",
	"sql_table":        "data.sql_table",
	"max_rows":         "data.max_rows",
	"data_seed":        "data.seed",
	"provider_timeout": "data.provider_timeout",

	"disable_auth":       "auth.disabled",
	"jwt_secret":         "auth.jwt_secret",
	"jwt_issuer":         "auth.issuer",
	"jwt_audience":       "auth.audience",
	"casbin_model_path":  "auth.casbin_model_path",
	"casbin_policy_path": "auth.casbin_policy_path",

	"cache_type":            "cache.type",
	"cache_timeout_seconds": "cache.timeout_seconds",
	"redis_url":             "cache.redis_url",
	"cache_dir":             "cache.dir",
	"cache_warm_on_start":   "cache.warm_on_start",

	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc maps an environment variable name to its koanf path.
// Unmapped variables return "" and are skipped by the env provider.
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}

var cacheTypeAliases = map[string]string{
	"simplecache": CacheMemory,
	"memory":      CacheMemory,
	"simple":      CacheMemory,
	"rediscache":  CacheRedis,
	"redis":       CacheRedis,
	"badger":      CacheBadger,
	"badgercache": CacheBadger,
	"none":        CacheNone,
	"nullcache":   CacheNone,
	"null":        CacheNone,
}

// normalize canonicalizes enumerations and applies DEBUG.
// Unknown cache types are left as-is for Validate to report.
func (c *Config) normalize() {
	c.Data.Source = strings.ToUpper(strings.TrimSpace(c.Data.Source))
	if canonical, ok := cacheTypeAliases[strings.ToLower(strings.TrimSpace(c.Cache.Type))]; ok {
		c.Cache.Type = canonical
	}
	c.Logging.Level = strings.ToLower(c.Logging.Level)
	c.Logging.Format = strings.ToLower(c.Logging.Format)
	if c.App.Debug {
		c.Logging.Level = "debug"
		c.Logging.Format = "console"
	}
	c.Data.APIBaseURL = strings.TrimRight(c.Data.APIBaseURL, "/")
}
