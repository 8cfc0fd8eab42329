// Opsboard - Role-Aware Business Metrics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/opsboard

// Package config loads and validates Opsboard configuration.
//
// Configuration is layered with Koanf v2, lowest priority first:
//  1. Built-in defaults (see defaultConfig)
//  2. Optional YAML file (CONFIG_PATH, config.yaml, /etc/opsboard/config.yaml)
//  3. Optional dotenv file (ENV_FILE, or .env when present)
//  4. Process environment variables
//
// Load is called once in main and the resulting *Config is passed down by pointer.
// Nothing else in the module reads the environment.
//
//	cfg, err := config.Load()
//	if err != nil {
//	    logging.Fatal().Err(err).Msg("Invalid configuration")
//	}
package config

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"time"
)

// Data source modes.
const (
	SourceSynthetic = "SYNTHETIC"
	SourceREST      = "REST"
	SourceSQL       = "SQL"
)

// Canonical cache types. CACHE_TYPE also accepts the aliases in cacheTypeAliases.
const (
	CacheMemory = "memory"
	CacheRedis  = "redis"
	CacheBadger = "badger"
	CacheNone   = "none"
)

// Config holds all application configuration.
type Config struct {
	App     AppConfig     `koanf:"app"`
	Server  ServerConfig  `koanf:"server"`
	Data    DataConfig    `koanf:"data"`
	Auth    AuthConfig    `koanf:"auth"`
	Cache   CacheConfig   `koanf:"cache"`
	Logging LoggingConfig `koanf:"logging"`
}

// AppConfig holds presentation settings.
type AppConfig struct {
	Title string `koanf:"title"`
	Debug bool   `koanf:"debug"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port              int           `koanf:"port"`
	Host              string        `koanf:"host"`
	Timeout           time.Duration `koanf:"timeout"`
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// DataConfig selects and tunes the data provider.
type DataConfig struct {
	Source          string        `koanf:"source"`
	APIBaseURL      string        `koanf:"api_base_url"`
	APICollections  []string      `koanf:"api_collections"`
	DBURL           string        `koanf:"db_url"`
	SQLTable        string        `koanf:"sql_table"`
	MaxRows         int           `koanf:"max_rows"`
	Seed            uint64        `koanf:"seed"`
	ProviderTimeout time.Duration `koanf:"provider_timeout"`
}

// AuthConfig holds token validation and RBAC policy settings.
type AuthConfig struct {
	Disabled         bool   `koanf:"disabled"`
	JWTSecret        string `koanf:"jwt_secret"`
	Issuer           string `koanf:"issuer"`
	Audience         string `koanf:"audience"`
	CasbinModelPath  string `koanf:"casbin_model_path"`
	CasbinPolicyPath string `koanf:"casbin_policy_path"`
}

// CacheConfig selects the cache backend for the daily dataset snapshot.
type CacheConfig struct {
	Type           string `koanf:"type"`
	TimeoutSeconds int    `koanf:"timeout_seconds"`
	RedisURL       string `koanf:"redis_url"`
	Dir            string `koanf:"dir"`
	WarmOnStart    bool   `koanf:"warm_on_start"`
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Addr returns the host:port the HTTP server listens on.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.Port))
}

// CacheTimeout returns the cache entry lifetime. Zero means entries never expire.
func (c *CacheConfig) CacheTimeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Enabled reports whether a cache backend is configured.
func (c *CacheConfig) Enabled() bool {
	return c.Type != CacheNone
}

// Redacted returns a copy safe to print: the JWT secret is masked and any
// password in DB_URL or REDIS_URL is hidden.
func (c *Config) Redacted() Config {
	out := *c
	out.Server.CORSOrigins = append([]string(nil), c.Server.CORSOrigins...)
	out.Data.APICollections = append([]string(nil), c.Data.APICollections...)
	if out.Auth.JWTSecret != "" {
		out.Auth.JWTSecret = "********"
	}
	out.Data.DBURL = redactURL(out.Data.DBURL)
	out.Cache.RedisURL = redactURL(out.Cache.RedisURL)
	return out
}

func redactURL(raw string) string {
	if raw == "" {
		return raw
	}
	u, err := url.Parse(raw)
	if err != nil || u.User == nil {
		return raw
	}
	return u.Redacted()
}

// String implements fmt.Stringer with secrets redacted.
func (c *Config) String() string {
	r := c.Redacted()
	return fmt.Sprintf("%+v", r)
}
