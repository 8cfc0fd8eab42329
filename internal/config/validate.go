// Opsboard - Role-Aware Business Metrics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/opsboard

package config

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/tomtom215/opsboard/internal/logging"
)

// ConfigError describes one invalid setting. Validate joins every
// ConfigError it finds with errors.Join; use errors.As to inspect them.
//
//nolint:revive // config.ConfigError reads better than config.Error at call sites
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Message)
}

func invalid(field, format string, args ...interface{}) error {
	return &ConfigError{Field: field, Message: fmt.Sprintf(format, args...)}
}

const (
	minRateLimitRequests = 1
	maxRateLimitRequests = 100000
	minRateLimitWindow   = time.Second
	maxRateLimitWindow   = time.Hour
)

// sqlIdentifier accepts table or schema.table made of plain identifiers.
var sqlIdentifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

var validSources = map[string]bool{
	SourceSynthetic: true,
	SourceREST:      true,
	SourceSQL:       true,
}

// Validate checks every section and returns all problems at once.
func (c *Config) Validate() error {
	return errors.Join(
		c.validateServer(),
		c.validateData(),
		c.validateAuth(),
		c.validateCache(),
		c.validateLogging(),
	)
}

func (c *Config) validateServer() error {
	var errs []error
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, invalid("PORT", "must be between 1 and 65535"))
	}
	if c.Server.Timeout <= 0 {
		errs = append(errs, invalid("HTTP_TIMEOUT", "must be positive"))
	}
	if !c.Server.RateLimitDisabled {
		if c.Server.RateLimitReqs < minRateLimitRequests || c.Server.RateLimitReqs > maxRateLimitRequests {
			errs = append(errs, invalid("RATE_LIMIT_REQUESTS", "must be between %d and %d",
				minRateLimitRequests, maxRateLimitRequests))
		}
		if c.Server.RateLimitWindow < minRateLimitWindow || c.Server.RateLimitWindow > maxRateLimitWindow {
			errs = append(errs, invalid("RATE_LIMIT_WINDOW", "must be between %v and %v",
				minRateLimitWindow, maxRateLimitWindow))
		}
	}
	return errors.Join(errs...)
}

// validateData rejects unknown modes here even though the provider factory
// would fall back to synthetic data, so that typos are visible at startup.
func (c *Config) validateData() error {
	var errs []error
	if !validSources[c.Data.Source] {
		errs = append(errs, invalid("DATA_SOURCE", "must be one of: SYNTHETIC, REST, SQL"))
	}
	if c.Data.APIBaseURL != "" {
		u, err := url.Parse(c.Data.APIBaseURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			errs = append(errs, invalid("API_BASE_URL", "must be an http(s) URL"))
		}
	}
	for _, col := range c.Data.APICollections {
		if strings.ContainsAny(col, "?#") || strings.Contains(col, "..") {
			errs = append(errs, invalid("API_COLLECTIONS", "contains invalid collection %q", col))
		}
	}
	if !sqlIdentifier.MatchString(c.Data.SQLTable) {
		errs = append(errs, invalid("SQL_TABLE", "must be a plain identifier"))
	}
	if c.Data.MaxRows < 1 {
		errs = append(errs, invalid("MAX_ROWS", "must be at least 1"))
	}
	if c.Data.ProviderTimeout <= 0 {
		errs = append(errs, invalid("PROVIDER_TIMEOUT", "must be positive"))
	}
	return errors.Join(errs...)
}

func (c *Config) validateAuth() error {
	if c.Auth.Disabled {
		return nil
	}
	if strings.TrimSpace(c.Auth.JWTSecret) == "" {
		return invalid("JWT_SECRET", "is required unless DISABLE_AUTH=true")
	}
	return nil
}

func (c *Config) validateCache() error {
	var errs []error
	switch c.Cache.Type {
	case CacheMemory, CacheNone:
	case CacheRedis:
		if _, err := url.Parse(c.Cache.RedisURL); err != nil || c.Cache.RedisURL == "" {
			errs = append(errs, invalid("REDIS_URL", "must be a redis:// URL"))
		}
	case CacheBadger:
		if c.Cache.Dir == "" {
			errs = append(errs, invalid("CACHE_DIR", "is required for the badger cache"))
		}
	default:
		errs = append(errs, invalid("CACHE_TYPE", "must be one of: SimpleCache, RedisCache, badger, none"))
	}
	if c.Cache.TimeoutSeconds < 0 {
		errs = append(errs, invalid("CACHE_TIMEOUT_SECONDS", "must not be negative"))
	}
	return errors.Join(errs...)
}

func (c *Config) validateLogging() error {
	var errs []error
	if !logging.ValidLevel(c.Logging.Level) {
		errs = append(errs, invalid("LOG_LEVEL", "must be one of: trace, debug, info, warn, error, fatal, panic, disabled"))
	}
	if c.Logging.Format != "json" && c.Logging.Format != "console" {
		errs = append(errs, invalid("LOG_FORMAT", "must be one of: json, console"))
	}
	return errors.Join(errs...)
}

// ShouldWarnAboutCORS reports a wildcard origin combined with authentication.
func (c *Config) ShouldWarnAboutCORS() bool {
	if c.Auth.Disabled {
		return false
	}
	for _, origin := range c.Server.CORSOrigins {
		if origin == "*" {
			return true
		}
	}
	return false
}

// ShouldWarnAboutDevSecret reports that the built-in development secret is in use.
func (c *Config) ShouldWarnAboutDevSecret() bool {
	return !c.Auth.Disabled && c.Auth.JWTSecret == "dev-secret"
}
