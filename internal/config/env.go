// Package config reads toolkit configuration from the environment.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/warwick-one-metre/pkgmeta/internal/log"
)

// ParseString reads a string from an environment variable or returns the
// default value. The source (environment or default) is logged at debug
// level for observability.
func ParseString(key, defaultValue string) string {
	logger := log.WithComponent("config")
	if value, exists := os.LookupEnv(key); exists && value != "" {
		logValue(logger, key, value, "environment")
		return value
	}
	logValue(logger, key, defaultValue, "default")
	return defaultValue
}

// ParseInt reads an integer from an environment variable or returns the
// default value. Unparseable input falls back to the default.
func ParseInt(key string, defaultValue int) int {
	logger := log.WithComponent("config")
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			logValue(logger, key, v, "environment")
			return i
		}
		logger.Warn().Str("key", key).Str("value", v).Int("default", defaultValue).
			Msg("invalid integer in environment, using default")
	}
	logValue(logger, key, strconv.Itoa(defaultValue), "default")
	return defaultValue
}

// ParseBool reads a boolean from an environment variable or returns the
// default value.
func ParseBool(key string, defaultValue bool) bool {
	logger := log.WithComponent("config")
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			logValue(logger, key, v, "environment")
			return b
		}
		logger.Warn().Str("key", key).Str("value", v).Bool("default", defaultValue).
			Msg("invalid boolean in environment, using default")
	}
	logValue(logger, key, strconv.FormatBool(defaultValue), "default")
	return defaultValue
}

// ParseDuration reads a duration from an environment variable or returns
// the default value.
func ParseDuration(key string, defaultValue time.Duration) time.Duration {
	logger := log.WithComponent("config")
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			logValue(logger, key, v, "environment")
			return d
		}
		logger.Warn().Str("key", key).Str("value", v).Dur("default", defaultValue).
			Msg("invalid duration in environment, using default")
	}
	logValue(logger, key, defaultValue.String(), "default")
	return defaultValue
}

func logValue(logger zerolog.Logger, key, value, source string) {
	logger.Debug().
		Str("key", key).
		Str("value", value).
		Str("source", source).
		Msg("configuration value resolved")
}

// Config holds the resolved toolkit configuration.
type Config struct {
	SiteDir  string
	IndexURL string
	Timeout  time.Duration
}

// FromEnv resolves the toolkit configuration from environment variables,
// falling back to defaults.
func FromEnv() Config {
	return Config{
		SiteDir:  ParseString("PKGMETA_SITE", defaultSiteDir()),
		IndexURL: ParseString("PKGMETA_INDEX_URL", "https://pypi.org"),
		Timeout:  ParseDuration("PKGMETA_TIMEOUT", 30*time.Second),
	}
}

func defaultSiteDir() string {
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".pkgmeta", "site")
	}
	return filepath.Join(".pkgmeta", "site")
}
