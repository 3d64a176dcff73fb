// Package config reads breakdesk settings from the environment and
// catalog seed files from YAML.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Config holds process-wide settings.
type Config struct {
	DBPath           string
	Addr             string
	LogLevel         string
	LogFormat        string
	LogUseCases      bool
	RequestTimeoutMs int
}

// DefaultConfig returns a Config with defaults. The database lives under
// ~/.breakdesk when the home directory is known.
func DefaultConfig() Config {
	dbPath := "breakdesk.db"
	if home, err := os.UserHomeDir(); err == nil {
		dbPath = filepath.Join(home, ".breakdesk", "breakdesk.db")
	}
	return Config{
		DBPath:           dbPath,
		Addr:             ":8080",
		LogLevel:         "info",
		LogFormat:        "text",
		LogUseCases:      false,
		RequestTimeoutMs: 5000,
	}
}

// Load reads configuration from environment variables, falling back to
// defaults for unset or malformed values.
func Load() Config {
	cfg := DefaultConfig()

	if v := os.Getenv("BREAKDESK_DB"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("BREAKDESK_ADDR"); v != "" {
		cfg.Addr = v
	}
	if v := os.Getenv("BREAKDESK_LOG_LEVEL"); v != "" {
		cfg.LogLevel = strings.ToLower(strings.TrimSpace(v))
	}
	if v := os.Getenv("BREAKDESK_LOG_FORMAT"); v != "" {
		cfg.LogFormat = strings.ToLower(strings.TrimSpace(v))
	}
	if v := os.Getenv("BREAKDESK_LOG_USE_CASES"); v != "" {
		cfg.LogUseCases = parseBool(v)
	}
	if v := os.Getenv("BREAKDESK_REQUEST_TIMEOUT_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.RequestTimeoutMs = n
		}
	}
	return cfg
}

func (c Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutMs) * time.Millisecond
}

// Validate rejects settings that Load cannot repair by defaulting.
func (c Config) Validate() error {
	if strings.TrimSpace(c.DBPath) == "" {
		return fmt.Errorf("database path is empty")
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log format %q (want text or json)", c.LogFormat)
	}
	return nil
}

func parseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "t", "yes", "y", "on":
		return true
	default:
		return false
	}
}
