package config

import (
	"fmt"
	"net/url"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"clinic/internal/log"
)

type Config struct {
	// Logging
	LogLevel  string
	LogFormat string

	// Clinic
	Timezone string

	// Backend selection
	DataBackend string
	DataDir     string

	// SQLite
	SQLiteDBPath string

	// Postgres
	PostgresDSN string

	// S3
	S3Bucket    string
	S3Region    string
	S3Endpoint  string
	S3Prefix    string
	S3PathStyle bool

	// Cache. The cache lives in one process and is not invalidated by writes
	// from other processes, so it only applies to the clinic CLI; the worker
	// always reads the medium directly.
	CacheEnabled bool
	CacheTTL     time.Duration
	CacheSize    int

	// AMQP, disabled when AMQPURL is empty
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Google Sheets report export
	GoogleSpreadsheetID      string
	GoogleReportSheetName    string
	GoogleServiceAccountJSON string
	GoogleServiceAccountFile string

	// Worker
	SyncInterval time.Duration
}

var validBackends = []string{"memory", "file", "sqlite", "postgres", "s3"}

func Load() *Config {
	return &Config{
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),

		Timezone: getEnv("CLINIC_TZ", "Local"),

		DataBackend: getEnv("DATA_BACKEND", "file"),
		DataDir:     getEnv("DATA_DIR", "./data"),

		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/clinic.db"),
		PostgresDSN:  getEnv("POSTGRES_DSN", ""),

		S3Bucket:    getEnv("S3_BUCKET", ""),
		S3Region:    getEnv("S3_REGION", "us-east-1"),
		S3Endpoint:  getEnv("S3_ENDPOINT", ""),
		S3Prefix:    getEnv("S3_PREFIX", "clinic/"),
		S3PathStyle: getEnvBool("S3_PATH_STYLE", false),

		CacheEnabled: getEnvBool("CACHE_ENABLED", false),
		CacheTTL:     getEnvDuration("CACHE_TTL", 5*time.Minute),
		CacheSize:    getEnvInt("CACHE_SIZE", 16),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "clinic"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "clinic_report_sync"),

		GoogleSpreadsheetID:      getEnv("GOOGLE_SPREADSHEET_ID", ""),
		GoogleReportSheetName:    getEnv("GOOGLE_REPORT_SHEET_NAME", "Report"),
		GoogleServiceAccountJSON: getEnv("GOOGLE_SERVICE_ACCOUNT_JSON", ""),
		GoogleServiceAccountFile: getEnv("GOOGLE_SERVICE_ACCOUNT_FILE", ""),

		SyncInterval: getEnvDuration("SYNC_INTERVAL", 15*time.Minute),
	}
}

// Location resolves Timezone. "Local" and "" mean the process location.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Timezone)
}

// SheetsEnabled reports whether report export to Google Sheets is configured.
func (c *Config) SheetsEnabled() bool {
	return c.GoogleSpreadsheetID != ""
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		errors = append(errors, fmt.Sprintf("invalid log level '%s': must be debug, info, warn or error", c.LogLevel))
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		errors = append(errors, fmt.Sprintf("invalid log format '%s': must be text or json", c.LogFormat))
	}

	if _, err := c.Location(); err != nil {
		errors = append(errors, fmt.Sprintf("invalid timezone '%s': %v", c.Timezone, err))
	}

	if !slices.Contains(validBackends, c.DataBackend) {
		errors = append(errors, fmt.Sprintf("invalid data backend '%s': must be one of %v", c.DataBackend, validBackends))
	}

	switch c.DataBackend {
	case "file":
		if c.DataDir == "" {
			errors = append(errors, "data directory cannot be empty when using file backend")
		}
	case "sqlite":
		if c.SQLiteDBPath == "" {
			errors = append(errors, "SQLite database path cannot be empty when using sqlite backend")
		}
	case "postgres":
		if c.PostgresDSN == "" {
			errors = append(errors, "POSTGRES_DSN is required when using postgres backend")
		} else if u, err := url.Parse(c.PostgresDSN); err != nil || (u.Scheme != "postgres" && u.Scheme != "postgresql") {
			errors = append(errors, "invalid POSTGRES_DSN: must be a postgres:// or postgresql:// URL")
		}
	case "s3":
		if c.S3Bucket == "" {
			errors = append(errors, "S3_BUCKET is required when using s3 backend")
		}
		if c.S3Endpoint != "" {
			if u, err := url.Parse(c.S3Endpoint); err != nil || u.Scheme == "" || u.Host == "" {
				errors = append(errors, fmt.Sprintf("invalid S3 endpoint '%s': must be an absolute URL", c.S3Endpoint))
			}
		}
	}

	if c.CacheEnabled {
		if c.CacheSize < 1 {
			errors = append(errors, fmt.Sprintf("invalid cache size %d: must be at least 1", c.CacheSize))
		}
		if c.CacheTTL <= 0 {
			errors = append(errors, fmt.Sprintf("invalid cache TTL %v: must be positive", c.CacheTTL))
		}
	}

	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errors = append(errors, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if c.SheetsEnabled() {
		if c.GoogleReportSheetName == "" {
			errors = append(errors, "Google report sheet name is required when a spreadsheet ID is set")
		}
		if c.GoogleServiceAccountFile != "" {
			if _, err := os.Stat(c.GoogleServiceAccountFile); os.IsNotExist(err) {
				errors = append(errors, fmt.Sprintf("Google service account file does not exist: %s", c.GoogleServiceAccountFile))
			}
		}
	}

	if c.SyncInterval < time.Second {
		errors = append(errors, fmt.Sprintf("invalid sync interval %v: must be at least 1 second", c.SyncInterval))
	} else if c.SyncInterval > 24*time.Hour {
		errors = append(errors, fmt.Sprintf("invalid sync interval %v: must be at most 24 hours", c.SyncInterval))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
