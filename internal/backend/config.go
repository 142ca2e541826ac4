package backend

import (
	"fmt"

	"clinic/internal/config"
)

// FromAppConfig converts the application config to backend config
func FromAppConfig(appConfig *config.Config) (Config, error) {
	if appConfig == nil {
		return Config{}, fmt.Errorf("app config is nil")
	}

	backendType := BackendType(appConfig.DataBackend)
	if !backendType.IsValid() {
		return Config{}, fmt.Errorf("invalid backend type in config: %s", appConfig.DataBackend)
	}

	return Config{
		Type:          backendType,
		DataDirectory: appConfig.DataDir,
		SQLiteDBPath:  appConfig.SQLiteDBPath,
		PostgresDSN:   appConfig.PostgresDSN,

		S3Bucket:    appConfig.S3Bucket,
		S3Region:    appConfig.S3Region,
		S3Endpoint:  appConfig.S3Endpoint,
		S3Prefix:    appConfig.S3Prefix,
		S3PathStyle: appConfig.S3PathStyle,

		CacheEnabled: appConfig.CacheEnabled,
		CacheTTL:     appConfig.CacheTTL,
		CacheSize:    appConfig.CacheSize,
	}, nil
}

// Validate validates the backend configuration
func (c Config) Validate() error {
	if !c.Type.IsValid() {
		return fmt.Errorf("invalid backend type: %s", c.Type)
	}

	switch c.Type {
	case SQLiteBackend:
		if c.SQLiteDBPath == "" {
			return fmt.Errorf("SQLite database path is required for sqlite backend")
		}
	case PostgresBackend:
		if c.PostgresDSN == "" {
			return fmt.Errorf("Postgres DSN is required for postgres backend")
		}
	case S3Backend:
		if c.S3Bucket == "" {
			return fmt.Errorf("S3 bucket is required for s3 backend")
		}
	case FileBackend, MemoryBackend:
		// file falls back to ./data when DataDirectory is empty
	}

	if c.CacheEnabled && (c.CacheSize < 1 || c.CacheTTL <= 0) {
		return fmt.Errorf("cache requires a positive size and TTL")
	}
	return nil
}

// GetBackendTypes returns all valid backend types
func GetBackendTypes() []BackendType {
	return []BackendType{MemoryBackend, FileBackend, SQLiteBackend, PostgresBackend, S3Backend}
}

// GetBackendTypeStrings returns all valid backend type strings
func GetBackendTypeStrings() []string {
	types := GetBackendTypes()
	out := make([]string, len(types))
	for i, t := range types {
		out[i] = t.String()
	}
	return out
}
