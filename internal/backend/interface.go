package backend

import (
	"context"
	"time"

	"clinic/internal/kv"
)

// CleanupFunc releases the resources held by a medium.
type CleanupFunc func() error

// MediumResult contains the medium instance and optional cleanup function
type MediumResult struct {
	Medium  kv.Medium
	Cleanup CleanupFunc
}

// Factory creates media based on configuration
type Factory interface {
	CreateMedium(ctx context.Context, config Config) (*MediumResult, error)
}

// Config holds configuration for medium creation
type Config struct {
	Type BackendType

	// file
	DataDirectory string

	// sqlite
	SQLiteDBPath string

	// postgres
	PostgresDSN string

	// s3
	S3Bucket    string
	S3Region    string
	S3Endpoint  string
	S3Prefix    string
	S3PathStyle bool

	// read-through cache around any of the above
	CacheEnabled bool
	CacheTTL     time.Duration
	CacheSize    int
}

// BackendType represents the type of backend
type BackendType string

const (
	MemoryBackend   BackendType = "memory"
	FileBackend     BackendType = "file"
	SQLiteBackend   BackendType = "sqlite"
	PostgresBackend BackendType = "postgres"
	S3Backend       BackendType = "s3"
)

// String implements fmt.Stringer
func (bt BackendType) String() string {
	return string(bt)
}

// IsValid returns true if the backend type is valid
func (bt BackendType) IsValid() bool {
	switch bt {
	case MemoryBackend, FileBackend, SQLiteBackend, PostgresBackend, S3Backend:
		return true
	default:
		return false
	}
}
