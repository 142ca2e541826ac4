package backend

import (
	"context"
	"fmt"

	"clinic/internal/cache"
	"clinic/internal/kv/cached"
	"clinic/internal/kv/file"
	"clinic/internal/kv/memory"
	"clinic/internal/kv/postgres"
	kvs3 "clinic/internal/kv/s3"
	"clinic/internal/kv/sqlite"
	"clinic/internal/log"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *log.Logger
}

// NewFactory creates a new medium factory
func NewFactory(logger *log.Logger) Factory {
	if logger == nil {
		logger = log.Nop()
	}
	return &DefaultFactory{logger: logger.WithComponent(log.ComponentBackend)}
}

// CreateMedium implements Factory.CreateMedium
func (f *DefaultFactory) CreateMedium(ctx context.Context, config Config) (*MediumResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	var (
		res *MediumResult
		err error
	)
	switch config.Type {
	case MemoryBackend:
		res = &MediumResult{Medium: memory.New()}
	case FileBackend:
		res, err = f.createFileMedium(config)
	case SQLiteBackend:
		res, err = f.createSQLiteMedium(config)
	case PostgresBackend:
		res, err = f.createPostgresMedium(ctx, config)
	case S3Backend:
		res, err = f.createS3Medium(ctx, config)
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
	if err != nil {
		return nil, err
	}

	f.logger.InfoContext(ctx, "Initialized storage medium",
		log.FieldBackend, config.Type.String(),
		"cache_enabled", config.CacheEnabled)

	if config.CacheEnabled {
		res = f.wrapWithCache(res, config)
	}
	return res, nil
}

func (f *DefaultFactory) createFileMedium(config Config) (*MediumResult, error) {
	store, err := file.New(config.DataDirectory)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize file medium: %w", err)
	}
	return &MediumResult{Medium: store}, nil
}

func (f *DefaultFactory) createSQLiteMedium(config Config) (*MediumResult, error) {
	store, err := sqlite.New(config.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite medium: %w", err)
	}
	return &MediumResult{Medium: store, Cleanup: store.Close}, nil
}

func (f *DefaultFactory) createPostgresMedium(ctx context.Context, config Config) (*MediumResult, error) {
	store, err := postgres.New(ctx, config.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Postgres medium: %w", err)
	}
	return &MediumResult{Medium: store, Cleanup: store.Close}, nil
}

func (f *DefaultFactory) createS3Medium(ctx context.Context, config Config) (*MediumResult, error) {
	store, err := kvs3.New(ctx, kvs3.Config{
		Bucket:    config.S3Bucket,
		Region:    config.S3Region,
		Endpoint:  config.S3Endpoint,
		Prefix:    config.S3Prefix,
		PathStyle: config.S3PathStyle,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize S3 medium: %w", err)
	}
	return &MediumResult{Medium: store}, nil
}

// wrapWithCache puts an LRU in front of the medium and starts a cleanup
// goroutine that is stopped by the returned Cleanup.
func (f *DefaultFactory) wrapWithCache(res *MediumResult, config Config) *MediumResult {
	medium := cached.New(res.Medium, config.CacheSize, config.CacheTTL, f.logger)
	manager := cache.NewManager(f.logger)
	manager.Register(medium.Cache())
	manager.StartCleanup(config.CacheTTL)

	inner := res.Cleanup
	return &MediumResult{
		Medium: medium,
		Cleanup: func() error {
			manager.Stop()
			if inner != nil {
				return inner()
			}
			return nil
		},
	}
}
