// Package postgres provides a Medium backed by a Postgres table.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"

	"clinic/internal/kv"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver
)

const (
	defaultDriver = "pgx"
	defaultDSN    = "postgres://localhost/clinic?sslmode=disable"

	createTable = `CREATE TABLE IF NOT EXISTS kv (
		key TEXT PRIMARY KEY,
		payload BYTEA NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`
	selectPayload = `SELECT payload FROM kv WHERE key = $1`
	upsertPayload = `INSERT INTO kv (key, payload) VALUES ($1, $2)
ON CONFLICT (key) DO UPDATE SET payload = excluded.payload, updated_at = now()`
)

var (
	sqlOpen = sql.Open
	openMu  sync.Mutex
)

type Store struct {
	db *sql.DB
}

// New opens dsn (defaultDSN when empty) and ensures the kv table exists.
func New(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		dsn = defaultDSN
	}
	openMu.Lock()
	db, err := sqlOpen(defaultDriver, dsn)
	openMu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if _, err := db.ExecContext(ctx, createTable); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure kv table: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	if strings.TrimSpace(key) == "" {
		return nil, kv.ErrEmptyKey
	}
	var payload []byte
	err := s.db.QueryRowContext(ctx, selectPayload, key).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, kv.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select %s: %w", key, err)
	}
	return payload, nil
}

func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	if strings.TrimSpace(key) == "" {
		return kv.ErrEmptyKey
	}
	if value == nil {
		value = []byte{}
	}
	if _, err := s.db.ExecContext(ctx, upsertPayload, key, value); err != nil {
		return fmt.Errorf("upsert %s: %w", key, err)
	}
	return nil
}

// OverrideSQLOpen swaps the sqlOpen function for tests and returns a restore function.
func OverrideSQLOpen(fn func(driverName, dataSourceName string) (*sql.DB, error)) func() {
	openMu.Lock()
	defer openMu.Unlock()
	prev := sqlOpen
	sqlOpen = fn
	return func() {
		openMu.Lock()
		defer openMu.Unlock()
		sqlOpen = prev
	}
}
