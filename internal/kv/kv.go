// Package kv defines the byte-oriented key-value medium the persistence store
// writes its collections to, and the errors shared by its implementations.
package kv

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned by Get when nothing was ever stored under key.
	ErrNotFound = errors.New("kv: key not found")
	// ErrEmptyKey is returned for a blank key.
	ErrEmptyKey = errors.New("kv: empty key")
)

// Medium stores opaque payloads by string key.
type Medium interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

// Closer is implemented by media holding a connection or handle.
type Closer interface {
	Close() error
}
