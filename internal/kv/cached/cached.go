// Package cached wraps a Medium with a read-through, write-through LRU cache.
package cached

import (
	"context"
	"time"

	"clinic/internal/cache"
	"clinic/internal/kv"
	"clinic/internal/log"
)

var _ kv.Medium = (*Medium)(nil)

type Medium struct {
	inner  kv.Medium
	cache  *cache.LRUCache[[]byte]
	logger *log.Logger
}

// New wraps inner. The returned cache should be registered with a
// cache.Manager so expired payloads are dropped.
func New(inner kv.Medium, size int, ttl time.Duration, logger *log.Logger) *Medium {
	if logger == nil {
		logger = log.Nop()
	}
	return &Medium{
		inner:  inner,
		cache:  cache.NewLRUCache[[]byte](size, ttl),
		logger: logger.WithComponent(log.ComponentCache),
	}
}

// Cache exposes the underlying LRU for registration and stats.
func (m *Medium) Cache() *cache.LRUCache[[]byte] { return m.cache }

func (m *Medium) Get(ctx context.Context, key string) ([]byte, error) {
	if v, ok := m.cache.Get(key); ok {
		m.logger.DebugContext(ctx, "Cache hit", log.FieldKey, key)
		return clone(v), nil
	}
	v, err := m.inner.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	m.cache.Set(key, clone(v))
	return v, nil
}

// Set writes through. A failed write evicts the key so the next Get sees
// whatever the inner medium actually holds.
func (m *Medium) Set(ctx context.Context, key string, value []byte) error {
	if err := m.inner.Set(ctx, key, value); err != nil {
		m.cache.Delete(key)
		return err
	}
	m.cache.Set(key, clone(value))
	return nil
}

// Close closes the inner medium when it holds resources.
func (m *Medium) Close() error {
	if c, ok := m.inner.(kv.Closer); ok {
		return c.Close()
	}
	return nil
}

func clone(b []byte) []byte {
	return append([]byte(nil), b...)
}
