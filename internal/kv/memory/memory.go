package memory

import (
	"context"
	"errors"
	"strings"
	"sync"

	"clinic/internal/kv"
)

// ErrWriteRejected is returned by Set while the store is failing writes.
var ErrWriteRejected = errors.New("memory: write rejected")

var _ kv.Medium = (*Store)(nil)

// Store is an in-process Medium. Payloads are copied in and out so callers
// cannot alias stored bytes.
type Store struct {
	mu         sync.Mutex
	items      map[string][]byte
	failWrites bool
	writes     int
}

func New() *Store {
	return &Store{items: make(map[string][]byte)}
}

func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	if strings.TrimSpace(key) == "" {
		return nil, kv.ErrEmptyKey
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.items[key]
	if !ok {
		return nil, kv.ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

func (s *Store) Set(_ context.Context, key string, value []byte) error {
	if strings.TrimSpace(key) == "" {
		return kv.ErrEmptyKey
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWrites {
		return ErrWriteRejected
	}
	s.items[key] = append([]byte(nil), value...)
	s.writes++
	return nil
}

// FailWrites makes every following Set fail until called with false.
func (s *Store) FailWrites(fail bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failWrites = fail
}

// Writes returns the number of successful Set calls.
func (s *Store) Writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}
