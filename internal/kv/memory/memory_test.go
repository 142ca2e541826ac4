package memory

import (
	"context"
	"errors"
	"testing"

	"clinic/internal/kv"
)

func TestStoreGetSet(t *testing.T) {
	ctx := context.Background()
	s := New()

	if _, err := s.Get(ctx, "missing"); !errors.Is(err, kv.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	payload := []byte(`[1,2,3]`)
	if err := s.Set(ctx, "k", payload); err != nil {
		t.Fatalf("Set: %v", err)
	}
	payload[0] = 'x'

	got, err := s.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got) != `[1,2,3]` {
		t.Fatalf("stored payload aliased caller slice: %q", got)
	}
	got[0] = 'y'
	again, _ := s.Get(ctx, "k")
	if string(again) != `[1,2,3]` {
		t.Fatalf("returned payload aliased stored slice: %q", again)
	}
}

func TestStoreFailWrites(t *testing.T) {
	ctx := context.Background()
	s := New()
	_ = s.Set(ctx, "k", []byte("a"))

	s.FailWrites(true)
	if err := s.Set(ctx, "k", []byte("b")); !errors.Is(err, ErrWriteRejected) {
		t.Fatalf("expected ErrWriteRejected, got %v", err)
	}
	got, _ := s.Get(ctx, "k")
	if string(got) != "a" {
		t.Fatalf("failed write changed value: %q", got)
	}

	s.FailWrites(false)
	if err := s.Set(ctx, "k", []byte("c")); err != nil {
		t.Fatalf("Set after recovery: %v", err)
	}
	if s.Writes() != 2 {
		t.Errorf("Writes() = %d, want 2", s.Writes())
	}
}

func TestStoreEmptyKey(t *testing.T) {
	s := New()
	if err := s.Set(context.Background(), " ", nil); !errors.Is(err, kv.ErrEmptyKey) {
		t.Fatalf("expected ErrEmptyKey, got %v", err)
	}
}
