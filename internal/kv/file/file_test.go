package file

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"clinic/internal/kv"
)

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s, err := New(dir)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if _, err := s.Get(ctx, "attendance_cases"); !errors.Is(err, kv.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := s.Set(ctx, "attendance_cases", []byte(`[]`)); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := s.Set(ctx, "attendance_cases", []byte(`[{"id":"1"}]`)); err != nil {
		t.Fatalf("Set overwrite: %v", err)
	}
	got, err := s.Get(ctx, "attendance_cases")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got) != `[{"id":"1"}]` {
		t.Fatalf("Get = %q", got)
	}

	if _, err := os.Stat(filepath.Join(dir, "attendance_cases.json")); err != nil {
		t.Fatalf("expected payload file: %v", err)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("expected temp files cleaned up, got %d entries", len(entries))
	}
}

func TestStoreRejectsUnsafeKeys(t *testing.T) {
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	for _, key := range []string{"", "../escape", "/abs", "a/b", `a\b`} {
		if err := s.Set(context.Background(), key, []byte("x")); err == nil {
			t.Errorf("Set(%q) expected error", key)
		}
	}
}

func TestNewCreatesNestedRoot(t *testing.T) {
	root := filepath.Join(t.TempDir(), "a", "b")
	if _, err := New(root); err != nil {
		t.Fatalf("New: %v", err)
	}
	if fi, err := os.Stat(root); err != nil || !fi.IsDir() {
		t.Fatalf("expected root dir created: %v", err)
	}
}
