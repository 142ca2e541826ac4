package cli

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"clinic/internal/config"
	"clinic/internal/core"
	"clinic/internal/log"
	sheetsmem "clinic/internal/sheets/memory"
)

func TestSetupLogger(t *testing.T) {
	tests := []struct {
		name      string
		level     string
		wantDebug bool
	}{
		{"debug", "debug", true},
		{"info", "info", false},
		{"invalid falls back to info", "loud", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := SetupLogger(&config.Config{LogLevel: tt.level, LogFormat: "text"}, log.ComponentCLI)
			if got := logger.Enabled(context.Background(), slog.LevelDebug); got != tt.wantDebug {
				t.Errorf("debug enabled = %v, want %v", got, tt.wantDebug)
			}
			if logger.Component() != log.ComponentCLI {
				t.Errorf("Component() = %q", logger.Component())
			}
		})
	}
}

func TestOpenStoreMemory(t *testing.T) {
	cfg := &config.Config{DataBackend: "memory"}
	store, cleanup, err := OpenStore(context.Background(), cfg, log.Nop())
	if err != nil {
		t.Fatalf("OpenStore() error = %v", err)
	}
	defer cleanup()

	ctx := context.Background()
	c := core.Case{ID: "1", Name: "Hana", Age: 5, Diagnosis: "adhd", PaymentType: core.PaymentDaily, PaymentAmount: 50}
	if err := store.AddCase(ctx, c); err != nil {
		t.Fatalf("AddCase() error = %v", err)
	}
	if got := store.ListCases(ctx); len(got) != 1 {
		t.Fatalf("ListCases() = %+v", got)
	}
}

func TestOpenStoreFile(t *testing.T) {
	cfg := &config.Config{DataBackend: "file", DataDir: t.TempDir()}
	store, cleanup, err := OpenStore(context.Background(), cfg, log.Nop())
	if err != nil {
		t.Fatalf("OpenStore() error = %v", err)
	}
	defer cleanup()
	if got := store.ListCases(context.Background()); len(got) != 0 {
		t.Errorf("fresh store should be empty, got %+v", got)
	}
}

func TestOpenStoreInvalidBackend(t *testing.T) {
	if _, _, err := OpenStore(context.Background(), &config.Config{DataBackend: "tape"}, log.Nop()); err == nil {
		t.Fatal("expected error for unknown backend")
	}
}

func TestOpenAMQPDisabled(t *testing.T) {
	client, err := OpenAMQP(&config.Config{}, log.Nop())
	if err != nil || client != nil {
		t.Fatalf("OpenAMQP() = %v, %v; want nil, nil", client, err)
	}
}

func TestOpenReportWriterDefaultsToMemory(t *testing.T) {
	w, err := OpenReportWriter(context.Background(), &config.Config{}, log.Nop())
	if err != nil {
		t.Fatalf("OpenReportWriter() error = %v", err)
	}
	if _, ok := w.(*sheetsmem.Writer); !ok {
		t.Errorf("writer = %T, want *memory.Writer", w)
	}
}

func TestWorkerStoreSeesWritesFromCachedStore(t *testing.T) {
	ctx := context.Background()
	cfg := &config.Config{
		DataBackend:  "file",
		DataDir:      t.TempDir(),
		CacheEnabled: true,
		CacheTTL:     time.Hour,
		CacheSize:    16,
	}

	cliStore, closeCLI, err := OpenStore(ctx, cfg, log.Nop())
	if err != nil {
		t.Fatalf("OpenStore() error = %v", err)
	}
	defer closeCLI()
	workerStore, closeWorker, err := OpenWorkerStore(ctx, cfg, log.Nop())
	if err != nil {
		t.Fatalf("OpenWorkerStore() error = %v", err)
	}
	defer closeWorker()

	c := core.Case{ID: "1", Name: "Hana", Age: 5, Diagnosis: "adhd", PaymentType: core.PaymentDaily, PaymentAmount: 50}
	if err := cliStore.AddCase(ctx, c); err != nil {
		t.Fatalf("AddCase() error = %v", err)
	}
	first := core.AttendanceRecord{ID: core.AttendanceID("1", "2024-04-01"), CaseID: "1", Date: "2024-04-01", Status: core.StatusPresent}
	if err := cliStore.UpsertAttendance(ctx, first); err != nil {
		t.Fatalf("UpsertAttendance() error = %v", err)
	}

	// warm whatever the worker might cache
	if got := workerStore.ListAttendance(ctx); len(got) != 1 {
		t.Fatalf("worker sees %d records, want 1", len(got))
	}

	second := core.AttendanceRecord{ID: core.AttendanceID("1", "2024-04-02"), CaseID: "1", Date: "2024-04-02", Status: core.StatusAbsent}
	if err := cliStore.UpsertAttendance(ctx, second); err != nil {
		t.Fatalf("UpsertAttendance() error = %v", err)
	}

	if got := workerStore.ListAttendance(ctx); len(got) != 2 {
		t.Errorf("worker sees %d records after a write from another store, want 2", len(got))
	}
	if cfg.CacheEnabled != true {
		t.Error("OpenWorkerStore must not modify the caller's config")
	}
}
