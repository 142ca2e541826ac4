package log

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"INFO", slog.LevelInfo, false},
		{"", slog.LevelInfo, false},
		{"warning", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"verbose", slog.LevelInfo, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLevel(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestLoggerTagsComponentOnce(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: slog.LevelInfo, Component: ComponentStorage, Format: "json", Output: &buf})

	l.Info("loaded", FieldCount, 3)

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("decode record: %v (%s)", err, buf.String())
	}
	if rec[FieldComponent] != ComponentStorage {
		t.Errorf("component = %v", rec[FieldComponent])
	}
	if strings.Count(buf.String(), `"component"`) != 1 {
		t.Errorf("component repeated: %s", buf.String())
	}
	if l.Component() != ComponentStorage {
		t.Errorf("Component() = %q", l.Component())
	}
}

func TestLoggerLevelFilters(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: slog.LevelWarn, Output: &buf})
	l.Info("hidden")
	l.Warn("shown")
	if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), "shown") {
		t.Fatalf("unexpected output: %s", buf.String())
	}
}

func TestFieldsToSliceSorted(t *testing.T) {
	got := NewFields().
		WithOperation(OpUpsert).
		WithAttendance("c1", "2024-04-01", "present").
		WithError(errors.New("boom")).
		ToSlice()

	want := []any{
		FieldCaseID, "c1",
		FieldDate, "2024-04-01",
		FieldError, "boom",
		FieldOperation, OpUpsert,
		FieldStatus, "present",
	}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}
