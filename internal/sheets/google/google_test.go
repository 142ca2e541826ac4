package google

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"clinic/internal/core"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

// fakeSheets emulates the handful of Sheets endpoints the client uses for a
// single sheet. With dateCells set, month keys are read back the way Sheets
// displays a cell formatted as a date.
type fakeSheets struct {
	mu           sync.Mutex
	titles       []string
	values       [][]any
	added        int
	updates      int
	inputOptions []string
	failPuts     bool
	dateCells    bool
}

func (f *fakeSheets) displayed() [][]any {
	if !f.dateCells {
		return f.values
	}
	out := make([][]any, len(f.values))
	for i, row := range f.values {
		out[i] = slices.Clone(row)
		if i == 0 || len(row) == 0 {
			continue
		}
		if s, ok := row[0].(string); ok {
			if t, err := time.Parse("2006-01", s); err == nil {
				out[i][0] = t.Format("1/2/2006")
			}
		}
	}
	return out
}

func (f *fakeSheets) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	path := r.URL.Path
	switch {
	case r.Method == http.MethodPost && strings.HasSuffix(path, ":batchUpdate"):
		var req gsheet.BatchUpdateSpreadsheetRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		for _, rq := range req.Requests {
			if rq.AddSheet != nil {
				f.titles = append(f.titles, rq.AddSheet.Properties.Title)
				f.added++
			}
		}
		writeJSON(w, map[string]any{})
	case r.Method == http.MethodPost && strings.HasSuffix(path, ":clear"):
		f.values = nil
		writeJSON(w, map[string]any{})
	case r.Method == http.MethodPut && strings.Contains(path, "/values/"):
		if f.failPuts {
			http.Error(w, `{"error":{"code":500,"message":"backend error"}}`, http.StatusInternalServerError)
			return
		}
		f.inputOptions = append(f.inputOptions, r.URL.Query().Get("valueInputOption"))
		var vr gsheet.ValueRange
		_ = json.NewDecoder(r.Body).Decode(&vr)
		f.values = vr.Values
		f.updates++
		writeJSON(w, map[string]any{"updatedRows": len(vr.Values)})
	case r.Method == http.MethodGet && strings.Contains(path, "/values/"):
		writeJSON(w, map[string]any{"values": f.displayed()})
	case r.Method == http.MethodGet:
		sheets := make([]map[string]any, 0, len(f.titles))
		for _, t := range f.titles {
			sheets = append(sheets, map[string]any{"properties": map[string]any{"title": t}})
		}
		writeJSON(w, map[string]any{"sheets": sheets})
	default:
		http.Error(w, "unexpected request", http.StatusBadRequest)
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func newTestClient(t *testing.T, fake *fakeSheets) *Client {
	t.Helper()
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	svc, err := gsheet.NewService(context.Background(),
		goption.WithEndpoint(srv.URL+"/"),
		goption.WithHTTPClient(srv.Client()),
		goption.WithoutAuthentication())
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}
	return NewWithService(svc, "sheet-id", "Report", nil)
}

func TestClient_WriteMonthlyReport(t *testing.T) {
	fake := &fakeSheets{}
	c := newTestClient(t, fake)
	ctx := context.Background()

	ref, err := c.WriteMonthlyReport(ctx, sampleReport(3))
	if err != nil {
		t.Fatalf("WriteMonthlyReport() error = %v", err)
	}
	if ref != "'2024 Report'!A1:J3" {
		t.Errorf("ref = %q", ref)
	}
	if fake.added != 1 || fake.titles[0] != "2024 Report" {
		t.Fatalf("expected the yearly sheet to be created, got %v", fake.titles)
	}

	// a second month keeps march and does not add another sheet
	if _, err := c.WriteMonthlyReport(ctx, sampleReport(4)); err != nil {
		t.Fatalf("WriteMonthlyReport() error = %v", err)
	}
	// rewriting april replaces its rows
	if _, err := c.WriteMonthlyReport(ctx, sampleReport(4)); err != nil {
		t.Fatalf("WriteMonthlyReport() error = %v", err)
	}

	if fake.added != 1 {
		t.Errorf("sheet added %d times, want 1", fake.added)
	}
	if len(fake.values) != 5 {
		t.Fatalf("sheet has %d rows, want header + 2 months x 2 rows: %v", len(fake.values), fake.values)
	}
	months := map[string]int{}
	for _, row := range fake.values[1:] {
		months[row[0].(string)]++
	}
	if months["2024-03"] != 2 || months["2024-04"] != 2 {
		t.Errorf("rows per month = %v", months)
	}
}

func TestClient_WriteMonthlyReportDateFormattedMonths(t *testing.T) {
	fake := &fakeSheets{dateCells: true}
	c := newTestClient(t, fake)
	ctx := context.Background()

	for _, m := range []int{3, 4, 4, 4} {
		if _, err := c.WriteMonthlyReport(ctx, sampleReport(m)); err != nil {
			t.Fatalf("WriteMonthlyReport(%d) error = %v", m, err)
		}
	}

	if len(fake.values) != 5 {
		t.Fatalf("sheet has %d rows, want header + 2 months x 2 rows: %v", len(fake.values), fake.values)
	}
	months := map[string]int{}
	for _, row := range fake.values[1:] {
		key, ok := monthOf(row[0])
		if !ok {
			t.Fatalf("unreadable month cell %v", row[0])
		}
		months[key]++
	}
	if months["2024-03"] != 2 || months["2024-04"] != 2 {
		t.Errorf("rows per month = %v", months)
	}
	for _, opt := range fake.inputOptions {
		if opt != "RAW" {
			t.Errorf("valueInputOption = %q, want RAW", opt)
		}
	}
}

func TestClient_ExportedMonths(t *testing.T) {
	fake := &fakeSheets{dateCells: true}
	c := newTestClient(t, fake)
	ctx := context.Background()

	got, err := c.ExportedMonths(ctx, 2024)
	if err != nil || len(got) != 0 {
		t.Fatalf("ExportedMonths() before any export = %v, %v", got, err)
	}

	for _, m := range []int{4, 3} {
		if _, err := c.WriteMonthlyReport(ctx, sampleReport(m)); err != nil {
			t.Fatalf("WriteMonthlyReport(%d) error = %v", m, err)
		}
	}
	got, err = c.ExportedMonths(ctx, 2024)
	if err != nil {
		t.Fatalf("ExportedMonths() error = %v", err)
	}
	if !slices.Equal(got, []int{3, 4}) {
		t.Errorf("ExportedMonths(2024) = %v, want [3 4]", got)
	}
	if got, _ := c.ExportedMonths(ctx, 2023); len(got) != 0 {
		t.Errorf("ExportedMonths(2023) = %v, want none", got)
	}
}

func TestClient_WriteMonthlyReportErrors(t *testing.T) {
	t.Run("update failure", func(t *testing.T) {
		c := newTestClient(t, &fakeSheets{failPuts: true})
		if _, err := c.WriteMonthlyReport(context.Background(), sampleReport(4)); err == nil {
			t.Fatal("expected error when the update fails")
		}
	})

	t.Run("invalid month", func(t *testing.T) {
		c := newTestClient(t, &fakeSheets{})
		if _, err := c.WriteMonthlyReport(context.Background(), core.MonthlyReport{Year: 2024, Month: 0}); err == nil {
			t.Fatal("expected error for month 0")
		}
	})

	t.Run("uninitialized service", func(t *testing.T) {
		c := &Client{}
		if _, err := c.WriteMonthlyReport(context.Background(), sampleReport(4)); err == nil {
			t.Fatal("expected error without a service")
		}
	})
}

func TestNewRequiresSpreadsheetID(t *testing.T) {
	if _, err := New(context.Background(), Config{}, nil); err == nil {
		t.Fatal("expected error for missing spreadsheet id")
	}
}

func TestYearPrefixedName(t *testing.T) {
	if got := yearPrefixedName(" Report ", 2025); got != "2025 Report" {
		t.Errorf("yearPrefixedName() = %q", got)
	}
}
