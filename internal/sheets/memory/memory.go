package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"clinic/internal/core"
	"clinic/internal/sheets"
)

var (
	_ sheets.ReportWriter = (*Writer)(nil)
	_ sheets.MonthLister  = (*Writer)(nil)
)

// Writer keeps the last report written for each month.
type Writer struct {
	mu      sync.Mutex
	reports map[string]core.MonthlyReport
	writes  int
}

func New() *Writer {
	return &Writer{reports: make(map[string]core.MonthlyReport)}
}

func (w *Writer) WriteMonthlyReport(_ context.Context, r core.MonthlyReport) (string, error) {
	if r.Month < 1 || r.Month > 12 {
		return "", fmt.Errorf("invalid month: %d", r.Month)
	}
	key := monthKey(r.Year, r.Month)

	w.mu.Lock()
	defer w.mu.Unlock()
	w.reports[key] = r
	w.writes++
	return "mem:" + key, nil
}

// Report returns the last report written for year/month.
func (w *Writer) Report(year, month int) (core.MonthlyReport, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	r, ok := w.reports[monthKey(year, month)]
	return r, ok
}

// ExportedMonths lists the months of year that have a report, ascending.
func (w *Writer) ExportedMonths(_ context.Context, year int) ([]int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	var out []int
	for _, r := range w.reports {
		if r.Year == year {
			out = append(out, r.Month)
		}
	}
	sort.Ints(out)
	return out, nil
}

// Writes counts every successful write, including rewrites.
func (w *Writer) Writes() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.writes
}

func monthKey(year, month int) string {
	return fmt.Sprintf("%04d-%02d", year, month)
}
