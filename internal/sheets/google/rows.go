package google

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"clinic/internal/core"
)

const lastColumn = "J"

var header = []any{
	"Month", "Case", "Payment Type", "Present", "Absent", "Remaining Days",
	"Paid", "Required", "Remaining", "Complete",
}

// reportRows renders one row per case followed by a totals row.
func reportRows(r core.MonthlyReport) [][]any {
	month := monthKey(r.Year, r.Month)
	rows := make([][]any, 0, len(r.Cases)+1)
	for _, cr := range r.Cases {
		st := cr.Stats
		rows = append(rows, []any{
			month,
			cr.Case.Name,
			string(cr.Case.PaymentType),
			st.PresentDays,
			st.AbsentDays,
			st.RemainingDays,
			round2(st.TotalPaid),
			round2(st.MonthlyRequired),
			round2(st.RemainingPayment),
			yesNo(st.IsMonthComplete),
		})
	}
	rows = append(rows, []any{
		month, "TOTAL", "", "", "", "",
		round2(r.TotalPaid),
		round2(r.TotalIncome),
		round2(r.RemainingAmount),
		fmt.Sprintf("%d/%d", len(r.Completed), len(r.Cases)),
	})
	return rows
}

// mergeMonth drops the existing rows of the report's month and appends the
// fresh ones. The first existing row is the header and is rewritten.
func mergeMonth(existing [][]any, r core.MonthlyReport) [][]any {
	month := monthKey(r.Year, r.Month)
	out := [][]any{header}
	for i, row := range existing {
		if i == 0 || len(row) == 0 {
			continue
		}
		if key, ok := monthOf(row[0]); ok && key == month {
			continue
		}
		out = append(out, row)
	}
	return append(out, reportRows(r)...)
}

// Layouts a month cell may come back in once the sheet has been edited by
// hand and the key was reformatted as a date.
var monthLayouts = []string{
	"2006-01",
	"2006-01-02",
	"2006/01/02",
	"1/2/2006",
	"Jan 2006",
	"January 2006",
}

// sheetsEpoch is day zero of spreadsheet serial dates.
var sheetsEpoch = time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)

// monthOf normalizes a month cell to "YYYY-MM".
func monthOf(cell any) (string, bool) {
	if serial, ok := cell.(float64); ok {
		if serial < 1 {
			return "", false
		}
		d := sheetsEpoch.AddDate(0, 0, int(serial))
		return monthKey(d.Year(), int(d.Month())), true
	}

	s := strings.TrimPrefix(strings.TrimSpace(fmt.Sprint(cell)), "'")
	for _, layout := range monthLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return monthKey(t.Year(), int(t.Month())), true
		}
	}
	return "", false
}

// monthsInYear collects the distinct months of year found in the first
// column, skipping the header.
func monthsInYear(values [][]any, year int) []int {
	seen := map[int]bool{}
	for i, row := range values {
		if i == 0 || len(row) == 0 {
			continue
		}
		key, ok := monthOf(row[0])
		if !ok {
			continue
		}
		if t, err := time.Parse("2006-01", key); err == nil && t.Year() == year {
			seen[int(t.Month())] = true
		}
	}
	out := make([]int, 0, len(seen))
	for m := range seen {
		out = append(out, m)
	}
	sort.Ints(out)
	return out
}

func monthKey(year, month int) string {
	return fmt.Sprintf("%04d-%02d", year, month)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
