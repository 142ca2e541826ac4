package google

import (
	"fmt"
	"slices"
	"testing"

	"clinic/internal/core"
)

func sampleReport(month int) core.MonthlyReport {
	a := core.CaseReport{
		Case:  core.Case{ID: "a", Name: "Omar", PaymentType: core.PaymentMonthly, PaymentAmount: 500},
		Stats: core.MonthlyStats{PresentDays: 10, AbsentDays: 2, RemainingDays: 18, TotalPaid: 500.0 / 3, MonthlyRequired: 500, RemainingPayment: 1000.0 / 3},
	}
	return core.MonthlyReport{
		Year: 2024, Month: month,
		Cases:           []core.CaseReport{a},
		Completed:       []core.CaseReport{},
		Pending:         []core.CaseReport{a},
		TotalIncome:     500,
		TotalPaid:       500.0 / 3,
		RemainingAmount: 1000.0 / 3,
	}
}

func TestReportRows(t *testing.T) {
	rows := reportRows(sampleReport(4))
	if len(rows) != 2 {
		t.Fatalf("len(rows) = %d, want 2", len(rows))
	}

	got := fmt.Sprint(rows[0]...)
	want := fmt.Sprint("2024-04", "Omar", "monthly", 10, 2, 18, 166.67, 500.0, 333.33, "no")
	if got != want {
		t.Errorf("case row = %q, want %q", got, want)
	}

	totals := rows[1]
	if totals[1] != "TOTAL" || totals[6] != 166.67 || totals[9] != "0/1" {
		t.Errorf("totals row = %v", totals)
	}
	for i, row := range rows {
		if len(row) != len(header) {
			t.Errorf("row %d has %d columns, want %d", i, len(row), len(header))
		}
	}
}

func TestMergeMonth(t *testing.T) {
	tests := []struct {
		name     string
		existing [][]any
		wantLen  int
		wantKept []string
	}{
		{
			name:    "empty sheet",
			wantLen: 3,
		},
		{
			name: "other months kept",
			existing: [][]any{
				{"Month"},
				{"2024-03", "Old"},
				{"2024-03", "TOTAL"},
			},
			wantLen:  5,
			wantKept: []string{"2024-03", "2024-03"},
		},
		{
			name: "same month replaced",
			existing: [][]any{
				{"Month"},
				{"2024-04", "Stale"},
				{"2024-04", "Stale 2"},
				{"2024-04", "TOTAL"},
				{},
			},
			wantLen: 3,
		},
		{
			name: "same month displayed as a date replaced",
			existing: [][]any{
				{"Month"},
				{"3/1/2024", "Kept"},
				{"4/1/2024", "Stale"},
				{"2024-04-01", "Stale 2"},
				{float64(45383), "TOTAL"},
			},
			wantLen:  4,
			wantKept: []string{"3/1/2024"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows := mergeMonth(tt.existing, sampleReport(4))
			if len(rows) != tt.wantLen {
				t.Fatalf("len(rows) = %d, want %d: %v", len(rows), tt.wantLen, rows)
			}
			if rows[0][0] != "Month" {
				t.Errorf("first row should be the header, got %v", rows[0])
			}
			for i, m := range tt.wantKept {
				if rows[1+i][0] != m {
					t.Errorf("row %d = %v, want month %s", 1+i, rows[1+i], m)
				}
			}
			if last := rows[len(rows)-1]; last[0] != "2024-04" || last[1] != "TOTAL" {
				t.Errorf("last row = %v, want the fresh totals row", last)
			}
		})
	}
}

func TestMonthOf(t *testing.T) {
	tests := []struct {
		cell any
		want string
		ok   bool
	}{
		{"2024-04", "2024-04", true},
		{" '2024-04 ", "2024-04", true},
		{"4/1/2024", "2024-04", true},
		{"2024-04-01", "2024-04", true},
		{"2024/04/01", "2024-04", true},
		{"Apr 2024", "2024-04", true},
		{float64(45383), "2024-04", true},
		{"Month", "", false},
		{"", "", false},
		{float64(0), "", false},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.cell), func(t *testing.T) {
			got, ok := monthOf(tt.cell)
			if got != tt.want || ok != tt.ok {
				t.Errorf("monthOf(%v) = %q, %v; want %q, %v", tt.cell, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestMonthsInYear(t *testing.T) {
	values := [][]any{
		{"Month"},
		{"2024-03"},
		{"3/1/2024"},
		{"2023-12"},
		{},
		{"11/1/2024"},
	}
	if got := monthsInYear(values, 2024); !slices.Equal(got, []int{3, 11}) {
		t.Errorf("monthsInYear() = %v, want [3 11]", got)
	}
}
