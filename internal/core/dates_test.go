package core

import (
	"errors"
	"testing"
	"time"
)

func TestFormatDateUsesCallerLocation(t *testing.T) {
	cairo := time.FixedZone("EET", 2*60*60)
	// 00:30 local on March 5th is still March 4th in UTC
	local := time.Date(2024, 3, 5, 0, 30, 0, 0, cairo)

	if got := FormatDate(local); got != "2024-03-05" {
		t.Errorf("FormatDate = %q, want 2024-03-05", got)
	}
	if got := FormatDate(local.UTC()); got != "2024-03-04" {
		t.Errorf("FormatDate(UTC) = %q, want 2024-03-04", got)
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
		ok   bool
	}{
		{name: "plain day", in: "2024-02-29", want: "2024-02-29", ok: true},
		{name: "timestamp truncated", in: "2024-02-29T23:59:59.000Z", want: "2024-02-29", ok: true},
		{name: "invalid day", in: "2023-02-29", ok: false},
		{name: "wrong layout", in: "29/02/2024", ok: false},
		{name: "empty", in: "", ok: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDate(tt.in)
			if !tt.ok {
				if !errors.Is(err, ErrInvalidDate) {
					t.Fatalf("ParseDate(%q) err = %v, want ErrInvalidDate", tt.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDate(%q) unexpected error: %v", tt.in, err)
			}
			if FormatDate(got) != tt.want {
				t.Errorf("ParseDate(%q) = %s, want %s", tt.in, FormatDate(got), tt.want)
			}
		})
	}
}

func TestMonthBoundaries(t *testing.T) {
	tests := []struct {
		name  string
		in    time.Time
		start string
		end   string
		days  int
	}{
		{"january", time.Date(2024, 1, 15, 13, 0, 0, 0, time.UTC), "2024-01-01", "2024-01-31", 31},
		{"leap february", time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC), "2024-02-01", "2024-02-29", 29},
		{"february", time.Date(2023, 2, 28, 23, 59, 0, 0, time.UTC), "2023-02-01", "2023-02-28", 28},
		{"april", time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC), "2024-04-01", "2024-04-30", 30},
		{"december", time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC), "2024-12-01", "2024-12-31", 31},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatDate(MonthStart(tt.in)); got != tt.start {
				t.Errorf("MonthStart = %s, want %s", got, tt.start)
			}
			if got := FormatDate(MonthEnd(tt.in)); got != tt.end {
				t.Errorf("MonthEnd = %s, want %s", got, tt.end)
			}
			if got := DaysInMonth(tt.in); got != tt.days {
				t.Errorf("DaysInMonth = %d, want %d", got, tt.days)
			}
		})
	}
}

func TestIsSameDay(t *testing.T) {
	a := time.Date(2024, 3, 5, 0, 1, 0, 0, time.UTC)
	b := time.Date(2024, 3, 5, 23, 59, 0, 0, time.UTC)
	c := time.Date(2024, 3, 6, 0, 0, 0, 0, time.UTC)
	if !IsSameDay(a, b) {
		t.Errorf("expected same day")
	}
	if IsSameDay(b, c) {
		t.Errorf("expected different days")
	}
}

func TestAddMonths(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		n    int
		want string
	}{
		{"jan 31 to leap feb", time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC), 1, "2024-02-29"},
		{"jan 31 to feb", time.Date(2023, 1, 31, 0, 0, 0, 0, time.UTC), 1, "2023-02-28"},
		{"year rollover forward", time.Date(2024, 12, 15, 0, 0, 0, 0, time.UTC), 1, "2025-01-15"},
		{"year rollover back", time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), -1, "2023-12-15"},
		{"mar 31 back to feb", time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC), -1, "2024-02-29"},
		{"many months", time.Date(2024, 5, 31, 0, 0, 0, 0, time.UTC), 13, "2025-06-30"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatDate(AddMonths(tt.in, tt.n)); got != tt.want {
				t.Errorf("AddMonths(%s, %d) = %s, want %s", FormatDate(tt.in), tt.n, got, tt.want)
			}
		})
	}

	if got := FormatDate(NextMonth(time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC))); got != "2024-02-29" {
		t.Errorf("NextMonth = %s", got)
	}
	if got := FormatDate(PrevMonth(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))); got != "2023-12-01" {
		t.Errorf("PrevMonth = %s", got)
	}
}

func TestAddDaysAndWeekStart(t *testing.T) {
	d := time.Date(2024, 2, 28, 10, 0, 0, 0, time.UTC)
	if got := FormatDate(AddDays(d, 2)); got != "2024-03-01" {
		t.Errorf("AddDays = %s", got)
	}
	// 2024-03-06 is a Wednesday
	if got := FormatDate(WeekStart(time.Date(2024, 3, 6, 18, 0, 0, 0, time.UTC))); got != "2024-03-03" {
		t.Errorf("WeekStart = %s", got)
	}
}

func TestInMonth(t *testing.T) {
	march := time.Date(2024, 3, 17, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		date string
		want bool
	}{
		{"2024-03-01", true},
		{"2024-03-31", true},
		{"2024-03-31T23:59:59Z", true},
		{"2024-02-29", false},
		{"2024-04-01", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := InMonth(tt.date, march); got != tt.want {
			t.Errorf("InMonth(%q) = %v, want %v", tt.date, got, tt.want)
		}
	}
}
