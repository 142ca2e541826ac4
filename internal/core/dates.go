package core

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the canonical calendar-day key used for attendance lookups
// and as part of the attendance record id.
const DateLayout = "2006-01-02"

// FormatDate returns the YYYY-MM-DD key of the calendar day t falls on in
// its own location. It never converts to UTC, so the key matches the day
// the caller sees.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// DayKey truncates a stored date or ISO-8601 timestamp to its YYYY-MM-DD
// portion.
func DayKey(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > len(DateLayout) {
		return s[:len(DateLayout)]
	}
	return s
}

// ParseDate parses a YYYY-MM-DD key (or a longer ISO-8601 timestamp, which is
// truncated to its day) into midnight UTC of that day.
func ParseDate(s string) (time.Time, error) {
	key := DayKey(s)
	t, err := time.Parse(DateLayout, key)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return t, nil
}

// StartOfDay drops the time-of-day of t.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func MonthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

func MonthEnd(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, t.Location())
}

func DaysInMonth(t time.Time) int {
	return MonthEnd(t).Day()
}

// IsSameDay reports calendar-day equality, ignoring time-of-day.
func IsSameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func AddDays(t time.Time, n int) time.Time {
	return t.AddDate(0, 0, n)
}

// AddMonths moves t by n months. The day is clamped to the last day of the
// target month, so Jan 31 + 1 month is the last day of February.
func AddMonths(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m+time.Month(n), 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	if last := DaysInMonth(first); d > last {
		d = last
	}
	return time.Date(first.Year(), first.Month(), d, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

func NextMonth(t time.Time) time.Time { return AddMonths(t, 1) }

func PrevMonth(t time.Time) time.Time { return AddMonths(t, -1) }

// WeekStart returns midnight of the Sunday starting t's week.
func WeekStart(t time.Time) time.Time {
	return StartOfDay(t).AddDate(0, 0, -int(t.Weekday()))
}

// InMonth reports whether the stored date falls within
// [MonthStart(month), MonthEnd(month)]. The comparison is done on day keys,
// which order lexicographically.
func InMonth(date string, month time.Time) bool {
	key := DayKey(date)
	return key >= FormatDate(MonthStart(month)) && key <= FormatDate(MonthEnd(month))
}
