package core

import (
	"math"
	"time"
)

// MonthlyStats are the attendance and payment figures of one case for one
// month.
type MonthlyStats struct {
	PresentDays      int     `json:"presentDays"`
	AbsentDays       int     `json:"absentDays"`
	RemainingDays    int     `json:"remainingDays"` // neither present nor absent; not clamped
	TotalPaid        float64 `json:"totalPaid"`
	MonthlyRequired  float64 `json:"monthlyRequired"`
	RemainingPayment float64 `json:"remainingPayment"`
	IsMonthComplete  bool    `json:"isMonthComplete"`
}

// AttendanceForMonth returns the records of caseID dated within month.
func AttendanceForMonth(records []AttendanceRecord, caseID string, month time.Time) []AttendanceRecord {
	var out []AttendanceRecord
	for _, r := range records {
		if r.CaseID == caseID && InMonth(r.Date, month) {
			out = append(out, r)
		}
	}
	return out
}

// ComputeMonthlyStats derives the stats of c for the month containing month.
// Only present days accrue payment.
func ComputeMonthlyStats(c Case, records []AttendanceRecord, month time.Time) MonthlyStats {
	var present, absent int
	for _, r := range AttendanceForMonth(records, c.ID, month) {
		switch r.Status {
		case StatusPresent:
			present++
		case StatusAbsent:
			absent++
		}
	}

	totalPaid := float64(present) * DailyRate(c)
	required := MonthlyRequired(c)
	remaining := math.Max(0, required-totalPaid)

	return MonthlyStats{
		PresentDays:      present,
		AbsentDays:       absent,
		RemainingDays:    DaysInMonth(month) - present - absent,
		TotalPaid:        totalPaid,
		MonthlyRequired:  required,
		RemainingPayment: remaining,
		IsMonthComplete:  remaining == 0,
	}
}

// BuildMonthlyReport runs ComputeMonthlyStats for every case and aggregates
// the results.
func BuildMonthlyReport(cases []Case, records []AttendanceRecord, month time.Time) MonthlyReport {
	report := MonthlyReport{
		Year:      month.Year(),
		Month:     int(month.Month()),
		Cases:     make([]CaseReport, 0, len(cases)),
		Completed: []CaseReport{},
		Pending:   []CaseReport{},
	}
	for _, c := range cases {
		cr := CaseReport{Case: c, Stats: ComputeMonthlyStats(c, records, month)}
		report.TotalIncome += cr.Stats.MonthlyRequired
		report.TotalPaid += cr.Stats.TotalPaid
		report.Cases = append(report.Cases, cr)
		if cr.Stats.IsMonthComplete {
			report.Completed = append(report.Completed, cr)
		} else {
			report.Pending = append(report.Pending, cr)
		}
	}
	report.RemainingAmount = report.TotalIncome - report.TotalPaid
	return report
}

// BuildDashboard summarises today's attendance and the month-to-date
// payments of today's month.
func BuildDashboard(cases []Case, records []AttendanceRecord, today time.Time) Dashboard {
	todayKey := FormatDate(today)
	byCase := make(map[string]AttendanceStatus, len(cases))
	for _, r := range records {
		if DayKey(r.Date) == todayKey {
			byCase[r.CaseID] = r.Status
		}
	}

	report := BuildMonthlyReport(cases, records, today)
	d := Dashboard{
		Date:               todayKey,
		TotalCases:         len(cases),
		CompletedPayments:  len(report.Completed),
		PendingPayments:    len(report.Pending),
		TotalMonthlyIncome: report.TotalIncome,
		TotalPaidThisMonth: report.TotalPaid,
	}
	for _, c := range cases {
		switch status, ok := byCase[c.ID]; {
		case !ok:
		case status == StatusPresent:
			d.TodayPresent++
		default:
			d.TodayAbsent++
		}
	}
	return d
}
