package core

// CaseReport pairs a case with its stats for the reported month.
type CaseReport struct {
	Case  Case         `json:"case"`
	Stats MonthlyStats `json:"stats"`
}

// MonthlyReport is the financial summary of all cases for a year+month.
type MonthlyReport struct {
	Year      int          `json:"year"`
	Month     int          `json:"month"` // 1-12
	Cases     []CaseReport `json:"cases"`
	Completed []CaseReport `json:"completed"`
	Pending   []CaseReport `json:"pending"`

	TotalIncome     float64 `json:"totalIncome"`     // sum of MonthlyRequired
	TotalPaid       float64 `json:"totalPaid"`       // sum of TotalPaid
	RemainingAmount float64 `json:"remainingAmount"` // TotalIncome - TotalPaid, not clamped
}

// Dashboard is the compact overview for one day.
type Dashboard struct {
	Date               string  `json:"date"`
	TotalCases         int     `json:"totalCases"`
	TodayPresent       int     `json:"todayPresent"`
	TodayAbsent        int     `json:"todayAbsent"`
	CompletedPayments  int     `json:"completedPayments"`
	PendingPayments    int     `json:"pendingPayments"`
	TotalMonthlyIncome float64 `json:"totalMonthlyIncome"`
	TotalPaidThisMonth float64 `json:"totalPaidThisMonth"`
}
