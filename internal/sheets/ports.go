package sheets

import (
	"context"

	"clinic/internal/core"
)

// Ports for outbound adapters.
type (
	// ReportWriter publishes a monthly report to an external sheet. Writing
	// the same month again replaces the previous rows of that month.
	ReportWriter interface {
		WriteMonthlyReport(ctx context.Context, report core.MonthlyReport) (ref string, err error)
	}

	// MonthLister is implemented by writers that can tell which months of a
	// year they already hold.
	MonthLister interface {
		ExportedMonths(ctx context.Context, year int) ([]int, error)
	}
)
