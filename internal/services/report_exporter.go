package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"clinic/internal/log"
	"clinic/internal/sheets"
)

// ReportExporter pushes monthly reports to an external sheet.
type ReportExporter struct {
	cases  *CaseService
	writer sheets.ReportWriter
	logger *log.Logger
}

func NewReportExporter(cases *CaseService, writer sheets.ReportWriter, logger *log.Logger) *ReportExporter {
	if logger == nil {
		logger = log.Nop()
	}
	return &ReportExporter{
		cases:  cases,
		writer: writer,
		logger: logger.WithComponent(log.ComponentSheets),
	}
}

// ExportMonthlyReport recomputes the report of the month containing month
// from the store and writes it. It returns the writer's reference.
func (e *ReportExporter) ExportMonthlyReport(ctx context.Context, month time.Time) (string, error) {
	if e.writer == nil {
		return "", errors.New("no report writer configured")
	}

	start := time.Now()
	report, err := e.cases.MonthlyReport(ctx, month)
	if err != nil {
		return "", fmt.Errorf("build report: %w", err)
	}

	ref, err := e.writer.WriteMonthlyReport(ctx, report)
	if err != nil {
		e.logger.ErrorContext(ctx, "Failed to export monthly report",
			log.NewFields().WithPeriod(report.Year, report.Month).WithError(err).ToSlice()...)
		return "", fmt.Errorf("write report: %w", err)
	}

	e.logger.InfoContext(ctx, "Exported monthly report",
		log.FieldYear, report.Year,
		log.FieldMonth, report.Month,
		log.FieldCount, len(report.Cases),
		log.FieldSheetsRef, ref,
		log.FieldDuration, time.Since(start).Milliseconds())
	return ref, nil
}

// RefreshExportedMonths re-exports every month of current's year that the
// writer already holds, plus the month of current. Case edits and deletions
// carry no date and change every month the case appears in. Writers that
// cannot list their months only get the current month.
func (e *ReportExporter) RefreshExportedMonths(ctx context.Context, current time.Time) ([]string, error) {
	if e.writer == nil {
		return nil, errors.New("no report writer configured")
	}

	months := map[int]bool{int(current.Month()): true}
	if lister, ok := e.writer.(sheets.MonthLister); ok {
		listed, err := lister.ExportedMonths(ctx, current.Year())
		if err != nil {
			return nil, fmt.Errorf("list exported months: %w", err)
		}
		for _, m := range listed {
			if m >= 1 && m <= 12 {
				months[m] = true
			}
		}
	}

	var refs []string
	var errs []error
	for m := time.January; m <= time.December; m++ {
		if !months[int(m)] {
			continue
		}
		ref, err := e.ExportMonthlyReport(ctx, time.Date(current.Year(), m, 1, 0, 0, 0, 0, current.Location()))
		if err != nil {
			errs = append(errs, err)
			continue
		}
		refs = append(refs, ref)
	}
	return refs, errors.Join(errs...)
}
