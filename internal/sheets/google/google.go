package google

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"clinic/internal/core"
	"clinic/internal/log"
	ports "clinic/internal/sheets"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

// Ensure interface conformance
var (
	_ ports.ReportWriter = (*Client)(nil)
	_ ports.MonthLister  = (*Client)(nil)
)

// Config selects the spreadsheet and the service account used to reach it.
// CredentialsJSON wins over CredentialsFile; with neither set the client
// falls back to GOOGLE_APPLICATION_CREDENTIALS.
type Config struct {
	SpreadsheetID   string
	SheetName       string // base name, the year is prefixed: "2024 Report"
	CredentialsJSON string
	CredentialsFile string
}

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetBase     string
	logger        *log.Logger
}

// New creates a Sheets client authenticated with a service account.
func New(ctx context.Context, cfg Config, logger *log.Logger) (*Client, error) {
	if strings.TrimSpace(cfg.SpreadsheetID) == "" {
		return nil, errors.New("missing spreadsheet id")
	}
	if logger == nil {
		logger = log.Nop()
	}
	logger = logger.WithComponent(log.ComponentSheets)

	svc, err := newSheetsService(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}
	return NewWithService(svc, cfg.SpreadsheetID, cfg.SheetName, logger), nil
}

// NewWithService wraps an already configured service.
func NewWithService(svc *gsheet.Service, spreadsheetID, sheetBase string, logger *log.Logger) *Client {
	if strings.TrimSpace(sheetBase) == "" {
		sheetBase = "Report"
	}
	if logger == nil {
		logger = log.Nop()
	}
	return &Client{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		sheetBase:     strings.TrimSpace(sheetBase),
		logger:        logger,
	}
}

func newSheetsService(ctx context.Context, cfg Config, logger *log.Logger) (*gsheet.Service, error) {
	credsJSON := strings.TrimSpace(cfg.CredentialsJSON)
	credsFile := strings.TrimSpace(cfg.CredentialsFile)
	if credsJSON == "" && credsFile == "" {
		credsFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var credentials []byte
	switch {
	case credsJSON != "":
		logger.InfoContext(ctx, "Using inline JSON credentials")
		credentials = []byte(credsJSON)
	case credsFile != "":
		logger.InfoContext(ctx, "Reading credentials from file", "path", credsFile)
		b, err := os.ReadFile(credsFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		credentials = b
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	svc, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentials),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return svc, nil
}

// WriteMonthlyReport replaces the rows of the report's month in the
// "<year> <base>" sheet, keeping the rows of every other month.
func (c *Client) WriteMonthlyReport(ctx context.Context, report core.MonthlyReport) (string, error) {
	if c.svc == nil {
		return "", errors.New("sheets service not initialized")
	}
	if report.Month < 1 || report.Month > 12 {
		return "", fmt.Errorf("invalid month: %d", report.Month)
	}

	sheet := yearPrefixedName(c.sheetBase, report.Year)
	if err := c.ensureSheet(ctx, sheet); err != nil {
		return "", err
	}

	full := fmt.Sprintf("'%s'!A:%s", sheet, lastColumn)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, full).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("read %s: %w", full, err)
	}

	rows := mergeMonth(resp.Values, report)

	if _, err := c.svc.Spreadsheets.Values.Clear(c.spreadsheetID, full, &gsheet.ClearValuesRequest{}).
		Context(ctx).Do(); err != nil {
		return "", fmt.Errorf("clear %s: %w", full, err)
	}

	rng := fmt.Sprintf("'%s'!A1:%s%d", sheet, lastColumn, len(rows))
	vr := &gsheet.ValueRange{Values: rows}
	if _, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, rng, vr).
		ValueInputOption("RAW").Context(ctx).Do(); err != nil {
		return "", fmt.Errorf("update %s: %w", rng, err)
	}

	c.logger.InfoContext(ctx, "Monthly report exported",
		log.NewFields().WithPeriod(report.Year, report.Month).ToSlice()...)
	return rng, nil
}

// ExportedMonths lists the months (1-12) that have rows in the sheet of year.
func (c *Client) ExportedMonths(ctx context.Context, year int) ([]int, error) {
	if c.svc == nil {
		return nil, errors.New("sheets service not initialized")
	}
	sheet := yearPrefixedName(c.sheetBase, year)
	ok, err := c.hasSheet(ctx, sheet)
	if err != nil || !ok {
		return nil, err
	}

	col := fmt.Sprintf("'%s'!A:A", sheet)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, col).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", col, err)
	}
	return monthsInYear(resp.Values, year), nil
}

func (c *Client) hasSheet(ctx context.Context, title string) (bool, error) {
	ss, err := c.svc.Spreadsheets.Get(c.spreadsheetID).Fields("sheets.properties.title").Context(ctx).Do()
	if err != nil {
		return false, fmt.Errorf("get spreadsheet: %w", err)
	}
	for _, s := range ss.Sheets {
		if s.Properties != nil && s.Properties.Title == title {
			return true, nil
		}
	}
	return false, nil
}

// ensureSheet adds the yearly sheet on first use.
func (c *Client) ensureSheet(ctx context.Context, title string) error {
	ok, err := c.hasSheet(ctx, title)
	if err != nil || ok {
		return err
	}

	req := &gsheet.BatchUpdateSpreadsheetRequest{
		Requests: []*gsheet.Request{{
			AddSheet: &gsheet.AddSheetRequest{Properties: &gsheet.SheetProperties{Title: title}},
		}},
	}
	if _, err := c.svc.Spreadsheets.BatchUpdate(c.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("add sheet %s: %w", title, err)
	}
	c.logger.InfoContext(ctx, "Created report sheet", "sheet", title)
	return nil
}

func yearPrefixedName(base string, year int) string {
	return fmt.Sprintf("%d %s", year, strings.TrimSpace(base))
}
