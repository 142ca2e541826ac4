package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"clinic/internal/cli"
	"clinic/internal/core"
	"clinic/internal/log"
	"clinic/internal/services"
)

const usage = `usage: clinic <command> [flags]

commands:
  cases                      list cases
  add-case    -name -age -diagnosis -type -amount
  edit-case   -id -name -age -diagnosis -type -amount
  delete-case -id            delete a case with its attendance and payments
  mark        -id -status [-date]
  pay         -id -amount [-date]
  sheet       [-date]        attendance sheet for a day
  stats       -id [-month]   monthly stats of one case
  report      [-month]       monthly report of all cases
  dashboard   [-date]
  export      [-month]       push the monthly report to the configured sheet
`

type app struct {
	svc      *services.CaseService
	exporter *services.ReportExporter
	loc      *time.Location
	out      io.Writer
}

func main() {
	os.Exit(execute(os.Args[1:], os.Stdout, os.Stderr))
}

// execute runs one command and returns the process exit code. Deferred
// cleanup has run by the time it returns.
func execute(args []string, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		fmt.Fprint(stderr, usage)
		return 2
	}

	cli.LoadEnvFile()
	cfg := cli.LoadAndValidateConfig()
	logger := cli.SetupLogger(cfg, log.ComponentCLI)
	loc, _ := cfg.Location()

	ctx := context.Background()
	store, closeStore, err := cli.OpenStore(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to open store", log.FieldError, err)
		return 1
	}
	defer closeStore()

	var publisher services.EventPublisher
	amqpClient, err := cli.OpenAMQP(cfg, logger)
	if err != nil {
		// local writes still work without the broker
		logger.Warn("AMQP unavailable, change events disabled", log.FieldError, err)
	} else if amqpClient != nil {
		defer amqpClient.Close()
		publisher = amqpClient
	}

	svc := services.NewCaseService(store, publisher, logger)
	a := &app{svc: svc, loc: loc, out: stdout}

	if args[0] == "export" {
		writer, err := cli.OpenReportWriter(ctx, cfg, logger)
		if err != nil {
			logger.Error("Failed to initialize report writer", log.FieldError, err)
			return 1
		}
		a.exporter = services.NewReportExporter(svc, writer, logger)
	}

	if err := a.run(ctx, args[0], args[1:]); err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return 1
	}
	return 0
}

func (a *app) run(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "cases":
		return a.listCases(ctx)
	case "add-case", "edit-case":
		return a.saveCase(ctx, cmd, args)
	case "delete-case":
		return a.deleteCase(ctx, args)
	case "mark":
		return a.mark(ctx, args)
	case "pay":
		return a.pay(ctx, args)
	case "sheet":
		return a.sheet(ctx, args)
	case "stats":
		return a.stats(ctx, args)
	case "report":
		return a.report(ctx, args)
	case "dashboard":
		return a.dashboard(ctx, args)
	case "export":
		return a.export(ctx, args)
	default:
		return fmt.Errorf("unknown command %q\n%s", cmd, usage)
	}
}

func (a *app) listCases(ctx context.Context) error {
	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tAGE\tDIAGNOSIS\tPLAN\tAMOUNT")
	for _, c := range a.svc.ListCases(ctx) {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\t%s\n",
			c.ID, c.Name, c.Age, c.Diagnosis, c.PaymentType, core.FormatCurrency(c.PaymentAmount))
	}
	return tw.Flush()
}

func (a *app) saveCase(ctx context.Context, cmd string, args []string) error {
	fs := flag.NewFlagSet(cmd, flag.ContinueOnError)
	id := fs.String("id", "", "case id (edit-case)")
	name := fs.String("name", "", "patient name")
	age := fs.Int("age", 0, "patient age in years")
	diagnosis := fs.String("diagnosis", "", "diagnosis")
	ptype := fs.String("type", string(core.PaymentDaily), "payment type: daily, weekly or monthly")
	amount := fs.String("amount", "", "rate for one unit of the payment type")
	if err := fs.Parse(args); err != nil {
		return err
	}

	amt, err := core.ParseAmount(*amount)
	if err != nil {
		return err
	}
	in := core.CaseInput{
		Name:          *name,
		Age:           *age,
		Diagnosis:     *diagnosis,
		PaymentType:   core.PaymentType(strings.ToLower(*ptype)),
		PaymentAmount: amt,
	}

	var c core.Case
	if cmd == "add-case" {
		c, err = a.svc.CreateCase(ctx, in)
	} else {
		if *id == "" {
			return errors.New("-id is required")
		}
		c, err = a.svc.EditCase(ctx, *id, in)
	}
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, c.ID)
	return nil
}

func (a *app) deleteCase(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("delete-case", flag.ContinueOnError)
	id := fs.String("id", "", "case id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id == "" {
		return errors.New("-id is required")
	}
	return a.svc.RemoveCase(ctx, *id)
}

func (a *app) mark(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("mark", flag.ContinueOnError)
	id := fs.String("id", "", "case id")
	status := fs.String("status", string(core.StatusPresent), "present or absent")
	date := fs.String("date", "", "day as YYYY-MM-DD (default today)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	day, err := a.day(*date)
	if err != nil {
		return err
	}
	r, err := a.svc.MarkAttendance(ctx, *id, day, core.AttendanceStatus(strings.ToLower(*status)))
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s %s %s\n", r.CaseID, r.Date, r.Status)
	return nil
}

func (a *app) pay(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("pay", flag.ContinueOnError)
	id := fs.String("id", "", "case id")
	amount := fs.String("amount", "", "amount paid")
	date := fs.String("date", "", "day as YYYY-MM-DD (default today)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	amt, err := core.ParseAmount(*amount)
	if err != nil {
		return err
	}
	day, err := a.day(*date)
	if err != nil {
		return err
	}
	p, err := a.svc.RecordPayment(ctx, *id, amt, day)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s %s %s\n", p.ID, p.Date, core.FormatCurrency(p.Amount))
	return nil
}

func (a *app) sheet(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("sheet", flag.ContinueOnError)
	date := fs.String("date", "", "day as YYYY-MM-DD (default today)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	day, err := a.day(*date)
	if err != nil {
		return err
	}
	rows, err := a.svc.AttendanceSheet(ctx, day)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "%s\n", core.FormatDate(day))
	for _, r := range rows {
		status := "-"
		if r.Marked() {
			status = string(r.Status)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", r.Case.ID, r.Case.Name, status)
	}
	return tw.Flush()
}

func (a *app) stats(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("stats", flag.ContinueOnError)
	id := fs.String("id", "", "case id")
	month := fs.String("month", "", "month as YYYY-MM (default current)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	m, err := a.month(*month)
	if err != nil {
		return err
	}
	c, st, err := a.svc.CaseStats(ctx, *id, m)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "case\t%s (%s)\n", c.Name, c.PaymentType)
	fmt.Fprintf(tw, "present\t%d\n", st.PresentDays)
	fmt.Fprintf(tw, "absent\t%d\n", st.AbsentDays)
	fmt.Fprintf(tw, "remaining days\t%d\n", st.RemainingDays)
	fmt.Fprintf(tw, "paid\t%s\n", core.FormatCurrency(st.TotalPaid))
	fmt.Fprintf(tw, "required\t%s\n", core.FormatCurrency(st.MonthlyRequired))
	fmt.Fprintf(tw, "remaining\t%s\n", core.FormatCurrency(st.RemainingPayment))
	fmt.Fprintf(tw, "complete\t%t\n", st.IsMonthComplete)
	return tw.Flush()
}

func (a *app) report(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("report", flag.ContinueOnError)
	month := fs.String("month", "", "month as YYYY-MM (default current)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	m, err := a.month(*month)
	if err != nil {
		return err
	}
	r, err := a.svc.MonthlyReport(ctx, m)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "%04d-%02d\n", r.Year, r.Month)
	fmt.Fprintln(tw, "CASE\tPRESENT\tABSENT\tPAID\tREQUIRED\tREMAINING\tCOMPLETE")
	for _, cr := range r.Cases {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%s\t%s\t%s\t%t\n",
			cr.Case.Name, cr.Stats.PresentDays, cr.Stats.AbsentDays,
			core.FormatCurrency(cr.Stats.TotalPaid),
			core.FormatCurrency(cr.Stats.MonthlyRequired),
			core.FormatCurrency(cr.Stats.RemainingPayment),
			cr.Stats.IsMonthComplete)
	}
	fmt.Fprintf(tw, "total income\t%s\n", core.FormatCurrency(r.TotalIncome))
	fmt.Fprintf(tw, "total paid\t%s\n", core.FormatCurrency(r.TotalPaid))
	fmt.Fprintf(tw, "remaining\t%s\n", core.FormatCurrency(r.RemainingAmount))
	fmt.Fprintf(tw, "completed / pending\t%d / %d\n", len(r.Completed), len(r.Pending))
	return tw.Flush()
}

func (a *app) dashboard(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("dashboard", flag.ContinueOnError)
	date := fs.String("date", "", "day as YYYY-MM-DD (default today)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	day, err := a.day(*date)
	if err != nil {
		return err
	}
	d, err := a.svc.Dashboard(ctx, day)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "date\t%s\n", d.Date)
	fmt.Fprintf(tw, "cases\t%d\n", d.TotalCases)
	fmt.Fprintf(tw, "present today\t%d\n", d.TodayPresent)
	fmt.Fprintf(tw, "absent today\t%d\n", d.TodayAbsent)
	fmt.Fprintf(tw, "completed payments\t%d\n", d.CompletedPayments)
	fmt.Fprintf(tw, "pending payments\t%d\n", d.PendingPayments)
	fmt.Fprintf(tw, "monthly income\t%s\n", core.FormatCurrency(d.TotalMonthlyIncome))
	fmt.Fprintf(tw, "paid this month\t%s\n", core.FormatCurrency(d.TotalPaidThisMonth))
	return tw.Flush()
}

func (a *app) export(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	month := fs.String("month", "", "month as YYYY-MM (default current)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	m, err := a.month(*month)
	if err != nil {
		return err
	}
	ref, err := a.exporter.ExportMonthlyReport(ctx, m)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, ref)
	return nil
}

// day parses YYYY-MM-DD in the clinic location; empty means today.
func (a *app) day(s string) (time.Time, error) {
	if s == "" {
		return time.Now().In(a.loc), nil
	}
	t, err := time.ParseInLocation(time.DateOnly, s, a.loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", core.ErrInvalidDate, s)
	}
	return t, nil
}

func (a *app) month(s string) (time.Time, error) {
	if s == "" {
		return core.MonthStart(time.Now().In(a.loc)), nil
	}
	t, err := time.ParseInLocation("2006-01", s, a.loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid month %q: want YYYY-MM", s)
	}
	return t, nil
}
