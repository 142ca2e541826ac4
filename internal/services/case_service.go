package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"clinic/internal/amqp"
	"clinic/internal/core"
	"clinic/internal/log"
	"clinic/internal/storage"
)

var (
	ErrCaseNotFound = errors.New("case not found")
	ErrInvalidInput = errors.New("invalid input")
)

// EventPublisher announces committed mutations. A nil publisher disables
// events.
type EventPublisher interface {
	Publish(ctx context.Context, event *amqp.ChangeEvent) error
}

var _ EventPublisher = (*amqp.Client)(nil)

// Snapshot is the state a screen renders from.
type Snapshot struct {
	Cases      []core.Case
	Attendance []core.AttendanceRecord
	Payments   []core.Payment
}

// SheetRow is one line of the daily attendance sheet. Status is empty when
// the case has not been marked that day.
type SheetRow struct {
	Case   core.Case
	Status core.AttendanceStatus
}

func (r SheetRow) Marked() bool { return r.Status != "" }

// CaseService orchestrates case, attendance and payment operations over the
// persistence store and publishes a change event after each committed write.
type CaseService struct {
	store     storage.PersistenceStore
	publisher EventPublisher
	validate  *validator.Validate
	logger    *log.Logger

	now   func() time.Time
	newID func() string
}

func NewCaseService(store storage.PersistenceStore, publisher EventPublisher, logger *log.Logger) *CaseService {
	if logger == nil {
		logger = log.Nop()
	}
	return &CaseService{
		store:     store,
		publisher: publisher,
		validate:  validator.New(validator.WithRequiredStructEnabled()),
		logger:    logger.WithComponent(log.ComponentService),
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

// CreateCase validates the input and stores a new case with a fresh id.
func (s *CaseService) CreateCase(ctx context.Context, in core.CaseInput) (core.Case, error) {
	if err := s.validateInput(in); err != nil {
		return core.Case{}, err
	}

	c := in.Apply(core.Case{ID: s.newID(), CreatedAt: s.now()})
	if err := c.Validate(); err != nil {
		return core.Case{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if err := s.store.AddCase(ctx, c); err != nil {
		return core.Case{}, fmt.Errorf("add case: %w", err)
	}

	s.publish(ctx, amqp.EventCaseCreated, c.ID, "")
	return c, nil
}

// EditCase replaces the editable fields of an existing case.
func (s *CaseService) EditCase(ctx context.Context, id string, in core.CaseInput) (core.Case, error) {
	if err := s.validateInput(in); err != nil {
		return core.Case{}, err
	}

	existing, ok := s.findCase(ctx, id)
	if !ok {
		return core.Case{}, fmt.Errorf("edit case %q: %w", id, ErrCaseNotFound)
	}

	c := in.Apply(existing)
	if err := c.Validate(); err != nil {
		return core.Case{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if err := s.store.UpdateCase(ctx, c); err != nil {
		return core.Case{}, fmt.Errorf("update case: %w", err)
	}

	s.publish(ctx, amqp.EventCaseUpdated, c.ID, "")
	return c, nil
}

// RemoveCase deletes a case together with its attendance and payments.
func (s *CaseService) RemoveCase(ctx context.Context, id string) error {
	if err := s.store.DeleteCase(ctx, id); err != nil {
		return fmt.Errorf("delete case: %w", err)
	}
	s.publish(ctx, amqp.EventCaseDeleted, id, "")
	return nil
}

// MarkAttendance records the status of a case on the calendar day of day.
// Marking the same day again overwrites the previous status.
func (s *CaseService) MarkAttendance(ctx context.Context, caseID string, day time.Time, status core.AttendanceStatus) (core.AttendanceRecord, error) {
	if _, ok := s.findCase(ctx, caseID); !ok {
		return core.AttendanceRecord{}, fmt.Errorf("mark attendance %q: %w", caseID, ErrCaseNotFound)
	}

	date := core.FormatDate(day)
	r := core.AttendanceRecord{
		ID:        core.AttendanceID(caseID, date),
		CaseID:    caseID,
		Date:      date,
		Status:    status,
		CreatedAt: s.now(),
	}
	if err := r.Validate(); err != nil {
		return core.AttendanceRecord{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if err := s.store.UpsertAttendance(ctx, r); err != nil {
		return core.AttendanceRecord{}, fmt.Errorf("upsert attendance: %w", err)
	}

	s.logger.DebugContext(ctx, "Attendance marked",
		log.NewFields().WithAttendance(caseID, date, string(status)).ToSlice()...)
	s.publish(ctx, amqp.EventAttendanceMarked, caseID, date)
	return r, nil
}

// RecordPayment appends a payment billed under the case's payment type.
func (s *CaseService) RecordPayment(ctx context.Context, caseID string, amount float64, day time.Time) (core.Payment, error) {
	c, ok := s.findCase(ctx, caseID)
	if !ok {
		return core.Payment{}, fmt.Errorf("record payment %q: %w", caseID, ErrCaseNotFound)
	}

	p := core.Payment{
		ID:        s.newID(),
		CaseID:    caseID,
		Amount:    amount,
		Date:      core.FormatDate(day),
		Type:      c.PaymentType,
		CreatedAt: s.now(),
	}
	if err := p.Validate(); err != nil {
		return core.Payment{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if err := s.store.AddPayment(ctx, p); err != nil {
		return core.Payment{}, fmt.Errorf("add payment: %w", err)
	}

	s.publish(ctx, amqp.EventPaymentRecorded, caseID, p.Date)
	return p, nil
}

// Load reads the three collections concurrently.
func (s *CaseService) Load(ctx context.Context) (Snapshot, error) {
	var snap Snapshot
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		snap.Cases = s.store.ListCases(gctx)
		return gctx.Err()
	})
	g.Go(func() error {
		snap.Attendance = s.store.ListAttendance(gctx)
		return gctx.Err()
	})
	g.Go(func() error {
		snap.Payments = s.store.ListPayments(gctx)
		return gctx.Err()
	})

	if err := g.Wait(); err != nil {
		return Snapshot{}, fmt.Errorf("load snapshot: %w", err)
	}
	return snap, nil
}

func (s *CaseService) MonthlyReport(ctx context.Context, month time.Time) (core.MonthlyReport, error) {
	snap, err := s.Load(ctx)
	if err != nil {
		return core.MonthlyReport{}, err
	}
	return core.BuildMonthlyReport(snap.Cases, snap.Attendance, month), nil
}

func (s *CaseService) Dashboard(ctx context.Context, today time.Time) (core.Dashboard, error) {
	snap, err := s.Load(ctx)
	if err != nil {
		return core.Dashboard{}, err
	}
	return core.BuildDashboard(snap.Cases, snap.Attendance, today), nil
}

// CaseStats returns one case's stats for the month containing month.
func (s *CaseService) CaseStats(ctx context.Context, id string, month time.Time) (core.Case, core.MonthlyStats, error) {
	snap, err := s.Load(ctx)
	if err != nil {
		return core.Case{}, core.MonthlyStats{}, err
	}
	for _, c := range snap.Cases {
		if c.ID == id {
			return c, core.ComputeMonthlyStats(c, snap.Attendance, month), nil
		}
	}
	return core.Case{}, core.MonthlyStats{}, fmt.Errorf("case stats %q: %w", id, ErrCaseNotFound)
}

// AttendanceSheet lists every case with its status on day, in stored order.
func (s *CaseService) AttendanceSheet(ctx context.Context, day time.Time) ([]SheetRow, error) {
	snap, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}

	key := core.FormatDate(day)
	byCase := make(map[string]core.AttendanceStatus)
	for _, r := range snap.Attendance {
		if core.DayKey(r.Date) == key {
			byCase[r.CaseID] = r.Status
		}
	}

	rows := make([]SheetRow, 0, len(snap.Cases))
	for _, c := range snap.Cases {
		rows = append(rows, SheetRow{Case: c, Status: byCase[c.ID]})
	}
	return rows, nil
}

func (s *CaseService) ListCases(ctx context.Context) []core.Case {
	return s.store.ListCases(ctx)
}

func (s *CaseService) validateInput(in core.CaseInput) error {
	if err := s.validate.Struct(in); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			fields := make([]string, 0, len(ve))
			for _, fe := range ve {
				fields = append(fields, fmt.Sprintf("%s (%s)", fe.Field(), fe.Tag()))
			}
			return fmt.Errorf("%w: %s", ErrInvalidInput, strings.Join(fields, ", "))
		}
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return nil
}

func (s *CaseService) findCase(ctx context.Context, id string) (core.Case, bool) {
	return s.store.GetCase(ctx, id)
}

func (s *CaseService) publish(ctx context.Context, kind amqp.EventKind, caseID, date string) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, amqp.NewChangeEvent(kind, caseID, date)); err != nil {
		// the write is already committed
		s.logger.ErrorContext(ctx, "Failed to publish change event",
			log.FieldEventKind, string(kind),
			log.FieldCaseID, caseID,
			log.FieldError, err)
	}
}
