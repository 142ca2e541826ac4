// Package storage persists cases, attendance and payments as three JSON
// arrays on a kv.Medium.
//
// Every mutation reads the whole collection, changes it in memory and writes
// the whole collection back. The store does no locking: callers are expected
// to await one mutation before issuing the next.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"clinic/internal/core"
	"clinic/internal/kv"
	"clinic/internal/log"
)

// Medium keys of the three collections.
const (
	KeyCases      = "attendance_cases"
	KeyAttendance = "attendance_records"
	KeyPayments   = "payment_records"
)

// ErrWriteFailed wraps any failure to persist a collection. The mutation must
// be assumed not to have taken effect.
var ErrWriteFailed = errors.New("storage: write failed")

// PersistenceStore is the caller-facing contract. Reads never fail; a missing
// or unreadable collection reads as empty.
type PersistenceStore interface {
	ListCases(ctx context.Context) []core.Case
	ListAttendance(ctx context.Context) []core.AttendanceRecord
	ListPayments(ctx context.Context) []core.Payment
	GetCase(ctx context.Context, id string) (core.Case, bool)

	AddCase(ctx context.Context, c core.Case) error
	UpdateCase(ctx context.Context, c core.Case) error
	DeleteCase(ctx context.Context, id string) error
	UpsertAttendance(ctx context.Context, r core.AttendanceRecord) error
	AddPayment(ctx context.Context, p core.Payment) error
}

var _ PersistenceStore = (*Store)(nil)

type Store struct {
	medium kv.Medium
	logger *log.Logger
}

func New(medium kv.Medium, logger *log.Logger) *Store {
	if logger == nil {
		logger = log.Nop()
	}
	return &Store{medium: medium, logger: logger.WithComponent(log.ComponentStorage)}
}

func (s *Store) ListCases(ctx context.Context) []core.Case {
	return readCollection[core.Case](ctx, s, KeyCases)
}

func (s *Store) ListAttendance(ctx context.Context) []core.AttendanceRecord {
	return readCollection[core.AttendanceRecord](ctx, s, KeyAttendance)
}

func (s *Store) ListPayments(ctx context.Context) []core.Payment {
	return readCollection[core.Payment](ctx, s, KeyPayments)
}

// GetCase looks a case up by id.
func (s *Store) GetCase(ctx context.Context, id string) (core.Case, bool) {
	for _, c := range s.ListCases(ctx) {
		if c.ID == id {
			return c, true
		}
	}
	return core.Case{}, false
}

func (s *Store) AddCase(ctx context.Context, c core.Case) error {
	cases := s.ListCases(ctx)
	return writeCollection(ctx, s, KeyCases, append(cases, c))
}

// UpdateCase replaces the case with the same id in place. Unknown ids are
// ignored and nothing is written.
func (s *Store) UpdateCase(ctx context.Context, c core.Case) error {
	cases := s.ListCases(ctx)
	for i := range cases {
		if cases[i].ID == c.ID {
			cases[i] = c
			return writeCollection(ctx, s, KeyCases, cases)
		}
	}
	s.logger.DebugContext(ctx, "Update of unknown case ignored", log.FieldCaseID, c.ID)
	return nil
}

// DeleteCase removes the case and then its attendance and payments. The
// three writes are not atomic; the first failure stops the cascade.
func (s *Store) DeleteCase(ctx context.Context, id string) error {
	cases := s.ListCases(ctx)
	keptCases := cases[:0]
	for _, c := range cases {
		if c.ID != id {
			keptCases = append(keptCases, c)
		}
	}
	if err := writeCollection(ctx, s, KeyCases, keptCases); err != nil {
		return err
	}

	records := s.ListAttendance(ctx)
	keptRecords := records[:0]
	for _, r := range records {
		if r.CaseID != id {
			keptRecords = append(keptRecords, r)
		}
	}
	if err := writeCollection(ctx, s, KeyAttendance, keptRecords); err != nil {
		return err
	}

	payments := s.ListPayments(ctx)
	keptPayments := payments[:0]
	for _, p := range payments {
		if p.CaseID != id {
			keptPayments = append(keptPayments, p)
		}
	}
	return writeCollection(ctx, s, KeyPayments, keptPayments)
}

// UpsertAttendance replaces the record with the same (caseId, day) or appends
// r. Dates are compared by day key.
func (s *Store) UpsertAttendance(ctx context.Context, r core.AttendanceRecord) error {
	records := s.ListAttendance(ctx)
	day := core.DayKey(r.Date)
	for i := range records {
		if records[i].CaseID == r.CaseID && core.DayKey(records[i].Date) == day {
			records[i] = r
			return writeCollection(ctx, s, KeyAttendance, records)
		}
	}
	return writeCollection(ctx, s, KeyAttendance, append(records, r))
}

func (s *Store) AddPayment(ctx context.Context, p core.Payment) error {
	payments := s.ListPayments(ctx)
	return writeCollection(ctx, s, KeyPayments, append(payments, p))
}

func readCollection[T any](ctx context.Context, s *Store, key string) []T {
	out := []T{}
	b, err := s.medium.Get(ctx, key)
	if errors.Is(err, kv.ErrNotFound) {
		return out
	}
	if err != nil {
		s.logger.WarnContext(ctx, "Collection read failed, using empty collection",
			log.FieldKey, key, log.FieldError, err)
		return out
	}
	if len(b) == 0 {
		return out
	}
	var decoded []T
	if err := json.Unmarshal(b, &decoded); err != nil {
		s.logger.WarnContext(ctx, "Collection payload unreadable, using empty collection",
			log.FieldKey, key, log.FieldBytes, len(b), log.FieldError, err)
		return out
	}
	if decoded == nil {
		return out
	}
	return decoded
}

func writeCollection[T any](ctx context.Context, s *Store, key string, items []T) error {
	if items == nil {
		items = []T{}
	}
	b, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("%w: encode %s: %v", ErrWriteFailed, key, err)
	}
	if err := s.medium.Set(ctx, key, b); err != nil {
		s.logger.ErrorContext(ctx, "Collection write failed", log.FieldKey, key, log.FieldError, err)
		return fmt.Errorf("%w: %s: %w", ErrWriteFailed, key, err)
	}
	s.logger.DebugContext(ctx, "Collection written", log.FieldKey, key, log.FieldCount, len(items), log.FieldBytes, len(b))
	return nil
}
