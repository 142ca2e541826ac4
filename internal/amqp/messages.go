package amqp

import (
	"encoding/json"
	"fmt"
	"time"

	"clinic/internal/core"
)

// EventKind names the mutation that produced a ChangeEvent.
type EventKind string

const (
	EventCaseCreated      EventKind = "case.created"
	EventCaseUpdated      EventKind = "case.updated"
	EventCaseDeleted      EventKind = "case.deleted"
	EventAttendanceMarked EventKind = "attendance.marked"
	EventPaymentRecorded  EventKind = "payment.recorded"
)

func (k EventKind) Valid() bool {
	switch k {
	case EventCaseCreated, EventCaseUpdated, EventCaseDeleted, EventAttendanceMarked, EventPaymentRecorded:
		return true
	default:
		return false
	}
}

// ChangeEvent is a lightweight notification that the stored state changed.
// It carries identifiers only; consumers reload what they need.
type ChangeEvent struct {
	Kind      EventKind `json:"kind"`
	CaseID    string    `json:"caseId"`
	Date      string    `json:"date,omitempty"` // YYYY-MM-DD for attendance and payments
	Timestamp time.Time `json:"timestamp"`
}

func NewChangeEvent(kind EventKind, caseID, date string) *ChangeEvent {
	return &ChangeEvent{
		Kind:      kind,
		CaseID:    caseID,
		Date:      date,
		Timestamp: time.Now(),
	}
}

// Month returns the month whose report the event affects: the month of Date
// when set, otherwise the month of Timestamp in loc.
func (e *ChangeEvent) Month(loc *time.Location) time.Time {
	if d, err := core.ParseDate(e.Date); err == nil {
		return time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, loc)
	}
	return core.MonthStart(e.Timestamp.In(loc))
}

// ToJSON converts the event to JSON bytes
func (e *ChangeEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// ChangeEventFromJSON decodes an event and rejects unknown kinds.
func ChangeEventFromJSON(data []byte) (*ChangeEvent, error) {
	var e ChangeEvent
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	if !e.Kind.Valid() {
		return nil, fmt.Errorf("unknown event kind %q", e.Kind)
	}
	return &e, nil
}
