package core

import (
	"errors"
	"strings"
	"time"
)

const (
	PaymentDaily   PaymentType = "daily"
	PaymentWeekly  PaymentType = "weekly"
	PaymentMonthly PaymentType = "monthly"
)

const (
	StatusPresent AttendanceStatus = "present"
	StatusAbsent  AttendanceStatus = "absent"
)

type (
	// PaymentType is the billing cadence of a case.
	PaymentType string

	AttendanceStatus string

	// Case is a billed patient.
	Case struct {
		ID            string      `json:"id"`
		Name          string      `json:"name"`
		Age           int         `json:"age"`
		Diagnosis     string      `json:"diagnosis"`
		PaymentType   PaymentType `json:"paymentType"`
		PaymentAmount float64     `json:"paymentAmount"` // rate for one unit of PaymentType
		CreatedAt     time.Time   `json:"createdAt"`
	}

	// AttendanceRecord is one case's attendance on one calendar day.
	// At most one record exists per (CaseID, Date).
	AttendanceRecord struct {
		ID        string           `json:"id"`
		CaseID    string           `json:"caseId"`
		Date      string           `json:"date"` // YYYY-MM-DD
		Status    AttendanceStatus `json:"status"`
		CreatedAt time.Time        `json:"createdAt"`
	}

	// Payment is a standalone payment event. It is append-only.
	Payment struct {
		ID        string      `json:"id"`
		CaseID    string      `json:"caseId"`
		Amount    float64     `json:"amount"`
		Date      string      `json:"date"` // YYYY-MM-DD
		Type      PaymentType `json:"type"`
		CreatedAt time.Time   `json:"createdAt"`
	}

	// CaseInput holds the editable fields of a case as entered by the clinician.
	CaseInput struct {
		Name          string      `json:"name" validate:"required,max=200"`
		Age           int         `json:"age" validate:"gt=0,lt=150"`
		Diagnosis     string      `json:"diagnosis" validate:"required,max=500"`
		PaymentType   PaymentType `json:"paymentType" validate:"required,oneof=daily weekly monthly"`
		PaymentAmount float64     `json:"paymentAmount" validate:"gt=0"`
	}
)

var (
	ErrEmptyName          = errors.New("empty name")
	ErrInvalidAge         = errors.New("invalid age")
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrInvalidPaymentType = errors.New("invalid payment type")
	ErrInvalidStatus      = errors.New("invalid attendance status")
	ErrInvalidDate        = errors.New("invalid date")
	ErrEmptyCaseID        = errors.New("empty case id")
)

func (t PaymentType) Valid() bool {
	switch t {
	case PaymentDaily, PaymentWeekly, PaymentMonthly:
		return true
	default:
		return false
	}
}

func (s AttendanceStatus) Valid() bool {
	return s == StatusPresent || s == StatusAbsent
}

// AttendanceID derives the record id from its composite natural key.
func AttendanceID(caseID, date string) string {
	return caseID + "-" + DayKey(date)
}

// Apply copies the editable fields onto c, keeping ID and CreatedAt.
func (in CaseInput) Apply(c Case) Case {
	c.Name = strings.TrimSpace(in.Name)
	c.Age = in.Age
	c.Diagnosis = strings.TrimSpace(in.Diagnosis)
	c.PaymentType = in.PaymentType
	c.PaymentAmount = in.PaymentAmount
	return c
}

func (c Case) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	if c.Age <= 0 {
		return ErrInvalidAge
	}
	if !c.PaymentType.Valid() {
		return ErrInvalidPaymentType
	}
	// written as a negation so NaN is rejected too
	if !(c.PaymentAmount > 0) {
		return ErrInvalidAmount
	}
	return nil
}

func (r AttendanceRecord) Validate() error {
	if strings.TrimSpace(r.CaseID) == "" {
		return ErrEmptyCaseID
	}
	if _, err := ParseDate(r.Date); err != nil {
		return err
	}
	if !r.Status.Valid() {
		return ErrInvalidStatus
	}
	return nil
}

func (p Payment) Validate() error {
	if strings.TrimSpace(p.CaseID) == "" {
		return ErrEmptyCaseID
	}
	if !(p.Amount > 0) {
		return ErrInvalidAmount
	}
	if _, err := ParseDate(p.Date); err != nil {
		return err
	}
	if !p.Type.Valid() {
		return ErrInvalidPaymentType
	}
	return nil
}
