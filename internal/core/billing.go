// This file implements the billing plans. Each payment type has a strategy
// that converts the case rate into a per-day rate and a monthly requirement.
// Months are approximated as 30 days or 4 weeks regardless of the calendar.

package core

import "fmt"

const (
	BillingDaysPerMonth  = 30
	BillingWeeksPerMonth = 4
	daysPerWeek          = 7
)

// BillingPlan is the strategy interface for a payment type.
type BillingPlan interface {
	// DailyRate is what one present day earns.
	DailyRate(amount float64) float64
	// MonthlyRequired is the amount owed for a full month.
	MonthlyRequired(amount float64) float64
}

type DailyPlan struct{}

func (DailyPlan) DailyRate(amount float64) float64 { return amount }

func (DailyPlan) MonthlyRequired(amount float64) float64 { return amount * BillingDaysPerMonth }

type WeeklyPlan struct{}

func (WeeklyPlan) DailyRate(amount float64) float64 { return amount / daysPerWeek }

func (WeeklyPlan) MonthlyRequired(amount float64) float64 { return amount * BillingWeeksPerMonth }

type MonthlyPlan struct{}

func (MonthlyPlan) DailyRate(amount float64) float64 { return amount / BillingDaysPerMonth }

func (MonthlyPlan) MonthlyRequired(amount float64) float64 { return amount }

var billingPlans = map[PaymentType]BillingPlan{
	PaymentDaily:   DailyPlan{},
	PaymentWeekly:  WeeklyPlan{},
	PaymentMonthly: MonthlyPlan{},
}

// GetBillingPlan returns the plan registered for t.
func GetBillingPlan(t PaymentType) (BillingPlan, error) {
	plan, ok := billingPlans[t]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPaymentType, t)
	}
	return plan, nil
}

// DailyRate returns the per-day rate of c, or 0 for an unknown payment type.
func DailyRate(c Case) float64 {
	plan, err := GetBillingPlan(c.PaymentType)
	if err != nil {
		return 0
	}
	return plan.DailyRate(c.PaymentAmount)
}

// MonthlyRequired returns the monthly requirement of c, or 0 for an unknown
// payment type.
func MonthlyRequired(c Case) float64 {
	plan, err := GetBillingPlan(c.PaymentType)
	if err != nil {
		return 0
	}
	return plan.MonthlyRequired(c.PaymentAmount)
}
