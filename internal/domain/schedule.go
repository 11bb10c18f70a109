package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Business logic constants
const (
	PlanYearsShort = 2
	PlanYearsLong  = 3
	MonthsPerYear  = 12
)

// DefaultDownPaymentRatio is both the down payment share and the minimum initial investment
var DefaultDownPaymentRatio = decimal.RequireFromString("0.6")

// InstallmentPlan is a down payment followed by equal monthly payments of the balance
type InstallmentPlan struct {
	TotalPrice       decimal.Decimal      `json:"total_price"`
	DownPaymentRatio decimal.Decimal      `json:"down_payment_ratio"`
	DownPayment      decimal.Decimal      `json:"down_payment"`
	Balance          decimal.Decimal      `json:"balance"`
	PlanYears        int                  `json:"plan_years"`
	StartDate        time.Time            `json:"start_date"`
	Periods          []*InstallmentPeriod `json:"periods"`
}

// InstallmentPeriod is one monthly payment of a plan
type InstallmentPeriod struct {
	Number    int             `json:"number"`
	DueDate   time.Time       `json:"due_date"`
	AmountDue decimal.Decimal `json:"amount_due"`
	IsPaid    bool            `json:"is_paid"`
	DatePaid  *time.Time      `json:"date_paid"`
}

// PeriodTotal sums the amounts due across every period
func (p *InstallmentPlan) PeriodTotal() decimal.Decimal {
	total := decimal.Zero
	for _, period := range p.Periods {
		total = total.Add(period.AmountDue)
	}
	return total
}

// Outstanding sums the amounts of periods not yet paid
func (p *InstallmentPlan) Outstanding() decimal.Decimal {
	total := decimal.Zero
	for _, period := range p.Periods {
		if !period.IsPaid {
			total = total.Add(period.AmountDue)
		}
	}
	return total
}

// NextDue returns the earliest unpaid period, or nil when the plan is settled
func (p *InstallmentPlan) NextDue() *InstallmentPeriod {
	for _, period := range p.Periods {
		if !period.IsPaid {
			return period
		}
	}
	return nil
}

// DTOs for requests and responses

type QuoteScheduleRequest struct {
	TotalPrice decimal.Decimal `json:"total_price"`
	PlanYears  int             `json:"plan_years" validate:"required"`
	StartDate  string          `json:"start_date" validate:"omitempty,datetime=2006-01-02"`
}

type QuoteScheduleResponse struct {
	Plan               *InstallmentPlan `json:"plan"`
	MinimumInstallment decimal.Decimal  `json:"minimum_installment"`
}
