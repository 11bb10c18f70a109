package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type SubmissionState string

const (
	SubmissionIdle        SubmissionState = "idle"
	SubmissionValidating  SubmissionState = "validating"
	SubmissionRejected    SubmissionState = "rejected"
	SubmissionDispatching SubmissionState = "dispatching"
	SubmissionConfirmed   SubmissionState = "confirmed"
	SubmissionFailed      SubmissionState = "failed"
)

var submissionTransitions = map[SubmissionState][]SubmissionState{
	SubmissionIdle:        {SubmissionValidating},
	SubmissionValidating:  {SubmissionRejected, SubmissionDispatching},
	SubmissionDispatching: {SubmissionConfirmed, SubmissionFailed},
}

// Submission tracks one form submission through its states
type Submission struct {
	State   SubmissionState   `json:"state"`
	History []SubmissionState `json:"history"`
	Reason  string            `json:"reason,omitempty"`
}

func NewSubmission() *Submission {
	return &Submission{State: SubmissionIdle, History: []SubmissionState{SubmissionIdle}}
}

// Transition moves to next if the state machine allows it and reports whether it did
func (s *Submission) Transition(next SubmissionState) bool {
	for _, allowed := range submissionTransitions[s.State] {
		if allowed == next {
			s.State = next
			s.History = append(s.History, next)
			return true
		}
	}
	return false
}

// Reject moves a validating submission to rejected with the failure reason
func (s *Submission) Reject(reason string) {
	if s.Transition(SubmissionRejected) {
		s.Reason = reason
	}
}

// Fail moves a dispatching submission to failed with the failure reason
func (s *Submission) Fail(reason string) {
	if s.Transition(SubmissionFailed) {
		s.Reason = reason
	}
}

// InvestmentSubmission is a property investment, paid in full or as a plan down payment
type InvestmentSubmission struct {
	PropertyID    string          `json:"property_id"`
	PropertyPrice decimal.Decimal `json:"property_price"`
	Amount        decimal.Decimal `json:"amount"`
	PlanYears     int             `json:"plan_years"`
	TermsAccepted bool            `json:"terms_accepted"`
}

// IsFullPayment reports whether the investment covers the whole price
func (i InvestmentSubmission) IsFullPayment() bool {
	return i.Amount.GreaterThanOrEqual(i.PropertyPrice)
}

// Confirmation is returned to the UI once dispatch succeeded
type Confirmation struct {
	Submission    *Submission      `json:"submission"`
	Receipt       *Receipt         `json:"receipt"`
	Plan          *InstallmentPlan `json:"plan,omitempty"`
	RedirectTo    string           `json:"redirect_to"`
	RedirectAfter time.Duration    `json:"redirect_after"`
}

// DTOs for requests and responses

type CreateInvestmentRequest struct {
	PropertyID    string          `json:"property_id" validate:"required"`
	PropertyPrice decimal.Decimal `json:"property_price"`
	Amount        decimal.Decimal `json:"amount"`
	PlanYears     int             `json:"plan_years"`
	TermsAccepted bool            `json:"terms_accepted"`
}
