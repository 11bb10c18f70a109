package handler

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/segyhp/booking-engine/internal/domain"
)

type SessionLoader interface {
	Load(ctx context.Context, token string) (*domain.Session, error)
}

type AvailabilityReader interface {
	GetOccupiedDays(ctx context.Context, session *domain.Session, propertyID string) (domain.OccupiedDays, error)
	IsRangeAvailable(selection domain.DateRangeSelection, occupied domain.OccupiedDays) bool
	Calendar(ctx context.Context, session *domain.Session, propertyID string, today time.Time) (*domain.AvailabilityCalendar, error)
}

type ScheduleQuoter interface {
	MinimumInstallment(totalPrice decimal.Decimal) decimal.Decimal
	ComputeSchedule(totalPrice decimal.Decimal, planYears int, start time.Time) (*domain.InstallmentPlan, error)
}

type Submitter interface {
	SubmitBooking(ctx context.Context, session *domain.Session, booking domain.BookingSubmission) (*domain.Confirmation, error)
	SubmitInvestment(ctx context.Context, session *domain.Session, investment domain.InvestmentSubmission) (*domain.Confirmation, error)
	PayInstallment(ctx context.Context, session *domain.Session, installmentID string, amount decimal.Decimal) (*domain.Confirmation, error)
	SendGift(ctx context.Context, session *domain.Session, recipient string, amount decimal.Decimal, message string) (*domain.Confirmation, error)
}

type OutcomeResolver interface {
	VerifySignature(signature string) error
	HandleCallback(ctx context.Context, callback domain.GatewayCallback) (*domain.PaymentOutcome, error)
	Cancel(ctx context.Context, session *domain.Session, txRef string) (*domain.PaymentOutcome, error)
	Outcome(ctx context.Context, session *domain.Session, txRef string) (*domain.PaymentIntent, error)
}
