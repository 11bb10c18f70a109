package service

import (
	"context"
	"time"

	"github.com/segyhp/booking-engine/internal/backend"
	"github.com/segyhp/booking-engine/internal/domain"
)

// BackendAPI is the subset of the REST backend the services call
type BackendAPI interface {
	GetProfile(ctx context.Context, token string) (backend.Profile, error)
	GetCalendar(ctx context.Context, token, propertyID string) (backend.CalendarResponse, error)
	GetWallet(ctx context.Context, token string) (backend.Wallet, error)
	CreateBooking(ctx context.Context, token string, payload backend.CreateBookingRequest) (backend.Booking, error)
	InitiateBookingPayment(ctx context.Context, token string, payload backend.InitiateBookingPaymentRequest) (backend.PaymentLink, error)
	InitiateInvestmentPayment(ctx context.Context, token string, payload backend.InitiateInvestmentPaymentRequest) (backend.PaymentLink, error)
	InitiateInstallmentPayment(ctx context.Context, token, installmentID string, payload backend.InitiateInstallmentPaymentRequest) (backend.PaymentLink, error)
	InitiateGiftPayment(ctx context.Context, token string, payload backend.InitiateGiftPaymentRequest) (backend.PaymentLink, error)
	MarkInstallmentPaid(ctx context.Context, token, installmentID string, payload backend.MarkPaidRequest) error
}

// EventPublisher publishes payment outcome events
type EventPublisher interface {
	PublishOutcome(ctx context.Context, outcome domain.PaymentOutcome) error
}

// Locker guards against concurrent submissions of the same form
type Locker interface {
	// Acquire returns a release func, or ErrLockHeld when the key is taken
	Acquire(ctx context.Context, key string, ttl time.Duration) (func(), error)
}

// Clock returns the current time
type Clock func() time.Time
