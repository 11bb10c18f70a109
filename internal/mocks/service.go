package mocks

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/segyhp/booking-engine/internal/domain"
)

type MockSessionLoader struct {
	mock.Mock
}

func (m *MockSessionLoader) Load(ctx context.Context, token string) (*domain.Session, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Session), args.Error(1)
}

type MockAvailability struct {
	mock.Mock
}

func (m *MockAvailability) GetOccupiedDays(ctx context.Context, session *domain.Session, propertyID string) (domain.OccupiedDays, error) {
	args := m.Called(ctx, session, propertyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(domain.OccupiedDays), args.Error(1)
}

func (m *MockAvailability) IsRangeAvailable(selection domain.DateRangeSelection, occupied domain.OccupiedDays) bool {
	args := m.Called(selection, occupied)
	return args.Bool(0)
}

func (m *MockAvailability) Calendar(ctx context.Context, session *domain.Session, propertyID string, today time.Time) (*domain.AvailabilityCalendar, error) {
	args := m.Called(ctx, session, propertyID, today)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AvailabilityCalendar), args.Error(1)
}

type MockSubmitter struct {
	mock.Mock
}

func (m *MockSubmitter) SubmitBooking(ctx context.Context, session *domain.Session, booking domain.BookingSubmission) (*domain.Confirmation, error) {
	args := m.Called(ctx, session, booking)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Confirmation), args.Error(1)
}

func (m *MockSubmitter) SubmitInvestment(ctx context.Context, session *domain.Session, investment domain.InvestmentSubmission) (*domain.Confirmation, error) {
	args := m.Called(ctx, session, investment)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Confirmation), args.Error(1)
}

func (m *MockSubmitter) PayInstallment(ctx context.Context, session *domain.Session, installmentID string, amount decimal.Decimal) (*domain.Confirmation, error) {
	args := m.Called(ctx, session, installmentID, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Confirmation), args.Error(1)
}

func (m *MockSubmitter) SendGift(ctx context.Context, session *domain.Session, recipient string, amount decimal.Decimal, message string) (*domain.Confirmation, error) {
	args := m.Called(ctx, session, recipient, amount, message)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Confirmation), args.Error(1)
}

type MockOutcomeResolver struct {
	mock.Mock
}

func (m *MockOutcomeResolver) VerifySignature(signature string) error {
	args := m.Called(signature)
	return args.Error(0)
}

func (m *MockOutcomeResolver) HandleCallback(ctx context.Context, callback domain.GatewayCallback) (*domain.PaymentOutcome, error) {
	args := m.Called(ctx, callback)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PaymentOutcome), args.Error(1)
}

func (m *MockOutcomeResolver) Cancel(ctx context.Context, session *domain.Session, txRef string) (*domain.PaymentOutcome, error) {
	args := m.Called(ctx, session, txRef)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PaymentOutcome), args.Error(1)
}

func (m *MockOutcomeResolver) Outcome(ctx context.Context, session *domain.Session, txRef string) (*domain.PaymentIntent, error) {
	args := m.Called(ctx, session, txRef)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PaymentIntent), args.Error(1)
}
