package mocks

import (
	"context"

	"github.com/segyhp/booking-engine/internal/backend"
	"github.com/stretchr/testify/mock"
)

type MockBackend struct {
	mock.Mock
}

func (m *MockBackend) GetProfile(ctx context.Context, token string) (backend.Profile, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(backend.Profile), args.Error(1)
}

func (m *MockBackend) GetCalendar(ctx context.Context, token, propertyID string) (backend.CalendarResponse, error) {
	args := m.Called(ctx, token, propertyID)
	return args.Get(0).(backend.CalendarResponse), args.Error(1)
}

func (m *MockBackend) GetWallet(ctx context.Context, token string) (backend.Wallet, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(backend.Wallet), args.Error(1)
}

func (m *MockBackend) CreateBooking(ctx context.Context, token string, payload backend.CreateBookingRequest) (backend.Booking, error) {
	args := m.Called(ctx, token, payload)
	return args.Get(0).(backend.Booking), args.Error(1)
}

func (m *MockBackend) InitiateBookingPayment(ctx context.Context, token string, payload backend.InitiateBookingPaymentRequest) (backend.PaymentLink, error) {
	args := m.Called(ctx, token, payload)
	return args.Get(0).(backend.PaymentLink), args.Error(1)
}

func (m *MockBackend) InitiateInvestmentPayment(ctx context.Context, token string, payload backend.InitiateInvestmentPaymentRequest) (backend.PaymentLink, error) {
	args := m.Called(ctx, token, payload)
	return args.Get(0).(backend.PaymentLink), args.Error(1)
}

func (m *MockBackend) InitiateInstallmentPayment(ctx context.Context, token, installmentID string, payload backend.InitiateInstallmentPaymentRequest) (backend.PaymentLink, error) {
	args := m.Called(ctx, token, installmentID, payload)
	return args.Get(0).(backend.PaymentLink), args.Error(1)
}

func (m *MockBackend) InitiateGiftPayment(ctx context.Context, token string, payload backend.InitiateGiftPaymentRequest) (backend.PaymentLink, error) {
	args := m.Called(ctx, token, payload)
	return args.Get(0).(backend.PaymentLink), args.Error(1)
}

func (m *MockBackend) MarkInstallmentPaid(ctx context.Context, token, installmentID string, payload backend.MarkPaidRequest) error {
	args := m.Called(ctx, token, installmentID, payload)
	return args.Error(0)
}
