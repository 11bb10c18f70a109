package mocks

import (
	"context"
	"time"

	"github.com/segyhp/booking-engine/internal/domain"
	"github.com/stretchr/testify/mock"
)

type MockIntentRepository struct {
	mock.Mock
}

func (m *MockIntentRepository) Create(ctx context.Context, intent *domain.PaymentIntent) error {
	args := m.Called(ctx, intent)
	return args.Error(0)
}

func (m *MockIntentRepository) GetByTxRef(ctx context.Context, txRef string) (*domain.PaymentIntent, error) {
	args := m.Called(ctx, txRef)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PaymentIntent), args.Error(1)
}

func (m *MockIntentRepository) UpdateStatus(ctx context.Context, txRef, from, to, reason string) error {
	args := m.Called(ctx, txRef, from, to, reason)
	return args.Error(0)
}

func (m *MockIntentRepository) SetPaymentLink(ctx context.Context, txRef, link string) error {
	args := m.Called(ctx, txRef, link)
	return args.Error(0)
}

func (m *MockIntentRepository) ListPendingBefore(ctx context.Context, cutoff time.Time, limit int) ([]*domain.PaymentIntent, error) {
	args := m.Called(ctx, cutoff, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.PaymentIntent), args.Error(1)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishOutcome(ctx context.Context, outcome domain.PaymentOutcome) error {
	args := m.Called(ctx, outcome)
	return args.Error(0)
}

type MockLocker struct {
	mock.Mock
}

func (m *MockLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (func(), error) {
	args := m.Called(ctx, key, ttl)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(func()), args.Error(1)
}
