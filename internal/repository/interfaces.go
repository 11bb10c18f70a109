package repository

import (
	"context"
	"errors"
	"time"

	"github.com/segyhp/booking-engine/internal/domain"
)

var (
	// ErrIntentNotFound is returned when no intent has the requested tx_ref
	ErrIntentNotFound = errors.New("payment intent not found")

	// ErrIntentStateConflict is returned when an intent is no longer in the expected status
	ErrIntentStateConflict = errors.New("payment intent status changed concurrently")
)

// IntentRepository defines the interface for payment intent ledger operations
type IntentRepository interface {
	// Create records a new payment attempt
	Create(ctx context.Context, intent *domain.PaymentIntent) error

	// GetByTxRef retrieves an intent by its transaction reference
	GetByTxRef(ctx context.Context, txRef string) (*domain.PaymentIntent, error)

	// UpdateStatus moves an intent from one status to another
	UpdateStatus(ctx context.Context, txRef, from, to, reason string) error

	// SetPaymentLink stores the gateway checkout link of a pending intent
	SetPaymentLink(ctx context.Context, txRef, link string) error

	// ListPendingBefore lists pending intents created before the cutoff
	ListPendingBefore(ctx context.Context, cutoff time.Time, limit int) ([]*domain.PaymentIntent, error)
}
