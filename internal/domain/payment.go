package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PaymentMethod string

const (
	PaymentMethodWallet  PaymentMethod = "wallet"
	PaymentMethodGateway PaymentMethod = "gateway"
)

func (m PaymentMethod) Valid() bool {
	return m == PaymentMethodWallet || m == PaymentMethodGateway
}

type SubjectType string

const (
	SubjectBooking     SubjectType = "booking"
	SubjectInvestment  SubjectType = "investment"
	SubjectInstallment SubjectType = "installment"
	SubjectGift        SubjectType = "gift"
)

// TxRefPrefix is the transaction reference prefix for a subject type
func (s SubjectType) TxRefPrefix() string {
	switch s {
	case SubjectBooking:
		return "BOOK"
	case SubjectInvestment:
		return "INV"
	case SubjectInstallment:
		return "INST"
	case SubjectGift:
		return "GIFT"
	}
	return "PAY"
}

// Intent lifecycle
const (
	IntentStatusCreated   = "created"
	IntentStatusPending   = "pending"
	IntentStatusSucceeded = "succeeded"
	IntentStatusFailed    = "failed"
	IntentStatusCancelled = "cancelled"
	IntentStatusTimedOut  = "timed_out"
)

// IsTerminalStatus reports whether an intent in this status can no longer change
func IsTerminalStatus(status string) bool {
	switch status {
	case IntentStatusSucceeded, IntentStatusFailed, IntentStatusCancelled, IntentStatusTimedOut:
		return true
	}
	return false
}

// PaymentIntent is one payment attempt. A failed attempt is never retried;
// the user starts a new one with a fresh TxRef.
type PaymentIntent struct {
	ID            uuid.UUID       `json:"id" db:"id"`
	TxRef         string          `json:"tx_ref" db:"tx_ref"`
	UserID        string          `json:"user_id" db:"user_id"`
	Method        PaymentMethod   `json:"method" db:"method"`
	Amount        decimal.Decimal `json:"amount" db:"amount"`
	SubjectType   SubjectType     `json:"subject_type" db:"subject_type"`
	SubjectID     string          `json:"subject_id" db:"subject_id"`
	Status        string          `json:"status" db:"status"`
	PaymentLink   string          `json:"payment_link,omitempty" db:"payment_link"`
	FailureReason string          `json:"failure_reason,omitempty" db:"failure_reason"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at" db:"updated_at"`

	// Subject details sent to the backend, not persisted.
	Booking    *BookingTerms    `json:"-" db:"-"`
	Investment *InvestmentTerms `json:"-" db:"-"`
	Gift       *GiftTerms       `json:"-" db:"-"`
}

type BookingTerms struct {
	PropertyID string
	CheckIn    time.Time
	CheckOut   time.Time
}

type InvestmentTerms struct {
	PropertyID string
	PlanYears  int
}

type GiftTerms struct {
	Recipient string
	Message   string
}

// Receipt is what a dispatch attempt reports back synchronously.
// For the gateway path Status stays pending and PaymentLink is where the user is redirected.
type Receipt struct {
	TxRef       string          `json:"tx_ref"`
	Method      PaymentMethod   `json:"method"`
	Amount      decimal.Decimal `json:"amount"`
	Status      string          `json:"status"`
	PaymentLink string          `json:"payment_link,omitempty"`
	Reference   string          `json:"reference,omitempty"`
}

// PaymentOutcome is the resolved state of a gateway attempt
type PaymentOutcome struct {
	TxRef       string      `json:"tx_ref"`
	Status      string      `json:"status"`
	SubjectType SubjectType `json:"subject_type"`
	SubjectID   string      `json:"subject_id"`
	Reason      string      `json:"reason,omitempty"`
	ResolvedAt  time.Time   `json:"resolved_at"`
}

// GatewayCallback is the webhook payload posted by the payment processor
type GatewayCallback struct {
	TxRef         string          `json:"tx_ref" validate:"required"`
	Status        string          `json:"status" validate:"required"`
	Amount        decimal.Decimal `json:"amount"`
	TransactionID string          `json:"transaction_id"`
	Message       string          `json:"message"`
}

// FailureAmountMismatch is recorded when a successful callback reports a different amount than the intent
const FailureAmountMismatch = "AMOUNT_MISMATCH"

// Gateway callback statuses
const (
	GatewayStatusSuccessful = "successful"
	GatewayStatusFailed     = "failed"
	GatewayStatusCancelled  = "cancelled"
)

// DTOs for requests and responses

type PayInstallmentRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

type SendGiftRequest struct {
	Recipient string          `json:"recipient" validate:"required"`
	Amount    decimal.Decimal `json:"amount"`
	Message   string          `json:"message" validate:"max=280"`
}
