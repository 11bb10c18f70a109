package backend

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// DateLayout is the calendar date format the REST backend speaks
const DateLayout = "2006-01-02"

// StatusError is returned for any non-2xx response
type StatusError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("request failed: %s: %s", e.Status, e.Body)
}

// IsClientError reports whether the backend rejected the request (4xx)
func (e *StatusError) IsClientError() bool {
	return e.StatusCode >= 400 && e.StatusCode < 500
}

type CalendarResponse struct {
	BookedRanges []BookedRange `json:"booked_ranges"`
}

type BookedRange struct {
	CheckIn  string `json:"check_in"`
	CheckOut string `json:"check_out"`
}

type Profile struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type Wallet struct {
	Balance decimal.Decimal `json:"balance"`
}

type CreateBookingRequest struct {
	Property      string          `json:"property"`
	CheckIn       string          `json:"check_in"`
	CheckOut      string          `json:"check_out"`
	PaymentMethod string          `json:"payment_method"`
	TotalPrice    decimal.Decimal `json:"total_price"`
	TxRef         string          `json:"tx_ref"`
}

type Booking struct {
	ID         string          `json:"id"`
	Property   string          `json:"property"`
	CheckIn    string          `json:"check_in"`
	CheckOut   string          `json:"check_out"`
	TotalPrice decimal.Decimal `json:"total_price"`
	Status     string          `json:"status"`
}

type InitiateBookingPaymentRequest struct {
	Property   string          `json:"property"`
	CheckIn    string          `json:"check_in"`
	CheckOut   string          `json:"check_out"`
	TotalPrice decimal.Decimal `json:"total_price"`
	TxRef      string          `json:"tx_ref"`
}

type InitiateInvestmentPaymentRequest struct {
	Property       string          `json:"property"`
	AmountInvested decimal.Decimal `json:"amount_invested"`
	PlanYears      int             `json:"plan_years,omitempty"`
	TxRef          string          `json:"tx_ref"`
}

type InitiateInstallmentPaymentRequest struct {
	Amount decimal.Decimal `json:"amount"`
	TxRef  string          `json:"tx_ref"`
}

type InitiateGiftPaymentRequest struct {
	Recipient string          `json:"recipient"`
	Amount    decimal.Decimal `json:"amount"`
	Message   string          `json:"message,omitempty"`
	TxRef     string          `json:"tx_ref"`
}

type PaymentLink struct {
	PaymentLink string `json:"payment_link"`
	TxRef       string `json:"tx_ref"`
}

type MarkPaidRequest struct {
	TxRef         string `json:"tx_ref"`
	TransactionID string `json:"transaction_id,omitempty"`
}
