package errors

import (
	"errors"
	"fmt"
)

// Domain errors
var (
	ErrUnauthenticated             = errors.New("authentication required")
	ErrAvailabilityFetch           = errors.New("availability could not be fetched")
	ErrInvalidDateRange            = errors.New("invalid date range")
	ErrDateInPast                  = errors.New("date range starts before today")
	ErrDateConflict                = errors.New("date range overlaps an existing booking")
	ErrTermsNotAccepted            = errors.New("terms and conditions not accepted")
	ErrRoleIneligible              = errors.New("role is not eligible for this payment method")
	ErrMethodNotSupported          = errors.New("payment method not supported for this subject")
	ErrInvalidTotalPrice           = errors.New("total price must be greater than zero")
	ErrInvalidPlanYears            = errors.New("plan years must be 2 or 3")
	ErrBelowMinimumInstallment     = errors.New("installment amount below minimum")
	ErrAmountExceedsPrice          = errors.New("amount exceeds property price")
	ErrInvalidPaymentAmount        = errors.New("invalid payment amount")
	ErrInsufficientFunds           = errors.New("insufficient wallet balance")
	ErrPaymentLinkGenerationFailed = errors.New("payment link generation failed")
	ErrSubmissionFailed            = errors.New("submission failed")
	ErrSubmissionInProgress        = errors.New("submission already in progress")
	ErrIntentNotFound              = errors.New("payment intent not found")
	ErrIntentNotPending            = errors.New("payment intent is not pending")
	ErrInvalidWebhookSignature     = errors.New("invalid webhook signature")
	ErrPeriodOutOfRange            = errors.New("installment period out of range")
)

// BusinessError represents a business logic error
type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

// NewBusinessError creates a new business error
func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Error codes
const (
	ErrCodeUnauthenticated             = "UNAUTHENTICATED"
	ErrCodeAvailabilityFetchFailed     = "AVAILABILITY_FETCH_FAILED"
	ErrCodeInvalidDateRange            = "INVALID_DATE_RANGE"
	ErrCodeDateInPast                  = "DATE_IN_PAST"
	ErrCodeDateConflict                = "DATE_CONFLICT"
	ErrCodeTermsNotAccepted            = "TERMS_NOT_ACCEPTED"
	ErrCodeRoleIneligible              = "ROLE_INELIGIBLE"
	ErrCodeMethodNotSupported          = "METHOD_NOT_SUPPORTED"
	ErrCodeInvalidTotalPrice           = "INVALID_TOTAL_PRICE"
	ErrCodeInvalidPlanYears            = "INVALID_PLAN_YEARS"
	ErrCodeBelowMinimumInstallment     = "BELOW_MINIMUM_INSTALLMENT"
	ErrCodeAmountExceedsPrice          = "AMOUNT_EXCEEDS_PRICE"
	ErrCodeInvalidPaymentAmount        = "INVALID_PAYMENT_AMOUNT"
	ErrCodeInsufficientFunds           = "INSUFFICIENT_FUNDS"
	ErrCodePaymentLinkGenerationFailed = "PAYMENT_LINK_GENERATION_FAILED"
	ErrCodeGenericSubmissionError      = "SUBMISSION_ERROR"
	ErrCodeSubmissionInProgress        = "SUBMISSION_IN_PROGRESS"
	ErrCodeIntentNotFound              = "PAYMENT_INTENT_NOT_FOUND"
	ErrCodeIntentNotPending            = "PAYMENT_INTENT_NOT_PENDING"
	ErrCodeInvalidWebhookSignature     = "INVALID_WEBHOOK_SIGNATURE"
	ErrCodePeriodOutOfRange            = "PERIOD_OUT_OF_RANGE"
	ErrCodeDatabaseError               = "DATABASE_ERROR"
	ErrCodeCacheError                  = "CACHE_ERROR"
)

// Code returns the business error code carried by err, or "" when err is not a BusinessError.
func Code(err error) string {
	var be *BusinessError
	if errors.As(err, &be) {
		return be.Code
	}
	return ""
}

func WrapUnauthenticated() *BusinessError {
	return NewBusinessError(
		ErrCodeUnauthenticated,
		"Please sign in to continue",
		ErrUnauthenticated,
	)
}

func WrapAvailabilityFetch(propertyID string, err error) *BusinessError {
	return NewBusinessError(
		ErrCodeAvailabilityFetchFailed,
		fmt.Sprintf("Could not load availability for property %s, please retry", propertyID),
		errors.Join(ErrAvailabilityFetch, err),
	)
}

func WrapInvalidDateRange() *BusinessError {
	return NewBusinessError(
		ErrCodeInvalidDateRange,
		"Please select a check-in date before the check-out date",
		ErrInvalidDateRange,
	)
}

func WrapDateInPast() *BusinessError {
	return NewBusinessError(
		ErrCodeDateInPast,
		"Selected dates cannot start before today",
		ErrDateInPast,
	)
}

func WrapDateConflict(propertyID string) *BusinessError {
	return NewBusinessError(
		ErrCodeDateConflict,
		fmt.Sprintf("Selected dates are already booked for property %s", propertyID),
		ErrDateConflict,
	)
}

func WrapTermsNotAccepted() *BusinessError {
	return NewBusinessError(
		ErrCodeTermsNotAccepted,
		"Please accept the terms and conditions",
		ErrTermsNotAccepted,
	)
}

func WrapRoleIneligible(role string) *BusinessError {
	return NewBusinessError(
		ErrCodeRoleIneligible,
		fmt.Sprintf("Wallet payments are not available for role %q", role),
		ErrRoleIneligible,
	)
}

func WrapMethodNotSupported(method, subject string) *BusinessError {
	return NewBusinessError(
		ErrCodeMethodNotSupported,
		fmt.Sprintf("Payment method %s cannot be used for %s", method, subject),
		ErrMethodNotSupported,
	)
}

func WrapInvalidTotalPrice(total string) *BusinessError {
	return NewBusinessError(
		ErrCodeInvalidTotalPrice,
		fmt.Sprintf("Total price %s must be greater than zero", total),
		ErrInvalidTotalPrice,
	)
}

func WrapInvalidPlanYears(years int) *BusinessError {
	return NewBusinessError(
		ErrCodeInvalidPlanYears,
		fmt.Sprintf("Plan length of %d years is not offered", years),
		ErrInvalidPlanYears,
	)
}

func WrapBelowMinimumInstallment(minimum, actual string) *BusinessError {
	return NewBusinessError(
		ErrCodeBelowMinimumInstallment,
		fmt.Sprintf("Installment amount %s is below the minimum of %s", actual, minimum),
		ErrBelowMinimumInstallment,
	)
}

func WrapAmountExceedsPrice(price, actual string) *BusinessError {
	return NewBusinessError(
		ErrCodeAmountExceedsPrice,
		fmt.Sprintf("Amount %s exceeds the property price %s", actual, price),
		ErrAmountExceedsPrice,
	)
}

func WrapInvalidPaymentAmount(amount string) *BusinessError {
	return NewBusinessError(
		ErrCodeInvalidPaymentAmount,
		fmt.Sprintf("Invalid payment amount: %s", amount),
		ErrInvalidPaymentAmount,
	)
}

func WrapInsufficientFunds(balance, amount string) *BusinessError {
	return NewBusinessError(
		ErrCodeInsufficientFunds,
		fmt.Sprintf("Wallet balance %s is not enough to pay %s", balance, amount),
		ErrInsufficientFunds,
	)
}

func WrapPaymentLinkGenerationFailed(err error) *BusinessError {
	return NewBusinessError(
		ErrCodePaymentLinkGenerationFailed,
		"Could not start the payment, please try again",
		errors.Join(ErrPaymentLinkGenerationFailed, err),
	)
}

func WrapGenericSubmissionError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeGenericSubmissionError,
		"Something went wrong, please try again",
		errors.Join(ErrSubmissionFailed, err),
	)
}

func WrapSubmissionInProgress() *BusinessError {
	return NewBusinessError(
		ErrCodeSubmissionInProgress,
		"A payment is already being processed",
		ErrSubmissionInProgress,
	)
}

func WrapIntentNotFound(txRef string) *BusinessError {
	return NewBusinessError(
		ErrCodeIntentNotFound,
		fmt.Sprintf("Payment %s not found", txRef),
		ErrIntentNotFound,
	)
}

func WrapIntentNotPending(txRef, status string) *BusinessError {
	return NewBusinessError(
		ErrCodeIntentNotPending,
		fmt.Sprintf("Payment %s is already %s", txRef, status),
		ErrIntentNotPending,
	)
}

func WrapInvalidWebhookSignature() *BusinessError {
	return NewBusinessError(
		ErrCodeInvalidWebhookSignature,
		"Webhook signature does not match",
		ErrInvalidWebhookSignature,
	)
}

func WrapPeriodOutOfRange(index, count int) *BusinessError {
	return NewBusinessError(
		ErrCodePeriodOutOfRange,
		fmt.Sprintf("Period %d is outside a plan of %d periods", index, count),
		ErrPeriodOutOfRange,
	)
}

func WrapDatabaseError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeDatabaseError,
		"database operation failed",
		err,
	)
}

func WrapCacheError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeCacheError,
		"Cache operation failed",
		err,
	)
}
