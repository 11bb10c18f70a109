package utils

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// CurrencyPlaces is the number of decimal places amounts are rounded to
const CurrencyPlaces = 2

// DateOnly truncates t to midnight UTC of its calendar day
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the number of calendar days from start to end.
// Negative when end is before start.
func DaysBetween(start, end time.Time) int {
	return int(DateOnly(end).Sub(DateOnly(start)).Hours() / 24)
}

// AddMonthsClamped returns the n-th monthly anniversary of start.
// Days that do not exist in the target month clamp to its last day (Jan 31 + 1 month = Feb 28/29).
func AddMonthsClamped(start time.Time, months int) time.Time {
	y, m, d := start.Date()
	firstOfTarget := time.Date(y, m+time.Month(months), 1, 0, 0, 0, 0, start.Location())
	lastDay := firstOfTarget.AddDate(0, 1, -1).Day()
	if d > lastDay {
		d = lastDay
	}
	hh, mm, ss := start.Clock()
	return time.Date(firstOfTarget.Year(), firstOfTarget.Month(), d, hh, mm, ss, start.Nanosecond(), start.Location())
}

// GenerateTxRef builds a transaction reference in the PREFIX-subjectId-timestamp-nonce form
func GenerateTxRef(prefix, subjectID string, at time.Time, nonce string) string {
	return fmt.Sprintf("%s-%s-%d-%s", prefix, subjectID, at.UnixMilli(), nonce)
}

// RoundCurrency rounds an amount half-up to currency precision
func RoundCurrency(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(CurrencyPlaces)
}

// IsDateBefore reports whether a's calendar day is strictly before b's
func IsDateBefore(a, b time.Time) bool {
	return DateOnly(a).Before(DateOnly(b))
}
