package domain

import (
	"sort"
	"time"

	"github.com/segyhp/booking-engine/pkg/utils"
	"github.com/shopspring/decimal"
)

// BookedRange represents one confirmed reservation.
// Nights in [CheckIn, CheckOut) are occupied; the checkout day is free for a new check-in.
type BookedRange struct {
	CheckIn  time.Time `json:"check_in"`
	CheckOut time.Time `json:"check_out"`
}

// DateRangeSelection is a transient date pick from the UI. Either bound may be unset.
type DateRangeSelection struct {
	From *time.Time `json:"from"`
	To   *time.Time `json:"to"`
}

// NewSelection builds a selection with both bounds set
func NewSelection(from, to time.Time) DateRangeSelection {
	return DateRangeSelection{From: &from, To: &to}
}

// IsEmpty reports whether a bound is missing or the range is inverted
func (s DateRangeSelection) IsEmpty() bool {
	if s.From == nil || s.To == nil {
		return true
	}
	return utils.IsDateBefore(*s.To, *s.From)
}

// Nights returns the number of nights between From and To, zero for an empty selection
func (s DateRangeSelection) Nights() int {
	if s.IsEmpty() {
		return 0
	}
	return utils.DaysBetween(*s.From, *s.To)
}

// OccupiedDays is the set of calendar days (UTC midnight) that cannot be booked
type OccupiedDays map[time.Time]struct{}

// ExpandOccupied expands every booked range into its occupied nights.
// Inverted and zero-night ranges contribute nothing.
func ExpandOccupied(ranges []BookedRange) OccupiedDays {
	occupied := make(OccupiedDays)
	for _, r := range ranges {
		end := utils.DateOnly(r.CheckOut)
		for day := utils.DateOnly(r.CheckIn); day.Before(end); day = day.AddDate(0, 0, 1) {
			occupied[day] = struct{}{}
		}
	}
	return occupied
}

// Contains reports whether the calendar day of t is occupied
func (o OccupiedDays) Contains(t time.Time) bool {
	_, ok := o[utils.DateOnly(t)]
	return ok
}

// Sorted returns the occupied days in ascending order
func (o OccupiedDays) Sorted() []time.Time {
	days := make([]time.Time, 0, len(o))
	for day := range o {
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })
	return days
}

// IsRangeAvailable reports whether no day in [From, To] is occupied.
// An empty selection is never available.
func IsRangeAvailable(selection DateRangeSelection, occupied OccupiedDays) bool {
	if selection.IsEmpty() {
		return false
	}
	end := utils.DateOnly(*selection.To)
	for day := utils.DateOnly(*selection.From); !day.After(end); day = day.AddDate(0, 0, 1) {
		if occupied.Contains(day) {
			return false
		}
	}
	return true
}

// AvailabilityCalendar is what the UI needs to render a date picker
type AvailabilityCalendar struct {
	PropertyID       string      `json:"property_id"`
	OccupiedDays     []time.Time `json:"occupied_days"`
	FromDate         time.Time   `json:"from_date"`
	SelectionEnabled bool        `json:"selection_enabled"`
}

// BookingSubmission is a short-let booking to validate and pay for
type BookingSubmission struct {
	PropertyID    string             `json:"property_id"`
	Selection     DateRangeSelection `json:"selection"`
	NightlyPrice  decimal.Decimal    `json:"nightly_price"`
	PaymentMethod PaymentMethod      `json:"payment_method"`
	TermsAccepted bool               `json:"terms_accepted"`
}

// TotalPrice is the nightly price multiplied by the number of nights
func (b BookingSubmission) TotalPrice() decimal.Decimal {
	return utils.RoundCurrency(b.NightlyPrice.Mul(decimal.NewFromInt(int64(b.Selection.Nights()))))
}

// DTOs for requests and responses

type CreateBookingRequest struct {
	PropertyID    string          `json:"property_id" validate:"required"`
	CheckIn       string          `json:"check_in" validate:"required,datetime=2006-01-02"`
	CheckOut      string          `json:"check_out" validate:"required,datetime=2006-01-02"`
	NightlyPrice  decimal.Decimal `json:"nightly_price"`
	PaymentMethod string          `json:"payment_method" validate:"required,oneof=wallet gateway"`
	TermsAccepted bool            `json:"terms_accepted"`
}

type CheckAvailabilityRequest struct {
	From string `json:"from" validate:"required,datetime=2006-01-02"`
	To   string `json:"to" validate:"required,datetime=2006-01-02"`
}

type CheckAvailabilityResponse struct {
	PropertyID string `json:"property_id"`
	From       string `json:"from"`
	To         string `json:"to"`
	Available  bool   `json:"available"`
}
