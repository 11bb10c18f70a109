package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/segyhp/booking-engine/internal/backend"
	"github.com/segyhp/booking-engine/internal/domain"
	customError "github.com/segyhp/booking-engine/pkg/errors"
	"github.com/segyhp/booking-engine/pkg/utils"
)

type AvailabilityService struct {
	backend BackendAPI
	logger  *slog.Logger
}

func NewAvailabilityService(backend BackendAPI, logger *slog.Logger) *AvailabilityService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AvailabilityService{
		backend: backend,
		logger:  logger,
	}
}

// GetOccupiedDays fetches the confirmed bookings of a property and expands them into occupied days.
// A failed fetch is always an error, never an empty set.
func (s *AvailabilityService) GetOccupiedDays(ctx context.Context, session *domain.Session, propertyID string) (domain.OccupiedDays, error) {
	token := ""
	if session != nil {
		token = session.AccessToken
	}

	calendar, err := s.backend.GetCalendar(ctx, token, propertyID)
	if err != nil {
		s.logger.WarnContext(ctx, "availability fetch failed", "property_id", propertyID, "error", err)
		return nil, customError.WrapAvailabilityFetch(propertyID, err)
	}

	ranges := make([]domain.BookedRange, 0, len(calendar.BookedRanges))
	for _, r := range calendar.BookedRanges {
		booked, err := parseBookedRange(r)
		if err != nil {
			s.logger.WarnContext(ctx, "malformed booked range", "property_id", propertyID, "error", err)
			return nil, customError.WrapAvailabilityFetch(propertyID, err)
		}
		ranges = append(ranges, booked)
	}

	return domain.ExpandOccupied(ranges), nil
}

// IsRangeAvailable reports whether no day of the selection is occupied
func (s *AvailabilityService) IsRangeAvailable(selection domain.DateRangeSelection, occupied domain.OccupiedDays) bool {
	return domain.IsRangeAvailable(selection, occupied)
}

// Calendar returns the disabled dates for a date picker. Days before today are not selectable.
func (s *AvailabilityService) Calendar(ctx context.Context, session *domain.Session, propertyID string, today time.Time) (*domain.AvailabilityCalendar, error) {
	occupied, err := s.GetOccupiedDays(ctx, session, propertyID)
	if err != nil {
		return nil, err
	}

	floor := utils.DateOnly(today)
	days := make([]time.Time, 0, len(occupied))
	for _, day := range occupied.Sorted() {
		if !day.Before(floor) {
			days = append(days, day)
		}
	}

	return &domain.AvailabilityCalendar{
		PropertyID:       propertyID,
		OccupiedDays:     days,
		FromDate:         floor,
		SelectionEnabled: true,
	}, nil
}

func parseBookedRange(r backend.BookedRange) (domain.BookedRange, error) {
	checkIn, err := parseBackendDate(r.CheckIn)
	if err != nil {
		return domain.BookedRange{}, fmt.Errorf("parse check_in: %w", err)
	}
	checkOut, err := parseBackendDate(r.CheckOut)
	if err != nil {
		return domain.BookedRange{}, fmt.Errorf("parse check_out: %w", err)
	}
	return domain.BookedRange{CheckIn: checkIn, CheckOut: checkOut}, nil
}

// parseBackendDate accepts plain dates and RFC 3339 timestamps
func parseBackendDate(value string) (time.Time, error) {
	if t, err := time.Parse(backend.DateLayout, value); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("unrecognised date %q", value)
	}
	return utils.DateOnly(t), nil
}
