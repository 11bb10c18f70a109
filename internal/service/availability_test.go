package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/segyhp/booking-engine/internal/backend"
	"github.com/segyhp/booking-engine/internal/domain"
	"github.com/segyhp/booking-engine/internal/mocks"
	customError "github.com/segyhp/booking-engine/pkg/errors"
)

func TestAvailabilityService_GetOccupiedDays(t *testing.T) {
	mockBackend := &mocks.MockBackend{}
	service := NewAvailabilityService(mockBackend, discardLogger())

	mockBackend.On("GetCalendar", mock.Anything, "token-1", "prop-7").Return(backend.CalendarResponse{
		BookedRanges: []backend.BookedRange{
			{CheckIn: "2024-03-15", CheckOut: "2024-03-20"},
			{CheckIn: "2024-04-01T00:00:00Z", CheckOut: "2024-04-03T00:00:00Z"},
		},
	}, nil)

	occupied, err := service.GetOccupiedDays(context.Background(), investorSession(), "prop-7")

	require.NoError(t, err)
	assert.Len(t, occupied, 7)
	assert.True(t, occupied.Contains(date("2024-03-15")))
	assert.True(t, occupied.Contains(date("2024-03-19")))
	assert.False(t, occupied.Contains(date("2024-03-20")), "checkout day must stay bookable")
	assert.True(t, occupied.Contains(date("2024-04-02")))
	assert.False(t, occupied.Contains(date("2024-04-03")))
	mockBackend.AssertExpectations(t)
}

func TestAvailabilityService_GetOccupiedDays_FailsClosed(t *testing.T) {
	tests := []struct {
		name     string
		response backend.CalendarResponse
		err      error
	}{
		{
			name: "backend unreachable",
			err:  errors.New("dial tcp: connection refused"),
		},
		{
			name: "backend server error",
			err:  &backend.StatusError{StatusCode: 502, Status: "502 Bad Gateway"},
		},
		{
			name: "malformed range",
			response: backend.CalendarResponse{
				BookedRanges: []backend.BookedRange{{CheckIn: "15/03/2024", CheckOut: "2024-03-20"}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockBackend := &mocks.MockBackend{}
			service := NewAvailabilityService(mockBackend, discardLogger())
			mockBackend.On("GetCalendar", mock.Anything, "token-1", "prop-7").Return(tt.response, tt.err)

			occupied, err := service.GetOccupiedDays(context.Background(), investorSession(), "prop-7")

			assert.Nil(t, occupied)
			assert.ErrorIs(t, err, customError.ErrAvailabilityFetch)
			assert.Equal(t, customError.ErrCodeAvailabilityFetchFailed, customError.Code(err))
		})
	}
}

func TestAvailabilityService_IsRangeAvailable_Scenario(t *testing.T) {
	service := NewAvailabilityService(nil, discardLogger())
	occupied := domain.ExpandOccupied([]domain.BookedRange{
		{CheckIn: date("2024-03-15"), CheckOut: date("2024-03-20")},
	})

	tests := []struct {
		name     string
		from     string
		to       string
		expected bool
	}{
		{name: "overlaps the 18th and 19th", from: "2024-03-18", to: "2024-03-22", expected: false},
		{name: "starts on checkout day", from: "2024-03-20", to: "2024-03-25", expected: true},
		{name: "wraps the whole booking", from: "2024-03-10", to: "2024-03-25", expected: false},
		{name: "ends before the booking", from: "2024-03-10", to: "2024-03-14", expected: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			selection := domain.NewSelection(date(tt.from), date(tt.to))
			assert.Equal(t, tt.expected, service.IsRangeAvailable(selection, occupied))
		})
	}
}

func TestAvailabilityService_Calendar(t *testing.T) {
	mockBackend := &mocks.MockBackend{}
	service := NewAvailabilityService(mockBackend, discardLogger())

	mockBackend.On("GetCalendar", mock.Anything, "token-1", "prop-7").Return(backend.CalendarResponse{
		BookedRanges: []backend.BookedRange{
			{CheckIn: "2024-02-27", CheckOut: "2024-03-03"},
		},
	}, nil)

	calendar, err := service.Calendar(context.Background(), investorSession(), "prop-7", testNow)

	require.NoError(t, err)
	assert.Equal(t, date("2024-03-01"), calendar.FromDate)
	assert.Equal(t, []string{"2024-03-01", "2024-03-02"}, formatDays(calendar.OccupiedDays))
	assert.True(t, calendar.SelectionEnabled)
}

func formatDays(days []time.Time) []string {
	out := make([]string, 0, len(days))
	for _, day := range days {
		out = append(out, day.Format("2006-01-02"))
	}
	return out
}
