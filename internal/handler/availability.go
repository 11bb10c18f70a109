package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"

	"github.com/segyhp/booking-engine/internal/domain"
	customError "github.com/segyhp/booking-engine/pkg/errors"
	"github.com/segyhp/booking-engine/pkg/response"
	"github.com/segyhp/booking-engine/pkg/utils"
)

const dateLayout = "2006-01-02"

type AvailabilityHandler struct {
	availability AvailabilityReader
	validator    *validator.Validate
	now          func() time.Time
}

func NewAvailabilityHandler(availability AvailabilityReader, now func() time.Time) *AvailabilityHandler {
	if now == nil {
		now = time.Now
	}
	return &AvailabilityHandler{
		availability: availability,
		validator:    validator.New(),
		now:          now,
	}
}

// GetCalendar returns the occupied days of a property and the earliest selectable day.
// When the calendar cannot be fetched, date selection is disabled.
func (h *AvailabilityHandler) GetCalendar(w http.ResponseWriter, r *http.Request) {
	propertyID := mux.Vars(r)["propertyId"]
	today := utils.DateOnly(h.now())

	calendar, err := h.availability.Calendar(r.Context(), SessionFrom(r.Context()), propertyID, today)
	if errors.Is(err, customError.ErrAvailabilityFetch) {
		response.JSON(w, http.StatusServiceUnavailable, &domain.AvailabilityCalendar{
			PropertyID:       propertyID,
			OccupiedDays:     []time.Time{},
			FromDate:         today,
			SelectionEnabled: false,
		})
		return
	}
	if err != nil {
		response.BusinessError(w, err)
		return
	}

	response.Success(w, calendar)
}

// CheckRange reports whether every day in [from, to] is free
func (h *AvailabilityHandler) CheckRange(w http.ResponseWriter, r *http.Request) {
	propertyID := mux.Vars(r)["propertyId"]

	var req domain.CheckAvailabilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}
	if err := h.validator.Struct(req); err != nil {
		response.BadRequest(w, "Validation failed", err)
		return
	}

	from, _ := time.Parse(dateLayout, req.From)
	to, _ := time.Parse(dateLayout, req.To)

	occupied, err := h.availability.GetOccupiedDays(r.Context(), SessionFrom(r.Context()), propertyID)
	if err != nil {
		response.BusinessError(w, err)
		return
	}

	response.Success(w, domain.CheckAvailabilityResponse{
		PropertyID: propertyID,
		From:       req.From,
		To:         req.To,
		Available:  h.availability.IsRangeAvailable(domain.NewSelection(from, to), occupied),
	})
}
