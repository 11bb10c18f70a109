package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/segyhp/booking-engine/internal/domain"
	"github.com/segyhp/booking-engine/pkg/response"
)

type SubmissionHandler struct {
	submission Submitter
	validator  *validator.Validate
}

func NewSubmissionHandler(submission Submitter) *SubmissionHandler {
	return &SubmissionHandler{
		submission: submission,
		validator:  validator.New(),
	}
}

func (h *SubmissionHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}
	if err := h.validator.Struct(req); err != nil {
		response.BadRequest(w, "Validation failed", err)
		return
	}

	checkIn, _ := time.Parse(dateLayout, req.CheckIn)
	checkOut, _ := time.Parse(dateLayout, req.CheckOut)

	confirmation, err := h.submission.SubmitBooking(r.Context(), SessionFrom(r.Context()), domain.BookingSubmission{
		PropertyID:    req.PropertyID,
		Selection:     domain.NewSelection(checkIn, checkOut),
		NightlyPrice:  req.NightlyPrice,
		PaymentMethod: domain.PaymentMethod(req.PaymentMethod),
		TermsAccepted: req.TermsAccepted,
	})
	if err != nil {
		response.BusinessError(w, err)
		return
	}

	response.Created(w, confirmation)
}

func (h *SubmissionHandler) CreateInvestment(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateInvestmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}
	if err := h.validator.Struct(req); err != nil {
		response.BadRequest(w, "Validation failed", err)
		return
	}

	confirmation, err := h.submission.SubmitInvestment(r.Context(), SessionFrom(r.Context()), domain.InvestmentSubmission{
		PropertyID:    req.PropertyID,
		PropertyPrice: req.PropertyPrice,
		Amount:        req.Amount,
		PlanYears:     req.PlanYears,
		TermsAccepted: req.TermsAccepted,
	})
	if err != nil {
		response.BusinessError(w, err)
		return
	}

	response.Created(w, confirmation)
}

func (h *SubmissionHandler) SendGift(w http.ResponseWriter, r *http.Request) {
	var req domain.SendGiftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}
	if err := h.validator.Struct(req); err != nil {
		response.BadRequest(w, "Validation failed", err)
		return
	}

	confirmation, err := h.submission.SendGift(r.Context(), SessionFrom(r.Context()), req.Recipient, req.Amount, req.Message)
	if err != nil {
		response.BusinessError(w, err)
		return
	}

	response.Created(w, confirmation)
}
