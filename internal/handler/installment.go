package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"

	"github.com/segyhp/booking-engine/internal/domain"
	"github.com/segyhp/booking-engine/pkg/response"
	"github.com/segyhp/booking-engine/pkg/utils"
)

type InstallmentHandler struct {
	scheduler  ScheduleQuoter
	submission Submitter
	validator  *validator.Validate
	now        func() time.Time
}

func NewInstallmentHandler(scheduler ScheduleQuoter, submission Submitter, now func() time.Time) *InstallmentHandler {
	if now == nil {
		now = time.Now
	}
	return &InstallmentHandler{
		scheduler:  scheduler,
		submission: submission,
		validator:  validator.New(),
		now:        now,
	}
}

// Quote previews the down payment and monthly schedule for a price and plan length
func (h *InstallmentHandler) Quote(w http.ResponseWriter, r *http.Request) {
	var req domain.QuoteScheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}
	if err := h.validator.Struct(req); err != nil {
		response.BadRequest(w, "Validation failed", err)
		return
	}

	start := utils.DateOnly(h.now())
	if req.StartDate != "" {
		start, _ = time.Parse(dateLayout, req.StartDate)
	}

	plan, err := h.scheduler.ComputeSchedule(req.TotalPrice, req.PlanYears, start)
	if err != nil {
		response.BusinessError(w, err)
		return
	}

	response.Success(w, domain.QuoteScheduleResponse{
		Plan:               plan,
		MinimumInstallment: h.scheduler.MinimumInstallment(req.TotalPrice),
	})
}

// Pay starts gateway checkout for one installment
func (h *InstallmentHandler) Pay(w http.ResponseWriter, r *http.Request) {
	installmentID := mux.Vars(r)["installmentId"]

	var req domain.PayInstallmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}

	confirmation, err := h.submission.PayInstallment(r.Context(), SessionFrom(r.Context()), installmentID, req.Amount)
	if err != nil {
		response.BusinessError(w, err)
		return
	}

	response.Created(w, confirmation)
}
