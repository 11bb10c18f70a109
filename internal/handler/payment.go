package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"

	"github.com/segyhp/booking-engine/internal/domain"
	"github.com/segyhp/booking-engine/pkg/response"
)

// SignatureHeader carries the shared webhook secret sent by the payment processor
const SignatureHeader = "verif-hash"

type PaymentHandler struct {
	outcomes  OutcomeResolver
	validator *validator.Validate
	logger    *slog.Logger
}

func NewPaymentHandler(outcomes OutcomeResolver, logger *slog.Logger) *PaymentHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &PaymentHandler{
		outcomes:  outcomes,
		validator: validator.New(),
		logger:    logger,
	}
}

func (h *PaymentHandler) GetPayment(w http.ResponseWriter, r *http.Request) {
	txRef := mux.Vars(r)["txRef"]

	intent, err := h.outcomes.Outcome(r.Context(), SessionFrom(r.Context()), txRef)
	if err != nil {
		response.BusinessError(w, err)
		return
	}

	response.Success(w, intent)
}

// Cancel is called by the UI when the user closes the checkout page
func (h *PaymentHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	txRef := mux.Vars(r)["txRef"]

	outcome, err := h.outcomes.Cancel(r.Context(), SessionFrom(r.Context()), txRef)
	if err != nil {
		response.BusinessError(w, err)
		return
	}

	response.Success(w, outcome)
}

// Callback receives the processor webhook
func (h *PaymentHandler) Callback(w http.ResponseWriter, r *http.Request) {
	if err := h.outcomes.VerifySignature(r.Header.Get(SignatureHeader)); err != nil {
		h.logger.WarnContext(r.Context(), "rejected gateway callback", "remote_addr", r.RemoteAddr)
		response.BusinessError(w, err)
		return
	}

	var callback domain.GatewayCallback
	if err := json.NewDecoder(r.Body).Decode(&callback); err != nil {
		response.BadRequest(w, "Invalid request body", err)
		return
	}
	if err := h.validator.Struct(callback); err != nil {
		response.BadRequest(w, "Validation failed", err)
		return
	}

	outcome, err := h.outcomes.HandleCallback(r.Context(), callback)
	if err != nil {
		response.BusinessError(w, err)
		return
	}

	response.Success(w, outcome)
}
