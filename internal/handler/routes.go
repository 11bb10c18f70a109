package handler

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/segyhp/booking-engine/pkg/response"
)

type Handlers struct {
	Health       *HealthHandler
	Availability *AvailabilityHandler
	Installment  *InstallmentHandler
	Submission   *SubmissionHandler
	Payment      *PaymentHandler
}

// NewRouter wires every route. Everything under /api/v1 except the quote and the
// gateway callback needs a bearer session. CORS wraps the router so preflight
// requests are answered before route matching.
func NewRouter(h Handlers, sessions SessionLoader, logger *slog.Logger) http.Handler {
	router := mux.NewRouter()
	router.Use(response.LoggingMiddleware(logger))

	// Health check
	router.HandleFunc("/health", h.Health.Health).Methods("GET")
	router.HandleFunc("/health/ready", h.Health.Ready).Methods("GET")

	api := router.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/installments/quote", h.Installment.Quote).Methods("POST")
	api.HandleFunc("/payments/callback", h.Payment.Callback).Methods("POST")

	secured := api.NewRoute().Subrouter()
	secured.Use(Authenticate(sessions))

	secured.HandleFunc("/properties/{propertyId}/availability", h.Availability.GetCalendar).Methods("GET")
	secured.HandleFunc("/properties/{propertyId}/availability/check", h.Availability.CheckRange).Methods("POST")
	secured.HandleFunc("/bookings", h.Submission.CreateBooking).Methods("POST")
	secured.HandleFunc("/investments", h.Submission.CreateInvestment).Methods("POST")
	secured.HandleFunc("/installments/{installmentId}/pay", h.Installment.Pay).Methods("POST")
	secured.HandleFunc("/gifts", h.Submission.SendGift).Methods("POST")
	secured.HandleFunc("/payments/{txRef}", h.Payment.GetPayment).Methods("GET")
	secured.HandleFunc("/payments/{txRef}/cancel", h.Payment.Cancel).Methods("POST")

	return response.CORSMiddleware(router)
}
