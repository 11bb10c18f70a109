package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(server.URL+"/api", 2*time.Second)
}

func TestClient_GetCalendar(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/auth/calendar/prop-7/", r.URL.Path)
		assert.Equal(t, "Bearer token-1", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"booked_ranges":[{"check_in":"2024-03-15","check_out":"2024-03-20"}]}`))
	})

	calendar, err := client.GetCalendar(context.Background(), "token-1", "prop-7")

	require.NoError(t, err)
	require.Len(t, calendar.BookedRanges, 1)
	assert.Equal(t, "2024-03-15", calendar.BookedRanges[0].CheckIn)
}

func TestClient_CreateBooking(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/auth/book/", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var payload map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "wallet", payload["payment_method"])
		assert.Equal(t, "500000", payload["total_price"])
		assert.Equal(t, "BOOK-prop-7-1", payload["tx_ref"])

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"booking-99","status":"confirmed"}`))
	})

	booking, err := client.CreateBooking(context.Background(), "token-1", CreateBookingRequest{
		Property:      "prop-7",
		CheckIn:       "2024-03-20",
		CheckOut:      "2024-03-25",
		PaymentMethod: "wallet",
		TotalPrice:    decimal.NewFromInt(500000),
		TxRef:         "BOOK-prop-7-1",
	})

	require.NoError(t, err)
	assert.Equal(t, "booking-99", booking.ID)
}

func TestClient_GetWallet_DecodesStringAndNumberBalances(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "string balance", body: `{"balance":"1250.50"}`},
		{name: "number balance", body: `{"balance":1250.50}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			})

			wallet, err := client.GetWallet(context.Background(), "token-1")

			require.NoError(t, err)
			assert.True(t, wallet.Balance.Equal(decimal.RequireFromString("1250.5")))
		})
	}
}

func TestClient_StatusError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":"Invalid token"}`, http.StatusUnauthorized)
	})

	_, err := client.GetProfile(context.Background(), "expired")

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusUnauthorized, statusErr.StatusCode)
	assert.True(t, statusErr.IsClientError())
	assert.Contains(t, statusErr.Body, "Invalid token")
}

func TestClient_MarkInstallmentPaid_EmptyBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/auth/installments/inst-3/mark-paid/", r.URL.Path)
		assert.Equal(t, "Bearer service-token", r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusNoContent)
	})

	err := client.MarkInstallmentPaid(context.Background(), "service-token", "inst-3", MarkPaidRequest{TxRef: "INST-inst-3-1"})

	assert.NoError(t, err)
}

func TestClient_InitiateInstallmentPayment(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/auth/installments/inst-3/initiate-payment/", r.URL.Path)
		_, _ = w.Write([]byte(`{"payment_link":"https://checkout.example/pay/1","tx_ref":"INST-inst-3-1"}`))
	})

	link, err := client.InitiateInstallmentPayment(context.Background(), "token-1", "inst-3", InitiateInstallmentPaymentRequest{
		Amount: decimal.NewFromInt(100),
		TxRef:  "INST-inst-3-1",
	})

	require.NoError(t, err)
	assert.Equal(t, "https://checkout.example/pay/1", link.PaymentLink)
}
