package response

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	customError "github.com/segyhp/booking-engine/pkg/errors"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		code     string
		expected int
	}{
		{code: customError.ErrCodeUnauthenticated, expected: http.StatusUnauthorized},
		{code: customError.ErrCodeRoleIneligible, expected: http.StatusForbidden},
		{code: customError.ErrCodeDateConflict, expected: http.StatusConflict},
		{code: customError.ErrCodeInsufficientFunds, expected: http.StatusPaymentRequired},
		{code: customError.ErrCodeAvailabilityFetchFailed, expected: http.StatusServiceUnavailable},
		{code: customError.ErrCodeBelowMinimumInstallment, expected: http.StatusBadRequest},
		{code: customError.ErrCodeTermsNotAccepted, expected: http.StatusBadRequest},
		{code: "", expected: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.expected, StatusFor(tt.code))
		})
	}
}

func TestBusinessError(t *testing.T) {
	rec := httptest.NewRecorder()

	BusinessError(rec, customError.WrapDateConflict("prop-7"))

	assert.Equal(t, http.StatusConflict, rec.Code)
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.False(t, body.Success)
	assert.Equal(t, customError.ErrCodeDateConflict, body.Code)
	assert.NotEmpty(t, body.Message)
}

func TestBusinessError_HidesUncodedErrors(t *testing.T) {
	rec := httptest.NewRecorder()

	BusinessError(rec, errors.New("pq: password authentication failed"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "password")
}

func TestSuccess(t *testing.T) {
	rec := httptest.NewRecorder()

	Created(rec, map[string]string{"tx_ref": "BOOK-1"})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	var body Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
}

func TestLoggingMiddleware(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	handler := LoggingMiddleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Contains(t, buf.String(), `"status":418`)
	assert.Contains(t, buf.String(), `"path":"/health"`)
}

func TestCORSMiddleware_Preflight(t *testing.T) {
	called := false
	handler := CORSMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true }))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/api/v1/bookings", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, called)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
