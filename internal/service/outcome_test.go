package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/segyhp/booking-engine/internal/backend"
	"github.com/segyhp/booking-engine/internal/domain"
	"github.com/segyhp/booking-engine/internal/mocks"
	"github.com/segyhp/booking-engine/internal/repository"
	customError "github.com/segyhp/booking-engine/pkg/errors"
)

type outcomeFixture struct {
	backend   *mocks.MockBackend
	intents   *mocks.MockIntentRepository
	publisher *mocks.MockPublisher
	service   *OutcomeService
}

func newOutcomeFixture() *outcomeFixture {
	f := &outcomeFixture{
		backend:   &mocks.MockBackend{},
		intents:   &mocks.MockIntentRepository{},
		publisher: &mocks.MockPublisher{},
	}
	f.service = NewOutcomeService(f.backend, f.intents, f.publisher, "hook-secret", "service-token", fixedClock, discardLogger())
	return f
}

func pendingIntent(txRef string, subject domain.SubjectType, subjectID string) *domain.PaymentIntent {
	return &domain.PaymentIntent{
		ID:          uuid.New(),
		TxRef:       txRef,
		UserID:      "user-1",
		Method:      domain.PaymentMethodGateway,
		Amount:      decimal.NewFromInt(166667),
		SubjectType: subject,
		SubjectID:   subjectID,
		Status:      domain.IntentStatusPending,
		PaymentLink: "https://checkout.example/pay/" + txRef,
		CreatedAt:   testNow.Add(-10 * time.Minute),
	}
}

func TestOutcomeService_VerifySignature(t *testing.T) {
	f := newOutcomeFixture()

	assert.NoError(t, f.service.VerifySignature("hook-secret"))
	assert.ErrorIs(t, f.service.VerifySignature("wrong"), customError.ErrInvalidWebhookSignature)
	assert.ErrorIs(t, f.service.VerifySignature(""), customError.ErrInvalidWebhookSignature)

	unconfigured := NewOutcomeService(nil, nil, nil, "", "", fixedClock, discardLogger())
	assert.ErrorIs(t, unconfigured.VerifySignature(""), customError.ErrInvalidWebhookSignature)
}

func TestOutcomeService_HandleCallback_InstallmentSucceeded(t *testing.T) {
	f := newOutcomeFixture()
	txRef := "INST-inst-3-1709284800000"
	intent := pendingIntent(txRef, domain.SubjectInstallment, "inst-3")

	f.intents.On("GetByTxRef", mock.Anything, txRef).Return(intent, nil)
	f.backend.On("MarkInstallmentPaid", mock.Anything, "service-token", "inst-3", backend.MarkPaidRequest{
		TxRef:         txRef,
		TransactionID: "flw-123",
	}).Return(nil)
	f.intents.On("UpdateStatus", mock.Anything, txRef, domain.IntentStatusPending, domain.IntentStatusSucceeded, "").Return(nil)
	f.publisher.On("PublishOutcome", mock.Anything, mock.MatchedBy(func(o domain.PaymentOutcome) bool {
		return o.TxRef == txRef && o.Status == domain.IntentStatusSucceeded && o.SubjectType == domain.SubjectInstallment
	})).Return(nil)

	outcome, err := f.service.HandleCallback(context.Background(), domain.GatewayCallback{
		TxRef:         txRef,
		Status:        "successful",
		Amount:        decimal.NewFromInt(166667),
		TransactionID: "flw-123",
	})

	require.NoError(t, err)
	assert.Equal(t, domain.IntentStatusSucceeded, outcome.Status)
	assert.Equal(t, testNow, outcome.ResolvedAt)
	f.backend.AssertExpectations(t)
	f.intents.AssertExpectations(t)
	f.publisher.AssertExpectations(t)
}

func TestOutcomeService_HandleCallback_MarkPaidFailureKeepsPending(t *testing.T) {
	f := newOutcomeFixture()
	txRef := "INST-inst-3-1709284800000"

	f.intents.On("GetByTxRef", mock.Anything, txRef).Return(pendingIntent(txRef, domain.SubjectInstallment, "inst-3"), nil)
	f.backend.On("MarkInstallmentPaid", mock.Anything, "service-token", "inst-3", mock.Anything).
		Return(&backend.StatusError{StatusCode: 503, Status: "503 Service Unavailable"})

	outcome, err := f.service.HandleCallback(context.Background(), domain.GatewayCallback{
		TxRef: txRef, Status: "successful", Amount: decimal.NewFromInt(166667),
	})

	assert.Nil(t, outcome)
	assert.Equal(t, customError.ErrCodeGenericSubmissionError, customError.Code(err))
	f.intents.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	f.publisher.AssertNotCalled(t, "PublishOutcome", mock.Anything, mock.Anything)
}

func TestOutcomeService_HandleCallback_StatusMapping(t *testing.T) {
	tests := []struct {
		name           string
		callback       domain.GatewayCallback
		expectedStatus string
		expectedReason string
	}{
		{
			name:           "failed with message",
			callback:       domain.GatewayCallback{Status: "failed", Message: "card declined"},
			expectedStatus: domain.IntentStatusFailed,
			expectedReason: "card declined",
		},
		{
			name:           "unknown status",
			callback:       domain.GatewayCallback{Status: "reversed"},
			expectedStatus: domain.IntentStatusFailed,
			expectedReason: "gateway reported reversed",
		},
		{
			name:           "cancelled",
			callback:       domain.GatewayCallback{Status: "CANCELLED"},
			expectedStatus: domain.IntentStatusCancelled,
		},
		{
			name:           "booking success",
			callback:       domain.GatewayCallback{Status: "completed", Amount: decimal.RequireFromString("166667.00")},
			expectedStatus: domain.IntentStatusSucceeded,
		},
		{
			name:           "success with a different amount",
			callback:       domain.GatewayCallback{Status: "successful", Amount: decimal.NewFromInt(100)},
			expectedStatus: domain.IntentStatusFailed,
			expectedReason: domain.FailureAmountMismatch,
		},
		{
			name:           "success without an amount",
			callback:       domain.GatewayCallback{Status: "successful"},
			expectedStatus: domain.IntentStatusFailed,
			expectedReason: domain.FailureAmountMismatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newOutcomeFixture()
			txRef := "BOOK-prop-7-1709284800000"
			tt.callback.TxRef = txRef

			f.intents.On("GetByTxRef", mock.Anything, txRef).Return(pendingIntent(txRef, domain.SubjectBooking, "prop-7"), nil)
			f.intents.On("UpdateStatus", mock.Anything, txRef, domain.IntentStatusPending, tt.expectedStatus, tt.expectedReason).Return(nil)
			f.publisher.On("PublishOutcome", mock.Anything, mock.Anything).Return(nil)

			outcome, err := f.service.HandleCallback(context.Background(), tt.callback)

			require.NoError(t, err)
			assert.Equal(t, tt.expectedStatus, outcome.Status)
			assert.Equal(t, tt.expectedReason, outcome.Reason)
			f.backend.AssertNotCalled(t, "MarkInstallmentPaid", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestOutcomeService_HandleCallback_InstallmentAmountMismatch(t *testing.T) {
	f := newOutcomeFixture()
	txRef := "INST-inst-3-1709284800000"

	f.intents.On("GetByTxRef", mock.Anything, txRef).Return(pendingIntent(txRef, domain.SubjectInstallment, "inst-3"), nil)
	f.intents.On("UpdateStatus", mock.Anything, txRef, domain.IntentStatusPending, domain.IntentStatusFailed, domain.FailureAmountMismatch).Return(nil)
	f.publisher.On("PublishOutcome", mock.Anything, mock.MatchedBy(func(o domain.PaymentOutcome) bool {
		return o.Status == domain.IntentStatusFailed && o.Reason == domain.FailureAmountMismatch
	})).Return(nil)

	outcome, err := f.service.HandleCallback(context.Background(), domain.GatewayCallback{
		TxRef: txRef, Status: "successful", Amount: decimal.NewFromInt(1), TransactionID: "flw-9",
	})

	require.NoError(t, err)
	assert.Equal(t, domain.IntentStatusFailed, outcome.Status)
	f.backend.AssertNotCalled(t, "MarkInstallmentPaid", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	f.publisher.AssertExpectations(t)
}

func TestOutcomeService_HandleCallback_Duplicate(t *testing.T) {
	f := newOutcomeFixture()
	txRef := "INST-inst-3-1709284800000"
	intent := pendingIntent(txRef, domain.SubjectInstallment, "inst-3")
	intent.Status = domain.IntentStatusSucceeded

	f.intents.On("GetByTxRef", mock.Anything, txRef).Return(intent, nil)

	outcome, err := f.service.HandleCallback(context.Background(), domain.GatewayCallback{TxRef: txRef, Status: "successful"})

	require.NoError(t, err)
	assert.Equal(t, domain.IntentStatusSucceeded, outcome.Status)
	f.backend.AssertNotCalled(t, "MarkInstallmentPaid", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	f.intents.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	f.publisher.AssertNotCalled(t, "PublishOutcome", mock.Anything, mock.Anything)
}

func TestOutcomeService_HandleCallback_UnknownTxRef(t *testing.T) {
	f := newOutcomeFixture()
	f.intents.On("GetByTxRef", mock.Anything, "nope").Return(nil, repository.ErrIntentNotFound)

	outcome, err := f.service.HandleCallback(context.Background(), domain.GatewayCallback{TxRef: "nope", Status: "successful"})

	assert.Nil(t, outcome)
	assert.ErrorIs(t, err, customError.ErrIntentNotFound)
}

func TestOutcomeService_HandleCallback_LostRace(t *testing.T) {
	f := newOutcomeFixture()
	txRef := "BOOK-prop-7-1709284800000"

	f.intents.On("GetByTxRef", mock.Anything, txRef).Return(pendingIntent(txRef, domain.SubjectBooking, "prop-7"), nil)
	f.intents.On("UpdateStatus", mock.Anything, txRef, domain.IntentStatusPending, domain.IntentStatusFailed, mock.Anything).
		Return(repository.ErrIntentStateConflict)

	outcome, err := f.service.HandleCallback(context.Background(), domain.GatewayCallback{TxRef: txRef, Status: "failed"})

	assert.Nil(t, outcome)
	assert.Equal(t, customError.ErrCodeIntentNotPending, customError.Code(err))
	f.publisher.AssertNotCalled(t, "PublishOutcome", mock.Anything, mock.Anything)
}

func TestOutcomeService_Cancel(t *testing.T) {
	txRef := "GIFT-user-1-1709284800000"

	tests := []struct {
		name         string
		session      *domain.Session
		status       string
		expectedCode string
	}{
		{name: "owner cancels pending checkout", session: investorSession(), status: domain.IntentStatusPending},
		{name: "unauthenticated", session: nil, status: domain.IntentStatusPending, expectedCode: customError.ErrCodeUnauthenticated},
		{name: "someone else's intent", session: guestSession(), status: domain.IntentStatusPending, expectedCode: customError.ErrCodeIntentNotFound},
		{name: "already resolved", session: investorSession(), status: domain.IntentStatusSucceeded, expectedCode: customError.ErrCodeIntentNotPending},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newOutcomeFixture()
			intent := pendingIntent(txRef, domain.SubjectGift, "user-1")
			intent.Status = tt.status

			f.intents.On("GetByTxRef", mock.Anything, txRef).Return(intent, nil)
			f.intents.On("UpdateStatus", mock.Anything, txRef, domain.IntentStatusPending, domain.IntentStatusCancelled, mock.Anything).Return(nil)
			f.publisher.On("PublishOutcome", mock.Anything, mock.Anything).Return(nil)

			outcome, err := f.service.Cancel(context.Background(), tt.session, txRef)

			if tt.expectedCode != "" {
				assert.Nil(t, outcome)
				assert.Equal(t, tt.expectedCode, customError.Code(err))
				f.intents.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, domain.IntentStatusCancelled, outcome.Status)
			f.publisher.AssertExpectations(t)
		})
	}
}

func TestOutcomeService_Outcome(t *testing.T) {
	f := newOutcomeFixture()
	txRef := "INV-prop-9-1709284800000"
	f.intents.On("GetByTxRef", mock.Anything, txRef).Return(pendingIntent(txRef, domain.SubjectInvestment, "prop-9"), nil)

	intent, err := f.service.Outcome(context.Background(), investorSession(), txRef)
	require.NoError(t, err)
	assert.Equal(t, domain.IntentStatusPending, intent.Status)

	_, err = f.service.Outcome(context.Background(), guestSession(), txRef)
	assert.ErrorIs(t, err, customError.ErrIntentNotFound)
}

func TestOutcomeService_ExpireStale(t *testing.T) {
	f := newOutcomeFixture()
	stale := []*domain.PaymentIntent{
		pendingIntent("BOOK-prop-7-1", domain.SubjectBooking, "prop-7"),
		pendingIntent("INV-prop-9-2", domain.SubjectInvestment, "prop-9"),
	}
	cutoff := testNow.Add(-30 * time.Minute)

	f.intents.On("ListPendingBefore", mock.Anything, cutoff, 100).Return(stale, nil)
	f.intents.On("UpdateStatus", mock.Anything, "BOOK-prop-7-1", domain.IntentStatusPending, domain.IntentStatusTimedOut, mock.Anything).Return(nil)
	f.intents.On("UpdateStatus", mock.Anything, "INV-prop-9-2", domain.IntentStatusPending, domain.IntentStatusTimedOut, mock.Anything).
		Return(repository.ErrIntentStateConflict)
	f.publisher.On("PublishOutcome", mock.Anything, mock.MatchedBy(func(o domain.PaymentOutcome) bool {
		return o.Status == domain.IntentStatusTimedOut
	})).Return(nil).Once()

	expired, err := f.service.ExpireStale(context.Background(), 30*time.Minute, 100)

	require.NoError(t, err)
	assert.Equal(t, 1, expired)
	f.intents.AssertExpectations(t)
	f.publisher.AssertExpectations(t)
}

func TestOutcomeService_ExpireStale_ListFailure(t *testing.T) {
	f := newOutcomeFixture()
	f.intents.On("ListPendingBefore", mock.Anything, mock.Anything, 50).Return(nil, errors.New("connection reset"))

	expired, err := f.service.ExpireStale(context.Background(), time.Hour, 50)

	assert.Zero(t, expired)
	assert.Equal(t, customError.ErrCodeDatabaseError, customError.Code(err))
}
