package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/segyhp/booking-engine/internal/backend"
	"github.com/segyhp/booking-engine/internal/domain"
	"github.com/segyhp/booking-engine/internal/repository"
	customError "github.com/segyhp/booking-engine/pkg/errors"
)

// OutcomeService resolves pending gateway attempts: webhook callbacks, user cancellation
// and expiry of abandoned checkouts.
type OutcomeService struct {
	backend       BackendAPI
	intents       repository.IntentRepository
	publisher     EventPublisher
	webhookSecret string
	serviceToken  string
	now           Clock
	logger        *slog.Logger
}

func NewOutcomeService(
	backend BackendAPI,
	intents repository.IntentRepository,
	publisher EventPublisher,
	webhookSecret string,
	serviceToken string,
	now Clock,
	logger *slog.Logger,
) *OutcomeService {
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &OutcomeService{
		backend:       backend,
		intents:       intents,
		publisher:     publisher,
		webhookSecret: webhookSecret,
		serviceToken:  serviceToken,
		now:           now,
		logger:        logger,
	}
}

// VerifySignature checks the processor's verif-hash header against the configured secret
func (s *OutcomeService) VerifySignature(signature string) error {
	if s.webhookSecret == "" || subtle.ConstantTimeCompare([]byte(signature), []byte(s.webhookSecret)) != 1 {
		return customError.WrapInvalidWebhookSignature()
	}
	return nil
}

// HandleCallback applies a gateway webhook. Callbacks for an already resolved intent are
// acknowledged without side effects.
func (s *OutcomeService) HandleCallback(ctx context.Context, callback domain.GatewayCallback) (*domain.PaymentOutcome, error) {
	intent, err := s.load(ctx, callback.TxRef)
	if err != nil {
		return nil, err
	}
	if domain.IsTerminalStatus(intent.Status) {
		s.logger.InfoContext(ctx, "duplicate gateway callback", "tx_ref", intent.TxRef, "status", intent.Status)
		return s.outcomeOf(intent, intent.Status, intent.FailureReason), nil
	}

	status, reason := callbackStatus(callback)
	if status == domain.IntentStatusSucceeded && !callback.Amount.Equal(intent.Amount) {
		s.logger.WarnContext(ctx, "gateway amount mismatch", "tx_ref", intent.TxRef,
			"expected", intent.Amount.StringFixed(2), "reported", callback.Amount.StringFixed(2))
		status, reason = domain.IntentStatusFailed, domain.FailureAmountMismatch
	}
	if status == domain.IntentStatusSucceeded && intent.SubjectType == domain.SubjectInstallment {
		err := s.backend.MarkInstallmentPaid(ctx, s.serviceToken, intent.SubjectID, backend.MarkPaidRequest{
			TxRef:         intent.TxRef,
			TransactionID: callback.TransactionID,
		})
		if err != nil {
			// leave the intent pending so the processor's redelivery can retry
			s.logger.ErrorContext(ctx, "mark installment paid failed", "tx_ref", intent.TxRef, "installment_id", intent.SubjectID, "error", err)
			return nil, customError.WrapGenericSubmissionError(err)
		}
	}

	return s.transition(ctx, intent, status, reason)
}

// Cancel records that the user closed the checkout page. No compensating backend call is made.
func (s *OutcomeService) Cancel(ctx context.Context, session *domain.Session, txRef string) (*domain.PaymentOutcome, error) {
	if !session.Authenticated() {
		return nil, customError.WrapUnauthenticated()
	}
	intent, err := s.load(ctx, txRef)
	if err != nil {
		return nil, err
	}
	if intent.UserID != session.UserID {
		return nil, customError.WrapIntentNotFound(txRef)
	}
	if intent.Status != domain.IntentStatusPending {
		return nil, customError.WrapIntentNotPending(txRef, intent.Status)
	}
	return s.transition(ctx, intent, domain.IntentStatusCancelled, "checkout closed by user")
}

// Outcome reads the current state of one of the session's payment attempts
func (s *OutcomeService) Outcome(ctx context.Context, session *domain.Session, txRef string) (*domain.PaymentIntent, error) {
	if !session.Authenticated() {
		return nil, customError.WrapUnauthenticated()
	}
	intent, err := s.load(ctx, txRef)
	if err != nil {
		return nil, err
	}
	if intent.UserID != session.UserID {
		return nil, customError.WrapIntentNotFound(txRef)
	}
	return intent, nil
}

// ExpireStale times out pending attempts older than maxAge and returns how many moved
func (s *OutcomeService) ExpireStale(ctx context.Context, maxAge time.Duration, batchSize int) (int, error) {
	cutoff := s.now().UTC().Add(-maxAge)
	intents, err := s.intents.ListPendingBefore(ctx, cutoff, batchSize)
	if err != nil {
		return 0, customError.WrapDatabaseError(err)
	}

	expired := 0
	for _, intent := range intents {
		_, err := s.transition(ctx, intent, domain.IntentStatusTimedOut, "no gateway callback received")
		if err != nil {
			// a callback may have arrived between the list and the update
			s.logger.WarnContext(ctx, "could not expire intent", "tx_ref", intent.TxRef, "error", err)
			continue
		}
		expired++
	}
	return expired, nil
}

func (s *OutcomeService) load(ctx context.Context, txRef string) (*domain.PaymentIntent, error) {
	intent, err := s.intents.GetByTxRef(ctx, txRef)
	if errors.Is(err, repository.ErrIntentNotFound) {
		return nil, customError.WrapIntentNotFound(txRef)
	}
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	return intent, nil
}

func (s *OutcomeService) transition(ctx context.Context, intent *domain.PaymentIntent, status, reason string) (*domain.PaymentOutcome, error) {
	err := s.intents.UpdateStatus(ctx, intent.TxRef, intent.Status, status, reason)
	if errors.Is(err, repository.ErrIntentStateConflict) {
		return nil, customError.WrapIntentNotPending(intent.TxRef, "resolved")
	}
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	outcome := s.outcomeOf(intent, status, reason)
	s.logger.InfoContext(ctx, "payment resolved", "tx_ref", intent.TxRef, "status", status, "subject_type", intent.SubjectType)
	if s.publisher != nil {
		if err := s.publisher.PublishOutcome(ctx, *outcome); err != nil {
			s.logger.ErrorContext(ctx, "failed to publish payment outcome", "tx_ref", intent.TxRef, "error", err)
		}
	}
	return outcome, nil
}

func (s *OutcomeService) outcomeOf(intent *domain.PaymentIntent, status, reason string) *domain.PaymentOutcome {
	return &domain.PaymentOutcome{
		TxRef:       intent.TxRef,
		Status:      status,
		SubjectType: intent.SubjectType,
		SubjectID:   intent.SubjectID,
		Reason:      reason,
		ResolvedAt:  s.now().UTC(),
	}
}

// callbackStatus maps the processor's status onto the intent lifecycle
func callbackStatus(callback domain.GatewayCallback) (string, string) {
	switch strings.ToLower(callback.Status) {
	case domain.GatewayStatusSuccessful, "success", "completed":
		return domain.IntentStatusSucceeded, ""
	case domain.GatewayStatusCancelled:
		return domain.IntentStatusCancelled, callback.Message
	default:
		reason := callback.Message
		if reason == "" {
			reason = "gateway reported " + callback.Status
		}
		return domain.IntentStatusFailed, reason
	}
}
