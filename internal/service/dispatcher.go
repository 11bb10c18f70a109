package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/segyhp/booking-engine/internal/backend"
	"github.com/segyhp/booking-engine/internal/domain"
	"github.com/segyhp/booking-engine/internal/repository"
	customError "github.com/segyhp/booking-engine/pkg/errors"
	"github.com/segyhp/booking-engine/pkg/utils"
)

// PaymentDispatcher routes a payment intent to the wallet or the external gateway.
// It never retries; a failed attempt needs a new intent.
type PaymentDispatcher struct {
	backend   BackendAPI
	intents   repository.IntentRepository
	publisher EventPublisher
	now       Clock
	nonce     func() string
	logger    *slog.Logger
}

func NewPaymentDispatcher(
	backend BackendAPI,
	intents repository.IntentRepository,
	publisher EventPublisher,
	now Clock,
	logger *slog.Logger,
) *PaymentDispatcher {
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PaymentDispatcher{
		backend:   backend,
		intents:   intents,
		publisher: publisher,
		now:       now,
		nonce:     txRefNonce,
		logger:    logger,
	}
}

// txRefNonce keeps references unique when two users pay for the same subject in the same millisecond
func txRefNonce() string {
	return uuid.NewString()[:8]
}

// Dispatch executes one payment attempt. Wallet attempts resolve immediately; gateway attempts
// return a pending receipt carrying the checkout link and resolve later through the webhook.
func (d *PaymentDispatcher) Dispatch(ctx context.Context, session *domain.Session, intent *domain.PaymentIntent) (*domain.Receipt, error) {
	if !session.Authenticated() {
		return nil, customError.WrapUnauthenticated()
	}
	if !intent.Amount.IsPositive() {
		return nil, customError.WrapInvalidPaymentAmount(intent.Amount.String())
	}

	switch intent.Method {
	case domain.PaymentMethodWallet:
		if !session.CanPayFromWallet() {
			return nil, customError.WrapRoleIneligible(string(session.Role))
		}
		if intent.SubjectType != domain.SubjectBooking || intent.Booking == nil {
			return nil, customError.WrapMethodNotSupported(string(intent.Method), string(intent.SubjectType))
		}
	case domain.PaymentMethodGateway:
	default:
		return nil, customError.WrapMethodNotSupported(string(intent.Method), string(intent.SubjectType))
	}

	if err := d.record(ctx, session, intent); err != nil {
		return nil, err
	}

	if intent.Method == domain.PaymentMethodWallet {
		return d.dispatchWallet(ctx, session, intent)
	}
	return d.dispatchGateway(ctx, session, intent)
}

func (d *PaymentDispatcher) record(ctx context.Context, session *domain.Session, intent *domain.PaymentIntent) error {
	now := d.now().UTC()
	if intent.ID == uuid.Nil {
		intent.ID = uuid.New()
	}
	if intent.TxRef == "" {
		intent.TxRef = utils.GenerateTxRef(intent.SubjectType.TxRefPrefix(), intent.SubjectID, now, d.nonce())
	}
	intent.UserID = session.UserID
	intent.Status = domain.IntentStatusCreated
	intent.CreatedAt = now
	intent.UpdatedAt = now

	if err := d.intents.Create(ctx, intent); err != nil {
		return customError.WrapDatabaseError(err)
	}
	return nil
}

func (d *PaymentDispatcher) dispatchWallet(ctx context.Context, session *domain.Session, intent *domain.PaymentIntent) (*domain.Receipt, error) {
	// balance is read fresh for every decision
	wallet, err := d.backend.GetWallet(ctx, session.AccessToken)
	if err != nil {
		d.resolve(ctx, intent, domain.IntentStatusFailed, "wallet lookup failed")
		return nil, customError.WrapGenericSubmissionError(err)
	}

	if wallet.Balance.LessThan(intent.Amount) {
		d.resolve(ctx, intent, domain.IntentStatusFailed, customError.ErrCodeInsufficientFunds)
		return nil, customError.WrapInsufficientFunds(wallet.Balance.StringFixed(2), intent.Amount.StringFixed(2))
	}

	booking, err := d.backend.CreateBooking(ctx, session.AccessToken, backend.CreateBookingRequest{
		Property:      intent.Booking.PropertyID,
		CheckIn:       intent.Booking.CheckIn.Format(backend.DateLayout),
		CheckOut:      intent.Booking.CheckOut.Format(backend.DateLayout),
		PaymentMethod: string(domain.PaymentMethodWallet),
		TotalPrice:    intent.Amount,
		TxRef:         intent.TxRef,
	})
	if err != nil {
		d.resolve(ctx, intent, domain.IntentStatusFailed, "wallet debit failed")
		return nil, customError.WrapGenericSubmissionError(err)
	}

	d.resolve(ctx, intent, domain.IntentStatusSucceeded, "")
	return &domain.Receipt{
		TxRef:     intent.TxRef,
		Method:    intent.Method,
		Amount:    intent.Amount,
		Status:    domain.IntentStatusSucceeded,
		Reference: booking.ID,
	}, nil
}

func (d *PaymentDispatcher) dispatchGateway(ctx context.Context, session *domain.Session, intent *domain.PaymentIntent) (*domain.Receipt, error) {
	link, err := d.initiateCheckout(ctx, session, intent)
	if err == nil && link.PaymentLink == "" {
		err = customError.ErrPaymentLinkGenerationFailed
	}
	if err != nil {
		d.logger.WarnContext(ctx, "payment link generation failed",
			"tx_ref", intent.TxRef, "subject_type", intent.SubjectType, "error", err)
		d.resolve(ctx, intent, domain.IntentStatusFailed, customError.ErrCodePaymentLinkGenerationFailed)
		return nil, customError.WrapPaymentLinkGenerationFailed(err)
	}

	// a checkout the ledger cannot track is abandoned, never left in created
	if err := d.intents.SetPaymentLink(ctx, intent.TxRef, link.PaymentLink); err != nil {
		d.resolve(ctx, intent, domain.IntentStatusFailed, customError.ErrCodeDatabaseError)
		return nil, customError.WrapDatabaseError(err)
	}
	if err := d.intents.UpdateStatus(ctx, intent.TxRef, domain.IntentStatusCreated, domain.IntentStatusPending, ""); err != nil {
		d.resolve(ctx, intent, domain.IntentStatusFailed, customError.ErrCodeDatabaseError)
		return nil, customError.WrapDatabaseError(err)
	}
	intent.PaymentLink = link.PaymentLink
	intent.Status = domain.IntentStatusPending

	d.logger.InfoContext(ctx, "gateway checkout started", "tx_ref", intent.TxRef, "subject_type", intent.SubjectType)
	return &domain.Receipt{
		TxRef:       intent.TxRef,
		Method:      intent.Method,
		Amount:      intent.Amount,
		Status:      domain.IntentStatusPending,
		PaymentLink: link.PaymentLink,
	}, nil
}

func (d *PaymentDispatcher) initiateCheckout(ctx context.Context, session *domain.Session, intent *domain.PaymentIntent) (backend.PaymentLink, error) {
	token := session.AccessToken
	switch intent.SubjectType {
	case domain.SubjectBooking:
		if intent.Booking == nil {
			break
		}
		return d.backend.InitiateBookingPayment(ctx, token, backend.InitiateBookingPaymentRequest{
			Property:   intent.Booking.PropertyID,
			CheckIn:    intent.Booking.CheckIn.Format(backend.DateLayout),
			CheckOut:   intent.Booking.CheckOut.Format(backend.DateLayout),
			TotalPrice: intent.Amount,
			TxRef:      intent.TxRef,
		})
	case domain.SubjectInvestment:
		if intent.Investment == nil {
			break
		}
		return d.backend.InitiateInvestmentPayment(ctx, token, backend.InitiateInvestmentPaymentRequest{
			Property:       intent.Investment.PropertyID,
			AmountInvested: intent.Amount,
			PlanYears:      intent.Investment.PlanYears,
			TxRef:          intent.TxRef,
		})
	case domain.SubjectInstallment:
		return d.backend.InitiateInstallmentPayment(ctx, token, intent.SubjectID, backend.InitiateInstallmentPaymentRequest{
			Amount: intent.Amount,
			TxRef:  intent.TxRef,
		})
	case domain.SubjectGift:
		if intent.Gift == nil {
			break
		}
		return d.backend.InitiateGiftPayment(ctx, token, backend.InitiateGiftPaymentRequest{
			Recipient: intent.Gift.Recipient,
			Amount:    intent.Amount,
			Message:   intent.Gift.Message,
			TxRef:     intent.TxRef,
		})
	}
	return backend.PaymentLink{}, customError.WrapMethodNotSupported(string(intent.Method), string(intent.SubjectType))
}

// resolve moves a created intent to a terminal status. Ledger and publish failures are logged;
// the caller already has the outcome it needs to report.
func (d *PaymentDispatcher) resolve(ctx context.Context, intent *domain.PaymentIntent, status, reason string) {
	if err := d.intents.UpdateStatus(ctx, intent.TxRef, domain.IntentStatusCreated, status, reason); err != nil {
		d.logger.ErrorContext(ctx, "failed to record intent outcome", "tx_ref", intent.TxRef, "status", status, "error", err)
	}
	intent.Status = status
	intent.FailureReason = reason

	if d.publisher == nil {
		return
	}
	outcome := domain.PaymentOutcome{
		TxRef:       intent.TxRef,
		Status:      status,
		SubjectType: intent.SubjectType,
		SubjectID:   intent.SubjectID,
		Reason:      reason,
		ResolvedAt:  d.now().UTC(),
	}
	if err := d.publisher.PublishOutcome(ctx, outcome); err != nil {
		d.logger.ErrorContext(ctx, "failed to publish payment outcome", "tx_ref", intent.TxRef, "error", err)
	}
}
