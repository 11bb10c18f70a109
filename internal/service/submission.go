package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/segyhp/booking-engine/internal/domain"
	customError "github.com/segyhp/booking-engine/pkg/errors"
	"github.com/segyhp/booking-engine/pkg/utils"

	"github.com/shopspring/decimal"
)

const (
	RedirectBookings     = "/dashboard/bookings"
	RedirectInvestments  = "/dashboard/investments"
	RedirectInstallments = "/dashboard/installments"
	RedirectGifts        = "/dashboard/gifts"
)

type SubmissionOptions struct {
	LockTTL       time.Duration
	RedirectDelay time.Duration
}

// SubmissionService validates a form submission in a fixed order and dispatches its payment.
// The first failed check rejects the submission; errors are never aggregated.
type SubmissionService struct {
	availability *AvailabilityService
	scheduler    *InstallmentScheduler
	dispatcher   *PaymentDispatcher
	locker       Locker
	options      SubmissionOptions
	now          Clock
	logger       *slog.Logger
}

func NewSubmissionService(
	availability *AvailabilityService,
	scheduler *InstallmentScheduler,
	dispatcher *PaymentDispatcher,
	locker Locker,
	options SubmissionOptions,
	now Clock,
	logger *slog.Logger,
) *SubmissionService {
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = slog.Default()
	}
	if options.LockTTL <= 0 {
		options.LockTTL = 30 * time.Second
	}
	return &SubmissionService{
		availability: availability,
		scheduler:    scheduler,
		dispatcher:   dispatcher,
		locker:       locker,
		options:      options,
		now:          now,
		logger:       logger,
	}
}

// SubmitBooking validates and pays for a short-let booking
func (s *SubmissionService) SubmitBooking(ctx context.Context, session *domain.Session, booking domain.BookingSubmission) (*domain.Confirmation, error) {
	submission := domain.NewSubmission()
	submission.Transition(domain.SubmissionValidating)

	if err := s.validateBooking(ctx, session, booking); err != nil {
		return nil, s.reject(ctx, submission, "booking", err)
	}

	intent := &domain.PaymentIntent{
		Method:      booking.PaymentMethod,
		Amount:      booking.TotalPrice(),
		SubjectType: domain.SubjectBooking,
		SubjectID:   booking.PropertyID,
		Booking: &domain.BookingTerms{
			PropertyID: booking.PropertyID,
			CheckIn:    utils.DateOnly(*booking.Selection.From),
			CheckOut:   utils.DateOnly(*booking.Selection.To),
		},
	}
	return s.dispatch(ctx, session, submission, "booking", intent, nil, RedirectBookings)
}

func (s *SubmissionService) validateBooking(ctx context.Context, session *domain.Session, booking domain.BookingSubmission) error {
	if !session.Authenticated() {
		return customError.WrapUnauthenticated()
	}

	selection := booking.Selection
	if selection.IsEmpty() || selection.Nights() < 1 {
		return customError.WrapInvalidDateRange()
	}
	if utils.IsDateBefore(*selection.From, s.now()) {
		return customError.WrapDateInPast()
	}
	occupied, err := s.availability.GetOccupiedDays(ctx, session, booking.PropertyID)
	if err != nil {
		return err
	}
	if !s.availability.IsRangeAvailable(selection, occupied) {
		return customError.WrapDateConflict(booking.PropertyID)
	}

	if !booking.TermsAccepted {
		return customError.WrapTermsNotAccepted()
	}

	if err := checkMethod(session, booking.PaymentMethod, domain.SubjectBooking); err != nil {
		return err
	}

	if total := booking.TotalPrice(); !total.IsPositive() {
		return customError.WrapInvalidTotalPrice(total.String())
	}
	return nil
}

// SubmitInvestment validates and starts checkout for a property investment. An amount below
// the full price becomes the down payment of an installment plan.
func (s *SubmissionService) SubmitInvestment(ctx context.Context, session *domain.Session, investment domain.InvestmentSubmission) (*domain.Confirmation, error) {
	submission := domain.NewSubmission()
	submission.Transition(domain.SubmissionValidating)

	plan, err := s.validateInvestment(session, investment)
	if err != nil {
		return nil, s.reject(ctx, submission, "investment", err)
	}

	planYears := 0
	if plan != nil {
		planYears = plan.PlanYears
	}
	intent := &domain.PaymentIntent{
		Method:      domain.PaymentMethodGateway,
		Amount:      investment.Amount,
		SubjectType: domain.SubjectInvestment,
		SubjectID:   investment.PropertyID,
		Investment: &domain.InvestmentTerms{
			PropertyID: investment.PropertyID,
			PlanYears:  planYears,
		},
	}
	return s.dispatch(ctx, session, submission, "investment", intent, plan, RedirectInvestments)
}

func (s *SubmissionService) validateInvestment(session *domain.Session, investment domain.InvestmentSubmission) (*domain.InstallmentPlan, error) {
	if !session.Authenticated() {
		return nil, customError.WrapUnauthenticated()
	}
	if !investment.TermsAccepted {
		return nil, customError.WrapTermsNotAccepted()
	}
	if err := checkMethod(session, domain.PaymentMethodGateway, domain.SubjectInvestment); err != nil {
		return nil, err
	}
	if err := s.scheduler.ValidateInitialPayment(investment.PropertyPrice, investment.Amount); err != nil {
		return nil, err
	}
	if investment.IsFullPayment() {
		return nil, nil
	}
	return s.scheduler.ComputeScheduleWithDownPayment(investment.PropertyPrice, investment.Amount, investment.PlanYears, s.now())
}

// PayInstallment starts gateway checkout for one installment of an existing plan
func (s *SubmissionService) PayInstallment(ctx context.Context, session *domain.Session, installmentID string, amount decimal.Decimal) (*domain.Confirmation, error) {
	submission := domain.NewSubmission()
	submission.Transition(domain.SubmissionValidating)

	if !session.Authenticated() {
		return nil, s.reject(ctx, submission, "installment", customError.WrapUnauthenticated())
	}
	if !amount.IsPositive() {
		return nil, s.reject(ctx, submission, "installment", customError.WrapInvalidPaymentAmount(amount.String()))
	}

	intent := &domain.PaymentIntent{
		Method:      domain.PaymentMethodGateway,
		Amount:      amount,
		SubjectType: domain.SubjectInstallment,
		SubjectID:   installmentID,
	}
	return s.dispatch(ctx, session, submission, "installment", intent, nil, RedirectInstallments)
}

// SendGift starts gateway checkout for a gift payment to another user
func (s *SubmissionService) SendGift(ctx context.Context, session *domain.Session, recipient string, amount decimal.Decimal, message string) (*domain.Confirmation, error) {
	submission := domain.NewSubmission()
	submission.Transition(domain.SubmissionValidating)

	if !session.Authenticated() {
		return nil, s.reject(ctx, submission, "gift", customError.WrapUnauthenticated())
	}
	if !amount.IsPositive() {
		return nil, s.reject(ctx, submission, "gift", customError.WrapInvalidPaymentAmount(amount.String()))
	}

	intent := &domain.PaymentIntent{
		Method:      domain.PaymentMethodGateway,
		Amount:      amount,
		SubjectType: domain.SubjectGift,
		SubjectID:   session.UserID,
		Gift:        &domain.GiftTerms{Recipient: recipient, Message: message},
	}
	return s.dispatch(ctx, session, submission, "gift", intent, nil, RedirectGifts)
}

func (s *SubmissionService) dispatch(
	ctx context.Context,
	session *domain.Session,
	submission *domain.Submission,
	form string,
	intent *domain.PaymentIntent,
	plan *domain.InstallmentPlan,
	redirectTo string,
) (*domain.Confirmation, error) {
	release, err := s.locker.Acquire(ctx, submissionLockKey(session.UserID, form, intent.SubjectID), s.options.LockTTL)
	if errors.Is(err, ErrLockHeld) {
		return nil, s.reject(ctx, submission, form, customError.WrapSubmissionInProgress())
	}
	if err != nil {
		return nil, s.reject(ctx, submission, form, customError.WrapCacheError(err))
	}
	defer release()

	submission.Transition(domain.SubmissionDispatching)
	receipt, err := s.dispatcher.Dispatch(ctx, session, intent)
	if err != nil {
		if customError.Code(err) == "" {
			err = customError.WrapGenericSubmissionError(err)
		}
		submission.Fail(customError.Code(err))
		s.logger.WarnContext(ctx, "submission failed",
			"form", form, "user_id", session.UserID, "state", submission.State, "error", err)
		return nil, err
	}

	submission.Transition(domain.SubmissionConfirmed)
	s.logger.InfoContext(ctx, "submission confirmed",
		"form", form, "user_id", session.UserID, "tx_ref", receipt.TxRef, "status", receipt.Status)

	return &domain.Confirmation{
		Submission:    submission,
		Receipt:       receipt,
		Plan:          plan,
		RedirectTo:    redirectTo,
		RedirectAfter: s.options.RedirectDelay,
	}, nil
}

func (s *SubmissionService) reject(ctx context.Context, submission *domain.Submission, form string, err error) error {
	submission.Reject(customError.Code(err))
	s.logger.InfoContext(ctx, "submission rejected", "form", form, "state", submission.State, "reason", submission.Reason)
	return err
}

// checkMethod enforces role and subject compatibility for a payment method
func checkMethod(session *domain.Session, method domain.PaymentMethod, subject domain.SubjectType) error {
	if !method.Valid() {
		return customError.WrapMethodNotSupported(string(method), string(subject))
	}
	if method != domain.PaymentMethodWallet {
		return nil
	}
	if !session.CanPayFromWallet() {
		return customError.WrapRoleIneligible(string(session.Role))
	}
	if subject != domain.SubjectBooking {
		return customError.WrapMethodNotSupported(string(method), string(subject))
	}
	return nil
}
