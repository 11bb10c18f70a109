package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/segyhp/booking-engine/internal/domain"

	"github.com/jmoiron/sqlx"
)

type intentRepository struct {
	db *sqlx.DB
}

func NewIntentRepository(db *sqlx.DB) IntentRepository {
	return &intentRepository{db: db}
}

const intentColumns = `id, tx_ref, user_id, method, amount, subject_type, subject_id, status, payment_link, failure_reason, created_at, updated_at`

func (r *intentRepository) Create(ctx context.Context, intent *domain.PaymentIntent) error {
	query := `
		INSERT INTO payment_intents (` + intentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.db.ExecContext(ctx, query,
		intent.ID,
		intent.TxRef,
		intent.UserID,
		intent.Method,
		intent.Amount,
		intent.SubjectType,
		intent.SubjectID,
		intent.Status,
		intent.PaymentLink,
		intent.FailureReason,
		intent.CreatedAt,
		intent.UpdatedAt,
	)

	return err
}

func (r *intentRepository) GetByTxRef(ctx context.Context, txRef string) (*domain.PaymentIntent, error) {
	query := `
		SELECT ` + intentColumns + `
		FROM payment_intents
		WHERE tx_ref = $1
	`

	var intent domain.PaymentIntent
	err := r.db.GetContext(ctx, &intent, query, txRef)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrIntentNotFound
	}
	if err != nil {
		return nil, err
	}

	return &intent, nil
}

func (r *intentRepository) UpdateStatus(ctx context.Context, txRef, from, to, reason string) error {
	query := `
		UPDATE payment_intents
		SET status = $3, failure_reason = $4, updated_at = $5
		WHERE tx_ref = $1 AND status = $2
	`

	result, err := r.db.ExecContext(ctx, query, txRef, from, to, reason, time.Now().UTC())
	if err != nil {
		return err
	}

	return expectOneRow(result, ErrIntentStateConflict)
}

func (r *intentRepository) SetPaymentLink(ctx context.Context, txRef, link string) error {
	query := `
		UPDATE payment_intents
		SET payment_link = $2, updated_at = $3
		WHERE tx_ref = $1
	`

	result, err := r.db.ExecContext(ctx, query, txRef, link, time.Now().UTC())
	if err != nil {
		return err
	}

	return expectOneRow(result, ErrIntentNotFound)
}

func (r *intentRepository) ListPendingBefore(ctx context.Context, cutoff time.Time, limit int) ([]*domain.PaymentIntent, error) {
	query := `
		SELECT ` + intentColumns + `
		FROM payment_intents
		WHERE status = $1 AND created_at < $2
		ORDER BY created_at
		LIMIT $3
	`

	var intents []*domain.PaymentIntent
	err := r.db.SelectContext(ctx, &intents, query, domain.IntentStatusPending, cutoff, limit)
	if err != nil {
		return nil, err
	}

	return intents, nil
}

func expectOneRow(result sql.Result, missing error) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return missing
	}
	return nil
}
