package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/dm9/collections-engine/internal/domain"
)

type ptpRepository struct {
	db *sqlx.DB
}

func NewPTPRepository(db *sqlx.DB) PTPRepository {
	return &ptpRepository{db: db}
}

func (r *ptpRepository) ListActiveByPromisedDate(ctx context.Context, promisedDate time.Time) ([]*domain.PromiseToPay, error) {
	query := `
		SELECT id, account_id, consumer_id, promised_amount, promised_date, status, created_by, created_at, kept_date, broken_date
		FROM promises_to_pay
		WHERE status = 'active' AND promised_date = $1
		ORDER BY created_at
	`

	var ptps []*domain.PromiseToPay
	err := r.db.SelectContext(ctx, &ptps, query, promisedDate)
	if err != nil {
		return nil, err
	}

	return ptps, nil
}

func (r *ptpRepository) ListActiveOverdue(ctx context.Context, before time.Time) ([]*domain.PromiseToPay, error) {
	query := `
		SELECT id, account_id, consumer_id, promised_amount, promised_date, status, created_by, created_at, kept_date, broken_date
		FROM promises_to_pay
		WHERE status = 'active' AND promised_date < $1
		ORDER BY promised_date
	`

	var ptps []*domain.PromiseToPay
	err := r.db.SelectContext(ctx, &ptps, query, before)
	if err != nil {
		return nil, err
	}

	return ptps, nil
}

func (r *ptpRepository) MarkBroken(ctx context.Context, id uuid.UUID, brokenAt time.Time) error {
	// Active-status guard keeps the transition one-shot even if two runs race.
	query := `
		UPDATE promises_to_pay
		SET status = 'broken', broken_date = $2
		WHERE id = $1 AND status = 'active'
	`

	_, err := r.db.ExecContext(ctx, query, id, brokenAt)
	return err
}
