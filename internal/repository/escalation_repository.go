package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/dm9/collections-engine/internal/domain"
)

type escalationRepository struct {
	db *sqlx.DB
}

func NewEscalationRepository(db *sqlx.DB) EscalationRepository {
	return &escalationRepository{db: db}
}

func (r *escalationRepository) Create(ctx context.Context, escalation *domain.Escalation) error {
	query := `
		INSERT INTO escalations (id, account_id, escalated_by, escalated_to, reason, priority, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.ExecContext(ctx, query,
		escalation.ID,
		escalation.AccountID,
		escalation.EscalatedBy,
		escalation.EscalatedTo,
		escalation.Reason,
		escalation.Priority,
		escalation.Status,
		escalation.CreatedAt,
	)

	return err
}

func (r *escalationRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Escalation, error) {
	query := `
		SELECT id, account_id, escalated_by, escalated_to, reason, priority, status, created_at, acknowledged_at, resolved_at, resolution_notes
		FROM escalations
		WHERE id = $1
	`

	var escalation domain.Escalation
	err := r.db.GetContext(ctx, &escalation, query, id)
	if err != nil {
		return nil, err
	}

	return &escalation, nil
}

func (r *escalationRepository) FindOpenForAccountSince(ctx context.Context, accountID uuid.UUID, since time.Time) (*domain.Escalation, error) {
	query := `
		SELECT id, account_id, escalated_by, escalated_to, reason, priority, status, created_at, acknowledged_at, resolved_at, resolution_notes
		FROM escalations
		WHERE account_id = $1 AND status IN ('pending', 'acknowledged') AND created_at >= $2
		ORDER BY created_at DESC
		LIMIT 1
	`

	var escalation domain.Escalation
	err := r.db.GetContext(ctx, &escalation, query, accountID, since)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &escalation, nil
}

func (r *escalationRepository) List(ctx context.Context, status, priority string) ([]*domain.Escalation, error) {
	query := `
		SELECT id, account_id, escalated_by, escalated_to, reason, priority, status, created_at, acknowledged_at, resolved_at, resolution_notes
		FROM escalations
		WHERE ($1 = '' OR status = $1) AND ($2 = '' OR priority = $2)
		ORDER BY created_at DESC
	`

	var escalations []*domain.Escalation
	err := r.db.SelectContext(ctx, &escalations, query, status, priority)
	if err != nil {
		return nil, err
	}

	return escalations, nil
}

func (r *escalationRepository) Acknowledge(ctx context.Context, id uuid.UUID, at time.Time) error {
	query := `
		UPDATE escalations
		SET status = 'acknowledged', acknowledged_at = $2
		WHERE id = $1 AND status = 'pending'
	`

	result, err := r.db.ExecContext(ctx, query, id, at)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return sql.ErrNoRows
	}

	return nil
}

func (r *escalationRepository) Resolve(ctx context.Context, id uuid.UUID, at time.Time, notes string) error {
	query := `
		UPDATE escalations
		SET status = 'resolved', resolved_at = $2, resolution_notes = $3
		WHERE id = $1 AND status IN ('pending', 'acknowledged')
	`

	result, err := r.db.ExecContext(ctx, query, id, at, notes)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return sql.ErrNoRows
	}

	return nil
}
