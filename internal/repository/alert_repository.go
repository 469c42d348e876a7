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

type alertRepository struct {
	db *sqlx.DB
}

func NewAlertRepository(db *sqlx.DB) AlertRepository {
	return &alertRepository{db: db}
}

func (r *alertRepository) Create(ctx context.Context, alert *domain.Alert) error {
	query := `
		INSERT INTO alerts (id, alert_type, title, message, priority, account_id, consumer_id, assigned_to, status, due_date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.db.ExecContext(ctx, query,
		alert.ID,
		alert.AlertType,
		alert.Title,
		alert.Message,
		alert.Priority,
		alert.AccountID,
		alert.ConsumerID,
		alert.AssignedTo,
		alert.Status,
		alert.DueDate,
		alert.CreatedAt,
	)

	return err
}

func (r *alertRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Alert, error) {
	query := `
		SELECT id, alert_type, title, message, priority, account_id, consumer_id, assigned_to, status, due_date, created_at, acknowledged_at, resolved_at
		FROM alerts
		WHERE id = $1
	`

	var alert domain.Alert
	err := r.db.GetContext(ctx, &alert, query, id)
	if err != nil {
		return nil, err
	}

	return &alert, nil
}

func (r *alertRepository) FindActiveDuplicate(ctx context.Context, alertType string, accountID uuid.UUID, dueDate time.Time) (*domain.Alert, error) {
	query := `
		SELECT id, alert_type, title, message, priority, account_id, consumer_id, assigned_to, status, due_date, created_at, acknowledged_at, resolved_at
		FROM alerts
		WHERE alert_type = $1 AND account_id = $2 AND due_date = $3 AND status = 'active'
		LIMIT 1
	`

	var alert domain.Alert
	err := r.db.GetContext(ctx, &alert, query, alertType, accountID, dueDate)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &alert, nil
}

func (r *alertRepository) FindActiveByTypeAndAccount(ctx context.Context, alertType string, accountID uuid.UUID) (*domain.Alert, error) {
	query := `
		SELECT id, alert_type, title, message, priority, account_id, consumer_id, assigned_to, status, due_date, created_at, acknowledged_at, resolved_at
		FROM alerts
		WHERE alert_type = $1 AND account_id = $2 AND status = 'active'
		LIMIT 1
	`

	var alert domain.Alert
	err := r.db.GetContext(ctx, &alert, query, alertType, accountID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &alert, nil
}

func (r *alertRepository) List(ctx context.Context, status, priority string) ([]*domain.Alert, error) {
	query := `
		SELECT id, alert_type, title, message, priority, account_id, consumer_id, assigned_to, status, due_date, created_at, acknowledged_at, resolved_at
		FROM alerts
		WHERE ($1 = '' OR status = $1) AND ($2 = '' OR priority = $2)
		ORDER BY created_at DESC
	`

	var alerts []*domain.Alert
	err := r.db.SelectContext(ctx, &alerts, query, status, priority)
	if err != nil {
		return nil, err
	}

	return alerts, nil
}

func (r *alertRepository) Acknowledge(ctx context.Context, id uuid.UUID, at time.Time) error {
	query := `
		UPDATE alerts
		SET status = 'acknowledged', acknowledged_at = $2
		WHERE id = $1 AND status = 'active'
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

func (r *alertRepository) Resolve(ctx context.Context, id uuid.UUID, at time.Time) error {
	query := `
		UPDATE alerts
		SET status = 'resolved', resolved_at = $2
		WHERE id = $1 AND status IN ('active', 'acknowledged')
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
