package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/dm9/collections-engine/internal/domain"
)

type notificationRepository struct {
	db *sqlx.DB
}

func NewNotificationRepository(db *sqlx.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, notification *domain.EmailNotification) error {
	query := `
		INSERT INTO email_notifications (id, recipient_email, subject, body, alert_id, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.ExecContext(ctx, query,
		notification.ID,
		notification.RecipientEmail,
		notification.Subject,
		notification.Body,
		notification.AlertID,
		notification.Status,
		notification.CreatedAt,
	)

	return err
}

func (r *notificationRepository) MarkSent(ctx context.Context, id uuid.UUID, sentAt time.Time) error {
	query := `
		UPDATE email_notifications
		SET status = 'sent', sent_at = $2
		WHERE id = $1
	`

	_, err := r.db.ExecContext(ctx, query, id, sentAt)
	return err
}

func (r *notificationRepository) MarkFailed(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE email_notifications
		SET status = 'failed'
		WHERE id = $1
	`

	_, err := r.db.ExecContext(ctx, query, id)
	return err
}

type eventRepository struct {
	db *sqlx.DB
}

func NewEventRepository(db *sqlx.DB) EventRepository {
	return &eventRepository{db: db}
}

func (r *eventRepository) Create(ctx context.Context, event *domain.AREvent) error {
	query := `
		INSERT INTO ar_events (id, account_id, event_type, description, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.ExecContext(ctx, query,
		event.ID,
		event.AccountID,
		event.EventType,
		event.Description,
		event.CreatedBy,
		event.CreatedAt,
	)

	return err
}
