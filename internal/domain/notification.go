package domain

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

const (
	NotificationStatusPending = "pending"
	NotificationStatusSent    = "sent"
	NotificationStatusFailed  = "failed"
)

// EmailNotification is the audit record of one delivery attempt. A row is
// written as pending before the send and flipped to sent or failed after.
type EmailNotification struct {
	ID             uuid.UUID     `json:"id" db:"id"`
	RecipientEmail string        `json:"recipient_email" db:"recipient_email"`
	Subject        string        `json:"subject" db:"subject"`
	Body           string        `json:"body" db:"body"`
	AlertID        uuid.NullUUID `json:"alert_id" db:"alert_id"`
	Status         string        `json:"status" db:"status"`
	SentAt         sql.NullTime  `json:"sent_at" db:"sent_at"`
	CreatedAt      time.Time     `json:"created_at" db:"created_at"`
}
