package domain

import (
	"time"

	"github.com/google/uuid"
)

const EventTypeEscalation = "escalation"

// AREvent is an account-receivable audit entry. Auto-escalation writes one
// alongside every escalation it creates.
type AREvent struct {
	ID          uuid.UUID     `json:"id" db:"id"`
	AccountID   uuid.UUID     `json:"account_id" db:"account_id"`
	EventType   string        `json:"event_type" db:"event_type"`
	Description string        `json:"description" db:"description"`
	CreatedBy   uuid.NullUUID `json:"created_by" db:"created_by"`
	CreatedAt   time.Time     `json:"created_at" db:"created_at"`
}
