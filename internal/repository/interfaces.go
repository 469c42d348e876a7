package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dm9/collections-engine/internal/domain"
)

// AccountRepository defines the interface for account data operations.
// Accounts are read-only to the rule engine.
type AccountRepository interface {
	// GetByID retrieves an account by its ID
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error)

	// ListActiveInTier retrieves active accounts whose balance is strictly
	// above minBalance (and at most maxBalance when maxBalance is valid)
	// placed strictly before placedBefore.
	ListActiveInTier(ctx context.Context, minBalance decimal.Decimal, maxBalance decimal.NullDecimal, placedBefore time.Time) ([]*domain.Account, error)
}

// ConsumerRepository resolves consumers for alert message rendering.
type ConsumerRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Consumer, error)
}

// PTPRepository defines the interface for promise-to-pay data operations
type PTPRepository interface {
	// ListActiveByPromisedDate retrieves active PTPs promised exactly on the given date
	ListActiveByPromisedDate(ctx context.Context, promisedDate time.Time) ([]*domain.PromiseToPay, error)

	// ListActiveOverdue retrieves active PTPs whose promised date is strictly before the given date
	ListActiveOverdue(ctx context.Context, before time.Time) ([]*domain.PromiseToPay, error)

	// MarkBroken transitions a PTP from active to broken and records when
	MarkBroken(ctx context.Context, id uuid.UUID, brokenAt time.Time) error
}

// AlertRepository defines the interface for alert data operations
type AlertRepository interface {
	// Create creates a new alert
	Create(ctx context.Context, alert *domain.Alert) error

	// GetByID retrieves an alert by its ID
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Alert, error)

	// FindActiveDuplicate looks up an active alert with the same type,
	// account and due date. Returns (nil, nil) when none exists.
	FindActiveDuplicate(ctx context.Context, alertType string, accountID uuid.UUID, dueDate time.Time) (*domain.Alert, error)

	// FindActiveByTypeAndAccount looks up an active alert keyed on type and
	// account only, for alert types that carry no due date.
	// Returns (nil, nil) when none exists.
	FindActiveByTypeAndAccount(ctx context.Context, alertType string, accountID uuid.UUID) (*domain.Alert, error)

	// List retrieves alerts filtered by optional status and priority
	List(ctx context.Context, status, priority string) ([]*domain.Alert, error)

	// Acknowledge transitions an active alert to acknowledged
	Acknowledge(ctx context.Context, id uuid.UUID, at time.Time) error

	// Resolve transitions an alert to resolved
	Resolve(ctx context.Context, id uuid.UUID, at time.Time) error
}

// EscalationRepository defines the interface for escalation data operations
type EscalationRepository interface {
	// Create creates a new escalation
	Create(ctx context.Context, escalation *domain.Escalation) error

	// GetByID retrieves an escalation by its ID
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Escalation, error)

	// FindOpenForAccountSince looks up a pending or acknowledged escalation
	// for the account created at or after the given instant.
	// Returns (nil, nil) when none exists.
	FindOpenForAccountSince(ctx context.Context, accountID uuid.UUID, since time.Time) (*domain.Escalation, error)

	// List retrieves escalations filtered by optional status and priority
	List(ctx context.Context, status, priority string) ([]*domain.Escalation, error)

	// Acknowledge transitions a pending escalation to acknowledged
	Acknowledge(ctx context.Context, id uuid.UUID, at time.Time) error

	// Resolve transitions an escalation to resolved with resolution notes
	Resolve(ctx context.Context, id uuid.UUID, at time.Time, notes string) error
}

// UserRepository defines read access to users for recipient resolution
type UserRepository interface {
	// GetByID retrieves a user by ID
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// ListActiveManagersByRegion retrieves active collections managers in a region
	ListActiveManagersByRegion(ctx context.Context, regionID uuid.UUID) ([]*domain.User, error)

	// ListActiveAdministrators retrieves all active administrators
	ListActiveAdministrators(ctx context.Context) ([]*domain.User, error)
}

// NotificationRepository defines the interface for email notification audit records
type NotificationRepository interface {
	// Create records a delivery attempt, normally with status pending
	Create(ctx context.Context, notification *domain.EmailNotification) error

	// MarkSent flips a pending record to sent with the delivery time
	MarkSent(ctx context.Context, id uuid.UUID, sentAt time.Time) error

	// MarkFailed flips a pending record to failed
	MarkFailed(ctx context.Context, id uuid.UUID) error
}

// EventRepository records account-receivable audit events
type EventRepository interface {
	// Create appends an AR event
	Create(ctx context.Context, event *domain.AREvent) error
}
