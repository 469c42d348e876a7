package domain

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

const (
	AlertTypePaymentDue     = "payment_due"
	AlertTypePaymentOverdue = "payment_overdue"
	AlertTypePTPDue         = "ptp_due"
	AlertTypePTPBroken      = "ptp_broken"
	AlertTypeHighPriority   = "high_priority"
)

const (
	AlertPriorityLow      = "low"
	AlertPriorityMedium   = "medium"
	AlertPriorityHigh     = "high"
	AlertPriorityCritical = "critical"
)

const (
	AlertStatusActive       = "active"
	AlertStatusAcknowledged = "acknowledged"
	AlertStatusResolved     = "resolved"
)

// Alert is a pending notice derived by the rule evaluators. At most one
// active alert may exist per (type, account, due_date); the repositories
// expose the dedupe lookup and the evaluators enforce it before creation.
type Alert struct {
	ID             uuid.UUID     `json:"id" db:"id"`
	AlertType      string        `json:"alert_type" db:"alert_type"`
	Title          string        `json:"title" db:"title"`
	Message        string        `json:"message" db:"message"`
	Priority       string        `json:"priority" db:"priority"`
	AccountID      uuid.NullUUID `json:"account_id" db:"account_id"`
	ConsumerID     uuid.NullUUID `json:"consumer_id" db:"consumer_id"`
	AssignedTo     uuid.NullUUID `json:"assigned_to" db:"assigned_to"`
	Status         string        `json:"status" db:"status"`
	DueDate        sql.NullTime  `json:"due_date" db:"due_date"`
	CreatedAt      time.Time     `json:"created_at" db:"created_at"`
	AcknowledgedAt sql.NullTime  `json:"acknowledged_at" db:"acknowledged_at"`
	ResolvedAt     sql.NullTime  `json:"resolved_at" db:"resolved_at"`
}

// DTOs for the alert endpoints.

type ListAlertsRequest struct {
	Status   string `json:"status" validate:"omitempty,oneof=active acknowledged resolved"`
	Priority string `json:"priority" validate:"omitempty,oneof=low medium high critical"`
}

type ResolveAlertRequest struct {
	Notes string `json:"notes"`
}

type RunChecksResponse struct {
	Started bool   `json:"started"`
	Message string `json:"message"`
}
