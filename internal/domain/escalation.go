package domain

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

const (
	EscalationPriorityLow    = "low"
	EscalationPriorityMedium = "medium"
	EscalationPriorityHigh   = "high"
	EscalationPriorityUrgent = "urgent"
	// The critical tier escalates with the alert vocabulary's top priority.
	EscalationPriorityCritical = "critical"
)

const (
	EscalationStatusPending      = "pending"
	EscalationStatusAcknowledged = "acknowledged"
	EscalationStatusResolved     = "resolved"
)

// Escalation hands an account from its assigned officer to the region's
// manager. Auto-escalations are suppressed while an open escalation for the
// same account exists within the dedupe window.
type Escalation struct {
	ID              uuid.UUID      `json:"id" db:"id"`
	AccountID       uuid.UUID      `json:"account_id" db:"account_id"`
	EscalatedBy     uuid.UUID      `json:"escalated_by" db:"escalated_by"`
	EscalatedTo     uuid.UUID      `json:"escalated_to" db:"escalated_to"`
	Reason          string         `json:"reason" db:"reason"`
	Priority        string         `json:"priority" db:"priority"`
	Status          string         `json:"status" db:"status"`
	CreatedAt       time.Time      `json:"created_at" db:"created_at"`
	AcknowledgedAt  sql.NullTime   `json:"acknowledged_at" db:"acknowledged_at"`
	ResolvedAt      sql.NullTime   `json:"resolved_at" db:"resolved_at"`
	ResolutionNotes sql.NullString `json:"resolution_notes" db:"resolution_notes"`
}

// DTOs for the escalation endpoints.

type ListEscalationsRequest struct {
	Status   string `json:"status" validate:"omitempty,oneof=pending acknowledged resolved"`
	Priority string `json:"priority" validate:"omitempty,oneof=low medium high urgent critical"`
}

type ResolveEscalationRequest struct {
	Notes string `json:"notes" validate:"required"`
}
