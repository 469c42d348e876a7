package domain

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	PTPStatusActive    = "active"
	PTPStatusKept      = "kept"
	PTPStatusBroken    = "broken"
	PTPStatusCancelled = "cancelled"
)

// PromiseToPay is a consumer's commitment to pay an amount by a date.
// Officers create PTPs; the overdue evaluator is the only automated path
// that transitions one from active to broken.
type PromiseToPay struct {
	ID             uuid.UUID       `json:"id" db:"id"`
	AccountID      uuid.UUID       `json:"account_id" db:"account_id"`
	ConsumerID     uuid.UUID       `json:"consumer_id" db:"consumer_id"`
	PromisedAmount decimal.Decimal `json:"promised_amount" db:"promised_amount"`
	PromisedDate   time.Time       `json:"promised_date" db:"promised_date"`
	Status         string          `json:"status" db:"status"`
	CreatedBy      uuid.UUID       `json:"created_by" db:"created_by"`
	CreatedAt      time.Time       `json:"created_at" db:"created_at"`
	KeptDate       sql.NullTime    `json:"kept_date" db:"kept_date"`
	BrokenDate     sql.NullTime    `json:"broken_date" db:"broken_date"`
}
