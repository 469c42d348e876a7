package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	AccountStatusActive     = "active"
	AccountStatusPaidInFull = "paid_in_full"
	AccountStatusSettled    = "settled"
	AccountStatusClosed     = "closed"
	AccountStatusForwarded  = "forwarded"
)

// Account represents a placed debt account under collection.
type Account struct {
	ID                uuid.UUID       `json:"id" db:"id"`
	ConsumerID        uuid.UUID       `json:"consumer_id" db:"consumer_id"`
	AccountNumber     string          `json:"account_number" db:"account_number"`
	OriginalBalance   decimal.Decimal `json:"original_balance" db:"original_balance"`
	CurrentBalance    decimal.Decimal `json:"current_balance" db:"current_balance"`
	Status            string          `json:"status" db:"status"`
	PlacementDate     time.Time       `json:"placement_date" db:"placement_date"`
	AssignedOfficerID uuid.NullUUID   `json:"assigned_officer_id" db:"assigned_officer_id"`
	CreatedAt         time.Time       `json:"created_at" db:"created_at"`
}

// Consumer is the debtor the account belongs to. The rule engine only needs
// the name for alert messages.
type Consumer struct {
	ID        uuid.UUID     `json:"id" db:"id"`
	FirstName string        `json:"first_name" db:"first_name"`
	LastName  string        `json:"last_name" db:"last_name"`
	Email     string        `json:"email" db:"email"`
	RegionID  uuid.NullUUID `json:"region_id" db:"region_id"`
	CreatedAt time.Time     `json:"created_at" db:"created_at"`
}

// FullName returns the consumer's display name for alert messages.
func (c *Consumer) FullName() string {
	return c.FirstName + " " + c.LastName
}
