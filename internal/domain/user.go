package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleAdministrator      = "administrator"
	RoleGeneralManager     = "general_manager"
	RoleCollectionsManager = "collections_manager"
	RoleCollectionsOfficer = "collections_officer"
)

// User is read-only to the rule engine; it resolves officers, regional
// managers and notification recipients.
type User struct {
	ID        uuid.UUID     `json:"id" db:"id"`
	Username  string        `json:"username" db:"username"`
	Email     string        `json:"email" db:"email"`
	Role      string        `json:"role" db:"role"`
	RegionID  uuid.NullUUID `json:"region_id" db:"region_id"`
	Active    bool          `json:"active" db:"active"`
	CreatedAt time.Time     `json:"created_at" db:"created_at"`
}
