package member

import (
	"database/sql"
	"time"
)

// TeamMember is a dashboard operator account. It doubles as the user profile
// row for an auth identity: sign-up inserts one keyed by identity id, and the
// session manager derives the signed-in user's display data from it.
type TeamMember struct {
	ID         int64         `json:"id" db:"id"`
	IdentityID sql.NullInt64 `json:"identity_id" db:"identity_id"`
	Username   string        `json:"username" db:"username"`
	Name       string        `json:"name" db:"name"`
	Email      string        `json:"email" db:"email"`
	Role       string        `json:"role" db:"role"`     // Admin, Manager, Analyst, Operator
	Status     string        `json:"status" db:"status"` // Active, Suspended
	LastLogin  sql.NullTime  `json:"last_login" db:"last_login"`
	CreatedAt  time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at" db:"updated_at"`
}

const (
	RoleAdmin    = "Admin"
	RoleManager  = "Manager"
	RoleAnalyst  = "Analyst"
	RoleOperator = "Operator"

	StatusActive    = "Active"
	StatusSuspended = "Suspended"
)
