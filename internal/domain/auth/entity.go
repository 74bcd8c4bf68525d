package auth

import (
	"database/sql"
	"time"
)

// Identity is a row in the auth subsystem. Profile data lives in the
// team_members table and is joined by identity id.
type Identity struct {
	ID           int64        `json:"id" db:"id"`
	Email        string       `json:"email" db:"email"`
	PasswordHash string       `json:"-" db:"password_hash"`
	Status       string       `json:"status" db:"status"` // active, suspended
	LastLogin    sql.NullTime `json:"last_login" db:"last_login"`
	CreatedAt    time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at" db:"updated_at"`
}

// Session is the database record behind one issued token.
type Session struct {
	ID         int64        `json:"id" db:"id"`
	IdentityID int64        `json:"identity_id" db:"identity_id"`
	JTI        string       `json:"-" db:"jti"`
	Status     string       `json:"status" db:"status"` // active, revoked, expired
	LoginAt    time.Time    `json:"login_at" db:"login_at"`
	ExpiresAt  time.Time    `json:"expires_at" db:"expires_at"`
	LogoutAt   sql.NullTime `json:"logout_at" db:"logout_at"`
}
