package session

import "time"

// Data is the cached state of one live session.
type Data struct {
	JTI        string    `json:"jti"`
	IdentityID int64     `json:"identity_id"`
	SessionID  int64     `json:"session_id"` // DB session ID
	Email      string    `json:"email"`
	LoginAt    time.Time `json:"login_at"`
	ExpiresAt  time.Time `json:"expires_at"`
	IsActive   bool      `json:"is_active"`
}

// Event types mirror the auth-state transitions pushed to subscribers.
const (
	EventSignedIn  = "signed_in"
	EventSignedOut = "signed_out"
)

// Event is one session-change notification. A signed_out event with an empty
// JTI means every session of the identity was invalidated.
type Event struct {
	Type       string    `json:"type"`
	IdentityID int64     `json:"identity_id"`
	JTI        string    `json:"jti,omitempty"`
	At         time.Time `json:"at"`
}
