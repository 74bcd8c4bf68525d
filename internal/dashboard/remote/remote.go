// Package remote defines the contract the dashboard consumes from the data
// service. Any backend satisfying these interfaces is acceptable; the HTTP
// implementation lives in the api package, tests use in-memory fakes.
package remote

import (
	"context"
	"time"
)

// Session is proof of an authenticated identity.
type Session struct {
	AccessToken string
	UserID      int64
	Email       string
	ExpiresAt   time.Time
}

// AuthAPI is the authentication subsystem of the data service.
type AuthAPI interface {
	// SignUp registers a new identity. The returned session is live: the
	// caller still has to insert the profile row before signing out again.
	SignUp(ctx context.Context, email, password string) (*Session, error)

	// SignInWithPassword authenticates by email and password.
	SignInWithPassword(ctx context.Context, email, password string) (*Session, error)

	// SignOut invalidates the current session. Signing out without a
	// session is a no-op.
	SignOut(ctx context.Context) error

	// GetSession returns the current session, or nil when there is none.
	// A nil session is not an error.
	GetSession(ctx context.Context) (*Session, error)

	// Sessions delivers the session after every auth-state transition, nil
	// meaning signed out. The release function ends the subscription.
	Sessions() (<-chan *Session, func())
}

// Directory resolves usernames server-side.
type Directory interface {
	// ResolveEmailByUsername maps a team-member username to the login
	// email. Unknown usernames fail with ErrUsernameNotFound.
	ResolveEmailByUsername(ctx context.Context, username string) (string, error)
}

// Profile is the team-member row joined to the current session.
type Profile struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	Status   string `json:"status"`
}

// ProfileAPI fetches the profile of the authenticated identity.
type ProfileAPI interface {
	Me(ctx context.Context) (*Profile, error)
}

// Filter narrows a Select to rows matching a field value.
type Filter struct {
	Field string
	Value string
}

// Table is the CRUD surface of one remote table. Mutations return no rows:
// identifiers are server-assigned, so callers re-read after every write.
type Table[T any] interface {
	Select(ctx context.Context, filters ...Filter) ([]T, error)
	Insert(ctx context.Context, data any) error
	Update(ctx context.Context, id int64, patch any) error
	Delete(ctx context.Context, id int64) error
}
