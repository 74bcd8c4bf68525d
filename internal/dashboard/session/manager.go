// Package session owns the dashboard's authentication state machine.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"dashflow-service/internal/dashboard/remote"
	"dashflow-service/internal/domain/member"
	xerrors "dashflow-service/internal/pkg/errors"

	"go.uber.org/zap"
)

// State is the auth lifecycle. Booting lasts exactly as long as the startup
// session lookup: the caller must render neither the login screen nor the
// dashboard until the lookup answers.
type State int32

const (
	StateBooting State = iota
	StateUnauthenticated
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateBooting:
		return "booting"
	case StateUnauthenticated:
		return "unauthenticated"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// ErrSubmissionInFlight rejects a second sign-in or sign-up while one is
// outstanding. The server stays the real arbiter of duplicates; this only
// backs the disabled-button rule.
var ErrSubmissionInFlight = errors.New("a submission is already in flight")

// User is the signed-in identity as shown to the caller.
type User struct {
	Name  string
	Email string
	Role  string
}

type Manager struct {
	auth      remote.AuthAPI
	directory remote.Directory
	profiles  remote.ProfileAPI
	members   remote.Table[member.TeamMember]
	logger    *zap.Logger

	mu      sync.RWMutex
	state   State
	session *remote.Session
	user    *User

	inFlight atomic.Bool

	release   func()
	done      chan struct{}
	closeOnce sync.Once
}

func NewManager(
	auth remote.AuthAPI,
	directory remote.Directory,
	profiles remote.ProfileAPI,
	members remote.Table[member.TeamMember],
	logger *zap.Logger,
) *Manager {
	return &Manager{
		auth:      auth,
		directory: directory,
		profiles:  profiles,
		members:   members,
		logger:    logger,
		state:     StateBooting,
		done:      make(chan struct{}),
	}
}

// Start bootstraps the session and subscribes to session-change events for
// the manager's lifetime. The subscription begins before the lookup so no
// transition is missed; the state stays Booting until the lookup answers, so
// an existing session never shows as Unauthenticated on the way up.
func (m *Manager) Start(ctx context.Context) {
	events, release := m.auth.Sessions()
	m.release = release

	go m.consume(events)

	session, err := m.auth.GetSession(ctx)
	if err != nil {
		m.logger.Error("session bootstrap failed", zap.Error(err))
		m.applySession(nil)
		return
	}
	m.applySession(session)
}

func (m *Manager) consume(events <-chan *remote.Session) {
	for {
		select {
		case s, ok := <-events:
			if !ok {
				return
			}
			m.applySession(s)
		case <-m.done:
			return
		}
	}
}

// State reports the current auth state.
func (m *Manager) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// CurrentUser returns nil while Booting or Unauthenticated.
func (m *Manager) CurrentUser() *User {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.state != StateAuthenticated || m.user == nil {
		return nil
	}
	u := *m.user
	return &u
}

// SignIn resolves the username to an email server-side, then authenticates
// with the password. An unknown username and a wrong password fail
// differently on purpose.
func (m *Manager) SignIn(ctx context.Context, username, password string) error {
	if username == "" || password == "" {
		return xerrors.Validationf("username and password are required")
	}
	if !m.inFlight.CompareAndSwap(false, true) {
		return ErrSubmissionInFlight
	}
	defer m.inFlight.Store(false)

	email, err := m.directory.ResolveEmailByUsername(ctx, username)
	if err != nil {
		return err
	}

	session, err := m.auth.SignInWithPassword(ctx, email, password)
	if err != nil {
		return err
	}

	m.applySession(session)
	return nil
}

// SignUp registers the identity, inserts the profile row, then forces a
// sign-out so the new user confirms their credentials explicitly. If the
// profile insert fails, the freshly created identity is signed out as a
// compensating action: an identity without a profile must not keep a live
// session.
func (m *Manager) SignUp(ctx context.Context, username, email, password string) error {
	if username == "" || email == "" || password == "" {
		return xerrors.Validationf("username, email and password are required")
	}
	if !m.inFlight.CompareAndSwap(false, true) {
		return ErrSubmissionInFlight
	}
	defer m.inFlight.Store(false)

	session, err := m.auth.SignUp(ctx, email, password)
	if err != nil {
		return err
	}

	err = m.members.Insert(ctx, &member.CreateMemberRequest{
		IdentityID: session.UserID,
		Username:   username,
		Name:       username,
		Email:      email,
		Role:       member.RoleAdmin,
		Status:     member.StatusActive,
	})
	if err != nil {
		if signOutErr := m.auth.SignOut(ctx); signOutErr != nil {
			m.logger.Error("compensating sign-out failed", zap.Error(signOutErr))
		}
		return fmt.Errorf("%w: %v", xerrors.ErrProfileCreation, err)
	}

	if err := m.auth.SignOut(ctx); err != nil {
		m.logger.Warn("post-registration sign-out failed", zap.Error(err))
	}
	m.applySession(nil)
	return nil
}

// SignOut ends the current session.
func (m *Manager) SignOut(ctx context.Context) error {
	err := m.auth.SignOut(ctx)
	m.applySession(nil)
	return err
}

// Close releases the session-change subscription.
func (m *Manager) Close() {
	m.closeOnce.Do(func() {
		if m.release != nil {
			m.release()
		}
		close(m.done)
	})
}

// applySession is the single place state transitions happen. It is idempotent
// so a direct call and the matching subscription event can both land.
func (m *Manager) applySession(s *remote.Session) {
	m.mu.Lock()

	if s == nil {
		m.state = StateUnauthenticated
		m.session = nil
		m.user = nil
		m.mu.Unlock()
		return
	}

	if m.state == StateAuthenticated && m.session != nil && m.session.AccessToken == s.AccessToken {
		m.mu.Unlock()
		return
	}

	m.state = StateAuthenticated
	m.session = s
	m.user = fallbackUser(s.Email)
	m.mu.Unlock()

	// Profile enrichment is async and best-effort: failure keeps the
	// email-derived fallback, it never blocks Authenticated.
	go m.fetchProfile(s)
}

func (m *Manager) fetchProfile(s *remote.Session) {
	profile, err := m.profiles.Me(context.Background())
	if err != nil {
		m.logger.Warn("profile fetch failed, using fallback identity", zap.Error(err))
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != StateAuthenticated || m.session == nil || m.session.AccessToken != s.AccessToken {
		return
	}

	name := profile.Name
	if name == "" {
		name = profile.Username
	}
	if name == "" {
		name = fallbackUser(s.Email).Name
	}
	m.user = &User{
		Name:  name,
		Email: profile.Email,
		Role:  profile.Role,
	}
}

// fallbackUser derives a display name from the email local-part.
func fallbackUser(email string) *User {
	name := email
	if at := strings.Index(email, "@"); at > 0 {
		name = email[:at]
	}
	return &User{Name: name, Email: email}
}
