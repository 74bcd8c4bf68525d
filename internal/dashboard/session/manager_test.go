package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"dashflow-service/internal/dashboard/remote"
	"dashflow-service/internal/domain/member"
	xerrors "dashflow-service/internal/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// --- fakes ---

type fakeAuth struct {
	mu sync.Mutex

	session   *remote.Session
	signInErr error
	signUpErr error

	signOutCalls int
	signInBlock  chan struct{}

	subscribers []chan *remote.Session
}

func (f *fakeAuth) SignUp(ctx context.Context, email, password string) (*remote.Session, error) {
	if f.signUpErr != nil {
		return nil, f.signUpErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.session = &remote.Session{AccessToken: "tok-signup", UserID: 7, Email: email}
	return f.session, nil
}

func (f *fakeAuth) SignInWithPassword(ctx context.Context, email, password string) (*remote.Session, error) {
	if f.signInBlock != nil {
		<-f.signInBlock
	}
	if f.signInErr != nil {
		return nil, f.signInErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.session = &remote.Session{AccessToken: "tok-" + email, UserID: 1, Email: email}
	return f.session, nil
}

func (f *fakeAuth) SignOut(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.signOutCalls++
	f.session = nil
	return nil
}

func (f *fakeAuth) GetSession(ctx context.Context) (*remote.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.session, nil
}

func (f *fakeAuth) Sessions() (<-chan *remote.Session, func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ch := make(chan *remote.Session, 8)
	f.subscribers = append(f.subscribers, ch)
	return ch, func() {}
}

func (f *fakeAuth) emit(s *remote.Session) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, ch := range f.subscribers {
		ch <- s
	}
}

func (f *fakeAuth) signOuts() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.signOutCalls
}

type fakeDirectory struct {
	emails map[string]string
}

func (f *fakeDirectory) ResolveEmailByUsername(ctx context.Context, username string) (string, error) {
	email, ok := f.emails[username]
	if !ok {
		return "", xerrors.ErrUsernameNotFound
	}
	return email, nil
}

type fakeProfiles struct {
	profile *remote.Profile
	err     error
}

func (f *fakeProfiles) Me(ctx context.Context) (*remote.Profile, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.profile, nil
}

type fakeMembers struct {
	mu        sync.Mutex
	insertErr error
	inserted  []any
}

func (f *fakeMembers) Select(ctx context.Context, filters ...remote.Filter) ([]member.TeamMember, error) {
	return nil, nil
}

func (f *fakeMembers) Insert(ctx context.Context, data any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.insertErr != nil {
		return f.insertErr
	}
	f.inserted = append(f.inserted, data)
	return nil
}

func (f *fakeMembers) Update(ctx context.Context, id int64, patch any) error { return nil }
func (f *fakeMembers) Delete(ctx context.Context, id int64) error            { return nil }

func newTestManager(auth *fakeAuth, dir *fakeDirectory, profiles *fakeProfiles, members *fakeMembers) *Manager {
	if dir == nil {
		dir = &fakeDirectory{emails: map[string]string{}}
	}
	if profiles == nil {
		profiles = &fakeProfiles{err: xerrors.ErrNotFound}
	}
	if members == nil {
		members = &fakeMembers{}
	}
	return NewManager(auth, dir, profiles, members, zap.NewNop())
}

// --- tests ---

func TestBootstrapWithExistingSession(t *testing.T) {
	auth := &fakeAuth{session: &remote.Session{AccessToken: "t", UserID: 1, Email: "boss@x.com"}}
	m := newTestManager(auth, nil, &fakeProfiles{profile: &remote.Profile{Name: "Boss", Email: "boss@x.com", Role: "Admin"}}, nil)
	defer m.Close()

	require.Equal(t, StateBooting, m.State())
	require.Nil(t, m.CurrentUser())

	m.Start(context.Background())

	// An existing session lands in Authenticated without ever showing
	// Unauthenticated.
	require.Equal(t, StateAuthenticated, m.State())
	require.NotNil(t, m.CurrentUser())

	require.Eventually(t, func() bool {
		u := m.CurrentUser()
		return u != nil && u.Name == "Boss" && u.Role == "Admin"
	}, time.Second, 10*time.Millisecond)
}

func TestBootstrapWithoutSession(t *testing.T) {
	m := newTestManager(&fakeAuth{}, nil, nil, nil)
	defer m.Close()

	m.Start(context.Background())

	assert.Equal(t, StateUnauthenticated, m.State())
	assert.Nil(t, m.CurrentUser())
}

func TestSignInResolvesUsername(t *testing.T) {
	auth := &fakeAuth{}
	dir := &fakeDirectory{emails: map[string]string{"admin1": "admin1@x.com"}}
	m := newTestManager(auth, dir, nil, nil)
	defer m.Close()
	m.Start(context.Background())

	require.NoError(t, m.SignIn(context.Background(), "admin1", "correct-horse"))

	require.Equal(t, StateAuthenticated, m.State())
	u := m.CurrentUser()
	require.NotNil(t, u)
	assert.Equal(t, "admin1@x.com", u.Email)
	// Profile fetch failed in this fake, so the name falls back to the
	// email local-part.
	require.Eventually(t, func() bool {
		return m.CurrentUser().Name == "admin1"
	}, time.Second, 10*time.Millisecond)
}

func TestSignInUnknownUsername(t *testing.T) {
	m := newTestManager(&fakeAuth{}, &fakeDirectory{emails: map[string]string{}}, nil, nil)
	defer m.Close()
	m.Start(context.Background())

	err := m.SignIn(context.Background(), "ghost", "pw")
	require.ErrorIs(t, err, xerrors.ErrUsernameNotFound)
	assert.Equal(t, StateUnauthenticated, m.State())
}

func TestSignInWrongPassword(t *testing.T) {
	auth := &fakeAuth{signInErr: xerrors.ErrInvalidCredentials}
	dir := &fakeDirectory{emails: map[string]string{"admin1": "admin1@x.com"}}
	m := newTestManager(auth, dir, nil, nil)
	defer m.Close()
	m.Start(context.Background())

	err := m.SignIn(context.Background(), "admin1", "wrong")
	require.ErrorIs(t, err, xerrors.ErrInvalidCredentials)
	assert.Equal(t, StateUnauthenticated, m.State())
	assert.Nil(t, m.CurrentUser())
}

func TestSignInRejectsConcurrentSubmission(t *testing.T) {
	auth := &fakeAuth{signInBlock: make(chan struct{})}
	dir := &fakeDirectory{emails: map[string]string{"admin1": "admin1@x.com"}}
	m := newTestManager(auth, dir, nil, nil)
	defer m.Close()
	m.Start(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- m.SignIn(context.Background(), "admin1", "pw")
	}()

	require.Eventually(t, func() bool {
		return m.inFlight.Load()
	}, time.Second, time.Millisecond)

	err := m.SignIn(context.Background(), "admin1", "pw")
	require.ErrorIs(t, err, ErrSubmissionInFlight)

	close(auth.signInBlock)
	require.NoError(t, <-done)
}

func TestSignUpSuccessEndsSignedOut(t *testing.T) {
	auth := &fakeAuth{}
	members := &fakeMembers{}
	m := newTestManager(auth, nil, nil, members)
	defer m.Close()
	m.Start(context.Background())

	require.NoError(t, m.SignUp(context.Background(), "newbie", "newbie@x.com", "pw123456"))

	// Registration deliberately forces a sign-out so the user confirms
	// credentials explicitly.
	assert.Equal(t, StateUnauthenticated, m.State())
	assert.Len(t, members.inserted, 1)
	assert.Equal(t, 1, auth.signOuts())

	s, err := auth.GetSession(context.Background())
	require.NoError(t, err)
	assert.Nil(t, s)
}

func TestSignUpCompensatesFailedProfileInsert(t *testing.T) {
	auth := &fakeAuth{}
	members := &fakeMembers{insertErr: xerrors.ErrDuplicateEntry}
	m := newTestManager(auth, nil, nil, members)
	defer m.Close()
	m.Start(context.Background())

	err := m.SignUp(context.Background(), "newbie", "newbie@x.com", "pw123456")
	require.ErrorIs(t, err, xerrors.ErrProfileCreation)

	// The identity exists but has no profile, so its session must not
	// stay alive.
	assert.Equal(t, 1, auth.signOuts())
	s, getErr := auth.GetSession(context.Background())
	require.NoError(t, getErr)
	assert.Nil(t, s)
}

func TestSessionEventSignsOutRemotely(t *testing.T) {
	auth := &fakeAuth{session: &remote.Session{AccessToken: "t", UserID: 1, Email: "a@x.com"}}
	m := newTestManager(auth, nil, nil, nil)
	defer m.Close()
	m.Start(context.Background())
	require.Equal(t, StateAuthenticated, m.State())

	auth.emit(nil)

	require.Eventually(t, func() bool {
		return m.State() == StateUnauthenticated
	}, time.Second, 10*time.Millisecond)
	assert.Nil(t, m.CurrentUser())
}

func TestSessionEventSignsInFromAnotherTab(t *testing.T) {
	auth := &fakeAuth{}
	m := newTestManager(auth, nil, nil, nil)
	defer m.Close()
	m.Start(context.Background())
	require.Equal(t, StateUnauthenticated, m.State())

	auth.emit(&remote.Session{AccessToken: "t2", UserID: 2, Email: "b@x.com"})

	require.Eventually(t, func() bool {
		return m.State() == StateAuthenticated
	}, time.Second, 10*time.Millisecond)
	require.NotNil(t, m.CurrentUser())
	assert.Equal(t, "b@x.com", m.CurrentUser().Email)
}

func TestSignOut(t *testing.T) {
	auth := &fakeAuth{session: &remote.Session{AccessToken: "t", UserID: 1, Email: "a@x.com"}}
	m := newTestManager(auth, nil, nil, nil)
	defer m.Close()
	m.Start(context.Background())

	require.NoError(t, m.SignOut(context.Background()))
	assert.Equal(t, StateUnauthenticated, m.State())
	assert.Nil(t, m.CurrentUser())
}

func TestValidationNeverReachesAuth(t *testing.T) {
	auth := &fakeAuth{signInErr: xerrors.ErrInternal}
	m := newTestManager(auth, nil, nil, nil)
	defer m.Close()
	m.Start(context.Background())

	err := m.SignIn(context.Background(), "", "")
	require.ErrorIs(t, err, xerrors.ErrValidation)

	err = m.SignUp(context.Background(), "u", "", "pw")
	require.ErrorIs(t, err, xerrors.ErrValidation)
}
