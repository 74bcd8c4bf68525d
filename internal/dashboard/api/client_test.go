package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"dashflow-service/internal/dashboard/remote"
	"dashflow-service/internal/domain/client"
	xerrors "dashflow-service/internal/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func respond(w http.ResponseWriter, status int, success bool, message string, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"success": success,
		"message": message,
		"data":    data,
	})
}

func TestSignInStoresTokenAndEmits(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/auth/login", r.URL.Path)
		respond(w, http.StatusOK, true, "logged in", map[string]any{
			"access_token": "tok-1",
			"token_type":   "Bearer",
			"expires_at":   time.Now().Add(time.Hour),
			"user_id":      5,
			"email":        "a@x.com",
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, zap.NewNop())
	events, release := c.Sessions()
	defer release()

	session, err := c.SignInWithPassword(context.Background(), "a@x.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, "tok-1", session.AccessToken)
	assert.Equal(t, int64(5), session.UserID)

	token, err := c.tokens.Load()
	require.NoError(t, err)
	assert.Equal(t, "tok-1", token)

	select {
	case ev := <-events:
		require.NotNil(t, ev)
		assert.Equal(t, "a@x.com", ev.Email)
	case <-time.After(time.Second):
		t.Fatal("expected a session event")
	}
}

func TestSignInWrongPassword(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respond(w, http.StatusUnauthorized, false, "failed to login", nil)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, zap.NewNop())
	_, err := c.SignInWithPassword(context.Background(), "a@x.com", "bad")
	require.ErrorIs(t, err, xerrors.ErrInvalidCredentials)
}

func TestGetSessionWithoutToken(t *testing.T) {
	// No network call should happen; a failing handler would turn one
	// into a test failure.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("unexpected request")
	}))
	defer srv.Close()

	c := NewClient(srv.URL, zap.NewNop())
	session, err := c.GetSession(context.Background())
	require.NoError(t, err)
	assert.Nil(t, session)
}

func TestGetSessionNullMeansSignedOut(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respond(w, http.StatusOK, true, "session retrieved", nil)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, zap.NewNop())
	require.NoError(t, c.tokens.Save("expired-token"))

	session, err := c.GetSession(context.Background())
	require.NoError(t, err)
	assert.Nil(t, session)
}

func TestResolveUsernameNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respond(w, http.StatusNotFound, false, "failed to resolve username", nil)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, zap.NewNop())
	_, err := c.ResolveEmailByUsername(context.Background(), "ghost")
	require.ErrorIs(t, err, xerrors.ErrUsernameNotFound)
}

func TestSignOutClearsTokenEvenWhenRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respond(w, http.StatusUnauthorized, false, "invalid or expired token", nil)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, zap.NewNop())
	require.NoError(t, c.tokens.Save("stale"))

	require.NoError(t, c.SignOut(context.Background()))

	token, err := c.tokens.Load()
	require.NoError(t, err)
	assert.Empty(t, token)
}

func TestTableSelectSendsBearerAndFilters(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok-9", r.Header.Get("Authorization"))
		assert.Equal(t, "Active", r.URL.Query().Get("status"))
		respond(w, http.StatusOK, true, "clients retrieved", []map[string]any{
			{"id": 1, "name": "Acme", "status": "Active"},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, zap.NewNop())
	require.NoError(t, c.tokens.Save("tok-9"))

	table := NewTable[client.Client](c, "/api/v1/clients")
	rows, err := table.Select(context.Background(), remote.Filter{Field: "status", Value: "Active"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Acme", rows[0].Name)
}

func TestTableInsertConflict(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respond(w, http.StatusConflict, false, "failed to create member", nil)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, zap.NewNop())
	table := NewTable[client.Client](c, "/api/v1/members")
	err := table.Insert(context.Background(), map[string]string{"username": "dup"})
	require.ErrorIs(t, err, xerrors.ErrDuplicateEntry)
}
