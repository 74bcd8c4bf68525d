package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"dashflow-service/internal/dashboard/remote"
	xerrors "dashflow-service/internal/pkg/errors"

	"go.uber.org/zap"
)

type loginResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
	UserID      int64     `json:"user_id"`
	Email       string    `json:"email"`
}

type sessionInfo struct {
	UserID    int64     `json:"user_id"`
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expires_at"`
}

// SignUp registers a new identity. The token is stored so the profile insert
// that follows can run; no signed-in event is emitted for it.
func (c *Client) SignUp(ctx context.Context, email, password string) (*remote.Session, error) {
	var out loginResponse
	err := c.do(ctx, http.MethodPost, "/api/v1/auth/register", map[string]string{
		"email":    email,
		"password": password,
	}, &out)
	if err != nil {
		if errors.Is(err, xerrors.ErrDuplicateEntry) || errors.Is(err, xerrors.ErrValidation) {
			return nil, err
		}
		return nil, fmt.Errorf("sign-up failed: %w", err)
	}

	if err := c.tokens.Save(out.AccessToken); err != nil {
		return nil, fmt.Errorf("failed to persist token: %w", err)
	}

	return sessionFromLogin(&out), nil
}

// SignInWithPassword authenticates and emits the new session to subscribers.
func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (*remote.Session, error) {
	var out loginResponse
	err := c.do(ctx, http.MethodPost, "/api/v1/auth/login", map[string]string{
		"email":    email,
		"password": password,
	}, &out)
	if err != nil {
		if errors.Is(err, xerrors.ErrUnauthorized) {
			return nil, fmt.Errorf("%w: %s", xerrors.ErrInvalidCredentials, email)
		}
		return nil, err
	}

	if err := c.tokens.Save(out.AccessToken); err != nil {
		return nil, fmt.Errorf("failed to persist token: %w", err)
	}

	session := sessionFromLogin(&out)
	c.emit(session)
	return session, nil
}

// SignOut invalidates the session server-side and always clears the local
// token. A token the server already rejects counts as signed out.
func (c *Client) SignOut(ctx context.Context) error {
	token, _ := c.tokens.Load()
	if token == "" {
		return nil
	}

	err := c.do(ctx, http.MethodPost, "/api/v1/auth/logout", nil, nil)

	if clearErr := c.tokens.Clear(); clearErr != nil {
		c.logger.Warn("failed to clear token store", zap.Error(clearErr))
	}
	c.emit(nil)

	if err != nil && !errors.Is(err, xerrors.ErrUnauthorized) {
		return err
	}
	return nil
}

// GetSession reports the current session, nil when there is none. The server
// answers a null session for an expired or unknown token, so an empty local
// token short-circuits to the same answer.
func (c *Client) GetSession(ctx context.Context) (*remote.Session, error) {
	token, err := c.tokens.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load token: %w", err)
	}
	if token == "" {
		return nil, nil
	}

	var out *sessionInfo
	if err := c.do(ctx, http.MethodGet, "/api/v1/auth/session", nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		return nil, nil
	}

	return &remote.Session{
		AccessToken: token,
		UserID:      out.UserID,
		Email:       out.Email,
		ExpiresAt:   out.ExpiresAt,
	}, nil
}

// ResolveEmailByUsername maps a username to the login email.
func (c *Client) ResolveEmailByUsername(ctx context.Context, username string) (string, error) {
	var out struct {
		Email string `json:"email"`
	}
	path := "/api/v1/auth/resolve-username/" + url.PathEscape(username)
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		if errors.Is(err, xerrors.ErrNotFound) {
			return "", fmt.Errorf("%w: %s", xerrors.ErrUsernameNotFound, username)
		}
		return "", err
	}
	return out.Email, nil
}

// Me fetches the team-member profile of the authenticated identity.
func (c *Client) Me(ctx context.Context) (*remote.Profile, error) {
	var out remote.Profile
	if err := c.do(ctx, http.MethodGet, "/api/v1/auth/me", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func sessionFromLogin(out *loginResponse) *remote.Session {
	return &remote.Session{
		AccessToken: out.AccessToken,
		UserID:      out.UserID,
		Email:       out.Email,
		ExpiresAt:   out.ExpiresAt,
	}
}
