// Package api implements the remote contract over the service's REST API.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"dashflow-service/internal/dashboard/remote"
	xerrors "dashflow-service/internal/pkg/errors"

	"go.uber.org/zap"
)

// defaultTimeout bounds every request. A hung call fails the operation
// instead of pinning a loading state forever.
const defaultTimeout = 15 * time.Second

type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenStore
	logger  *zap.Logger

	mu          sync.Mutex
	subscribers map[int]chan *remote.Session
	nextSubID   int
}

type Option func(*Client)

func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

func WithTokenStore(store TokenStore) Option {
	return func(c *Client) { c.tokens = store }
}

func NewClient(baseURL string, logger *zap.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL:     baseURL,
		http:        &http.Client{Timeout: defaultTimeout},
		tokens:      NewMemoryTokenStore(),
		logger:      logger,
		subscribers: make(map[int]chan *remote.Session),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// envelope is the service's uniform response shape.
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

// do issues one JSON request and decodes the envelope's data into out. The
// bearer token is attached when the store holds one.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token, err := c.tokens.Load(); err == nil && token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	if !env.Success {
		return statusError(resp.StatusCode, env.Message, env.Error)
	}

	if out != nil && len(env.Data) > 0 && string(env.Data) != "null" {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("failed to decode response data: %w", err)
		}
	}
	return nil
}

// statusError folds an error response into the shared taxonomy.
func statusError(status int, message, detail string) error {
	if detail != "" {
		message = message + ": " + detail
	}

	switch status {
	case http.StatusBadRequest:
		return fmt.Errorf("%w: %s", xerrors.ErrValidation, message)
	case http.StatusUnauthorized:
		return fmt.Errorf("%w: %s", xerrors.ErrUnauthorized, message)
	case http.StatusForbidden:
		return fmt.Errorf("%w: %s", xerrors.ErrForbidden, message)
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", xerrors.ErrNotFound, message)
	case http.StatusConflict:
		return fmt.Errorf("%w: %s", xerrors.ErrDuplicateEntry, message)
	default:
		return fmt.Errorf("%w: %s", xerrors.ErrInternal, message)
	}
}

// emit fans a session change out to every subscriber without blocking.
func (c *Client) emit(s *remote.Session) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, ch := range c.subscribers {
		select {
		case ch <- s:
		default:
		}
	}
}

// Sessions subscribes to session-change notifications. Local sign-in and
// sign-out emit immediately; remote invalidations arrive via Listen.
func (c *Client) Sessions() (<-chan *remote.Session, func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.nextSubID
	c.nextSubID++
	ch := make(chan *remote.Session, 8)
	c.subscribers[id] = ch

	release := func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if _, ok := c.subscribers[id]; ok {
			delete(c.subscribers, id)
			close(ch)
		}
	}
	return ch, release
}
