package api

import (
	"context"
	"encoding/json"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const reconnectDelay = 5 * time.Second

type pushFrame struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// Listen keeps a websocket open to the service and turns pushed session
// events into subscriber notifications, so a logout on another tab or a
// server-side invalidation reaches this process. It blocks until the context
// is cancelled and reconnects after failures; without a token it just waits.
func (c *Client) Listen(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}

		token, err := c.tokens.Load()
		if err != nil || token == "" {
			select {
			case <-time.After(reconnectDelay):
				continue
			case <-ctx.Done():
				return
			}
		}

		if err := c.listenOnce(ctx, token); err != nil && ctx.Err() == nil {
			c.logger.Debug("websocket listener disconnected", zap.Error(err))
		}

		select {
		case <-time.After(reconnectDelay):
		case <-ctx.Done():
			return
		}
	}
}

func (c *Client) listenOnce(ctx context.Context, token string) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, c.wsURL(token), nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return err
		}

		var frame pushFrame
		if err := json.Unmarshal(data, &frame); err != nil {
			continue
		}

		if frame.Type == "session:signed_out" {
			// The server ended this identity's session. Drop the token
			// and tell subscribers there is no session anymore.
			if err := c.tokens.Clear(); err != nil {
				c.logger.Warn("failed to clear token store", zap.Error(err))
			}
			c.emit(nil)
		}
	}
}

func (c *Client) wsURL(token string) string {
	base := c.baseURL
	switch {
	case strings.HasPrefix(base, "https://"):
		base = "wss://" + strings.TrimPrefix(base, "https://")
	case strings.HasPrefix(base, "http://"):
		base = "ws://" + strings.TrimPrefix(base, "http://")
	}
	return base + "/ws?token=" + url.QueryEscape(token)
}
