package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestListenerSignsOutOnServerPush(t *testing.T) {
	upgrader := websocket.Upgrader{}
	gotToken := make(chan string, 1)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/ws" {
			http.NotFound(w, r)
			return
		}
		gotToken <- r.URL.Query().Get("token")

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		err = conn.WriteJSON(map[string]any{"type": "session:signed_out"})
		require.NoError(t, err)

		// Hold the connection until the client goes away.
		conn.ReadMessage()
	}))
	defer srv.Close()

	store := NewMemoryTokenStore()
	require.NoError(t, store.Save("tok-123"))
	c := NewClient(srv.URL, zap.NewNop(), WithTokenStore(store))

	sessions, release := c.Sessions()
	defer release()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go c.Listen(ctx)

	select {
	case token := <-gotToken:
		assert.Equal(t, "tok-123", token)
	case <-time.After(3 * time.Second):
		t.Fatal("listener never dialed the websocket")
	}

	select {
	case sess := <-sessions:
		assert.Nil(t, sess)
	case <-time.After(3 * time.Second):
		t.Fatal("no sign-out notification from the listener")
	}

	token, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, token)
}

func TestListenerIgnoresUnrelatedFrames(t *testing.T) {
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		conn.WriteJSON(map[string]any{"type": "activity"})
		conn.WriteJSON(map[string]any{"type": "connected"})
		conn.ReadMessage()
	}))
	defer srv.Close()

	store := NewMemoryTokenStore()
	require.NoError(t, store.Save("tok-123"))
	c := NewClient(srv.URL, zap.NewNop(), WithTokenStore(store))

	sessions, release := c.Sessions()
	defer release()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go c.Listen(ctx)

	select {
	case <-sessions:
		t.Fatal("activity frames must not look like session changes")
	case <-time.After(300 * time.Millisecond):
	}

	token, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "tok-123", token)
}
