package websocket

import (
	"testing"

	"dashflow-service/internal/pkg/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(h *Hub, identityID int64, jti string) *Client {
	return NewClient(h, nil, &ClientAuth{IdentityID: identityID, JTI: jti, Email: "a@x.com"})
}

// drain empties the frames queued during registration.
func drain(c *Client) {
	for {
		select {
		case <-c.send:
		default:
			return
		}
	}
}

func TestSignedOutEventCancelsMatchingConnection(t *testing.T) {
	h := NewHub(nil, nil, zap.NewNop())
	c1 := newTestClient(h, 7, "jti-1")
	c2 := newTestClient(h, 7, "jti-2")
	h.registerClient(c1)
	h.registerClient(c2)
	drain(c1)
	drain(c2)

	h.handleSessionEvent(&session.Event{
		Type:       session.EventSignedOut,
		IdentityID: 7,
		JTI:        "jti-1",
	})

	assert.Error(t, c1.ctx.Err())
	assert.NoError(t, c2.ctx.Err())

	// Both connections of the identity still get the frame.
	select {
	case payload := <-c2.send:
		msg, err := ParseMessage(payload)
		require.NoError(t, err)
		assert.Equal(t, EventTypeSignedOut, msg.Type)
	default:
		t.Fatal("expected a signed_out frame for the surviving connection")
	}
}

func TestSignedOutEventWithoutJTICancelsAllConnections(t *testing.T) {
	h := NewHub(nil, nil, zap.NewNop())
	c1 := newTestClient(h, 7, "jti-1")
	c2 := newTestClient(h, 7, "jti-2")
	other := newTestClient(h, 9, "jti-3")
	h.registerClient(c1)
	h.registerClient(c2)
	h.registerClient(other)

	h.handleSessionEvent(&session.Event{
		Type:       session.EventSignedOut,
		IdentityID: 7,
	})

	assert.Error(t, c1.ctx.Err())
	assert.Error(t, c2.ctx.Err())
	assert.NoError(t, other.ctx.Err())
}

func TestSignedInEventLeavesConnectionsOpen(t *testing.T) {
	h := NewHub(nil, nil, zap.NewNop())
	c1 := newTestClient(h, 7, "jti-1")
	h.registerClient(c1)
	drain(c1)

	h.handleSessionEvent(&session.Event{
		Type:       session.EventSignedIn,
		IdentityID: 7,
		JTI:        "jti-2",
	})

	assert.NoError(t, c1.ctx.Err())
	select {
	case payload := <-c1.send:
		msg, err := ParseMessage(payload)
		require.NoError(t, err)
		assert.Equal(t, EventTypeSignedIn, msg.Type)
	default:
		t.Fatal("expected a signed_in frame")
	}
}
