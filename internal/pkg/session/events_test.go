package session

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventRoundTrip(t *testing.T) {
	ev := Event{
		Type:       EventSignedOut,
		IdentityID: 7,
		JTI:        "jti-1",
		At:         time.Now().UTC().Truncate(time.Second),
	}

	payload, err := json.Marshal(ev)
	require.NoError(t, err)

	var got Event
	require.NoError(t, json.Unmarshal(payload, &got))
	assert.Equal(t, ev, got)
}

func TestEventOmitsEmptyJTI(t *testing.T) {
	// A broadcast sign-out carries no JTI; the field must vanish from the
	// wire instead of arriving as an empty string key.
	payload, err := json.Marshal(Event{Type: EventSignedOut, IdentityID: 7})
	require.NoError(t, err)
	assert.NotContains(t, string(payload), "jti")
}
