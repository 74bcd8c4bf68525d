package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

const eventsChannel = "session:events"

// Publish fans a session-change event out to every subscriber, across
// instances, via Redis pub/sub.
func (m *Manager) Publish(ctx context.Context, eventType string, identityID int64, jti string) error {
	ev := Event{
		Type:       eventType,
		IdentityID: identityID,
		JTI:        jti,
		At:         time.Now(),
	}

	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal session event: %w", err)
	}

	if err := m.client.Publish(ctx, eventsChannel, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish session event: %w", err)
	}

	return nil
}

// Subscribe returns a channel of session events and a release function. The
// channel is closed when the context is cancelled or the release function is
// called.
func (m *Manager) Subscribe(ctx context.Context) (<-chan Event, func()) {
	pubsub := m.client.Subscribe(ctx, eventsChannel)
	out := make(chan Event, 16)

	go func() {
		defer close(out)
		for msg := range pubsub.Channel() {
			var ev Event
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				continue
			}
			select {
			case out <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, func() { _ = pubsub.Close() }
}
