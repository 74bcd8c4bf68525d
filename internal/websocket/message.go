package websocket

import (
	"encoding/json"
	"time"
)

// EventType labels a pushed frame.
type EventType string

const (
	EventTypeConnected EventType = "connected"
	EventTypePing      EventType = "ping"
	EventTypePong      EventType = "pong"

	// Session events mirror the auth-state transitions published over Redis.
	EventTypeSignedIn  EventType = "session:signed_in"
	EventTypeSignedOut EventType = "session:signed_out"

	// Activity entries are fanned out to every connected dashboard tab.
	EventTypeActivity EventType = "activity"
)

type Message struct {
	Type      EventType   `json:"type"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

func NewMessage(eventType EventType, data interface{}) *Message {
	return &Message{
		Type:      eventType,
		Data:      data,
		Timestamp: time.Now(),
	}
}

func (m *Message) Marshal() ([]byte, error) {
	return json.Marshal(m)
}

func ParseMessage(data []byte) (*Message, error) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
