package websocket

import (
	"context"
	"errors"
	"sync"

	"dashflow-service/internal/domain/activity"
	"dashflow-service/internal/pkg/jwt"
	"dashflow-service/internal/pkg/session"

	"go.uber.org/zap"
)

var (
	ErrTokenBlacklisted = errors.New("token has been blacklisted")
	ErrSessionExpired   = errors.New("session has expired")
)

// Hub tracks connected dashboard tabs and pushes session-change and
// activity events to them. One identity may hold several connections.
type Hub struct {
	clients map[int64]map[*Client]bool
	mu      sync.RWMutex

	Register   chan *Client
	unregister chan *Client

	jwtManager     *jwt.Manager
	sessionManager *session.Manager
	logger         *zap.Logger
}

func NewHub(jwtManager *jwt.Manager, sessionManager *session.Manager, logger *zap.Logger) *Hub {
	return &Hub{
		clients:        make(map[int64]map[*Client]bool),
		Register:       make(chan *Client),
		unregister:     make(chan *Client, 16),
		jwtManager:     jwtManager,
		sessionManager: sessionManager,
		logger:         logger,
	}
}

// AuthenticateClient validates the access token before the upgrade and
// resolves it into client identity info.
func (h *Hub) AuthenticateClient(ctx context.Context, token string) (*ClientAuth, error) {
	claims, err := h.jwtManager.Verify(token)
	if err != nil {
		return nil, err
	}

	blacklisted, err := h.sessionManager.IsBlacklisted(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if blacklisted {
		return nil, ErrTokenBlacklisted
	}

	data, err := h.sessionManager.Get(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if data == nil || !data.IsActive {
		return nil, ErrSessionExpired
	}

	return &ClientAuth{
		IdentityID: claims.IdentityID,
		JTI:        claims.ID,
		Email:      data.Email,
	}, nil
}

// Run owns the client registry. It also consumes the Redis session-event
// stream so that sign-ins and sign-outs on any instance reach every tab.
func (h *Hub) Run(ctx context.Context) {
	events, release := h.sessionManager.Subscribe(ctx)
	defer release()

	for {
		select {
		case <-ctx.Done():
			h.shutdown()
			return

		case client := <-h.Register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case ev, ok := <-events:
			if !ok {
				h.shutdown()
				return
			}
			h.handleSessionEvent(&ev)
		}
	}
}

// BroadcastActivity fans an activity entry out to every connected tab.
func (h *Hub) BroadcastActivity(entry *activity.Entry) {
	payload, err := NewMessage(EventTypeActivity, entry).Marshal()
	if err != nil {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, conns := range h.clients {
		for client := range conns {
			client.trySend(payload)
		}
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	if h.clients[client.identityID] == nil {
		h.clients[client.identityID] = make(map[*Client]bool)
	}
	h.clients[client.identityID][client] = true
	total := h.totalClients()
	h.mu.Unlock()

	h.logger.Info("websocket client connected",
		zap.Int64("identity_id", client.identityID),
		zap.Int("total", total))

	client.SendMessage(NewMessage(EventTypeConnected, map[string]interface{}{
		"identity_id": client.identityID,
		"email":       client.email,
	}))
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	conns, ok := h.clients[client.identityID]
	if !ok || !conns[client] {
		return
	}
	delete(conns, client)
	if len(conns) == 0 {
		delete(h.clients, client.identityID)
	}
	client.close()
}

func (h *Hub) handleSessionEvent(ev *session.Event) {
	var eventType EventType
	switch ev.Type {
	case session.EventSignedIn:
		eventType = EventTypeSignedIn
	case session.EventSignedOut:
		eventType = EventTypeSignedOut
	default:
		return
	}

	payload, err := NewMessage(eventType, ev).Marshal()
	if err != nil {
		return
	}

	h.mu.RLock()
	conns := h.clients[ev.IdentityID]
	targets := make([]*Client, 0, len(conns))
	for client := range conns {
		targets = append(targets, client)
	}
	h.mu.RUnlock()

	for _, client := range targets {
		client.trySend(payload)
		// A signed-out session takes its connections down with it. An
		// empty JTI means every session of the identity was invalidated.
		if eventType == EventTypeSignedOut && (ev.JTI == "" || ev.JTI == client.jti) {
			client.cancel()
		}
	}
}

func (h *Hub) totalClients() int {
	total := 0
	for _, conns := range h.clients {
		total += len(conns)
	}
	return total
}

func (h *Hub) shutdown() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, conns := range h.clients {
		for client := range conns {
			client.close()
		}
	}
	h.clients = make(map[int64]map[*Client]bool)
}
