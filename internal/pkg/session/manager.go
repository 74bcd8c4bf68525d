package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"dashflow-service/internal/repository/postgres"

	"github.com/redis/go-redis/v9"
)

// Manager keeps live sessions in Redis with the database as fallback and
// source of record.
type Manager struct {
	client   *redis.Client
	authRepo *postgres.AuthRepository
}

func NewManager(client *redis.Client, authRepo *postgres.AuthRepository) *Manager {
	return &Manager{
		client:   client,
		authRepo: authRepo,
	}
}

// Create stores a new session in Redis with a TTL matching its expiry.
func (m *Manager) Create(ctx context.Context, s *Data) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	ttl := time.Until(s.ExpiresAt)
	if ttl <= 0 {
		return fmt.Errorf("session already expired")
	}

	if err := m.client.Set(ctx, m.sessionKey(s.JTI), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store session in redis: %w", err)
	}

	return nil
}

// Get retrieves a session by JTI, falling back to the database on a Redis
// miss and restoring the cache entry.
func (m *Manager) Get(ctx context.Context, jti string) (*Data, error) {
	raw, err := m.client.Get(ctx, m.sessionKey(jti)).Bytes()
	if err == nil {
		var s Data
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, fmt.Errorf("failed to unmarshal session: %w", err)
		}
		return &s, nil
	}
	if !errors.Is(err, redis.Nil) {
		// Redis trouble is not fatal, the database still has the row.
		fmt.Printf("[SESSION] Warning: redis error, falling back to DB: %v\n", err)
	}

	dbSession, dbErr := m.authRepo.FindSessionByJTI(ctx, jti)
	if dbErr != nil {
		return nil, fmt.Errorf("session not found: %w", dbErr)
	}
	if dbSession.Status != "active" || dbSession.ExpiresAt.Before(time.Now()) {
		return nil, fmt.Errorf("session not active")
	}

	identity, err := m.authRepo.FindIdentityByID(ctx, dbSession.IdentityID)
	if err != nil {
		return nil, fmt.Errorf("session identity lookup: %w", err)
	}

	s := &Data{
		JTI:        jti,
		IdentityID: dbSession.IdentityID,
		SessionID:  dbSession.ID,
		Email:      identity.Email,
		LoginAt:    dbSession.LoginAt,
		ExpiresAt:  dbSession.ExpiresAt,
		IsActive:   true,
	}

	go m.restoreToRedis(context.Background(), s)

	return s, nil
}

// Invalidate removes a session from Redis and revokes it in the database.
func (m *Manager) Invalidate(ctx context.Context, jti string) error {
	if err := m.client.Del(ctx, m.sessionKey(jti)).Err(); err != nil {
		fmt.Printf("[SESSION] Warning: failed to delete from Redis: %v\n", err)
	}

	if err := m.authRepo.InvalidateSession(ctx, jti); err != nil {
		return fmt.Errorf("failed to invalidate DB session: %w", err)
	}

	return nil
}

// Drop evicts a session from the Redis cache only. The database row is the
// caller's business, typically already revoked in bulk.
func (m *Manager) Drop(ctx context.Context, jti string) {
	if err := m.client.Del(ctx, m.sessionKey(jti)).Err(); err != nil {
		fmt.Printf("[SESSION] Warning: failed to delete from Redis: %v\n", err)
	}
}

// IsBlacklisted checks whether a JTI was explicitly revoked before expiry.
func (m *Manager) IsBlacklisted(ctx context.Context, jti string) (bool, error) {
	exists, err := m.client.Exists(ctx, m.blacklistKey(jti)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check blacklist: %w", err)
	}
	return exists > 0, nil
}

// Blacklist marks a JTI revoked until its natural expiry.
func (m *Manager) Blacklist(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return m.client.Set(ctx, m.blacklistKey(jti), "1", ttl).Err()
}

// Helper functions
func (m *Manager) sessionKey(jti string) string {
	return fmt.Sprintf("session:%s", jti)
}

func (m *Manager) blacklistKey(jti string) string {
	return fmt.Sprintf("blacklist:%s", jti)
}

func (m *Manager) restoreToRedis(ctx context.Context, s *Data) {
	if err := m.Create(ctx, s); err != nil {
		fmt.Printf("[SESSION] Warning: failed to restore session to Redis: %v\n", err)
	}
}
