package shared

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrSessionNotFound indicates the presented token resolves to no session.
var ErrSessionNotFound = errors.New("session not found")

// SessionManager issues and resolves opaque bearer tokens backed by Redis.
// A token maps to the owning user's ID and expires after the configured TTL.
type SessionManager struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSessionManager constructs a SessionManager.
func NewSessionManager(client *redis.Client, ttl time.Duration) *SessionManager {
	return &SessionManager{client: client, ttl: ttl}
}

// TTL returns the configured session lifetime.
func (sm *SessionManager) TTL() time.Duration {
	return sm.ttl
}

// Issue creates a new session for the user and returns the opaque token.
func (sm *SessionManager) Issue(ctx context.Context, userID int64) (string, error) {
	token := uuid.NewString()
	if err := sm.client.Set(ctx, sm.redisKey(token), strconv.FormatInt(userID, 10), sm.ttl).Err(); err != nil {
		return "", fmt.Errorf("shared: issue session: %w", err)
	}
	return token, nil
}

// Resolve returns the user ID a token was issued for, or ErrSessionNotFound
// when the token is unknown or expired.
func (sm *SessionManager) Resolve(ctx context.Context, token string) (int64, error) {
	if token == "" {
		return 0, ErrSessionNotFound
	}
	raw, err := sm.client.Get(ctx, sm.redisKey(token)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, ErrSessionNotFound
		}
		return 0, fmt.Errorf("shared: resolve session: %w", err)
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("shared: corrupt session payload: %w", err)
	}
	return id, nil
}

// Invalidate removes a session. Invalidating an unknown token is not an error.
func (sm *SessionManager) Invalidate(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := sm.client.Del(ctx, sm.redisKey(token)).Err(); err != nil {
		return fmt.Errorf("shared: invalidate session: %w", err)
	}
	return nil
}

func (sm *SessionManager) redisKey(token string) string {
	return "casavia:session:" + token
}
