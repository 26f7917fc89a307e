package redis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/UsagiiTsukino/medchain-api/internal/core/domain"
)

// SessionStore persists login sessions in Redis.
// Key format: session:<sha256(token)>; raw tokens never touch the store.
type SessionStore struct {
	client *redis.Client
}

// NewSessionStore creates a SessionStore wrapping the given Redis client.
func NewSessionStore(client *redis.Client) *SessionStore {
	return &SessionStore{client: client}
}

// Put binds the user to the token for ttl.
func (s *SessionStore) Put(ctx context.Context, token string, user *domain.User, ttl time.Duration) error {
	payload, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("session put: %w", err)
	}
	return s.client.Set(ctx, s.key(token), payload, ttl).Err()
}

// Get returns the user bound to the token, or domain.ErrSessionNotFound.
func (s *SessionStore) Get(ctx context.Context, token string) (*domain.User, error) {
	payload, err := s.client.Get(ctx, s.key(token)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, fmt.Errorf("session get: %w", err)
	}
	var user domain.User
	if err := json.Unmarshal(payload, &user); err != nil {
		return nil, fmt.Errorf("session decode: %w", err)
	}
	return &user, nil
}

// Delete removes the session. Deleting an absent session is not an error.
func (s *SessionStore) Delete(ctx context.Context, token string) error {
	return s.client.Del(ctx, s.key(token)).Err()
}

func (s *SessionStore) key(token string) string {
	sum := sha256.Sum256([]byte(token))
	return "session:" + hex.EncodeToString(sum[:])
}
