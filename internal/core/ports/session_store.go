package ports

import (
	"context"
	"time"

	"github.com/UsagiiTsukino/medchain-api/internal/core/domain"
)

// SessionStore is the single mutation surface for session state. Login
// writes, logout deletes; everything else only reads through Get.
type SessionStore interface {
	Put(ctx context.Context, token string, user *domain.User, ttl time.Duration) error
	// Get returns the user bound to token, or domain.ErrSessionNotFound.
	Get(ctx context.Context, token string) (*domain.User, error)
	Delete(ctx context.Context, token string) error
}
