// Package session resolves per-request session state from a bearer token and
// the Redis-backed session store. The store is the single source of truth:
// a structurally valid token whose session is gone (logout, expiry) resolves
// as unauthenticated.
package session

import (
	"context"
	"errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/UsagiiTsukino/medchain-api/internal/core/domain"
	"github.com/UsagiiTsukino/medchain-api/internal/core/ports"
)

// Session is the resolved authentication state for one request.
type Session struct {
	IsAuthenticated bool
	User            *domain.User
}

// Anonymous is the unauthenticated session.
var Anonymous = Session{}

// Resolver turns a bearer token into a Session.
type Resolver struct {
	store  ports.SessionStore
	secret string
	log    zerolog.Logger
}

func NewResolver(store ports.SessionStore, jwtSecret string, log zerolog.Logger) *Resolver {
	return &Resolver{store: store, secret: jwtSecret, log: log}
}

// Resolve validates the token signature and looks up the backing session.
// Missing or invalid tokens and missing sessions all resolve to Anonymous;
// only infrastructure failures return an error, and callers are expected to
// fail closed on them.
func (r *Resolver) Resolve(ctx context.Context, token string) (Session, error) {
	if token == "" {
		return Anonymous, nil
	}

	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(r.secret), nil
	})
	if err != nil || !tkn.Valid {
		return Anonymous, nil
	}

	user, err := r.store.Get(ctx, token)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return Anonymous, nil
		}
		return Anonymous, err
	}

	return Session{IsAuthenticated: true, User: user}, nil
}
