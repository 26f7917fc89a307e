package ports

import (
	"context"

	"github.com/UsagiiTsukino/medchain-api/internal/core/domain"
)

// LoginResult carries the issued token and the authenticated user.
type LoginResult struct {
	AccessToken string
	User        *domain.User
}

// GoogleIdentity is the verified payload of a Google ID token.
type GoogleIdentity struct {
	Subject  string
	Email    string
	FullName string
	Avatar   string
}

// GoogleVerifier validates a Google ID token with the external tokeninfo
// collaborator.
type GoogleVerifier interface {
	Verify(ctx context.Context, idToken string) (*GoogleIdentity, error)
}

// AuthService implements registration, login, and logout.
type AuthService interface {
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	LoginWithGoogle(ctx context.Context, idToken string) (*LoginResult, error)
	Register(ctx context.Context, fullName, email, password string) (*domain.User, error)
	// Logout revokes the session behind token. Local teardown always
	// proceeds: a failing session store is logged, not returned.
	Logout(ctx context.Context, token string) error
}
