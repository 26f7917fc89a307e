package ports

import (
	"context"

	"github.com/UsagiiTsukino/medchain-api/internal/core/domain"
)

// UserRepository defines persistence for platform users.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	// List returns a page of users and the total count. When role is
	// non-empty, only users whose stored role normalizes to it are returned.
	List(ctx context.Context, role domain.Role, page, size int) ([]*domain.User, int64, error)
}
