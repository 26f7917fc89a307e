package ports

import (
	"context"

	"github.com/UsagiiTsukino/medchain-api/internal/core/domain"
	"github.com/UsagiiTsukino/medchain-api/internal/pkg/listquery"
)

// VaccineRepository defines persistence for the vaccine catalog.
type VaccineRepository interface {
	FindByID(ctx context.Context, id string) (*domain.Vaccine, error)
	// List returns a page of vaccines matching the parsed query and the
	// total count of matches.
	List(ctx context.Context, q listquery.Query) ([]*domain.Vaccine, int64, error)
	Create(ctx context.Context, v *domain.Vaccine) (*domain.Vaccine, error)
	Update(ctx context.Context, v *domain.Vaccine) error
	Delete(ctx context.Context, id string) error
}
