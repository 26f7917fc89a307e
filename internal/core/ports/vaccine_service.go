package ports

import (
	"context"

	"github.com/UsagiiTsukino/medchain-api/internal/core/domain"
	"github.com/UsagiiTsukino/medchain-api/internal/pkg/listquery"
)

// ListMeta describes the page returned by a list call.
type ListMeta struct {
	Page     int   `json:"page"`
	PageSize int   `json:"pageSize"`
	Total    int64 `json:"total"`
}

// VaccineList is the result of a catalog list call.
type VaccineList struct {
	Result []*domain.Vaccine `json:"result"`
	Meta   ListMeta          `json:"meta"`
}

// CreateVaccineInput carries the fields for a new catalog entry.
type CreateVaccineInput struct {
	Name         string
	Manufacturer string
	Disease      string
	PriceVnd     int64
	Doses        int
	Description  string
	CenterName   string
}

// UpdateVaccineInput carries a full replacement of a catalog entry.
type UpdateVaccineInput struct {
	ID string
	CreateVaccineInput
}

// VaccineService defines catalog use cases. Create, Update, and Delete are
// admin operations; the router gates them.
type VaccineService interface {
	List(ctx context.Context, q listquery.Query) (*VaccineList, error)
	Get(ctx context.Context, id string) (*domain.Vaccine, error)
	Create(ctx context.Context, in CreateVaccineInput) (*domain.Vaccine, error)
	Update(ctx context.Context, in UpdateVaccineInput) (*domain.Vaccine, error)
	Delete(ctx context.Context, id string) error
}
