package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/UsagiiTsukino/medchain-api/internal/core/domain"
	"github.com/UsagiiTsukino/medchain-api/internal/core/ports"
	"github.com/UsagiiTsukino/medchain-api/internal/pkg/listquery"
)

// VaccineService implements the catalog use cases.
type VaccineService struct {
	repo ports.VaccineRepository
	log  zerolog.Logger
}

func NewVaccineService(repo ports.VaccineRepository, log zerolog.Logger) *VaccineService {
	return &VaccineService{repo: repo, log: log}
}

func (s *VaccineService) List(ctx context.Context, q listquery.Query) (*ports.VaccineList, error) {
	if q.Page < 1 {
		q.Page = listquery.DefaultPage
	}
	if q.Size < 1 {
		q.Size = listquery.DefaultSize
	}
	if q.Size > listquery.MaxSize {
		q.Size = listquery.MaxSize
	}

	items, total, err := s.repo.List(ctx, q)
	if err != nil {
		s.log.Error().Err(err).Msg("vaccine list failed")
		return nil, err
	}
	if items == nil {
		items = []*domain.Vaccine{}
	}

	return &ports.VaccineList{
		Result: items,
		Meta: ports.ListMeta{
			Page:     q.Page,
			PageSize: q.Size,
			Total:    total,
		},
	}, nil
}

func (s *VaccineService) Get(ctx context.Context, id string) (*domain.Vaccine, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *VaccineService) Create(ctx context.Context, in ports.CreateVaccineInput) (*domain.Vaccine, error) {
	now := time.Now().UTC()
	v := &domain.Vaccine{
		Name:         in.Name,
		Manufacturer: in.Manufacturer,
		Disease:      in.Disease,
		PriceVnd:     in.PriceVnd,
		Doses:        in.Doses,
		Description:  in.Description,
		CenterName:   in.CenterName,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.repo.Create(ctx, v)
	if err != nil {
		s.log.Error().Err(err).Str("name", in.Name).Msg("vaccine create failed")
		return nil, err
	}
	s.log.Info().Str("id", created.ID).Str("name", created.Name).Msg("vaccine created")
	return created, nil
}

func (s *VaccineService) Update(ctx context.Context, in ports.UpdateVaccineInput) (*domain.Vaccine, error) {
	existing, err := s.repo.FindByID(ctx, in.ID)
	if err != nil {
		return nil, err
	}

	updated := &domain.Vaccine{
		ID:           existing.ID,
		Name:         in.Name,
		Manufacturer: in.Manufacturer,
		Disease:      in.Disease,
		PriceVnd:     in.PriceVnd,
		Doses:        in.Doses,
		Description:  in.Description,
		CenterName:   in.CenterName,
		CreatedAt:    existing.CreatedAt,
		UpdatedAt:    time.Now().UTC(),
	}
	if err := s.repo.Update(ctx, updated); err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *VaccineService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Str("id", id).Msg("vaccine deleted")
	return nil
}
