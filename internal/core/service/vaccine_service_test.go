package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/UsagiiTsukino/medchain-api/internal/core/domain"
	"github.com/UsagiiTsukino/medchain-api/internal/core/ports"
	"github.com/UsagiiTsukino/medchain-api/internal/pkg/listquery"
)

type stubVaccineRepo struct {
	byID    map[string]*domain.Vaccine
	items   []*domain.Vaccine
	total   int64
	listErr error
	lastQ   listquery.Query
	deleted []string
}

func newStubVaccineRepo() *stubVaccineRepo {
	return &stubVaccineRepo{byID: map[string]*domain.Vaccine{}}
}

func (r *stubVaccineRepo) List(ctx context.Context, q listquery.Query) ([]*domain.Vaccine, int64, error) {
	r.lastQ = q
	if r.listErr != nil {
		return nil, 0, r.listErr
	}
	return r.items, r.total, nil
}

func (r *stubVaccineRepo) FindByID(ctx context.Context, id string) (*domain.Vaccine, error) {
	v, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrVaccineNotFound
	}
	return v, nil
}

func (r *stubVaccineRepo) Create(ctx context.Context, v *domain.Vaccine) (*domain.Vaccine, error) {
	v.ID = "v-1"
	r.byID[v.ID] = v
	return v, nil
}

func (r *stubVaccineRepo) Update(ctx context.Context, v *domain.Vaccine) error {
	if _, ok := r.byID[v.ID]; !ok {
		return domain.ErrVaccineNotFound
	}
	r.byID[v.ID] = v
	return nil
}

func (r *stubVaccineRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return domain.ErrVaccineNotFound
	}
	delete(r.byID, id)
	r.deleted = append(r.deleted, id)
	return nil
}

func TestVaccineList_ClampsPagination(t *testing.T) {
	repo := newStubVaccineRepo()
	svc := NewVaccineService(repo, zerolog.Nop())

	if _, err := svc.List(context.Background(), listquery.Query{Page: 0, Size: 0}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.lastQ.Page != listquery.DefaultPage || repo.lastQ.Size != listquery.DefaultSize {
		t.Fatalf("expected defaults, got %+v", repo.lastQ)
	}

	if _, err := svc.List(context.Background(), listquery.Query{Page: 3, Size: 9999}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.lastQ.Size != listquery.MaxSize {
		t.Fatalf("expected size capped at %d, got %d", listquery.MaxSize, repo.lastQ.Size)
	}
}

func TestVaccineList_EmptyResultIsNotNil(t *testing.T) {
	svc := NewVaccineService(newStubVaccineRepo(), zerolog.Nop())

	list, err := svc.List(context.Background(), listquery.Query{Page: 1, Size: 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if list.Result == nil {
		t.Fatalf("expected an empty slice, not nil")
	}
	if list.Meta.Page != 1 || list.Meta.PageSize != 10 || list.Meta.Total != 0 {
		t.Fatalf("unexpected meta: %+v", list.Meta)
	}
}

func TestVaccineList_RepoFailure(t *testing.T) {
	repo := newStubVaccineRepo()
	repo.listErr = errors.New("mongo down")
	svc := NewVaccineService(repo, zerolog.Nop())

	if _, err := svc.List(context.Background(), listquery.Query{Page: 1, Size: 10}); err == nil {
		t.Fatalf("expected error to surface")
	}
}

func TestVaccineCreate(t *testing.T) {
	repo := newStubVaccineRepo()
	svc := NewVaccineService(repo, zerolog.Nop())

	created, err := svc.Create(context.Background(), ports.CreateVaccineInput{
		Name:         "Fluarix",
		Manufacturer: "GSK",
		Disease:      "influenza",
		PriceVnd:     350_000,
		Doses:        1,
		CenterName:   "VNVC Ha Noi",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.ID == "" {
		t.Fatalf("expected an id assigned")
	}
	if created.CreatedAt.IsZero() || created.UpdatedAt.IsZero() {
		t.Fatalf("expected timestamps set")
	}
}

func TestVaccineUpdate_PreservesCreatedAt(t *testing.T) {
	repo := newStubVaccineRepo()
	createdAt := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	repo.byID["v-1"] = &domain.Vaccine{ID: "v-1", Name: "Fluarix", CreatedAt: createdAt}
	svc := NewVaccineService(repo, zerolog.Nop())

	updated, err := svc.Update(context.Background(), ports.UpdateVaccineInput{
		ID: "v-1",
		CreateVaccineInput: ports.CreateVaccineInput{
			Name:     "Fluarix Tetra",
			PriceVnd: 380_000,
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !updated.CreatedAt.Equal(createdAt) {
		t.Fatalf("expected CreatedAt preserved, got %v", updated.CreatedAt)
	}
	if updated.Name != "Fluarix Tetra" {
		t.Fatalf("expected fields replaced, got %+v", updated)
	}
	if !updated.UpdatedAt.After(createdAt) {
		t.Fatalf("expected UpdatedAt bumped")
	}
}

func TestVaccineUpdate_Missing(t *testing.T) {
	svc := NewVaccineService(newStubVaccineRepo(), zerolog.Nop())

	_, err := svc.Update(context.Background(), ports.UpdateVaccineInput{ID: "ghost"})
	if !errors.Is(err, domain.ErrVaccineNotFound) {
		t.Fatalf("expected ErrVaccineNotFound, got %v", err)
	}
}

func TestVaccineDelete(t *testing.T) {
	repo := newStubVaccineRepo()
	repo.byID["v-1"] = &domain.Vaccine{ID: "v-1"}
	svc := NewVaccineService(repo, zerolog.Nop())

	if err := svc.Delete(context.Background(), "v-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := svc.Delete(context.Background(), "v-1"); !errors.Is(err, domain.ErrVaccineNotFound) {
		t.Fatalf("expected ErrVaccineNotFound on second delete, got %v", err)
	}
}
