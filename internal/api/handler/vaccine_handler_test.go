package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/UsagiiTsukino/medchain-api/internal/core/domain"
	"github.com/UsagiiTsukino/medchain-api/internal/core/ports"
	"github.com/UsagiiTsukino/medchain-api/internal/pkg/listquery"
)

type stubVaccineService struct {
	listFn   func(ctx context.Context, q listquery.Query) (*ports.VaccineList, error)
	getFn    func(ctx context.Context, id string) (*domain.Vaccine, error)
	createFn func(ctx context.Context, in ports.CreateVaccineInput) (*domain.Vaccine, error)
	updateFn func(ctx context.Context, in ports.UpdateVaccineInput) (*domain.Vaccine, error)
	deleteFn func(ctx context.Context, id string) error
}

func (s *stubVaccineService) List(ctx context.Context, q listquery.Query) (*ports.VaccineList, error) {
	return s.listFn(ctx, q)
}

func (s *stubVaccineService) Get(ctx context.Context, id string) (*domain.Vaccine, error) {
	return s.getFn(ctx, id)
}

func (s *stubVaccineService) Create(ctx context.Context, in ports.CreateVaccineInput) (*domain.Vaccine, error) {
	return s.createFn(ctx, in)
}

func (s *stubVaccineService) Update(ctx context.Context, in ports.UpdateVaccineInput) (*domain.Vaccine, error) {
	return s.updateFn(ctx, in)
}

func (s *stubVaccineService) Delete(ctx context.Context, id string) error {
	return s.deleteFn(ctx, id)
}

func TestVaccineHandler_List_ParsesGrammar(t *testing.T) {
	var gotQ listquery.Query
	stub := &stubVaccineService{
		listFn: func(ctx context.Context, q listquery.Query) (*ports.VaccineList, error) {
			gotQ = q
			return &ports.VaccineList{
				Result: []*domain.Vaccine{{ID: "v-1", Name: "Fluarix"}},
				Meta:   ports.ListMeta{Page: q.Page, PageSize: q.Size, Total: 1},
			}, nil
		},
	}
	handler := NewVaccineHandler(stub, zerolog.Nop())

	c, rec := newTestContext(t, http.MethodGet,
		"/v1/vaccines?page=2&size=10&filter=name~~'flu'%20and%20manufacturer~~'gsk'&sort=price,asc", "")
	if err := handler.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if gotQ.Page != 2 || gotQ.Size != 10 {
		t.Fatalf("unexpected pagination: %+v", gotQ)
	}
	if len(gotQ.Filters) != 2 || gotQ.Filters[0].Field != "name" || gotQ.Filters[0].Text != "flu" {
		t.Fatalf("unexpected filters: %+v", gotQ.Filters)
	}
	if gotQ.SortField != "price" || !gotQ.SortAsc {
		t.Fatalf("unexpected sort: %+v", gotQ)
	}
}

func TestVaccineHandler_List_BadGrammar(t *testing.T) {
	stub := &stubVaccineService{
		listFn: func(ctx context.Context, q listquery.Query) (*ports.VaccineList, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	handler := NewVaccineHandler(stub, zerolog.Nop())

	c, _ := newTestContext(t, http.MethodGet, "/v1/vaccines?filter=name=flu", "")
	err := handler.List(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestVaccineHandler_List_DegradesToEmptyPage(t *testing.T) {
	stub := &stubVaccineService{
		listFn: func(ctx context.Context, q listquery.Query) (*ports.VaccineList, error) {
			return nil, errors.New("mongo down")
		},
	}
	handler := NewVaccineHandler(stub, zerolog.Nop())

	c, rec := newTestContext(t, http.MethodGet, "/v1/vaccines?page=3&size=20", "")
	if err := handler.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	// a backing-store failure renders an empty page, not an error
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp vaccineListResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(resp.Result) != 0 || resp.Meta.Page != 3 || resp.Meta.PageSize != 20 {
		t.Fatalf("unexpected degraded page: %+v", resp)
	}
}

func TestVaccineHandler_Get_NotFound(t *testing.T) {
	stub := &stubVaccineService{
		getFn: func(ctx context.Context, id string) (*domain.Vaccine, error) {
			return nil, domain.ErrVaccineNotFound
		},
	}
	handler := NewVaccineHandler(stub, zerolog.Nop())

	c, _ := newTestContext(t, http.MethodGet, "/v1/vaccines/ghost", "")
	c.SetParamNames("id")
	c.SetParamValues("ghost")
	if err := handler.Get(c); !errors.Is(err, domain.ErrVaccineNotFound) {
		t.Fatalf("expected ErrVaccineNotFound to propagate, got %v", err)
	}
}

func TestVaccineHandler_Create_Success(t *testing.T) {
	stub := &stubVaccineService{
		createFn: func(ctx context.Context, in ports.CreateVaccineInput) (*domain.Vaccine, error) {
			if in.Name != "Fluarix" || in.PriceVnd != 350000 {
				t.Fatalf("unexpected input: %+v", in)
			}
			return &domain.Vaccine{ID: "v-1", Name: in.Name, PriceVnd: in.PriceVnd}, nil
		},
	}
	handler := NewVaccineHandler(stub, zerolog.Nop())

	c, rec := newTestContext(t, http.MethodPost, "/admin/vaccines",
		`{"name":"Fluarix","manufacturer":"GSK","disease":"influenza","priceVnd":350000,"doses":1}`)
	if err := handler.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
}

func TestVaccineHandler_Create_ValidationFailure(t *testing.T) {
	stub := &stubVaccineService{
		createFn: func(ctx context.Context, in ports.CreateVaccineInput) (*domain.Vaccine, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	handler := NewVaccineHandler(stub, zerolog.Nop())

	c, _ := newTestContext(t, http.MethodPost, "/admin/vaccines",
		`{"name":"Fluarix","priceVnd":-5}`)
	err := handler.Create(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %v", err)
	}
}

func TestVaccineHandler_Update_PassesID(t *testing.T) {
	stub := &stubVaccineService{
		updateFn: func(ctx context.Context, in ports.UpdateVaccineInput) (*domain.Vaccine, error) {
			if in.ID != "v-1" {
				t.Fatalf("unexpected id %q", in.ID)
			}
			return &domain.Vaccine{ID: in.ID, Name: in.Name}, nil
		},
	}
	handler := NewVaccineHandler(stub, zerolog.Nop())

	c, rec := newTestContext(t, http.MethodPut, "/admin/vaccines/v-1",
		`{"name":"Fluarix Tetra","manufacturer":"GSK","disease":"influenza","priceVnd":380000,"doses":1}`)
	c.SetParamNames("id")
	c.SetParamValues("v-1")
	if err := handler.Update(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestVaccineHandler_Delete(t *testing.T) {
	var deleted string
	stub := &stubVaccineService{
		deleteFn: func(ctx context.Context, id string) error {
			deleted = id
			return nil
		},
	}
	handler := NewVaccineHandler(stub, zerolog.Nop())

	c, rec := newTestContext(t, http.MethodDelete, "/admin/vaccines/v-1", "")
	c.SetParamNames("id")
	c.SetParamValues("v-1")
	if err := handler.Delete(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if deleted != "v-1" {
		t.Fatalf("unexpected id %q", deleted)
	}
}
