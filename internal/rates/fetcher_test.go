package rates

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHTTPFetcher_OK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ethToVnd": 91000000, "usdToVnd": 25100}`))
	}))
	defer srv.Close()

	got, err := NewHTTPFetcher(srv.URL).Fetch(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.EthToVnd != 91_000_000 || got.UsdToVnd != 25_100 {
		t.Fatalf("unexpected rates: %+v", got)
	}
	if got.LastUpdated.IsZero() {
		t.Fatalf("expected LastUpdated stamped")
	}
}

func TestHTTPFetcher_NonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	if _, err := NewHTTPFetcher(srv.URL).Fetch(context.Background()); err == nil {
		t.Fatalf("expected error on non-200 status")
	}
}

func TestHTTPFetcher_NonPositiveRates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"ethToVnd": 0, "usdToVnd": 25100}`))
	}))
	defer srv.Close()

	if _, err := NewHTTPFetcher(srv.URL).Fetch(context.Background()); err == nil {
		t.Fatalf("expected error on non-positive rate")
	}
}
