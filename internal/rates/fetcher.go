package rates

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// HTTPFetcher pulls rates from a JSON endpoint shaped like
// {"ethToVnd": ..., "usdToVnd": ...}.
type HTTPFetcher struct {
	url    string
	client *http.Client
}

func NewHTTPFetcher(url string) *HTTPFetcher {
	return &HTTPFetcher{
		url:    url,
		client: &http.Client{Timeout: fetchTimeout},
	}
}

func (f *HTTPFetcher) Fetch(ctx context.Context) (Rates, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return Rates{}, fmt.Errorf("rates fetch: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return Rates{}, fmt.Errorf("rates fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Rates{}, fmt.Errorf("rates fetch: unexpected status %d", resp.StatusCode)
	}

	var body struct {
		EthToVnd float64 `json:"ethToVnd"`
		UsdToVnd float64 `json:"usdToVnd"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Rates{}, fmt.Errorf("rates decode: %w", err)
	}
	if body.EthToVnd <= 0 || body.UsdToVnd <= 0 {
		return Rates{}, fmt.Errorf("rates fetch: non-positive rate in response")
	}

	return Rates{
		EthToVnd:    body.EthToVnd,
		UsdToVnd:    body.UsdToVnd,
		LastUpdated: time.Now().UTC(),
		Source:      f.url,
	}, nil
}
