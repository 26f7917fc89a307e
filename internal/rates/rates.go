// Package rates tracks the ETH/VND and USD/VND exchange rates used for
// price display, refreshing them from an external source on a fixed
// schedule with numeric fallbacks when the source is unreachable.
package rates

import (
	"context"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/UsagiiTsukino/medchain-api/internal/api/metrics"
)

// Fallbacks applied until the first successful fetch.
const (
	FallbackEthToVnd = 85_000_000
	FallbackUsdToVnd = 24_500

	refreshSchedule = "@every 5m"
	fetchTimeout    = 10 * time.Second
)

// Rates is a snapshot of the current conversion rates.
type Rates struct {
	EthToVnd    float64   `json:"ethToVnd"`
	UsdToVnd    float64   `json:"usdToVnd"`
	LastUpdated time.Time `json:"lastUpdated"`
	Source      string    `json:"source"`
}

// Fetcher retrieves fresh rates from the external source.
type Fetcher interface {
	Fetch(ctx context.Context) (Rates, error)
}

// Service holds the latest known rates. Reads never block on a refresh; a
// failed refresh keeps the previous snapshot.
type Service struct {
	mu      sync.RWMutex
	current Rates

	fetcher Fetcher
	cron    *cron.Cron
	log     zerolog.Logger
}

func NewService(fetcher Fetcher, log zerolog.Logger) *Service {
	return &Service{
		current: Rates{
			EthToVnd:    FallbackEthToVnd,
			UsdToVnd:    FallbackUsdToVnd,
			LastUpdated: time.Now().UTC(),
			Source:      "fallback",
		},
		fetcher: fetcher,
		cron:    cron.New(),
		log:     log,
	}
}

// Start refreshes once immediately and then every five minutes.
func (s *Service) Start() error {
	if _, err := s.cron.AddFunc(refreshSchedule, func() {
		s.Refresh(context.Background())
	}); err != nil {
		return err
	}
	go s.Refresh(context.Background())
	s.cron.Start()
	return nil
}

// Stop halts the refresh schedule.
func (s *Service) Stop() {
	s.cron.Stop()
}

// Refresh fetches fresh rates. On failure the previous snapshot is kept and
// the failure is logged; callers keep reading the last good value.
func (s *Service) Refresh(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	fresh, err := s.fetcher.Fetch(ctx)
	if err != nil {
		metrics.RatePollFailuresTotal.Inc()
		s.log.Warn().Err(err).Msg("rate refresh failed, keeping previous rates")
		return
	}
	if fresh.LastUpdated.IsZero() {
		fresh.LastUpdated = time.Now().UTC()
	}

	s.mu.Lock()
	s.current = fresh
	s.mu.Unlock()

	s.log.Info().
		Float64("eth_to_vnd", fresh.EthToVnd).
		Float64("usd_to_vnd", fresh.UsdToVnd).
		Str("source", fresh.Source).
		Msg("exchange rates refreshed")
}

// Current returns the latest snapshot.
func (s *Service) Current() Rates {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// ConvertVndToEth converts a VND amount at the current ETH rate.
func (s *Service) ConvertVndToEth(amountVnd float64) float64 {
	r := s.Current()
	if r.EthToVnd <= 0 {
		return 0
	}
	return amountVnd / r.EthToVnd
}
