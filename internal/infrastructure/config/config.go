package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string `env:"PORT,      default=8080"`
	Env       string `env:"ENV,       default=development"`
	JWTSecret string `env:"JWT_SECRET"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`

	// TokenTTL bounds both the JWT lifetime and the session record TTL.
	TokenTTL time.Duration `env:"TOKEN_TTL, default=24h"`
	// SessionResolveTimeout is the fail-closed bound on session resolution
	// inside the route guards.
	SessionResolveTimeout time.Duration `env:"SESSION_RESOLVE_TIMEOUT, default=1s"`

	Mongo  MongoConfig
	Redis  RedisConfig
	Rates  RatesConfig
	Google GoogleConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=medchain"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

type RatesConfig struct {
	// URL of the exchange-rate source; empty keeps the numeric fallbacks.
	URL string `env:"RATES_URL"`
}

type GoogleConfig struct {
	// TokeninfoURL overrides the Google tokeninfo endpoint (tests, proxies).
	TokeninfoURL string `env:"GOOGLE_TOKENINFO_URL"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}
