package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/UsagiiTsukino/medchain-api/internal/api"
	"github.com/UsagiiTsukino/medchain-api/internal/infrastructure/config"
	mongodb "github.com/UsagiiTsukino/medchain-api/internal/infrastructure/db/mongo"
	redisdb "github.com/UsagiiTsukino/medchain-api/internal/infrastructure/db/redis"
	"github.com/UsagiiTsukino/medchain-api/internal/notify"
	"github.com/UsagiiTsukino/medchain-api/internal/rates"
	"github.com/UsagiiTsukino/medchain-api/pkg/logger"
)

// @title MedChainAI Vaccination Platform API
// @version 1.0
// @description Role-gated API for the MedChainAI vaccination platform.

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the access token.

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		panic(err)
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	// --- Infrastructure ---
	client, db, err := mongodb.Connect(ctx, cfg.Mongo)
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connect failed")
	}
	defer func() {
		_ = client.Disconnect(context.Background())
	}()

	rdb, err := redisdb.Connect(ctx, cfg.Redis)
	if err != nil {
		log.Fatal().Err(err).Msg("redis connect failed")
	}
	defer rdb.Close()

	if err := mongodb.NewUserRepository(db).EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("user indexes failed")
	}
	if err := mongodb.NewVaccineRepository(db).EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("vaccine indexes failed")
	}

	// --- Exchange-rate poller (fallback rates only when no source is set) ---
	ratesSvc := rates.NewService(rates.NewHTTPFetcher(cfg.Rates.URL), log)
	if cfg.Rates.URL != "" {
		if err := ratesSvc.Start(); err != nil {
			log.Fatal().Err(err).Msg("rates poller failed to start")
		}
		defer ratesSvc.Stop()
	}

	// --- Notification channel ---
	hub := notify.NewHub(log)
	notifier := notify.NewService(hub, rdb, log)
	go notifier.Run(ctx)

	// --- HTTP server ---
	e := api.NewRouter(db, rdb, cfg, ratesSvc, hub, notifier, log)

	go func() {
		<-ctx.Done()
		log.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := e.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("shutdown error")
		}
	}()

	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server starting")
	if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("server stopped")
	}
	log.Info().Msg("server stopped gracefully")
}
