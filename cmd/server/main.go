package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/otocare/booking-portal/internal/api"
	"github.com/otocare/booking-portal/internal/api/metrics"
	"github.com/otocare/booking-portal/internal/core/routing"
	"github.com/otocare/booking-portal/internal/core/service"
	"github.com/otocare/booking-portal/internal/core/session"
	"github.com/otocare/booking-portal/internal/infrastructure/backend"
	"github.com/otocare/booking-portal/internal/infrastructure/config"
	mongodb "github.com/otocare/booking-portal/internal/infrastructure/db/mongo"
	redisdb "github.com/otocare/booking-portal/internal/infrastructure/db/redis"
	"github.com/otocare/booking-portal/pkg/logger"
)

func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer func() { _ = rdb.Close() }()

	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection failed")
	}
	defer func() { _ = mongoClient.Disconnect(context.Background()) }()

	gateway := backend.NewClient(backend.Config{
		BaseURL: cfg.Backend.BaseURL,
		Timeout: cfg.Backend.Timeout,
	}, log)

	store, writer := session.NewStore()
	creds := redisdb.NewCredentialStore(rdb)
	cache := mongodb.NewProfileCache(db)

	auth := service.NewAuthenticator(writer, creds, cache, gateway, log).
		WithLoginTimeout(cfg.Backend.LoginTimeout)
	bootstrapper := service.NewBootstrapper(writer, creds, gateway, log)

	// Bootstrap runs concurrently with the server: navigation during it
	// sees the loading state and a neutral placeholder, never a redirect.
	go func() {
		start := time.Now()
		state := bootstrapper.Run(ctx)
		metrics.BootstrapOutcomes.WithLabelValues(string(state)).Inc()
		metrics.BootstrapDuration.Observe(time.Since(start).Seconds())
	}()

	e := api.NewRouter(api.Deps{
		Log:          log,
		Store:        store,
		Auth:         auth,
		Resolver:     routing.NewResolver(routing.DefaultPolicy()),
		Mongo:        db,
		Redis:        rdb,
		Backend:      gateway,
		Availability: backend.NewAvailabilityChecker(),
	})

	go func() {
		log.Info().Str("port", cfg.Port).Msg("portal listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped unexpectedly")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
