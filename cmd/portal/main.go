// @title        Monochrome Portal
// @version      1.0
// @description  Session-aware front end of the services marketplace.
// @BasePath     /
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/monochrome/portal/internal/api"
	"github.com/monochrome/portal/internal/api/handler"
	"github.com/monochrome/portal/internal/api/middleware"
	"github.com/monochrome/portal/internal/core/ports"
	"github.com/monochrome/portal/internal/core/service"
	"github.com/monochrome/portal/internal/infrastructure/backend"
	redisdb "github.com/monochrome/portal/internal/infrastructure/db/redis"
	"github.com/monochrome/portal/internal/infrastructure/memory"
	"github.com/monochrome/portal/internal/pkg/config"
	"github.com/monochrome/portal/pkg/logger"
)

func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "portal",
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client := backend.NewClient(cfg.APIBaseURL, nil, logger.Component("backend"))
	identity := backend.NewIdentityClient(client)
	bookings := backend.NewBookingClient(client)
	catalog := backend.NewCatalogClient(client)
	users := backend.NewUserClient(client)

	readiness := map[string]handler.PingFunc{
		"marketplace_api": client.Ping,
	}

	var stores ports.CredentialStoreFactory
	switch cfg.Session.Store {
	case "memory":
		log.Warn().Msg("using in-memory credential store; sessions will not survive a restart")
		stores = memory.New()
	default:
		rdb, err := redisdb.Connect(ctx, redisdb.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect redis")
		}
		defer rdb.Close()

		stores = redisdb.NewCredentialStoreFactory(rdb, cfg.Session.StoreTTL, logger.Component("credential_store"))
		readiness["redis"] = redisdb.Ping(rdb)
	}

	verifier := service.NewVerifier(identity, cfg.Session.TrustCacheOnNetworkError, logger.Component("verifier"))
	sessions, err := service.NewSessionRegistry(cfg.Session.RegistrySize, stores, identity, verifier, logger.Component("sessions"))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build session registry")
	}

	e := api.NewRouter(api.RouterConfig{
		Sessions:  sessions,
		Dashboard: service.NewDashboardService(bookings, catalog, users, logger.Component("dashboard")),
		Bookings:  service.NewBookingService(bookings, catalog, logger.Component("bookings")),
		Catalog:   service.NewCatalogService(catalog),
		Readiness: readiness,
		Cookies: middleware.CookieOptions{
			MaxAge: cfg.Session.CookieMaxAge,
			Secure: cfg.Session.CookieSecure,
		},
		Logger: logger.Component("http"),
	})

	go func() {
		log.Info().Str("port", cfg.Port).Str("api", cfg.APIBaseURL).Msg("portal listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server stopped")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
		os.Exit(1)
	}
}
