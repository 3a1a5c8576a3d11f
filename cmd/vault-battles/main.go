package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/ericogr/vault-battles/internal/api"
	"github.com/ericogr/vault-battles/internal/constants"
	"github.com/ericogr/vault-battles/internal/engine"
	"github.com/ericogr/vault-battles/internal/logging"
	"github.com/ericogr/vault-battles/internal/service"
)

func main() {
	env := parseEnvOrExit()
	if env.SessionSecret == "" {
		logging.Warn("SESSION_SECRET not set, using an ephemeral secret", nil)
	}
	cfg := loadConfigOrExit(env.ConfigPath)

	st := openStoresOrExit(env)
	defer st.close()

	src, err := engine.NewSource()
	if err != nil {
		logging.Fatal("Failed to seed random source", err, nil)
	}

	resolver := service.NewResolver(st.sessions, cfg.Catalog,
		service.WithMasteries(st.repo),
		service.WithStatTracker(service.NewProfileTracker(st.repo)),
		service.WithCalculator(engine.NewCalculator(engine.WithSource(src))),
		service.WithStatTimeout(env.StatTimeout),
		service.WithOpponent(engine.FirstUsable(cfg.Catalog.Moves())),
	)

	tokens, err := api.NewTokenIssuer(env.SessionSecret, api.DefaultSessionTTL)
	if err != nil {
		logging.Fatal("Failed to initialize session tokens", err, nil)
	}
	handler := api.NewSessionHandler(resolver, st.repo, cfg.Catalog)
	authHandler := api.NewAuthHandler(st.repo, tokens, api.GoogleConfig{
		ClientID:     env.GoogleClientID,
		ClientSecret: env.GoogleClientSecret,
	}, env.SecureCookie)
	router := api.NewRouter(handler, authHandler, tokens)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Background reaper: close sessions abandoned for longer than the
	// configured idle TTL. Closed sessions count as played.
	startIdleReaper(ctx, resolver, env.ReaperInterval, cfg.SessionIdleTTL)

	srv := &http.Server{Addr: cfg.ServerAddress, Handler: router, ReadHeaderTimeout: 10 * time.Second}
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logging.Error("Failed to shut down server", err, nil)
		}
	}()

	logging.Info("Server started", logging.Fields{constants.LogFieldAddr: cfg.ServerAddress, constants.LogFieldCount: len(cfg.Catalog.Moves())})
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logging.Fatal("Failed to start server", err, nil)
	}
	<-stopped
	logging.Info("Server stopped", nil)
}
