package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/boetepot/platform/internal/app"
	"github.com/boetepot/platform/internal/guard"
	"github.com/boetepot/platform/internal/infra"
	"github.com/boetepot/platform/internal/repository"
	"github.com/boetepot/platform/internal/service"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load config
	cfg, err := infra.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)
	if cfg.AllowInsecureDefaults {
		logger.Warn("running with insecure defaults; do not use in production")
	}

	reasonDefault, err := cfg.ReasonDefault()
	if err != nil {
		return err
	}
	trustedProxies, err := cfg.TrustedProxyPrefixes()
	if err != nil {
		return err
	}

	// Store
	store := repository.NewMemoryStore()
	if err := seedStore(ctx, cfg, store, logger); err != nil {
		return err
	}

	// Admin login
	hash := []byte(cfg.AdminPasswordHash)
	if len(hash) == 0 {
		if hash, err = service.HashPassword(cfg.AdminPassword); err != nil {
			return err
		}
	}
	authSvc, err := service.NewAuthService(hash,
		guard.NewRateLimiter(cfg.LoginRatePerMinute, cfg.LoginBurst),
		logger,
		service.WithLockout(guard.NewLockout(cfg.LoginMaxFailures, cfg.LoginLockoutWindow)),
	)
	if err != nil {
		return fmt.Errorf("init auth: %w", err)
	}

	var metrics *infra.Metrics
	if cfg.MetricsEnabled {
		metrics = infra.NewMetrics(store, logger)
	}

	r := app.NewRouter(app.RouterDeps{
		Store:               store,
		Auth:                authSvc,
		Logger:              logger,
		Metrics:             metrics,
		Prefix:              cfg.APIPrefix,
		RecentLimit:         cfg.RecentLimit,
		DefaultReasonAmount: reasonDefault,
		CORSOrigins:         cfg.CORSAllowedOrigins,
		TrustedProxies:      trustedProxies,
	})

	// Start server
	addr := fmt.Sprintf(":%d", cfg.APIPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	errCh := make(chan error, 1)
	go func() {
		logger.Info("api server starting", "addr", addr, "prefix", cfg.APIPrefix)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	}

	// Shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	logger.Info("server stopped gracefully")
	return nil
}

// seedStore loads SEED_FILE when set, else the embedded demo data when SEED_DEMO is on.
func seedStore(ctx context.Context, cfg *infra.Config, store repository.Store, logger *slog.Logger) error {
	var (
		seed *infra.Seed
		err  error
	)
	switch {
	case cfg.SeedFile != "":
		seed, err = infra.LoadSeedFile(cfg.SeedFile)
	case cfg.SeedDemo:
		seed, err = infra.DemoSeed()
	default:
		return nil
	}
	if err != nil {
		return fmt.Errorf("load seed: %w", err)
	}
	if err := seed.Apply(ctx, store, logger); err != nil {
		return fmt.Errorf("apply seed: %w", err)
	}
	return nil
}
