package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/yanqian/greenguardian/internal/domain/plant"
	"github.com/yanqian/greenguardian/internal/infra/config"
)

const seedTimeout = 30 * time.Second

// App encapsulates the HTTP server lifecycle.
type App struct {
	cfg     *config.Config
	logger  *slog.Logger
	server  *http.Server
	catalog plant.Service
}

// NewApp is used by Wire to build the runnable app.
func NewApp(cfg *config.Config, logger *slog.Logger, server *http.Server, catalog plant.Service) *App {
	return &App{cfg: cfg, logger: logger.With("component", "bootstrap"), server: server, catalog: catalog}
}

// Run seeds an empty catalog, then starts the HTTP server and blocks until shutdown.
func (a *App) Run(ctx context.Context) error {
	if err := a.seed(ctx); err != nil {
		return err
	}

	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("http server starting", "address", a.cfg.HTTP.Address, "allowed_origins", a.cfg.HTTP.AllowedOrigins)
		if err := a.server.ListenAndServe(); err != nil {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		a.logger.Info("shutdown signal received")
		if err := a.server.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (a *App) seed(ctx context.Context) error {
	if !a.cfg.Catalog.Seed.Enabled {
		a.logger.Info("catalog seeding disabled")
		return nil
	}
	seedCtx, cancel := context.WithTimeout(ctx, seedTimeout)
	defer cancel()
	if _, err := a.catalog.SeedIfEmpty(seedCtx); err != nil {
		return fmt.Errorf("seed plant catalog: %w", err)
	}
	return nil
}
