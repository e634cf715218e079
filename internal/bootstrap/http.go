package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	httpx "github.com/clearskies/climatewatch/internal/http"
)

// runHTTPServer serves the API until the context is cancelled, then shuts
// down gracefully within the configured timeout.
func runHTTPServer(ctx context.Context, cfg *ServiceOrchestrationConfig, logger *slog.Logger) error {
	router := httpx.NewRouter(httpx.RouterServices{
		Sessions: cfg.Services.Sessions,
		Jobs:     cfg.Services.Jobs,
		Logger:   logger,
		Network:  cfg.Config.Payment.Network,
		Modes:    GetEnabledServices(cfg.Config),
	})

	httpCfg := cfg.Config.HTTP
	addr := httpCfg.Addr
	if addr == "" {
		addr = ":8080"
	}

	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  httpCfg.ReadTimeout,
		WriteTimeout: httpCfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting HTTP server", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), httpCfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	logger.Info("HTTP server stopped")
	return <-errCh
}
