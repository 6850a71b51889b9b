// Package server provides HTTP server configuration and setup for the filter service
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"liquidfilters/config"
	"liquidfilters/constants"
	"liquidfilters/filters"
	"liquidfilters/logger"
)

// Setup configures and returns a new HTTP server with all routes. The rate
// limiter's background cleanup stops when ctx is done.
func Setup(ctx context.Context, cfg *config.Config, registry *filters.Registry) (*http.Server, error) {
	base, err := cfg.FilterContext()
	if err != nil {
		return nil, fmt.Errorf("failed to build filter context: %w", err)
	}
	proxies, err := cfg.ProxyPrefixes()
	if err != nil {
		return nil, err
	}
	limits := Limits{RateLimit: cfg.RateLimit, TrustedProxies: proxies}

	return &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           NewRouter(ctx, registry, base, limits),
		ReadTimeout:       constants.ServerReadTimeout,
		ReadHeaderTimeout: constants.ServerReadHeaderTimeout,
		WriteTimeout:      constants.ServerWriteTimeout,
		IdleTimeout:       constants.ServerIdleTimeout,
		MaxHeaderBytes:    constants.MaxHeaderBytes,
	}, nil
}

// Start starts the HTTP server and blocks until it stops. A graceful
// shutdown is not reported as an error.
func Start(srv *http.Server) error {
	logger.Get().Info().Str("addr", srv.Addr).Msg("Starting server...")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server
func Shutdown(ctx context.Context, srv *http.Server) error {
	logger.Get().Info().Msg("Graceful shutdown initiated")

	shutdownCtx, cancel := context.WithTimeout(ctx, constants.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Get().Error().Err(err).Msg("Server forced to shutdown")
		return err
	}

	logger.Get().Info().Msg("Server shutdown complete")
	return nil
}
