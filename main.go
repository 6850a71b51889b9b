package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	_ "time/tzdata"

	"liquidfilters/config"
	"liquidfilters/filters"
	"liquidfilters/i18n"
	"liquidfilters/logger"
	"liquidfilters/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// the logger is not configured yet
		logger.Init("info", false)
		logger.Get().Fatal().Err(err).Msg("Failed to load configuration")
	}

	logger.Init(cfg.LogLevel, cfg.IsProduction())
	logger.Get().Info().
		Str("env", cfg.Env).
		Str("locale", cfg.Locale).
		Str("timezone", cfg.Timezone).
		Bool("integer_division", cfg.IntegerDivision).
		Msg("Starting filter service")

	i18n.Init()
	registry := filters.NewRegistry(logger.Component("filters"))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv, err := server.Setup(ctx, cfg, registry)
	if err != nil {
		logger.Get().Fatal().Err(err).Msg("Failed to initialize server")
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start(srv)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logger.Get().Error().Err(err).Msg("Server stopped")
			os.Exit(1)
		}
	case <-ctx.Done():
		logger.Get().Info().Msg("Shutdown signal received")
		if err := server.Shutdown(context.Background(), srv); err != nil {
			os.Exit(1)
		}
	}
}
