package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/creatorhub/marketplace/internal/api"
	"github.com/creatorhub/marketplace/internal/core/service"
	"github.com/creatorhub/marketplace/internal/infrastructure/config"
	"github.com/creatorhub/marketplace/internal/infrastructure/queue"
	"github.com/creatorhub/marketplace/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

// NewServeCmd creates the serve command.
func NewServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Long: `Start the account API. The store is selected with STORE_DRIVER;
Redis and Kafka are optional and enabled by REDIS_ADDR and KAFKA_BROKERS.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(cmd.Context())
			if err != nil {
				return err
			}

			log := logger.Init(logger.Options{
				Level:   cfg.LogLevel,
				Pretty:  cfg.IsDevelopment(),
				Service: "marketplace",
				Version: version,
			})

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return runServer(ctx, cfg, log)
		},
	}
}

func runServer(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	deps, err := buildDependencies(ctx, cfg, log)
	if err != nil {
		log.Error().Err(err).Msg("failed to initialise dependencies")
		return err
	}
	defer deps.close()

	// The dispatcher outlives request contexts and drains on shutdown.
	workerCtx, cancelWorkers := context.WithCancel(context.Background())
	dispatcher := queue.NewDispatcher(cfg.Kafka.Workers, deps.publisher, logger.Component("dispatcher"))
	dispatcher.Start(workerCtx)
	defer func() {
		cancelWorkers()
		dispatcher.Wait()
	}()

	opts := []service.AuthOption{service.WithEventSink(dispatcher)}
	if deps.idempotency != nil {
		opts = append(opts, service.WithIdempotencyStore(deps.idempotency))
	}

	tokens, err := service.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		return err
	}
	authService := service.NewAuthService(
		deps.accounts,
		service.NewBcryptHasher(cfg.BcryptCost),
		tokens,
		logger.Component("auth"),
		opts...,
	)

	e := api.NewRouter(api.Dependencies{
		AuthService:     authService,
		Tokens:          tokens,
		Logger:          log,
		ReadinessChecks: deps.checks,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("store", cfg.StoreDriver).Msg("server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			log.Error().Err(err).Msg("server stopped unexpectedly")
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
		return err
	}
	return nil
}
