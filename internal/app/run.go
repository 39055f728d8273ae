package app

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
)

type Runner func(ctx context.Context) error

// Run wires SIGINT/SIGTERM into the runner's context and turns the
// outcome into an exit code. Both binaries go through here.
func Run(serviceName string, logger zerolog.Logger, run Runner) int {
	logger = logger.With().Str("service", serviceName).Logger()
	logger.Info().Msg("starting")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() { errCh <- run(ctx) }()

	select {
	case <-ctx.Done():
		logger.Info().Msg("shutting down")
		// Небольшой grace period, чтобы runner успел закрыть коннекты.
		select {
		case err := <-errCh:
			if err != nil && !errors.Is(err, context.Canceled) {
				logger.Error().Err(err).Msg("shutdown failed")
				return 1
			}
		case <-time.After(10 * time.Second):
			logger.Warn().Msg("shutdown grace period expired")
		}
		return 0
	case err := <-errCh:
		if err != nil {
			logger.Error().Err(err).Msg("failed")
			return 1
		}
		logger.Info().Msg("stopped")
		return 0
	}
}
