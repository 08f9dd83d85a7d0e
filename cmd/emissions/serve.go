package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"

	httpadapter "github.com/szting/sgtravel-co2-calculator/internal/adapter/http"
	"github.com/szting/sgtravel-co2-calculator/internal/config"
	"github.com/szting/sgtravel-co2-calculator/internal/observability"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the upload/download web service",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		logger := observability.NewLogger(cfg)
		metrics := observability.NewMetrics()

		p := newPipeline(cfg, logger, metrics)
		srv := httpadapter.NewServer(cfg.HTTPAddr, p, cfg.MaxUploadBytes, clockwork.NewRealClock(), logger)

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		errCh := make(chan error, 1)
		go func() {
			if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
		}()

		select {
		case err := <-errCh:
			return fmt.Errorf("http server: %w", err)
		case <-ctx.Done():
		}

		logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http server shutdown: %w", err)
		}

		logger.Info("shutdown complete")
		return nil
	},
}
