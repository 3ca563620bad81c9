package service

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

	"blogapi/app/config"
	"blogapi/app/routes"

	"github.com/spf13/cobra"
)

func newServeCmd(s *settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the blog API server",
		Long: `Run the blog API server until SIGINT or SIGTERM, then drain in-flight
requests for up to BLOG_SHUTDOWN_TIMEOUT.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runAppServer(ctx, s)
		},
	}
	cmd.Flags().String("addr", "", "Listen address (BLOG_ADDR)")
	return cmd
}

// runAppServer opens the store and serves the API until ctx is done.
func runAppServer(ctx context.Context, s *settings) error {
	if s.cfg.Storage == config.StorageMemory && s.cfg.AdminUser == "" {
		return errors.New("the memory storage starts without users; set BLOG_ADMIN_USER and BLOG_ADMIN_PASSWORD")
	}

	store, err := s.openStore()
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			s.logger.Error("close store", "error", err)
		}
	}()

	if err := seedAdmin(ctx, s, store); err != nil {
		return err
	}

	router := routes.SetupRoutes(routes.Dependencies{
		Store:      store,
		Logger:     s.logger,
		BcryptCost: s.cfg.BcryptCost,
	})
	srv := routes.NewServer(s.cfg.Addr, router)

	s.logger.Info("starting blog API", "addr", s.cfg.Addr, "storage", s.cfg.Storage)
	return serveUntilDone(ctx, srv, s.cfg.ShutdownTimeout, s.logger)
}

// serveUntilDone runs srv until it fails or ctx is cancelled, then shuts it
// down gracefully within timeout.
func serveUntilDone(ctx context.Context, srv *http.Server, timeout time.Duration, logger *slog.Logger) error {
	errc := make(chan error, 1)
	go func() {
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down", "timeout", timeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server: %w", err)
	}
	logger.Info("server stopped")
	return nil
}
