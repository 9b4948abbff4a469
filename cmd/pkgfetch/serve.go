package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"package-metadata-fetcher/internal/api"
	"package-metadata-fetcher/internal/database"
)

const shutdownTimeout = 10 * time.Second

func newServeCommand(logger *slog.Logger, logLevel *slog.LevelVar) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the stored package metadata over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd.Flags(), logger, logLevel)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			dbpool, err := openDatabase(ctx, cfg.DBURL, logger)
			if err != nil {
				return err
			}
			defer dbpool.Close()

			srv := &http.Server{
				Addr:              cfg.HTTPAddr,
				Handler:           api.NewRouter(database.New(dbpool), logger),
				ReadHeaderTimeout: 10 * time.Second,
			}
			return serveHTTP(ctx, srv, logger)
		},
	}
	cmd.Flags().String("addr", ":8080", "listen address (overrides HTTP_ADDR)")
	return cmd
}

// serveHTTP runs srv until ctx is cancelled, then shuts it down gracefully.
func serveHTTP(ctx context.Context, srv *http.Server, logger *slog.Logger) error {
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("API server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		logger.Info("Shutdown signal received, stopping API server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
