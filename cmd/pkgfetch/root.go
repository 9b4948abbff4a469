package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"package-metadata-fetcher/internal/config"
	"package-metadata-fetcher/internal/database"
)

func newRootCommand(logger *slog.Logger, logLevel *slog.LevelVar) *cobra.Command {
	root := &cobra.Command{
		Use:           "pkgfetch",
		Short:         "Download package metadata for npm or PyPI into PostgreSQL",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String("log-level", "info", "log level: debug, info, warn or error")
	root.PersistentFlags().String("db-url", "", "PostgreSQL connection string (overrides DB_URL)")
	root.PersistentFlags().Uint("max-attempts", 5, "attempts per network request")
	root.PersistentFlags().Duration("retry-delay", 30*time.Second, "pause between attempts")

	root.AddCommand(
		newFetchCommand(logger, logLevel),
		newServeCommand(logger, logLevel),
	)
	return root
}

// loadConfig reads the configuration with the command's flags bound and applies the log level.
func loadConfig(flags *pflag.FlagSet, logger *slog.Logger, logLevel *slog.LevelVar) (*config.Config, error) {
	cfg, err := config.LoadConfig(flags)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	setLogLevel(cfg.LogLevel, logLevel)
	logger.Info("Configuration loaded successfully")
	return cfg, nil
}

// openDatabase connects to PostgreSQL and applies pending migrations.
func openDatabase(ctx context.Context, dbURL string, logger *slog.Logger) (*pgxpool.Pool, error) {
	dbpool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	logger.Info("Database connection established")

	if err := database.Migrate(dbURL); err != nil {
		dbpool.Close()
		return nil, fmt.Errorf("failed to run database migrations: %w", err)
	}
	logger.Info("Database migrations applied successfully")
	return dbpool, nil
}
