package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"package-metadata-fetcher/internal/config"
	"package-metadata-fetcher/internal/database"
	"package-metadata-fetcher/internal/fetcher"
	"package-metadata-fetcher/internal/github"
	"package-metadata-fetcher/internal/librariesio"
	"package-metadata-fetcher/internal/model"
	"package-metadata-fetcher/internal/registry"
	"package-metadata-fetcher/internal/request"
	"package-metadata-fetcher/internal/web"
)

// fetchOptions mirrors the fetch command's flags.
type fetchOptions struct {
	db              string
	packageList     bool
	data            bool
	update          bool
	libPackages     bool
	libPackageCount int
	githubReadmes   bool
	githubStats     bool
}

func (o fetchOptions) npmOnly() bool {
	return o.libPackages || o.githubReadmes || o.githubStats
}

// packageFetcher is the set of fetch operations the command drives.
type packageFetcher interface {
	FetchNPMPackageList(ctx context.Context)
	FetchNPMData(ctx context.Context, packages []database.NpmPackage)
	FetchLibrariesIONames(ctx context.Context, count int)
	FetchGitHubReadmes(ctx context.Context, packages []database.NpmPackage)
	FetchGitHubStats(ctx context.Context, packages []database.NpmPackage)
	FetchPyPIPackageList(ctx context.Context)
	FetchPyPIData(ctx context.Context, packages []database.PypiPackage)
}

var errMissingAPIKey = errors.New("LIBRARIES_IO_API_KEY is required for --lib-packages and --github-stats")

func newFetchCommand(logger *slog.Logger, logLevel *slog.LevelVar) *cobra.Command {
	var opts fetchOptions

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Fetch package lists and metadata for one package database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			eco, err := model.ParseEcosystem(opts.db)
			if err != nil {
				return err
			}

			cfg, err := loadConfig(cmd.Flags(), logger, logLevel)
			if err != nil {
				return err
			}
			if eco == model.NPM && (opts.libPackages || opts.githubStats) && cfg.LibrariesIOAPIKey == "" {
				return errMissingAPIKey
			}

			ctx := cmd.Context()
			dbpool, err := openDatabase(ctx, cfg.DBURL, logger)
			if err != nil {
				return err
			}
			defer dbpool.Close()

			store := database.New(dbpool)
			f, err := newFetcher(store, cfg, logger)
			if err != nil {
				return err
			}

			return runFetch(ctx, eco, opts, f, store, logger)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.db, "db", "", "which package database to fetch: 'npm' or 'pypi'")
	flags.BoolVar(&opts.packageList, "package-list", false, "fetch the package list")
	flags.BoolVar(&opts.data, "data", false, "fetch package data (readmes and downloads)")
	flags.BoolVar(&opts.update, "update", false, "only update existing data")
	flags.BoolVar(&opts.libPackages, "lib-packages", false, "fetch package names from Libraries.io (npm only)")
	flags.IntVar(&opts.libPackageCount, "lib-package-count", fetcher.Unbounded, "how many package names to fetch, -1 for all (npm only)")
	flags.BoolVar(&opts.githubReadmes, "github-readmes", false, "fetch GitHub readmes (npm only)")
	flags.BoolVar(&opts.githubStats, "github-stats", false, "fetch GitHub stats (npm only)")

	return cmd
}

// newFetcher builds the network clients once and hands them to a Fetcher.
func newFetcher(store database.Querier, cfg *config.Config, logger *slog.Logger) (*fetcher.Fetcher, error) {
	ghClient, err := github.NewClient(cfg.GithubToken, cfg.HTTPTimeout, logger).WithBaseURL(cfg.GithubAPIURL)
	if err != nil {
		return nil, fmt.Errorf("invalid GITHUB_API_URL: %w", err)
	}

	clients := fetcher.Clients{
		Web:         web.NewClient(cfg.HTTPTimeout, cfg.UserAgent),
		LibrariesIO: librariesio.NewClient(cfg.LibrariesIOURL, cfg.LibrariesIOAPIKey, cfg.HTTPTimeout, logger),
		GitHub:      ghClient,
	}
	endpoints := registry.Endpoints{
		NPMRegistryURL: cfg.NPMRegistryURL,
		NPMWebURL:      cfg.NPMWebURL,
		PyPIURL:        cfg.PyPIURL,
	}
	executor := request.NewExecutor(request.Options{
		MaxAttempts: cfg.MaxAttempts,
		RetryDelay:  cfg.RetryDelay,
	}, logger)

	return fetcher.NewFetcher(store, executor, clients, endpoints, logger), nil
}

// runFetch runs the requested operations in their fixed order. Only failures to
// select rows abort the run; per-package failures are logged by the fetcher.
func runFetch(ctx context.Context, eco model.Ecosystem, opts fetchOptions, f packageFetcher, store database.Querier, logger *slog.Logger) error {
	switch eco {
	case model.NPM:
		return runNPM(ctx, opts, f, store)
	case model.PyPI:
		if opts.npmOnly() {
			logger.Warn("Ignoring npm-only options for pypi", "lib_packages", opts.libPackages,
				"github_readmes", opts.githubReadmes, "github_stats", opts.githubStats)
		}
		return runPyPI(ctx, opts, f, store)
	}
	return nil
}

func runNPM(ctx context.Context, opts fetchOptions, f packageFetcher, store database.Querier) error {
	if opts.packageList {
		f.FetchNPMPackageList(ctx)
	}
	if opts.data {
		var (
			packages []database.NpmPackage
			err      error
		)
		if opts.update {
			packages, err = store.ListNPMPackagesWithDescription(ctx)
		} else {
			packages, err = store.ListNPMPackagesMissingReadme(ctx)
		}
		if err != nil {
			return fmt.Errorf("failed to select npm packages: %w", err)
		}
		f.FetchNPMData(ctx, packages)
	}
	if opts.libPackages {
		f.FetchLibrariesIONames(ctx, opts.libPackageCount)
	}
	if opts.githubReadmes {
		packages, err := store.ListNPMPackages(ctx)
		if err != nil {
			return fmt.Errorf("failed to select npm packages: %w", err)
		}
		f.FetchGitHubReadmes(ctx, packages)
	}
	if opts.githubStats {
		packages, err := store.ListNPMPackages(ctx)
		if err != nil {
			return fmt.Errorf("failed to select npm packages: %w", err)
		}
		f.FetchGitHubStats(ctx, packages)
	}
	return nil
}

func runPyPI(ctx context.Context, opts fetchOptions, f packageFetcher, store database.Querier) error {
	if opts.packageList {
		f.FetchPyPIPackageList(ctx)
	}
	if opts.data {
		var (
			packages []database.PypiPackage
			err      error
		)
		if opts.update {
			packages, err = store.ListPyPIPackagesWithDescription(ctx)
		} else {
			packages, err = store.ListPyPIPackagesMissingReadme(ctx)
		}
		if err != nil {
			return fmt.Errorf("failed to select pypi packages: %w", err)
		}
		f.FetchPyPIData(ctx, packages)
	}
	return nil
}
