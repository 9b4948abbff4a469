package fetcher

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"package-metadata-fetcher/internal/database"
	"package-metadata-fetcher/internal/model"
	"package-metadata-fetcher/internal/registry"
	"package-metadata-fetcher/internal/request"
)

// FetchLibrariesIONames walks the Libraries.io search pages for npm packages and
// records each package with its repository URL and page number. It stops at the
// first empty page or once count names were retrieved; Unbounded fetches all pages.
func (f *Fetcher) FetchLibrariesIONames(ctx context.Context, count int) {
	pageNo := 0
	retrieved := 0

	for ctx.Err() == nil {
		f.logger.Info("Fetching page of package names", "page", pageNo)

		page := pageNo
		results, ok := request.Do(ctx, f.executor,
			request.Call{Name: "libraries.io search", Args: []any{"platforms", librariesIOPlatform, "page", page}},
			request.Wrap(func(ctx context.Context) ([]model.SearchResult, error) {
				return f.clients.LibrariesIO.Search(ctx, "", librariesIOPlatform, page)
			}),
		)
		if !ok {
			f.logger.Warn("No results for page, stopping", "page", pageNo)
		}

		for _, r := range results {
			_, err := f.store.CreateNPMPackageIfAbsent(ctx, database.CreateNPMPackageIfAbsentParams{
				Name:          r.Name,
				RepositoryUrl: pgNullableText(r.RepositoryURL),
				PageNo:        pgInt4(page),
			})
			if err != nil {
				f.logger.Error("Failed to store package", "package", r.Name, "error", err)
			}
		}

		retrieved += len(results)
		pageNo++
		if len(results) == 0 || (count >= 0 && retrieved >= count) {
			break
		}
	}

	f.logger.Info("Done fetching package names", "retrieved", retrieved, "pages", pageNo)
}

// FetchNPMPackageList records every package listed in the npm registry's bulk index.
func (f *Fetcher) FetchNPMPackageList(ctx context.Context) {
	url := f.endpoints.NPMAllDocs()
	body, ok := request.Do(ctx, f.executor, request.Call{Name: "GET", Args: []any{url}}, f.clients.Web.Get(url))
	if !ok {
		f.logger.Error("Could not fetch npm package list")
		return
	}

	names, err := registry.DecodeAllDocs(body)
	if err != nil {
		f.logger.Error("Failed to parse npm package list", "error", err)
		return
	}

	created := 0
	for _, name := range names {
		isNew, err := f.store.CreateNPMPackageIfAbsent(ctx, database.CreateNPMPackageIfAbsentParams{Name: name})
		if err != nil {
			f.logger.Error("Failed to store package", "package", name, "error", err)
			continue
		}
		if isNew {
			created++
		}
	}

	f.logger.Info("Done fetching npm package list", "listed", len(names), "created", created)
}

// FetchNPMData scrapes the npmjs.com page of each package for its readme,
// description, download counts, dependents and dependencies.
func (f *Fetcher) FetchNPMData(ctx context.Context, packages []database.NpmPackage) {
	f.logger.Info("Fetching npm data", "packages", len(packages))

	for _, p := range packages {
		if ctx.Err() != nil {
			f.logger.Warn("Fetch interrupted", "error", ctx.Err())
			return
		}

		logger := f.logger.With("package", p.Name)
		url := f.endpoints.NPMPackagePage(p.Name)
		body, ok := request.Do(ctx, f.executor, request.Call{Name: "GET", Args: []any{url}}, f.clients.Web.Get(url))
		if !ok {
			continue
		}

		details, err := f.npmPage.Extract(bytes.NewReader(body))
		if err != nil {
			logger.Warn("Failed to parse package page", "error", err)
			continue
		}

		params, err := npmDetailsParams(p.ID, details)
		if err != nil {
			logger.Warn("Failed to serialize package links", "error", err)
			continue
		}
		if err := f.store.UpdateNPMPackageDetails(ctx, params); err != nil {
			logger.Error("Failed to store package details", "error", err)
			continue
		}
		logger.Debug("Stored package details", "monthly_downloads", details.MonthDownloadCount)
	}
}

func npmDetailsParams(id int64, d *model.NPMDetails) (database.UpdateNPMPackageDetailsParams, error) {
	dependents, err := json.Marshal(d.Dependents)
	if err != nil {
		return database.UpdateNPMPackageDetailsParams{}, fmt.Errorf("dependents: %w", err)
	}
	dependencies, err := json.Marshal(d.Dependencies)
	if err != nil {
		return database.UpdateNPMPackageDetailsParams{}, fmt.Errorf("dependencies: %w", err)
	}
	return database.UpdateNPMPackageDetailsParams{
		ID:                 id,
		Readme:             pgText(d.Readme),
		Description:        pgText(d.Description),
		DayDownloadCount:   pgInt8(d.DayDownloadCount),
		WeekDownloadCount:  pgInt8(d.WeekDownloadCount),
		MonthDownloadCount: pgInt8(d.MonthDownloadCount),
		Dependents:         pgText(string(dependents)),
		Dependencies:       pgText(string(dependencies)),
	}, nil
}
