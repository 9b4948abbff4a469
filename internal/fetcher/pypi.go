package fetcher

import (
	"bytes"
	"context"

	"package-metadata-fetcher/internal/database"
	"package-metadata-fetcher/internal/registry"
	"package-metadata-fetcher/internal/request"
)

// FetchPyPIPackageList records every package linked from the PyPI index page.
func (f *Fetcher) FetchPyPIPackageList(ctx context.Context) {
	url := f.endpoints.PyPIIndex()
	body, ok := request.Do(ctx, f.executor, request.Call{Name: "GET", Args: []any{url}}, f.clients.Web.Get(url))
	if !ok {
		f.logger.Error("Could not fetch PyPI package index")
		return
	}

	names, rows, err := f.catalog.Names(bytes.NewReader(body))
	if err != nil {
		f.logger.Error("Failed to parse PyPI package index", "error", err)
		return
	}
	// The first row is the table header.
	f.logger.Info("Packages currently listed on PyPI", "count", max(rows-1, 0))

	numFetched := 0
	for _, name := range names {
		if _, err := f.store.CreatePyPIPackageIfAbsent(ctx, name); err != nil {
			f.logger.Error("Failed to store package", "package", name, "error", err)
			continue
		}
		numFetched++
		if numFetched%progressEvery == 0 {
			f.logger.Info("Packages fetched", "count", numFetched)
		}
	}

	f.logger.Info("Done fetching package list", "count", numFetched)
}

// FetchPyPIData reads each package's summary, description and download counts
// from the PyPI JSON API.
func (f *Fetcher) FetchPyPIData(ctx context.Context, packages []database.PypiPackage) {
	f.logger.Info("Fetching PyPI data", "packages", len(packages))

	numFetched := 0
	for _, p := range packages {
		if ctx.Err() != nil {
			f.logger.Warn("Fetch interrupted", "error", ctx.Err())
			break
		}

		logger := f.logger.With("package", p.Name)
		url := f.endpoints.PyPIPackageJSON(p.Name)
		body, ok := request.Do(ctx, f.executor, request.Call{Name: "GET", Args: []any{url}}, f.clients.Web.Get(url))
		if !ok {
			continue
		}

		details, err := registry.DecodePyPIPackage(body)
		if err != nil {
			logger.Warn("No JSON object could be decoded", "error", err)
			continue
		}

		err = f.store.UpdatePyPIPackageDetails(ctx, database.UpdatePyPIPackageDetailsParams{
			ID:                 p.ID,
			Readme:             pgText(details.Description),
			Description:        pgText(details.Summary),
			DayDownloadCount:   pgInt8(details.DayDownloadCount),
			WeekDownloadCount:  pgInt8(details.WeekDownloadCount),
			MonthDownloadCount: pgInt8(details.MonthDownloadCount),
		})
		if err != nil {
			logger.Error("Failed to store package details", "error", err)
			continue
		}

		numFetched++
		if numFetched%progressEvery == 0 {
			f.logger.Info("Done fetching packages", "count", numFetched)
		}
	}

	f.logger.Info("Done retrieving package data for all packages", "with_data", numFetched)
}
