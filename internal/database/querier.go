package database

import (
	"context"
)

type Querier interface {
	CreateNPMPackageIfAbsent(ctx context.Context, arg CreateNPMPackageIfAbsentParams) (bool, error)
	CreatePyPIPackageIfAbsent(ctx context.Context, name string) (bool, error)
	GetNPMPackageByName(ctx context.Context, name string) (NpmPackage, error)
	GetPyPIPackageByName(ctx context.Context, name string) (PypiPackage, error)
	ListNPMPackages(ctx context.Context) ([]NpmPackage, error)
	ListNPMPackagesByPageNo(ctx context.Context, pageNo int32) ([]NpmPackage, error)
	ListNPMPackagesMissingReadme(ctx context.Context) ([]NpmPackage, error)
	ListNPMPackagesWithDescription(ctx context.Context) ([]NpmPackage, error)
	ListPyPIPackagesMissingReadme(ctx context.Context) ([]PypiPackage, error)
	ListPyPIPackagesWithDescription(ctx context.Context) ([]PypiPackage, error)
	UpdateNPMPackageDetails(ctx context.Context, arg UpdateNPMPackageDetailsParams) error
	UpdateNPMPackageGithubStats(ctx context.Context, arg UpdateNPMPackageGithubStatsParams) error
	UpdateNPMPackageReadme(ctx context.Context, arg UpdateNPMPackageReadmeParams) error
	UpdatePyPIPackageDetails(ctx context.Context, arg UpdatePyPIPackageDetailsParams) error
}

var _ Querier = (*Queries)(nil)
