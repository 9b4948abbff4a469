// Package dbmock provides a testify mock of database.Querier.
package dbmock

import (
	"context"

	"github.com/stretchr/testify/mock"

	"package-metadata-fetcher/internal/database"
)

// MockQuerier is a mock of the database.Querier interface.
type MockQuerier struct {
	mock.Mock
}

var _ database.Querier = (*MockQuerier)(nil)

func (m *MockQuerier) CreateNPMPackageIfAbsent(ctx context.Context, arg database.CreateNPMPackageIfAbsentParams) (bool, error) {
	args := m.Called(ctx, arg)
	return args.Bool(0), args.Error(1)
}
func (m *MockQuerier) CreatePyPIPackageIfAbsent(ctx context.Context, name string) (bool, error) {
	args := m.Called(ctx, name)
	return args.Bool(0), args.Error(1)
}
func (m *MockQuerier) GetNPMPackageByName(ctx context.Context, name string) (database.NpmPackage, error) {
	args := m.Called(ctx, name)
	return args.Get(0).(database.NpmPackage), args.Error(1)
}
func (m *MockQuerier) GetPyPIPackageByName(ctx context.Context, name string) (database.PypiPackage, error) {
	args := m.Called(ctx, name)
	return args.Get(0).(database.PypiPackage), args.Error(1)
}
func (m *MockQuerier) ListNPMPackages(ctx context.Context) ([]database.NpmPackage, error) {
	args := m.Called(ctx)
	return args.Get(0).([]database.NpmPackage), args.Error(1)
}
func (m *MockQuerier) ListNPMPackagesByPageNo(ctx context.Context, pageNo int32) ([]database.NpmPackage, error) {
	args := m.Called(ctx, pageNo)
	return args.Get(0).([]database.NpmPackage), args.Error(1)
}
func (m *MockQuerier) ListNPMPackagesMissingReadme(ctx context.Context) ([]database.NpmPackage, error) {
	args := m.Called(ctx)
	return args.Get(0).([]database.NpmPackage), args.Error(1)
}
func (m *MockQuerier) ListNPMPackagesWithDescription(ctx context.Context) ([]database.NpmPackage, error) {
	args := m.Called(ctx)
	return args.Get(0).([]database.NpmPackage), args.Error(1)
}
func (m *MockQuerier) ListPyPIPackagesMissingReadme(ctx context.Context) ([]database.PypiPackage, error) {
	args := m.Called(ctx)
	return args.Get(0).([]database.PypiPackage), args.Error(1)
}
func (m *MockQuerier) ListPyPIPackagesWithDescription(ctx context.Context) ([]database.PypiPackage, error) {
	args := m.Called(ctx)
	return args.Get(0).([]database.PypiPackage), args.Error(1)
}
func (m *MockQuerier) UpdateNPMPackageDetails(ctx context.Context, arg database.UpdateNPMPackageDetailsParams) error {
	args := m.Called(ctx, arg)
	return args.Error(0)
}
func (m *MockQuerier) UpdateNPMPackageGithubStats(ctx context.Context, arg database.UpdateNPMPackageGithubStatsParams) error {
	args := m.Called(ctx, arg)
	return args.Error(0)
}
func (m *MockQuerier) UpdateNPMPackageReadme(ctx context.Context, arg database.UpdateNPMPackageReadmeParams) error {
	args := m.Called(ctx, arg)
	return args.Error(0)
}
func (m *MockQuerier) UpdatePyPIPackageDetails(ctx context.Context, arg database.UpdatePyPIPackageDetailsParams) error {
	args := m.Called(ctx, arg)
	return args.Error(0)
}
