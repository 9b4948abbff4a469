package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"package-metadata-fetcher/internal/database"
	"package-metadata-fetcher/internal/database/dbmock"
	custom_errors "package-metadata-fetcher/internal/errors"
	"package-metadata-fetcher/internal/model"
)

// mockFetcher records which fetch operations ran and with how many packages.
type mockFetcher struct {
	mock.Mock
}

func (m *mockFetcher) FetchNPMPackageList(ctx context.Context) { m.Called() }
func (m *mockFetcher) FetchNPMData(ctx context.Context, packages []database.NpmPackage) {
	m.Called(len(packages))
}
func (m *mockFetcher) FetchLibrariesIONames(ctx context.Context, count int) { m.Called(count) }
func (m *mockFetcher) FetchGitHubReadmes(ctx context.Context, packages []database.NpmPackage) {
	m.Called(len(packages))
}
func (m *mockFetcher) FetchGitHubStats(ctx context.Context, packages []database.NpmPackage) {
	m.Called(len(packages))
}
func (m *mockFetcher) FetchPyPIPackageList(ctx context.Context) { m.Called() }
func (m *mockFetcher) FetchPyPIData(ctx context.Context, packages []database.PypiPackage) {
	m.Called(len(packages))
}

func (m *mockFetcher) order() []string {
	names := make([]string, 0, len(m.Calls))
	for _, c := range m.Calls {
		names = append(names, c.Method)
	}
	return names
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func TestFetchCommand_InvalidDB(t *testing.T) {
	for _, db := range []string{"maven", ""} {
		root := newRootCommand(testLogger(), new(slog.LevelVar))
		root.SetOut(io.Discard)
		root.SetArgs([]string{"fetch", "--db", db, "--package-list"})

		err := root.ExecuteContext(context.Background())

		var invalid *custom_errors.ErrInvalidEcosystem
		require.ErrorAs(t, err, &invalid, db)
		assert.Equal(t, db, invalid.Value)
	}
}

func TestRunFetch_NPMOrder(t *testing.T) {
	ctx := context.Background()
	store := new(dbmock.MockQuerier)
	f := new(mockFetcher)

	missing := []database.NpmPackage{{ID: 1, Name: "a"}}
	all := []database.NpmPackage{{ID: 1, Name: "a"}, {ID: 2, Name: "b"}}
	store.On("ListNPMPackagesMissingReadme", ctx).Return(missing, nil).Once()
	store.On("ListNPMPackages", ctx).Return(all, nil).Twice()

	f.On("FetchNPMPackageList").Once()
	f.On("FetchNPMData", 1).Once()
	f.On("FetchLibrariesIONames", 25).Once()
	f.On("FetchGitHubReadmes", 2).Once()
	f.On("FetchGitHubStats", 2).Once()

	opts := fetchOptions{
		packageList:     true,
		data:            true,
		libPackages:     true,
		libPackageCount: 25,
		githubReadmes:   true,
		githubStats:     true,
	}
	err := runFetch(ctx, model.NPM, opts, f, store, testLogger())

	require.NoError(t, err)
	assert.Equal(t, []string{
		"FetchNPMPackageList",
		"FetchNPMData",
		"FetchLibrariesIONames",
		"FetchGitHubReadmes",
		"FetchGitHubStats",
	}, f.order())
	store.AssertExpectations(t)
	f.AssertExpectations(t)
}

func TestRunFetch_UpdateSelectsDescribedRows(t *testing.T) {
	ctx := context.Background()

	t.Run("npm", func(t *testing.T) {
		store := new(dbmock.MockQuerier)
		f := new(mockFetcher)
		store.On("ListNPMPackagesWithDescription", ctx).Return([]database.NpmPackage{{ID: 3}}, nil).Once()
		f.On("FetchNPMData", 1).Once()

		err := runFetch(ctx, model.NPM, fetchOptions{data: true, update: true}, f, store, testLogger())

		require.NoError(t, err)
		store.AssertExpectations(t)
		store.AssertNotCalled(t, "ListNPMPackagesMissingReadme", mock.Anything)
		f.AssertExpectations(t)
	})

	t.Run("pypi", func(t *testing.T) {
		store := new(dbmock.MockQuerier)
		f := new(mockFetcher)
		store.On("ListPyPIPackagesWithDescription", ctx).Return([]database.PypiPackage{{ID: 1}, {ID: 2}}, nil).Once()
		f.On("FetchPyPIData", 2).Once()

		err := runFetch(ctx, model.PyPI, fetchOptions{data: true, update: true}, f, store, testLogger())

		require.NoError(t, err)
		store.AssertExpectations(t)
		f.AssertExpectations(t)
	})
}

func TestRunFetch_PyPIIgnoresNPMOnlyOptions(t *testing.T) {
	ctx := context.Background()
	store := new(dbmock.MockQuerier)
	f := new(mockFetcher)
	store.On("ListPyPIPackagesMissingReadme", ctx).Return([]database.PypiPackage{{ID: 1}}, nil).Once()
	f.On("FetchPyPIPackageList").Once()
	f.On("FetchPyPIData", 1).Once()

	opts := fetchOptions{packageList: true, data: true, libPackages: true, githubReadmes: true, githubStats: true}
	err := runFetch(ctx, model.PyPI, opts, f, store, testLogger())

	require.NoError(t, err)
	assert.Equal(t, []string{"FetchPyPIPackageList", "FetchPyPIData"}, f.order())
	store.AssertExpectations(t)
}

func TestRunFetch_SelectionFailure(t *testing.T) {
	ctx := context.Background()
	store := new(dbmock.MockQuerier)
	f := new(mockFetcher)
	store.On("ListNPMPackagesMissingReadme", ctx).Return([]database.NpmPackage(nil), errors.New("connection refused")).Once()

	err := runFetch(ctx, model.NPM, fetchOptions{data: true, githubReadmes: true}, f, store, testLogger())

	assert.ErrorContains(t, err, "failed to select npm packages")
	assert.Empty(t, f.Calls)
}

func TestServeHTTP_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	srv := &http.Server{Addr: "127.0.0.1:0", Handler: http.NotFoundHandler()}

	done := make(chan error, 1)
	go func() { done <- serveHTTP(ctx, srv, testLogger()) }()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop after cancellation")
	}
}

func TestSetLogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"info":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"error":   slog.LevelError,
		"verbose": slog.LevelInfo,
	}
	for in, want := range tests {
		v := new(slog.LevelVar)
		setLogLevel(in, v)
		assert.Equal(t, want, v.Level(), in)
	}
}
