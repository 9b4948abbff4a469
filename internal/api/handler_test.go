package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"package-metadata-fetcher/internal/database"
	"package-metadata-fetcher/internal/database/dbmock"
)

func newTestRouter(t *testing.T) (*dbmock.MockQuerier, http.Handler) {
	t.Helper()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	mockQ := new(dbmock.MockQuerier)
	return mockQ, NewRouter(mockQ, logger)
}

func serve(router http.Handler, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestHealthCheck(t *testing.T) {
	_, router := newTestRouter(t)

	rec := serve(router, "/health")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestGetNPMPackage(t *testing.T) {
	t.Run("returns the stored package", func(t *testing.T) {
		mockQ, router := newTestRouter(t)
		mockQ.On("GetNPMPackageByName", mock.Anything, "express").Return(database.NpmPackage{
			ID:          1,
			Name:        "express",
			Description: pgtype.Text{String: "Fast, minimalist web framework", Valid: true},
		}, nil).Once()

		rec := serve(router, "/v1/npm/packages/express")

		require.Equal(t, http.StatusOK, rec.Code)
		var got map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, "express", got["name"])
		assert.Equal(t, "Fast, minimalist web framework", got["description"])
		mockQ.AssertExpectations(t)
	})

	t.Run("unknown package is 404", func(t *testing.T) {
		mockQ, router := newTestRouter(t)
		mockQ.On("GetNPMPackageByName", mock.Anything, "missing").Return(database.NpmPackage{}, pgx.ErrNoRows).Once()

		rec := serve(router, "/v1/npm/packages/missing")

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.JSONEq(t, `{"error":"Package not found"}`, rec.Body.String())
	})

	t.Run("database failure is 500", func(t *testing.T) {
		mockQ, router := newTestRouter(t)
		mockQ.On("GetNPMPackageByName", mock.Anything, "express").Return(database.NpmPackage{}, errors.New("connection reset")).Once()

		rec := serve(router, "/v1/npm/packages/express")

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestGetPyPIPackage(t *testing.T) {
	mockQ, router := newTestRouter(t)
	mockQ.On("GetPyPIPackageByName", mock.Anything, "requests").Return(database.PypiPackage{ID: 7, Name: "requests"}, nil).Once()
	mockQ.On("GetPyPIPackageByName", mock.Anything, "nope").Return(database.PypiPackage{}, pgx.ErrNoRows).Once()

	rec := serve(router, "/v1/pypi/packages/requests")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"name":"requests"`)

	rec = serve(router, "/v1/pypi/packages/nope")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	mockQ.AssertExpectations(t)
}

func TestListNPMPackages(t *testing.T) {
	t.Run("all packages", func(t *testing.T) {
		mockQ, router := newTestRouter(t)
		mockQ.On("ListNPMPackages", mock.Anything).Return([]database.NpmPackage{{ID: 1, Name: "a"}, {ID: 2, Name: "b"}}, nil).Once()

		rec := serve(router, "/v1/npm/packages")

		require.Equal(t, http.StatusOK, rec.Code)
		var got []map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Len(t, got, 2)
	})

	t.Run("filtered by page", func(t *testing.T) {
		mockQ, router := newTestRouter(t)
		mockQ.On("ListNPMPackagesByPageNo", mock.Anything, int32(3)).Return([]database.NpmPackage(nil), nil).Once()

		rec := serve(router, "/v1/npm/packages?page_no=3")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `[]`, rec.Body.String())
		mockQ.AssertExpectations(t)
	})

	t.Run("first search page", func(t *testing.T) {
		mockQ, router := newTestRouter(t)
		mockQ.On("ListNPMPackagesByPageNo", mock.Anything, int32(0)).Return([]database.NpmPackage{{ID: 1, Name: "express"}}, nil).Once()

		rec := serve(router, "/v1/npm/packages?page_no=0")

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"name":"express"`)
		mockQ.AssertExpectations(t)
	})

	t.Run("invalid page", func(t *testing.T) {
		for _, page := range []string{"-1", "abc", "1.5"} {
			_, router := newTestRouter(t)

			rec := serve(router, "/v1/npm/packages?page_no="+page)

			assert.Equal(t, http.StatusBadRequest, rec.Code, page)
		}
	})
}
