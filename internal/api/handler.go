package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5"

	"package-metadata-fetcher/internal/database"
)

// Handler is the container for API dependencies.
type Handler struct {
	db     database.Querier
	logger *slog.Logger
}

// NewRouter creates and configures a new chi router with all API routes.
func NewRouter(db database.Querier, logger *slog.Logger) http.Handler {
	h := &Handler{
		db:     db,
		logger: logger,
	}

	r := chi.NewRouter()

	// Middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	// API Routes
	r.Get("/health", h.healthCheck)
	r.Route("/v1", func(r chi.Router) {
		r.Get("/npm/packages", h.listNPMPackages)
		r.Get("/npm/packages/{name}", h.getNPMPackage)
		r.Get("/pypi/packages/{name}", h.getPyPIPackage)
	})

	return r
}

func (h *Handler) healthCheck(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// getNPMPackage returns the stored metadata of one npm package.
// GET /v1/npm/packages/{name}
func (h *Handler) getNPMPackage(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	pkg, err := h.db.GetNPMPackageByName(r.Context(), name)
	if err != nil {
		h.lookupFailed(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, pkg)
}

// getPyPIPackage returns the stored metadata of one PyPI package.
// GET /v1/pypi/packages/{name}
func (h *Handler) getPyPIPackage(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	pkg, err := h.db.GetPyPIPackageByName(r.Context(), name)
	if err != nil {
		h.lookupFailed(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, pkg)
}

// listNPMPackages lists npm packages, optionally only those discovered on one
// Libraries.io search page.
// GET /v1/npm/packages?page_no=N
func (h *Handler) listNPMPackages(w http.ResponseWriter, r *http.Request) {
	var (
		pkgs []database.NpmPackage
		err  error
	)

	if pageStr := r.URL.Query().Get("page_no"); pageStr != "" {
		pageNo, convErr := strconv.ParseInt(pageStr, 10, 32)
		if convErr != nil || pageNo < 0 {
			respondWithError(w, http.StatusBadRequest, "Invalid 'page_no' parameter. Must be a non-negative integer.")
			return
		}
		pkgs, err = h.db.ListNPMPackagesByPageNo(r.Context(), int32(pageNo))
	} else {
		pkgs, err = h.db.ListNPMPackages(r.Context())
	}
	if err != nil {
		h.logger.Error("Failed to list npm packages", "error", err)
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if pkgs == nil {
		pkgs = []database.NpmPackage{}
	}

	respondWithJSON(w, http.StatusOK, pkgs)
}

func (h *Handler) lookupFailed(w http.ResponseWriter, err error) {
	if errors.Is(err, pgx.ErrNoRows) {
		respondWithError(w, http.StatusNotFound, "Package not found")
		return
	}
	h.logger.Error("Failed to get package", "error", err)
	respondWithError(w, http.StatusInternalServerError, "Internal server error")
}
