package fetcher

import (
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5/pgtype"

	"package-metadata-fetcher/internal/database"
	"package-metadata-fetcher/internal/github"
	"package-metadata-fetcher/internal/librariesio"
	"package-metadata-fetcher/internal/model"
	"package-metadata-fetcher/internal/registry"
	"package-metadata-fetcher/internal/request"
	"package-metadata-fetcher/internal/scrape"
	"package-metadata-fetcher/internal/web"
)

const (
	// Unbounded asks FetchLibrariesIONames to walk every available page.
	Unbounded = -1

	// Progress is logged every progressEvery packages.
	progressEvery = 10

	librariesIOPlatform = "NPM"
	githubMarker        = "github.com"
)

// Clients bundles the network collaborators a Fetcher needs. They are built once
// per process and shared by every operation.
type Clients struct {
	Web         *web.Client
	LibrariesIO *librariesio.Client
	GitHub      *github.Client
}

// Fetcher retrieves package metadata from the registries and stores it.
// Operations run sequentially; a failure on one package never stops the batch.
type Fetcher struct {
	store     database.Querier
	executor  *request.Executor
	clients   Clients
	endpoints registry.Endpoints
	npmPage   scrape.PackagePageExtractor
	catalog   scrape.CatalogExtractor
	logger    *slog.Logger
}

// NewFetcher creates a new Fetcher using the goquery-backed page extractors.
func NewFetcher(store database.Querier, executor *request.Executor, clients Clients, endpoints registry.Endpoints, logger *slog.Logger) *Fetcher {
	return &Fetcher{
		store:     store,
		executor:  executor,
		clients:   clients,
		endpoints: endpoints,
		npmPage:   scrape.NPMPage{},
		catalog:   scrape.PyPICatalog{},
		logger:    logger,
	}
}

// WithExtractors replaces the HTML extractors, for registries whose markup changed.
func (f *Fetcher) WithExtractors(page scrape.PackagePageExtractor, catalog scrape.CatalogExtractor) *Fetcher {
	f.npmPage = page
	f.catalog = catalog
	return f
}

// GitHubIdentity extracts owner and repository name from a repository URL.
// Everything up to the last "github.com" is dropped and the rest is split on the
// first two slashes, so the name keeps any deeper path segments.
func GitHubIdentity(rawURL string) (model.GitHubIdentity, bool) {
	i := strings.LastIndex(rawURL, githubMarker)
	if i < 0 {
		return model.GitHubIdentity{}, false
	}
	parts := strings.SplitN(rawURL[i+len(githubMarker):], "/", 3)
	if len(parts) != 3 || parts[0] != "" || parts[1] == "" || parts[2] == "" {
		return model.GitHubIdentity{}, false
	}
	return model.GitHubIdentity{Owner: parts[1], Name: parts[2]}, true
}

func pgText(s string) pgtype.Text {
	return pgtype.Text{String: s, Valid: true}
}

// pgNullableText stores an empty string as NULL.
func pgNullableText(s string) pgtype.Text {
	if s == "" {
		return pgtype.Text{}
	}
	return pgText(s)
}

func pgInt8(n int64) pgtype.Int8 {
	return pgtype.Int8{Int64: n, Valid: true}
}

func pgInt4(n int) pgtype.Int4 {
	return pgtype.Int4{Int32: int32(n), Valid: true}
}

func pgBool(b bool) pgtype.Bool {
	return pgtype.Bool{Bool: b, Valid: true}
}
