package fetcher

import (
	"context"

	"package-metadata-fetcher/internal/database"
	"package-metadata-fetcher/internal/model"
	"package-metadata-fetcher/internal/request"
)

// FetchGitHubReadmes stores the GitHub README of every package whose repository
// URL points at GitHub.
func (f *Fetcher) FetchGitHubReadmes(ctx context.Context, packages []database.NpmPackage) {
	for _, p := range packages {
		if ctx.Err() != nil {
			f.logger.Warn("Fetch interrupted", "error", ctx.Err())
			return
		}

		id, ok := GitHubIdentity(p.RepositoryUrl.String)
		if !ok {
			f.logger.Info("Not fetching README. Package does not have a Github repository", "package", p.Name)
			continue
		}

		f.logger.Info("Fetching README", "package", p.Name)
		readme, ok := request.Do(ctx, f.executor,
			request.Call{Name: "github readme", Args: []any{id.Owner, id.Name}},
			request.Wrap(func(ctx context.Context) (string, error) {
				return f.clients.GitHub.GetReadme(ctx, id.Owner, id.Name)
			}),
		)
		if !ok {
			continue
		}

		err := f.store.UpdateNPMPackageReadme(ctx, database.UpdateNPMPackageReadmeParams{
			ID:     p.ID,
			Readme: pgText(readme),
		})
		if err != nil {
			f.logger.Error("Failed to store README", "package", p.Name, "error", err)
		}
	}
}

// FetchGitHubStats copies the repository statistics Libraries.io tracks onto
// every package whose repository URL points at GitHub.
func (f *Fetcher) FetchGitHubStats(ctx context.Context, packages []database.NpmPackage) {
	for _, p := range packages {
		if ctx.Err() != nil {
			f.logger.Warn("Fetch interrupted", "error", ctx.Err())
			return
		}

		id, ok := GitHubIdentity(p.RepositoryUrl.String)
		if !ok {
			f.logger.Info("Not fetching stats. Package does not have a Github repository", "package", p.Name)
			continue
		}

		f.logger.Info("Fetching stats for package", "package", p.Name)
		stats, ok := request.Do(ctx, f.executor,
			request.Call{Name: "libraries.io github", Args: []any{id.Owner, id.Name}},
			request.Wrap(func(ctx context.Context) (*model.RepoStats, error) {
				return f.clients.LibrariesIO.GitHubRepository(ctx, id.Owner, id.Name)
			}),
		)
		if !ok {
			continue
		}

		err := f.store.UpdateNPMPackageGithubStats(ctx, database.UpdateNPMPackageGithubStatsParams{
			ID:                       p.ID,
			StargazersCount:          pgInt4(stats.StargazersCount),
			ForksCount:               pgInt4(stats.ForksCount),
			OpenIssuesCount:          pgInt4(stats.OpenIssuesCount),
			SubscribersCount:         pgInt4(stats.SubscribersCount),
			GithubContributionsCount: pgInt4(stats.GithubContributionsCount),
			HasWiki:                  pgBool(stats.HasWiki),
		})
		if err != nil {
			f.logger.Error("Failed to store stats", "package", p.Name, "error", err)
		}
	}
}
