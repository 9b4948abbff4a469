package database

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const npmPackageColumns = `id, name, repository_url, readme, description, day_download_count, week_download_count, month_download_count,
dependents, dependencies, stargazers_count, forks_count, open_issues_count, subscribers_count, github_contributions_count,
has_wiki, page_no, created_at, updated_at`

func scanNpmPackage(row pgx.Row) (NpmPackage, error) {
	var i NpmPackage
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.RepositoryUrl,
		&i.Readme,
		&i.Description,
		&i.DayDownloadCount,
		&i.WeekDownloadCount,
		&i.MonthDownloadCount,
		&i.Dependents,
		&i.Dependencies,
		&i.StargazersCount,
		&i.ForksCount,
		&i.OpenIssuesCount,
		&i.SubscribersCount,
		&i.GithubContributionsCount,
		&i.HasWiki,
		&i.PageNo,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

func (q *Queries) listNpmPackages(ctx context.Context, query string, args ...interface{}) ([]NpmPackage, error) {
	rows, err := q.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []NpmPackage
	for rows.Next() {
		i, err := scanNpmPackage(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const createNPMPackageIfAbsent = `-- name: CreateNPMPackageIfAbsent :execrows
INSERT INTO npm_packages (name, repository_url, page_no)
VALUES ($1, $2, $3)
ON CONFLICT (name) DO NOTHING
`

type CreateNPMPackageIfAbsentParams struct {
	Name          string      `json:"name"`
	RepositoryUrl pgtype.Text `json:"repository_url"`
	PageNo        pgtype.Int4 `json:"page_no"`
}

// CreateNPMPackageIfAbsent inserts a package row unless one with the same name
// exists. It reports whether a row was created; existing rows are left untouched.
func (q *Queries) CreateNPMPackageIfAbsent(ctx context.Context, arg CreateNPMPackageIfAbsentParams) (bool, error) {
	result, err := q.db.Exec(ctx, createNPMPackageIfAbsent, arg.Name, arg.RepositoryUrl, arg.PageNo)
	if err != nil {
		return false, err
	}
	return result.RowsAffected() > 0, nil
}

const getNPMPackageByName = `-- name: GetNPMPackageByName :one
SELECT ` + npmPackageColumns + ` FROM npm_packages
WHERE name = $1
`

func (q *Queries) GetNPMPackageByName(ctx context.Context, name string) (NpmPackage, error) {
	return scanNpmPackage(q.db.QueryRow(ctx, getNPMPackageByName, name))
}

const listNPMPackages = `-- name: ListNPMPackages :many
SELECT ` + npmPackageColumns + ` FROM npm_packages
ORDER BY id
`

func (q *Queries) ListNPMPackages(ctx context.Context) ([]NpmPackage, error) {
	return q.listNpmPackages(ctx, listNPMPackages)
}

const listNPMPackagesByPageNo = `-- name: ListNPMPackagesByPageNo :many
SELECT ` + npmPackageColumns + ` FROM npm_packages
WHERE page_no = $1
ORDER BY id
`

func (q *Queries) ListNPMPackagesByPageNo(ctx context.Context, pageNo int32) ([]NpmPackage, error) {
	return q.listNpmPackages(ctx, listNPMPackagesByPageNo, pageNo)
}

const listNPMPackagesMissingReadme = `-- name: ListNPMPackagesMissingReadme :many
SELECT ` + npmPackageColumns + ` FROM npm_packages
WHERE readme IS NULL
ORDER BY random()
`

func (q *Queries) ListNPMPackagesMissingReadme(ctx context.Context) ([]NpmPackage, error) {
	return q.listNpmPackages(ctx, listNPMPackagesMissingReadme)
}

const listNPMPackagesWithDescription = `-- name: ListNPMPackagesWithDescription :many
SELECT ` + npmPackageColumns + ` FROM npm_packages
WHERE description <> ''
ORDER BY id
`

func (q *Queries) ListNPMPackagesWithDescription(ctx context.Context) ([]NpmPackage, error) {
	return q.listNpmPackages(ctx, listNPMPackagesWithDescription)
}

const updateNPMPackageDetails = `-- name: UpdateNPMPackageDetails :exec
UPDATE npm_packages
SET readme = $2,
    description = $3,
    day_download_count = $4,
    week_download_count = $5,
    month_download_count = $6,
    dependents = $7,
    dependencies = $8,
    updated_at = NOW()
WHERE id = $1
`

type UpdateNPMPackageDetailsParams struct {
	ID                 int64       `json:"id"`
	Readme             pgtype.Text `json:"readme"`
	Description        pgtype.Text `json:"description"`
	DayDownloadCount   pgtype.Int8 `json:"day_download_count"`
	WeekDownloadCount  pgtype.Int8 `json:"week_download_count"`
	MonthDownloadCount pgtype.Int8 `json:"month_download_count"`
	Dependents         pgtype.Text `json:"dependents"`
	Dependencies       pgtype.Text `json:"dependencies"`
}

func (q *Queries) UpdateNPMPackageDetails(ctx context.Context, arg UpdateNPMPackageDetailsParams) error {
	_, err := q.db.Exec(ctx, updateNPMPackageDetails,
		arg.ID,
		arg.Readme,
		arg.Description,
		arg.DayDownloadCount,
		arg.WeekDownloadCount,
		arg.MonthDownloadCount,
		arg.Dependents,
		arg.Dependencies,
	)
	return err
}

const updateNPMPackageReadme = `-- name: UpdateNPMPackageReadme :exec
UPDATE npm_packages
SET readme = $2,
    updated_at = NOW()
WHERE id = $1
`

type UpdateNPMPackageReadmeParams struct {
	ID     int64       `json:"id"`
	Readme pgtype.Text `json:"readme"`
}

func (q *Queries) UpdateNPMPackageReadme(ctx context.Context, arg UpdateNPMPackageReadmeParams) error {
	_, err := q.db.Exec(ctx, updateNPMPackageReadme, arg.ID, arg.Readme)
	return err
}

const updateNPMPackageGithubStats = `-- name: UpdateNPMPackageGithubStats :exec
UPDATE npm_packages
SET stargazers_count = $2,
    forks_count = $3,
    open_issues_count = $4,
    subscribers_count = $5,
    github_contributions_count = $6,
    has_wiki = $7,
    updated_at = NOW()
WHERE id = $1
`

type UpdateNPMPackageGithubStatsParams struct {
	ID                       int64       `json:"id"`
	StargazersCount          pgtype.Int4 `json:"stargazers_count"`
	ForksCount               pgtype.Int4 `json:"forks_count"`
	OpenIssuesCount          pgtype.Int4 `json:"open_issues_count"`
	SubscribersCount         pgtype.Int4 `json:"subscribers_count"`
	GithubContributionsCount pgtype.Int4 `json:"github_contributions_count"`
	HasWiki                  pgtype.Bool `json:"has_wiki"`
}

func (q *Queries) UpdateNPMPackageGithubStats(ctx context.Context, arg UpdateNPMPackageGithubStatsParams) error {
	_, err := q.db.Exec(ctx, updateNPMPackageGithubStats,
		arg.ID,
		arg.StargazersCount,
		arg.ForksCount,
		arg.OpenIssuesCount,
		arg.SubscribersCount,
		arg.GithubContributionsCount,
		arg.HasWiki,
	)
	return err
}
