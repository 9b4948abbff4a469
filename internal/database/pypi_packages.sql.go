package database

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const pypiPackageColumns = `id, name, readme, description, day_download_count, week_download_count, month_download_count, created_at, updated_at`

func scanPypiPackage(row pgx.Row) (PypiPackage, error) {
	var i PypiPackage
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.Readme,
		&i.Description,
		&i.DayDownloadCount,
		&i.WeekDownloadCount,
		&i.MonthDownloadCount,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

func (q *Queries) listPypiPackages(ctx context.Context, query string, args ...interface{}) ([]PypiPackage, error) {
	rows, err := q.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []PypiPackage
	for rows.Next() {
		i, err := scanPypiPackage(rows)
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

const createPyPIPackageIfAbsent = `-- name: CreatePyPIPackageIfAbsent :execrows
INSERT INTO pypi_packages (name)
VALUES ($1)
ON CONFLICT (name) DO NOTHING
`

func (q *Queries) CreatePyPIPackageIfAbsent(ctx context.Context, name string) (bool, error) {
	result, err := q.db.Exec(ctx, createPyPIPackageIfAbsent, name)
	if err != nil {
		return false, err
	}
	return result.RowsAffected() > 0, nil
}

const getPyPIPackageByName = `-- name: GetPyPIPackageByName :one
SELECT ` + pypiPackageColumns + ` FROM pypi_packages
WHERE name = $1
`

func (q *Queries) GetPyPIPackageByName(ctx context.Context, name string) (PypiPackage, error) {
	return scanPypiPackage(q.db.QueryRow(ctx, getPyPIPackageByName, name))
}

const listPyPIPackagesMissingReadme = `-- name: ListPyPIPackagesMissingReadme :many
SELECT ` + pypiPackageColumns + ` FROM pypi_packages
WHERE readme IS NULL
ORDER BY random()
`

func (q *Queries) ListPyPIPackagesMissingReadme(ctx context.Context) ([]PypiPackage, error) {
	return q.listPypiPackages(ctx, listPyPIPackagesMissingReadme)
}

const listPyPIPackagesWithDescription = `-- name: ListPyPIPackagesWithDescription :many
SELECT ` + pypiPackageColumns + ` FROM pypi_packages
WHERE description <> ''
ORDER BY id
`

func (q *Queries) ListPyPIPackagesWithDescription(ctx context.Context) ([]PypiPackage, error) {
	return q.listPypiPackages(ctx, listPyPIPackagesWithDescription)
}

const updatePyPIPackageDetails = `-- name: UpdatePyPIPackageDetails :exec
UPDATE pypi_packages
SET readme = $2,
    description = $3,
    day_download_count = $4,
    week_download_count = $5,
    month_download_count = $6,
    updated_at = NOW()
WHERE id = $1
`

type UpdatePyPIPackageDetailsParams struct {
	ID                 int64       `json:"id"`
	Readme             pgtype.Text `json:"readme"`
	Description        pgtype.Text `json:"description"`
	DayDownloadCount   pgtype.Int8 `json:"day_download_count"`
	WeekDownloadCount  pgtype.Int8 `json:"week_download_count"`
	MonthDownloadCount pgtype.Int8 `json:"month_download_count"`
}

func (q *Queries) UpdatePyPIPackageDetails(ctx context.Context, arg UpdatePyPIPackageDetailsParams) error {
	_, err := q.db.Exec(ctx, updatePyPIPackageDetails,
		arg.ID,
		arg.Readme,
		arg.Description,
		arg.DayDownloadCount,
		arg.WeekDownloadCount,
		arg.MonthDownloadCount,
	)
	return err
}
