package database

import (
	"github.com/jackc/pgx/v5/pgtype"
)

type NpmPackage struct {
	ID                       int64              `json:"id"`
	Name                     string             `json:"name"`
	RepositoryUrl            pgtype.Text        `json:"repository_url"`
	Readme                   pgtype.Text        `json:"readme"`
	Description              pgtype.Text        `json:"description"`
	DayDownloadCount         pgtype.Int8        `json:"day_download_count"`
	WeekDownloadCount        pgtype.Int8        `json:"week_download_count"`
	MonthDownloadCount       pgtype.Int8        `json:"month_download_count"`
	Dependents               pgtype.Text        `json:"dependents"`
	Dependencies             pgtype.Text        `json:"dependencies"`
	StargazersCount          pgtype.Int4        `json:"stargazers_count"`
	ForksCount               pgtype.Int4        `json:"forks_count"`
	OpenIssuesCount          pgtype.Int4        `json:"open_issues_count"`
	SubscribersCount         pgtype.Int4        `json:"subscribers_count"`
	GithubContributionsCount pgtype.Int4        `json:"github_contributions_count"`
	HasWiki                  pgtype.Bool        `json:"has_wiki"`
	PageNo                   pgtype.Int4        `json:"page_no"`
	CreatedAt                pgtype.Timestamptz `json:"created_at"`
	UpdatedAt                pgtype.Timestamptz `json:"updated_at"`
}

type PypiPackage struct {
	ID                 int64              `json:"id"`
	Name               string             `json:"name"`
	Readme             pgtype.Text        `json:"readme"`
	Description        pgtype.Text        `json:"description"`
	DayDownloadCount   pgtype.Int8        `json:"day_download_count"`
	WeekDownloadCount  pgtype.Int8        `json:"week_download_count"`
	MonthDownloadCount pgtype.Int8        `json:"month_download_count"`
	CreatedAt          pgtype.Timestamptz `json:"created_at"`
	UpdatedAt          pgtype.Timestamptz `json:"updated_at"`
}
