package model

import (
	"strings"

	custom_errors "package-metadata-fetcher/internal/errors"
)

// Ecosystem identifies one of the supported package registries.
type Ecosystem string

const (
	NPM  Ecosystem = "npm"
	PyPI Ecosystem = "pypi"
)

// ParseEcosystem validates the package database selector given on the command line.
func ParseEcosystem(s string) (Ecosystem, error) {
	switch e := Ecosystem(strings.ToLower(strings.TrimSpace(s))); e {
	case NPM, PyPI:
		return e, nil
	default:
		return "", &custom_errors.ErrInvalidEcosystem{Value: s}
	}
}

// GitHubIdentity is the owner and repository name extracted from a repository URL.
// Name may contain slashes when the URL points below the repository root.
type GitHubIdentity struct {
	Owner string
	Name  string
}

// SearchResult is a single package returned by the Libraries.io search API.
type SearchResult struct {
	Name          string `json:"name"`
	RepositoryURL string `json:"repository_url"`
}

// RepoStats holds the repository statistics Libraries.io tracks for a GitHub project.
type RepoStats struct {
	StargazersCount          int  `json:"stargazers_count"`
	ForksCount               int  `json:"forks_count"`
	OpenIssuesCount          int  `json:"open_issues_count"`
	SubscribersCount         int  `json:"subscribers_count"`
	GithubContributionsCount int  `json:"github_contributions_count"`
	HasWiki                  bool `json:"has_wiki"`
}

// NPMDetails is everything scraped from a package page on npmjs.com.
type NPMDetails struct {
	Readme             string
	Description        string
	DayDownloadCount   int64
	WeekDownloadCount  int64
	MonthDownloadCount int64
	Dependents         []string
	Dependencies       []string
}

// PyPIDetails is the subset of the PyPI JSON API used to describe a package.
type PyPIDetails struct {
	Summary            string
	Description        string
	DayDownloadCount   int64
	WeekDownloadCount  int64
	MonthDownloadCount int64
}
