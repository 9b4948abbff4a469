package librariesio

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	custom_errors "package-metadata-fetcher/internal/errors"
	"package-metadata-fetcher/internal/model"
)

const DefaultBaseURL = "https://libraries.io/api"

// Client talks to the Libraries.io API, which provides cross-registry package
// search and cached GitHub repository statistics.
type Client struct {
	http    *http.Client
	baseURL string
	apiKey  string
	logger  *slog.Logger
}

// NewClient creates a Client. The API key is sent as the api_key query parameter.
func NewClient(baseURL, apiKey string, timeout time.Duration, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		http:    &http.Client{Timeout: timeout},
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		logger:  logger,
	}
}

// Search returns one page of packages matching query on the given platform.
func (c *Client) Search(ctx context.Context, query, platform string, page int) ([]model.SearchResult, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("platforms", platform)
	params.Set("page", strconv.Itoa(page))

	var results []model.SearchResult
	if err := c.get(ctx, "/search", params, &results); err != nil {
		return nil, err
	}
	return results, nil
}

// GitHubRepository returns the statistics Libraries.io holds for owner/name.
func (c *Client) GitHubRepository(ctx context.Context, owner, name string) (*model.RepoStats, error) {
	var stats model.RepoStats
	if err := c.get(ctx, fmt.Sprintf("/github/%s/%s", owner, name), url.Values{}, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, v any) error {
	if c.apiKey != "" {
		params.Set("api_key", c.apiKey)
	}
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	c.logger.Debug("Calling Libraries.io", "path", path, "page", params.Get("page"))
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return custom_errors.FromStatus(resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
