package github

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/go-github/v62/github"
	"golang.org/x/oauth2"

	custom_errors "package-metadata-fetcher/internal/errors"
)

// Client is a wrapper around the go-github client.
type Client struct {
	gh     *github.Client
	logger *slog.Logger
}

// NewClient creates and configures a new Client instance.
// A non-empty token is used to create an authenticated http.Client; without one
// requests are anonymous and subject to the lower rate limit.
func NewClient(token string, timeout time.Duration, logger *slog.Logger) *Client {
	tc := &http.Client{Timeout: timeout}
	if token != "" {
		ctx := context.WithValue(context.Background(), oauth2.HTTPClient, tc)
		ts := oauth2.StaticTokenSource(
			&oauth2.Token{AccessToken: token},
		)
		tc = oauth2.NewClient(ctx, ts)
		tc.Timeout = timeout
	}

	return &Client{
		gh:     github.NewClient(tc),
		logger: logger,
	}
}

// WithBaseURL points the client at a different API root, such as a GitHub
// Enterprise instance.
func (c *Client) WithBaseURL(rawURL string) (*Client, error) {
	if !strings.HasSuffix(rawURL, "/") {
		rawURL += "/"
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse github base url: %w", err)
	}
	c.gh.BaseURL = u
	return c, nil
}

// GetReadme fetches the preferred README of owner/name and returns its decoded text.
func (c *Client) GetReadme(ctx context.Context, owner, name string) (string, error) {
	c.logger.Debug("Fetching readme", "owner", owner, "repo", name)

	readme, _, err := c.gh.Repositories.GetReadme(ctx, owner, name, nil)
	if err != nil {
		return "", translateError(err)
	}

	content, err := readme.GetContent()
	if err != nil {
		return "", fmt.Errorf("decode readme of %s/%s: %w", owner, name, err)
	}
	return content, nil
}

// translateError maps go-github response errors onto the kinds the request executor understands.
// Transport errors are returned unchanged so they stay retryable.
func translateError(err error) error {
	var (
		ghErr        *github.ErrorResponse
		rateErr      *github.RateLimitError
		abuseRateErr *github.AbuseRateLimitError
	)
	switch {
	case errors.As(err, &rateErr) && rateErr.Response != nil:
		return fmt.Errorf("%w: %v", custom_errors.FromStatus(rateErr.Response.StatusCode), err)
	case errors.As(err, &abuseRateErr) && abuseRateErr.Response != nil:
		return fmt.Errorf("%w: %v", custom_errors.FromStatus(abuseRateErr.Response.StatusCode), err)
	case errors.As(err, &ghErr) && ghErr.Response != nil:
		return fmt.Errorf("%w: %v", custom_errors.FromStatus(ghErr.Response.StatusCode), err)
	}
	return err
}
