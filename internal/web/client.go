package web

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"package-metadata-fetcher/internal/request"
)

// Client performs plain HTTP GET requests against registry web pages and bulk indexes.
type Client struct {
	http      *http.Client
	userAgent string
}

// NewClient creates a Client with the given request timeout and User-Agent header.
func NewClient(timeout time.Duration, userAgent string) *Client {
	return &Client{
		http:      &http.Client{Timeout: timeout},
		userAgent: userAgent,
	}
}

// Get returns an operation that fetches url and yields the body together with the
// response status. Non-200 statuses are not errors here; the executor decides.
func (c *Client) Get(url string) request.Operation[[]byte] {
	return func(ctx context.Context) (request.Result[[]byte], error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return request.Result[[]byte]{}, fmt.Errorf("create request: %w", err)
		}
		if c.userAgent != "" {
			req.Header.Set("User-Agent", c.userAgent)
		}

		resp, err := c.http.Do(req)
		if err != nil {
			return request.Result[[]byte]{}, err
		}
		defer func() { _ = resp.Body.Close() }()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return request.Result[[]byte]{}, err
		}
		return request.Response(resp.StatusCode, body), nil
	}
}
