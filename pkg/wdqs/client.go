// Package wdqs runs SPARQL queries against the Wikidata Query Service and returns
// the results as CSV text.
package wdqs

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/akngs/k-families-data/pkg/config"
)

// Querier executes a named SPARQL query and returns the CSV response body.
type Querier interface {
	Query(ctx context.Context, name, sparql string) ([]byte, error)
}

// StatusError is returned when the service answers with anything but 200.
type StatusError struct {
	Query      string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("query %q failed with status %d: %s", e.Query, e.StatusCode, e.Body)
}

// Client talks to a SPARQL endpoint over HTTP.
type Client struct {
	endpoint   string
	userAgent  string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a client for cfg.Endpoint.
func NewClient(cfg config.FetchConfig, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	timeout := time.Duration(cfg.Timeout) * time.Second
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}
	return &Client{
		endpoint:   cfg.Endpoint,
		userAgent:  cfg.UserAgent,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// Query implements Querier.
func (c *Client) Query(ctx context.Context, name, sparql string) ([]byte, error) {
	u, err := url.Parse(c.endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid endpoint %q: %w", c.endpoint, err)
	}
	u.RawQuery = url.Values{"query": {sparql}}.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "text/csv")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to run query %s: %w", name, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response of %s: %w", name, err)
	}
	c.logger.Info("Query finished", "name", name, "status", resp.StatusCode, "elapsed_ms", time.Since(start).Milliseconds())

	if resp.StatusCode != http.StatusOK {
		c.logger.Error("Query failed", "name", name, "status", resp.StatusCode, "body", string(body))
		return nil, &StatusError{Query: name, StatusCode: resp.StatusCode, Body: string(body)}
	}
	return body, nil
}
