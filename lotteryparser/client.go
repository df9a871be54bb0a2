// Package lotteryparser downloads draw results from the upstream lottery
// API and normalizes the raw payload into cacheable draw records.
package lotteryparser

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/thanawat/thailotto-api/logging"
	"github.com/thanawat/thailotto-api/lotteryparser/entities"
)

// DefaultBaseURL is the public endpoint of the upstream lottery API.
const DefaultBaseURL = "https://lotto.api.rayriffy.com"

var (
	// ErrUpstreamStatus marks a non-2xx HTTP response from the upstream API.
	ErrUpstreamStatus = errors.New("upstream returned non-success status")

	// ErrNoDataForDate means the upstream API has no draw for the
	// requested date. Callers treat this as a normal negative result.
	ErrNoDataForDate = errors.New("no draw results for this date")
)

// Client calls the upstream lottery API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates an upstream API client. An empty baseURL selects the
// public API.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// FetchLatest retrieves the most recent draw from the upstream API.
func (c *Client) FetchLatest(ctx context.Context) (*entities.UpstreamPayload, error) {
	payload, err := c.get(ctx, c.baseURL+"/latest")
	if err != nil {
		return nil, err
	}

	if payload.Status != "success" {
		return nil, fmt.Errorf("latest draw: upstream status %q: %w", payload.Status, ErrUpstreamStatus)
	}

	return payload, nil
}

// FetchByDate retrieves the draw for a specific date, given in the
// Buddhist-Era DDMMYYYY query form. Dates without a draw yield
// ErrNoDataForDate; date queries miss often (future dates, non-draw days)
// and are not upstream failures.
func (c *Client) FetchByDate(ctx context.Context, buddhistDate string) (*entities.UpstreamPayload, error) {
	payload, err := c.get(ctx, c.baseURL+"/lotto/"+buddhistDate)
	if errors.Is(err, ErrUpstreamStatus) {
		return nil, fmt.Errorf("draw %s: %w", buddhistDate, ErrNoDataForDate)
	}
	if err != nil {
		return nil, err
	}

	if payload.Status != "success" || payload.Response.Date == "" {
		return nil, fmt.Errorf("draw %s: %w", buddhistDate, ErrNoDataForDate)
	}

	return payload, nil
}

func (c *Client) get(ctx context.Context, url string) (*entities.UpstreamPayload, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request for %s: %w", url, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logging.Warn("Failed to close upstream response body", "error", err)
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("%s returned %d: %w", url, resp.StatusCode, ErrUpstreamStatus)
	}

	var payload entities.UpstreamPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode response from %s: %w", url, err)
	}

	return &payload, nil
}
