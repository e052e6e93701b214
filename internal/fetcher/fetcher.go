package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"
)

// maxPayloadBytes caps how much of a provider response is read.
const maxPayloadBytes = 16 << 20

type Client struct {
	httpClient  *http.Client
	rateLimiter *rate.Limiter
}

// New returns a fetch client. requestsPerSecond <= 0 disables pacing; otherwise all
// fetches made through the client share one limiter.
func New(requestsPerSecond float64) *Client {
	limit := rate.Inf
	if requestsPerSecond > 0 {
		limit = rate.Limit(requestsPerSecond)
	}
	return &Client{
		httpClient:  &http.Client{},
		rateLimiter: rate.NewLimiter(limit, 1),
	}
}

// Fetch GETs rawURL and returns the response body. The whole exchange, including
// any wait on the rate limiter, is bounded by timeout. Non-2xx responses are errors.
// Fetch never retries.
func (c *Client) Fetch(ctx context.Context, rawURL string, timeout time.Duration) ([]byte, error) {
	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL %s: %w", rawURL, err)
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return nil, fmt.Errorf("invalid URL scheme %q: only http and https allowed", parsedURL.Scheme)
	}

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter wait for %s: %w", rawURL, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request for URL %s: %w", rawURL, err)
	}
	req.Header.Set("Accept", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch URL %s: %w", rawURL, err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return nil, fmt.Errorf("failed to fetch URL %s: status code %d", rawURL, res.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(res.Body, maxPayloadBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response from %s: %w", rawURL, err)
	}
	if len(body) > maxPayloadBytes {
		return nil, fmt.Errorf("response from %s exceeds %d bytes", rawURL, maxPayloadBytes)
	}
	return body, nil
}
