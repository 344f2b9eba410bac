// Package grid provides minimal clients for the GRID esports data APIs:
// Central Data (GraphQL series metadata) and File Download (series event logs).
package grid

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const maxRetries = 3

// retryBackoffs is indexed by attempt. Tests shorten it.
var retryBackoffs = []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second}

// Client is an authenticated, rate-limited GRID HTTP client.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	limiter *rate.Limiter
}

// NewClient returns a client for baseURL. rps <= 0 disables throttling.
func NewClient(baseURL, apiKey string, rps float64) *Client {
	limit := rate.Inf
	if rps > 0 {
		limit = rate.Limit(rps)
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 180 * time.Second},
		limiter: rate.NewLimiter(limit, 1),
	}
}

// url joins path onto the base URL. Absolute URLs are returned unchanged.
func (c *Client) url(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if path == "" {
		return c.baseURL
	}
	return strings.TrimRight(c.baseURL, "/") + "/" + strings.TrimLeft(path, "/")
}

// Get performs an authenticated GET and returns the response body.
func (c *Client) Get(ctx context.Context, path string) ([]byte, error) {
	resp, err := c.send(ctx, http.MethodGet, c.url(path), nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	return io.ReadAll(resp.Body)
}

// PostJSON marshals payload, POSTs it and returns the response body.
func (c *Client) PostJSON(ctx context.Context, path string, payload any) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	resp, err := c.send(ctx, http.MethodPost, c.url(path), body)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	return io.ReadAll(resp.Body)
}

// send issues the request, retrying on transport errors, 429 and 5xx with
// backoff. On success the caller owns resp.Body.
func (c *Client) send(ctx context.Context, method, url string, body []byte) (*http.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			if err := sleep(ctx, retryDelay(lastErr, attempt-1)); err != nil {
				return nil, err
			}
		}

		req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("x-api-key", c.apiKey)
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.http.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, fmt.Errorf("request cancelled: %w", ctx.Err())
			}
			lastErr = fmt.Errorf("%s %s: %w", method, url, err)
			continue
		}

		if resp.StatusCode == http.StatusOK {
			return resp, nil
		}

		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 200))
		resp.Body.Close()
		statusErr := &StatusError{Method: method, URL: url, Code: resp.StatusCode, Body: string(snippet)}

		// Retry on 429 (rate limited) or 5xx (server error).
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			if ra, perr := strconv.Atoi(resp.Header.Get("Retry-After")); perr == nil && ra > 0 {
				statusErr.RetryAfter = min(time.Duration(ra)*time.Second, 30*time.Second)
			}
			lastErr = statusErr
			continue
		}
		return nil, statusErr
	}
	return nil, fmt.Errorf("GRID request failed after %d retries: %w", maxRetries, lastErr)
}

// StatusError is a non-200 GRID response.
type StatusError struct {
	Method, URL string
	Code        int
	Body        string
	RetryAfter  time.Duration
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: HTTP %d: %s", e.Method, e.URL, e.Code, e.Body)
}

func retryDelay(err error, attempt int) time.Duration {
	if se, ok := err.(*StatusError); ok && se.RetryAfter > 0 {
		return se.RetryAfter
	}
	return retryBackoffs[min(attempt, len(retryBackoffs)-1)]
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
