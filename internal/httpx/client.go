// Package httpx wraps outbound HTTP calls with the retry, backoff, and
// rate-limiting policy shared by every external data source. Only GET is
// exposed: the upstream APIs are read-only and idempotent, which is what
// makes blind retries safe.
package httpx

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"golang.org/x/time/rate"
)

const (
	defaultTimeout        = 10 * time.Second
	defaultMaxAttempts    = 3
	defaultInitialBackoff = 600 * time.Millisecond

	// errorBodyLimit bounds how much of an upstream error body ends up in
	// error messages and logs.
	errorBodyLimit = 200
)

// Config controls a Client's timeout and retry behavior. Zero values fall
// back to the package defaults.
type Config struct {
	// Timeout bounds each individual attempt, including body read.
	Timeout time.Duration
	// UserAgent identifies this service to upstream operators. Public
	// Overpass instances require a contactable agent string.
	UserAgent string
	// MaxAttempts is the total number of tries, first call included.
	MaxAttempts int
	// InitialBackoff is the sleep before the second attempt; it doubles on
	// each subsequent one.
	InitialBackoff time.Duration
	// RequestsPerSecond throttles outbound calls across all goroutines
	// sharing the client. Zero disables throttling.
	RequestsPerSecond float64
}

// Client is a retrying HTTP client for idempotent requests.
type Client struct {
	httpClient     *http.Client
	userAgent      string
	maxAttempts    int
	initialBackoff time.Duration
	limiter        *rate.Limiter
	logger         *slog.Logger
}

// New creates a Client with the given policy.
func New(cfg Config, logger *slog.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = defaultMaxAttempts
	}
	if cfg.InitialBackoff <= 0 {
		cfg.InitialBackoff = defaultInitialBackoff
	}

	var limiter *rate.Limiter
	if cfg.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}

	return &Client{
		httpClient:     &http.Client{Timeout: cfg.Timeout},
		userAgent:      cfg.UserAgent,
		maxAttempts:    cfg.MaxAttempts,
		initialBackoff: cfg.InitialBackoff,
		limiter:        limiter,
		logger:         logger,
	}
}

// Get fetches rawURL and returns the response body. Transport failures and
// retryable statuses (429 and the transient 5xx family) are retried with
// exponential backoff up to the configured attempt budget; any other non-200
// status fails immediately. The returned error wraps the last failure.
func (c *Client) Get(ctx context.Context, rawURL string) ([]byte, error) {
	var body []byte
	attempt := 0

	op := func() error {
		attempt++
		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return backoff.Permanent(err)
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("create request: %w", err))
		}
		if c.userAgent != "" {
			req.Header.Set("User-Agent", c.userAgent)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			c.logger.Debug("request attempt failed", "url", rawURL, "attempt", attempt, "error", err)
			return fmt.Errorf("request: %w", err)
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("read response: %w", err)
		}

		if resp.StatusCode != http.StatusOK {
			statusErr := fmt.Errorf("status %d: %s", resp.StatusCode, truncate(data, errorBodyLimit))
			if !retryableStatus(resp.StatusCode) {
				return backoff.Permanent(statusErr)
			}
			c.logger.Debug("retryable status", "url", rawURL, "attempt", attempt, "status", resp.StatusCode)
			return statusErr
		}

		body = data
		return nil
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.initialBackoff
	b.Multiplier = 2
	b.MaxInterval = 30 * time.Second
	b.MaxElapsedTime = 0

	policy := backoff.WithMaxRetries(backoff.WithContext(b, ctx), uint64(c.maxAttempts-1))
	if err := backoff.Retry(op, policy); err != nil {
		return nil, fmt.Errorf("get %s: %w", rawURL, err)
	}
	return body, nil
}

// retryableStatus reports whether a response status warrants another attempt:
// rate limiting and the transient server-error family.
func retryableStatus(code int) bool {
	switch code {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}

func truncate(b []byte, limit int) string {
	s := strings.TrimSpace(string(b))
	if len(s) > limit {
		return s[:limit]
	}
	return s
}
