package feed

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/theoremus-urban-solutions/fleet-archiver/config"
	"github.com/theoremus-urban-solutions/fleet-archiver/fleet"
)

// FetchError is the terminal failure of one fetch: the attempt budget
// is spent or the response payload was unusable.
type FetchError struct {
	URL      string
	Status   int // last HTTP status; 0 when the failure was not an HTTP response
	Attempts int
	Err      error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("fetch %s: HTTP %d after %d attempt(s)", e.URL, e.Status, e.Attempts)
	}
	return fmt.Sprintf("fetch %s after %d attempt(s): %v", e.URL, e.Attempts, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Client retrieves fleet snapshots over HTTP. One Client reuses its
// pooled connections across fetches.
type Client struct {
	url       string
	userAgent string
	attempts  int
	initial   time.Duration
	client    *http.Client
}

// NewClient builds a fetch client from feed configuration.
func NewClient(cfg config.FeedConfig) *Client {
	timeout := cfg.Timeout()
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	attempts := cfg.Attempts
	if attempts <= 0 {
		attempts = 1
	}
	return &Client{
		url:       cfg.URL,
		userAgent: cfg.UserAgent,
		attempts:  attempts,
		initial:   time.Second,
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
				TLSHandshakeTimeout: 10 * time.Second,
			},
		},
	}
}

// newBackOff returns the retry delay policy: 1s, 2s, 4s, ... with no jitter.
func (c *Client) newBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.initial
	b.Multiplier = 2
	b.RandomizationFactor = 0
	return b
}

// Fetch performs one resilient retrieval: up to the configured attempt
// budget, with exponential backoff between attempts. Transport errors,
// timeouts, 429 and 5xx responses are retried; any other status is
// permanent. The decoded snapshot carries the fetch time.
func (c *Client) Fetch(ctx context.Context) (*fleet.Snapshot, error) {
	policy := c.newBackOff()

	var lastErr error
	attempts, lastStatus := 0, 0
	for attempts < c.attempts {
		attempts++
		data, status, err := c.fetchOnce(ctx)
		if err == nil {
			snap, derr := fleet.DecodeSnapshot(data, time.Now())
			if derr != nil {
				return nil, &FetchError{URL: c.url, Attempts: attempts, Err: derr}
			}
			return snap, nil
		}
		lastErr, lastStatus = err, status
		if !retryable(status) || attempts == c.attempts {
			break
		}
		select {
		case <-ctx.Done():
			return nil, &FetchError{URL: c.url, Attempts: attempts, Err: ctx.Err()}
		case <-time.After(policy.NextBackOff()):
		}
	}
	return nil, &FetchError{URL: c.url, Status: lastStatus, Attempts: attempts, Err: lastErr}
}

// fetchOnce issues a single GET with the cache-busting parameter.
func (c *Client) fetchOnce(ctx context.Context) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("build request: %w", err)
	}
	q := req.URL.Query()
	q.Set("v", strconv.FormatInt(time.Now().UnixMilli(), 10))
	req.URL.RawQuery = q.Encode()
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("GET %s: %w", c.url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Drain a little so the pooled connection stays reusable.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, resp.StatusCode, fmt.Errorf("HTTP %d from %s", resp.StatusCode, c.url)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("read response: %w", err)
	}
	return body, resp.StatusCode, nil
}

// retryable reports whether another attempt can help.
func retryable(status int) bool {
	switch {
	case status == 0:
		// Transport error or timeout, no response at all.
		return true
	case status == http.StatusTooManyRequests:
		return true
	case status >= 500:
		return true
	case status >= 200 && status < 300:
		// The response began but the body read failed.
		return true
	default:
		return false
	}
}
