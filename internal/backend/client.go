// Package backend provides the HTTP client for the vendor REST API.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"

	"github.com/grandstand/vendorboard/internal/cache"
)

// ErrUnauthorized is returned on 401/403 responses. The session layer
// reacts by forcing a logout; no partial-session recovery is attempted.
var ErrUnauthorized = errors.New("backend: unauthorized")

// APIError carries a non-2xx response that is not an auth failure.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend: request failed with status %d: %s", e.Status, e.Body)
}

// TokenSource supplies the bearer token attached to every request.
type TokenSource interface {
	Token() string
}

// TokenFunc adapts a plain function to a TokenSource.
type TokenFunc func() string

func (f TokenFunc) Token() string { return f() }

// RetryConfig controls retry behaviour for idempotent GET requests.
// Mutating requests are never retried: the backend is the sole arbiter
// of transition validity and a blind replay could double-apply.
type RetryConfig struct {
	Enabled         bool
	MaxRetries      int
	InitialInterval time.Duration
	MaxInterval     time.Duration
	Multiplier      float64
}

// DefaultRetryConfig returns the retry policy used for polling fetches.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		Enabled:         true,
		MaxRetries:      2,
		InitialInterval: 300 * time.Millisecond,
		MaxInterval:     2 * time.Second,
		Multiplier:      2,
	}
}

// Options configure the API client.
type Options struct {
	BaseURL string
	Tokens  TokenSource
	Timeout time.Duration
	Retry   RetryConfig
	// OnUnauthorized runs once per 401/403 response, before the request
	// error is returned. Used to trigger the global forced logout.
	OnUnauthorized func()
	HTTPClient     *http.Client
	// Cache, when set, memoizes low-frequency GET responses (profile,
	// menu, reports) for their configured TTLs.
	Cache cache.Store
}

// Client talks to the vendor backend over JSON/REST.
type Client struct {
	baseURL        string
	tokens         TokenSource
	retry          RetryConfig
	onUnauthorized func()
	client         *http.Client
	cache          cache.Store
}

// NewClient creates an API client for the given base URL.
func NewClient(opts Options) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Client{
		baseURL:        opts.BaseURL,
		tokens:         opts.Tokens,
		retry:          opts.Retry,
		onUnauthorized: opts.OnUnauthorized,
		client:         httpClient,
		cache:          opts.Cache,
	}
}

// cachedGet serves out from the memo cache when present, falling back
// to a real GET and storing the response for ttl.
func (c *Client) cachedGet(ctx context.Context, key, path string, ttl time.Duration, out any) error {
	if c.cache != nil {
		if ok, err := c.cache.GetJSON(ctx, key, out); err == nil && ok {
			return nil
		}
	}
	if err := c.get(ctx, path, out); err != nil {
		return err
	}
	if c.cache != nil {
		// 备忘失败不影响请求结果。
		_ = c.cache.SetJSON(ctx, key, out, ttl)
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	op := func() error {
		return c.do(ctx, http.MethodGet, path, nil, out)
	}
	if !c.retry.Enabled {
		return op()
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = c.retry.InitialInterval
	policy.MaxInterval = c.retry.MaxInterval
	policy.Multiplier = c.retry.Multiplier
	policy.MaxElapsedTime = 0

	attempts := 0
	for {
		err := op()
		if err == nil {
			return nil
		}
		if !isRetryable(err) || attempts >= c.retry.MaxRetries {
			return err
		}
		attempts++
		wait := policy.NextBackOff()
		if wait == backoff.Stop {
			return err
		}
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			if !timer.Stop() {
				<-timer.C
			}
			return ctx.Err()
		case <-timer.C:
		}
	}
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

func (c *Client) put(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPut, path, body, out)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		io.Copy(io.Discard, resp.Body)
		if c.onUnauthorized != nil {
			c.onUnauthorized()
		}
		return ErrUnauthorized
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &APIError{Status: resp.StatusCode, Body: string(data)}
	}
	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// isRetryable treats network-level failures and 5xx responses as
// transient. Auth failures and 4xx responses are final.
func isRetryable(err error) bool {
	if errors.Is(err, ErrUnauthorized) || errors.Is(err, context.Canceled) {
		return false
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status >= 500
	}
	var encErr *json.SyntaxError
	if errors.As(err, &encErr) {
		return false
	}
	// Transport errors (connection refused, timeouts) come wrapped.
	return true
}
