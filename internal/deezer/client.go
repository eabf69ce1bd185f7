// Package deezer provides a read-only client for the canonical catalog API:
// search, albums, artists, playlists, charts, genres and radios.
package deezer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"

	"github.com/wenslauce/Music-Wave/internal/logging"
)

const (
	// DefaultBaseURL is the public API. A proxy exposing the same paths may
	// be used instead.
	DefaultBaseURL = "https://api.deezer.com"
	userAgent      = "musicwave/1.0 (https://github.com/wenslauce/Music-Wave)"

	// Retry configuration
	maxRetries   = 3
	initialDelay = 2 * time.Second
	maxDelay     = 30 * time.Second

	// API error codes
	codeQuotaExceeded = 4
	codeDataNotFound  = 800

	maxBodySize = 8 << 20
)

// ErrNotFound is matched by API errors reporting missing data.
var ErrNotFound = errors.New("not found")

// APIError is an error payload returned with a 200 status.
type APIError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("deezer %s (%d): %s", e.Type, e.Code, e.Message)
}

// Is reports whether target is ErrNotFound and e is a missing-data error.
func (e *APIError) Is(target error) bool {
	return target == ErrNotFound && e.Code == codeDataNotFound
}

type errorEnvelope struct {
	Error *APIError `json:"error"`
}

// Cache stores raw response bodies by request key.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, data []byte)
}

// Client is a canonical-catalog API client.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	cache      Cache
	logger     *log.Logger
	retryDelay time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithRateLimit caps outgoing requests per second. Zero disables pacing.
func WithRateLimit(perSecond float64) Option {
	return func(c *Client) {
		if perSecond <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
	}
}

// WithCache serves repeated requests from cache.
func WithCache(cache Cache) Option {
	return func(c *Client) {
		c.cache = cache
	}
}

// WithLogger sets the logger for request diagnostics.
func WithLogger(l *log.Logger) Option {
	return func(c *Client) {
		c.logger = logging.OrDiscard(l)
	}
}

// New creates a new client. An empty baseURL selects DefaultBaseURL.
func New(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		// The API allows 50 requests per 5 seconds.
		limiter:    rate.NewLimiter(rate.Limit(8), 2),
		logger:     logging.Discard(),
		retryDelay: initialDelay,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// get fetches path with params and decodes the body into out.
func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	key := path
	if len(params) > 0 {
		key += "?" + params.Encode()
	}

	if c.cache != nil {
		if data, ok := c.cache.Get(key); ok {
			if err := json.Unmarshal(data, out); err == nil {
				return nil
			}
			c.logger.Debug("discarding undecodable cache entry", "key", key)
		}
	}

	body, err := c.doRequestWithRetry(ctx, c.baseURL+key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	if c.cache != nil {
		c.cache.Set(key, body)
	}
	return nil
}

// doRequestWithRetry performs a GET with exponential backoff on 5xx
// responses, network errors and quota errors.
func (c *Client) doRequestWithRetry(ctx context.Context, reqURL string) ([]byte, error) {
	var lastErr error
	delay := c.retryDelay

	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			c.logger.Debug("retrying request", "url", reqURL, "attempt", attempt, "delay", delay, "err", lastErr)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
			delay = min(delay*2, maxDelay)
		}

		body, retry, err := c.doRequest(ctx, reqURL)
		if err == nil {
			return body, nil
		}
		if !retry || ctx.Err() != nil {
			return nil, err
		}
		lastErr = err
	}

	return nil, fmt.Errorf("request failed after %d attempts: %w", maxRetries+1, lastErr)
}

// doRequest performs one GET. retry reports whether the failure is transient.
func (c *Client) doRequest(ctx context.Context, reqURL string) (body []byte, retry bool, err error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, false, fmt.Errorf("rate limit: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, false, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, true, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	body, err = io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, true, fmt.Errorf("read response: %w", err)
	}

	switch {
	case resp.StatusCode >= 500:
		return nil, true, fmt.Errorf("server error: %s", resp.Status)
	case resp.StatusCode == http.StatusNotFound:
		return nil, false, fmt.Errorf("%s: %w", resp.Status, ErrNotFound)
	case resp.StatusCode != http.StatusOK:
		return nil, false, fmt.Errorf("unexpected status: %s", resp.Status)
	}

	var env errorEnvelope
	if json.Unmarshal(body, &env) == nil && env.Error != nil {
		return nil, env.Error.Code == codeQuotaExceeded, env.Error
	}
	return body, false, nil
}
