package openf1

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/grid-predictor/internal/config"
	"github.com/yourusername/grid-predictor/internal/metrics"
)

// DefaultBaseURL is the public OpenF1 endpoint
const DefaultBaseURL = "https://api.openf1.org/v1"

// maxErrorBody caps how much of an error response is quoted in messages.
const maxErrorBody = 512

// Client fetches sessions, laps and drivers from OpenF1. Requests are issued
// one at a time by the caller; the client holds no per-request state.
type Client struct {
	httpClient *RateLimitedHTTPClient
	baseURL    string
	apiKey     string
	cache      *ResponseCache
	log        *logrus.Entry
}

// NewClient creates a new OpenF1 client. cache may be nil.
func NewClient(httpClient *RateLimitedHTTPClient, baseURL, apiKey string, cache *ResponseCache, log *logrus.Entry) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		cache:      cache,
		log:        log.WithField("component", sourceName),
	}
}

// NewClientFromConfig wires the HTTP client, cache and API client from config.
func NewClientFromConfig(cfg config.OpenF1Config, log *logrus.Entry) *Client {
	httpCfg := DefaultHTTPClientConfig()
	httpCfg.Timeout = cfg.Timeout()
	httpCfg.MaxRetries = cfg.MaxRetries
	httpCfg.RateLimit = cfg.RateLimit
	httpCfg.CircuitBreakerMax = cfg.CircuitBreakerMax

	return NewClient(
		NewRateLimitedHTTPClient(httpCfg, log),
		cfg.BaseURL,
		cfg.APIKey,
		NewResponseCache(cfg.CacheTTL()),
		log,
	)
}

// FindSession returns the session of a race weekend whose name matches
// sessionName case-insensitively.
func (c *Client) FindSession(ctx context.Context, country string, year int, sessionName string) (*Session, error) {
	params := url.Values{}
	params.Set("country_name", country)
	params.Set("year", strconv.Itoa(year))
	params.Set("session_name", sessionName)

	var sessions []Session
	if err := c.getJSON(ctx, "sessions", params, true, &sessions); err != nil {
		return nil, err
	}

	for i := range sessions {
		if strings.EqualFold(sessions[i].SessionName, sessionName) {
			return &sessions[i], nil
		}
	}
	return nil, NewDataSourceError(ErrCodeNotFound,
		fmt.Sprintf("no %s session found for %s %d", strings.ToLower(sessionName), country, year), nil)
}

// Laps returns every lap of a session. Lap data is never cached since it grows
// while the session runs.
func (c *Client) Laps(ctx context.Context, sessionKey int) ([]Lap, error) {
	params := url.Values{}
	params.Set("session_key", strconv.Itoa(sessionKey))

	var laps []Lap
	if err := c.getJSON(ctx, "laps", params, false, &laps); err != nil {
		return nil, err
	}
	if len(laps) == 0 {
		return nil, NewDataSourceError(ErrCodeNotFound,
			fmt.Sprintf("no lap data found for session_key %d", sessionKey), nil)
	}
	return laps, nil
}

// Drivers returns the drivers entered in a meeting.
func (c *Client) Drivers(ctx context.Context, meetingKey int) ([]Driver, error) {
	params := url.Values{}
	params.Set("meeting_key", strconv.Itoa(meetingKey))

	var drivers []Driver
	if err := c.getJSON(ctx, "drivers", params, true, &drivers); err != nil {
		return nil, err
	}
	if len(drivers) == 0 {
		return nil, NewDataSourceError(ErrCodeNotFound, "no driver data found for this meeting", nil)
	}
	return drivers, nil
}

// CacheStats reports response cache hits and misses since the client was
// created. Both are zero when caching is disabled.
func (c *Client) CacheStats() (hits, misses uint64) {
	if c.cache == nil {
		return 0, 0
	}
	return c.cache.Stats()
}

// Close releases idle connections
func (c *Client) Close() error {
	return c.httpClient.Close()
}

func (c *Client) getJSON(ctx context.Context, endpoint string, params url.Values, cacheable bool, out interface{}) error {
	target := fmt.Sprintf("%s/%s?%s", c.baseURL, endpoint, params.Encode())

	if cacheable {
		if body, ok := c.cache.Get(target); ok {
			c.log.WithField("endpoint", endpoint).Debug("Serving response from cache")
			metrics.RecordOpenF1Request(endpoint, "cache_hit", 0)
			return decode(body, out)
		}
	}

	start := time.Now()
	body, err := c.fetch(ctx, target)
	if err == nil {
		err = decode(body, out)
	}
	metrics.RecordOpenF1Request(endpoint, outcome(err), time.Since(start).Seconds())
	if err != nil {
		return err
	}

	if cacheable {
		c.cache.Set(target, body)
	}
	return nil
}

// outcome labels a request result for metrics.
func outcome(err error) string {
	if err == nil {
		return "ok"
	}
	var dsErr *DataSourceError
	if errors.As(err, &dsErr) {
		return dsErr.Code
	}
	return ErrCodeNetworkError
}

func (c *Client) fetch(ctx context.Context, target string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, NewDataSourceError(ErrCodeNetworkError, "failed to create request", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(ctx, req)
	if err != nil {
		var dsErr *DataSourceError
		if errors.As(err, &dsErr) {
			return nil, err
		}
		return nil, NewDataSourceError(ErrCodeNetworkError, "request failed", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusNotFound:
		return nil, NewDataSourceError(ErrCodeNotFound, "resource not found", nil)
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, NewDataSourceError(ErrCodeAuthenticationFailed, "request was not authorised", nil)
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, NewDataSourceError(ErrCodeRateLimitExceeded, "rate limit exceeded", nil)
	default:
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, NewDataSourceError(ErrCodeServerError,
			fmt.Sprintf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet))), nil)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, NewDataSourceError(ErrCodeNetworkError, "failed to read response", err)
	}
	return body, nil
}

func decode(body []byte, out interface{}) error {
	if err := json.Unmarshal(body, out); err != nil {
		return NewDataSourceError(ErrCodeInvalidData, "failed to parse response", err)
	}
	return nil
}
