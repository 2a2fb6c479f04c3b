package openf1

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/grid-predictor/internal/models"
)

func testHTTPConfig() HTTPClientConfig {
	return HTTPClientConfig{
		Timeout:           2 * time.Second,
		MaxRetries:        2,
		RetryWaitMin:      time.Millisecond,
		RetryWaitMax:      2 * time.Millisecond,
		RateLimit:         1000,
		CircuitBreakerMax: 10,
		CircuitOpenFor:    time.Minute,
	}
}

func newTestClient(t *testing.T, handler http.Handler, cfg HTTPClientConfig, cache *ResponseCache) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	entry := logrus.NewEntry(log)

	return NewClient(NewRateLimitedHTTPClient(cfg, entry), server.URL, "", cache, entry)
}

func TestFindSessionMatchesNameCaseInsensitively(t *testing.T) {
	var query string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/sessions", r.URL.Path)
		query = r.URL.RawQuery
		w.Write([]byte(`[
			{"session_key": 9000, "meeting_key": 1250, "session_name": "Sprint Qualifying"},
			{"session_key": 9001, "meeting_key": 1250, "session_name": "QUALIFYING", "country_name": "China", "year": 2025}
		]`))
	})
	client := newTestClient(t, handler, testHTTPConfig(), nil)

	session, err := client.FindSession(context.Background(), "China", 2025, "Qualifying")
	require.NoError(t, err)

	assert.Equal(t, 9001, session.SessionKey)
	assert.Equal(t, 1250, session.MeetingKey)
	assert.Contains(t, query, "country_name=China")
	assert.Contains(t, query, "year=2025")
	assert.Contains(t, query, "session_name=Qualifying")
}

func TestEmptyResultsAreDataUnavailable(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	})
	client := newTestClient(t, handler, testHTTPConfig(), nil)
	ctx := context.Background()

	_, err := client.FindSession(ctx, "Atlantis", 2025, "Qualifying")
	assert.ErrorIs(t, err, models.ErrDataUnavailable)
	assert.Contains(t, err.Error(), "Atlantis 2025")

	_, err = client.Laps(ctx, 9001)
	assert.ErrorIs(t, err, models.ErrDataUnavailable)

	_, err = client.Drivers(ctx, 1250)
	assert.ErrorIs(t, err, models.ErrDataUnavailable)
}

func TestNotFoundStatusIsDataUnavailable(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":"No results found."}`, http.StatusNotFound)
	})
	client := newTestClient(t, handler, testHTTPConfig(), nil)

	_, err := client.Laps(context.Background(), 1)
	assert.ErrorIs(t, err, models.ErrDataUnavailable)
}

func TestLapsDecodesNullableFields(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "session_key=9001", r.URL.RawQuery)
		w.Write([]byte(`[
			{"driver_number": 1, "lap_number": 1, "lap_duration": null, "is_pit_out_lap": true},
			{"driver_number": 1, "lap_number": 2, "lap_duration": 91.2, "is_pit_out_lap": false},
			{"driver_number": 4, "lap_number": 2, "lap_duration": 90.9}
		]`))
	})
	client := newTestClient(t, handler, testHTTPConfig(), nil)

	laps, err := client.Laps(context.Background(), 9001)
	require.NoError(t, err)
	require.Len(t, laps, 3)

	assert.False(t, laps[0].Valid())
	assert.True(t, laps[1].Valid())
	assert.True(t, laps[2].Valid(), "missing pit-out flag counts as a timed lap")
	assert.Equal(t, 90.9, *laps[2].LapDuration)
}

func TestRetriesServerErrors(t *testing.T) {
	var attempts atomic.Int32
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`[{"driver_number": 81, "last_name": "Piastri", "team_name": "McLaren"}]`))
	})
	client := newTestClient(t, handler, testHTTPConfig(), nil)

	drivers, err := client.Drivers(context.Background(), 1250)
	require.NoError(t, err)
	assert.Equal(t, int32(3), attempts.Load())
	assert.Equal(t, "Piastri", *drivers[0].LastName)
}

func TestErrorClassification(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{"server error", http.StatusServiceUnavailable, "", ErrServerError},
		{"rate limited", http.StatusTooManyRequests, "", ErrRateLimitExceeded},
		{"unauthorised", http.StatusUnauthorized, "", ErrAuthenticationFailed},
		{"bad json", http.StatusOK, "{not json", ErrInvalidData},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})
			cfg := testHTTPConfig()
			cfg.MaxRetries = 0
			client := newTestClient(t, handler, cfg, nil)

			_, err := client.Laps(context.Background(), 1)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)

			var dsErr *DataSourceError
			require.ErrorAs(t, err, &dsErr)
			assert.Equal(t, "openf1", dsErr.Source)
		})
	}
}

func TestCircuitBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	var attempts atomic.Int32
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	})
	cfg := testHTTPConfig()
	cfg.MaxRetries = 0
	cfg.CircuitBreakerMax = 2
	client := newTestClient(t, handler, cfg, nil)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := client.Laps(ctx, 1)
		assert.ErrorIs(t, err, ErrServerError)
	}

	_, err := client.Laps(ctx, 1)
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.Equal(t, int32(2), attempts.Load(), "open breaker must not reach the server")
}

func TestDriversServedFromCache(t *testing.T) {
	var requests atomic.Int32
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		w.Write([]byte(`[{"driver_number": 1, "last_name": "Verstappen", "team_name": "Red Bull Racing"}]`))
	})
	cache := NewResponseCache(time.Minute)
	client := newTestClient(t, handler, testHTTPConfig(), cache)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		drivers, err := client.Drivers(ctx, 1250)
		require.NoError(t, err)
		require.Len(t, drivers, 1)
	}

	assert.Equal(t, int32(1), requests.Load())
	hits, misses := client.CacheStats()
	assert.Equal(t, uint64(2), hits)
	assert.Equal(t, uint64(1), misses)
}

func TestCacheStatsWithoutCache(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"driver_number": 1, "last_name": "Verstappen", "team_name": "Red Bull Racing"}]`))
	})
	client := newTestClient(t, handler, testHTTPConfig(), nil)

	_, err := client.Drivers(context.Background(), 1250)
	require.NoError(t, err)

	hits, misses := client.CacheStats()
	assert.Zero(t, hits)
	assert.Zero(t, misses)
}

func TestAPIKeySentAsBearerToken(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		w.Write([]byte(`[{"session_key": 1, "meeting_key": 2, "session_name": "Qualifying"}]`))
	})
	server := httptest.NewServer(handler)
	defer server.Close()

	client := NewClient(NewRateLimitedHTTPClient(testHTTPConfig(), nil), server.URL+"/", "secret", nil, nil)

	_, err := client.FindSession(context.Background(), "Japan", 2025, "Qualifying")
	require.NoError(t, err)
}

func TestNilCacheNeverStores(t *testing.T) {
	cache := NewResponseCache(0)
	cache.Set("k", []byte("v"))

	_, ok := cache.Get("k")
	assert.False(t, ok)
}
