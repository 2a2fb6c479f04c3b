package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsRegistry(t *testing.T) {
	InitRegistry()
	registry := GetRegistry()

	assert.NotNil(t, registry)
	assert.IsType(t, &prometheus.Registry{}, registry)
	assert.Same(t, registry, InitRegistry())
}

func TestRecordPrediction(t *testing.T) {
	InitRegistry()
	before := testutil.ToFloat64(PredictionRunsTotal.WithLabelValues("heuristic", "success"))

	RecordPrediction("heuristic", 20, 0.31, 0.8)

	assert.Equal(t, before+1, testutil.ToFloat64(PredictionRunsTotal.WithLabelValues("heuristic", "success")))
	assert.Equal(t, 20.0, testutil.ToFloat64(GridSize))
	assert.Equal(t, 0.31, testutil.ToFloat64(FavouriteScore.WithLabelValues("heuristic")))
}

func TestRecordOpenF1Request(t *testing.T) {
	InitRegistry()

	tests := []struct {
		name     string
		endpoint string
		outcome  string
	}{
		{"success", "laps", "ok"},
		{"cache hit", "drivers", "cache_hit"},
		{"server error", "sessions", "server_error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := testutil.ToFloat64(OpenF1RequestsTotal.WithLabelValues(tt.endpoint, tt.outcome))
			RecordOpenF1Request(tt.endpoint, tt.outcome, 0.2)
			assert.Equal(t, before+1, testutil.ToFloat64(OpenF1RequestsTotal.WithLabelValues(tt.endpoint, tt.outcome)))
		})
	}
}

func TestRecordTraining(t *testing.T) {
	InitRegistry()

	assert.NotPanics(t, func() {
		RecordTraining("random_forest", 1200, 0.93, 0.21, 4.2)
	})
	assert.Equal(t, 0.93, testutil.ToFloat64(TrainingAccuracy.WithLabelValues("random_forest")))
	assert.Equal(t, 1200.0, testutil.ToFloat64(DatasetRows))
}

func TestHandlerServesRegisteredMetrics(t *testing.T) {
	InitRegistry()
	RecordCircuitBreakerTrip()

	server := httptest.NewServer(Handler())
	defer server.Close()

	resp, err := http.Get(server.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "grid_predictor_circuit_breaker_trips_total")
}
