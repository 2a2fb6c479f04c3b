// Package metrics provides the centralized Prometheus registry for the predictor.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "grid_predictor"

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Prediction metrics
var (
	PredictionRunsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "prediction_runs_total",
		Help:      "Total number of prediction runs by strategy and outcome",
	}, []string{"strategy", "outcome"})
	UnknownDriversTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "unknown_drivers_total",
		Help:      "Total number of grid entrants missing from history or the driver listing",
	})
	GridSize = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "grid_size",
		Help:      "Number of entrants in the last predicted grid",
	})
	FavouriteScore = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "favourite_score",
		Help:      "Score of the highest ranked entrant in the last run",
	}, []string{"strategy"})
	PredictionDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "prediction_duration_seconds",
		Help:      "Duration of prediction runs in seconds",
		Buckets:   prometheus.DefBuckets,
	}, []string{"strategy"})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		registry.MustRegister(PredictionRunsTotal)
		registry.MustRegister(UnknownDriversTotal)
		registry.MustRegister(GridSize)
		registry.MustRegister(FavouriteScore)
		registry.MustRegister(PredictionDuration)

		registry.MustRegister(OpenF1RequestsTotal)
		registry.MustRegister(OpenF1RequestDuration)
		registry.MustRegister(CircuitBreakerTripsTotal)

		registry.MustRegister(TrainingRunsTotal)
		registry.MustRegister(TrainingDuration)
		registry.MustRegister(TrainingAccuracy)
		registry.MustRegister(TrainingLogLoss)
		registry.MustRegister(DatasetRows)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	if registry == nil {
		return InitRegistry()
	}
	return registry
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// RecordPrediction records a finished prediction run.
func RecordPrediction(strategy string, entrants int, favourite float64, durationSeconds float64) {
	PredictionRunsTotal.WithLabelValues(strategy, "success").Inc()
	PredictionDuration.WithLabelValues(strategy).Observe(durationSeconds)
	GridSize.Set(float64(entrants))
	FavouriteScore.WithLabelValues(strategy).Set(favourite)
}

// RecordPredictionFailure records a prediction run that returned an error.
func RecordPredictionFailure(strategy string) {
	PredictionRunsTotal.WithLabelValues(strategy, "failure").Inc()
}

// RecordUnknownDriver records an entrant resolved to a placeholder or 0 wins.
func RecordUnknownDriver() {
	UnknownDriversTotal.Inc()
}
