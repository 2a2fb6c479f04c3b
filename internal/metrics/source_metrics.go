package metrics

import "github.com/prometheus/client_golang/prometheus"

// OpenF1 client metrics
var (
	OpenF1RequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "openf1_requests_total",
		Help:      "Total number of OpenF1 requests by endpoint and outcome",
	}, []string{"endpoint", "outcome"})

	OpenF1RequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "openf1_request_duration_seconds",
		Help:      "Latency of OpenF1 requests in seconds",
		Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
	}, []string{"endpoint"})

	CircuitBreakerTripsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "circuit_breaker_trips_total",
		Help:      "Total number of times the OpenF1 circuit breaker opened",
	})
)

// RecordOpenF1Request records one logical OpenF1 request. outcome is "ok",
// "cache_hit" or an error code.
func RecordOpenF1Request(endpoint, outcome string, durationSeconds float64) {
	OpenF1RequestsTotal.WithLabelValues(endpoint, outcome).Inc()
	if outcome != "cache_hit" {
		OpenF1RequestDuration.WithLabelValues(endpoint).Observe(durationSeconds)
	}
}

// RecordCircuitBreakerTrip records a circuit breaker trip event.
func RecordCircuitBreakerTrip() {
	CircuitBreakerTripsTotal.Inc()
}
