package metrics

import "github.com/prometheus/client_golang/prometheus"

// Dataset and training metrics
var (
	TrainingRunsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "training_runs_total",
		Help:      "Total number of model training runs by algorithm",
	}, []string{"algorithm"})

	TrainingDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "training_duration_seconds",
		Help:      "Duration of model training in seconds",
		Buckets:   []float64{0.1, 0.5, 1, 5, 10, 30, 60, 300},
	})

	TrainingAccuracy = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "training_accuracy",
		Help:      "Training set accuracy of the last fitted model",
	}, []string{"algorithm"})

	TrainingLogLoss = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "training_log_loss",
		Help:      "Training set log-loss of the last fitted model",
	}, []string{"algorithm"})

	DatasetRows = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "dataset_rows",
		Help:      "Number of rows in the last training table read or written",
	})
)

// RecordTraining records a completed training run.
func RecordTraining(algorithm string, samples int, accuracy, logLoss, durationSeconds float64) {
	TrainingRunsTotal.WithLabelValues(algorithm).Inc()
	TrainingDuration.Observe(durationSeconds)
	TrainingAccuracy.WithLabelValues(algorithm).Set(accuracy)
	TrainingLogLoss.WithLabelValues(algorithm).Set(logLoss)
	DatasetRows.Set(float64(samples))
}
