package logger

import (
	"time"

	"github.com/sirupsen/logrus"
)

// ModelLogger provides dedicated logging for classifier training.
type ModelLogger struct {
	*logrus.Entry
}

// NewModelLogger creates a new model logger.
func NewModelLogger(baseLogger *logrus.Logger) *ModelLogger {
	return &ModelLogger{
		Entry: baseLogger.WithField("component", "model"),
	}
}

// LogModelTraining logs a completed training run.
func (m *ModelLogger) LogModelTraining(algorithm string, samples int, duration time.Duration, metrics map[string]float64) {
	m.WithFields(logrus.Fields{
		"algorithm":   algorithm,
		"samples":     samples,
		"duration_ms": duration.Milliseconds(),
		"metrics":     metrics,
	}).Info("Model training completed")
}

// LogModelSaved logs the persisted model artifact.
func (m *ModelLogger) LogModelSaved(algorithm, path string) {
	m.WithFields(logrus.Fields{
		"algorithm": algorithm,
		"path":      path,
	}).Info("Model saved")
}
