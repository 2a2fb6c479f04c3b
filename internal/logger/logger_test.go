package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestLogger() (*logrus.Logger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	log := newLogger(buf, "debug", "production")
	return log, buf
}

func parseLogOutput(buf *bytes.Buffer) map[string]interface{} {
	var logEntry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &logEntry); err != nil {
		return nil
	}
	return logEntry
}

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		input string
		want  logrus.Level
	}{
		{"debug", logrus.DebugLevel},
		{"warn", logrus.WarnLevel},
		{"error", logrus.ErrorLevel},
		{"nonsense", logrus.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			log := newLogger(&bytes.Buffer{}, tt.input, "development")
			assert.Equal(t, tt.want, log.GetLevel())
		})
	}
}

func TestNewLoggerFormatter(t *testing.T) {
	prod := newLogger(&bytes.Buffer{}, "info", "production")
	assert.IsType(t, &logrus.JSONFormatter{}, prod.Formatter)

	dev := newLogger(&bytes.Buffer{}, "info", "development")
	assert.IsType(t, &logrus.TextFormatter{}, dev.Formatter)
}

func TestPipelineLoggerTableLoaded(t *testing.T) {
	log, buf := setupTestLogger()

	NewPipelineLogger(log).LogTableLoaded("results", "data/results.csv", 12, []string{"raceId", "driverId"})

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "pipeline", logEntry["component"])
	assert.Equal(t, "results", logEntry["table"])
	assert.Equal(t, float64(12), logEntry["rows"])
}

func TestPipelineLoggerSkipsZero(t *testing.T) {
	log, buf := setupTestLogger()

	NewPipelineLogger(log).LogSkippedRows("qualifying", 0)

	assert.Zero(t, buf.Len())
}

func TestModelLoggerTraining(t *testing.T) {
	log, buf := setupTestLogger()

	NewModelLogger(log).LogModelTraining("random_forest", 400, 1500*time.Millisecond, map[string]float64{"accuracy": 0.95})

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "model", logEntry["component"])
	assert.Equal(t, float64(1500), logEntry["duration_ms"])
	assert.Equal(t, "Model training completed", logEntry["msg"])
}

func TestPredictionLoggerError(t *testing.T) {
	log, buf := setupTestLogger()

	NewPredictionLogger(log).LogPredictionError("Monaco", 2024, errors.New("no qualifying session"))

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "predictor", logEntry["component"])
	assert.Equal(t, "error", logEntry["level"])
	assert.Equal(t, "no qualifying session", logEntry["error"])
}
