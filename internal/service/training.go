package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/grid-predictor/internal/classifier"
	"github.com/yourusername/grid-predictor/internal/config"
	"github.com/yourusername/grid-predictor/internal/dataset"
	"github.com/yourusername/grid-predictor/internal/logger"
	"github.com/yourusername/grid-predictor/internal/metrics"
)

// TrainingReport summarises a training run
type TrainingReport struct {
	Algorithm string
	Samples   int
	Metrics   classifier.Metrics
	ModelPath string
	Duration  time.Duration
}

// TrainingService fits the classifier on the flat training table
type TrainingService struct {
	cfg    config.ModelConfig
	logger *logger.ModelLogger
}

// NewTrainingService creates a training service
func NewTrainingService(cfg config.ModelConfig, log *logrus.Logger) *TrainingService {
	return &TrainingService{
		cfg:    cfg,
		logger: logger.NewModelLogger(log),
	}
}

// Train reads datasetPath, fits the configured classifier, evaluates it on
// the training set and saves it to modelPath.
func (s *TrainingService) Train(ctx context.Context, datasetPath, modelPath string) (*TrainingReport, error) {
	start := time.Now()

	rows, err := dataset.ReadTrainingRows(datasetPath)
	if err != nil {
		return nil, err
	}
	features, labels := classifier.RowsToTrainingSet(rows)

	trainer, err := classifier.NewTrainer(s.cfg)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	model, err := trainer.Fit(features, labels)
	if err != nil {
		return nil, fmt.Errorf("failed to fit %s: %w", s.cfg.Algorithm, err)
	}

	evaluation, err := classifier.Evaluate(model, features, labels)
	if err != nil {
		return nil, fmt.Errorf("failed to evaluate model: %w", err)
	}
	duration := time.Since(start)
	s.logger.LogModelTraining(s.cfg.Algorithm, len(rows), duration, evaluation.AsMap())

	artifact, err := classifier.NewArtifact(model, classifier.Hyperparameters(s.cfg), evaluation)
	if err != nil {
		return nil, err
	}
	if err := classifier.Save(modelPath, artifact); err != nil {
		return nil, fmt.Errorf("failed to save model: %w", err)
	}
	s.logger.LogModelSaved(artifact.Algorithm, modelPath)
	metrics.RecordTraining(artifact.Algorithm, len(rows), evaluation.Accuracy, evaluation.LogLoss, duration.Seconds())

	return &TrainingReport{
		Algorithm: artifact.Algorithm,
		Samples:   len(rows),
		Metrics:   evaluation,
		ModelPath: modelPath,
		Duration:  duration,
	}, nil
}
