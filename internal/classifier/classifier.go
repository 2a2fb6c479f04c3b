// Package classifier fits and persists the binary win classifier. Callers only
// see the Trainer and Model interfaces; the concrete algorithm and the file
// format are chosen by configuration.
package classifier

import (
	"errors"
	"fmt"
	"math"

	"github.com/yourusername/grid-predictor/internal/config"
	"github.com/yourusername/grid-predictor/internal/models"
)

// FeatureNames is the order of the classifier input vector.
var FeatureNames = []string{"qualifying_position", "past_wins"}

// ErrFeatureMismatch is returned when an input vector has the wrong length.
var ErrFeatureMismatch = errors.New("feature vector length mismatch")

// Trainer fits a model to labelled feature vectors.
type Trainer interface {
	Fit(features [][]float64, labels []float64) (Model, error)
}

// Model returns the probability of the positive class for one feature vector.
type Model interface {
	PredictProbability(features []float64) (float64, error)
}

// NewTrainer returns the trainer configured by cfg.
func NewTrainer(cfg config.ModelConfig) (Trainer, error) {
	switch cfg.Algorithm {
	case config.AlgorithmRandomForest:
		return &ForestTrainer{
			Trees:       cfg.Trees,
			MaxDepth:    cfg.MaxDepth,
			MinLeafSize: cfg.MinLeafSize,
			Seed:        cfg.Seed,
		}, nil
	case config.AlgorithmLogistic:
		return &LogisticTrainer{
			LearningRate: cfg.LearningRate,
			Iterations:   cfg.Iterations,
		}, nil
	default:
		return nil, fmt.Errorf("unknown algorithm %q", cfg.Algorithm)
	}
}

// validateTrainingSet checks that features and labels line up and that every
// label is 0 or 1.
func validateTrainingSet(features [][]float64, labels []float64) error {
	if len(features) == 0 {
		return fmt.Errorf("%w: empty training set", models.ErrModelNotTrained)
	}
	if len(features) != len(labels) {
		return fmt.Errorf("%w: %d feature rows for %d labels", ErrFeatureMismatch, len(features), len(labels))
	}
	width := len(features[0])
	for i, row := range features {
		if len(row) != width {
			return fmt.Errorf("%w: row %d has %d features, want %d", ErrFeatureMismatch, i, len(row), width)
		}
		for _, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("%w: row %d has a non-finite feature", models.ErrInvalidRecord, i)
			}
		}
		if labels[i] != 0 && labels[i] != 1 {
			return fmt.Errorf("%w: row %d has label %v", models.ErrInvalidRecord, i, labels[i])
		}
	}
	return nil
}

// RowsToTrainingSet splits training rows into feature vectors and labels.
func RowsToTrainingSet(rows []models.TrainingRow) ([][]float64, []float64) {
	features := make([][]float64, len(rows))
	labels := make([]float64, len(rows))
	for i, r := range rows {
		features[i] = r.Features()
		labels[i] = r.Label()
	}
	return features, labels
}

// Hyperparameters records the training settings stored alongside a model.
func Hyperparameters(cfg config.ModelConfig) map[string]float64 {
	switch cfg.Algorithm {
	case config.AlgorithmLogistic:
		return map[string]float64{
			"learning_rate": cfg.LearningRate,
			"iterations":    float64(cfg.Iterations),
		}
	default:
		return map[string]float64{
			"trees":         float64(cfg.Trees),
			"max_depth":     float64(cfg.MaxDepth),
			"min_leaf_size": float64(cfg.MinLeafSize),
			"seed":          float64(cfg.Seed),
		}
	}
}
