package classifier

import (
	"fmt"
	"io"

	"github.com/cdipaolo/goml/base"
	"github.com/cdipaolo/goml/linear"
)

// Logistic regression defaults
const (
	DefaultLearningRate = 0.0001
	DefaultIterations   = 1000
)

// LogisticTrainer fits a logistic regression by batch gradient ascent.
type LogisticTrainer struct {
	LearningRate   float64
	Iterations     int
	Regularization float64
	// Progress receives the optimiser's training output. Nil discards it.
	Progress io.Writer
}

// LogisticModel is a fitted logistic regression. Theta[0] is the intercept.
type LogisticModel struct {
	Theta []float64 `msgpack:"theta"`
}

// Fit runs gradient ascent over the full training set.
func (t *LogisticTrainer) Fit(features [][]float64, labels []float64) (Model, error) {
	if err := validateTrainingSet(features, labels); err != nil {
		return nil, err
	}

	alpha := t.LearningRate
	if alpha <= 0 {
		alpha = DefaultLearningRate
	}
	iterations := t.Iterations
	if iterations <= 0 {
		iterations = DefaultIterations
	}

	model := linear.NewLogistic(base.BatchGA, alpha, t.Regularization, iterations, features, labels)
	model.Output = t.Progress
	if model.Output == nil {
		model.Output = io.Discard
	}
	if err := model.Learn(); err != nil {
		return nil, fmt.Errorf("logistic regression failed to converge: %w", err)
	}

	theta := make([]float64, len(model.Parameters))
	copy(theta, model.Parameters)
	return &LogisticModel{Theta: theta}, nil
}

// PredictProbability evaluates the sigmoid of the linear predictor.
func (m *LogisticModel) PredictProbability(features []float64) (float64, error) {
	if len(features)+1 != len(m.Theta) {
		return 0, fmt.Errorf("%w: got %d features, want %d", ErrFeatureMismatch, len(features), len(m.Theta)-1)
	}

	// a zero-value goml model predicts from its parameters alone
	lr := &linear.Logistic{Parameters: m.Theta}
	out, err := lr.Predict(features)
	if err != nil {
		return 0, fmt.Errorf("logistic prediction failed: %w", err)
	}
	return out[0], nil
}
