package scoring

import (
	"fmt"

	"github.com/yourusername/grid-predictor/internal/classifier"
	"github.com/yourusername/grid-predictor/internal/config"
	"github.com/yourusername/grid-predictor/internal/models"
)

// ModelStrategy reports the classifier's win probability for each entrant.
type ModelStrategy struct {
	model classifier.Model
}

// NewModelStrategy wraps a fitted classifier.
func NewModelStrategy(model classifier.Model) *ModelStrategy {
	return &ModelStrategy{model: model}
}

// Name returns the strategy name
func (s *ModelStrategy) Name() string {
	return config.StrategyModel
}

// Score predicts from (grid position, past wins). Scores are independent
// probabilities and are not normalised across the field.
func (s *ModelStrategy) Score(entries []models.GridEntry) ([]models.Prediction, error) {
	if err := requireEntries(entries); err != nil {
		return nil, err
	}

	predictions := make([]models.Prediction, len(entries))
	for i, e := range entries {
		p, err := s.model.PredictProbability(e.Features())
		if err != nil {
			return nil, fmt.Errorf("failed to score %s: %w", e.DriverRef, err)
		}
		predictions[i] = prediction(e, p)
	}
	return predictions, nil
}
