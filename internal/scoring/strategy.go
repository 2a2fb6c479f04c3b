// Package scoring turns the live grid into win scores. Two interchangeable
// strategies exist: the trained classifier and a hand-tuned heuristic.
package scoring

import (
	"fmt"

	"github.com/yourusername/grid-predictor/internal/config"
	"github.com/yourusername/grid-predictor/internal/models"
)

// Strategy scores every entrant of a grid.
type Strategy interface {
	Name() string
	Score(entries []models.GridEntry) ([]models.Prediction, error)
}

// RandomSource yields uniform values in [0, 1). *rand.Rand satisfies it.
type RandomSource interface {
	Float64() float64
}

// DisplayScale returns the factor a strategy's scores are multiplied by for
// display. Heuristic scores are shares of the field and are scaled by 150.
func DisplayScale(strategy string) float64 {
	if strategy == config.StrategyHeuristic {
		return 150
	}
	return 100
}

func prediction(entry models.GridEntry, score float64) models.Prediction {
	return models.Prediction{
		DriverRef:    entry.DriverRef,
		Team:         entry.Team,
		GridPosition: entry.GridPosition,
		PastWins:     entry.PastWins,
		Score:        score,
	}
}

func requireEntries(entries []models.GridEntry) error {
	if len(entries) == 0 {
		return fmt.Errorf("%w: empty grid", models.ErrDataUnavailable)
	}
	return nil
}
