package scoring

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"gonum.org/v1/gonum/floats"

	"github.com/yourusername/grid-predictor/internal/config"
	"github.com/yourusername/grid-predictor/internal/models"
)

// Heuristic weights
const (
	gridDecay   = 0.3
	gridWeight  = 0.35
	winsWeight  = 0.35
	winsPower   = 0.5
	defaultLow  = 0.95
	defaultHigh = 1.05
)

// HeuristicStrategy scores entrants from grid position, career wins and a
// form multiplier, perturbs each score by a random factor and normalises the
// field to sum to one.
type HeuristicStrategy struct {
	formBoost map[string]float64
	rng       RandomSource
	low       float64
	high      float64
}

// Option configures a HeuristicStrategy
type Option func(*HeuristicStrategy)

// WithRandomSource injects the jitter source. Tests pass a seeded generator.
func WithRandomSource(rng RandomSource) Option {
	return func(s *HeuristicStrategy) {
		s.rng = rng
	}
}

// WithFormBoost replaces the form multipliers. Drivers absent from boost get 1.
func WithFormBoost(boost map[string]float64) Option {
	return func(s *HeuristicStrategy) {
		s.formBoost = boost
	}
}

// WithJitter sets the bounds of the random factor. Equal bounds disable it.
func WithJitter(low, high float64) Option {
	return func(s *HeuristicStrategy) {
		s.low, s.high = low, high
	}
}

// NewHeuristicStrategy creates the heuristic with the default form table and
// a clock-seeded jitter source unless overridden.
func NewHeuristicStrategy(opts ...Option) *HeuristicStrategy {
	s := &HeuristicStrategy{
		formBoost: config.DefaultFormBoost(),
		low:       defaultLow,
		high:      defaultHigh,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return s
}

// NewRandomSource returns a generator seeded with seed, or with the clock when
// seed is zero.
func NewRandomSource(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

// Name returns the strategy name
func (s *HeuristicStrategy) Name() string {
	return config.StrategyHeuristic
}

// Boost returns the form multiplier for driverRef.
func (s *HeuristicStrategy) Boost(driverRef string) float64 {
	if b, ok := s.formBoost[driverRef]; ok {
		return b
	}
	return 1.0
}

// RawScore is the pre-jitter, pre-normalisation score of one entrant given
// the highest win count in the field.
func RawScore(gridPosition, pastWins, maxWins int, boost float64) float64 {
	gridScore := math.Exp(-gridDecay * float64(gridPosition-1))
	winScore := math.Pow(float64(pastWins)/math.Max(float64(maxWins), 1), winsPower)
	return (gridWeight*gridScore + winsWeight*winScore) * boost
}

// Score returns the normalised heuristic scores in grid order.
func (s *HeuristicStrategy) Score(entries []models.GridEntry) ([]models.Prediction, error) {
	if err := requireEntries(entries); err != nil {
		return nil, err
	}

	maxWins := 0
	for _, e := range entries {
		if e.PastWins < 0 {
			return nil, fmt.Errorf("%w: %s has negative past wins", models.ErrInvalidRecord, e.DriverRef)
		}
		if e.PastWins > maxWins {
			maxWins = e.PastWins
		}
	}

	scores := make([]float64, len(entries))
	for i, e := range entries {
		scores[i] = RawScore(e.GridPosition, e.PastWins, maxWins, s.Boost(e.DriverRef)) * s.jitter()
	}

	total := floats.Sum(scores)
	if total <= 0 || math.IsNaN(total) || math.IsInf(total, 0) {
		return nil, fmt.Errorf("cannot normalise scores with total %v", total)
	}
	floats.Scale(1/total, scores)

	predictions := make([]models.Prediction, len(entries))
	for i, e := range entries {
		predictions[i] = prediction(e, scores[i])
	}
	return predictions, nil
}

func (s *HeuristicStrategy) jitter() float64 {
	return s.low + (s.high-s.low)*s.rng.Float64()
}
