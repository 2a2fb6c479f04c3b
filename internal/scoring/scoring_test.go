package scoring

import (
	"errors"
	"math"
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/grid-predictor/internal/config"
	"github.com/yourusername/grid-predictor/internal/models"
)

// constantSource always returns the same draw.
type constantSource float64

func (c constantSource) Float64() float64 { return float64(c) }

// alternatingSource returns the given draws in turn.
type alternatingSource struct {
	draws []float64
	i     int
}

func (a *alternatingSource) Float64() float64 {
	v := a.draws[a.i%len(a.draws)]
	a.i++
	return v
}

func threeDriverGrid() []models.GridEntry {
	return []models.GridEntry{
		{DriverRef: "a", Team: "Alpha", GridPosition: 1, BestLap: 90.1, PastWins: 0},
		{DriverRef: "b", Team: "Bravo", GridPosition: 2, BestLap: 90.5, PastWins: 5},
		{DriverRef: "c", Team: "Charlie", GridPosition: 3, BestLap: 91.0, PastWins: 2},
	}
}

func ranking(predictions []models.Prediction) []string {
	sorted := append([]models.Prediction(nil), predictions...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Score > sorted[j].Score })
	refs := make([]string, len(sorted))
	for i, p := range sorted {
		refs[i] = p.DriverRef
	}
	return refs
}

func sum(predictions []models.Prediction) float64 {
	var total float64
	for _, p := range predictions {
		total += p.Score
	}
	return total
}

func TestRawScoreDecaysWithGridPosition(t *testing.T) {
	for _, wins := range []int{0, 3, 10} {
		for _, boost := range []float64{1.0, 1.5} {
			prev := math.Inf(1)
			for pos := 1; pos <= 30; pos++ {
				score := RawScore(pos, wins, 10, boost)
				assert.Less(t, score, prev, "pos %d wins %d boost %v", pos, wins, boost)
				prev = score
			}
		}
	}
}

func TestRawScoreComponents(t *testing.T) {
	// pole sitter without wins: grid component only
	assert.InDelta(t, 0.35, RawScore(1, 0, 5, 1), 1e-12)
	// win share is square-rooted: 2 of 5 wins -> sqrt(0.4)
	assert.InDelta(t, 0.35*math.Exp(-0.6)+0.35*math.Sqrt(0.4), RawScore(3, 2, 5, 1), 1e-12)
	// a field without wins divides by one
	assert.InDelta(t, 0.35*math.Exp(-0.3), RawScore(2, 0, 0, 1), 1e-12)
}

func TestHeuristicScoresSumToOne(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for size := 1; size <= 25; size++ {
		entries := make([]models.GridEntry, size)
		for i := range entries {
			entries[i] = models.GridEntry{
				DriverRef:    "driver",
				GridPosition: i + 1,
				PastWins:     rng.Intn(60),
			}
		}

		strategy := NewHeuristicStrategy(WithRandomSource(rng))
		predictions, err := strategy.Score(entries)
		require.NoError(t, err)
		assert.InDelta(t, 1.0, sum(predictions), 1e-9, "field size %d", size)
	}
}

func TestThreeDriverScenario(t *testing.T) {
	entries := threeDriverGrid()

	// win scores relative to the best record in the field
	assert.InDelta(t, 0.0, math.Sqrt(0.0/5), 1e-9)
	assert.InDelta(t, 0.632, math.Sqrt(2.0/5), 1e-3)

	sources := map[string]RandomSource{
		"all low":          constantSource(0),
		"all high":         constantSource(0.999999),
		"leader low":       &alternatingSource{draws: []float64{0.999999, 0, 0.999999}},
		"challengers high": &alternatingSource{draws: []float64{0, 0.999999, 0}},
		"seeded":           rand.New(rand.NewSource(42)),
	}

	for name, source := range sources {
		t.Run(name, func(t *testing.T) {
			strategy := NewHeuristicStrategy(WithRandomSource(source), WithFormBoost(nil))

			predictions, err := strategy.Score(entries)
			require.NoError(t, err)

			assert.Equal(t, []string{"b", "c", "a"}, ranking(predictions))
			assert.InDelta(t, 1.0, sum(predictions), 1e-9)
			for i, p := range predictions {
				assert.Equal(t, entries[i].GridPosition, p.GridPosition)
				assert.Equal(t, entries[i].Team, p.Team)
			}
		})
	}
}

func TestJitterStaysWithinBounds(t *testing.T) {
	entries := threeDriverGrid()
	exact, err := NewHeuristicStrategy(WithJitter(1, 1), WithFormBoost(nil)).Score(entries)
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(99))
	for i := 0; i < 50; i++ {
		jittered, err := NewHeuristicStrategy(WithRandomSource(rng), WithFormBoost(nil)).Score(entries)
		require.NoError(t, err)

		// a factor in [0.95, 1.05] moves a normalised share by at most 1.05/0.95
		for j := range entries {
			ratio := jittered[j].Score / exact[j].Score
			assert.GreaterOrEqual(t, ratio, 0.95/1.05-1e-9)
			assert.LessOrEqual(t, ratio, 1.05/0.95+1e-9)
		}
	}
}

func TestSeededRunsAreReproducible(t *testing.T) {
	entries := threeDriverGrid()

	first, err := NewHeuristicStrategy(WithRandomSource(NewRandomSource(7))).Score(entries)
	require.NoError(t, err)
	second, err := NewHeuristicStrategy(WithRandomSource(NewRandomSource(7))).Score(entries)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestFormBoost(t *testing.T) {
	entries := []models.GridEntry{
		{DriverRef: "norris", GridPosition: 1},
		{DriverRef: "max_verstappen", GridPosition: 2},
	}

	strategy := NewHeuristicStrategy(WithJitter(1, 1))
	assert.Equal(t, 1.5, strategy.Boost("max_verstappen"))
	assert.Equal(t, 1.0, strategy.Boost("sargeant"))

	predictions, err := strategy.Score(entries)
	require.NoError(t, err)
	// 0.35*1.2 vs 0.35*exp(-0.3)*1.5
	assert.Greater(t, predictions[0].Score, predictions[1].Score)

	cfg := config.PredictorConfig{FormBoostOverrides: map[string]float64{"max_verstappen": 3}}
	boosted, err := NewHeuristicStrategy(WithJitter(1, 1), WithFormBoost(cfg.FormBoost())).Score(entries)
	require.NoError(t, err)
	assert.Greater(t, boosted[1].Score, boosted[0].Score)
}

func TestHeuristicRejectsEmptyGrid(t *testing.T) {
	_, err := NewHeuristicStrategy().Score(nil)
	assert.ErrorIs(t, err, models.ErrDataUnavailable)
}

type stubModel struct {
	probs map[float64]float64
	err   error
}

func (m stubModel) PredictProbability(features []float64) (float64, error) {
	if m.err != nil {
		return 0, m.err
	}
	return m.probs[features[0]], nil
}

func TestModelStrategyReportsProbabilitiesAsIs(t *testing.T) {
	strategy := NewModelStrategy(stubModel{probs: map[float64]float64{1: 0.6, 2: 0.3, 3: 0.05}})
	assert.Equal(t, config.StrategyModel, strategy.Name())

	predictions, err := strategy.Score(threeDriverGrid())
	require.NoError(t, err)

	assert.Equal(t, 0.6, predictions[0].Score)
	assert.Equal(t, 0.3, predictions[1].Score)
	assert.Equal(t, 0.05, predictions[2].Score)
	assert.Equal(t, 5, predictions[1].PastWins)
}

func TestModelStrategyPropagatesErrors(t *testing.T) {
	boom := errors.New("boom")
	_, err := NewModelStrategy(stubModel{err: boom}).Score(threeDriverGrid())
	assert.ErrorIs(t, err, boom)
}

func TestDisplayScale(t *testing.T) {
	assert.Equal(t, 150.0, DisplayScale(config.StrategyHeuristic))
	assert.Equal(t, 100.0, DisplayScale(config.StrategyModel))
}
