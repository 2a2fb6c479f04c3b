package classifier

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// logLossEpsilon clips probabilities away from 0 and 1.
const logLossEpsilon = 1e-15

// Metrics summarises a model's fit on a labelled set.
type Metrics struct {
	Samples      int     `msgpack:"samples" json:"samples"`
	Accuracy     float64 `msgpack:"accuracy" json:"accuracy"`
	LogLoss      float64 `msgpack:"log_loss" json:"log_loss"`
	PositiveRate float64 `msgpack:"positive_rate" json:"positive_rate"`
	MeanScore    float64 `msgpack:"mean_score" json:"mean_score"`
}

// Evaluate scores model on features and reports accuracy at a 0.5 threshold,
// mean log-loss and the share of positive labels.
func Evaluate(model Model, features [][]float64, labels []float64) (Metrics, error) {
	if len(features) == 0 {
		return Metrics{}, nil
	}
	if len(features) != len(labels) {
		return Metrics{}, fmt.Errorf("%w: %d feature rows for %d labels", ErrFeatureMismatch, len(features), len(labels))
	}

	probs := make([]float64, len(features))
	losses := make([]float64, len(features))
	hits := make([]float64, len(features))
	for i, x := range features {
		p, err := model.PredictProbability(x)
		if err != nil {
			return Metrics{}, fmt.Errorf("row %d: %w", i, err)
		}
		probs[i] = p

		clipped := math.Min(math.Max(p, logLossEpsilon), 1-logLossEpsilon)
		losses[i] = -(labels[i]*math.Log(clipped) + (1-labels[i])*math.Log(1-clipped))

		predicted := 0.0
		if p >= 0.5 {
			predicted = 1
		}
		if predicted == labels[i] {
			hits[i] = 1
		}
	}

	return Metrics{
		Samples:      len(features),
		Accuracy:     floats.Sum(hits) / float64(len(hits)),
		LogLoss:      stat.Mean(losses, nil),
		PositiveRate: stat.Mean(labels, nil),
		MeanScore:    stat.Mean(probs, nil),
	}, nil
}

// AsMap flattens the metrics for structured logging.
func (m Metrics) AsMap() map[string]float64 {
	return map[string]float64{
		"samples":       float64(m.Samples),
		"accuracy":      m.Accuracy,
		"log_loss":      m.LogLoss,
		"positive_rate": m.PositiveRate,
		"mean_score":    m.MeanScore,
	}
}
