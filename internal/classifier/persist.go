package classifier

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/yourusername/grid-predictor/internal/config"
	"github.com/yourusername/grid-predictor/internal/models"
)

// artifactVersion is bumped whenever the envelope layout changes.
const artifactVersion = 1

// Artifact is the persisted form of a fitted model together with how it was
// trained. Exactly one of Forest and Logistic is set.
type Artifact struct {
	Version         int                `msgpack:"version"`
	Algorithm       string             `msgpack:"algorithm"`
	FeatureNames    []string           `msgpack:"feature_names"`
	Hyperparameters map[string]float64 `msgpack:"hyperparameters"`
	Metrics         Metrics            `msgpack:"metrics"`
	TrainedAt       time.Time          `msgpack:"trained_at"`
	Forest          *Forest            `msgpack:"forest,omitempty"`
	Logistic        *LogisticModel     `msgpack:"logistic,omitempty"`
}

// NewArtifact wraps a fitted model for persistence.
func NewArtifact(model Model, hyperparameters map[string]float64, metrics Metrics) (*Artifact, error) {
	a := &Artifact{
		Version:         artifactVersion,
		FeatureNames:    FeatureNames,
		Hyperparameters: hyperparameters,
		Metrics:         metrics,
		TrainedAt:       time.Now().UTC(),
	}
	switch m := model.(type) {
	case *Forest:
		a.Algorithm = config.AlgorithmRandomForest
		a.Forest = m
	case *LogisticModel:
		a.Algorithm = config.AlgorithmLogistic
		a.Logistic = m
	default:
		return nil, fmt.Errorf("cannot persist model of type %T", model)
	}
	return a, nil
}

// Model returns the fitted model held by the artifact.
func (a *Artifact) Model() (Model, error) {
	switch a.Algorithm {
	case config.AlgorithmRandomForest:
		if a.Forest == nil || len(a.Forest.Trees) == 0 {
			return nil, fmt.Errorf("%w: artifact has no trees", models.ErrModelNotTrained)
		}
		return a.Forest, nil
	case config.AlgorithmLogistic:
		if a.Logistic == nil || len(a.Logistic.Theta) == 0 {
			return nil, fmt.Errorf("%w: artifact has no coefficients", models.ErrModelNotTrained)
		}
		return a.Logistic, nil
	default:
		return nil, fmt.Errorf("unknown algorithm %q in artifact", a.Algorithm)
	}
}

// Save writes the artifact to path atomically.
func Save(path string, artifact *Artifact) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create model directory: %w", err)
	}

	f, err := os.CreateTemp(dir, "model-*.tmp")
	if err != nil {
		return err
	}
	tmpName := f.Name()
	defer os.Remove(tmpName)

	enc := msgpack.NewEncoder(f)
	if err := enc.Encode(artifact); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode model: %w", err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

// Load reads an artifact written by Save.
func Load(path string) (*Artifact, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s (run train first)", models.ErrMissingFile, path)
		}
		return nil, err
	}
	defer f.Close()

	var artifact Artifact
	if err := msgpack.NewDecoder(f).Decode(&artifact); err != nil {
		return nil, fmt.Errorf("failed to decode model %s: %w", path, err)
	}
	if artifact.Version != artifactVersion {
		return nil, fmt.Errorf("model %s has version %d, want %d", path, artifact.Version, artifactVersion)
	}
	return &artifact, nil
}

// LoadModel reads the artifact at path and returns its model.
func LoadModel(path string) (Model, *Artifact, error) {
	artifact, err := Load(path)
	if err != nil {
		return nil, nil, err
	}
	model, err := artifact.Model()
	if err != nil {
		return nil, nil, err
	}
	return model, artifact, nil
}
