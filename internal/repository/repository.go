package repository

import (
	"fmt"

	"github.com/yourusername/grid-predictor/internal/database"
)

// Repositories holds all repository implementations
type Repositories struct {
	Prediction PredictionRepository
}

// NewRepositories creates the Postgres-backed repositories
func NewRepositories(db *database.DB) (*Repositories, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}

	return &Repositories{
		Prediction: NewPostgresPredictionRepository(db),
	}, nil
}

// NewInMemoryRepositories creates repositories that live for the process only
func NewInMemoryRepositories() *Repositories {
	return &Repositories{
		Prediction: NewInMemoryPredictionRepository(),
	}
}
