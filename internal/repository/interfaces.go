package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/yourusername/grid-predictor/internal/models"
)

// PredictionRepository defines the interface for prediction run storage
type PredictionRepository interface {
	Save(ctx context.Context, run *models.PredictionRun) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.PredictionRun, error)
	GetLatest(ctx context.Context, country string, year int) (*models.PredictionRun, error)
	ListRecent(ctx context.Context, limit int) ([]*models.PredictionRun, error)
}
