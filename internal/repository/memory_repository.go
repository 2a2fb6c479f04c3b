package repository

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/yourusername/grid-predictor/internal/models"
)

// InMemoryPredictionRepository keeps runs for the lifetime of the process.
// Watch mode uses it when no database is configured.
type InMemoryPredictionRepository struct {
	mu   sync.RWMutex
	runs []*models.PredictionRun
}

// NewInMemoryPredictionRepository creates an empty repository
func NewInMemoryPredictionRepository() *InMemoryPredictionRepository {
	return &InMemoryPredictionRepository{}
}

// Save stores a copy of the run
func (r *InMemoryPredictionRepository) Save(ctx context.Context, run *models.PredictionRun) error {
	if run.ID == uuid.Nil {
		run.ID = uuid.New()
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.runs = append(r.runs, clone(run))
	return nil
}

// GetByID retrieves a run by ID
func (r *InMemoryPredictionRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.PredictionRun, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, run := range r.runs {
		if run.ID == id {
			return clone(run), nil
		}
	}
	return nil, models.ErrNotFound
}

// GetLatest retrieves the most recent run for a race
func (r *InMemoryPredictionRepository) GetLatest(ctx context.Context, country string, year int) (*models.PredictionRun, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var latest *models.PredictionRun
	for _, run := range r.runs {
		if !strings.EqualFold(run.Country, country) || run.Year != year {
			continue
		}
		if latest == nil || !run.PredictedAt.Before(latest.PredictedAt) {
			latest = run
		}
	}
	if latest == nil {
		return nil, models.ErrNotFound
	}
	return clone(latest), nil
}

// ListRecent retrieves the latest runs, newest first, without their entries
func (r *InMemoryPredictionRepository) ListRecent(ctx context.Context, limit int) ([]*models.PredictionRun, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	runs := make([]*models.PredictionRun, 0, len(r.runs))
	for _, run := range r.runs {
		summary := *run
		summary.Entries = nil
		runs = append(runs, &summary)
	}
	sort.SliceStable(runs, func(i, j int) bool {
		return runs[i].PredictedAt.After(runs[j].PredictedAt)
	})

	if limit >= 0 && len(runs) > limit {
		runs = runs[:limit]
	}
	return runs, nil
}

func clone(run *models.PredictionRun) *models.PredictionRun {
	c := *run
	c.Entries = append([]models.Prediction(nil), run.Entries...)
	return &c
}
