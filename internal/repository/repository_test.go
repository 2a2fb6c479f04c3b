package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/grid-predictor/internal/database"
	"github.com/yourusername/grid-predictor/internal/models"
)

func newRun(country string, year int, at time.Time, favourite string) *models.PredictionRun {
	return &models.PredictionRun{
		Country:      country,
		Year:         year,
		Strategy:     "heuristic",
		SessionKey:   9001,
		DisplayScale: 150,
		PredictedAt:  at,
		Entries: []models.Prediction{
			{DriverRef: favourite, DisplayName: "Fav", Team: "Team A", GridPosition: 1, PastWins: 10, Score: 0.6},
			{DriverRef: "other", DisplayName: "Other", Team: "Team B", GridPosition: 2, PastWins: 0, Score: 0.4},
		},
	}
}

// exerciseRepository runs the same behavioural checks against any implementation.
func exerciseRepository(t *testing.T, repo PredictionRepository) {
	ctx := context.Background()
	base := time.Date(2025, 4, 5, 7, 0, 0, 0, time.UTC)

	first := newRun("Japan", 2025, base, "norris")
	second := newRun("Japan", 2025, base.Add(5*time.Minute), "max_verstappen")
	other := newRun("Bahrain", 2025, base.Add(10*time.Minute), "piastri")

	for _, run := range []*models.PredictionRun{first, second, other} {
		require.NoError(t, repo.Save(ctx, run))
		assert.NotEqual(t, uuid.Nil, run.ID)
	}

	got, err := repo.GetByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "Japan", got.Country)
	require.Len(t, got.Entries, 2)
	assert.Equal(t, "norris", got.Entries[0].DriverRef)
	assert.Equal(t, 0.4, got.Entries[1].Score)

	latest, err := repo.GetLatest(ctx, "Japan", 2025)
	require.NoError(t, err)
	assert.Equal(t, second.ID, latest.ID)
	assert.Equal(t, "max_verstappen", latest.Entries[0].DriverRef)

	_, err = repo.GetLatest(ctx, "Japan", 2024)
	assert.ErrorIs(t, err, models.ErrNotFound)

	_, err = repo.GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, models.ErrNotFound)

	recent, err := repo.ListRecent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, other.ID, recent[0].ID)
	assert.Equal(t, second.ID, recent[1].ID)
}

func TestInMemoryPredictionRepository(t *testing.T) {
	exerciseRepository(t, NewInMemoryPredictionRepository())
}

func TestInMemoryRepositoryStoresCopies(t *testing.T) {
	repo := NewInMemoryPredictionRepository()
	ctx := context.Background()

	run := newRun("Japan", 2025, time.Now(), "norris")
	require.NoError(t, repo.Save(ctx, run))
	run.Entries[0].Score = 0

	got, err := repo.GetByID(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, 0.6, got.Entries[0].Score)
}

func TestPostgresPredictionRepository(t *testing.T) {
	db := database.SetupTestDB(t)

	repos, err := NewRepositories(db)
	require.NoError(t, err)

	_, err = db.GetPool().Exec(context.Background(), "TRUNCATE prediction_runs CASCADE")
	require.NoError(t, err)

	exerciseRepository(t, repos.Prediction)
}

func TestNewRepositoriesRequiresDatabase(t *testing.T) {
	_, err := NewRepositories(nil)
	assert.Error(t, err)
	assert.NotNil(t, NewInMemoryRepositories().Prediction)
}
