package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/yourusername/grid-predictor/internal/database"
	"github.com/yourusername/grid-predictor/internal/models"
)

const runColumns = `id, country, year, strategy, session_key, display_scale, predicted_at`

var entryColumns = []string{
	"run_id", "rank", "driver_ref", "display_name", "team", "grid_position", "past_wins", "score",
}

// PostgresPredictionRepository implements PredictionRepository for PostgreSQL
type PostgresPredictionRepository struct {
	db *database.DB
}

// NewPostgresPredictionRepository creates a new prediction repository
func NewPostgresPredictionRepository(db *database.DB) PredictionRepository {
	return &PostgresPredictionRepository{db: db}
}

// Save inserts the run and its ranked entries in one transaction
func (r *PostgresPredictionRepository) Save(ctx context.Context, run *models.PredictionRun) error {
	if run.ID == uuid.Nil {
		run.ID = uuid.New()
	}

	return r.db.WithTransaction(ctx, func(tx pgx.Tx) error {
		query := `
			INSERT INTO prediction_runs (` + runColumns + `)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`
		_, err := tx.Exec(ctx, query,
			run.ID, run.Country, run.Year, run.Strategy, run.SessionKey, run.DisplayScale, run.PredictedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert prediction run: %w", err)
		}

		rows := make([][]interface{}, len(run.Entries))
		for i, e := range run.Entries {
			rows[i] = []interface{}{
				run.ID, i + 1, e.DriverRef, e.DisplayName, e.Team, e.GridPosition, e.PastWins, e.Score,
			}
		}

		_, err = tx.CopyFrom(ctx, pgx.Identifier{"prediction_entries"}, entryColumns, pgx.CopyFromRows(rows))
		if err != nil {
			return fmt.Errorf("failed to insert prediction entries: %w", err)
		}
		return nil
	})
}

// GetByID retrieves a run with its entries
func (r *PostgresPredictionRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.PredictionRun, error) {
	query := `SELECT ` + runColumns + ` FROM prediction_runs WHERE id = $1`
	return r.getOne(ctx, query, id)
}

// GetLatest retrieves the most recent run for a race
func (r *PostgresPredictionRepository) GetLatest(ctx context.Context, country string, year int) (*models.PredictionRun, error) {
	query := `
		SELECT ` + runColumns + `
		FROM prediction_runs
		WHERE country = $1 AND year = $2
		ORDER BY predicted_at DESC
		LIMIT 1
	`
	return r.getOne(ctx, query, country, year)
}

// ListRecent retrieves the latest runs across races without their entries
func (r *PostgresPredictionRepository) ListRecent(ctx context.Context, limit int) ([]*models.PredictionRun, error) {
	query := `
		SELECT ` + runColumns + `
		FROM prediction_runs
		ORDER BY predicted_at DESC
		LIMIT $1
	`

	rows, err := r.db.GetPool().Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query prediction runs: %w", err)
	}
	defer rows.Close()

	var runs []*models.PredictionRun
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}

	return runs, rows.Err()
}

func (r *PostgresPredictionRepository) getOne(ctx context.Context, query string, args ...interface{}) (*models.PredictionRun, error) {
	run, err := scanRun(r.db.GetPool().QueryRow(ctx, query, args...))
	if err != nil {
		return nil, err
	}

	entries, err := r.entries(ctx, run.ID)
	if err != nil {
		return nil, err
	}
	run.Entries = entries
	return run, nil
}

func (r *PostgresPredictionRepository) entries(ctx context.Context, runID uuid.UUID) ([]models.Prediction, error) {
	query := `
		SELECT driver_ref, display_name, team, grid_position, past_wins, score
		FROM prediction_entries
		WHERE run_id = $1
		ORDER BY rank ASC
	`

	rows, err := r.db.GetPool().Query(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query prediction entries: %w", err)
	}
	defer rows.Close()

	var entries []models.Prediction
	for rows.Next() {
		var e models.Prediction
		if err := rows.Scan(&e.DriverRef, &e.DisplayName, &e.Team, &e.GridPosition, &e.PastWins, &e.Score); err != nil {
			return nil, fmt.Errorf("failed to scan prediction entry: %w", err)
		}
		entries = append(entries, e)
	}

	return entries, rows.Err()
}

func scanRun(row pgx.Row) (*models.PredictionRun, error) {
	run := &models.PredictionRun{}
	err := row.Scan(
		&run.ID, &run.Country, &run.Year, &run.Strategy, &run.SessionKey, &run.DisplayScale, &run.PredictedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan prediction run: %w", err)
	}
	return run, nil
}
