// Package service wires the data, model and live timing packages into the
// training and prediction pipelines.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/grid-predictor/internal/config"
	"github.com/yourusername/grid-predictor/internal/grid"
	"github.com/yourusername/grid-predictor/internal/logger"
	"github.com/yourusername/grid-predictor/internal/metrics"
	"github.com/yourusername/grid-predictor/internal/models"
	"github.com/yourusername/grid-predictor/internal/openf1"
	"github.com/yourusername/grid-predictor/internal/report"
	"github.com/yourusername/grid-predictor/internal/repository"
	"github.com/yourusername/grid-predictor/internal/scoring"
)

// LiveTiming is the subset of the OpenF1 client the predictor needs.
type LiveTiming interface {
	FindSession(ctx context.Context, country string, year int, sessionName string) (*openf1.Session, error)
	Laps(ctx context.Context, sessionKey int) ([]openf1.Lap, error)
	Drivers(ctx context.Context, meetingKey int) ([]openf1.Driver, error)
}

// WinHistory returns historical win counts by driver reference.
type WinHistory interface {
	PastWins(driverRef string) (int, bool)
}

// PredictRequest selects the race to predict.
type PredictRequest struct {
	Country string
	Year    int
}

// PredictorService predicts race winners from live qualifying data
type PredictorService struct {
	live     LiveTiming
	history  WinHistory
	strategy scoring.Strategy
	repo     repository.PredictionRepository
	cfg      config.PredictorConfig
	logger   *logger.PredictionLogger
	now      func() time.Time
}

// NewPredictorService creates a predictor. repo may be nil to skip storage.
func NewPredictorService(
	live LiveTiming,
	history WinHistory,
	strategy scoring.Strategy,
	repo repository.PredictionRepository,
	cfg config.PredictorConfig,
	log *logrus.Logger,
) *PredictorService {
	return &PredictorService{
		live:     live,
		history:  history,
		strategy: strategy,
		repo:     repo,
		cfg:      cfg,
		logger:   logger.NewPredictionLogger(log),
		now:      time.Now,
	}
}

// Predict fetches the qualifying session, laps and drivers in turn, builds the
// grid and returns the scored run sorted by descending score.
func (s *PredictorService) Predict(ctx context.Context, req PredictRequest) (*models.PredictionRun, error) {
	start := s.now()

	run, err := s.predict(ctx, req)
	if err != nil {
		metrics.RecordPredictionFailure(s.strategy.Name())
		s.logger.LogPredictionError(req.Country, req.Year, err)
		return nil, err
	}

	favourite, _ := run.Favourite()
	metrics.RecordPrediction(run.Strategy, len(run.Entries), favourite.Score, s.now().Sub(start).Seconds())
	s.logger.LogPrediction(run.Strategy, len(run.Entries), favourite.DriverRef, favourite.Score)
	return run, nil
}

func (s *PredictorService) predict(ctx context.Context, req PredictRequest) (*models.PredictionRun, error) {
	if strings.TrimSpace(req.Country) == "" || req.Year <= 0 {
		return nil, fmt.Errorf("%w: country and year are required", models.ErrInvalidRecord)
	}

	session, err := s.live.FindSession(ctx, req.Country, req.Year, s.cfg.SessionName)
	if err != nil {
		return nil, err
	}
	s.logger.LogSessionResolved(req.Country, req.Year, session.SessionKey, session.MeetingKey)

	laps, err := s.live.Laps(ctx, session.SessionKey)
	if err != nil {
		return nil, err
	}
	slots, err := grid.BuildGrid(laps)
	if err != nil {
		return nil, fmt.Errorf("session %d: %w", session.SessionKey, err)
	}
	s.logger.LogGridBuilt(len(laps), len(slots))

	drivers, err := s.live.Drivers(ctx, session.MeetingKey)
	if err != nil {
		return nil, err
	}
	entries := s.entries(slots, grid.ResolveDrivers(drivers, s.cfg.DriverAliases))

	predictions, err := s.strategy.Score(entries)
	if err != nil {
		return nil, fmt.Errorf("failed to score grid: %w", err)
	}
	for i := range predictions {
		predictions[i].DisplayName = report.DisplayName(predictions[i].DriverRef)
	}

	run := &models.PredictionRun{
		ID:           uuid.New(),
		Country:      req.Country,
		Year:         req.Year,
		Strategy:     s.strategy.Name(),
		SessionKey:   session.SessionKey,
		DisplayScale: s.displayScale(),
		Entries:      predictions,
		PredictedAt:  s.now().UTC(),
	}
	run.SortByScore()

	if err := s.store(ctx, run); err != nil {
		return nil, err
	}
	return run, nil
}

// entries attaches identities and past wins to the grid. Unknown drivers get a
// placeholder identity and zero wins.
func (s *PredictorService) entries(slots []grid.Slot, roster grid.Roster) []models.GridEntry {
	entries := grid.Entries(slots, roster)
	for i := range entries {
		if _, listed := roster.Lookup(entries[i].DriverNumber); !listed {
			s.logger.LogUnknownDriver(entries[i].DriverNumber, entries[i].DriverRef, "no_listing")
			metrics.RecordUnknownDriver()
		}

		wins, known := s.history.PastWins(entries[i].DriverRef)
		if !known {
			s.logger.LogUnknownDriver(entries[i].DriverNumber, entries[i].DriverRef, "no_history")
			metrics.RecordUnknownDriver()
		}
		entries[i].PastWins = wins
	}
	return entries
}

func (s *PredictorService) displayScale() float64 {
	if s.strategy.Name() == config.StrategyHeuristic && s.cfg.DisplayScale > 0 {
		return s.cfg.DisplayScale
	}
	return scoring.DisplayScale(s.strategy.Name())
}

// store saves the run and logs when the favourite differs from the previous
// run for the same race.
func (s *PredictorService) store(ctx context.Context, run *models.PredictionRun) error {
	if s.repo == nil {
		return nil
	}

	previous, err := s.repo.GetLatest(ctx, run.Country, run.Year)
	switch {
	case err == nil:
		before, _ := previous.Favourite()
		after, _ := run.Favourite()
		if before.DriverRef != after.DriverRef {
			s.logger.LogFavouriteChanged(before.DriverRef, after.DriverRef)
		}
	case !errors.Is(err, models.ErrNotFound):
		return fmt.Errorf("failed to load previous run: %w", err)
	}

	if err := s.repo.Save(ctx, run); err != nil {
		return fmt.Errorf("failed to store prediction run: %w", err)
	}
	return nil
}
