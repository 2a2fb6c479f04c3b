package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-gota/gota/dataframe"

	"github.com/yourusername/grid-predictor/internal/models"
)

// exportRow is one line of a CSV export.
type exportRow struct {
	Rank         int     `dataframe:"rank"`
	DriverRef    string  `dataframe:"driver_ref"`
	DisplayName  string  `dataframe:"display_name"`
	Team         string  `dataframe:"team"`
	GridPosition int     `dataframe:"grid_position"`
	PastWins     int     `dataframe:"past_wins"`
	Score        float64 `dataframe:"score"`
	Percentage   string  `dataframe:"percentage"`
}

// Export writes the run to path, choosing JSON for a .json extension and CSV
// otherwise.
func Export(path string, run *models.PredictionRun, clamp bool) error {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return WriteJSON(path, run)
	}
	return WriteCSV(path, run, clamp)
}

// WriteCSV writes one row per entry in ranked order.
func WriteCSV(path string, run *models.PredictionRun, clamp bool) error {
	if len(run.Entries) == 0 {
		return fmt.Errorf("%w: run has no entries", models.ErrDataUnavailable)
	}

	rows := make([]exportRow, len(run.Entries))
	for i, e := range run.Entries {
		name := e.DisplayName
		if name == "" {
			name = DisplayName(e.DriverRef)
		}
		rows[i] = exportRow{
			Rank:         i + 1,
			DriverRef:    e.DriverRef,
			DisplayName:  name,
			Team:         e.Team,
			GridPosition: e.GridPosition,
			PastWins:     e.PastWins,
			Score:        e.Score,
			Percentage:   Percentage(e.Score, run.DisplayScale, clamp).String(),
		}
	}

	df := dataframe.LoadStructs(rows)
	if df.Err != nil {
		return fmt.Errorf("failed to build export frame: %w", df.Err)
	}

	f, err := create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := df.WriteCSV(f); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	return nil
}

// WriteJSON writes the run as indented JSON.
func WriteJSON(path string, run *models.PredictionRun) error {
	data, err := json.MarshalIndent(run, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal run: %w", err)
	}

	f, err := create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = f.Write(data)
	return err
}

func create(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create export directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create export file: %w", err)
	}
	return f, nil
}
