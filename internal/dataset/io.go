package dataset

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/yourusername/grid-predictor/internal/models"
)

// WriteTrainingRows persists rows as CSV with the training column header.
func WriteTrainingRows(path string, rows []models.TrainingRow) error {
	refs := make([]string, len(rows))
	qual := make([]int, len(rows))
	wins := make([]int, len(rows))
	winners := make([]int, len(rows))
	for i, r := range rows {
		refs[i] = r.DriverRef
		qual[i] = r.QualifyingPosition
		wins[i] = r.PastWins
		winners[i] = r.IsWinner
	}

	df := dataframe.New(
		series.New(refs, series.String, colDriverRef),
		series.New(qual, series.Int, colQualifyingPosition),
		series.New(wins, series.Int, colPastWins),
		series.New(winners, series.Int, colIsWinner),
	)
	if df.Err != nil {
		return fmt.Errorf("failed to build training frame: %w", df.Err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create dataset directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create dataset file: %w", err)
	}
	defer f.Close()

	if err := df.WriteCSV(f); err != nil {
		return fmt.Errorf("failed to write dataset: %w", err)
	}
	return nil
}

// ReadTrainingRows loads a training table written by WriteTrainingRows. Counts
// written as floats ("2.0") are accepted.
func ReadTrainingRows(path string) ([]models.TrainingRow, error) {
	df, err := readCSV(path)
	if err != nil {
		return nil, err
	}
	if err := requireColumns("read "+filepath.Base(path), df, models.TrainingColumns...); err != nil {
		return nil, err
	}

	refs := df.Col(colDriverRef).Records()
	qual := df.Col(colQualifyingPosition).Records()
	wins := df.Col(colPastWins).Records()
	winners := df.Col(colIsWinner).Records()

	rows := make([]models.TrainingRow, len(refs))
	for i := range refs {
		var row models.TrainingRow
		row.DriverRef = refs[i]
		if row.QualifyingPosition, err = parseCount(qual[i]); err != nil {
			return nil, rowError(path, i, colQualifyingPosition, err)
		}
		if row.PastWins, err = parseCount(wins[i]); err != nil {
			return nil, rowError(path, i, colPastWins, err)
		}
		if row.IsWinner, err = parseCount(winners[i]); err != nil {
			return nil, rowError(path, i, colIsWinner, err)
		}
		if row.IsWinner != 0 && row.IsWinner != 1 {
			return nil, rowError(path, i, colIsWinner,
				fmt.Errorf("%w: label %d", models.ErrInvalidRecord, row.IsWinner))
		}
		rows[i] = row
	}
	return rows, nil
}

// rowError reports a bad field using the 1-based data row number.
func rowError(path string, index int, column string, err error) error {
	return fmt.Errorf("%s row %s column %s: %w", path, strconv.Itoa(index+1), column, err)
}
