// Package dataset builds the flat training table from the historical race,
// result, driver and qualifying tables.
package dataset

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/yourusername/grid-predictor/internal/models"
)

// Historical table file names inside the data directory
const (
	RacesFile      = "races.csv"
	ResultsFile    = "results.csv"
	DriversFile    = "drivers.csv"
	QualifyingFile = "qualifying.csv"
)

// TableFiles lists the historical tables in load order.
var TableFiles = []string{RacesFile, ResultsFile, DriversFile, QualifyingFile}

// Column names shared across the historical tables
const (
	colRaceID             = "raceId"
	colDriverID           = "driverId"
	colDriverRef          = "driverRef"
	colYear               = "year"
	colPosition           = "position"
	colQualifyingPosition = "qualifying_position"
	colPastWins           = "past_wins"
	colIsWinner           = "is_winner"
)

// Tables holds the four historical tables as string-typed dataframes.
type Tables struct {
	Races      dataframe.DataFrame
	Results    dataframe.DataFrame
	Drivers    dataframe.DataFrame
	Qualifying dataframe.DataFrame
}

// RequireFiles checks that every historical table exists in dir.
func RequireFiles(dir string) error {
	var missing []string
	for _, name := range TableFiles {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			if os.IsNotExist(err) {
				missing = append(missing, name)
				continue
			}
			return fmt.Errorf("failed to stat %s: %w", name, err)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %v in %s", models.ErrMissingFile, missing, dir)
	}
	return nil
}

// LoadTables reads the four historical tables from dir. All files are checked
// before any is read.
func LoadTables(dir string) (Tables, error) {
	if err := RequireFiles(dir); err != nil {
		return Tables{}, err
	}

	var (
		tables Tables
		err    error
	)
	targets := map[string]*dataframe.DataFrame{
		RacesFile:      &tables.Races,
		ResultsFile:    &tables.Results,
		DriversFile:    &tables.Drivers,
		QualifyingFile: &tables.Qualifying,
	}
	for _, name := range TableFiles {
		if *targets[name], err = readCSV(filepath.Join(dir, name)); err != nil {
			return Tables{}, err
		}
	}
	return tables, nil
}

// readCSV loads a CSV file keeping every column as text. Ids are compared as
// strings by the joins and parsed once the table is flat.
func readCSV(path string) (dataframe.DataFrame, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return dataframe.DataFrame{}, fmt.Errorf("%w: %s", models.ErrMissingFile, path)
		}
		return dataframe.DataFrame{}, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	df := dataframe.ReadCSV(f,
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.HasHeader(true),
	)
	if df.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("failed to parse %s: %w", path, df.Err)
	}
	return df, nil
}

// requireColumns returns a ColumnError naming every column of want absent
// from df.
func requireColumns(step string, df dataframe.DataFrame, want ...string) error {
	names := df.Names()
	present := make(map[string]bool, len(names))
	for _, name := range names {
		present[name] = true
	}

	var missing []string
	for _, col := range want {
		if !present[col] {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return &models.ColumnError{Step: step, Missing: missing, Columns: names}
	}
	return nil
}
