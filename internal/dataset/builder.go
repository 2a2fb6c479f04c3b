package dataset

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/go-gota/gota/dataframe"

	"github.com/yourusername/grid-predictor/internal/logger"
	"github.com/yourusername/grid-predictor/internal/models"
)

// Pipeline step names, reported in logs and column errors
const (
	stepLoad            = "load tables"
	stepMergeRaces      = "merge races"
	stepMergeDrivers    = "merge drivers"
	stepMergeQualifying = "merge qualifying"
	stepProject         = "select training columns"
)

// raceEntry is one joined (race, driver) row before projection.
type raceEntry struct {
	RaceID             int
	Year               int
	DriverID           int
	DriverRef          string
	QualifyingPosition int
	Winner             bool
	PastWins           int
}

// Builder joins the historical tables into training rows.
type Builder struct {
	log *logger.PipelineLogger
}

// NewBuilder creates a dataset builder.
func NewBuilder(log *logger.PipelineLogger) *Builder {
	return &Builder{log: log}
}

// Build joins results, races, drivers and qualifying, derives the winner label
// and the prior-win count, and returns rows in chronological order.
func (b *Builder) Build(tables Tables) ([]models.TrainingRow, error) {
	if err := checkInputs(tables); err != nil {
		return nil, err
	}

	data := tables.Results.Select([]string{colRaceID, colDriverID, colPosition}).
		InnerJoin(tables.Races.Select([]string{colRaceID, colYear}), colRaceID)
	if err := b.afterStep(stepMergeRaces, data, colDriverID, colPosition, colYear); err != nil {
		return nil, err
	}

	data = data.InnerJoin(tables.Drivers.Select([]string{colDriverID, colDriverRef}), colDriverID)
	if err := b.afterStep(stepMergeDrivers, data, colRaceID, colDriverID, colDriverRef); err != nil {
		return nil, err
	}

	qualifying := tables.Qualifying.
		Select([]string{colRaceID, colDriverID, colPosition}).
		Rename(colQualifyingPosition, colPosition)
	data = data.InnerJoin(qualifying, colRaceID, colDriverID)
	if err := b.afterStep(stepMergeQualifying, data,
		colDriverRef, colQualifyingPosition, colPosition, colYear, colRaceID); err != nil {
		return nil, err
	}

	entries, skipped := extractEntries(data)
	b.log.LogSkippedRows("joined", skipped)

	sortChronologically(entries)
	assignPastWins(entries)

	rows := make([]models.TrainingRow, len(entries))
	for i, e := range entries {
		rows[i] = models.TrainingRow{
			DriverRef:          e.DriverRef,
			QualifyingPosition: e.QualifyingPosition,
			PastWins:           e.PastWins,
			IsWinner:           boolToInt(e.Winner),
		}
	}
	b.log.LogStep(stepProject, len(rows), models.TrainingColumns)
	return rows, nil
}

// BuildFile loads the tables from dataDir, builds the training rows and writes
// them to outPath.
func (b *Builder) BuildFile(dataDir, outPath string) ([]models.TrainingRow, error) {
	tables, err := LoadTables(dataDir)
	if err != nil {
		return nil, err
	}
	for i, df := range []dataframe.DataFrame{tables.Races, tables.Results, tables.Drivers, tables.Qualifying} {
		b.log.LogTableLoaded(strings.TrimSuffix(TableFiles[i], ".csv"), TableFiles[i], df.Nrow(), df.Names())
	}

	rows, err := b.Build(tables)
	if err != nil {
		return nil, err
	}

	if err := WriteTrainingRows(outPath, rows); err != nil {
		return nil, err
	}
	b.log.LogDatasetWritten(outPath, len(rows), countWinners(rows))
	return rows, nil
}

func (b *Builder) afterStep(step string, df dataframe.DataFrame, want ...string) error {
	if df.Err != nil {
		return fmt.Errorf("%s: %w", step, df.Err)
	}
	b.log.LogStep(step, df.Nrow(), df.Names())
	return requireColumns(step, df, want...)
}

func checkInputs(tables Tables) error {
	checks := []struct {
		name string
		df   dataframe.DataFrame
		cols []string
	}{
		{RacesFile, tables.Races, []string{colRaceID, colYear}},
		{ResultsFile, tables.Results, []string{colRaceID, colDriverID, colPosition}},
		{DriversFile, tables.Drivers, []string{colDriverID, colDriverRef}},
		{QualifyingFile, tables.Qualifying, []string{colRaceID, colDriverID, colPosition}},
	}
	for _, c := range checks {
		if err := requireColumns(stepLoad+" "+c.name, c.df, c.cols...); err != nil {
			return err
		}
	}
	return nil
}

// extractEntries parses the joined frame into typed rows. Rows with
// non-numeric ids or qualifying positions are skipped, as are repeated
// (race, driver) pairs, so the output never outgrows either input.
func extractEntries(df dataframe.DataFrame) ([]raceEntry, int) {
	raceIDs := df.Col(colRaceID).Records()
	years := df.Col(colYear).Records()
	driverIDs := df.Col(colDriverID).Records()
	refs := df.Col(colDriverRef).Records()
	qualPositions := df.Col(colQualifyingPosition).Records()
	positions := df.Col(colPosition).Records()

	type key struct{ race, driver int }
	seen := make(map[key]bool, len(raceIDs))
	entries := make([]raceEntry, 0, len(raceIDs))
	skipped := 0

	for i := range raceIDs {
		raceID, err1 := strconv.Atoi(strings.TrimSpace(raceIDs[i]))
		year, err2 := strconv.Atoi(strings.TrimSpace(years[i]))
		driverID, err3 := strconv.Atoi(strings.TrimSpace(driverIDs[i]))
		qual, err4 := parseCount(qualPositions[i])
		if err1 != nil || err2 != nil || err3 != nil || err4 != nil {
			skipped++
			continue
		}

		k := key{raceID, driverID}
		if seen[k] {
			skipped++
			continue
		}
		seen[k] = true

		result := models.Result{RaceID: raceID, DriverID: driverID, Position: strings.TrimSpace(positions[i])}
		entries = append(entries, raceEntry{
			RaceID:             raceID,
			Year:               year,
			DriverID:           driverID,
			DriverRef:          refs[i],
			QualifyingPosition: qual,
			Winner:             result.IsWinner(),
		})
	}
	return entries, skipped
}

// sortChronologically orders entries by (year, raceId). The sort is stable so
// rows of the same race keep their joined order.
func sortChronologically(entries []raceEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Year != entries[j].Year {
			return entries[i].Year < entries[j].Year
		}
		return entries[i].RaceID < entries[j].RaceID
	})
}

// assignPastWins sets each entry's PastWins to the number of wins its driver
// recorded in earlier entries. Entries must already be in chronological order.
func assignPastWins(entries []raceEntry) {
	wins := make(map[int]int)
	for i := range entries {
		id := entries[i].DriverID
		entries[i].PastWins = wins[id]
		if entries[i].Winner {
			wins[id]++
		}
	}
}

// parseCount accepts integer counts written either as "3" or "3.0".
func parseCount(s string) (int, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", models.ErrInvalidRecord, s)
	}
	if f != float64(int(f)) {
		return 0, fmt.Errorf("%w: %q is not a whole number", models.ErrInvalidRecord, s)
	}
	return int(f), nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func countWinners(rows []models.TrainingRow) int {
	n := 0
	for _, r := range rows {
		n += r.IsWinner
	}
	return n
}
