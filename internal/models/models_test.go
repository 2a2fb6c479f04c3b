package models

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSortByScore(t *testing.T) {
	run := &PredictionRun{Entries: []Prediction{
		{DriverRef: "c", GridPosition: 3, Score: 0.2},
		{DriverRef: "b", GridPosition: 2, Score: 0.4},
		{DriverRef: "a", GridPosition: 1, Score: 0.2},
		{DriverRef: "d", GridPosition: 4, Score: 0.2},
	}}

	run.SortByScore()

	var order []string
	for _, e := range run.Entries {
		order = append(order, e.DriverRef)
	}
	assert.Equal(t, []string{"b", "a", "c", "d"}, order)
}

func TestFavourite(t *testing.T) {
	tests := []struct {
		name    string
		entries []Prediction
		want    string
		ok      bool
	}{
		{name: "empty run", ok: false},
		{
			name:    "unsorted entries",
			entries: []Prediction{{DriverRef: "a", Score: 0.1}, {DriverRef: "b", Score: 0.7}, {DriverRef: "c", Score: 0.2}},
			want:    "b",
			ok:      true,
		},
		{
			name:    "first of equal scores",
			entries: []Prediction{{DriverRef: "a", Score: 0.5}, {DriverRef: "b", Score: 0.5}},
			want:    "a",
			ok:      true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			run := &PredictionRun{Entries: tt.entries}
			fav, ok := run.Favourite()
			require.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, fav.DriverRef)
		})
	}
}

func TestColumnError(t *testing.T) {
	var err error = &ColumnError{
		Step:    "merge results",
		Missing: []string{"positionOrder"},
		Columns: []string{"raceId", "driverId"},
	}
	wrapped := fmt.Errorf("build dataset: %w", err)

	assert.ErrorIs(t, wrapped, ErrMissingColumn)
	assert.EqualError(t, err, "merge results: missing columns [positionOrder]; current columns: [raceId, driverId]")

	var colErr *ColumnError
	require.True(t, errors.As(wrapped, &colErr))
	assert.Equal(t, "merge results", colErr.Step)
}
