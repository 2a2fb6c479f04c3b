package models

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// Prediction is the score assigned to one entrant.
type Prediction struct {
	DriverRef    string  `json:"driver_ref"`
	DisplayName  string  `json:"display_name"`
	Team         string  `json:"team"`
	GridPosition int     `json:"grid_position"`
	PastWins     int     `json:"past_wins"`
	Score        float64 `json:"score"`
}

// PredictionRun is the ranked outcome of one prediction for a race.
type PredictionRun struct {
	ID           uuid.UUID    `db:"id" json:"id"`
	Country      string       `db:"country" json:"country"`
	Year         int          `db:"year" json:"year"`
	Strategy     string       `db:"strategy" json:"strategy"`
	SessionKey   int          `db:"session_key" json:"session_key"`
	DisplayScale float64      `db:"display_scale" json:"display_scale"`
	Entries      []Prediction `db:"-" json:"entries"`
	PredictedAt  time.Time    `db:"predicted_at" json:"predicted_at"`
}

// SortByScore orders the entries by descending score, breaking ties on grid position.
func (r *PredictionRun) SortByScore() {
	sort.SliceStable(r.Entries, func(i, j int) bool {
		if r.Entries[i].Score == r.Entries[j].Score {
			return r.Entries[i].GridPosition < r.Entries[j].GridPosition
		}
		return r.Entries[i].Score > r.Entries[j].Score
	})
}

// Favourite returns the highest scored entry, if any.
func (r *PredictionRun) Favourite() (Prediction, bool) {
	if len(r.Entries) == 0 {
		return Prediction{}, false
	}
	best := r.Entries[0]
	for _, e := range r.Entries[1:] {
		if e.Score > best.Score {
			best = e
		}
	}
	return best, true
}
