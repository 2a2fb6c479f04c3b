package models

// UnknownTeam is the team shown for drivers missing from the live driver listing.
const UnknownTeam = "Unknown"

// GridEntry is an entrant of the upcoming race, positioned by best qualifying lap.
type GridEntry struct {
	DriverNumber int     `json:"driver_number"`
	DriverRef    string  `json:"driver_ref"`
	Team         string  `json:"team"`
	GridPosition int     `json:"grid_position"`
	BestLap      float64 `json:"best_lap"`
	PastWins     int     `json:"past_wins"`
}

// Features returns the classifier input vector for the entrant, matching
// TrainingRow.Features.
func (g GridEntry) Features() []float64 {
	return []float64{float64(g.GridPosition), float64(g.PastWins)}
}
