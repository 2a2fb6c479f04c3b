package models

// TrainingRow is one (driver, race) observation of the flat training table.
type TrainingRow struct {
	DriverRef          string `json:"driverRef" dataframe:"driverRef"`
	QualifyingPosition int    `json:"qualifying_position" dataframe:"qualifying_position"`
	PastWins           int    `json:"past_wins" dataframe:"past_wins"`
	IsWinner           int    `json:"is_winner" dataframe:"is_winner"`
}

// TrainingColumns is the column order of the persisted training table.
var TrainingColumns = []string{"driverRef", "qualifying_position", "past_wins", "is_winner"}

// Features returns the classifier input vector for the row.
func (r TrainingRow) Features() []float64 {
	return []float64{float64(r.QualifyingPosition), float64(r.PastWins)}
}

// Label returns the class label for the row.
func (r TrainingRow) Label() float64 {
	return float64(r.IsWinner)
}
