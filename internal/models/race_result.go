package models

// unclassifiedPosition is the marker used for drivers without a classified finish.
const unclassifiedPosition = `\N`

// Result is a driver's finishing position at a race. Position is kept as text
// because non-classified finishers carry a marker instead of a number.
type Result struct {
	RaceID   int    `json:"race_id" csv:"raceId"`
	DriverID int    `json:"driver_id" csv:"driverId"`
	Position string `json:"position" csv:"position"`
}

// IsWinner reports whether the result is a race win.
func (r *Result) IsWinner() bool {
	return r.Position == "1"
}

// IsClassified reports whether the driver has a numeric finishing position.
func (r *Result) IsClassified() bool {
	return r.Position != "" && r.Position != unclassifiedPosition
}
