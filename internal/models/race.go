package models

// Race is a historical race record keyed by its race identifier.
type Race struct {
	RaceID int `json:"race_id" csv:"raceId"`
	Year   int `json:"year" csv:"year"`
}

// Driver maps a numeric driver identifier to the reference name used as the
// join key between historical and live data.
type Driver struct {
	DriverID  int    `json:"driver_id" csv:"driverId"`
	DriverRef string `json:"driver_ref" csv:"driverRef"`
}

// QualifyingEntry is a driver's qualifying position at a race.
type QualifyingEntry struct {
	RaceID   int `json:"race_id" csv:"raceId"`
	DriverID int `json:"driver_id" csv:"driverId"`
	Position int `json:"position" csv:"position"`
}
