// Package openf1 is a client for the read-only OpenF1 live timing API.
package openf1

// Session is a timed track session of a race weekend.
type Session struct {
	SessionKey       int    `json:"session_key"`
	MeetingKey       int    `json:"meeting_key"`
	SessionName      string `json:"session_name"`
	SessionType      string `json:"session_type"`
	CountryName      string `json:"country_name"`
	Location         string `json:"location"`
	CircuitShortName string `json:"circuit_short_name"`
	DateStart        string `json:"date_start"`
	Year             int    `json:"year"`
}

// Lap is one timed lap. LapDuration is nil for laps without a time.
type Lap struct {
	SessionKey   int      `json:"session_key"`
	DriverNumber int      `json:"driver_number"`
	LapNumber    int      `json:"lap_number"`
	LapDuration  *float64 `json:"lap_duration"`
	IsPitOutLap  *bool    `json:"is_pit_out_lap"`
}

// Valid reports whether the lap counts towards a driver's best time.
func (l Lap) Valid() bool {
	if l.LapDuration == nil {
		return false
	}
	return l.IsPitOutLap == nil || !*l.IsPitOutLap
}

// Driver is a driver entered in a meeting. Name fields may be absent.
type Driver struct {
	DriverNumber *int    `json:"driver_number"`
	MeetingKey   int     `json:"meeting_key"`
	SessionKey   int     `json:"session_key"`
	FirstName    *string `json:"first_name"`
	LastName     *string `json:"last_name"`
	FullName     *string `json:"full_name"`
	NameAcronym  *string `json:"name_acronym"`
	TeamName     *string `json:"team_name"`
	CountryCode  *string `json:"country_code"`
}
