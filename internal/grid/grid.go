// Package grid reconstructs the starting grid of a race from qualifying laps
// and attaches driver identities from the live driver listing.
package grid

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/yourusername/grid-predictor/internal/models"
	"github.com/yourusername/grid-predictor/internal/openf1"
)

// Slot is a driver's grid position earned by their fastest valid lap.
type Slot struct {
	DriverNumber int
	Position     int
	BestLap      float64
}

type bestLap struct {
	time float64
}

// BuildGrid ranks drivers by their fastest valid lap, fastest first. Laps
// without a duration and pit-out laps are ignored; drivers with no valid lap
// are left off the grid. Lap time ties keep the lower driver number ahead.
func BuildGrid(laps []openf1.Lap) ([]Slot, error) {
	best := make(map[int]*bestLap)
	for _, lap := range laps {
		if !lap.Valid() {
			continue
		}
		b, ok := best[lap.DriverNumber]
		if !ok {
			best[lap.DriverNumber] = &bestLap{time: *lap.LapDuration}
			continue
		}
		if *lap.LapDuration < b.time {
			b.time = *lap.LapDuration
		}
	}

	if len(best) == 0 {
		return nil, fmt.Errorf("%w: no valid lap times found in %d laps", models.ErrDataUnavailable, len(laps))
	}

	slots := make([]Slot, 0, len(best))
	for number, b := range best {
		slots = append(slots, Slot{DriverNumber: number, BestLap: b.time})
	}
	sort.Slice(slots, func(i, j int) bool {
		if slots[i].BestLap != slots[j].BestLap {
			return slots[i].BestLap < slots[j].BestLap
		}
		return slots[i].DriverNumber < slots[j].DriverNumber
	})
	for i := range slots {
		slots[i].Position = i + 1
	}
	return slots, nil
}

// Identity is the historical reference and team of a live driver.
type Identity struct {
	DriverRef string
	Team      string
}

// Roster maps driver numbers to identities for one meeting.
type Roster map[int]Identity

// ResolveDrivers builds a roster from the live driver listing. The reference
// is the last name without spaces, lower-cased, then passed through aliases.
// Entries missing a number, last name or team are skipped.
func ResolveDrivers(drivers []openf1.Driver, aliases map[string]string) Roster {
	roster := make(Roster, len(drivers))
	for _, d := range drivers {
		if d.DriverNumber == nil || d.LastName == nil || d.TeamName == nil {
			continue
		}
		ref := NormalizeRef(*d.LastName)
		if alias, ok := aliases[ref]; ok {
			ref = alias
		}
		roster[*d.DriverNumber] = Identity{DriverRef: ref, Team: *d.TeamName}
	}
	return roster
}

// NormalizeRef turns a surname such as "De Vries" into "devries".
func NormalizeRef(lastName string) string {
	return strings.ToLower(strings.ReplaceAll(lastName, " ", ""))
}

// Lookup returns the identity for number, or a placeholder for drivers absent
// from the listing. The boolean reports whether the driver was listed.
func (r Roster) Lookup(number int) (Identity, bool) {
	if id, ok := r[number]; ok {
		return id, true
	}
	return Identity{
		DriverRef: "driver_" + strconv.Itoa(number),
		Team:      models.UnknownTeam,
	}, false
}

// Entries combines grid slots with the roster into grid entries. Past wins
// are filled in later from the training history.
func Entries(slots []Slot, roster Roster) []models.GridEntry {
	entries := make([]models.GridEntry, len(slots))
	for i, s := range slots {
		id, _ := roster.Lookup(s.DriverNumber)
		entries[i] = models.GridEntry{
			DriverNumber: s.DriverNumber,
			DriverRef:    id.DriverRef,
			Team:         id.Team,
			GridPosition: s.Position,
			BestLap:      s.BestLap,
		}
	}
	return entries
}
