package dataset

import (
	"github.com/yourusername/grid-predictor/internal/models"
)

// History holds the total career wins per driver reference, as recorded in
// the training table.
type History struct {
	wins    map[string]int
	maxWins int
}

// NewHistory sums is_winner per driver reference.
func NewHistory(rows []models.TrainingRow) *History {
	h := &History{wins: make(map[string]int)}
	for _, r := range rows {
		h.wins[r.DriverRef] += r.IsWinner
	}
	for _, w := range h.wins {
		if w > h.maxWins {
			h.maxWins = w
		}
	}
	return h
}

// LoadHistory reads the training table at path into a History.
func LoadHistory(path string) (*History, error) {
	rows, err := ReadTrainingRows(path)
	if err != nil {
		return nil, err
	}
	return NewHistory(rows), nil
}

// PastWins returns the win count for driverRef and whether the driver is
// known. Unknown drivers have zero wins.
func (h *History) PastWins(driverRef string) (int, bool) {
	w, ok := h.wins[driverRef]
	return w, ok
}

// MaxWins returns the highest win count of any known driver.
func (h *History) MaxWins() int {
	return h.maxWins
}

// Drivers returns the number of distinct driver references.
func (h *History) Drivers() int {
	return len(h.wins)
}
