// Package report renders prediction runs for the terminal and exports them to
// CSV and JSON.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/yourusername/grid-predictor/internal/models"
)

const (
	driverHeader      = "Driver"
	teamHeader        = "Team"
	probabilityHeader = "Win Probability"
	probabilityWidth  = 15
	columnPadding     = 2
	columnGap         = "  "
)

var titleCaser = cases.Title(language.English)

// DisplayName turns a driver reference such as "max_verstappen" into
// "Max Verstappen".
func DisplayName(driverRef string) string {
	return titleCaser.String(strings.ReplaceAll(driverRef, "_", " "))
}

// Percentage returns score × scale rounded to a whole number. With clamp set
// the result is limited to [0, 100].
func Percentage(score, scale float64, clamp bool) decimal.Decimal {
	pct := decimal.NewFromFloat(score).Mul(decimal.NewFromFloat(scale)).Round(0)
	if clamp {
		pct = decimal.Min(decimal.Max(pct, decimal.Zero), decimal.NewFromInt(100))
	}
	return pct
}

// TableOptions controls terminal rendering
type TableOptions struct {
	Clamp bool
	Color bool
}

// Table writes ranked prediction tables.
type Table struct {
	out     io.Writer
	opts    TableOptions
	heading *color.Color
}

// NewTable creates a table writer on out.
func NewTable(out io.Writer, opts TableOptions) *Table {
	heading := color.New(color.Bold, color.FgCyan)
	if opts.Color {
		heading.EnableColor()
	} else {
		heading.DisableColor()
	}
	return &Table{out: out, opts: opts, heading: heading}
}

// Render prints the title line, header, separator and one row per entry in
// the run's current order.
func (t *Table) Render(run *models.PredictionRun) error {
	names := make([]string, len(run.Entries))
	driverWidth, teamWidth := 0, 0
	for i, e := range run.Entries {
		names[i] = e.DisplayName
		if names[i] == "" {
			names[i] = DisplayName(e.DriverRef)
		}
		driverWidth = max(driverWidth, runewidth.StringWidth(names[i]))
		teamWidth = max(teamWidth, runewidth.StringWidth(e.Team))
	}
	driverWidth += columnPadding
	teamWidth += columnPadding

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(t.heading.Sprintf("Win probabilities for the %s Grand Prix %d:", run.Country, run.Year))
	b.WriteString("\n\n")

	b.WriteString(runewidth.FillRight(driverHeader, driverWidth))
	b.WriteString(columnGap)
	b.WriteString(runewidth.FillRight(teamHeader, teamWidth))
	b.WriteString(columnGap)
	b.WriteString(fmt.Sprintf("%*s\n", probabilityWidth, probabilityHeader))
	b.WriteString(strings.Repeat("-", driverWidth+teamWidth+probabilityWidth+2*len(columnGap)))
	b.WriteString("\n")

	for i, e := range run.Entries {
		pct := Percentage(e.Score, run.DisplayScale, t.opts.Clamp)
		b.WriteString(runewidth.FillRight(names[i], driverWidth))
		b.WriteString(columnGap)
		b.WriteString(runewidth.FillRight(e.Team, teamWidth))
		b.WriteString(columnGap)
		b.WriteString(fmt.Sprintf("%*s%%\n", probabilityWidth, pct.String()))
	}

	_, err := io.WriteString(t.out, b.String())
	return err
}
