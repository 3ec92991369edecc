// Package grid models the editable table of duration rows that feeds the
// sample-based calculations. It keeps raw text, so a row the user is still
// typing survives until it is corrected or removed.
package grid

import (
	"errors"
	"fmt"
	"strings"

	"github.com/samijaber1/aegis-reliability/internal/duration"
)

// ErrRowOutOfRange is returned for row indexes outside the grid
var ErrRowOutOfRange = errors.New("row index out of range")

// RowStatus is the validation state of a single row
type RowStatus struct {
	Index int     `json:"index"`
	Raw   string  `json:"raw"`
	Hours float64 `json:"hours,omitempty"`
	Valid bool    `json:"valid"`
	Empty bool    `json:"empty"`
}

// Grid is an ordered list of raw duration rows. It is not safe for
// concurrent use; the owning calculator serialises access.
type Grid struct {
	rows []string
}

// New creates a grid seeded with the given rows
func New(initial []string) *Grid {
	g := &Grid{}
	g.Replace(initial)
	return g
}

// AddRow appends a row
func (g *Grid) AddRow(value string) {
	g.rows = append(g.rows, value)
}

// SetRow replaces the text of row i
func (g *Grid) SetRow(i int, value string) error {
	if i < 0 || i >= len(g.rows) {
		return fmt.Errorf("set row %d of %d: %w", i, len(g.rows), ErrRowOutOfRange)
	}
	g.rows[i] = value
	return nil
}

// RemoveRow deletes row i, shifting later rows up
func (g *Grid) RemoveRow(i int) error {
	if i < 0 || i >= len(g.rows) {
		return fmt.Errorf("remove row %d of %d: %w", i, len(g.rows), ErrRowOutOfRange)
	}
	g.rows = append(g.rows[:i], g.rows[i+1:]...)
	return nil
}

// Clear removes all rows
func (g *Grid) Clear() {
	g.rows = nil
}

// Replace swaps the whole row list for a copy of rows
func (g *Grid) Replace(rows []string) {
	g.rows = append([]string(nil), rows...)
}

// Len returns the number of rows, including empty ones
func (g *Grid) Len() int {
	return len(g.rows)
}

// Raw returns a copy of the row texts
func (g *Grid) Raw() []string {
	return append([]string(nil), g.rows...)
}

// Validate reports the status of every row
func (g *Grid) Validate() []RowStatus {
	statuses := make([]RowStatus, len(g.rows))
	for i, raw := range g.rows {
		hours, ok := duration.ParseHours(raw)
		statuses[i] = RowStatus{
			Index: i,
			Raw:   raw,
			Hours: hours,
			Valid: ok,
			Empty: strings.TrimSpace(raw) == "",
		}
	}
	return statuses
}

// HasInvalid reports whether any non-empty row fails to parse. Blank rows are
// never counted as invalid.
func (g *Grid) HasInvalid() bool {
	for _, st := range g.Validate() {
		if !st.Valid && !st.Empty {
			return true
		}
	}
	return false
}

// Values returns the parsed hours of every valid row, in row order
func (g *Grid) Values() []float64 {
	values := make([]float64, 0, len(g.rows))
	for _, raw := range g.rows {
		if hours, ok := duration.ParseHours(raw); ok {
			values = append(values, hours)
		}
	}
	return values
}
