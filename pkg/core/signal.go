// Package core provides the in-memory peak list model used by peakdedup:
// signals (retention time, m/z, intensity plus passthrough columns) and the
// tables that hold them.
package core

import (
	"fmt"
	"math"
	"sort"
)

// Signal represents a single detected peak measurement.
type Signal struct {
	RT        float64 // Retention time
	MZ        float64 // Mass-to-charge ratio, always > 0
	Intensity float64

	// Extras holds the raw values of all passthrough columns, positionally
	// aligned with the owning table's extras column names. The values are
	// carried verbatim and never interpreted numerically.
	Extras []string

	// OriginalIndex is the row's position in the input, assigned once at
	// ingestion and used for deterministic tie-breaking.
	OriginalIndex int
}

// InvalidSignalError reports a row that failed validation during table
// construction.
type InvalidSignalError struct {
	Row     int
	Field   string
	Message string
}

func (e *InvalidSignalError) Error() string {
	return fmt.Sprintf("invalid signal at row %d: %s %s", e.Row, e.Field, e.Message)
}

// SignalTable is an ordered sequence of signals sharing one extras schema.
// Tables are built once by appending parsed rows and are never mutated by
// consumers; all derived tables are fresh copies.
type SignalTable struct {
	columns []string
	rows    []Signal
}

// NewSignalTable creates an empty table whose rows carry the given extras
// columns, in order.
func NewSignalTable(extraColumns []string) *SignalTable {
	cols := make([]string, len(extraColumns))
	copy(cols, extraColumns)
	return &SignalTable{columns: cols}
}

// Append validates and adds one row. The row's OriginalIndex is assigned
// from its position, so Append is only meaningful during ingestion.
func (t *SignalTable) Append(rt, mz, intensity float64, extras []string) error {
	row := len(t.rows)

	if math.IsNaN(rt) || math.IsInf(rt, 0) {
		return &InvalidSignalError{Row: row, Field: "rt", Message: "must be finite"}
	}
	if math.IsNaN(mz) || math.IsInf(mz, 0) {
		return &InvalidSignalError{Row: row, Field: "mz", Message: "must be finite"}
	}
	if mz <= 0 {
		return &InvalidSignalError{Row: row, Field: "mz", Message: "must be positive"}
	}
	if math.IsNaN(intensity) || math.IsInf(intensity, 0) {
		return &InvalidSignalError{Row: row, Field: "intensity", Message: "must be finite"}
	}
	if len(extras) != len(t.columns) {
		return &InvalidSignalError{
			Row:     row,
			Field:   "extras",
			Message: fmt.Sprintf("expected %d values, got %d", len(t.columns), len(extras)),
		}
	}

	vals := make([]string, len(extras))
	copy(vals, extras)

	t.rows = append(t.rows, Signal{
		RT:            rt,
		MZ:            mz,
		Intensity:     intensity,
		Extras:        vals,
		OriginalIndex: row,
	})
	return nil
}

// Len returns the number of rows.
func (t *SignalTable) Len() int {
	return len(t.rows)
}

// Row returns the signal at position i.
func (t *SignalTable) Row(i int) Signal {
	return t.rows[i]
}

// Columns returns the extras column names, in order.
func (t *SignalTable) Columns() []string {
	cols := make([]string, len(t.columns))
	copy(cols, t.columns)
	return cols
}

// Select returns a new table containing only the chosen row positions, in
// their original relative order.
func (t *SignalTable) Select(keep map[int]struct{}) *SignalTable {
	positions := make([]int, 0, len(keep))
	for i := range keep {
		positions = append(positions, i)
	}
	sort.Ints(positions)
	return t.Reindex(positions)
}

// Reindex returns a new table containing the rows at the given positions,
// in the given order. Row identities (OriginalIndex) are preserved.
func (t *SignalTable) Reindex(positions []int) *SignalTable {
	out := NewSignalTable(t.columns)
	out.rows = make([]Signal, 0, len(positions))
	for _, i := range positions {
		out.rows = append(out.rows, t.rows[i])
	}
	return out
}
