// Package dedup implements tolerance-based duplicate suppression and
// intensity ranking for peak lists.
//
// Two signals are candidate-duplicates when their relative m/z difference is
// within a ppm tolerance and their retention times are within an absolute
// tolerance. The relation is symmetric but not transitive, so membership is
// resolved by greedy suppression in descending intensity order: the most
// intense signal claims its neighborhood first and every candidate-duplicate
// inside it is dropped. A survivor's intensity therefore always meets or
// exceeds everything it directly suppressed, though a chain of marginal
// neighbors can leave two survivors within tolerance of each other. That is
// the intended behavior, not a defect; see the package tests.
package dedup

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/mzkit/peakdedup/pkg/core"
)

// ppmFactor converts a parts-per-million tolerance to a fraction. The m/z
// tolerance is compared against relative differences, so a configured "20"
// means 20e-6.
const ppmFactor = 1e-6

// Config holds the engine parameters.
type Config struct {
	MZTolerancePPM float64 // Maximum relative m/z difference, in ppm
	RTTolerance    float64 // Maximum absolute RT difference
	TopN           int     // Maximum rows to return; 0 keeps all survivors
}

// InvalidConfigError reports an out-of-range engine parameter.
type InvalidConfigError struct {
	Param   string
	Message string
}

func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid configuration: %s %s", e.Param, e.Message)
}

// Validate checks that all parameters are in range.
func (c Config) Validate() error {
	if c.MZTolerancePPM < 0 {
		return &InvalidConfigError{Param: "mz tolerance (ppm)", Message: "must be >= 0"}
	}
	if c.RTTolerance < 0 {
		return &InvalidConfigError{Param: "rt tolerance", Message: "must be >= 0"}
	}
	if c.TopN < 0 {
		return &InvalidConfigError{Param: "top n", Message: "must be >= 0"}
	}
	return nil
}

// Stats summarizes one engine run.
type Stats struct {
	Input     int // Rows in the input table
	Survivors int // Rows remaining after suppression
	Output    int // Rows returned after truncation
}

// ErrEmptyInput is returned by callers that require a non-empty result. The
// engine itself accepts empty input and returns an empty table.
var ErrEmptyInput = errors.New("input contains no signals")

// Run deduplicates and ranks a table. The input is never modified; the
// returned table holds the surviving signals ordered by descending
// intensity (ties by original input order), truncated to cfg.TopN when
// that is positive. Run is deterministic for a given input and config.
func Run(table *core.SignalTable, cfg Config) (*core.SignalTable, Stats, error) {
	if err := cfg.Validate(); err != nil {
		return nil, Stats{}, err
	}

	n := table.Len()
	stats := Stats{Input: n}
	if n == 0 {
		return table.Reindex(nil), stats, nil
	}

	order := processingOrder(table)
	bins := newBinIndex(table, cfg.RTTolerance)
	suppressed := make([]bool, n)
	mzTol := cfg.MZTolerancePPM * ppmFactor

	// Walk in intensity order. Each surviving signal suppresses every
	// still-live candidate-duplicate in its neighborhood; because the walk
	// order is the ranking order, the survivors come out already ranked.
	survivors := make([]int, 0, n)
	for _, s := range order {
		if suppressed[s] {
			continue
		}
		survivors = append(survivors, s)

		sig := table.Row(s)
		bins.visitNeighborhood(sig.RT, func(i int) {
			if i == s || suppressed[i] {
				return
			}
			if isDuplicate(sig, table.Row(i), mzTol, cfg.RTTolerance) {
				suppressed[i] = true
			}
		})
	}

	stats.Survivors = len(survivors)
	if cfg.TopN > 0 && cfg.TopN < len(survivors) {
		survivors = survivors[:cfg.TopN]
	}
	stats.Output = len(survivors)

	return table.Reindex(survivors), stats, nil
}

// processingOrder returns all row positions sorted by intensity descending,
// original input order ascending. OriginalIndex values are unique, so the
// order is total.
func processingOrder(table *core.SignalTable) []int {
	order := make([]int, table.Len())
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		ra, rb := table.Row(order[a]), table.Row(order[b])
		if ra.Intensity != rb.Intensity {
			return ra.Intensity > rb.Intensity
		}
		return ra.OriginalIndex < rb.OriginalIndex
	})
	return order
}

// isDuplicate reports whether two signals fall within both tolerance
// windows. The relative m/z difference uses the larger m/z as reference.
func isDuplicate(a, b core.Signal, mzTol, rtTol float64) bool {
	if math.Abs(a.RT-b.RT) > rtTol {
		return false
	}
	ref := a.MZ
	if b.MZ > ref {
		ref = b.MZ
	}
	return math.Abs(a.MZ-b.MZ)/ref <= mzTol
}
