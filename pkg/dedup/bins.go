package dedup

import (
	"math"

	"github.com/mzkit/peakdedup/pkg/core"
)

// binIndex partitions row positions into RT bins of width equal to the RT
// tolerance. Any tolerance window around a point spans at most one bin in
// either direction, so a signal's candidate set is exactly the contents of
// its own bin and the two adjacent ones. A zero width degenerates to
// exact-match search: bins are keyed by the RT value itself and only the
// signal's own bin is scanned.
type binIndex struct {
	width float64
	bins  map[int64][]int
}

func newBinIndex(table *core.SignalTable, width float64) *binIndex {
	idx := &binIndex{
		width: width,
		bins:  make(map[int64][]int),
	}
	for i := 0; i < table.Len(); i++ {
		k := idx.key(table.Row(i).RT)
		idx.bins[k] = append(idx.bins[k], i)
	}
	return idx
}

func (b *binIndex) key(rt float64) int64 {
	if b.width == 0 {
		if rt == 0 {
			return 0 // -0 and +0 share a bin
		}
		return int64(math.Float64bits(rt))
	}
	return int64(math.Floor(rt / b.width))
}

// visitNeighborhood calls fn with every row position whose bin could contain
// a candidate-duplicate of a signal at the given RT. Suppressed entries are
// not removed from the index; callers skip them during the scan.
func (b *binIndex) visitNeighborhood(rt float64, fn func(int)) {
	k := b.key(rt)
	if b.width == 0 {
		for _, i := range b.bins[k] {
			fn(i)
		}
		return
	}
	for nk := k - 1; nk <= k+1; nk++ {
		for _, i := range b.bins[nk] {
			fn(i)
		}
	}
}
