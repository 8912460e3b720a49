// Package engine implements the timeline edit engine: batch cuts, range
// deletion, element split, move, arrange, and ripple propagation. Every
// operation is a pure function taking a timeline value and returning a new
// one; the input is never mutated. Validation happens in full before any
// transform, so a non-nil error always means "nothing changed".
package engine

import (
	"fmt"
	"sort"
)

// Interval is a half-open [Start, End) range in seconds. For batch cuts the
// origin is the element's local content time (0 = element start); for range
// deletion it is the track's absolute time.
type Interval struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

func (iv Interval) Length() float64 {
	return iv.End - iv.Start
}

// ValidateIntervals sorts the given intervals by start and checks that each
// is well-formed and that no two overlap. Adjacent intervals
// (cur.Start == prev.End) are allowed. The input slice is not modified.
func ValidateIntervals(intervals []Interval) ([]Interval, error) {
	sorted := make([]Interval, len(intervals))
	copy(sorted, intervals)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Start < sorted[j].Start
	})

	for i, iv := range sorted {
		if iv.Start >= iv.End {
			return nil, fmt.Errorf("%w: start %v >= end %v", ErrInvalidInterval, iv.Start, iv.End)
		}
		if i > 0 && iv.Start < sorted[i-1].End {
			return nil, fmt.Errorf("%w: %v < %v", ErrOverlappingIntervals, iv.Start, sorted[i-1].End)
		}
	}
	return sorted, nil
}
