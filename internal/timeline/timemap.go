package timeline

import (
	"fmt"
	"sort"
)

// TimeMap projects instants on the source timeline onto the rewritten
// timeline produced by removing a cut list. The mapping is monotonically
// non-decreasing: slope one outside cuts, flat inside them.
type TimeMap struct {
	cuts    CutList
	offsets []float64 // removed duration before each cut
	removed float64
	total   float64
}

// BuildTimeMap validates cuts against the media duration and precomputes
// the cumulative offsets the mapping needs.
func BuildTimeMap(cuts CutList, totalDuration float64) (*TimeMap, error) {
	if totalDuration <= 0 {
		return nil, fmt.Errorf("non-positive media duration %.3f", totalDuration)
	}

	offsets := make([]float64, len(cuts))
	var removed float64
	for i, c := range cuts {
		if c.Duration() <= eps {
			return nil, fmt.Errorf("cut %d [%.3f, %.3f] has non-positive duration", i, c.Start, c.End)
		}
		if c.Start < -eps || c.End > totalDuration+eps {
			return nil, fmt.Errorf("cut %d [%.3f, %.3f] outside media [0, %.3f]",
				i, c.Start, c.End, totalDuration)
		}
		if i > 0 && c.Start < cuts[i-1].End-eps {
			return nil, fmt.Errorf("cut %d starts at %.3f before cut %d ends at %.3f",
				i, c.Start, i-1, cuts[i-1].End)
		}
		offsets[i] = removed
		removed += c.Duration()
	}

	return &TimeMap{cuts: cuts, offsets: offsets, removed: removed, total: totalDuration}, nil
}

// Map returns the position of original instant t on the rewritten timeline.
// Instants inside a removed interval clamp to the cut's mapped start; input
// outside [0, total] clamps to the timeline bounds first.
func (tm *TimeMap) Map(t float64) float64 {
	if t < 0 {
		t = 0
	}
	if t > tm.total {
		t = tm.total
	}

	// First cut that ends after t.
	idx := sort.Search(len(tm.cuts), func(i int) bool { return tm.cuts[i].End > t })
	if idx < len(tm.cuts) && t >= tm.cuts[idx].Start {
		return tm.cuts[idx].Start - tm.offsets[idx]
	}
	if idx == 0 {
		return t
	}
	return t - tm.offsets[idx-1] - tm.cuts[idx-1].Duration()
}

// OutputDuration returns the rewritten timeline's total duration:
// the source duration minus the summed cut durations.
func (tm *TimeMap) OutputDuration() float64 {
	return tm.total - tm.removed
}

// RemovedDuration returns the summed duration of all cuts.
func (tm *TimeMap) RemovedDuration() float64 {
	return tm.removed
}

// Cuts returns the validated cut list backing the map.
func (tm *TimeMap) Cuts() CutList {
	return tm.cuts
}
