package timeline

import "fmt"

// Cut is an interval removed from the source timeline.
type Cut struct {
	Start float64
	End   float64
}

// Duration returns the cut length in seconds.
func (c Cut) Duration() float64 {
	return c.End - c.Start
}

// CutList is an ordered, disjoint set of cuts.
type CutList []Cut

// TotalDuration returns the summed duration of all cuts.
func (cl CutList) TotalDuration() float64 {
	var total float64
	for _, c := range cl {
		total += c.Duration()
	}
	return total
}

// Shrink gives back pad seconds at both ends of every cut so speech never
// sits flush against an excision. Cuts that collapse entirely are dropped.
// Shrink(0) is the identity.
func (cl CutList) Shrink(pad float64) CutList {
	if pad <= 0 {
		return cl
	}
	var out CutList
	for _, c := range cl {
		shrunk := Cut{Start: c.Start + pad, End: c.End - pad}
		if shrunk.Duration() > eps {
			out = append(out, shrunk)
		}
	}
	return out
}

// PlanCuts selects every silence span lasting at least minGap as a cut.
// Shorter silences survive as natural pauses. Leading and trailing silence
// is treated the same as interior silence. Deterministic, no I/O.
func PlanCuts(spans []Span, minGap float64) (CutList, error) {
	if err := ValidateSpans(spans); err != nil {
		return nil, err
	}
	if minGap <= 0 {
		return nil, fmt.Errorf("min gap must be positive, got %.3f", minGap)
	}

	var cuts CutList
	for _, s := range spans {
		if s.Kind == Silence && s.Duration() >= minGap {
			cuts = append(cuts, Cut{Start: s.Start, End: s.End})
		}
	}
	return cuts, nil
}
