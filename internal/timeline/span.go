// Package timeline holds the pure segment model of a recording: classified
// spans of the source timeline, the cut list planned from its silences, and
// the time map that projects original instants onto the rewritten timeline.
package timeline

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// Tolerance for float jitter at span and cut boundaries.
const eps = 1e-6

var (
	// ErrInvalidSpanSequence reports span input that is not an ordered,
	// contiguous cover of the media timeline.
	ErrInvalidSpanSequence = errors.New("invalid span sequence")

	// ErrChronologyViolation reports subtitle ordering that cannot be
	// restored after projection. It signals a contract breach upstream and
	// is logged distinctly from ordinary processing failures.
	ErrChronologyViolation = errors.New("subtitle chronology violation")
)

// SpanKind classifies a span as speech or silence.
type SpanKind int

const (
	Speech SpanKind = iota
	Silence
)

func (k SpanKind) String() string {
	switch k {
	case Speech:
		return "speech"
	case Silence:
		return "silence"
	default:
		return fmt.Sprintf("SpanKind(%d)", int(k))
	}
}

// Span is one contiguous stretch of the source timeline.
type Span struct {
	Start float64
	End   float64
	Kind  SpanKind
}

// Duration returns the span length in seconds.
func (s Span) Duration() float64 {
	return s.End - s.Start
}

// Interval is a plain time range, the raw currency of silence and speech
// detectors before normalization into spans.
type Interval struct {
	Start float64
	End   float64
}

// ValidateSpans checks that spans are ordered, contiguous, and each covers
// a positive duration starting at or after zero.
func ValidateSpans(spans []Span) error {
	if len(spans) == 0 {
		return fmt.Errorf("%w: no spans", ErrInvalidSpanSequence)
	}
	if spans[0].Start < -eps {
		return fmt.Errorf("%w: first span starts at %.3f", ErrInvalidSpanSequence, spans[0].Start)
	}
	for i, s := range spans {
		if s.End-s.Start <= eps {
			return fmt.Errorf("%w: span %d [%.3f, %.3f] has non-positive duration",
				ErrInvalidSpanSequence, i, s.Start, s.End)
		}
		if i > 0 && math.Abs(s.Start-spans[i-1].End) > eps {
			return fmt.Errorf("%w: span %d ends at %.3f but span %d starts at %.3f",
				ErrInvalidSpanSequence, i-1, spans[i-1].End, i, s.Start)
		}
	}
	return nil
}

// SpansFromSpeech builds a full-coverage span sequence from detected speech
// intervals: gaps between them become silence. Intervals are clamped to
// [0, total], merged when overlapping, and sorted.
func SpansFromSpeech(speech []Interval, total float64) ([]Span, error) {
	return coverTimeline(speech, total, Speech, Silence)
}

// SpansFromSilence is the complement of SpansFromSpeech: detected silences
// become silence spans and everything between them speech.
func SpansFromSilence(silences []Interval, total float64) ([]Span, error) {
	return coverTimeline(silences, total, Silence, Speech)
}

func coverTimeline(detected []Interval, total float64, kind, gapKind SpanKind) ([]Span, error) {
	if total <= 0 {
		return nil, fmt.Errorf("%w: non-positive media duration %.3f", ErrInvalidSpanSequence, total)
	}

	merged := normalizeIntervals(detected, total)
	var spans []Span
	cursor := 0.0
	for _, iv := range merged {
		if iv.Start-cursor > eps {
			spans = append(spans, Span{Start: cursor, End: iv.Start, Kind: gapKind})
		} else {
			iv.Start = cursor // snap a sub-epsilon seam closed
		}
		spans = append(spans, Span{Start: iv.Start, End: iv.End, Kind: kind})
		cursor = iv.End
	}
	if total-cursor > eps {
		spans = append(spans, Span{Start: cursor, End: total, Kind: gapKind})
	} else if len(spans) > 0 {
		spans[len(spans)-1].End = total
	}
	if len(spans) == 0 {
		spans = []Span{{Start: 0, End: total, Kind: gapKind}}
	}
	return spans, nil
}

// normalizeIntervals clamps to [0, total], drops empties, sorts, and merges
// overlapping or touching intervals.
func normalizeIntervals(ivs []Interval, total float64) []Interval {
	clamped := make([]Interval, 0, len(ivs))
	for _, iv := range ivs {
		start := math.Max(0, iv.Start)
		end := math.Min(total, iv.End)
		if end-start > eps {
			clamped = append(clamped, Interval{Start: start, End: end})
		}
	}
	sort.Slice(clamped, func(i, j int) bool { return clamped[i].Start < clamped[j].Start })

	var merged []Interval
	for _, iv := range clamped {
		if n := len(merged); n > 0 && iv.Start <= merged[n-1].End+eps {
			if iv.End > merged[n-1].End {
				merged[n-1].End = iv.End
			}
			continue
		}
		merged = append(merged, iv)
	}
	return merged
}
