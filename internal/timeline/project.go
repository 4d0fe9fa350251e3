package timeline

import (
	"fmt"

	"github.com/nguyentantai21042004/lecture-flow/internal/subtitle"
)

// Entries shorter than this cannot be represented once SRT timestamps are
// quantized to milliseconds, so projection folds them into a neighbor.
const minEntryDuration = 0.001

// ProjectEntries rewrites subtitle timing from the source timeline onto the
// rewritten timeline described by tm. Start and end are mapped
// independently; an entry whose range collapses inside removed time folds
// into its following neighbor (or the preceding one when it is last), so no
// text is ever lost. Output entries are renumbered sequentially.
//
// The input must already satisfy the chronology invariant; a violation on
// either side of the projection returns ErrChronologyViolation.
func ProjectEntries(entries []subtitle.Entry, tm *TimeMap) ([]subtitle.Entry, error) {
	if err := subtitle.Validate(entries); err != nil {
		return nil, fmt.Errorf("%w: input: %v", ErrChronologyViolation, err)
	}

	var out []subtitle.Entry
	pending := ""
	for _, e := range entries {
		start := tm.Map(e.Start)
		end := tm.Map(e.End)
		if end-start < minEntryDuration-eps {
			// Collapsed inside removed time: carry the text forward.
			pending = subtitle.JoinText(pending, e.Text)
			continue
		}

		text := subtitle.JoinText(pending, e.Text)
		pending = ""
		if n := len(out); n > 0 {
			prev := &out[n-1]
			if start < prev.End-eps {
				if end <= prev.End+eps {
					// Fully inside the previous survivor.
					prev.Text = subtitle.JoinText(prev.Text, text)
					continue
				}
				start = prev.End
			}
		}
		out = append(out, subtitle.Entry{Start: start, End: end, Text: text})
	}

	if pending != "" {
		if len(out) == 0 {
			return nil, fmt.Errorf("%w: every entry collapsed into removed time", ErrChronologyViolation)
		}
		last := &out[len(out)-1]
		last.Text = subtitle.JoinText(last.Text, pending)
	}

	subtitle.Renumber(out)
	if err := subtitle.Validate(out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrChronologyViolation, err)
	}
	return out, nil
}
