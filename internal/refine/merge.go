package refine

import (
	"strings"
	"unicode/utf8"

	"github.com/nguyentantai21042004/lecture-flow/internal/subtitle"
)

// Merging only joins entries that are close in time; gluing text across a
// long pause reads badly on screen.
const maxMergeGap = 0.5

// MergeOptions tune the fragment-merging pass.
type MergeOptions struct {
	// MinDuration marks entries shorter than this (seconds) as fragments.
	MinDuration float64
	// MaxChars caps the combined text length of a merge. Zero disables
	// the cap.
	MaxChars int
	// Dedupe collapses consecutive entries with identical text into one
	// entry covering both time ranges.
	Dedupe bool
}

// SmartMerge joins fragmented short entries with their neighbor and
// collapses consecutive duplicates. Merged timing covers the union of the
// merged entries; the entry count never increases. Entries are renumbered.
func SmartMerge(entries []subtitle.Entry, opts MergeOptions) []subtitle.Entry {
	if len(entries) == 0 {
		return nil
	}

	out := make([]subtitle.Entry, 0, len(entries))
	for _, e := range entries {
		if n := len(out); n > 0 {
			prev := &out[n-1]
			if opts.Dedupe && sameText(prev.Text, e.Text) {
				prev.End = e.End
				continue
			}
			if shouldMerge(*prev, e, opts) {
				prev.Text = subtitle.JoinText(prev.Text, e.Text)
				prev.End = e.End
				continue
			}
		}
		out = append(out, e)
	}

	subtitle.Renumber(out)
	return out
}

func sameText(a, b string) bool {
	return strings.TrimSpace(a) == strings.TrimSpace(b)
}

func shouldMerge(prev, next subtitle.Entry, opts MergeOptions) bool {
	if opts.MinDuration <= 0 {
		return false
	}
	if prev.Duration() >= opts.MinDuration && next.Duration() >= opts.MinDuration {
		return false
	}
	if next.Start-prev.End > maxMergeGap {
		return false
	}
	if opts.MaxChars > 0 {
		combined := utf8.RuneCountInString(prev.Text) + utf8.RuneCountInString(next.Text)
		if combined > opts.MaxChars {
			return false
		}
	}
	return true
}
