package subtitle

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf8"
)

// Tolerance for float jitter when comparing entry boundaries.
const timeEpsilon = 1e-6

// Entry is one subtitle cue: a 1-based sequential index, a time range in
// seconds from the start of the media, and the caption text.
type Entry struct {
	Index int
	Start float64
	End   float64
	Text  string
}

// Duration returns the entry's on-screen time in seconds.
func (e Entry) Duration() float64 {
	return e.End - e.Start
}

// Renumber rewrites indices to the 1-based sequential order SRT requires.
func Renumber(entries []Entry) {
	for i := range entries {
		entries[i].Index = i + 1
	}
}

// Quantize snaps entry times to millisecond precision so written SRT
// timestamps round-trip exactly.
func Quantize(entries []Entry) {
	for i := range entries {
		entries[i].Start = math.Round(entries[i].Start*1000) / 1000
		entries[i].End = math.Round(entries[i].End*1000) / 1000
	}
}

// Validate checks the chronology invariant: every entry spans a positive
// duration and entries are ordered without overlapping. Touching entries
// are fine.
func Validate(entries []Entry) error {
	for i, e := range entries {
		if e.End-e.Start <= 0 {
			return fmt.Errorf("entry %d: end %.3f not after start %.3f", i+1, e.End, e.Start)
		}
		if i > 0 && e.Start < entries[i-1].End-timeEpsilon {
			return fmt.Errorf("entry %d: starts at %.3f before entry %d ends at %.3f",
				i+1, e.Start, i, entries[i-1].End)
		}
	}
	return nil
}

// JoinText concatenates two caption fragments. A separating space is added
// only when both boundary characters belong to spaced scripts; CJK text
// joins directly.
func JoinText(a, b string) string {
	a = strings.TrimSpace(a)
	b = strings.TrimSpace(b)
	if a == "" {
		return b
	}
	if b == "" {
		return a
	}
	last, _ := utf8.DecodeLastRuneInString(a)
	first, _ := utf8.DecodeRuneInString(b)
	if isCJK(last) || isCJK(first) {
		return a + b
	}
	return a + " " + b
}

// Everything from the CJK Radicals Supplement upward: Han, kana, Hangul and
// the fullwidth forms. Good enough for spacing decisions.
func isCJK(r rune) bool {
	return r >= 0x2E80
}
