package timeline

import (
	"errors"
	"math"
	"testing"

	"github.com/nguyentantai21042004/lecture-flow/internal/subtitle"
)

func mustTimeMap(t *testing.T, cuts CutList, total float64) *TimeMap {
	t.Helper()
	tm, err := BuildTimeMap(cuts, total)
	if err != nil {
		t.Fatalf("BuildTimeMap() error = %v", err)
	}
	return tm
}

func TestProjectEntriesShifts(t *testing.T) {
	// 60s lecture with a single 3s silence cut, as planned from spans
	// [speech 0-10, silence 10-13, speech 13-40, silence 40-40.3, speech 40.3-60]
	// at min gap 1.0.
	tm := mustTimeMap(t, CutList{{10, 13}}, 60)

	entries := []subtitle.Entry{
		{Index: 1, Start: 8.0, End: 9.5, Text: "before the gap"},
		{Index: 2, Start: 39.5, End: 41.0, Text: "after the gap"},
	}
	got, err := ProjectEntries(entries, tm)
	if err != nil {
		t.Fatalf("ProjectEntries() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d entries, want 2", len(got))
	}
	assertTiming(t, got[0], 8.0, 9.5)
	assertTiming(t, got[1], 36.5, 38.0)
	if tm.OutputDuration() != 57.0 {
		t.Errorf("OutputDuration() = %v, want 57", tm.OutputDuration())
	}
}

func TestProjectEntriesClampsIntoCut(t *testing.T) {
	tm := mustTimeMap(t, CutList{{20, 30}}, 60)

	// Straddles the cut start: end clamps to the cut's mapped start region.
	got, err := ProjectEntries([]subtitle.Entry{{Index: 1, Start: 18, End: 22, Text: "x"}}, tm)
	if err != nil {
		t.Fatalf("ProjectEntries() error = %v", err)
	}
	assertTiming(t, got[0], 18, 20)

	// Straddles the cut end: start clamps forward.
	got, err = ProjectEntries([]subtitle.Entry{{Index: 1, Start: 28, End: 33, Text: "y"}}, tm)
	if err != nil {
		t.Fatalf("ProjectEntries() error = %v", err)
	}
	assertTiming(t, got[0], 20, 23)
}

func TestProjectEntriesMergesCollapsedForward(t *testing.T) {
	tm := mustTimeMap(t, CutList{{10, 13}}, 60)

	entries := []subtitle.Entry{
		{Index: 1, Start: 8.0, End: 10.5, Text: "leading"},
		{Index: 2, Start: 10.8, End: 12.0, Text: "swallowed"},
		{Index: 3, Start: 13.5, End: 15.0, Text: "trailing"},
	}
	got, err := ProjectEntries(entries, tm)
	if err != nil {
		t.Fatalf("ProjectEntries() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d entries, want 2: %+v", len(got), got)
	}
	// The collapsed entry's text merges into the LATER neighbor.
	if got[1].Text != "swallowed trailing" {
		t.Errorf("later neighbor text = %q, want %q", got[1].Text, "swallowed trailing")
	}
	if got[0].Text != "leading" {
		t.Errorf("earlier neighbor text = %q, want untouched %q", got[0].Text, "leading")
	}
	assertTiming(t, got[0], 8.0, 10.0)
	assertTiming(t, got[1], 10.5, 12.0)
}

func TestProjectEntriesCollapsedTailMergesBackward(t *testing.T) {
	tm := mustTimeMap(t, CutList{{10, 13}}, 60)

	entries := []subtitle.Entry{
		{Index: 1, Start: 8.0, End: 9.5, Text: "body"},
		{Index: 2, Start: 10.5, End: 12.0, Text: "tail"},
	}
	got, err := ProjectEntries(entries, tm)
	if err != nil {
		t.Fatalf("ProjectEntries() error = %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d entries, want 1: %+v", len(got), got)
	}
	if got[0].Text != "body tail" {
		t.Errorf("text = %q, want %q", got[0].Text, "body tail")
	}
	assertTiming(t, got[0], 8.0, 9.5)
}

func TestProjectEntriesRenumbers(t *testing.T) {
	tm := mustTimeMap(t, CutList{{10, 13}}, 60)

	entries := []subtitle.Entry{
		{Index: 4, Start: 1, End: 2, Text: "a"},
		{Index: 9, Start: 10.2, End: 12.9, Text: "b"},
		{Index: 11, Start: 14, End: 15, Text: "c"},
	}
	got, err := ProjectEntries(entries, tm)
	if err != nil {
		t.Fatalf("ProjectEntries() error = %v", err)
	}
	for i, e := range got {
		if e.Index != i+1 {
			t.Errorf("entry %d has index %d, want %d", i, e.Index, i+1)
		}
	}
}

func TestProjectEntriesChronologyViolation(t *testing.T) {
	tm := mustTimeMap(t, CutList{{10, 13}}, 60)

	tests := []struct {
		name    string
		entries []subtitle.Entry
	}{
		{"inverted entry", []subtitle.Entry{{Index: 1, Start: 5, End: 4, Text: "x"}}},
		{"overlapping input", []subtitle.Entry{
			{Index: 1, Start: 1, End: 5, Text: "x"},
			{Index: 2, Start: 3, End: 6, Text: "y"},
		}},
		{"everything collapsed", []subtitle.Entry{{Index: 1, Start: 10.5, End: 12.5, Text: "x"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ProjectEntries(tt.entries, tm)
			if !errors.Is(err, ErrChronologyViolation) {
				t.Errorf("error = %v, want ErrChronologyViolation", err)
			}
		})
	}
}

func TestProjectEntriesEmpty(t *testing.T) {
	tm := mustTimeMap(t, CutList{{10, 13}}, 60)
	got, err := ProjectEntries(nil, tm)
	if err != nil {
		t.Fatalf("ProjectEntries() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("got %d entries, want 0", len(got))
	}
}

func assertTiming(t *testing.T, e subtitle.Entry, start, end float64) {
	t.Helper()
	if math.Abs(e.Start-start) > 1e-9 || math.Abs(e.End-end) > 1e-9 {
		t.Errorf("entry timing = [%v, %v], want [%v, %v]", e.Start, e.End, start, end)
	}
}
