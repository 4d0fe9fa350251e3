package report

import (
	"fmt"
	"os"
	"strings"

	"github.com/nguyentantai21042004/lecture-flow/internal/refine"
	"github.com/nguyentantai21042004/lecture-flow/internal/subtitle"
)

// WriteOffTopicReport writes the flagged passages as a plain-text file so
// the viewer can decide what to skip. Entries themselves are untouched;
// this is the only place the flags surface besides the summary counts.
func WriteOffTopicReport(path string, entries []subtitle.Entry, flags []refine.OffTopicFlag) error {
	byIndex := make(map[int]subtitle.Entry, len(entries))
	for _, e := range entries {
		byIndex[e.Index] = e
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Off-topic segments: %d\n", len(flags))
	for _, flag := range flags {
		b.WriteString("\n")

		first, okFirst := byIndex[flag.StartIndex]
		last, okLast := byIndex[flag.EndIndex]
		if okFirst && okLast {
			fmt.Fprintf(&b, "[%d-%d] %s --> %s (confidence %.2f)\n",
				flag.StartIndex, flag.EndIndex,
				subtitle.FormatTimestamp(first.Start), subtitle.FormatTimestamp(last.End),
				flag.Confidence)
		} else {
			fmt.Fprintf(&b, "[%d-%d] (confidence %.2f)\n", flag.StartIndex, flag.EndIndex, flag.Confidence)
		}
		if flag.Reason != "" {
			fmt.Fprintf(&b, "Reason: %s\n", flag.Reason)
		}
		for i := flag.StartIndex; i <= flag.EndIndex; i++ {
			if e, ok := byIndex[i]; ok {
				fmt.Fprintf(&b, "  %d: %s\n", e.Index, e.Text)
			}
		}
	}

	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("write off-topic report: %w", err)
	}
	return nil
}
