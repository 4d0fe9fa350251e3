package refine

import (
	"context"

	"github.com/nguyentantai21042004/lecture-flow/internal/subtitle"
)

// Pipeline runs the full refinement pass over one video's entries.
type Pipeline interface {
	// Run refines entries in the fixed stage order and returns the final
	// entries together with context, off-topic flags and degradation
	// records. Entries are not mutated; timing only changes in the
	// merging stage. A context-extraction failure aborts the video.
	Run(ctx context.Context, mediaPath string, entries []subtitle.Entry) (*Result, error)
}
