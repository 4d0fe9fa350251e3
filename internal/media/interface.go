package media

import (
	"context"

	"github.com/nguyentantai21042004/lecture-flow/internal/timeline"
)

// Rewriter probes media files and rewrites their timeline by excising cut
// intervals. The source file is never mutated.
type Rewriter interface {
	// Probe returns the media duration in seconds.
	Probe(ctx context.Context, path string) (float64, error)

	// Rewrite produces a new file with the cut intervals removed. With an
	// empty cut list the input path is returned unchanged.
	Rewrite(ctx context.Context, inputPath string, cuts timeline.CutList, duration float64) (string, error)
}
