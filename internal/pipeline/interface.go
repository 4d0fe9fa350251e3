package pipeline

import "context"

// Processor runs the full cleanup for single videos and batches.
type Processor interface {
	// Process runs one video end to end: silence cuts, transcription,
	// refinement, artifacts, archive, ledger record. Already-completed
	// videos are skipped unless the processor was built with force.
	Process(ctx context.Context, videoPath string) error
	// ProcessBatch runs videos through the bounded worker pool. One
	// video's failure never affects its siblings; the returned error
	// summarizes which videos failed.
	ProcessBatch(ctx context.Context, videoPaths []string) error
}
