package executor

import "context"

// Executor defines the interface for executing external commands
type Executor interface {
	// Execute runs the command and returns its stdout.
	Execute(ctx context.Context, name string, args ...string) (string, error)

	// ExecuteCombined runs the command and returns stdout and stderr
	// separately. Some tools (ffmpeg filters in particular) report their
	// results on stderr even on success.
	ExecuteCombined(ctx context.Context, name string, args ...string) (string, string, error)
}
