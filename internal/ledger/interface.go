package ledger

import (
	"context"
	"time"
)

// Status of a processing run.
type Status string

const (
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Run is one processing attempt for one video.
type Run struct {
	ID             string
	VideoPath      string
	VideoName      string
	Status         Status
	StartedAt      time.Time
	FinishedAt     *time.Time
	InputDuration  float64
	OutputDuration float64
	RemovedSilence float64
	Cuts           int
	InputEntries   int
	FinalEntries   int
	DegradedChunks int
	OffTopicFlags  int
	OutputPath     string
	ErrorMessage   string
}

// Ledger persists run history so completed videos are skipped on the next
// invocation and past runs can be inspected.
type Ledger interface {
	// StartRun inserts a running record for the video and returns it.
	StartRun(ctx context.Context, videoPath string) (*Run, error)
	// CompleteRun marks the run completed and stores its final stats.
	CompleteRun(ctx context.Context, run *Run) error
	// FailRun marks the run failed with the given reason.
	FailRun(ctx context.Context, id string, reason string) error
	// IsCompleted reports whether a video with this file name has a
	// completed run on record.
	IsCompleted(ctx context.Context, videoName string) (bool, error)
	// RecentRuns returns up to limit runs, newest first.
	RecentRuns(ctx context.Context, limit int) ([]Run, error)
	// Close releases the database and, when held, the instance lock.
	Close() error
}
