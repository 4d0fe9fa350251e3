package transcribe

import (
	"context"

	"github.com/nguyentantai21042004/lecture-flow/internal/subtitle"
)

// Transcriber converts speech in a media file into subtitle entries timed
// against that file's own timeline.
type Transcriber interface {
	Transcribe(ctx context.Context, mediaPath string) ([]subtitle.Entry, error)
}
