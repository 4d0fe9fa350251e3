package silence

import (
	"context"

	"github.com/nguyentantai21042004/lecture-flow/internal/timeline"
)

// Detector produces the classified span sequence for a media file:
// contiguous speech/silence spans covering [0, duration].
type Detector interface {
	Detect(ctx context.Context, mediaPath string, duration float64) ([]timeline.Span, error)
}
