// Package refine runs the multi-pass subtitle refinement pipeline: context
// extraction, chunked flash correction, deterministic notation cleanup,
// fragment merging, pro-model review, and advisory off-topic detection.
package refine

import (
	"errors"

	"github.com/nguyentantai21042004/lecture-flow/internal/gemini"
	"github.com/nguyentantai21042004/lecture-flow/internal/subtitle"
)

// ErrContextExtraction marks a failed context pass. Fatal for the video:
// without context the later passes would work blind, so there is no
// degraded fallback.
var ErrContextExtraction = errors.New("context extraction failed")

// Stage names as they appear in logs, degradation records and summaries.
const (
	StageContext  = "context_extraction"
	StageFlash    = "flash_refinement"
	StageNotation = "notation_standardization"
	StageMerge    = "smart_merging"
	StageReview   = "pro_review"
	StageOffTopic = "off_topic_detection"
)

// Context is the per-video knowledge extracted once before any text pass.
// Immutable after extraction.
type Context struct {
	TopicSummary string
	StyleGuide   string
	SymbolTable  map[string]string
	Files        []gemini.UploadedFile
}

// Chunk is a contiguous run of entries dispatched as one AI request.
type Chunk struct {
	Ordinal int
	Entries []subtitle.Entry
}

// FirstIndex returns the index of the chunk's first entry.
func (c Chunk) FirstIndex() int {
	if len(c.Entries) == 0 {
		return 0
	}
	return c.Entries[0].Index
}

// LastIndex returns the index of the chunk's last entry.
func (c Chunk) LastIndex() int {
	if len(c.Entries) == 0 {
		return 0
	}
	return c.Entries[len(c.Entries)-1].Index
}

// OffTopicFlag marks an entry index range as likely off-topic. Advisory
// only: flagged text and timing stay untouched.
type OffTopicFlag struct {
	StartIndex int
	EndIndex   int
	Confidence float64
	Reason     string
}

// DegradedChunk records a chunk left unmodified after its retries ran out.
// The run continues; the record surfaces in the summary.
type DegradedChunk struct {
	Ordinal    int
	FirstIndex int
	LastIndex  int
	Stage      string
	Reason     string
}

// StageCount is one row of the per-stage entry bookkeeping.
type StageCount struct {
	Stage   string
	Entries int
}

// Result carries everything the refinement pipeline produced for a video.
type Result struct {
	Entries  []subtitle.Entry
	Context  Context
	OffTopic []OffTopicFlag
	Degraded []DegradedChunk
	Stages   []StageCount
}
