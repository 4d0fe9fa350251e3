package refine

import (
	"context"
	"fmt"
	"sort"

	"github.com/nguyentantai21042004/lecture-flow/internal/gemini"
	"github.com/nguyentantai21042004/lecture-flow/internal/subtitle"
)

// detectOffTopic asks the pro model to flag passages unrelated to the
// lecture. The pass is advisory: it never rewrites or drops entries, it
// only annotates index ranges for the report.
func (p *implPipeline) detectOffTopic(ctx context.Context, entries []subtitle.Entry, vctx Context) ([]OffTopicFlag, error) {
	if len(entries) == 0 {
		return nil, nil
	}

	prompt := fmt.Sprintf(offTopicPrompt, vctx.TopicSummary, numberedLines(entries))
	raw, err := p.client.GenerateJSON(ctx, p.cfg.Gemini.ProModel, []gemini.Part{gemini.TextPart(prompt)})
	if err != nil {
		return nil, err
	}

	var payload struct {
		Segments []struct {
			StartIndex int     `json:"start_index"`
			EndIndex   int     `json:"end_index"`
			Confidence float64 `json:"confidence"`
			Reason     string  `json:"reason"`
		} `json:"segments"`
	}
	if err := gemini.DecodeJSON(raw, &payload); err != nil {
		return nil, fmt.Errorf("%w: malformed off-topic payload: %v", gemini.ErrStageTransient, err)
	}

	first := entries[0].Index
	last := entries[len(entries)-1].Index

	var flags []OffTopicFlag
	for _, seg := range payload.Segments {
		start, end := seg.StartIndex, seg.EndIndex
		if start > end {
			continue
		}
		if start < first {
			start = first
		}
		if end > last {
			end = last
		}
		if start > end {
			continue
		}
		flags = append(flags, OffTopicFlag{
			StartIndex: start,
			EndIndex:   end,
			Confidence: seg.Confidence,
			Reason:     seg.Reason,
		})
	}
	sort.Slice(flags, func(i, j int) bool { return flags[i].StartIndex < flags[j].StartIndex })
	return flags, nil
}
