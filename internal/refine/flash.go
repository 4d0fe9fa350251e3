package refine

import (
	"context"
	"fmt"
	"strings"

	"github.com/nguyentantai21042004/lecture-flow/internal/gemini"
	"github.com/nguyentantai21042004/lecture-flow/internal/subtitle"
)

// refineChunk sends one chunk to the flash model for line-level correction.
// The response must hold exactly one line per entry, in order; anything
// else is a transient failure so the chunk gets retried. Timing and indices
// never change here.
func (p *implPipeline) refineChunk(ctx context.Context, c Chunk, vctx Context) ([]subtitle.Entry, error) {
	prompt := fmt.Sprintf(flashPrompt, vctx.TopicSummary, vctx.StyleGuide, numberedLines(c.Entries))

	raw, err := p.client.GenerateJSON(ctx, p.cfg.Gemini.FlashModel, []gemini.Part{gemini.TextPart(prompt)})
	if err != nil {
		return nil, err
	}

	var payload struct {
		Lines []string `json:"lines"`
	}
	if err := gemini.DecodeJSON(raw, &payload); err != nil {
		return nil, fmt.Errorf("%w: malformed correction payload: %v", gemini.ErrStageTransient, err)
	}
	if len(payload.Lines) != len(c.Entries) {
		return nil, fmt.Errorf("%w: expected %d lines, got %d", gemini.ErrStageTransient, len(c.Entries), len(payload.Lines))
	}

	out := make([]subtitle.Entry, len(c.Entries))
	copy(out, c.Entries)
	for i := range out {
		if text := strings.TrimSpace(payload.Lines[i]); text != "" {
			out[i].Text = text
		}
	}
	return out, nil
}
