package refine

import (
	"context"
	"fmt"
	"strings"

	"github.com/nguyentantai21042004/lecture-flow/internal/gemini"
	"github.com/nguyentantai21042004/lecture-flow/internal/subtitle"
)

// reviewChunk sends one chunk to the pro model together with the uploaded
// recording and applies the sparse corrections it returns. Corrections
// reference entry indices; ones pointing outside the chunk are dropped.
func (p *implPipeline) reviewChunk(ctx context.Context, c Chunk, vctx Context) ([]subtitle.Entry, error) {
	parts := make([]gemini.Part, 0, len(vctx.Files)+1)
	for _, f := range vctx.Files {
		parts = append(parts, gemini.FilePart(f))
	}
	parts = append(parts, gemini.TextPart(fmt.Sprintf(reviewPrompt, vctx.TopicSummary, numberedLines(c.Entries))))

	raw, err := p.client.GenerateJSON(ctx, p.cfg.Gemini.ProModel, parts)
	if err != nil {
		return nil, err
	}

	var payload struct {
		Corrections []struct {
			Index int    `json:"index"`
			Text  string `json:"text"`
		} `json:"corrections"`
	}
	if err := gemini.DecodeJSON(raw, &payload); err != nil {
		return nil, fmt.Errorf("%w: malformed review payload: %v", gemini.ErrStageTransient, err)
	}

	byIndex := make(map[int]int, len(c.Entries))
	for i, e := range c.Entries {
		byIndex[e.Index] = i
	}

	out := make([]subtitle.Entry, len(c.Entries))
	copy(out, c.Entries)
	applied := 0
	for _, corr := range payload.Corrections {
		i, ok := byIndex[corr.Index]
		if !ok {
			p.logger.Debug(ctx, "Review correction for unknown index %d ignored", corr.Index)
			continue
		}
		if text := strings.TrimSpace(corr.Text); text != "" {
			out[i].Text = text
			applied++
		}
	}
	if applied > 0 {
		p.logger.Debug(ctx, "Review chunk %d: %d corrections applied", c.Ordinal, applied)
	}
	return out, nil
}
