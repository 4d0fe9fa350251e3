package refine

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nguyentantai21042004/lecture-flow/internal/gemini"
	"github.com/nguyentantai21042004/lecture-flow/internal/subtitle"
)

// Course materials are picked up when they sit next to the video with the
// same base name.
var auxiliaryExtensions = []string{".pdf", ".pptx", ".txt", ".md"}

// extractContext uploads the recording plus any sibling course materials
// and asks the pro model for a topic summary and style guide grounded in
// the raw transcript. The media upload and the summary call must succeed;
// auxiliary materials are skipped with a warning when they fail.
func (p *implPipeline) extractContext(ctx context.Context, mediaPath string, entries []subtitle.Entry) (Context, error) {
	media, err := p.client.UploadFile(ctx, mediaPath)
	if err != nil {
		return Context{}, fmt.Errorf("%w: upload %s: %v", ErrContextExtraction, filepath.Base(mediaPath), err)
	}
	uploaded := []gemini.UploadedFile{media}

	for _, path := range auxiliaryFiles(mediaPath) {
		f, err := p.client.UploadFile(ctx, path)
		if err != nil {
			p.logger.Warn(ctx, "Skipping course material %s: %v", filepath.Base(path), err)
			continue
		}
		p.logger.Info(ctx, "Attached course material: %s", filepath.Base(path))
		uploaded = append(uploaded, f)
	}

	parts := make([]gemini.Part, 0, len(uploaded)+1)
	for _, f := range uploaded {
		parts = append(parts, gemini.FilePart(f))
	}
	parts = append(parts, gemini.TextPart(fmt.Sprintf(contextPrompt, transcriptText(entries))))

	raw, err := p.client.GenerateJSON(ctx, p.cfg.Gemini.ProModel, parts)
	if err != nil {
		return Context{}, fmt.Errorf("%w: %v", ErrContextExtraction, err)
	}

	var payload struct {
		TopicSummary string `json:"topic_summary"`
		StyleGuide   string `json:"style_guide"`
	}
	if err := gemini.DecodeJSON(raw, &payload); err != nil {
		return Context{}, fmt.Errorf("%w: %v", ErrContextExtraction, err)
	}
	if strings.TrimSpace(payload.TopicSummary) == "" {
		return Context{}, fmt.Errorf("%w: empty topic summary", ErrContextExtraction)
	}

	return Context{
		TopicSummary: strings.TrimSpace(payload.TopicSummary),
		StyleGuide:   strings.TrimSpace(payload.StyleGuide),
		SymbolTable:  p.cfg.Refine.Symbols,
		Files:        uploaded,
	}, nil
}

// auxiliaryFiles lists course materials sharing the video's base name.
func auxiliaryFiles(mediaPath string) []string {
	stem := strings.TrimSuffix(mediaPath, filepath.Ext(mediaPath))
	var aux []string
	for _, ext := range auxiliaryExtensions {
		candidate := stem + ext
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			aux = append(aux, candidate)
		}
	}
	return aux
}
