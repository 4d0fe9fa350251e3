package report

import (
	"fmt"

	"github.com/gomutex/godocx"
	"github.com/gomutex/godocx/docx"

	"github.com/nguyentantai21042004/lecture-flow/internal/ledger"
	"github.com/nguyentantai21042004/lecture-flow/internal/refine"
	"github.com/nguyentantai21042004/lecture-flow/internal/subtitle"
)

const (
	fontName    = "Times New Roman"
	fontSize    = 13
	titleSize   = 16
	headingSize = 14
)

// WriteRunReport writes the docx processing report for one video: the run
// stats, the extracted lecture context, per-stage entry counts, and any
// degraded chunks or off-topic passages.
func WriteRunReport(path string, run *ledger.Run, result *refine.Result) error {
	doc, err := godocx.NewDocument()
	if err != nil {
		return fmt.Errorf("create docx: %w", err)
	}

	addStyledRun(doc.AddParagraph(""), "Processing Report: "+run.VideoName, true, titleSize)
	doc.AddParagraph("")

	addStyledRun(doc.AddParagraph(""), "Overview", true, headingSize)
	addText(doc.AddParagraph(""), fmt.Sprintf("Input duration: %s", formatClock(run.InputDuration)))
	addText(doc.AddParagraph(""), fmt.Sprintf("Output duration: %s", formatClock(run.OutputDuration)))
	addText(doc.AddParagraph(""), fmt.Sprintf("Removed silence: %s across %d cuts", formatClock(run.RemovedSilence), run.Cuts))
	addText(doc.AddParagraph(""), fmt.Sprintf("Entries: %d raw, %d final", run.InputEntries, run.FinalEntries))

	if result != nil {
		if result.Context.TopicSummary != "" {
			doc.AddParagraph("")
			addStyledRun(doc.AddParagraph(""), "Lecture Topic", true, headingSize)
			addText(doc.AddParagraph(""), result.Context.TopicSummary)
		}
		if result.Context.StyleGuide != "" {
			doc.AddParagraph("")
			addStyledRun(doc.AddParagraph(""), "Transcription Style", true, headingSize)
			addText(doc.AddParagraph(""), result.Context.StyleGuide)
		}

		if len(result.Stages) > 0 {
			doc.AddParagraph("")
			addStyledRun(doc.AddParagraph(""), "Refinement Stages", true, headingSize)
			for _, s := range result.Stages {
				addText(doc.AddParagraph(""), fmt.Sprintf("%s: %d entries", StageDisplayName(s.Stage), s.Entries))
			}
		}

		if len(result.Degraded) > 0 {
			doc.AddParagraph("")
			addStyledRun(doc.AddParagraph(""), "Degraded Chunks", true, headingSize)
			for _, d := range result.Degraded {
				addText(doc.AddParagraph(""), fmt.Sprintf("%s, entries %d-%d: %s", StageDisplayName(d.Stage), d.FirstIndex, d.LastIndex, d.Reason))
			}
		}

		if len(result.OffTopic) > 0 {
			doc.AddParagraph("")
			addStyledRun(doc.AddParagraph(""), "Off-Topic Passages", true, headingSize)
			for _, flag := range result.OffTopic {
				line := fmt.Sprintf("Entries %d-%d (confidence %.2f)", flag.StartIndex, flag.EndIndex, flag.Confidence)
				if flag.Reason != "" {
					line += ": " + flag.Reason
				}
				addText(doc.AddParagraph(""), line)
			}
		}
	}

	if err := doc.SaveTo(path); err != nil {
		return fmt.Errorf("save docx: %w", err)
	}
	return nil
}

// WriteTranscript writes the refined entries as a reading transcript docx:
// dialogue only, no indices or timestamps, consecutive duplicates dropped.
func WriteTranscript(path, title string, entries []subtitle.Entry) error {
	doc, err := godocx.NewDocument()
	if err != nil {
		return fmt.Errorf("create docx: %w", err)
	}

	addStyledRun(doc.AddParagraph(""), title, true, titleSize)
	doc.AddParagraph("")

	prev := ""
	for _, e := range entries {
		if e.Text == "" || e.Text == prev {
			continue
		}
		prev = e.Text
		addText(doc.AddParagraph(""), e.Text)
	}

	if err := doc.SaveTo(path); err != nil {
		return fmt.Errorf("save docx: %w", err)
	}
	return nil
}

func addStyledRun(p *docx.Paragraph, text string, bold bool, size uint64) {
	run := p.AddText(text).Font(fontName).Size(size).Color("000000")
	if bold {
		run.Bold(true)
	}
}

func addText(p *docx.Paragraph, text string) {
	p.AddText(text).Font(fontName).Size(fontSize).Color("000000")
}
