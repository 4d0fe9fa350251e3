package refine

import (
	"fmt"
	"strings"

	"github.com/nguyentantai21042004/lecture-flow/internal/subtitle"
)

const contextPrompt = `You are preparing to refine the subtitles of a recorded lecture.
Attached are the lecture recording and any available course materials.

Study them together with the raw transcript below, then reply with a single JSON object:
{"topic_summary": "...", "style_guide": "..."}

topic_summary: 3-6 sentences naming the subject, the concepts covered, and the technical vocabulary the speaker relies on.
style_guide: short instructions for transcribing this speaker consistently (terminology, spelling of names, capitalization, how formulas are written).

Raw transcript:
---
%s
---`

const flashPrompt = `You are cleaning up machine-transcribed lecture subtitles.

Lecture context:
%s

Style guide:
%s

Below are numbered subtitle lines in "index|text" form. Fix transcription
errors, grammar and punctuation. Keep the meaning, keep technical terms
intact, and keep spaces between words and numbers. Do NOT merge, split,
reorder or drop lines.

Reply with a single JSON object holding exactly one corrected line per
input line, in the same order, without the index prefix:
{"lines": ["first corrected line", "second corrected line"]}

Lines:
%s`

const reviewPrompt = `You are reviewing refined lecture subtitles against the attached recording.

Lecture context:
%s

Below are numbered subtitle lines in "index|text" form. Compare them with
what is actually said and correct only the lines that are still wrong.
Most lines should need no change.

Reply with a single JSON object listing only the corrections:
{"corrections": [{"index": 12, "text": "corrected line"}]}
An empty list is a valid answer.

Lines:
%s`

const offTopicPrompt = `You are screening lecture subtitles for passages unrelated to the lecture
itself: small talk, interruptions, administrative chatter.

Lecture context:
%s

Below are numbered subtitle lines in "index|text" form. Identify off-topic
passages as inclusive index ranges. Do not rewrite anything.

Reply with a single JSON object:
{"segments": [{"start_index": 5, "end_index": 9, "confidence": 0.8, "reason": "..."}]}
An empty list is a valid answer.

Lines:
%s`

// numberedLines renders entries as "index|text" lines for a prompt.
// Multi-line texts are flattened so the line count matches the entry count.
func numberedLines(entries []subtitle.Entry) string {
	var b strings.Builder
	for i, e := range entries {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%d|%s", e.Index, flattenText(e.Text))
	}
	return b.String()
}

// transcriptText renders the plain transcript for the context prompt.
func transcriptText(entries []subtitle.Entry) string {
	var b strings.Builder
	for i, e := range entries {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(flattenText(e.Text))
	}
	return b.String()
}

func flattenText(text string) string {
	return strings.TrimSpace(strings.ReplaceAll(text, "\n", " "))
}
