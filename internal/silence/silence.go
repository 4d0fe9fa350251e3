package silence

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/nguyentantai21042004/lecture-flow/internal/subtitle"
	"github.com/nguyentantai21042004/lecture-flow/internal/timeline"
)

// SpeechGaps derives the span sequence from transcript entries: every
// entry is speech, the gaps between them silence. This is the default
// detection mode since the original media gets transcribed anyway.
func SpeechGaps(entries []subtitle.Entry, duration float64) ([]timeline.Span, error) {
	speech := make([]timeline.Interval, 0, len(entries))
	for _, e := range entries {
		speech = append(speech, timeline.Interval{Start: e.Start, End: e.End})
	}
	return timeline.SpansFromSpeech(speech, duration)
}

// Detect runs the silencedetect audio filter and normalizes its findings
// into a full-coverage span sequence. ffmpeg reports the filter's results
// on stderr.
func (d *implDetector) Detect(ctx context.Context, mediaPath string, duration float64) ([]timeline.Span, error) {
	filter := fmt.Sprintf("silencedetect=noise=%.1fdB:d=%.3f", d.cfg.Silence.NoiseDB, d.cfg.Silence.MinGap)
	args := []string{
		"-i", mediaPath,
		"-af", filter,
		"-f", "null",
		"-",
	}

	d.logger.Info(ctx, "Detecting silence in %s (noise %.1fdB, min %.2fs)",
		filepath.Base(mediaPath), d.cfg.Silence.NoiseDB, d.cfg.Silence.MinGap)
	_, stderr, err := d.executor.ExecuteCombined(ctx, d.cfg.FFmpeg.BinaryPath, args...)
	if err != nil {
		return nil, fmt.Errorf("silencedetect: %w", err)
	}

	silences := parseSilence(stderr, duration)
	d.logger.Debug(ctx, "Found %d silence windows", len(silences))
	return timeline.SpansFromSilence(silences, duration)
}

// parseSilence scans silencedetect stderr lines:
//
//	[silencedetect @ 0x...] silence_start: 10.2
//	[silencedetect @ 0x...] silence_end: 13.5 | silence_duration: 3.3
//
// A silence_start without a matching silence_end means the file ends in
// silence, so the window closes at the media duration.
func parseSilence(output string, duration float64) []timeline.Interval {
	var silences []timeline.Interval
	var start float64
	open := false

	for _, line := range strings.Split(output, "\n") {
		switch {
		case strings.Contains(line, "silence_start:"):
			if v, ok := floatAfter(line, "silence_start:"); ok {
				start = v
				open = true
			}
		case strings.Contains(line, "silence_end:"):
			if v, ok := floatAfter(line, "silence_end:"); ok && open {
				silences = append(silences, timeline.Interval{Start: start, End: v})
				open = false
			}
		}
	}
	if open && duration > start {
		silences = append(silences, timeline.Interval{Start: start, End: duration})
	}
	return silences
}

func floatAfter(line, marker string) (float64, bool) {
	parts := strings.Split(line, marker)
	if len(parts) != 2 {
		return 0, false
	}
	fields := strings.Fields(strings.TrimSpace(parts[1]))
	if len(fields) == 0 {
		return 0, false
	}
	v, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
