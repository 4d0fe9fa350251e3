package media

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/nguyentantai21042004/lecture-flow/internal/timeline"
)

// ErrMediaProcessing marks probe or rewrite failures. Fatal for the video,
// never retried.
var ErrMediaProcessing = errors.New("media processing failed")

// Segments shorter than this are not worth keeping; they also make the
// concat filter unhappy.
const minSegment = 0.01

// probeResult matches the ffprobe JSON output structure
type probeResult struct {
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

// Probe returns the media duration via ffprobe.
func (m *implRewriter) Probe(ctx context.Context, path string) (float64, error) {
	args := []string{
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		path,
	}

	out, err := m.executor.Execute(ctx, m.cfg.FFmpeg.ProbePath, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: probe %s: %v", ErrMediaProcessing, filepath.Base(path), err)
	}

	var probe probeResult
	if err := json.Unmarshal([]byte(out), &probe); err != nil {
		return 0, fmt.Errorf("%w: parse ffprobe output: %v", ErrMediaProcessing, err)
	}
	duration, err := strconv.ParseFloat(probe.Format.Duration, 64)
	if err != nil || duration <= 0 {
		return 0, fmt.Errorf("%w: no usable duration for %s", ErrMediaProcessing, filepath.Base(path))
	}

	m.logger.Debug(ctx, "Probed %s: %.2fs", filepath.Base(path), duration)
	return duration, nil
}

// Rewrite excises the cut intervals in a single ffmpeg pass: every kept
// segment is trimmed from both streams, its timestamps reset, and the
// pieces concatenated. One pass keeps audio and video in sync.
func (m *implRewriter) Rewrite(ctx context.Context, inputPath string, cuts timeline.CutList, duration float64) (string, error) {
	if len(cuts) == 0 {
		m.logger.Info(ctx, "No cuts planned, keeping original timeline: %s", filepath.Base(inputPath))
		return inputPath, nil
	}

	// A cut outside the media bounds is a planner bug; fail before ffmpeg.
	for i, c := range cuts {
		if c.Start < 0 || c.End > duration || c.End <= c.Start {
			return "", fmt.Errorf("%w: cut %d [%.3f, %.3f] outside media [0, %.3f]",
				ErrMediaProcessing, i, c.Start, c.End, duration)
		}
	}

	keeps := keepIntervals(cuts, duration)
	if len(keeps) == 0 {
		return "", fmt.Errorf("%w: no segments remain after cutting %s",
			ErrMediaProcessing, filepath.Base(inputPath))
	}

	if err := os.MkdirAll(m.cfg.Paths.Temp, 0755); err != nil {
		return "", fmt.Errorf("%w: create temp dir: %v", ErrMediaProcessing, err)
	}
	stem := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
	outputPath := filepath.Join(m.cfg.Paths.Temp, stem+"_trimmed.mp4")

	args := []string{
		"-i", inputPath,
		"-filter_complex", buildFilterGraph(keeps),
		"-map", "[outv]",
		"-map", "[outa]",
		"-c:v", m.cfg.FFmpeg.Encoder,
		"-preset", m.cfg.FFmpeg.Preset,
		"-c:a", m.cfg.FFmpeg.AudioCodec,
	}
	if m.cfg.FFmpeg.VideoBitrate != "" {
		args = append(args, "-b:v", m.cfg.FFmpeg.VideoBitrate)
	}
	args = append(args, "-y", outputPath)

	m.logger.Info(ctx, "Excising %d cuts (%.1fs) from %s",
		len(cuts), cuts.TotalDuration(), filepath.Base(inputPath))
	if _, err := m.executor.Execute(ctx, m.cfg.FFmpeg.BinaryPath, args...); err != nil {
		return "", fmt.Errorf("%w: rewrite timeline: %v", ErrMediaProcessing, err)
	}

	m.logger.Info(ctx, "Rewrote timeline: %s", outputPath)
	return outputPath, nil
}

// keepIntervals complements the cut list over [0, duration]: the segments
// that survive into the output, in order.
func keepIntervals(cuts timeline.CutList, duration float64) []timeline.Interval {
	var keeps []timeline.Interval
	cursor := 0.0
	for _, c := range cuts {
		if c.Start-cursor > minSegment {
			keeps = append(keeps, timeline.Interval{Start: cursor, End: c.Start})
		}
		cursor = c.End
	}
	if duration-cursor > minSegment {
		keeps = append(keeps, timeline.Interval{Start: cursor, End: duration})
	}
	return keeps
}

// buildFilterGraph assembles the filter_complex expression: per-segment
// trim/atrim with reset timestamps, then a single concat node.
func buildFilterGraph(keeps []timeline.Interval) string {
	var parts []string
	var labels strings.Builder
	for i, k := range keeps {
		parts = append(parts, fmt.Sprintf("[0:v]trim=start=%.6f:end=%.6f,setpts=PTS-STARTPTS[v%d]",
			k.Start, k.End, i))
		parts = append(parts, fmt.Sprintf("[0:a]atrim=start=%.6f:end=%.6f,asetpts=PTS-STARTPTS[a%d]",
			k.Start, k.End, i))
		fmt.Fprintf(&labels, "[v%d][a%d]", i, i)
	}
	return strings.Join(parts, ";") + ";" +
		labels.String() + fmt.Sprintf("concat=n=%d:v=1:a=1[outv][outa]", len(keeps))
}
