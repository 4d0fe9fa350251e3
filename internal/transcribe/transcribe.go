package transcribe

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/nguyentantai21042004/lecture-flow/internal/subtitle"
)

// Transcribe extracts a whisper-friendly audio track, runs whisper.cpp on
// it, and returns the normalized entries. Intermediate files live in the
// temp dir and are removed afterwards.
func (t *implTranscriber) Transcribe(ctx context.Context, mediaPath string) ([]subtitle.Entry, error) {
	audioPath, err := t.extractAudio(ctx, mediaPath)
	if err != nil {
		return nil, err
	}
	defer os.Remove(audioPath)

	srtPath, err := t.runWhisper(ctx, audioPath)
	if err != nil {
		return nil, err
	}
	defer os.Remove(srtPath)

	entries, err := subtitle.ReadFile(srtPath)
	if err != nil {
		return nil, err
	}
	entries = normalizeEntries(entries)
	if len(entries) == 0 {
		return nil, fmt.Errorf("transcription produced no entries for %s", filepath.Base(mediaPath))
	}

	t.logger.Info(ctx, "Transcribed %d entries from %s", len(entries), filepath.Base(mediaPath))
	return entries, nil
}

// extractAudio converts the media file to 16kHz mono WAV, the format
// whisper.cpp processes best
func (t *implTranscriber) extractAudio(ctx context.Context, videoPath string) (string, error) {
	if err := os.MkdirAll(t.cfg.Paths.Temp, 0755); err != nil {
		return "", fmt.Errorf("create temp dir: %w", err)
	}
	stem := strings.TrimSuffix(filepath.Base(videoPath), filepath.Ext(videoPath))
	audioPath := filepath.Join(t.cfg.Paths.Temp, stem+"_audio.wav")

	t.logger.Info(ctx, "Extracting audio: %s", filepath.Base(videoPath))

	args := []string{
		"-i", videoPath,
		"-vn",
		"-ar", "16000",
		"-ac", "1",
		"-c:a", "pcm_s16le",
		"-threads", "0",
		"-y",
		audioPath,
	}
	if _, err := t.executor.Execute(ctx, t.cfg.FFmpeg.BinaryPath, args...); err != nil {
		return "", fmt.Errorf("ffmpeg extract audio: %w", err)
	}
	return audioPath, nil
}

// runWhisper transcribes the audio file to SRT and returns the SRT path
func (t *implTranscriber) runWhisper(ctx context.Context, audioPath string) (string, error) {
	outputPrefix := strings.TrimSuffix(audioPath, filepath.Ext(audioPath))

	t.logger.Info(ctx, "Transcribing with %d threads: %s",
		t.cfg.Whisper.Threads, filepath.Base(audioPath))

	// -l forces the language to prevent hallucinated language switches.
	// -ml/-mc 0 lifts the segment limits, better for long recordings.
	args := []string{
		"-m", t.cfg.Whisper.ModelPath,
		"-f", audioPath,
		"-osrt",
		"-l", t.cfg.Whisper.Language,
		"-t", strconv.Itoa(t.cfg.Whisper.Threads),
		"-ml", "0",
		"-mc", "0",
		"-bo", "5", // Best of 5 for better accuracy
		"--output-file", outputPrefix,
	}
	if t.cfg.Whisper.Prompt != "" {
		args = append(args, "--prompt", t.cfg.Whisper.Prompt)
	}
	if !t.cfg.Whisper.UseGPU {
		args = append(args, "-ng")
	}

	if _, err := t.executor.Execute(ctx, t.cfg.Whisper.BinaryPath, args...); err != nil {
		return "", fmt.Errorf("whisper transcribe: %w", err)
	}
	return outputPrefix + ".srt", nil
}

// normalizeEntries cleans raw whisper output: noise markers and empty
// entries go away, tiny timing overlaps get clamped, and entries fully
// swallowed by their predecessor merge into it.
func normalizeEntries(entries []subtitle.Entry) []subtitle.Entry {
	var out []subtitle.Entry
	for _, e := range entries {
		e.Text = strings.TrimSpace(e.Text)
		if e.Text == "" || isNoiseMarker(e.Text) || e.End <= e.Start {
			continue
		}
		if n := len(out); n > 0 && e.Start < out[n-1].End {
			e.Start = out[n-1].End
			if e.End <= e.Start {
				out[n-1].Text = subtitle.JoinText(out[n-1].Text, e.Text)
				continue
			}
		}
		out = append(out, e)
	}
	subtitle.Renumber(out)
	return out
}

// whisper marks non-speech audio as [BLANK_AUDIO], (music) and similar;
// those are silence for our purposes, not speech.
func isNoiseMarker(text string) bool {
	if len(text) < 2 {
		return false
	}
	first, last := text[0], text[len(text)-1]
	return (first == '[' && last == ']') || (first == '(' && last == ')')
}
