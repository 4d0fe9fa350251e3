package transcribe

import (
	"context"
	"os"
	"testing"

	"github.com/nguyentantai21042004/lecture-flow/internal/config"
	"github.com/nguyentantai21042004/lecture-flow/internal/logger"
	"github.com/nguyentantai21042004/lecture-flow/internal/subtitle"
)

func TestNormalizeEntries(t *testing.T) {
	entries := []subtitle.Entry{
		{Index: 1, Start: 0, End: 2, Text: " first "},
		{Index: 2, Start: 2, End: 3, Text: "[BLANK_AUDIO]"},
		{Index: 3, Start: 2.9, End: 4, Text: "body"},
		{Index: 4, Start: 3.2, End: 3.8, Text: "swallowed"},
		{Index: 5, Start: 3.9, End: 4.5, Text: "tail"},
		{Index: 6, Start: 5, End: 5, Text: "zero width"},
		{Index: 7, Start: 6, End: 7, Text: ""},
		{Index: 8, Start: 8, End: 9, Text: "(music)"},
		{Index: 9, Start: 9, End: 10, Text: "last"},
	}

	got := normalizeEntries(entries)
	if len(got) != 4 {
		t.Fatalf("normalizeEntries() kept %d entries, want 4: %+v", len(got), got)
	}
	if got[0].Text != "first" {
		t.Errorf("entry 1 text = %q, want trimmed %q", got[0].Text, "first")
	}
	// The fully swallowed entry merges into its predecessor.
	if got[1].Start != 2.9 || got[1].End != 4 {
		t.Errorf("entry 2 timing = [%v, %v], want [2.9, 4]", got[1].Start, got[1].End)
	}
	if got[1].Text != "body swallowed" {
		t.Errorf("entry 2 text = %q", got[1].Text)
	}
	// The partial overlap clamps forward.
	if got[2].Start != 4 || got[2].End != 4.5 {
		t.Errorf("entry 3 timing = [%v, %v], want [4, 4.5]", got[2].Start, got[2].End)
	}
	for i, e := range got {
		if e.Index != i+1 {
			t.Errorf("entry %d index = %d, want %d", i, e.Index, i+1)
		}
	}
	if err := subtitle.Validate(got); err != nil {
		t.Errorf("normalized entries invalid: %v", err)
	}
}

func TestIsNoiseMarker(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"[BLANK_AUDIO]", true},
		{"(music)", true},
		{"[applause]", true},
		{"regular speech", false},
		{"[partial bracket", false},
		{"a", false},
	}
	for _, tt := range tests {
		if got := isNoiseMarker(tt.text); got != tt.want {
			t.Errorf("isNoiseMarker(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}

type scriptedExecutor struct {
	t     *testing.T
	calls [][]string
}

const whisperSRT = `1
00:00:00,000 --> 00:00:02,000
hello class

2
00:00:03,000 --> 00:00:05,000
[BLANK_AUDIO]

3
00:00:05,500 --> 00:00:08,000
today we begin
`

func (s *scriptedExecutor) Execute(ctx context.Context, name string, args ...string) (string, error) {
	s.calls = append(s.calls, append([]string{name}, args...))
	if name != "whisper-cli" {
		return "", nil
	}
	// Whisper writes <output-file>.srt; emulate that.
	for i, arg := range args {
		if arg == "--output-file" && i+1 < len(args) {
			if err := os.WriteFile(args[i+1]+".srt", []byte(whisperSRT), 0644); err != nil {
				s.t.Fatalf("write fake srt: %v", err)
			}
		}
	}
	return "", nil
}

func (s *scriptedExecutor) ExecuteCombined(ctx context.Context, name string, args ...string) (string, string, error) {
	out, err := s.Execute(ctx, name, args...)
	return out, "", err
}

func TestTranscribe(t *testing.T) {
	cfg := &config.Config{
		Whisper: config.WhisperConfig{
			ModelPath:  "models/ggml-large-v3.bin",
			BinaryPath: "whisper-cli",
			Language:   "en",
			Prompt:     "lecture, algorithm",
			Threads:    8,
		},
		FFmpeg: config.FFmpegConfig{BinaryPath: "ffmpeg"},
		Paths:  config.PathsConfig{Temp: t.TempDir()},
	}
	exec := &scriptedExecutor{t: t}
	tr := New(cfg, exec, logger.New("error"))

	entries, err := tr.Transcribe(context.Background(), "/videos/lecture01.mp4")
	if err != nil {
		t.Fatalf("Transcribe() error = %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("Transcribe() = %d entries, want 2 (noise marker dropped)", len(entries))
	}
	if entries[0].Text != "hello class" || entries[1].Text != "today we begin" {
		t.Errorf("entries = %+v", entries)
	}
	if len(exec.calls) != 2 {
		t.Fatalf("expected ffmpeg + whisper calls, got %d", len(exec.calls))
	}
	if exec.calls[0][0] != "ffmpeg" || exec.calls[1][0] != "whisper-cli" {
		t.Errorf("call order = %v, %v", exec.calls[0][0], exec.calls[1][0])
	}

	// Intermediate audio and SRT files are cleaned up.
	leftovers, err := os.ReadDir(cfg.Paths.Temp)
	if err != nil {
		t.Fatal(err)
	}
	if len(leftovers) != 0 {
		t.Errorf("temp dir not cleaned: %v", leftovers)
	}
}

func TestTranscribeEmptyResult(t *testing.T) {
	cfg := &config.Config{
		Whisper: config.WhisperConfig{BinaryPath: "other", ModelPath: "m", Language: "en", Threads: 4},
		FFmpeg:  config.FFmpegConfig{BinaryPath: "ffmpeg"},
		Paths:   config.PathsConfig{Temp: t.TempDir()},
	}
	// Executor never writes an SRT file, so reading it fails.
	tr := New(cfg, &scriptedExecutor{t: t}, logger.New("error"))
	if _, err := tr.Transcribe(context.Background(), "x.mp4"); err == nil {
		t.Error("Transcribe() expected error when whisper output is missing")
	}
}
