package config

import (
	"os"
	"testing"
)

func validConfig() Config {
	return Config{
		Whisper: WhisperConfig{
			ModelPath:  "models/test.bin",
			BinaryPath: "./whisper",
			Language:   "en",
		},
		FFmpeg: FFmpegConfig{
			Encoder: "libx264",
		},
		Paths: PathsConfig{
			Input:  "data/input",
			Output: "data/output",
		},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid config", func(c *Config) {}, false},
		{"missing model path", func(c *Config) { c.Whisper.ModelPath = "" }, true},
		{"missing binary path", func(c *Config) { c.Whisper.BinaryPath = "" }, true},
		{"missing language", func(c *Config) { c.Whisper.Language = "" }, true},
		{"missing encoder", func(c *Config) { c.FFmpeg.Encoder = "" }, true},
		{"missing input path", func(c *Config) { c.Paths.Input = "" }, true},
		{"missing output path", func(c *Config) { c.Paths.Output = "" }, true},
		{"negative min gap", func(c *Config) { c.Silence.MinGap = -1 }, true},
		{"negative cut padding", func(c *Config) { c.Silence.CutPadding = -0.5 }, true},
		{"unknown detector", func(c *Config) { c.Silence.Detector = "vad" }, true},
		{"ffmpeg detector", func(c *Config) { c.Silence.Detector = "ffmpeg" }, false},
		{"symbol table ok", func(c *Config) {
			c.Refine.Symbols = map[string]string{"<=": "≤", ">=": "≥"}
		}, false},
		{"symbol table not idempotent", func(c *Config) {
			c.Refine.Symbols = map[string]string{"<=": "≤", "≤": "LE"}
		}, true},
		{"symbol table empty key", func(c *Config) {
			c.Refine.Symbols = map[string]string{"": "≤"}
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateDefaults(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	if cfg.Silence.MinGap != 1.0 {
		t.Errorf("MinGap default = %v, want 1.0", cfg.Silence.MinGap)
	}
	if cfg.Silence.Detector != "whisper" {
		t.Errorf("Detector default = %q, want whisper", cfg.Silence.Detector)
	}
	if cfg.Silence.CutPadding != 0 {
		t.Errorf("CutPadding default = %v, want 0", cfg.Silence.CutPadding)
	}
	if cfg.Performance.MaxConcurrent != 2 {
		t.Errorf("MaxConcurrent default = %v, want 2", cfg.Performance.MaxConcurrent)
	}
	if cfg.Refine.ChunkSize != 100 {
		t.Errorf("ChunkSize default = %v, want 100", cfg.Refine.ChunkSize)
	}
	if cfg.Refine.MaxRetries != 3 {
		t.Errorf("MaxRetries default = %v, want 3", cfg.Refine.MaxRetries)
	}
	if cfg.Refine.MergeMaxChars != 30 {
		t.Errorf("MergeMaxChars default = %v, want 30", cfg.Refine.MergeMaxChars)
	}
	if cfg.Gemini.FlashModel != "gemini-2.5-flash" {
		t.Errorf("FlashModel default = %q", cfg.Gemini.FlashModel)
	}
	if cfg.Gemini.ProModel != "gemini-2.5-pro" {
		t.Errorf("ProModel default = %q", cfg.Gemini.ProModel)
	}
	if cfg.Paths.Ledger != "data/lectureflow.db" {
		t.Errorf("Ledger default = %q", cfg.Paths.Ledger)
	}
}

func TestLoad(t *testing.T) {
	tmpfile, err := os.CreateTemp("", "config-*.yaml")
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(tmpfile.Name())

	content := `
whisper:
  model_path: "models/test.bin"
  binary_path: "./whisper"
  language: "en"
  prompt: "lecture, algorithm"

ffmpeg:
  video_bitrate: "5M"
  audio_codec: "copy"
  encoder: "libx264"

silence:
  min_gap: 1.5
  cut_padding: 0.25

refine:
  chunk_size: 50
  symbols:
    "<=": "≤"

paths:
  input: "data/input"
  output: "data/output"

logging:
  level: "info"
  format: "text"
`

	if _, err := tmpfile.Write([]byte(content)); err != nil {
		t.Fatal(err)
	}
	if err := tmpfile.Close(); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(tmpfile.Name())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Whisper.ModelPath != "models/test.bin" {
		t.Errorf("ModelPath = %v, want %v", cfg.Whisper.ModelPath, "models/test.bin")
	}
	if cfg.Silence.MinGap != 1.5 {
		t.Errorf("MinGap = %v, want 1.5", cfg.Silence.MinGap)
	}
	if cfg.Silence.CutPadding != 0.25 {
		t.Errorf("CutPadding = %v, want 0.25", cfg.Silence.CutPadding)
	}
	if cfg.Refine.ChunkSize != 50 {
		t.Errorf("ChunkSize = %v, want 50", cfg.Refine.ChunkSize)
	}
	if cfg.Refine.Symbols["<="] != "≤" {
		t.Errorf("Symbols = %v", cfg.Refine.Symbols)
	}
	if cfg.Refine.ChunkDuration != 600 {
		t.Errorf("ChunkDuration default = %v, want 600", cfg.Refine.ChunkDuration)
	}
}

func TestLoadInvalidFile(t *testing.T) {
	_, err := Load("nonexistent.yaml")
	if err == nil {
		t.Error("Load() should return error for nonexistent file")
	}
}

func TestLoadAppliesEnvKeys(t *testing.T) {
	t.Setenv("GEMINI_API_KEYS", "key-a, key-b")
	t.Setenv("GEMINI_API_KEY", "key-c")

	cfg := validConfig()
	cfg.applyEnv()
	if len(cfg.Gemini.APIKeys) != 3 {
		t.Fatalf("APIKeys = %v, want 3 keys", cfg.Gemini.APIKeys)
	}
	want := []string{"key-a", "key-b", "key-c"}
	for i, key := range want {
		if cfg.Gemini.APIKeys[i] != key {
			t.Errorf("APIKeys[%d] = %q, want %q", i, cfg.Gemini.APIKeys[i], key)
		}
	}
}
