package config

import "fmt"

type Config struct {
	Whisper     WhisperConfig     `yaml:"whisper"`
	FFmpeg      FFmpegConfig      `yaml:"ffmpeg"`
	Silence     SilenceConfig     `yaml:"silence"`
	Gemini      GeminiConfig      `yaml:"gemini"`
	Refine      RefineConfig      `yaml:"refine"`
	Paths       PathsConfig       `yaml:"paths"`
	Logging     LoggingConfig     `yaml:"logging"`
	Performance PerformanceConfig `yaml:"performance"`
}

type WhisperConfig struct {
	ModelPath  string `yaml:"model_path"`
	BinaryPath string `yaml:"binary_path"`
	Language   string `yaml:"language"`
	Prompt     string `yaml:"prompt"`
	Threads    int    `yaml:"threads"`
	UseGPU     bool   `yaml:"use_gpu"`
}

type FFmpegConfig struct {
	BinaryPath   string `yaml:"binary_path"`
	ProbePath    string `yaml:"probe_path"`
	VideoBitrate string `yaml:"video_bitrate"`
	AudioCodec   string `yaml:"audio_codec"`
	Encoder      string `yaml:"encoder"`
	Preset       string `yaml:"preset"`
}

type SilenceConfig struct {
	// Detector selects the span source: "whisper" (speech segments from a
	// fast transcription pass) or "ffmpeg" (silencedetect audio filter).
	Detector   string  `yaml:"detector"`
	MinGap     float64 `yaml:"min_gap"`
	CutPadding float64 `yaml:"cut_padding"`
	NoiseDB    float64 `yaml:"noise_db"`
}

type GeminiConfig struct {
	FlashModel string `yaml:"flash_model"`
	ProModel   string `yaml:"pro_model"`
	// APIKeys rotate on quota exhaustion. The GEMINI_API_KEYS (comma
	// separated) and GEMINI_API_KEY environment variables append to this
	// list at load time.
	APIKeys []string `yaml:"api_keys"`
}

type RefineConfig struct {
	ChunkSize        int               `yaml:"chunk_size"`
	ChunkDuration    float64           `yaml:"chunk_duration"`
	MaxRetries       int               `yaml:"max_retries"`
	RetryDelayMS     int               `yaml:"retry_delay_ms"`
	MergeMaxChars    int               `yaml:"merge_max_chars"`
	MergeMinDuration float64           `yaml:"merge_min_duration"`
	KeepDuplicates   bool              `yaml:"keep_duplicates"`
	Symbols          map[string]string `yaml:"symbols"`
}

type PathsConfig struct {
	Input    string `yaml:"input"`
	Output   string `yaml:"output"`
	Archived string `yaml:"archived"`
	Temp     string `yaml:"temp"`
	Ledger   string `yaml:"ledger"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file"`
}

type PerformanceConfig struct {
	MaxConcurrent       int `yaml:"max_concurrent"`
	ChunkWorkers        int `yaml:"chunk_workers"`
	VideoTimeoutMinutes int `yaml:"video_timeout_minutes"`
}

func (c *Config) Validate() error {
	if c.Whisper.ModelPath == "" {
		return fmt.Errorf("whisper.model_path is required")
	}
	if c.Whisper.BinaryPath == "" {
		return fmt.Errorf("whisper.binary_path is required")
	}
	if c.Whisper.Language == "" {
		return fmt.Errorf("whisper.language is required")
	}
	if c.FFmpeg.Encoder == "" {
		return fmt.Errorf("ffmpeg.encoder is required")
	}
	if c.Paths.Input == "" {
		return fmt.Errorf("paths.input is required")
	}
	if c.Paths.Output == "" {
		return fmt.Errorf("paths.output is required")
	}
	if c.Silence.MinGap < 0 {
		return fmt.Errorf("silence.min_gap must be positive")
	}
	if c.Silence.CutPadding < 0 {
		return fmt.Errorf("silence.cut_padding must not be negative")
	}
	switch c.Silence.Detector {
	case "", "whisper", "ffmpeg":
	default:
		return fmt.Errorf("silence.detector must be \"whisper\" or \"ffmpeg\", got %q", c.Silence.Detector)
	}
	if err := validateSymbols(c.Refine.Symbols); err != nil {
		return err
	}

	if c.Paths.Archived == "" {
		c.Paths.Archived = "data/archived"
	}
	if c.Paths.Temp == "" {
		c.Paths.Temp = "data/temp"
	}
	if c.Paths.Ledger == "" {
		c.Paths.Ledger = "data/lectureflow.db"
	}
	if c.Performance.MaxConcurrent == 0 {
		c.Performance.MaxConcurrent = 2
	}
	if c.Performance.ChunkWorkers == 0 {
		c.Performance.ChunkWorkers = 4
	}
	if c.Whisper.Threads == 0 {
		c.Whisper.Threads = 8
	}
	if c.FFmpeg.BinaryPath == "" {
		c.FFmpeg.BinaryPath = "ffmpeg"
	}
	if c.FFmpeg.ProbePath == "" {
		c.FFmpeg.ProbePath = "ffprobe"
	}
	if c.FFmpeg.Preset == "" {
		c.FFmpeg.Preset = "medium"
	}
	if c.FFmpeg.AudioCodec == "" {
		c.FFmpeg.AudioCodec = "aac"
	}
	if c.Silence.Detector == "" {
		c.Silence.Detector = "whisper"
	}
	if c.Silence.MinGap == 0 {
		c.Silence.MinGap = 1.0
	}
	if c.Silence.NoiseDB == 0 {
		c.Silence.NoiseDB = -30
	}
	if c.Gemini.FlashModel == "" {
		c.Gemini.FlashModel = "gemini-2.5-flash"
	}
	if c.Gemini.ProModel == "" {
		c.Gemini.ProModel = "gemini-2.5-pro"
	}
	if c.Refine.ChunkSize == 0 {
		c.Refine.ChunkSize = 100
	}
	if c.Refine.ChunkDuration == 0 {
		c.Refine.ChunkDuration = 600
	}
	if c.Refine.MaxRetries == 0 {
		c.Refine.MaxRetries = 3
	}
	if c.Refine.RetryDelayMS == 0 {
		c.Refine.RetryDelayMS = 2000
	}
	if c.Refine.MergeMaxChars == 0 {
		c.Refine.MergeMaxChars = 30
	}
	if c.Refine.MergeMinDuration == 0 {
		c.Refine.MergeMinDuration = 1.2
	}

	return nil
}

// validateSymbols rejects tables that would not be idempotent: a canonical
// value must never itself be a raw key that maps somewhere else.
func validateSymbols(symbols map[string]string) error {
	for raw, canonical := range symbols {
		if raw == "" {
			return fmt.Errorf("refine.symbols: empty key")
		}
		if mapped, ok := symbols[canonical]; ok && mapped != canonical {
			return fmt.Errorf("refine.symbols: value %q of key %q is itself rewritten to %q",
				canonical, raw, mapped)
		}
	}
	return nil
}
