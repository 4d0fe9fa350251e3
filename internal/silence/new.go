package silence

import (
	"github.com/nguyentantai21042004/lecture-flow/internal/config"
	"github.com/nguyentantai21042004/lecture-flow/internal/logger"
	"github.com/nguyentantai21042004/lecture-flow/pkg/executor"
)

type implDetector struct {
	cfg      *config.Config
	executor executor.Executor
	logger   logger.Logger
}

// New creates the ffmpeg silencedetect Detector. The default "whisper"
// detection mode does not need a Detector at all; it derives spans from the
// transcript via SpeechGaps.
func New(cfg *config.Config, exec executor.Executor, log logger.Logger) Detector {
	return &implDetector{
		cfg:      cfg,
		executor: exec,
		logger:   log.With("silence"),
	}
}
