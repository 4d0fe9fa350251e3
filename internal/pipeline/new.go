package pipeline

import (
	"io"
	"os"

	"github.com/nguyentantai21042004/lecture-flow/internal/config"
	"github.com/nguyentantai21042004/lecture-flow/internal/ledger"
	pkgLog "github.com/nguyentantai21042004/lecture-flow/internal/logger"
	"github.com/nguyentantai21042004/lecture-flow/internal/media"
	"github.com/nguyentantai21042004/lecture-flow/internal/refine"
	"github.com/nguyentantai21042004/lecture-flow/internal/silence"
	"github.com/nguyentantai21042004/lecture-flow/internal/transcribe"
)

type implProcessor struct {
	cfg         *config.Config
	transcriber transcribe.Transcriber
	detector    silence.Detector
	rewriter    media.Rewriter
	refiner     refine.Pipeline
	ledger      ledger.Ledger
	logger      pkgLog.Logger

	force bool
	out   io.Writer
}

// Option customizes processor construction.
type Option func(*implProcessor)

// WithForce reprocesses videos even when the ledger marks them completed.
func WithForce(force bool) Option {
	return func(p *implProcessor) {
		p.force = force
	}
}

// WithOutput redirects the per-video summary tables, used by tests.
func WithOutput(w io.Writer) Option {
	return func(p *implProcessor) {
		p.out = w
	}
}

// New creates a video processor from its collaborators.
func New(
	cfg *config.Config,
	transcriber transcribe.Transcriber,
	detector silence.Detector,
	rewriter media.Rewriter,
	refiner refine.Pipeline,
	runLedger ledger.Ledger,
	log pkgLog.Logger,
	opts ...Option,
) Processor {
	p := &implProcessor{
		cfg:         cfg,
		transcriber: transcriber,
		detector:    detector,
		rewriter:    rewriter,
		refiner:     refiner,
		ledger:      runLedger,
		logger:      log.With("pipeline"),
		out:         os.Stdout,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}
