package refine

import (
	"time"

	"github.com/nguyentantai21042004/lecture-flow/internal/config"
	"github.com/nguyentantai21042004/lecture-flow/internal/gemini"
	pkgLog "github.com/nguyentantai21042004/lecture-flow/internal/logger"
)

type implPipeline struct {
	cfg     *config.Config
	client  gemini.Client
	logger  pkgLog.Logger
	sleeper func(time.Duration)
}

// Option customizes pipeline construction.
type Option func(*implPipeline)

// WithSleeper replaces the retry backoff sleep, used by tests.
func WithSleeper(sleep func(time.Duration)) Option {
	return func(p *implPipeline) {
		p.sleeper = sleep
	}
}

// New creates a refinement pipeline on top of the given AI client.
func New(cfg *config.Config, client gemini.Client, log pkgLog.Logger, opts ...Option) Pipeline {
	p := &implPipeline{
		cfg:     cfg,
		client:  client,
		logger:  log.With("refine"),
		sleeper: time.Sleep,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}
