package main

import (
	"errors"
	"fmt"

	"github.com/nguyentantai21042004/lecture-flow/internal/config"
	"github.com/nguyentantai21042004/lecture-flow/internal/gemini"
	"github.com/nguyentantai21042004/lecture-flow/internal/ledger"
	pkgLog "github.com/nguyentantai21042004/lecture-flow/internal/logger"
	"github.com/nguyentantai21042004/lecture-flow/internal/media"
	"github.com/nguyentantai21042004/lecture-flow/internal/pipeline"
	"github.com/nguyentantai21042004/lecture-flow/internal/refine"
	"github.com/nguyentantai21042004/lecture-flow/internal/silence"
	"github.com/nguyentantai21042004/lecture-flow/internal/transcribe"
	"github.com/nguyentantai21042004/lecture-flow/pkg/executor"
)

// processingStack bundles everything the process and watch commands need.
type processingStack struct {
	cfg       *config.Config
	logger    pkgLog.Logger
	ledger    ledger.Ledger
	processor pipeline.Processor
}

func (s *processingStack) Close() error {
	return s.ledger.Close()
}

func (c *commandContext) buildStack(force bool) (*processingStack, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	log, err := c.ensureLogger()
	if err != nil {
		return nil, err
	}

	client, err := gemini.New(cfg.Gemini.APIKeys, log)
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w (set gemini.api_keys or GEMINI_API_KEY)", err)
	}

	runLedger, err := ledger.Open(cfg.Paths.Ledger, log)
	if err != nil {
		if errors.Is(err, ledger.ErrLedgerBusy) {
			return nil, fmt.Errorf("%w; wait for it to finish or remove %s.lock", err, cfg.Paths.Ledger)
		}
		return nil, fmt.Errorf("open ledger: %w", err)
	}

	exec := executor.New()
	proc := pipeline.New(cfg,
		transcribe.New(cfg, exec, log),
		silence.New(cfg, exec, log),
		media.New(cfg, exec, log),
		refine.New(cfg, client, log),
		runLedger,
		log,
		pipeline.WithForce(force),
	)

	return &processingStack{
		cfg:       cfg,
		logger:    log,
		ledger:    runLedger,
		processor: proc,
	}, nil
}
