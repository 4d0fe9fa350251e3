package refine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/nguyentantai21042004/lecture-flow/internal/gemini"
	"github.com/nguyentantai21042004/lecture-flow/internal/subtitle"
)

// Run executes the six stages in fixed order. AI-backed chunk stages retry
// transient failures with exponential backoff and degrade to the unmodified
// chunk when retries run out; only context extraction is fatal.
func (p *implPipeline) Run(ctx context.Context, mediaPath string, entries []subtitle.Entry) (*Result, error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("nothing to refine: no entries")
	}
	if err := subtitle.Validate(entries); err != nil {
		return nil, fmt.Errorf("refinement input: %w", err)
	}

	result := &Result{}
	record := func(stage string, entries []subtitle.Entry) {
		result.Stages = append(result.Stages, StageCount{Stage: stage, Entries: len(entries)})
	}

	p.logger.Info(ctx, "Extracting lecture context")
	vctx, err := p.extractContext(ctx, mediaPath, entries)
	if err != nil {
		return nil, err
	}
	result.Context = vctx
	record(StageContext, entries)

	chunks := SplitChunks(entries, p.cfg.Refine.ChunkSize, p.cfg.Refine.ChunkDuration)
	p.logger.Info(ctx, "Flash refinement: %d entries in %d chunks", len(entries), len(chunks))
	entries, degraded := p.runChunked(ctx, StageFlash, chunks, func(ctx context.Context, c Chunk) ([]subtitle.Entry, error) {
		return p.refineChunk(ctx, c, vctx)
	})
	result.Degraded = append(result.Degraded, degraded...)
	record(StageFlash, entries)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries = StandardizeNotation(entries, vctx.SymbolTable)
	record(StageNotation, entries)

	before := len(entries)
	entries = SmartMerge(entries, MergeOptions{
		MinDuration: p.cfg.Refine.MergeMinDuration,
		MaxChars:    p.cfg.Refine.MergeMaxChars,
		Dedupe:      !p.cfg.Refine.KeepDuplicates,
	})
	if merged := before - len(entries); merged > 0 {
		p.logger.Info(ctx, "Merged %d fragmented entries", merged)
	}
	record(StageMerge, entries)

	chunks = SplitChunks(entries, p.cfg.Refine.ChunkSize, p.cfg.Refine.ChunkDuration)
	p.logger.Info(ctx, "Pro review: %d entries in %d chunks", len(entries), len(chunks))
	entries, degraded = p.runChunked(ctx, StageReview, chunks, func(ctx context.Context, c Chunk) ([]subtitle.Entry, error) {
		return p.reviewChunk(ctx, c, vctx)
	})
	result.Degraded = append(result.Degraded, degraded...)
	record(StageReview, entries)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var flags []OffTopicFlag
	err = p.withRetry(ctx, func(ctx context.Context) error {
		var detectErr error
		flags, detectErr = p.detectOffTopic(ctx, entries, vctx)
		return detectErr
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		p.logger.Warn(ctx, "Off-topic detection skipped: %v", err)
		result.Degraded = append(result.Degraded, DegradedChunk{
			FirstIndex: entries[0].Index,
			LastIndex:  entries[len(entries)-1].Index,
			Stage:      StageOffTopic,
			Reason:     err.Error(),
		})
	}
	result.OffTopic = flags
	record(StageOffTopic, entries)

	subtitle.Renumber(entries)
	if err := subtitle.Validate(entries); err != nil {
		return nil, fmt.Errorf("refinement output: %w", err)
	}
	result.Entries = entries

	p.logger.Info(ctx, "Refinement finished: %d entries, %d degraded chunks, %d off-topic flags",
		len(entries), len(result.Degraded), len(result.OffTopic))
	return result, nil
}

// runChunked dispatches chunks to workers and reassembles the results in
// chunk order. A chunk whose call keeps failing is passed through
// unmodified and recorded, never dropped.
func (p *implPipeline) runChunked(ctx context.Context, stage string, chunks []Chunk, call func(context.Context, Chunk) ([]subtitle.Entry, error)) ([]subtitle.Entry, []DegradedChunk) {
	workers := p.cfg.Performance.ChunkWorkers
	if workers <= 0 {
		workers = 1
	}

	results := make([][]subtitle.Entry, len(chunks))
	failures := make([]*DegradedChunk, len(chunks))

	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup
	for i, c := range chunks {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, c Chunk) {
			defer wg.Done()
			defer func() { <-sem }()

			refined, err := p.chunkWithRetry(ctx, c, call)
			if err != nil {
				p.logger.Warn(ctx, "Chunk %d degraded in %s: %v", c.Ordinal, stage, err)
				failures[i] = &DegradedChunk{
					Ordinal:    c.Ordinal,
					FirstIndex: c.FirstIndex(),
					LastIndex:  c.LastIndex(),
					Stage:      stage,
					Reason:     err.Error(),
				}
				refined = c.Entries
			}
			results[i] = refined
		}(i, c)
	}
	wg.Wait()

	var entries []subtitle.Entry
	var degraded []DegradedChunk
	for i := range chunks {
		entries = append(entries, results[i]...)
		if failures[i] != nil {
			degraded = append(degraded, *failures[i])
		}
	}
	return entries, degraded
}

func (p *implPipeline) chunkWithRetry(ctx context.Context, c Chunk, call func(context.Context, Chunk) ([]subtitle.Entry, error)) ([]subtitle.Entry, error) {
	var refined []subtitle.Entry
	err := p.withRetry(ctx, func(ctx context.Context) error {
		var callErr error
		refined, callErr = call(ctx, c)
		return callErr
	})
	if err != nil {
		return nil, err
	}
	return refined, nil
}

// withRetry runs fn up to MaxRetries+1 times, sleeping with exponential
// backoff between attempts. Only transient failures are retried; permanent
// ones and context cancellation surface immediately.
func (p *implPipeline) withRetry(ctx context.Context, fn func(context.Context) error) error {
	delay := time.Duration(p.cfg.Refine.RetryDelayMS) * time.Millisecond
	var lastErr error
	for attempt := 0; attempt <= p.cfg.Refine.MaxRetries; attempt++ {
		if attempt > 0 {
			p.sleeper(delay)
			delay *= 2
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}
		if !errors.Is(lastErr, gemini.ErrStageTransient) {
			return lastErr
		}
	}
	return lastErr
}
