// Package pipeline orchestrates the per-video cleanup: silence-driven
// timeline cuts, transcription, subtitle refinement, artifact writing and
// run bookkeeping, plus the bounded worker pool for batches.
package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/nguyentantai21042004/lecture-flow/internal/ledger"
	"github.com/nguyentantai21042004/lecture-flow/internal/refine"
	"github.com/nguyentantai21042004/lecture-flow/internal/report"
	"github.com/nguyentantai21042004/lecture-flow/internal/silence"
	"github.com/nguyentantai21042004/lecture-flow/internal/subtitle"
	"github.com/nguyentantai21042004/lecture-flow/internal/timeline"
)

// Process orchestrates the entire cleanup for one video.
func (p *implProcessor) Process(ctx context.Context, videoPath string) error {
	startTime := time.Now()
	videoName := filepath.Base(videoPath)

	if !p.force {
		done, err := p.ledger.IsCompleted(ctx, videoName)
		if err != nil {
			return fmt.Errorf("check ledger: %w", err)
		}
		if done {
			p.logger.Info(ctx, "Skipping %s: already completed (use --force to redo)", videoName)
			return nil
		}
	}

	if minutes := p.cfg.Performance.VideoTimeoutMinutes; minutes > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(minutes)*time.Minute)
		defer cancel()
	}

	run, err := p.ledger.StartRun(ctx, videoPath)
	if err != nil {
		return fmt.Errorf("start run: %w", err)
	}

	p.logger.Info(ctx, "========================================")
	p.logger.Info(ctx, "Starting video processing: %s", videoPath)
	p.logger.Info(ctx, "========================================")

	result, err := p.process(ctx, run, videoPath)
	if err != nil {
		p.logger.Error(ctx, "Processing %s failed: %v", videoName, err)
		run.Status = ledger.StatusFailed
		run.ErrorMessage = err.Error()
		if failErr := p.ledger.FailRun(ctx, run.ID, err.Error()); failErr != nil {
			p.logger.Warn(ctx, "Failed to record failure: %v", failErr)
		}
		p.renderSummary(run, result)
		return err
	}

	if err := p.ledger.CompleteRun(ctx, run); err != nil {
		p.logger.Warn(ctx, "Failed to record completion: %v", err)
	}

	p.logger.Info(ctx, "========================================")
	p.logger.Info(ctx, "Processing completed successfully!")
	p.logger.Info(ctx, "Output video: %s", run.OutputPath)
	p.logger.Info(ctx, "Removed silence: %.1fs across %d cuts", run.RemovedSilence, run.Cuts)
	p.logger.Info(ctx, "Processing time: %s", time.Since(startTime).Round(time.Second))
	p.logger.Info(ctx, "========================================")

	p.renderSummary(run, result)
	return nil
}

// process runs the stage sequence and fills the run record as stats become
// known. The trimmed media stays in the temp folder until refinement
// succeeds, then gets published together with the subtitle artifacts.
func (p *implProcessor) process(ctx context.Context, run *ledger.Run, videoPath string) (*refine.Result, error) {
	duration, err := p.rewriter.Probe(ctx, videoPath)
	if err != nil {
		return nil, fmt.Errorf("probe: %w", err)
	}
	run.InputDuration = duration
	p.logger.Info(ctx, "Duration: %.1fs", duration)

	entries, err := p.transcriber.Transcribe(ctx, videoPath)
	if err != nil {
		return nil, fmt.Errorf("transcribe: %w", err)
	}
	run.InputEntries = len(entries)

	spans, err := p.detectSpans(ctx, videoPath, entries, duration)
	if err != nil {
		return nil, fmt.Errorf("detect silence: %w", err)
	}

	cuts, err := timeline.PlanCuts(spans, p.cfg.Silence.MinGap)
	if err != nil {
		return nil, fmt.Errorf("plan cuts: %w", err)
	}
	cuts = cuts.Shrink(p.cfg.Silence.CutPadding)
	run.Cuts = len(cuts)
	p.logger.Info(ctx, "Planned %d cuts (min gap %.2fs, padding %.2fs)", len(cuts), p.cfg.Silence.MinGap, p.cfg.Silence.CutPadding)

	tm, err := timeline.BuildTimeMap(cuts, duration)
	if err != nil {
		return nil, fmt.Errorf("build time map: %w", err)
	}
	run.OutputDuration = tm.OutputDuration()
	run.RemovedSilence = tm.RemovedDuration()

	trimmedPath, err := p.rewriter.Rewrite(ctx, videoPath, cuts, duration)
	if err != nil {
		return nil, fmt.Errorf("rewrite video: %w", err)
	}
	if trimmedPath != videoPath {
		defer p.cleanupTempFile(ctx, trimmedPath)
	}

	projected, err := timeline.ProjectEntries(entries, tm)
	if err != nil {
		return nil, fmt.Errorf("project subtitles: %w", err)
	}
	subtitle.Quantize(projected)
	p.logger.Info(ctx, "Projected %d entries onto the cut timeline (%d raw)", len(projected), len(entries))

	result, err := p.refiner.Run(ctx, videoPath, projected)
	if err != nil {
		return nil, fmt.Errorf("refine subtitles: %w", err)
	}
	run.FinalEntries = len(result.Entries)
	run.DegradedChunks = len(result.Degraded)
	run.OffTopicFlags = len(result.OffTopic)

	if err := p.publish(ctx, run, videoPath, trimmedPath, result); err != nil {
		return result, err
	}

	if err := p.moveToArchived(ctx, videoPath); err != nil {
		p.logger.Warn(ctx, "Failed to archive original: %v", err)
	}

	return result, nil
}

// detectSpans picks the configured silence source. The whisper detector
// reuses the transcript gaps so the expensive ASR pass runs exactly once.
func (p *implProcessor) detectSpans(ctx context.Context, videoPath string, entries []subtitle.Entry, duration float64) ([]timeline.Span, error) {
	if p.cfg.Silence.Detector == "ffmpeg" {
		return p.detector.Detect(ctx, videoPath, duration)
	}
	return silence.SpeechGaps(entries, duration)
}

func (p *implProcessor) renderSummary(run *ledger.Run, result *refine.Result) {
	fmt.Fprintln(p.out, report.RenderRunSummary(run, result, report.ShouldColorize(p.out)))
}

// ProcessBatch fans videos out to the worker pool. Failures are collected
// and reported together after the pool drains.
func (p *implProcessor) ProcessBatch(ctx context.Context, videoPaths []string) error {
	if len(videoPaths) == 0 {
		return nil
	}

	sem := newSemaphore(p.cfg.Performance.MaxConcurrent)
	var wg sync.WaitGroup
	var mu sync.Mutex
	var failed []string

	for _, path := range videoPaths {
		if err := sem.acquire(ctx); err != nil {
			wg.Wait()
			return err
		}
		wg.Add(1)
		go func(path string) {
			defer wg.Done()
			defer sem.release()

			if err := p.Process(ctx, path); err != nil {
				mu.Lock()
				failed = append(failed, filepath.Base(path))
				mu.Unlock()
			}
		}(path)
	}
	wg.Wait()

	if len(failed) > 0 {
		return fmt.Errorf("%d of %d videos failed: %s", len(failed), len(videoPaths), strings.Join(failed, ", "))
	}
	return nil
}
