package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nguyentantai21042004/lecture-flow/internal/config"
	"github.com/nguyentantai21042004/lecture-flow/internal/watcher"
)

func newProcessCommand(ctx *commandContext) *cobra.Command {
	var force bool
	var gap float64
	var workers int
	var language string
	var initialPrompt string

	cmd := &cobra.Command{
		Use:   "process <file-or-dir>...",
		Short: "Process lecture videos and exit",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if err := applyOverrides(cmd, cfg, gap, workers, language, initialPrompt); err != nil {
				return err
			}

			videos, err := collectVideos(args)
			if err != nil {
				return err
			}
			if len(videos) == 0 {
				return fmt.Errorf("no video files found in %s", strings.Join(args, ", "))
			}

			stack, err := ctx.buildStack(force)
			if err != nil {
				return err
			}
			defer stack.Close()

			runCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			stack.logger.Info(runCtx, "Processing %d videos (max concurrent: %d)", len(videos), cfg.Performance.MaxConcurrent)
			return stack.processor.ProcessBatch(runCtx, videos)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Reprocess videos the ledger already marks completed")
	cmd.Flags().Float64Var(&gap, "gap", 0, "Minimum silence duration in seconds worth cutting (overrides config)")
	cmd.Flags().IntVar(&workers, "workers", 0, "Videos to process concurrently (overrides config)")
	cmd.Flags().StringVar(&language, "language", "", "Spoken language hint for transcription (overrides config)")
	cmd.Flags().StringVar(&initialPrompt, "initial-prompt", "", "Vocabulary hint for transcription (overrides config)")

	return cmd
}

func applyOverrides(cmd *cobra.Command, cfg *config.Config, gap float64, workers int, language, prompt string) error {
	flags := cmd.Flags()
	if flags.Changed("gap") {
		if gap <= 0 {
			return fmt.Errorf("--gap must be positive, got %v", gap)
		}
		cfg.Silence.MinGap = gap
	}
	if flags.Changed("workers") {
		if workers <= 0 {
			return fmt.Errorf("--workers must be positive, got %d", workers)
		}
		cfg.Performance.MaxConcurrent = workers
	}
	if flags.Changed("language") {
		cfg.Whisper.Language = language
	}
	if flags.Changed("initial-prompt") {
		cfg.Whisper.Prompt = prompt
	}
	return nil
}

// collectVideos expands the arguments into a flat list of video files.
// Directories contribute their immediate video children; explicitly named
// files must be videos.
func collectVideos(paths []string) ([]string, error) {
	var videos []string
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", path, err)
		}
		if !info.IsDir() {
			if !watcher.IsVideoFile(path) {
				return nil, fmt.Errorf("%s is not a supported video file", path)
			}
			videos = append(videos, path)
			continue
		}
		entries, err := os.ReadDir(path)
		if err != nil {
			return nil, fmt.Errorf("read directory %s: %w", path, err)
		}
		for _, entry := range entries {
			if entry.IsDir() || !watcher.IsVideoFile(entry.Name()) {
				continue
			}
			videos = append(videos, filepath.Join(path, entry.Name()))
		}
	}
	return videos, nil
}
