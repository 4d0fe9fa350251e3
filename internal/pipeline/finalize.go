package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/nguyentantai21042004/lecture-flow/internal/ledger"
	"github.com/nguyentantai21042004/lecture-flow/internal/refine"
	"github.com/nguyentantai21042004/lecture-flow/internal/report"
	"github.com/nguyentantai21042004/lecture-flow/internal/subtitle"
)

// publish moves the trimmed video into the output folder and writes the
// subtitle and report artifacts next to it. Video and SRT are mandatory;
// the reports degrade to warnings so a docx hiccup cannot fail the run.
func (p *implProcessor) publish(ctx context.Context, run *ledger.Run, videoPath, trimmedPath string, result *refine.Result) error {
	if err := os.MkdirAll(p.cfg.Paths.Output, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	videoName := filepath.Base(videoPath)
	ext := filepath.Ext(videoName)
	stem := strings.TrimSuffix(videoName, ext)

	outVideo := filepath.Join(p.cfg.Paths.Output, stem+"_clean"+ext)
	if trimmedPath == videoPath {
		// No cuts were planned; publish a copy so the untouched
		// original can still be archived.
		if err := copyFile(videoPath, outVideo); err != nil {
			return fmt.Errorf("publish video: %w", err)
		}
	} else if err := moveFile(trimmedPath, outVideo); err != nil {
		return fmt.Errorf("publish video: %w", err)
	}
	run.OutputPath = outVideo

	outSRT := filepath.Join(p.cfg.Paths.Output, stem+".srt")
	if err := subtitle.WriteFile(outSRT, result.Entries); err != nil {
		return fmt.Errorf("write subtitles: %w", err)
	}
	p.logger.Info(ctx, "Output subtitle: %s", outSRT)

	if len(result.OffTopic) > 0 {
		offTopicPath := filepath.Join(p.cfg.Paths.Output, stem+"_off_topic.txt")
		if err := report.WriteOffTopicReport(offTopicPath, result.Entries, result.OffTopic); err != nil {
			p.logger.Warn(ctx, "Failed to write off-topic report: %v", err)
		} else {
			p.logger.Info(ctx, "Off-topic report: %s", offTopicPath)
		}
	}

	reportPath := filepath.Join(p.cfg.Paths.Output, stem+"_report.docx")
	if err := report.WriteRunReport(reportPath, run, result); err != nil {
		p.logger.Warn(ctx, "Failed to write run report: %v", err)
	}

	transcriptPath := filepath.Join(p.cfg.Paths.Output, stem+"_transcript.docx")
	if err := report.WriteTranscript(transcriptPath, report.DisplayTitle(videoName), result.Entries); err != nil {
		p.logger.Warn(ctx, "Failed to write transcript: %v", err)
	}

	return nil
}

// moveToArchived moves the processed original out of the input folder.
func (p *implProcessor) moveToArchived(ctx context.Context, videoPath string) error {
	if err := os.MkdirAll(p.cfg.Paths.Archived, 0755); err != nil {
		return fmt.Errorf("create archived directory: %w", err)
	}

	destPath := filepath.Join(p.cfg.Paths.Archived, filepath.Base(videoPath))
	p.logger.Info(ctx, "Archiving original: %s -> %s", videoPath, destPath)

	if err := moveFile(videoPath, destPath); err != nil {
		return fmt.Errorf("move to archived: %w", err)
	}
	return nil
}

// cleanupTempFile removes a temporary file, logging when it fails. Files
// already moved away are fine.
func (p *implProcessor) cleanupTempFile(ctx context.Context, filePath string) {
	if err := os.Remove(filePath); err != nil {
		if !os.IsNotExist(err) {
			p.logger.Warn(ctx, "Failed to cleanup temp file %s: %v", filePath, err)
		}
		return
	}
	p.logger.Debug(ctx, "Cleaned up temp file: %s", filePath)
}

// moveFile renames src to dst, falling back to copy-and-delete when the
// rename crosses filesystems.
func moveFile(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}
	if err := copyFile(src, dst); err != nil {
		return err
	}
	return os.Remove(src)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open source: %w", err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create destination: %w", err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("copy data: %w", err)
	}
	return out.Close()
}
