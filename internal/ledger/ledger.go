package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

func (l *implLedger) StartRun(ctx context.Context, videoPath string) (*Run, error) {
	run := &Run{
		ID:        uuid.NewString(),
		VideoPath: videoPath,
		VideoName: filepath.Base(videoPath),
		Status:    StatusRunning,
		StartedAt: time.Now().UTC(),
	}

	_, err := l.db.ExecContext(
		ctx,
		`INSERT INTO runs (id, video_path, video_name, status, started_at)
         VALUES (?, ?, ?, ?, ?)`,
		run.ID,
		run.VideoPath,
		run.VideoName,
		run.Status,
		run.StartedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return nil, fmt.Errorf("insert run: %w", err)
	}

	l.logger.Debug(ctx, "Run %s started for %s", run.ID, run.VideoName)
	return run, nil
}

func (l *implLedger) CompleteRun(ctx context.Context, run *Run) error {
	if run == nil {
		return errors.New("run is nil")
	}
	now := time.Now().UTC()
	run.Status = StatusCompleted
	run.FinishedAt = &now

	_, err := l.db.ExecContext(
		ctx,
		`UPDATE runs
         SET status = ?, finished_at = ?, input_duration = ?, output_duration = ?,
             removed_silence = ?, cuts = ?, input_entries = ?, final_entries = ?,
             degraded_chunks = ?, off_topic_flags = ?, output_path = ?, error_message = NULL
         WHERE id = ?`,
		run.Status,
		now.Format(time.RFC3339Nano),
		run.InputDuration,
		run.OutputDuration,
		run.RemovedSilence,
		run.Cuts,
		run.InputEntries,
		run.FinalEntries,
		run.DegradedChunks,
		run.OffTopicFlags,
		nullableString(run.OutputPath),
		run.ID,
	)
	if err != nil {
		return fmt.Errorf("complete run: %w", err)
	}
	return nil
}

func (l *implLedger) FailRun(ctx context.Context, id string, reason string) error {
	_, err := l.db.ExecContext(
		ctx,
		`UPDATE runs SET status = ?, finished_at = ?, error_message = ? WHERE id = ?`,
		StatusFailed,
		time.Now().UTC().Format(time.RFC3339Nano),
		nullableString(reason),
		id,
	)
	if err != nil {
		return fmt.Errorf("fail run: %w", err)
	}
	return nil
}

func (l *implLedger) IsCompleted(ctx context.Context, videoName string) (bool, error) {
	var count int
	row := l.db.QueryRowContext(
		ctx,
		`SELECT COUNT(1) FROM runs WHERE video_name = ? AND status = ?`,
		videoName,
		StatusCompleted,
	)
	if err := row.Scan(&count); err != nil {
		return false, fmt.Errorf("check completed: %w", err)
	}
	return count > 0, nil
}

func (l *implLedger) RecentRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := l.db.QueryContext(
		ctx,
		`SELECT `+runColumns+` FROM runs ORDER BY started_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}
	return runs, rows.Err()
}

const runColumns = "id, video_path, video_name, status, started_at, finished_at, input_duration, output_duration, removed_silence, cuts, input_entries, final_entries, degraded_chunks, off_topic_flags, output_path, error_message"

func scanRun(scanner interface{ Scan(dest ...any) error }) (*Run, error) {
	var (
		startedRaw  string
		finishedRaw sql.NullString
		outputPath  sql.NullString
		errMessage  sql.NullString
		statusStr   string
	)

	run := &Run{}
	if err := scanner.Scan(
		&run.ID,
		&run.VideoPath,
		&run.VideoName,
		&statusStr,
		&startedRaw,
		&finishedRaw,
		&run.InputDuration,
		&run.OutputDuration,
		&run.RemovedSilence,
		&run.Cuts,
		&run.InputEntries,
		&run.FinalEntries,
		&run.DegradedChunks,
		&run.OffTopicFlags,
		&outputPath,
		&errMessage,
	); err != nil {
		return nil, fmt.Errorf("scan run: %w", err)
	}

	run.Status = Status(statusStr)
	run.OutputPath = outputPath.String
	run.ErrorMessage = errMessage.String

	if started, err := time.Parse(time.RFC3339Nano, startedRaw); err == nil {
		run.StartedAt = started
	}
	if finishedRaw.Valid {
		if finished, err := time.Parse(time.RFC3339Nano, finishedRaw.String); err == nil {
			run.FinishedAt = &finished
		}
	}
	return run, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
