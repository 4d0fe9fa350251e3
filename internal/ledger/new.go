package ledger

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	_ "modernc.org/sqlite"

	pkgLog "github.com/nguyentantai21042004/lecture-flow/internal/logger"
)

// ErrLedgerBusy means another process holds the instance lock and is
// presumably processing videos right now.
var ErrLedgerBusy = errors.New("ledger is locked by another process")

type implLedger struct {
	db     *sql.DB
	path   string
	lock   *flock.Flock
	logger pkgLog.Logger
}

// Open opens the run ledger for processing. It takes a file lock next to
// the database so concurrent invocations cannot double-process videos;
// a second instance gets ErrLedgerBusy.
func Open(path string, log pkgLog.Logger) (Ledger, error) {
	lock := flock.New(path + ".lock")
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire ledger lock: %w", err)
	}
	if !ok {
		return nil, ErrLedgerBusy
	}

	l, err := open(path, log)
	if err != nil {
		_ = lock.Unlock()
		return nil, err
	}
	l.lock = lock
	return l, nil
}

// OpenReadOnly opens the ledger without the instance lock, for commands
// that only read history.
func OpenReadOnly(path string, log pkgLog.Logger) (Ledger, error) {
	return open(path, log)
}

func open(path string, log pkgLog.Logger) (*implLedger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create ledger directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open ledger db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	l := &implLedger{db: db, path: path, logger: log.With("ledger")}
	if err := l.initSchema(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return l, nil
}

func (l *implLedger) initSchema() error {
	schema := `CREATE TABLE IF NOT EXISTS runs (
        id TEXT PRIMARY KEY,
        video_path TEXT NOT NULL,
        video_name TEXT NOT NULL,
        status TEXT NOT NULL,
        started_at TEXT NOT NULL,
        finished_at TEXT,
        input_duration REAL NOT NULL DEFAULT 0,
        output_duration REAL NOT NULL DEFAULT 0,
        removed_silence REAL NOT NULL DEFAULT 0,
        cuts INTEGER NOT NULL DEFAULT 0,
        input_entries INTEGER NOT NULL DEFAULT 0,
        final_entries INTEGER NOT NULL DEFAULT 0,
        degraded_chunks INTEGER NOT NULL DEFAULT 0,
        off_topic_flags INTEGER NOT NULL DEFAULT 0,
        output_path TEXT,
        error_message TEXT
    );
    CREATE INDEX IF NOT EXISTS idx_runs_video_name ON runs(video_name);
    CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at);`

	if _, err := l.db.Exec(schema); err != nil {
		return fmt.Errorf("init ledger schema: %w", err)
	}
	return nil
}

// Close closes the database and releases the instance lock when held.
func (l *implLedger) Close() error {
	if l == nil || l.db == nil {
		return nil
	}
	err := l.db.Close()
	if l.lock != nil {
		if unlockErr := l.lock.Unlock(); unlockErr != nil && err == nil {
			err = unlockErr
		}
	}
	return err
}
