package watcher

import (
	"fmt"
	"time"

	"github.com/fsnotify/fsnotify"
	pkgLog "github.com/nguyentantai21042004/lecture-flow/internal/logger"
)

// Option customizes watcher construction.
type Option func(*implWatcher)

// WithSettleDelay overrides the wait between detecting a file and handing
// it off, used by tests.
func WithSettleDelay(d time.Duration) Option {
	return func(w *implWatcher) {
		w.settleDelay = d
	}
}

// New creates a watcher over inputDir that hands new videos to handler,
// running at most maxConcurrent handlers at once.
func New(inputDir string, handler EventHandler, log pkgLog.Logger, maxConcurrent int, opts ...Option) (Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	if err := fsw.Add(inputDir); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("add watch path: %w", err)
	}

	if maxConcurrent <= 0 {
		maxConcurrent = 2
	}

	w := &implWatcher{
		inputDir:      inputDir,
		handler:       handler,
		logger:        log.With("watcher"),
		watcher:       fsw,
		maxConcurrent: maxConcurrent,
		semaphore:     make(chan struct{}, maxConcurrent),
		settleDelay:   500 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}
