package watcher

import "context"

// Watcher monitors the input directory for newly arrived videos.
type Watcher interface {
	Start(ctx context.Context) error
	Stop() error
}

// EventHandler processes one detected video file.
type EventHandler func(ctx context.Context, filePath string) error
