package logger

import "context"

// Logger defines the leveled logging interface shared by all components
type Logger interface {
	Debug(ctx context.Context, msg string, args ...interface{})
	Info(ctx context.Context, msg string, args ...interface{})
	Warn(ctx context.Context, msg string, args ...interface{})
	Error(ctx context.Context, msg string, args ...interface{})

	// With returns a child logger whose lines carry the component tag
	With(component string) Logger
}
