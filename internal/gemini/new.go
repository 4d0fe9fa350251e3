package gemini

import (
	"fmt"
	"sync"
	"time"

	"github.com/nguyentantai21042004/lecture-flow/internal/logger"
)

type implClient struct {
	apiKeys []string
	logger  logger.Logger
	sleeper func(time.Duration)

	// currentKey is shared by concurrent chunk calls.
	mu         sync.Mutex
	currentKey int
}

// Option customizes the client.
type Option func(*implClient)

// WithSleeper overrides how upload polling sleeps are performed (useful
// for tests).
func WithSleeper(sleeper func(time.Duration)) Option {
	return func(c *implClient) {
		c.sleeper = sleeper
	}
}

// New creates a Client that rotates through the supplied Gemini API keys.
func New(apiKeys []string, log logger.Logger, opts ...Option) (Client, error) {
	if len(apiKeys) == 0 {
		return nil, fmt.Errorf("at least one Gemini API key is required")
	}
	c := &implClient{
		apiKeys: apiKeys,
		logger:  log.With("gemini"),
		sleeper: time.Sleep,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// key returns the active API key and its position for log messages.
func (c *implClient) key() (string, int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.apiKeys[c.currentKey], c.currentKey
}

func (c *implClient) rotateKey() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.currentKey = (c.currentKey + 1) % len(c.apiKeys)
}
