package media

import (
	"github.com/nguyentantai21042004/lecture-flow/internal/config"
	"github.com/nguyentantai21042004/lecture-flow/internal/logger"
	"github.com/nguyentantai21042004/lecture-flow/pkg/executor"
)

type implRewriter struct {
	cfg      *config.Config
	executor executor.Executor
	logger   logger.Logger
}

// New creates a new Rewriter instance
func New(cfg *config.Config, exec executor.Executor, log logger.Logger) Rewriter {
	return &implRewriter{
		cfg:      cfg,
		executor: exec,
		logger:   log.With("media"),
	}
}
