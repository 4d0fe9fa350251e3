package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/nguyentantai21042004/lecture-flow/internal/config"
	pkgLog "github.com/nguyentantai21042004/lecture-flow/internal/logger"
)

// commandContext lazily loads the configuration and logger so every
// subcommand shares one instance of each.
type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	logOnce sync.Once
	logger  pkgLog.Logger
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		path := "config.yaml"
		if c.configFlag != nil && strings.TrimSpace(*c.configFlag) != "" {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := ensureDirectories(cfg); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() (pkgLog.Logger, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	c.logOnce.Do(func() {
		if cfg.Logging.File == "" {
			c.logger = pkgLog.New(cfg.Logging.Level)
			return
		}
		f, err := os.OpenFile(cfg.Logging.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warn: cannot open log file %s: %v\n", cfg.Logging.File, err)
			c.logger = pkgLog.New(cfg.Logging.Level)
			return
		}
		// Left open for the lifetime of the process.
		c.logger = pkgLog.NewWithOutput(cfg.Logging.Level, io.MultiWriter(os.Stdout, f))
	})
	return c.logger, nil
}

// ensureDirectories creates the working directories up front so the first
// video does not fail on a missing folder.
func ensureDirectories(cfg *config.Config) error {
	dirs := []string{
		cfg.Paths.Input,
		cfg.Paths.Output,
		cfg.Paths.Archived,
		cfg.Paths.Temp,
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}
