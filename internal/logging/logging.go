// Package logging builds the zap logger shared by the host packages.
package logging

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/pienaaranker/storypoints-sub000/internal/config"
)

// Options selects where and how verbosely to log.
type Options struct {
	Level   string // debug, info, warn or error; empty means info
	File    string // Empty logs to stderr
	Verbose bool   // Forces debug level
}

// FromConfig derives Options from the loaded configuration. fallbackFile is
// used when the config names no file; pass "" to log to stderr.
func FromConfig(cfg config.LoggingConfig, fallbackFile string, verbose bool) Options {
	file := cfg.File
	if file == "" {
		file = fallbackFile
	}
	return Options{Level: cfg.Level, File: file, Verbose: verbose}
}

// New builds a JSON production logger.
func New(opts Options) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if opts.Level != "" {
		l, err := zapcore.ParseLevel(opts.Level)
		if err != nil {
			return nil, fmt.Errorf("parse log level: %w", err)
		}
		level = l
	}
	if opts.Verbose {
		level = zapcore.DebugLevel
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}

	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0o755); err != nil {
			return nil, fmt.Errorf("create log directory: %w", err)
		}
		cfg.OutputPaths = []string{opts.File}
		cfg.ErrorOutputPaths = []string{opts.File}
	}

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return logger, nil
}

// Nop returns a logger that discards everything.
func Nop() *zap.Logger {
	return zap.NewNop()
}
