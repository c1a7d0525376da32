// Package logger builds the zap loggers used by the binaries.
//
// The TUI owns the terminal, so it logs to a file. The MCP servers log to
// stderr ("stderr" is understood as a path); the stdio server must never
// write logs to stdout.
package logger

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a JSON logger writing to path at the given level. An empty
// path disables logging.
func New(path, level string) (*zap.Logger, error) {
	return NewWith(path, level, nil)
}

// NewWith is New with a hook to adjust the zap config before it is built.
func NewWith(path, level string, cfgFn func(*zap.Config)) (*zap.Logger, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return zap.NewNop(), nil
	}

	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.Sampling = nil
	cfg.OutputPaths = []string{path}
	cfg.ErrorOutputPaths = []string{path}
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if cfgFn != nil {
		cfgFn(&cfg)
	}

	log, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return log, nil
}

// ParseLevel accepts zap level names; empty means info.
func ParseLevel(level string) (zapcore.Level, error) {
	level = strings.TrimSpace(level)
	if level == "" {
		return zapcore.InfoLevel, nil
	}
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return zapcore.InfoLevel, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return lvl, nil
}
