// Package logging provides structured logging setup for garage.
package logging

import (
	"fmt"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var current atomic.Pointer[zap.Logger]

func init() {
	current.Store(zap.NewNop())
}

// Setup initializes the process-wide logger.
// Dev mode uses a human-readable console encoder at debug level; prod uses JSON.
// An explicit level ("debug", "info", "warn", "error") overrides the mode default.
func Setup(devMode bool, level string) error {
	var cfg zap.Config
	if devMode {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		cfg = zap.NewProductionConfig()
	}
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.OutputPaths = []string{"stderr"}

	if level != "" {
		lvl, err := zapcore.ParseLevel(level)
		if err != nil {
			return fmt.Errorf("parsing log level %q: %w", level, err)
		}
		cfg.Level = zap.NewAtomicLevelAt(lvl)
	}

	l, err := cfg.Build()
	if err != nil {
		return fmt.Errorf("building logger: %w", err)
	}
	current.Store(l)
	return nil
}

// L returns the process-wide logger. It is a no-op logger until Setup or Set is called.
func L() *zap.Logger {
	return current.Load()
}

// Set replaces the process-wide logger and returns the previous one.
func Set(l *zap.Logger) *zap.Logger {
	if l == nil {
		l = zap.NewNop()
	}
	return current.Swap(l)
}

// Sync flushes buffered log entries.
func Sync() {
	_ = L().Sync()
}
