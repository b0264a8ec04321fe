// Package logging provides structured logging for the adapter layer.
// The logger is a nop unless verbose logging is enabled in the global
// configuration; library code never writes to stderr by default.
package logging

import (
	"sync"

	"go.uber.org/zap"

	"github.com/stdframe/stdframe/internal/config"
)

var (
	mu     sync.RWMutex
	logger = zap.NewNop()
)

// Init configures the package logger from the global configuration.
// Safe to call multiple times; the last call wins.
func Init() {
	mu.Lock()
	defer mu.Unlock()

	if config.GetGlobalConfig().VerboseLogging {
		l, err := zap.NewDevelopment()
		if err != nil {
			logger = zap.NewNop()
			return
		}
		logger = l
		return
	}
	logger = zap.NewNop()
}

// L returns the package logger.
func L() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// SetLogger replaces the package logger, primarily for tests.
func SetLogger(l *zap.Logger) {
	mu.Lock()
	defer mu.Unlock()
	if l == nil {
		l = zap.NewNop()
	}
	logger = l
}
