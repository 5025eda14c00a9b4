package log

import "sync"

// The process-wide logger is set once by the CLI after config load; library
// code that was handed no logger falls back to it.
var (
	globalMu sync.RWMutex
	global   *Logger
)

// SetDefaultLogger replaces the process-wide default logger
func SetDefaultLogger(logger *Logger) {
	globalMu.Lock()
	defer globalMu.Unlock()
	global = logger
}

// DefaultLogger returns the process-wide default logger, initializing one
// with the standard configuration on first use
func DefaultLogger() *Logger {
	globalMu.RLock()
	if global != nil {
		defer globalMu.RUnlock()
		return global
	}
	globalMu.RUnlock()

	logger := New(DefaultConfig())
	SetDefaultLogger(logger)
	return logger
}
