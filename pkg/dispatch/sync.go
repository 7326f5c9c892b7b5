package dispatch

import (
	"sync"

	"github.com/hyp3rd/logpipe"
)

// SyncLogger writes every message to its sinks before Log returns. It is
// meant for tests and for code that runs without a consumer goroutine.
type SyncLogger struct {
	*BaseLogger

	mu sync.Mutex
}

// NewSyncLogger creates a synchronous logger.
func NewSyncLogger(clock logpipe.Clock, config logpipe.Config) (*SyncLogger, error) {
	base, err := NewBaseLogger(clock, config)
	if err != nil {
		return nil, err
	}

	return &SyncLogger{BaseLogger: base}, nil
}

// Log writes msg to the console and file sinks. Sink failures are returned.
func (l *SyncLogger) Log(msg logpipe.Message) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.write(msg)
}

// ChangeLogFileName switches the active log file, see BaseLogger.ChangeLogFileName.
func (l *SyncLogger) ChangeLogFileName(name string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.BaseLogger.ChangeLogFileName(name)
}

// Close closes the log file.
func (l *SyncLogger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.closeSinks()
}

var _ logpipe.Logger = (*SyncLogger)(nil)
