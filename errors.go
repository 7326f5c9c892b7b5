package logpipe

import "github.com/hyp3rd/ewrap"

var (
	// ErrNotImplemented is returned by a logger that has no sink implementation.
	ErrNotImplemented = ewrap.New("log is not implemented by this logger")
	// ErrNoMatchingLevel is returned when a level code or name cannot be decoded.
	ErrNoMatchingLevel = ewrap.New("no matching level")
	// ErrInvalidFileName is returned when a log file name would escape the log directory.
	ErrInvalidFileName = ewrap.New("invalid log file name")
	// ErrStopTimeout is returned when a logger could not drain before the deadline.
	ErrStopTimeout = ewrap.New("stop timed out before the queue drained")
)
