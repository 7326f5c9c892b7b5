// Package dispatch provides the concrete loggers of the pipeline.
//
// Two variants implement logpipe.Logger:
//
//   - SyncLogger writes to the sinks inline and returns sink failures to the
//     caller.
//   - AsyncLogger enqueues onto a bounded channel and a single consumer
//     goroutine performs every sink write, in FIFO order. A full queue parks
//     the producer until the consumer frees a slot.
//
// Both embed BaseLogger, which carries the configuration, the clock and the
// sinks. BaseLogger on its own has no sink behaviour and its Log fails with
// logpipe.ErrNotImplemented.
package dispatch

import (
	"github.com/hyp3rd/ewrap"

	"github.com/hyp3rd/logpipe"
	"github.com/hyp3rd/logpipe/internal/output"
)

// BaseLogger holds the state shared by every logger variant.
type BaseLogger struct {
	config logpipe.Config
	clock  logpipe.Clock
	sinks  *output.Sinks
}

// NewBaseLogger validates config and builds the sinks. Zero-valued fields of
// config are filled from logpipe.DefaultConfig.
func NewBaseLogger(clock logpipe.Clock, config logpipe.Config) (*BaseLogger, error) {
	config = config.WithDefaults()

	err := config.Validate()
	if err != nil {
		return nil, err
	}

	if clock == nil {
		clock = logpipe.NewLiveClock()
	}

	sinks, err := output.NewSinks(config, clock)
	if err != nil {
		return nil, ewrap.Wrap(err, "failed to create sinks").
			WithMetadata("name", config.Name).
			WithMetadata("dir", config.LogFileDir)
	}

	return &BaseLogger{
		config: config,
		clock:  clock,
		sinks:  sinks,
	}, nil
}

// Log always fails: the base logger has no sink implementation.
func (*BaseLogger) Log(_ logpipe.Message) error {
	return logpipe.ErrNotImplemented
}

// Clock returns the clock the logger was built with.
func (b *BaseLogger) Clock() logpipe.Clock {
	return b.clock
}

// Config returns the effective configuration.
func (b *BaseLogger) Config() logpipe.Config {
	return b.config
}

// LogFileDir returns the log directory, ending with a path separator.
func (b *BaseLogger) LogFileDir() string {
	return b.sinks.File().Dir()
}

// LogFilePath returns the path of the active log file.
func (b *BaseLogger) LogFilePath() string {
	return b.sinks.File().Path()
}

// ChangeLogFileName closes the active log file and continues in
// LogFileDir() + name + ".log". When file logging is enabled the new file is
// created immediately. The previous file is not touched.
func (b *BaseLogger) ChangeLogFileName(name string) error {
	file := b.sinks.File()

	err := file.Rename(name)
	if err != nil {
		return err
	}

	if !b.config.LogToFile {
		return nil
	}

	return file.Open()
}

// Sync flushes the sinks.
func (b *BaseLogger) Sync() error {
	return b.sinks.Sync()
}

// write delivers msg to the sinks. Callers guarantee a single writer.
func (b *BaseLogger) write(msg logpipe.Message) error {
	return b.sinks.Write(msg)
}

// closeSinks releases the log file and any owned console stream.
func (b *BaseLogger) closeSinks() error {
	return b.sinks.Close()
}

var (
	_ logpipe.Logger        = (*BaseLogger)(nil)
	_ logpipe.ClockProvider = (*BaseLogger)(nil)
)
