package dispatch

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/hyp3rd/ewrap"

	"github.com/hyp3rd/logpipe"
)

// Metrics provides insight into the internal state of the AsyncLogger.
type Metrics struct {
	// Enqueued counts messages accepted into the queue.
	Enqueued uint64
	// Processed counts messages the consumer has handled, failed or not.
	Processed uint64
	// Dropped counts messages discarded because the logger was not running
	// or the caller's context ended while waiting for space.
	Dropped uint64
	// WriteErrors counts messages for which at least one sink failed.
	WriteErrors uint64
	// QueueDepth is the number of messages waiting for the consumer.
	QueueDepth int
}

// AsyncLogger decouples producers from sink I/O. Log places the message on a
// bounded queue and returns; a single consumer goroutine started by Start
// writes queued messages to the sinks in arrival order.
//
// The ErrorHandler from the configuration receives sink failures. It runs on
// the consumer goroutine and must not call back into the same logger.
type AsyncLogger struct {
	*BaseLogger

	// lifecycle is held for reading by producers while they enqueue and for
	// writing by Start and Stop.
	lifecycle    sync.RWMutex
	running      atomic.Bool
	queue        chan logpipe.Message
	done         chan struct{}
	errorHandler func(error)

	enqueuedCount  atomic.Uint64
	processedCount atomic.Uint64
	droppedCount   atomic.Uint64
	writeErrors    atomic.Uint64
}

// NewAsyncLogger creates an asynchronous logger in the stopped state. The queue
// capacity is config.MaxSize, or logpipe.DefaultQueueSize when unset.
func NewAsyncLogger(clock logpipe.Clock, config logpipe.Config) (*AsyncLogger, error) {
	base, err := NewBaseLogger(clock, config)
	if err != nil {
		return nil, err
	}

	return &AsyncLogger{
		BaseLogger:   base,
		errorHandler: base.config.ErrorHandler,
	}, nil
}

// Start spawns the consumer goroutine. It is a no-op when the logger is
// already running. A logger that was stopped can be started again; the new
// consumer only begins once the previous one has drained.
func (l *AsyncLogger) Start() {
	l.lifecycle.Lock()
	defer l.lifecycle.Unlock()

	if l.running.Load() {
		return
	}

	if l.done != nil {
		<-l.done
	}

	queue := make(chan logpipe.Message, l.config.MaxSize)
	done := make(chan struct{})

	l.queue = queue
	l.done = done

	go l.consume(queue, done)

	l.running.Store(true)
}

// IsRunning reports whether the logger accepts messages.
func (l *AsyncLogger) IsRunning() bool {
	return l.running.Load()
}

// Log enqueues msg. When the logger is not running the message is dropped and
// nil is returned. When the queue is full Log blocks until a slot frees up.
func (l *AsyncLogger) Log(msg logpipe.Message) error {
	return l.LogContext(context.Background(), msg)
}

// LogContext is Log with a bound on the wait for queue space. If ctx ends
// first the message is dropped and the context error is returned.
func (l *AsyncLogger) LogContext(ctx context.Context, msg logpipe.Message) error {
	l.lifecycle.RLock()
	defer l.lifecycle.RUnlock()

	if !l.running.Load() {
		l.droppedCount.Add(1)

		return nil
	}

	select {
	case l.queue <- msg:
		l.enqueuedCount.Add(1)

		return nil
	default:
	}

	select {
	case l.queue <- msg:
		l.enqueuedCount.Add(1)

		return nil
	case <-ctx.Done():
		l.droppedCount.Add(1)

		return ewrap.Wrap(ctx.Err(), "waiting for log queue space").
			WithMetadata("capacity", cap(l.queue))
	}
}

// Stop stops accepting messages and waits until every message already
// accepted has been written. Calling Stop on a stopped logger is a no-op.
func (l *AsyncLogger) Stop() {
	_ = l.StopContext(context.Background())
}

// StopContext is Stop with a bound on the drain. When ctx ends before the
// consumer finishes, logpipe.ErrStopTimeout is returned and the consumer keeps
// draining in the background.
func (l *AsyncLogger) StopContext(ctx context.Context) error {
	l.lifecycle.Lock()

	if l.running.Load() {
		l.running.Store(false)
		close(l.queue)
	}

	done := l.done

	l.lifecycle.Unlock()

	if done == nil {
		return nil
	}

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ewrap.Wrap(logpipe.ErrStopTimeout, "stopping async logger").
			WithMetadata("pending", l.Metrics().QueueDepth)
	}
}

// Close stops the logger and closes the log file.
func (l *AsyncLogger) Close() error {
	l.Stop()

	return l.closeSinks()
}

// Metrics returns a snapshot of the current metrics counters.
func (l *AsyncLogger) Metrics() Metrics {
	l.lifecycle.RLock()
	depth := len(l.queue)
	l.lifecycle.RUnlock()

	return Metrics{
		Enqueued:    l.enqueuedCount.Load(),
		Processed:   l.processedCount.Load(),
		Dropped:     l.droppedCount.Load(),
		WriteErrors: l.writeErrors.Load(),
		QueueDepth:  depth,
	}
}

// consume is the consumer goroutine. It is the only writer to the sinks and
// returns once queue is closed and empty.
func (l *AsyncLogger) consume(queue <-chan logpipe.Message, done chan<- struct{}) {
	defer close(done)

	for msg := range queue {
		err := l.writeMessage(msg)
		if err != nil {
			l.writeErrors.Add(1)
			l.errorHandler(ewrap.Wrap(err, "async logger failed to write message").
				WithMetadata("level", msg.Level.Code()).
				WithMetadata("component", msg.Component))
		}

		l.processedCount.Add(1)
	}
}

// writeMessage writes a single message, turning a panicking sink into an
// error so that the consumer survives it.
//
//nolint:nonamedreturns
func (l *AsyncLogger) writeMessage(msg logpipe.Message) (err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			err = ewrap.Newf("sink panicked: %v", recovered)
		}
	}()

	return l.write(msg)
}

var _ logpipe.Logger = (*AsyncLogger)(nil)
