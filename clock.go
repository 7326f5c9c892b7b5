package logpipe

import (
	"sync"
	"time"
)

// Clock supplies timestamps. Nothing in the pipeline reads wall-clock time
// except through a Clock.
type Clock interface {
	Now() time.Time
}

// LiveClock reads the system clock, in UTC.
type LiveClock struct{}

// NewLiveClock returns the production clock.
func NewLiveClock() LiveClock {
	return LiveClock{}
}

// Now returns the current UTC time.
func (LiveClock) Now() time.Time {
	return time.Now().UTC()
}

// TestClock is a manually advanced clock. It starts at the Unix epoch and
// only moves when test code tells it to.
type TestClock struct {
	mu  sync.RWMutex
	now time.Time
}

// NewTestClock returns a clock fixed at 1970-01-01T00:00:00Z.
func NewTestClock() *TestClock {
	return &TestClock{now: time.Unix(0, 0).UTC()}
}

// Now returns the clock's current time.
func (c *TestClock) Now() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.now
}

// SetTime moves the clock to t.
func (c *TestClock) SetTime(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.now = t.UTC()
}

// Advance moves the clock forward by d.
func (c *TestClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.now = c.now.Add(d)
}

var (
	_ Clock = LiveClock{}
	_ Clock = (*TestClock)(nil)
)
