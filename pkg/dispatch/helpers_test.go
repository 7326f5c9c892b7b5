package dispatch

import (
	"bytes"
	"strings"
	"sync"
	"time"
)

// syncBuffer is a goroutine-safe bytes.Buffer used as a console.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.buf.String()
}

func (b *syncBuffer) Lines() []string {
	text := strings.TrimSuffix(b.String(), "\n")
	if text == "" {
		return nil
	}

	return strings.Split(text, "\n")
}

// gatedWriter blocks every write until the gate is opened.
type gatedWriter struct {
	syncBuffer

	entered chan struct{}
	gate    chan struct{}
	once    sync.Once
}

func newGatedWriter() *gatedWriter {
	return &gatedWriter{
		entered: make(chan struct{}, 64),
		gate:    make(chan struct{}),
	}
}

func (g *gatedWriter) Write(p []byte) (int, error) {
	g.entered <- struct{}{}
	<-g.gate

	return g.syncBuffer.Write(p)
}

func (g *gatedWriter) open() {
	g.once.Do(func() { close(g.gate) })
}

// slowWriter delays each write.
type slowWriter struct {
	syncBuffer

	delay time.Duration
}

func (s *slowWriter) Write(p []byte) (int, error) {
	time.Sleep(s.delay)

	return s.syncBuffer.Write(p)
}

// flakyWriter fails a fixed number of writes before succeeding.
type flakyWriter struct {
	syncBuffer

	mu       sync.Mutex
	failures int
	panics   int
}

func (f *flakyWriter) Write(p []byte) (int, error) {
	f.mu.Lock()
	panics := f.panics
	if panics > 0 {
		f.panics--
	}

	failures := f.failures
	if failures > 0 && panics == 0 {
		f.failures--
	}
	f.mu.Unlock()

	if panics > 0 {
		panic("console exploded")
	}

	if failures > 0 {
		return 0, errWriteFailed
	}

	return f.syncBuffer.Write(p)
}
