// Package httpmw provides net/http middleware that writes one access line per
// request through a logpipe.Adapter.
package httpmw

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"strconv"
	"strings"

	"github.com/hyp3rd/logpipe"
	"github.com/hyp3rd/logpipe/internal/constants"
)

const randomIDLength = 16

// Option configures the behaviour of the AccessLog middleware.
type Option func(*options)

type options struct {
	traceHeader    string
	requestHeader  string
	idGenerator    func() string
	generateIfMiss bool
	clock          logpipe.Clock
}

// WithTraceHeader configures the header used to populate the trace id.
func WithTraceHeader(name string) Option {
	return func(o *options) {
		if name != "" {
			o.traceHeader = name
		}
	}
}

// WithRequestHeader configures the header used to populate the request id.
func WithRequestHeader(name string) Option {
	return func(o *options) {
		if name != "" {
			o.requestHeader = name
		}
	}
}

// WithIDGenerator provides a custom generator used when headers are missing.
func WithIDGenerator(fn func() string) Option {
	return func(o *options) {
		if fn != nil {
			o.idGenerator = fn
		}
	}
}

// WithGenerateMissingIDs instructs the middleware to create a request id when
// the header is absent.
func WithGenerateMissingIDs(enable bool) Option {
	return func(o *options) {
		o.generateIfMiss = enable
	}
}

// WithClock sets the clock used to measure request durations.
func WithClock(clock logpipe.Clock) Option {
	return func(o *options) {
		if clock != nil {
			o.clock = clock
		}
	}
}

type requestIDKey struct{}

// RequestID returns the request id stored by AccessLog, or "".
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)

	return id
}

// AccessLog logs method, path, status and duration of every request:
//
//	GET /orders 200 1.5ms request=4f2a... trace=abc
//
// Server errors are logged at ErrorLevel, client errors at WarningLevel and
// everything else at InfoLevel. The request id is echoed in the response
// header and stored in the request context.
func AccessLog(adapter *logpipe.Adapter, opts ...Option) func(http.Handler) http.Handler {
	cfg := options{
		traceHeader:    constants.TraceHeader,
		requestHeader:  constants.RequestHeader,
		idGenerator:    randomID,
		generateIfMiss: true,
		clock:          logpipe.NewLiveClock(),
	}

	for _, opt := range opts {
		opt(&cfg)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := cfg.clock.Now()

			requestID := r.Header.Get(cfg.requestHeader)
			if requestID == "" && cfg.generateIfMiss {
				requestID = cfg.idGenerator()
			}

			if requestID != "" {
				w.Header().Set(cfg.requestHeader, requestID)
				r = r.WithContext(context.WithValue(r.Context(), requestIDKey{}, requestID))
			}

			recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(recorder, r)

			var line strings.Builder

			line.WriteString(r.Method)
			line.WriteByte(' ')
			line.WriteString(r.URL.Path)
			line.WriteByte(' ')
			line.WriteString(strconv.Itoa(recorder.status))
			line.WriteByte(' ')
			line.WriteString(cfg.clock.Now().Sub(start).String())

			if requestID != "" {
				line.WriteString(" request=")
				line.WriteString(requestID)
			}

			if traceID := r.Header.Get(cfg.traceHeader); traceID != "" {
				line.WriteString(" trace=")
				line.WriteString(traceID)
			}

			adapter.Log(levelForStatus(recorder.status), logpipe.ColorNormal, line.String())
		})
	}
}

func levelForStatus(status int) logpipe.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return logpipe.ErrorLevel
	case status >= http.StatusBadRequest:
		return logpipe.WarningLevel
	default:
		return logpipe.InfoLevel
	}
}

// statusRecorder captures the status code written by the wrapped handler.
type statusRecorder struct {
	http.ResponseWriter

	status      int
	wroteHeader bool
}

func (s *statusRecorder) WriteHeader(code int) {
	if !s.wroteHeader {
		s.status = code
		s.wroteHeader = true
	}

	s.ResponseWriter.WriteHeader(code)
}

func (s *statusRecorder) Write(p []byte) (int, error) {
	s.wroteHeader = true

	return s.ResponseWriter.Write(p)
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (s *statusRecorder) Unwrap() http.ResponseWriter {
	return s.ResponseWriter
}

func randomID() string {
	bytes := make([]byte, randomIDLength)

	_, err := rand.Read(bytes)
	if err != nil {
		return ""
	}

	return hex.EncodeToString(bytes)
}
