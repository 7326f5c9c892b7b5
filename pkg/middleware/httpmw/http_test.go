package httpmw

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hyp3rd/logpipe"
	"github.com/hyp3rd/logpipe/pkg/dispatch"
)

func newTestAdapter(t *testing.T) (*logpipe.Adapter, *logpipe.TestClock, *bytes.Buffer) {
	t.Helper()

	console := &bytes.Buffer{}
	clock := logpipe.NewTestClock()

	cfg := logpipe.DefaultConfig()
	cfg.Console = console
	cfg.ConsoleErr = console
	cfg.ColorMode = logpipe.ColorModeNever

	logger, err := dispatch.NewSyncLogger(clock, cfg)
	require.NoError(t, err)

	return logpipe.NewAdapter("HTTP", logger), clock, console
}

func TestAccessLog(t *testing.T) {
	tests := []struct {
		name   string
		status int
		level  logpipe.Level
	}{
		{name: "ok", status: http.StatusOK, level: logpipe.InfoLevel},
		{name: "client error", status: http.StatusNotFound, level: logpipe.WarningLevel},
		{name: "server error", status: http.StatusBadGateway, level: logpipe.ErrorLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			adapter, clock, console := newTestAdapter(t)

			middleware := AccessLog(adapter,
				WithClock(clock),
				WithIDGenerator(func() string { return "generated" }),
			)

			handler := middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "generated", RequestID(r.Context()))
				clock.Advance(15 * time.Millisecond)
				w.WriteHeader(tt.status)
			}))

			rr := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/orders", nil)

			handler.ServeHTTP(rr, req)

			assert.Equal(t, tt.status, rr.Code)
			assert.Equal(t, "generated", rr.Header().Get("X-Request-ID"))
			assert.Contains(t, console.String(),
				"["+tt.level.Code()+"] HTTP: GET /orders "+strconv.Itoa(tt.status)+" 15ms request=generated\n")
		})
	}
}

func TestAccessLogHeaders(t *testing.T) {
	adapter, clock, console := newTestAdapter(t)

	middleware := AccessLog(adapter, WithClock(clock), WithGenerateMissingIDs(false))

	handler := middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "req", RequestID(r.Context()))
		_, _ = w.Write([]byte("body"))
	}))

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/pay", nil)
	req.Header.Set("X-Trace-ID", "trace")
	req.Header.Set("X-Request-ID", "req")

	handler.ServeHTTP(rr, req)

	assert.Contains(t, console.String(), "[INF] HTTP: POST /pay 200 0s request=req trace=trace\n")
}

func TestAccessLogWithoutIDs(t *testing.T) {
	adapter, clock, console := newTestAdapter(t)

	middleware := AccessLog(adapter,
		WithClock(clock),
		WithGenerateMissingIDs(false),
		WithRequestHeader("X-Correlation-ID"),
		WithTraceHeader("X-B3-TraceId"),
	)

	handler := middleware(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		assert.Empty(t, RequestID(r.Context()))
	}))

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Trace-ID", "ignored")

	handler.ServeHTTP(rr, req)

	assert.Empty(t, rr.Header().Get("X-Correlation-ID"))
	assert.Contains(t, console.String(), "[INF] HTTP: GET /health 200 0s\n")
}

func TestRandomID(t *testing.T) {
	first, second := randomID(), randomID()

	assert.Len(t, first, randomIDLength*2)
	assert.NotEqual(t, first, second)
}
