package grpcmw

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/hyp3rd/logpipe"
	"github.com/hyp3rd/logpipe/internal/constants"
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

	return logpipe.NewAdapter("GRPC", logger), clock, console
}

func TestUnaryServerInterceptorMetadataExtraction(t *testing.T) {
	t.Parallel()

	adapter, clock, console := newTestAdapter(t)

	ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs(
		constants.TraceMetadataKey, "trace-123",
		constants.RequestMetadataKey, "request-456",
	))

	interceptor := UnaryServerInterceptor(adapter, WithClock(clock))

	handler := func(_ context.Context, req any) (any, error) {
		clock.Advance(2 * time.Millisecond)

		return req, nil
	}

	resp, err := interceptor(ctx, "ping", &grpc.UnaryServerInfo{FullMethod: "/svc.v1.Svc/Ping"}, handler)
	require.NoError(t, err)
	assert.Equal(t, "ping", resp)
	assert.Contains(t, console.String(),
		"[INF] GRPC: /svc.v1.Svc/Ping OK 2ms request=request-456 trace=trace-123\n")
}

func TestUnaryServerInterceptorCustomKeys(t *testing.T) {
	t.Parallel()

	adapter, clock, console := newTestAdapter(t)

	ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs(
		"x-trace", "custom-trace",
		"x-request", "custom-request",
	))

	interceptor := UnaryServerInterceptor(adapter,
		WithClock(clock),
		WithTraceKey("x-trace"),
		WithRequestKey("x-request"),
	)

	handler := func(context.Context, any) (any, error) {
		return nil, nil
	}

	_, err := interceptor(ctx, nil, &grpc.UnaryServerInfo{FullMethod: "/svc.v1.Svc/Get"}, handler)
	require.NoError(t, err)
	assert.Contains(t, console.String(), "request=custom-request trace=custom-trace\n")
}

func TestUnaryServerInterceptorStatusLevels(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		err   error
		level logpipe.Level
		code  string
	}{
		{name: "not found", err: status.Error(codes.NotFound, "no such order"), level: logpipe.WarningLevel, code: "NotFound"},
		{name: "internal", err: status.Error(codes.Internal, "db down"), level: logpipe.ErrorLevel, code: "Internal"},
		{name: "plain error", err: assert.AnError, level: logpipe.ErrorLevel, code: "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			adapter, clock, console := newTestAdapter(t)
			interceptor := UnaryServerInterceptor(adapter, WithClock(clock))

			handler := func(context.Context, any) (any, error) {
				return nil, tt.err
			}

			_, err := interceptor(context.Background(), nil, &grpc.UnaryServerInfo{FullMethod: "/svc.v1.Svc/Get"}, handler)
			require.ErrorIs(t, err, tt.err)
			assert.Contains(t, console.String(),
				"["+tt.level.Code()+"] GRPC: /svc.v1.Svc/Get "+tt.code+" 0s error="+status.Convert(tt.err).Message()+"\n")
		})
	}
}

type fakeServerStream struct {
	grpc.ServerStream

	ctx context.Context //nolint:containedctx
}

func (f *fakeServerStream) Context() context.Context {
	return f.ctx
}

func TestStreamServerInterceptor(t *testing.T) {
	t.Parallel()

	adapter, clock, console := newTestAdapter(t)

	stream := &fakeServerStream{
		ctx: metadata.NewIncomingContext(context.Background(), metadata.Pairs(
			constants.TraceMetadataKey, "stream-trace",
		)),
	}

	interceptor := StreamServerInterceptor(adapter, WithClock(clock))

	handler := func(_ any, ss grpc.ServerStream) error {
		assert.Same(t, stream, ss)
		clock.Advance(time.Second)

		return nil
	}

	err := interceptor(nil, stream, &grpc.StreamServerInfo{FullMethod: "/svc.v1.Svc/Watch", IsServerStream: true}, handler)
	require.NoError(t, err)
	assert.Contains(t, console.String(), "[INF] GRPC: /svc.v1.Svc/Watch OK 1s trace=stream-trace\n")
}
