// Package grpcmw provides gRPC server interceptors that write one line per
// call through a logpipe.Adapter:
//
//	/orders.v1.Orders/Get OK 1.5ms request=4f2a trace=abc
package grpcmw

import (
	"context"
	"strings"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/hyp3rd/logpipe"
)

// UnaryServerInterceptor logs every unary call after the handler returns.
func UnaryServerInterceptor(adapter *logpipe.Adapter, opts ...Option) grpc.UnaryServerInterceptor {
	cfg := actualOptions(opts...)

	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := cfg.clock.Now()

		resp, err := handler(ctx, req)

		cfg.logCall(ctx, adapter, info.FullMethod, err, cfg.clock.Now().Sub(start))

		return resp, err
	}
}

// StreamServerInterceptor logs every streaming call once the stream ends.
func StreamServerInterceptor(adapter *logpipe.Adapter, opts ...Option) grpc.StreamServerInterceptor {
	cfg := actualOptions(opts...)

	return func(srv any, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
		start := cfg.clock.Now()

		err := handler(srv, ss)

		cfg.logCall(ss.Context(), adapter, info.FullMethod, err, cfg.clock.Now().Sub(start))

		return err
	}
}

func (o options) logCall(ctx context.Context, adapter *logpipe.Adapter, method string, err error, elapsed time.Duration) {
	code := status.Code(err)

	var line strings.Builder

	line.WriteString(method)
	line.WriteByte(' ')
	line.WriteString(code.String())
	line.WriteByte(' ')
	line.WriteString(elapsed.String())

	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if values := md.Get(o.requestKey); len(values) > 0 {
			line.WriteString(" request=")
			line.WriteString(values[0])
		}

		if values := md.Get(o.traceKey); len(values) > 0 {
			line.WriteString(" trace=")
			line.WriteString(values[0])
		}
	}

	if err != nil {
		line.WriteString(" error=")
		line.WriteString(status.Convert(err).Message())
	}

	adapter.Log(levelForCode(code), logpipe.ColorNormal, line.String())
}

//nolint:exhaustive // every other code is a server fault.
func levelForCode(code codes.Code) logpipe.Level {
	switch code {
	case codes.OK:
		return logpipe.InfoLevel
	case codes.Canceled, codes.InvalidArgument, codes.NotFound, codes.AlreadyExists,
		codes.PermissionDenied, codes.Unauthenticated, codes.FailedPrecondition,
		codes.OutOfRange, codes.ResourceExhausted, codes.Aborted:
		return logpipe.WarningLevel
	default:
		return logpipe.ErrorLevel
	}
}
