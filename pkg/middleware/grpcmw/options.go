package grpcmw

import (
	"github.com/hyp3rd/logpipe"
	"github.com/hyp3rd/logpipe/internal/constants"
)

// Option defines a configuration option for the gRPC middleware.
type Option func(*options)

type options struct {
	traceKey   string
	requestKey string
	clock      logpipe.Clock
}

// WithTraceKey customizes the metadata key used to read the trace identifier.
func WithTraceKey(name string) Option {
	return func(o *options) {
		if o == nil || name == "" {
			return
		}

		o.traceKey = name
	}
}

// WithRequestKey customizes the metadata key used to read the request identifier.
func WithRequestKey(name string) Option {
	return func(o *options) {
		if o == nil || name == "" {
			return
		}

		o.requestKey = name
	}
}

// WithClock sets the clock used to measure call durations.
func WithClock(clock logpipe.Clock) Option {
	return func(o *options) {
		if o == nil || clock == nil {
			return
		}

		o.clock = clock
	}
}

func actualOptions(opts ...Option) options {
	cfg := options{}
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.traceKey == "" {
		cfg.traceKey = constants.TraceMetadataKey
	}

	if cfg.requestKey == "" {
		cfg.requestKey = constants.RequestMetadataKey
	}

	if cfg.clock == nil {
		cfg.clock = logpipe.NewLiveClock()
	}

	return cfg
}
