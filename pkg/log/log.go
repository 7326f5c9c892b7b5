// Package log provides application-level logging functionality for services.
//
// This package creates a started asynchronous logger configured for the
// environment (production or non-production) and the service name:
//
// - In non-production environments: Debug level on the console, no log file
// - In production environments: Info level on the console, every message in a
// file named after the service
//
// The logger stops once the context passed to New is done. The drain is bounded
// by constants.DefaultTimeout.
//
// Usage:
//
//	logger, err := log.New(ctx, "development", "user-service")
//	if err != nil {
//		panic(err)
//	}
//
//	api := logpipe.NewAdapter("API", logger)
//	api.Info("Service started successfully")
package log

import (
	"context"

	"github.com/hyp3rd/ewrap"

	"github.com/hyp3rd/logpipe"
	"github.com/hyp3rd/logpipe/internal/constants"
	"github.com/hyp3rd/logpipe/pkg/dispatch"
)

// New creates and starts an asynchronous logger for the given environment and
// service. An empty service name falls back to logpipe.DefaultName.
func New(ctx context.Context, environment, service string) (*dispatch.AsyncLogger, error) {
	loggerCfg := logpipe.DefaultConfig()
	loggerCfg.ColorMode = logpipe.ColorModeAuto

	if service != "" {
		loggerCfg.Name = service
	}

	if environment == constants.NonProductionEnvironment {
		loggerCfg.LevelConsole = logpipe.DebugLevel
		loggerCfg.LogToFile = false
	} else {
		loggerCfg.LevelConsole = logpipe.InfoLevel
		loggerCfg.LogToFile = true
	}

	log, err := dispatch.NewAsyncLogger(logpipe.NewLiveClock(), loggerCfg)
	if err != nil {
		return nil, ewrap.Wrap(err, "failed to create logger").
			WithMetadata("environment", environment).
			WithMetadata("service", service)
	}

	log.Start()

	go func() {
		<-ctx.Done()

		stopCtx, cancel := context.WithTimeout(context.Background(), constants.DefaultTimeout)
		defer cancel()

		err := log.StopContext(stopCtx)
		if err != nil {
			log.Config().ErrorHandler(err)

			return
		}

		_ = log.Close()
	}()

	return log, nil
}
