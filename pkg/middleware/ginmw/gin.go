// Package ginmw provides Gin middleware that writes one access line per request
// through a logpipe.Adapter, and a recovery middleware that logs panics at
// CriticalLevel.
package ginmw

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/hyp3rd/logpipe"
	"github.com/hyp3rd/logpipe/internal/constants"
)

// Config defines the configuration options for the Gin middleware.
type Config struct {
	// Adapter receives the access lines. Nil discards them.
	Adapter *logpipe.Adapter
	// IncludeHeaders lists request headers appended to the line.
	IncludeHeaders []string
	// CaptureRequestID appends the X-Request-ID header when present.
	CaptureRequestID bool
	// Clock measures latency. Defaults to the live clock.
	Clock logpipe.Clock
}

func (c Config) withDefaults() Config {
	if c.Adapter == nil {
		c.Adapter = logpipe.NewAdapter("HTTP", logpipe.NewNop())
	}

	if c.Clock == nil {
		c.Clock = logpipe.NewLiveClock()
	}

	return c
}

// Middleware logs method, route, status and latency of every request.
func Middleware(cfg Config) gin.HandlerFunc {
	cfg = cfg.withDefaults()

	return func(c *gin.Context) {
		start := cfg.Clock.Now()

		c.Next()

		latency := cfg.Clock.Now().Sub(start)
		status := c.Writer.Status()

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		var line strings.Builder

		line.WriteString(c.Request.Method)
		line.WriteByte(' ')
		line.WriteString(path)
		line.WriteByte(' ')
		line.WriteString(strconv.Itoa(status))
		line.WriteByte(' ')
		line.WriteString(latency.String())

		if cfg.CaptureRequestID {
			if id := c.Request.Header.Get(constants.RequestHeader); id != "" {
				line.WriteString(" request=")
				line.WriteString(id)
			}
		}

		for _, header := range cfg.IncludeHeaders {
			if value := c.Request.Header.Get(header); value != "" {
				line.WriteString(" ")
				line.WriteString(strings.ToLower(header))
				line.WriteByte('=')
				line.WriteString(value)
			}
		}

		if len(c.Errors) > 0 {
			line.WriteString(" errors=")
			line.WriteString(c.Errors.String())
		}

		cfg.Adapter.Log(levelForStatus(status), logpipe.ColorNormal, line.String())
	}
}

// Recovery turns a panicking handler into a 500 response and logs the panic
// with its stack at CriticalLevel.
func Recovery(cfg Config) gin.HandlerFunc {
	cfg = cfg.withDefaults()

	return func(c *gin.Context) {
		defer func() {
			recovered := recover()
			if recovered == nil {
				return
			}

			cfg.Adapter.Log(logpipe.CriticalLevel, logpipe.ColorRed,
				fmt.Sprintf("panic recovered on %s %s: %v\n%s", c.Request.Method, c.Request.URL.Path, recovered, debug.Stack()))

			c.AbortWithStatus(http.StatusInternalServerError)
		}()

		c.Next()
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
