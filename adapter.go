package logpipe

import "fmt"

// Adapter binds a component name to a shared Logger and stamps each message
// with the current time. It holds no state besides the name and the logger
// reference and never manages the logger's lifecycle.
type Adapter struct {
	component    string
	logger       Logger
	clock        Clock
	errorHandler func(error)
}

// AdapterOption configures an Adapter.
type AdapterOption func(*Adapter)

// WithClock overrides the clock used to stamp messages.
func WithClock(clock Clock) AdapterOption {
	return func(a *Adapter) {
		if clock != nil {
			a.clock = clock
		}
	}
}

// WithErrorHandler sets the callback receiving errors returned by the logger.
func WithErrorHandler(handler func(error)) AdapterOption {
	return func(a *Adapter) {
		if handler != nil {
			a.errorHandler = handler
		}
	}
}

// NewAdapter returns an adapter for component writing to logger. The clock is
// taken from the logger when it implements ClockProvider, otherwise a
// LiveClock is used.
func NewAdapter(component string, logger Logger, opts ...AdapterOption) *Adapter {
	adapter := &Adapter{
		component:    component,
		logger:       logger,
		errorHandler: StderrErrorHandler,
	}

	if provider, ok := logger.(ClockProvider); ok {
		adapter.clock = provider.Clock()
	}

	for _, opt := range opts {
		opt(adapter)
	}

	if adapter.clock == nil {
		adapter.clock = NewLiveClock()
	}

	return adapter
}

// Component returns the bound component name.
func (a *Adapter) Component() string {
	return a.component
}

// Logger returns the shared logger.
func (a *Adapter) Logger() Logger {
	return a.logger
}

// Log builds a message and forwards it. Failures are passed to the error
// handler rather than returned.
func (a *Adapter) Log(level Level, color Color, text string) {
	msg := NewMessage(a.clock.Now(), level, color, a.component, text)

	err := a.logger.Log(msg)
	if err != nil {
		a.errorHandler(err)
	}
}

// Verbose logs a message at the Verbose level.
func (a *Adapter) Verbose(text string, color ...Color) {
	a.Log(VerboseLevel, pickColor(color), text)
}

// Debug logs a message at the Debug level.
func (a *Adapter) Debug(text string, color ...Color) {
	a.Log(DebugLevel, pickColor(color), text)
}

// Info logs a message at the Info level.
func (a *Adapter) Info(text string, color ...Color) {
	a.Log(InfoLevel, pickColor(color), text)
}

// Warning logs a message at the Warning level.
func (a *Adapter) Warning(text string, color ...Color) {
	a.Log(WarningLevel, pickColor(color), text)
}

// Error logs a message at the Error level.
func (a *Adapter) Error(text string, color ...Color) {
	a.Log(ErrorLevel, pickColor(color), text)
}

// Critical logs a message at the Critical level.
func (a *Adapter) Critical(text string, color ...Color) {
	a.Log(CriticalLevel, pickColor(color), text)
}

// Formatted log methods.

// Verbosef logs a formatted message at the Verbose level.
func (a *Adapter) Verbosef(format string, args ...any) {
	a.Log(VerboseLevel, ColorNormal, fmt.Sprintf(format, args...))
}

// Debugf logs a formatted message at the Debug level.
func (a *Adapter) Debugf(format string, args ...any) {
	a.Log(DebugLevel, ColorNormal, fmt.Sprintf(format, args...))
}

// Infof logs a formatted message at the Info level.
func (a *Adapter) Infof(format string, args ...any) {
	a.Log(InfoLevel, ColorNormal, fmt.Sprintf(format, args...))
}

// Warningf logs a formatted message at the Warning level.
func (a *Adapter) Warningf(format string, args ...any) {
	a.Log(WarningLevel, ColorNormal, fmt.Sprintf(format, args...))
}

// Errorf logs a formatted message at the Error level.
func (a *Adapter) Errorf(format string, args ...any) {
	a.Log(ErrorLevel, ColorNormal, fmt.Sprintf(format, args...))
}

// Criticalf logs a formatted message at the Critical level.
func (a *Adapter) Criticalf(format string, args ...any) {
	a.Log(CriticalLevel, ColorNormal, fmt.Sprintf(format, args...))
}

func pickColor(color []Color) Color {
	if len(color) == 0 {
		return ColorNormal
	}

	return color[0].Normalize()
}
