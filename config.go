package logpipe

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/hyp3rd/ewrap"
)

const (
	// DefaultName is the base name of log files.
	DefaultName = "tmp"
	// DefaultLogFileDir is the directory log files are written to.
	DefaultLogFileDir = "log/"
	// DefaultLevelConsole is the minimum level written to the console.
	DefaultLevelConsole = VerboseLevel
	// DefaultQueueSize is the async queue capacity used when MaxSize is unset.
	// It stands in for an unbounded queue.
	DefaultQueueSize = 8192
	// LogFilePermissions are the default file permissions for log files.
	LogFilePermissions = 0o644
	// LogDirPermissions are the permissions used when creating the log directory.
	LogDirPermissions = 0o755
)

// ColorMode determines how console colors are handled.
type ColorMode uint8

const (
	// ColorModeAuto enables colors when the console is a terminal.
	ColorModeAuto ColorMode = iota
	// ColorModeAlways forces color output.
	ColorModeAlways
	// ColorModeNever disables color output.
	ColorModeNever
)

// IsValid reports whether the mode value is recognised.
func (m ColorMode) IsValid() bool {
	switch m {
	case ColorModeAuto, ColorModeAlways, ColorModeNever:
		return true
	default:
		return false
	}
}

// String returns the lower-case mode name.
func (m ColorMode) String() string {
	switch m {
	case ColorModeAuto:
		return "auto"
	case ColorModeAlways:
		return "always"
	case ColorModeNever:
		return "never"
	default:
		return "unknown"
	}
}

// ParseColorMode decodes "auto", "always" or "never".
func ParseColorMode(value string) (ColorMode, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "auto":
		return ColorModeAuto, nil
	case "always":
		return ColorModeAlways, nil
	case "never":
		return ColorModeNever, nil
	default:
		return 0, ewrap.New("invalid color mode").WithMetadata("value", value)
	}
}

// Config holds configuration for a logger.
type Config struct {
	// Name is the base name of the log file.
	Name string
	// LevelConsole is the minimum level written to the console. The file sink
	// is not filtered.
	LevelConsole Level
	// LogToFile enables the file sink.
	LogToFile bool
	// LogFileDir is the directory log files are written to.
	LogFileDir string
	// MaxSize is the capacity of the async queue; values <= 0 select DefaultQueueSize.
	MaxSize int
	// ColorMode controls ANSI colors on the console.
	ColorMode ColorMode
	// Console receives messages below ErrorLevel.
	Console io.Writer
	// ConsoleErr receives messages at ErrorLevel and above.
	ConsoleErr io.Writer
	// FileMode sets the permissions for new log files.
	FileMode os.FileMode
	// ErrorHandler is called with sink failures that cannot be returned to a caller.
	ErrorHandler func(error)
}

// DefaultConfig returns the default logger configuration.
func DefaultConfig() Config {
	return Config{
		Name:         DefaultName,
		LevelConsole: DefaultLevelConsole,
		LogToFile:    false,
		LogFileDir:   DefaultLogFileDir,
		MaxSize:      0,
		ColorMode:    ColorModeAuto,
		Console:      os.Stdout,
		ConsoleErr:   os.Stderr,
		FileMode:     LogFilePermissions,
		ErrorHandler: StderrErrorHandler,
	}
}

// WithDefaults returns a copy of c with every zero-valued field filled from
// DefaultConfig. LevelConsole and LogToFile are kept as given.
func (c Config) WithDefaults() Config {
	defaults := DefaultConfig()

	if c.Name == "" {
		c.Name = defaults.Name
	}

	if c.LogFileDir == "" {
		c.LogFileDir = defaults.LogFileDir
	}

	if c.MaxSize <= 0 {
		c.MaxSize = DefaultQueueSize
	}

	if !c.ColorMode.IsValid() {
		c.ColorMode = defaults.ColorMode
	}

	if c.Console == nil {
		c.Console = defaults.Console
	}

	if c.ConsoleErr == nil {
		c.ConsoleErr = defaults.ConsoleErr
	}

	if c.FileMode == 0 {
		c.FileMode = defaults.FileMode
	}

	if c.ErrorHandler == nil {
		c.ErrorHandler = defaults.ErrorHandler
	}

	return c
}

// Validate reports configuration errors that must fail at startup.
func (c Config) Validate() error {
	if !c.LevelConsole.IsValid() {
		return ewrap.Wrap(ErrNoMatchingLevel, "invalid console level").
			WithMetadata("level", uint8(c.LevelConsole))
	}

	if !c.ColorMode.IsValid() {
		return ewrap.New("invalid color mode").WithMetadata("mode", uint8(c.ColorMode))
	}

	return nil
}

// StderrErrorHandler writes err to standard error on a best-effort basis.
func StderrErrorHandler(err error) {
	if err == nil {
		return
	}

	fmt.Fprintf(os.Stderr, "Error in logger: %v\n", err)
}
