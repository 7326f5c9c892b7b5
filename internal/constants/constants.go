// Package constants provides application-wide constant values
// used throughout the logging pipeline. These constants define
// environment names, layouts and timeouts to ensure consistency
// across the codebase.
package constants

import "time"

const (
	// NonProductionEnvironment is the environment name for non-production environments.
	NonProductionEnvironment = "development"
	// DefaultTimeout bounds how long a stop waits for the async queue to drain.
	DefaultTimeout = 5 * time.Second
	// DateLayout is the date suffix of dated log files (YYYY-MM-DD).
	DateLayout = "2006-01-02"
	// TimestampLayout is the timestamp layout of rendered lines.
	TimestampLayout = "2006-01-02T15:04:05.000000000Z07:00"
	// LogFileExtension is appended to every log file name.
	LogFileExtension = ".log"
)
