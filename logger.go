// Package logpipe defines the message model and the logging contract of an
// asynchronous log dispatch pipeline.
//
// This package provides:
// - An ordered set of log levels with canonical three-letter codes
// - Color hints for console rendering that never fail on bad input
// - An immutable Message value produced once per log call
// - A Clock abstraction with deterministic and wall-clock implementations
// - The Logger capability implemented by the dispatch package
// - Adapter, a per-component facade bound to a shared Logger
//
// Concrete loggers live in the dispatch package. The synchronous variant
// writes inline; the asynchronous variant enqueues onto a bounded queue that a
// single consumer goroutine drains in FIFO order.
//
// Basic usage:
//
//	logger, err := dispatch.NewAsyncLogger(logpipe.NewLiveClock(), logpipe.DefaultConfig())
//	if err != nil {
//		return err
//	}
//
//	logger.Start()
//	defer logger.Stop()
//
//	log := logpipe.NewAdapter("Portfolio", logger)
//	log.Info("ready")
//	log.Warning("margin low", logpipe.ColorYellow)
package logpipe

import (
	"strings"

	"github.com/hyp3rd/ewrap"
)

// Level represents the severity of a log message.
type Level uint8

const (
	// VerboseLevel represents the most detailed tracing output.
	VerboseLevel Level = iota
	// DebugLevel represents debugging information.
	DebugLevel
	// InfoLevel represents general operational information.
	InfoLevel
	// WarningLevel represents warning messages.
	WarningLevel
	// ErrorLevel represents error messages.
	ErrorLevel
	// CriticalLevel represents errors the component cannot recover from.
	CriticalLevel
	// FatalLevel represents errors the process cannot recover from.
	FatalLevel
)

//nolint:gochecknoglobals
var levelCodes = [...]string{
	VerboseLevel:  "VRB",
	DebugLevel:    "DBG",
	InfoLevel:     "INF",
	WarningLevel:  "WRN",
	ErrorLevel:    "ERR",
	CriticalLevel: "CRT",
	FatalLevel:    "FTL",
}

//nolint:gochecknoglobals
var levelNames = [...]string{
	VerboseLevel:  "VERBOSE",
	DebugLevel:    "DEBUG",
	InfoLevel:     "INFO",
	WarningLevel:  "WARNING",
	ErrorLevel:    "ERROR",
	CriticalLevel: "CRITICAL",
	FatalLevel:    "FATAL",
}

// Levels returns every level in ascending order.
func Levels() []Level {
	return []Level{VerboseLevel, DebugLevel, InfoLevel, WarningLevel, ErrorLevel, CriticalLevel, FatalLevel}
}

// String returns the full name of a log level.
func (l Level) String() string {
	if !l.IsValid() {
		return "UNKNOWN"
	}

	return levelNames[l]
}

// Code returns the canonical three-character code of a log level.
func (l Level) Code() string {
	if !l.IsValid() {
		return "???"
	}

	return levelCodes[l]
}

// IsValid returns true if the given Level is a valid log level, and false otherwise.
func (l Level) IsValid() bool {
	return l <= FatalLevel
}

// ParseLevel decodes a canonical level code such as "INF". The match is exact;
// anything else fails with ErrNoMatchingLevel.
func ParseLevel(code string) (Level, error) {
	for _, level := range Levels() {
		if levelCodes[level] == code {
			return level, nil
		}
	}

	return 0, ewrap.Wrap(ErrNoMatchingLevel, "parsing level code").
		WithMetadata("code", code)
}

// ParseLevelName accepts either a canonical code or a full level name, case
// insensitive. It is meant for configuration sources.
func ParseLevelName(value string) (Level, error) {
	normalized := strings.ToUpper(strings.TrimSpace(value))

	for _, level := range Levels() {
		if levelCodes[level] == normalized || levelNames[level] == normalized {
			return level, nil
		}
	}

	if normalized == "WARN" {
		return WarningLevel, nil
	}

	return 0, ewrap.Wrap(ErrNoMatchingLevel, "parsing level name").
		WithMetadata("value", value)
}

// Logger is the capability every concrete logger provides.
//
// Log hands a message to the configured sinks. Messages reach the sinks in the
// order Log was called.
type Logger interface {
	Log(msg Message) error
}

// ClockProvider is implemented by loggers that expose the clock they were
// built with. Adapter uses it to stamp messages.
type ClockProvider interface {
	Clock() Clock
}
