package logpipe

import "time"

// Message is a single log record. It is created once per log call and never
// mutated afterwards; pass it by value.
type Message struct {
	// Timestamp is the instant the message was produced, as read from a Clock.
	Timestamp time.Time
	// Level is the severity.
	Level Level
	// Color is the console rendering hint.
	Color Color
	// Component is the name of the producing component, empty if unknown.
	Component string
	// Text is the message body. No size limit is enforced.
	Text string
}

// NewMessage builds a message. Out-of-range colors are normalized here so that
// sinks never see them.
func NewMessage(timestamp time.Time, level Level, color Color, component, text string) Message {
	return Message{
		Timestamp: timestamp,
		Level:     level,
		Color:     color.Normalize(),
		Component: component,
		Text:      text,
	}
}
