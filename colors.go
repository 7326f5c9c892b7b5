package logpipe

import "strings"

//nolint:revive // Pointless to comment the colors.
const (
	// ANSI color codes for terminal output.

	Green   = "\x1b[32m"
	Yellow  = "\x1b[33m"
	Blue    = "\x1b[34m"
	Magenta = "\x1b[35m"
	Cyan    = "\x1b[36m"

	BoldRed = "\x1b[31;1m"
	Red     = "\x1b[31m"

	// Reset resets the terminal's color settings.
	Reset = "\x1b[0m"
)

// Color is a rendering hint attached to a message. It only affects console
// output.
type Color uint8

const (
	// ColorNormal renders with the terminal's default color.
	ColorNormal Color = iota
	ColorGreen
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorYellow
	ColorRed
)

//nolint:gochecknoglobals
var colorNames = [...]string{
	ColorNormal:  "NORMAL",
	ColorGreen:   "GREEN",
	ColorBlue:    "BLUE",
	ColorMagenta: "MAGENTA",
	ColorCyan:    "CYAN",
	ColorYellow:  "YELLOW",
	ColorRed:     "RED",
}

//nolint:gochecknoglobals
var colorSequences = [...]string{
	ColorNormal:  "",
	ColorGreen:   Green,
	ColorBlue:    Blue,
	ColorMagenta: Magenta,
	ColorCyan:    Cyan,
	ColorYellow:  Yellow,
	ColorRed:     Red,
}

// IsValid reports whether c is one of the declared colors.
func (c Color) IsValid() bool {
	return c <= ColorRed
}

// Normalize returns c, or ColorNormal when c is outside the enumeration.
func (c Color) Normalize() Color {
	if !c.IsValid() {
		return ColorNormal
	}

	return c
}

// String returns the color name. Unknown values report as NORMAL.
func (c Color) String() string {
	return colorNames[c.Normalize()]
}

// ANSI returns the escape sequence starting this color, empty for ColorNormal
// and for any unknown value.
func (c Color) ANSI() string {
	return colorSequences[c.Normalize()]
}

// ParseColor decodes a color name. Unrecognized input yields ColorNormal.
func ParseColor(name string) Color {
	normalized := strings.ToUpper(strings.TrimSpace(name))

	for c, candidate := range colorNames {
		if candidate == normalized {
			return Color(c)
		}
	}

	return ColorNormal
}

// LevelColor returns the color forced by a level on the console, if any.
// Warnings render yellow and anything from ErrorLevel up renders red, which
// overrides the caller's hint.
func LevelColor(level Level) (string, bool) {
	switch {
	case level == WarningLevel:
		return Yellow, true
	case level >= CriticalLevel:
		return BoldRed, true
	case level == ErrorLevel:
		return Red, true
	default:
		return "", false
	}
}
