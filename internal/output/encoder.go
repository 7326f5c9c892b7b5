package output

import (
	"bytes"

	"github.com/hyp3rd/logpipe"
	"github.com/hyp3rd/logpipe/internal/constants"
)

const (
	defaultBufferSize = 256 // initial capacity of pooled line buffers
	// lineOverhead covers the timestamp, the level code and separators.
	lineOverhead = len(constants.TimestampLayout) + 16
)

// EncodeLine appends one rendered line for msg to buf:
//
//	2006-01-02T15:04:05.000000000Z [INF] Component: text
//
// When colorSeq is not empty the line is wrapped in colorSeq and Reset; the
// trailing newline always stays outside the color.
func EncodeLine(buf *bytes.Buffer, msg logpipe.Message, colorSeq string) {
	buf.Grow(lineOverhead + len(msg.Component) + len(msg.Text) + len(colorSeq) + len(logpipe.Reset))

	if colorSeq != "" {
		buf.WriteString(colorSeq)
	}

	var stamp [len(constants.TimestampLayout) + 8]byte

	buf.Write(msg.Timestamp.UTC().AppendFormat(stamp[:0], constants.TimestampLayout))
	buf.WriteString(" [")
	buf.WriteString(msg.Level.Code())
	buf.WriteString("] ")

	if msg.Component != "" {
		buf.WriteString(msg.Component)
		buf.WriteString(": ")
	}

	buf.WriteString(msg.Text)

	if colorSeq != "" {
		buf.WriteString(logpipe.Reset)
	}

	buf.WriteByte('\n')
}

// ConsoleColor picks the escape sequence used for msg on a color console.
// Level colors take precedence over the message hint.
func ConsoleColor(msg logpipe.Message) string {
	if seq, ok := logpipe.LevelColor(msg.Level); ok {
		return seq
	}

	return msg.Color.ANSI()
}
