package output

import (
	"bytes"
	"sync"

	"github.com/hyp3rd/ewrap"

	"github.com/hyp3rd/logpipe"
)

// Sinks routes a message to the console and, when file logging is enabled, to
// the log file. The console is filtered by the minimum console level; the
// file is not filtered.
//
// Sinks is not safe for concurrent Write calls; callers provide the single
// writer.
type Sinks struct {
	levelConsole logpipe.Level
	logToFile    bool
	console      *ConsoleWriter
	file         *FileSink
	bufferPool   sync.Pool
}

// NewSinks builds the sinks described by config. The file sink always exists
// so that its location can be inspected, but it is only written when
// config.LogToFile is set.
func NewSinks(config logpipe.Config, clock logpipe.Clock) (*Sinks, error) {
	file, err := NewFileSink(FileConfig{
		Dir:      config.LogFileDir,
		Name:     config.Name,
		Clock:    clock,
		FileMode: config.FileMode,
	})
	if err != nil {
		return nil, err
	}

	return &Sinks{
		levelConsole: config.LevelConsole,
		logToFile:    config.LogToFile,
		console:      NewConsoleWriter(config.Console, config.ConsoleErr, config.ColorMode),
		file:         file,
		bufferPool: sync.Pool{
			New: func() any {
				return bytes.NewBuffer(make([]byte, 0, defaultBufferSize))
			},
		},
	}, nil
}

// File returns the file sink.
func (s *Sinks) File() *FileSink {
	return s.file
}

// LogToFile reports whether the file sink is written.
func (s *Sinks) LogToFile() bool {
	return s.logToFile
}

// Write delivers msg to every sink that accepts it. A failing sink does not
// prevent delivery to the others; all failures are returned together.
func (s *Sinks) Write(msg logpipe.Message) error {
	errorGroup := ewrap.NewErrorGroup()

	if msg.Level >= s.levelConsole {
		err := s.console.WriteMessage(msg)
		if err != nil {
			errorGroup.Add(err)
		}
	}

	if s.logToFile {
		err := s.writeFile(msg)
		if err != nil {
			errorGroup.Add(err)
		}
	}

	if errorGroup.HasErrors() {
		return errorGroup
	}

	return nil
}

// Sync flushes both sinks.
func (s *Sinks) Sync() error {
	errorGroup := ewrap.NewErrorGroup()

	err := s.console.Sync()
	if err != nil {
		errorGroup.Add(err)
	}

	err = s.file.Sync()
	if err != nil {
		errorGroup.Add(err)
	}

	if errorGroup.HasErrors() {
		return errorGroup
	}

	return nil
}

// Close closes the log file and any console stream that is not stdout or
// stderr.
func (s *Sinks) Close() error {
	errorGroup := ewrap.NewErrorGroup()

	err := s.file.Close()
	if err != nil {
		errorGroup.Add(err)
	}

	err = s.console.Close()
	if err != nil {
		errorGroup.Add(err)
	}

	if errorGroup.HasErrors() {
		return errorGroup
	}

	return nil
}

func (s *Sinks) writeFile(msg logpipe.Message) error {
	buf, ok := s.bufferPool.Get().(*bytes.Buffer)
	if !ok {
		buf = bytes.NewBuffer(make([]byte, 0, defaultBufferSize))
	}

	defer func() {
		buf.Reset()
		s.bufferPool.Put(buf)
	}()

	EncodeLine(buf, msg, "")

	_, err := s.file.Write(buf.Bytes())

	return err
}
