// Package output provides the sinks of the logging pipeline.
//
// This package implements the destinations a rendered message can reach:
// - Console output with color support based on terminal capabilities
// - Dated file output with explicit renaming and daily roll-over
// - Sinks, which applies the console level filter and fans a message out
//
// Writers implement the Writer interface, which extends io.Writer with methods
// for synchronization and cleanup:
//
//	type Writer interface {
//	    io.Writer
//	    Sync() error  // Ensures all data is written
//	    Close() error // Releases resources
//	}
//
// FileSink provides file-based logging with:
// - Paths computed from a directory, a base name and the clock's date
// - Lazy creation of the directory and the file on first write
// - Explicit renames that leave the previous file untouched
// - An advisory lock around each write so processes can share a file
//
// ConsoleWriter provides console output with:
// - Automatic color detection for terminals
// - Separate streams for errors and for everything else
package output

import (
	"bytes"
	"io"
	"os"
	"sync"
	"syscall"

	"github.com/gofrs/flock"
	"github.com/hyp3rd/ewrap"
	"github.com/mattn/go-isatty"

	"github.com/hyp3rd/logpipe"
	"github.com/hyp3rd/logpipe/internal/constants"
	"github.com/hyp3rd/logpipe/internal/utils"
)

// FileConfig holds configuration for file output.
type FileConfig struct {
	// Dir is the directory holding log files.
	Dir string
	// Name is the base name of the log file.
	Name string
	// Clock supplies the date used in file names.
	Clock logpipe.Clock
	// FileMode sets the permissions for new log files.
	FileMode os.FileMode
}

// FileSink writes rendered lines to a log file. The active path is
// Dir + Name + "-" + YYYY-MM-DD + ".log" until Rename is called, after which it
// is Dir + Name + ".log".
type FileSink struct {
	mu       sync.Mutex
	clock    logpipe.Clock
	dir      string
	name     string
	fileMode os.FileMode

	file *os.File
	lock *flock.Flock
	// path is the path of the open file, empty when no file is open.
	path string
	// explicit is set by Rename; dated roll-over stops from then on.
	explicit bool
}

// NewFileSink creates a file sink. Nothing is created on disk until the first
// write or Open.
func NewFileSink(config FileConfig) (*FileSink, error) {
	if config.Dir == "" {
		config.Dir = logpipe.DefaultLogFileDir
	}

	if config.Name == "" {
		config.Name = logpipe.DefaultName
	}

	err := utils.ValidateFileName(config.Name)
	if err != nil {
		return nil, ewrap.Wrap(logpipe.ErrInvalidFileName, err.Error())
	}

	if config.Clock == nil {
		config.Clock = logpipe.NewLiveClock()
	}

	if config.FileMode == 0 {
		config.FileMode = logpipe.LogFilePermissions
	}

	return &FileSink{
		clock:    config.Clock,
		dir:      utils.NormalizeDir(config.Dir),
		name:     config.Name,
		fileMode: config.FileMode,
	}, nil
}

// Dir returns the log directory, with its trailing separator.
func (s *FileSink) Dir() string {
	return s.dir
}

// Path returns the path currently written to, or the path the next write
// would open.
func (s *FileSink) Path() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.file != nil {
		return s.path
	}

	return s.targetPath()
}

// Open creates the directory and opens the active file if it is not open yet.
func (s *FileSink) Open() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.ensureOpen()
}

// Write implements io.Writer. The directory and file are created on demand,
// and a change of date rolls over to a new dated file.
func (s *FileSink) Write(data []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.ensureOpen()
	if err != nil {
		return 0, err
	}

	err = s.lock.Lock()
	if err != nil {
		return 0, ewrap.Wrap(err, "acquiring log file lock").
			WithMetadata("path", s.path)
	}

	defer func() {
		_ = s.lock.Unlock()
	}()

	bytesWritten, err := s.file.Write(data)
	if err != nil {
		return bytesWritten, ewrap.Wrap(err, "failed writing to log file").
			WithMetadata("path", s.path)
	}

	return bytesWritten, nil
}

// Rename closes the current file and switches to Dir + name + ".log". The
// previous file is left on disk as it is. The new file is opened by the next
// write or Open.
func (s *FileSink) Rename(name string) error {
	err := utils.ValidateFileName(name)
	if err != nil {
		return ewrap.Wrap(logpipe.ErrInvalidFileName, err.Error())
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	err = s.closeFile()
	if err != nil {
		return err
	}

	s.name = name
	s.explicit = true

	return nil
}

// Sync ensures any buffered data is written to the underlying file.
// If no file is open, Sync returns nil.
func (s *FileSink) Sync() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.file == nil {
		return nil
	}

	err := s.file.Sync()
	if err != nil {
		return ewrap.Wrapf(err, "syncing log file")
	}

	return nil
}

// Close syncs and closes the open file. A later write reopens it.
func (s *FileSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.closeFile()
}

// targetPath returns the path the sink should write to now.
func (s *FileSink) targetPath() string {
	if s.explicit {
		return s.dir + s.name + constants.LogFileExtension
	}

	date := s.clock.Now().UTC().Format(constants.DateLayout)

	return s.dir + s.name + "-" + date + constants.LogFileExtension
}

func (s *FileSink) ensureOpen() error {
	path := s.targetPath()

	if s.file != nil {
		if path == s.path {
			return nil
		}

		// The date moved on.
		err := s.closeFile()
		if err != nil {
			return err
		}
	}

	err := utils.EnsureDir(s.dir, logpipe.LogDirPermissions)
	if err != nil {
		return err
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, s.fileMode)
	if err != nil {
		return ewrap.Wrapf(err, "opening log file").
			WithMetadata("path", path)
	}

	s.file = file
	s.lock = flock.New(path)
	s.path = path

	return nil
}

func (s *FileSink) closeFile() error {
	if s.file == nil {
		return nil
	}

	file := s.file
	s.file = nil
	s.path = ""

	if s.lock != nil {
		_ = s.lock.Close()
		s.lock = nil
	}

	err := file.Sync()
	if err != nil {
		_ = file.Close()

		return ewrap.Wrapf(err, "final sync before close")
	}

	err = file.Close()
	if err != nil {
		return ewrap.Wrapf(err, "closing log file")
	}

	return nil
}

// ConsoleWriter writes rendered lines to the console, with color when enabled.
// Lines at ErrorLevel and above go to the error stream.
type ConsoleWriter struct {
	mu           sync.Mutex
	out          Writer
	errOut       Writer
	outColors    bool
	errOutColors bool
	buffer       *bytes.Buffer
}

// NewConsoleWriter creates a console writer. Nil writers default to os.Stdout
// and os.Stderr.
func NewConsoleWriter(out, errOut io.Writer, mode logpipe.ColorMode) *ConsoleWriter {
	if out == nil {
		out = os.Stdout
	}

	if errOut == nil {
		errOut = os.Stderr
	}

	return &ConsoleWriter{
		out:          NewWriterAdapter(out),
		errOut:       NewWriterAdapter(errOut),
		outColors:    shouldUseColors(mode, out),
		errOutColors: shouldUseColors(mode, errOut),
		buffer:       bytes.NewBuffer(make([]byte, 0, defaultBufferSize)),
	}
}

// WriteMessage renders msg and writes it to the matching stream.
func (w *ConsoleWriter) WriteMessage(msg logpipe.Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	out, colors := w.out, w.outColors
	if msg.Level >= logpipe.ErrorLevel {
		out, colors = w.errOut, w.errOutColors
	}

	colorSeq := ""
	if colors {
		colorSeq = ConsoleColor(msg)
	}

	w.buffer.Reset()
	EncodeLine(w.buffer, msg, colorSeq)

	_, err := out.Write(w.buffer.Bytes())
	if err != nil {
		return ewrap.Wrap(err, "failed writing to console output")
	}

	return nil
}

// Sync synchronizes both streams, skipping stdout and stderr.
func (w *ConsoleWriter) Sync() error {
	for _, out := range []Writer{w.out, w.errOut} {
		if isStandardStreamWriter(out) {
			continue
		}

		err := out.Sync()
		if err != nil {
			return ewrap.Wrap(err, "syncing console output")
		}
	}

	return nil
}

// Close closes both streams unless they are stdout or stderr.
func (w *ConsoleWriter) Close() error {
	for _, out := range []Writer{w.out, w.errOut} {
		if isStandardStreamWriter(out) {
			continue
		}

		err := out.Close()
		if err != nil {
			return ewrap.Wrap(err, "closing console writer")
		}
	}

	return nil
}

// shouldUseColors determines if color output should be used based on mode and terminal support.
//
//nolint:exhaustive // ColorModeAuto is handled as default.
func shouldUseColors(mode logpipe.ColorMode, out io.Writer) bool {
	switch mode {
	case logpipe.ColorModeAlways:
		return true
	case logpipe.ColorModeNever:
		return false
	default:
		return IsTerminal(out)
	}
}

func isStandardStreamWriter(w Writer) bool {
	f, ok := w.(*os.File)

	return ok && isStandardStream(f)
}

func isStandardStream(f *os.File) bool {
	return f == os.Stdout || f == os.Stderr
}

// IsTerminal checks if the given writer is a terminal. It returns true if the writer is
// connected to a terminal, and false otherwise. This function is used to determine
// whether to enable color support for log output.
func IsTerminal(w io.Writer) bool {
	if f, ok := w.(*os.File); ok {
		if f.Fd() == uintptr(syscall.Stdout) || f.Fd() == uintptr(syscall.Stderr) {
			return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
		}
	}

	return false
}
