package output

import (
	"bytes"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hyp3rd/logpipe"
)

type failingWriter struct {
	err error
}

func (f failingWriter) Write(_ []byte) (int, error) {
	return 0, f.err
}

func newTestSinks(t *testing.T, cfg logpipe.Config) (*Sinks, *bytes.Buffer) {
	t.Helper()

	console := &bytes.Buffer{}
	cfg.Console = console
	cfg.ConsoleErr = console
	cfg.ColorMode = logpipe.ColorModeNever

	sinks, err := NewSinks(cfg.WithDefaults(), logpipe.NewTestClock())
	require.NoError(t, err)

	t.Cleanup(func() { _ = sinks.Close() })

	return sinks, console
}

func TestSinksConsoleFilterDoesNotApplyToFile(t *testing.T) {
	dir := t.TempDir() + "/"

	sinks, console := newTestSinks(t, logpipe.Config{
		Name:         "filter",
		LevelConsole: logpipe.WarningLevel,
		LogToFile:    true,
		LogFileDir:   dir,
	})

	require.NoError(t, sinks.Write(logpipe.NewMessage(time.Unix(0, 0), logpipe.DebugLevel, logpipe.ColorNormal, "C", "quiet")))
	require.NoError(t, sinks.Write(logpipe.NewMessage(time.Unix(0, 0), logpipe.ErrorLevel, logpipe.ColorNormal, "C", "loud")))

	assert.NotContains(t, console.String(), "quiet")
	assert.Contains(t, console.String(), "loud")

	content, err := os.ReadFile(sinks.File().Path())
	require.NoError(t, err)
	assert.Contains(t, string(content), "[DBG] C: quiet")
	assert.Contains(t, string(content), "[ERR] C: loud")
}

func TestSinksFileNeverColored(t *testing.T) {
	dir := t.TempDir() + "/"
	console := &bytes.Buffer{}

	cfg := logpipe.Config{
		LogToFile:  true,
		LogFileDir: dir,
		Console:    console,
		ConsoleErr: console,
		ColorMode:  logpipe.ColorModeAlways,
	}.WithDefaults()

	sinks, err := NewSinks(cfg, logpipe.NewTestClock())
	require.NoError(t, err)

	defer sinks.Close()

	require.NoError(t, sinks.Write(logpipe.NewMessage(time.Unix(0, 0), logpipe.InfoLevel, logpipe.ColorGreen, "C", "green")))

	assert.Contains(t, console.String(), logpipe.Green)

	content, err := os.ReadFile(sinks.File().Path())
	require.NoError(t, err)
	assert.NotContains(t, string(content), "\x1b[")
	assert.Equal(t, "1970-01-01T00:00:00.000000000Z [INF] C: green\n", string(content))
}

func TestSinksWithoutFileLogging(t *testing.T) {
	dir := t.TempDir() + "/nofile/"

	sinks, console := newTestSinks(t, logpipe.Config{LogFileDir: dir})

	require.NoError(t, sinks.Write(logpipe.NewMessage(time.Unix(0, 0), logpipe.InfoLevel, logpipe.ColorNormal, "", "hello")))
	assert.False(t, sinks.LogToFile())
	assert.Contains(t, console.String(), "hello")

	_, err := os.Stat(dir)
	assert.True(t, os.IsNotExist(err))
}

func TestSinksReportsConsoleFailure(t *testing.T) {
	failure := errors.New("console gone")

	cfg := logpipe.Config{
		Console:    failingWriter{err: failure},
		ConsoleErr: failingWriter{err: failure},
		ColorMode:  logpipe.ColorModeNever,
	}.WithDefaults()

	sinks, err := NewSinks(cfg, logpipe.NewTestClock())
	require.NoError(t, err)

	err = sinks.Write(logpipe.NewMessage(time.Unix(0, 0), logpipe.InfoLevel, logpipe.ColorNormal, "", "lost"))
	require.Error(t, err)
	require.NoError(t, sinks.Sync())
}
