package log

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hyp3rd/logpipe"
	"github.com/hyp3rd/logpipe/internal/constants"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name          string
		environment   string
		service       string
		wantLevel     logpipe.Level
		wantLogToFile bool
		wantName      string
	}{
		{
			name:          "non-production environment",
			environment:   constants.NonProductionEnvironment,
			service:       "test-service",
			wantLevel:     logpipe.DebugLevel,
			wantLogToFile: false,
			wantName:      "test-service",
		},
		{
			name:          "production environment",
			environment:   "production",
			service:       "test-service",
			wantLevel:     logpipe.InfoLevel,
			wantLogToFile: true,
			wantName:      "test-service",
		},
		{
			name:          "empty environment",
			environment:   "",
			service:       "test-service",
			wantLevel:     logpipe.InfoLevel,
			wantLogToFile: true,
			wantName:      "test-service",
		},
		{
			name:          "empty service name",
			environment:   constants.NonProductionEnvironment,
			service:       "",
			wantLevel:     logpipe.DebugLevel,
			wantLogToFile: false,
			wantName:      logpipe.DefaultName,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Chdir(t.TempDir())

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			log, err := New(ctx, tt.environment, tt.service)
			require.NoError(t, err)
			require.NotNil(t, log)

			config := log.Config()
			assert.Equal(t, tt.wantLevel, config.LevelConsole)
			assert.Equal(t, tt.wantLogToFile, config.LogToFile)
			assert.Equal(t, tt.wantName, config.Name)
			assert.True(t, log.IsRunning())

			cancel()

			require.Eventually(t, func() bool {
				return !log.IsRunning()
			}, time.Second, 5*time.Millisecond)
		})
	}
}

func TestNewWritesProductionFile(t *testing.T) {
	t.Chdir(t.TempDir())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	log, err := New(ctx, "production", "billing")
	require.NoError(t, err)

	logpipe.NewAdapter("INVOICE", log).Verbose("file only")

	log.Stop()

	content, err := os.ReadFile(log.LogFilePath())
	require.NoError(t, err)
	assert.Contains(t, string(content), "[VRB] INVOICE: file only")
}
