package configloader

import (
	"github.com/hyp3rd/ewrap"
	"gopkg.in/yaml.v3"

	"github.com/hyp3rd/logpipe"
)

type rawConfig struct {
	Name         string `mapstructure:"name"          yaml:"name"`
	LevelConsole string `mapstructure:"level_console" yaml:"level_console"`
	LogToFile    *bool  `mapstructure:"log_to_file"   yaml:"log_to_file"`
	LogFileDir   string `mapstructure:"log_file_dir"  yaml:"log_file_dir"`
	MaxSize      *int   `mapstructure:"maxsize"       yaml:"maxsize"`
	ColorMode    string `mapstructure:"color_mode"    yaml:"color_mode"`
}

func applyRaw(raw rawConfig) (*logpipe.Config, error) {
	cfg := logpipe.DefaultConfig()

	if raw.Name != "" {
		cfg.Name = raw.Name
	}

	if raw.LevelConsole != "" {
		level, err := logpipe.ParseLevelName(raw.LevelConsole)
		if err != nil {
			return nil, err
		}

		cfg.LevelConsole = level
	}

	if raw.LogToFile != nil {
		cfg.LogToFile = *raw.LogToFile
	}

	if raw.LogFileDir != "" {
		cfg.LogFileDir = raw.LogFileDir
	}

	if raw.MaxSize != nil {
		cfg.MaxSize = *raw.MaxSize
	}

	if raw.ColorMode != "" {
		mode, err := logpipe.ParseColorMode(raw.ColorMode)
		if err != nil {
			return nil, err
		}

		cfg.ColorMode = mode
	}

	err := cfg.Validate()
	if err != nil {
		return nil, ewrap.Wrap(err, "invalid configuration")
	}

	return &cfg, nil
}

func allKeys() []string {
	return []string{
		"name",
		"level_console",
		"log_to_file",
		"log_file_dir",
		"maxsize",
		"color_mode",
	}
}

// ToYAML renders cfg using the keys FromYAML reads. Writers and the error
// handler are not part of the document.
func ToYAML(cfg logpipe.Config) ([]byte, error) {
	logToFile := cfg.LogToFile
	maxSize := cfg.MaxSize

	raw := rawConfig{
		Name:         cfg.Name,
		LevelConsole: cfg.LevelConsole.Code(),
		LogToFile:    &logToFile,
		LogFileDir:   cfg.LogFileDir,
		MaxSize:      &maxSize,
		ColorMode:    cfg.ColorMode.String(),
	}

	data, err := yaml.Marshal(raw)
	if err != nil {
		return nil, ewrap.Wrap(err, "failed to encode configuration")
	}

	return data, nil
}
