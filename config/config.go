package config

import (
	"fmt"
	"os"
	"time"
)

// Config holds the resolved application settings.
type Config struct {
	DataDirectory  string
	Interpreter    string
	RequestTimeout time.Duration
	ToolTimeout    time.Duration
	Debug          bool
}

func (c *Config) DataDir() string {
	return ExpandPath(c.DataDirectory)
}

func (c *Config) applyEnvOverrides() {
	if dataDir := os.Getenv("AIDBG_DATA_DIR"); dataDir != "" {
		c.DataDirectory = dataDir
	}
	if interp := os.Getenv("AIDBG_INTERPRETER"); interp != "" {
		c.Interpreter = interp
	}
}

func CheckDebug() bool {
	debug := os.Getenv("AIDBG_DEBUG")
	return debug == "true" || debug == "1"
}

// Load reads settings.toml (creating it with defaults on first run),
// applies environment overrides and ensures the data directory exists.
func Load() (*Config, error) {
	settings, err := LoadSettings()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		DataDirectory:  settings.DataDirectory,
		Interpreter:    settings.Interpreter,
		RequestTimeout: settings.RequestTimeout.Duration,
		ToolTimeout:    settings.ToolTimeout.Duration,
		Debug:          CheckDebug(),
	}
	cfg.applyEnvOverrides()

	dataDir := cfg.DataDir()
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	return cfg, nil
}
