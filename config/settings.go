package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// Settings mirrors settings.toml. Timeouts of zero mean unbounded; the
// request and tool knobs exist so the limitation is explicit, not because
// a bound is applied by default.
type Settings struct {
	DataDirectory  string   `toml:"data_directory"`
	Interpreter    string   `toml:"interpreter,omitempty"`
	RequestTimeout duration `toml:"request_timeout"`
	ToolTimeout    duration `toml:"tool_timeout"`
}

// duration wraps time.Duration so it round-trips as a TOML string ("30s").
type duration struct {
	time.Duration
}

func (d *duration) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		d.Duration = 0
		return nil
	}
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = parsed
	return nil
}

func (d duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

func DefaultSettings() *Settings {
	return &Settings{
		DataDirectory: GetDefaultDataDir(),
	}
}

// LoadSettings reads settings.toml, creating it with defaults when missing.
// An unreadable file is an error; a missing one is not.
func LoadSettings() (*Settings, error) {
	settings := DefaultSettings()
	settingsPath := GetSettingsFilePath()

	if !FileExists(settingsPath) {
		if err := SaveSettings(settings); err != nil {
			return nil, fmt.Errorf("failed to create settings: %w", err)
		}
		return settings, nil
	}

	if _, err := toml.DecodeFile(settingsPath, settings); err != nil {
		return nil, fmt.Errorf("failed to parse settings: %w", err)
	}

	return settings, nil
}

func SaveSettings(settings *Settings) error {
	configDir := GetConfigDir()
	if err := EnsureDir(configDir); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	settingsPath := GetSettingsFilePath()
	f, err := os.OpenFile(settingsPath, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create settings file: %w", err)
	}
	defer f.Close()

	encoder := toml.NewEncoder(f)
	if err := encoder.Encode(settings); err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}

	return nil
}
