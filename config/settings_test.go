package config

import "testing"

func TestDefaultSettingsDataDirectory(t *testing.T) {
	settings := DefaultSettings()
	if settings.DataDirectory == "" {
		t.Fatal("default data directory must not be empty")
	}
	if settings.DataDirectory != GetDefaultDataDir() {
		t.Errorf("default data directory = %q, want %q", settings.DataDirectory, GetDefaultDataDir())
	}
}

func TestDefaultSettingsTimeoutsUnbounded(t *testing.T) {
	settings := DefaultSettings()
	if settings.RequestTimeout.Duration != 0 {
		t.Errorf("request timeout = %v, want unbounded", settings.RequestTimeout.Duration)
	}
	if settings.ToolTimeout.Duration != 0 {
		t.Errorf("tool timeout = %v, want unbounded", settings.ToolTimeout.Duration)
	}
}
