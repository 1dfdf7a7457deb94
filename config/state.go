package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// State records session-to-session selections, currently just the last
// profile the user had active.
type State struct {
	LastProfile string `toml:"last_profile"`
}

func statePath(dataDir string) string {
	return filepath.Join(dataDir, "state.toml")
}

// LoadState returns the saved state, or a zero value when none exists.
func LoadState(dataDir string) *State {
	state := &State{}
	if _, err := toml.DecodeFile(statePath(dataDir), state); err != nil {
		return &State{}
	}
	return state
}

func SaveState(dataDir string, state *State) error {
	path := statePath(dataDir)
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return &PersistenceError{Path: path, Err: err}
	}
	defer f.Close()

	encoder := toml.NewEncoder(f)
	if err := encoder.Encode(state); err != nil {
		return &PersistenceError{Path: path, Err: err}
	}

	return nil
}
