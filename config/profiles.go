package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

const DefaultTemperature = 0.7

// Profile is a named bundle of connection and model settings. SystemPrompt
// may contain the {tools} placeholder, substituted with the rendered tool
// catalog when a request is built.
type Profile struct {
	Name         string  `toml:"-"`
	APIKey       string  `toml:"api_key"`
	BaseURL      string  `toml:"base_url"`
	Model        string  `toml:"model"`
	Temperature  float64 `toml:"temperature"`
	SystemPrompt string  `toml:"system_prompt,omitempty"`
}

// ProfileStore persists named profiles in profiles.toml. Every operation
// reads the whole file, mutates the mapping in memory and writes the whole
// file back. Single-process, single-writer by assumption; name collisions
// resolve to last write wins.
type ProfileStore struct {
	path string
}

func NewProfileStore(dataDir string) *ProfileStore {
	return &ProfileStore{path: filepath.Join(dataDir, "profiles.toml")}
}

type profilesFile struct {
	Profiles map[string]Profile `toml:"profiles"`
}

// LoadAll returns every saved profile keyed by name. A missing or unreadable
// file seeds a single "default" profile with empty connection settings and
// temperature 0.7.
func (s *ProfileStore) LoadAll() (map[string]Profile, error) {
	var file profilesFile
	if _, err := toml.DecodeFile(s.path, &file); err != nil || file.Profiles == nil {
		defaults := map[string]Profile{
			"default": {Name: "default", Temperature: DefaultTemperature},
		}
		if err := s.SaveAll(defaults); err != nil {
			return nil, err
		}
		return defaults, nil
	}

	for name, p := range file.Profiles {
		p.Name = name
		file.Profiles[name] = p
	}
	return file.Profiles, nil
}

func (s *ProfileStore) SaveAll(profiles map[string]Profile) error {
	if err := EnsureDir(filepath.Dir(s.path)); err != nil {
		return &PersistenceError{Path: s.path, Err: err}
	}

	f, err := os.OpenFile(s.path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return &PersistenceError{Path: s.path, Err: err}
	}
	defer f.Close()

	encoder := toml.NewEncoder(f)
	if err := encoder.Encode(profilesFile{Profiles: profiles}); err != nil {
		return &PersistenceError{Path: s.path, Err: err}
	}

	return nil
}

func (s *ProfileStore) Upsert(name string, profile Profile) error {
	profiles, err := s.LoadAll()
	if err != nil {
		return err
	}
	profile.Name = name
	profiles[name] = profile
	return s.SaveAll(profiles)
}

func (s *ProfileStore) Delete(name string) error {
	profiles, err := s.LoadAll()
	if err != nil {
		return err
	}
	delete(profiles, name)
	return s.SaveAll(profiles)
}

// Get returns the named profile, or false when no such profile exists.
func (s *ProfileStore) Get(name string) (Profile, bool, error) {
	profiles, err := s.LoadAll()
	if err != nil {
		return Profile{}, false, err
	}
	p, ok := profiles[name]
	return p, ok, nil
}

func (s *ProfileStore) Path() string {
	return s.path
}
