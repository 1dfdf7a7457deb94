// Package storage persists user data: canned quick-content snippets and
// the archive of saved transcripts.
package storage

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"aidbg/config"
)

// QuickContent is a named canned snippet the user can drop into the input
// box before sending.
type QuickContent struct {
	Name    string `toml:"-"`
	Content string `toml:"content"`
}

// QuickContentStore persists snippets in quick.toml, whole-file
// read-modify-write like the other stores.
type QuickContentStore struct {
	path string
}

func NewQuickContentStore(dataDir string) *QuickContentStore {
	return &QuickContentStore{path: filepath.Join(dataDir, "quick.toml")}
}

type quickFile struct {
	Snippets map[string]QuickContent `toml:"snippets"`
}

// defaultSnippets seeds a fresh store with the starter prompts the app
// ships with.
func defaultSnippets() map[string]QuickContent {
	return map[string]QuickContent{
		"system info":  {Name: "system info", Content: "Please show me basic information about this system"},
		"cpu info":     {Name: "cpu info", Content: "Please show me detailed CPU information"},
		"memory usage": {Name: "memory usage", Content: "Please show me current memory usage"},
	}
}

// LoadAll returns every snippet keyed by name, seeding defaults when no
// store exists yet.
func (s *QuickContentStore) LoadAll() (map[string]QuickContent, error) {
	var file quickFile
	if _, err := toml.DecodeFile(s.path, &file); err != nil || file.Snippets == nil {
		defaults := defaultSnippets()
		if err := s.SaveAll(defaults); err != nil {
			return nil, err
		}
		return defaults, nil
	}

	for name, item := range file.Snippets {
		item.Name = name
		file.Snippets[name] = item
	}
	return file.Snippets, nil
}

func (s *QuickContentStore) SaveAll(snippets map[string]QuickContent) error {
	if err := config.EnsureDir(filepath.Dir(s.path)); err != nil {
		return &config.PersistenceError{Path: s.path, Err: err}
	}

	f, err := os.OpenFile(s.path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return &config.PersistenceError{Path: s.path, Err: err}
	}
	defer f.Close()

	encoder := toml.NewEncoder(f)
	if err := encoder.Encode(quickFile{Snippets: snippets}); err != nil {
		return &config.PersistenceError{Path: s.path, Err: err}
	}

	return nil
}

func (s *QuickContentStore) Upsert(name string, item QuickContent) error {
	snippets, err := s.LoadAll()
	if err != nil {
		return err
	}
	item.Name = name
	snippets[name] = item
	return s.SaveAll(snippets)
}

func (s *QuickContentStore) Delete(name string) error {
	snippets, err := s.LoadAll()
	if err != nil {
		return err
	}
	delete(snippets, name)
	return s.SaveAll(snippets)
}
