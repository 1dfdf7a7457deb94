// Package tools holds the named script definitions the assistant can invoke
// and the executor that runs them out-of-process.
package tools

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"aidbg/config"
)

// Definition is one registered tool: a usage example shown to the model and
// a script body expected to declare a function named like the tool.
type Definition struct {
	Name    string `toml:"-"`
	Example string `toml:"example"`
	Script  string `toml:"script"`
}

// Registry persists tool definitions in tools.toml using the same
// whole-file read-modify-write discipline as the other stores.
type Registry struct {
	path string
}

func NewRegistry(dataDir string) *Registry {
	return &Registry{path: filepath.Join(dataDir, "tools.toml")}
}

type registryFile struct {
	Tools map[string]Definition `toml:"tools"`
}

// LoadAll returns every definition keyed by name. A missing or unreadable
// file yields an empty registry, created on disk for the next save.
func (r *Registry) LoadAll() (map[string]Definition, error) {
	var file registryFile
	if _, err := toml.DecodeFile(r.path, &file); err != nil || file.Tools == nil {
		empty := map[string]Definition{}
		if err := r.SaveAll(empty); err != nil {
			return nil, err
		}
		return empty, nil
	}

	for name, def := range file.Tools {
		def.Name = name
		file.Tools[name] = def
	}
	return file.Tools, nil
}

func (r *Registry) SaveAll(defs map[string]Definition) error {
	if err := config.EnsureDir(filepath.Dir(r.path)); err != nil {
		return &config.PersistenceError{Path: r.path, Err: err}
	}

	f, err := os.OpenFile(r.path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return &config.PersistenceError{Path: r.path, Err: err}
	}
	defer f.Close()

	encoder := toml.NewEncoder(f)
	if err := encoder.Encode(registryFile{Tools: defs}); err != nil {
		return &config.PersistenceError{Path: r.path, Err: err}
	}

	return nil
}

func (r *Registry) Upsert(name string, def Definition) error {
	defs, err := r.LoadAll()
	if err != nil {
		return err
	}
	def.Name = name
	defs[name] = def
	return r.SaveAll(defs)
}

func (r *Registry) Delete(name string) error {
	defs, err := r.LoadAll()
	if err != nil {
		return err
	}
	delete(defs, name)
	return r.SaveAll(defs)
}

// Resolve finds the definition whose script declares a function named
// exactly name. The registered key is advisory; the script body is
// authoritative, so a renamed entry still resolves by what it declares.
func (r *Registry) Resolve(name string) (Definition, error) {
	defs, err := r.LoadAll()
	if err != nil {
		return Definition{}, err
	}

	for _, def := range sortedDefs(defs) {
		if DeclaresFunction(def.Script, name) {
			return def, nil
		}
	}

	return Definition{}, fmt.Errorf("%w: %q", ErrToolNotFound, name)
}

// DeclaresFunction reports whether script opens with a declaration of
// exactly name. The character after the name must be an identifier
// boundary, so "foo" never matches a script declaring "foobar".
func DeclaresFunction(script, name string) bool {
	const keyword = "function "
	header := keyword + name
	if !strings.HasPrefix(script, header) {
		return false
	}
	rest := script[len(header):]
	if rest == "" {
		return true
	}
	switch rest[0] {
	case ' ', '\t', '\n', '\r', '(', '{':
		return true
	}
	return false
}

func sortedDefs(defs map[string]Definition) []Definition {
	out := make([]Definition, 0, len(defs))
	for _, def := range defs {
		out = append(out, def)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
