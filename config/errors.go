package config

import "fmt"

// PersistenceError wraps a failed store write. Load failures are never
// reported this way: an unreadable or missing store file falls back to
// default content instead.
type PersistenceError struct {
	Path string
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("failed to persist %s: %v", e.Path, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
