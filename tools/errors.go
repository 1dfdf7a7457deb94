package tools

import (
	"errors"
	"fmt"
)

// ErrToolNotFound reports that no registered script declares the requested
// tool name. Check with errors.Is.
var ErrToolNotFound = errors.New("tool not found")

// ExecutionErrorKind separates "the script ran and failed" from "the
// interpreter could not be run at all".
type ExecutionErrorKind int

const (
	// KindFailed: the script executed and exited non-zero.
	KindFailed ExecutionErrorKind = iota
	// KindInterpreter: the interpreter process could not be launched or
	// the wrapper script could not be materialized.
	KindInterpreter
)

// ExecutionError is the typed failure Run returns instead of ever
// propagating a fault to the stream pipeline.
type ExecutionError struct {
	Kind     ExecutionErrorKind
	Tool     string
	ExitCode int
	Detail   string
}

func (e *ExecutionError) Error() string {
	switch e.Kind {
	case KindInterpreter:
		return fmt.Sprintf("tool %q: interpreter error: %s", e.Tool, e.Detail)
	default:
		return fmt.Sprintf("tool %q exited with status %d: %s", e.Tool, e.ExitCode, e.Detail)
	}
}
