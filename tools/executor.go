package tools

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// pipeGrace is how long Run keeps waiting for the script's output pipes
// once the script has exited or been killed at the deadline.
const pipeGrace = time.Second

// Executor materializes a tool's script into a temporary file and runs it
// through the external interpreter with output captured. One transient file
// per invocation, removed on every exit path; no other state is touched.
type Executor struct {
	registry *Registry
	interp   Interpreter
	timeout  time.Duration // 0 = unbounded
	log      *zap.Logger
}

func NewExecutor(registry *Registry, interp Interpreter, timeout time.Duration, log *zap.Logger) *Executor {
	if log == nil {
		log = zap.NewNop()
	}
	return &Executor{
		registry: registry,
		interp:   interp,
		timeout:  timeout,
		log:      log,
	}
}

// Run resolves name in the registry, composes the wrapper script and
// executes it. Returns trimmed stdout on exit 0; otherwise a typed error:
// ErrToolNotFound, an ExecutionError with the trimmed stderr for a non-zero
// exit, or an interpreter-kind ExecutionError when the process could not be
// run at all. Run never panics and never returns an untyped fault.
func (e *Executor) Run(ctx context.Context, name, argsText string) (string, error) {
	def, err := e.registry.Resolve(name)
	if err != nil {
		return "", err
	}

	script := e.interp.Wrap(def.Script, name, argsText)

	scriptPath := filepath.Join(os.TempDir(), fmt.Sprintf("aidbg-tool-%s%s", uuid.New().String(), e.interp.Ext))
	if err := os.WriteFile(scriptPath, []byte(script), 0700); err != nil {
		return "", &ExecutionError{Kind: KindInterpreter, Tool: name, Detail: fmt.Sprintf("failed to write script: %v", err)}
	}
	defer os.Remove(scriptPath)

	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	args := append(append([]string{}, e.interp.Args...), scriptPath)
	cmd := exec.CommandContext(ctx, e.interp.Command, args...)

	// A child the script leaves behind inherits the output pipes and would
	// keep Run blocked past the deadline after the interpreter itself is
	// killed. WaitDelay forces Wait to give up on the pipes.
	cmd.WaitDelay = pipeGrace

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	runErr := cmd.Run()
	e.log.Debug("tool executed",
		zap.String("tool", name),
		zap.Duration("elapsed", time.Since(start)),
		zap.Bool("ok", runErr == nil))

	if runErr != nil {
		if ctx.Err() != nil {
			return "", &ExecutionError{Kind: KindInterpreter, Tool: name, Detail: fmt.Sprintf("execution aborted: %v", ctx.Err())}
		}
		// The script exited cleanly but a leftover child still held the
		// pipes; the output collected so far is the result.
		if errors.Is(runErr, exec.ErrWaitDelay) {
			return strings.TrimSpace(stdout.String()), nil
		}
		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			return "", &ExecutionError{
				Kind:     KindFailed,
				Tool:     name,
				ExitCode: exitErr.ExitCode(),
				Detail:   strings.TrimSpace(stderr.String()),
			}
		}
		return "", &ExecutionError{Kind: KindInterpreter, Tool: name, Detail: runErr.Error()}
	}

	return strings.TrimSpace(stdout.String()), nil
}
