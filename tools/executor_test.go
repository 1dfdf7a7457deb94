package tools

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestExecutor(t *testing.T, timeout time.Duration) (*Executor, *Registry) {
	t.Helper()
	if _, err := exec.LookPath("bash"); err != nil {
		t.Skip("bash not available")
	}
	reg := NewRegistry(t.TempDir())
	return NewExecutor(reg, ShellInterpreter("bash"), timeout, zap.NewNop()), reg
}

func leftoverScripts(t *testing.T) []string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join(os.TempDir(), "aidbg-tool-*"))
	require.NoError(t, err)
	return matches
}

func TestRunCapturesStdout(t *testing.T) {
	e, reg := newTestExecutor(t, 0)
	require.NoError(t, reg.Upsert("greet", Definition{
		Script: "function greet() {\n    echo \"hello $1\"\n}",
	}))

	out, err := e.Run(context.Background(), "greet", "world")
	require.NoError(t, err)
	assert.Equal(t, "hello world", out)
	assert.Empty(t, leftoverScripts(t), "temp script must be removed after the call")
}

func TestRunEmptyArgs(t *testing.T) {
	e, reg := newTestExecutor(t, 0)
	require.NoError(t, reg.Upsert("pwd_tool", Definition{
		Script: "function pwd_tool() {\n    echo ok\n}",
	}))

	out, err := e.Run(context.Background(), "pwd_tool", "")
	require.NoError(t, err)
	assert.Equal(t, "ok", out)
}

func TestRunToolNotFound(t *testing.T) {
	e, _ := newTestExecutor(t, 0)

	_, err := e.Run(context.Background(), "missing", "")
	assert.ErrorIs(t, err, ErrToolNotFound)
	assert.Empty(t, leftoverScripts(t), "lookup failure must not create files")
}

func TestRunFailingToolReportsStderr(t *testing.T) {
	e, reg := newTestExecutor(t, 0)
	require.NoError(t, reg.Upsert("boom", Definition{
		Script: "function boom() {\n    echo \"it broke\" >&2\n    return 3\n}",
	}))

	_, err := e.Run(context.Background(), "boom", "")

	var execErr *ExecutionError
	require.True(t, errors.As(err, &execErr), "want *ExecutionError, got %T", err)
	assert.Equal(t, KindFailed, execErr.Kind)
	assert.Equal(t, 3, execErr.ExitCode)
	assert.Contains(t, execErr.Detail, "it broke")
	assert.Empty(t, leftoverScripts(t), "temp script must be removed on the failure path")
}

func TestRunMissingInterpreter(t *testing.T) {
	reg := NewRegistry(t.TempDir())
	require.NoError(t, reg.Upsert("probe", Definition{
		Script: "function probe() {\n    echo ok\n}",
	}))
	e := NewExecutor(reg, ShellInterpreter("definitely-not-a-shell"), 0, zap.NewNop())

	_, err := e.Run(context.Background(), "probe", "")

	var execErr *ExecutionError
	require.True(t, errors.As(err, &execErr), "want *ExecutionError, got %T", err)
	assert.Equal(t, KindInterpreter, execErr.Kind)
	assert.Empty(t, leftoverScripts(t))
}

func TestRunBoundedWait(t *testing.T) {
	e, reg := newTestExecutor(t, 100*time.Millisecond)
	require.NoError(t, reg.Upsert("sleepy", Definition{
		Script: "function sleepy() {\n    sleep 5\n}",
	}))

	start := time.Now()
	_, err := e.Run(context.Background(), "sleepy", "")
	elapsed := time.Since(start)

	var execErr *ExecutionError
	require.True(t, errors.As(err, &execErr), "want *ExecutionError, got %T", err)
	assert.Equal(t, KindInterpreter, execErr.Kind)
	assert.Less(t, elapsed, 3*time.Second, "bounded wait should fire well before the script finishes")
}

func TestRunLeftoverChildDoesNotBlock(t *testing.T) {
	e, reg := newTestExecutor(t, 0)
	require.NoError(t, reg.Upsert("lingerer", Definition{
		Script: "function lingerer() {\n    echo ready\n    sleep 5 &\n}",
	}))

	start := time.Now()
	out, err := e.Run(context.Background(), "lingerer", "")
	elapsed := time.Since(start)

	// The script exits immediately; the backgrounded child holds the
	// inherited stdout pipe but must not hold up the result.
	require.NoError(t, err)
	assert.Equal(t, "ready", out)
	assert.Less(t, elapsed, 3*time.Second, "leftover child held the output pipes open")
}

func TestWrapShellDialect(t *testing.T) {
	interp := ShellInterpreter("bash")
	script := interp.Wrap("function greet() {\n    echo hi\n}", "greet", "world")

	assert.Contains(t, script, "export LC_ALL=C.UTF-8")
	assert.Contains(t, script, "function greet() {\n    echo hi\n}")
	assert.Contains(t, script, "\ngreet world\n")
}

func TestWrapPowerShellDialect(t *testing.T) {
	interp := PowerShellInterpreter("pwsh")
	script := interp.Wrap("function Get-Probe { uptime }", "Get-Probe", "")

	assert.Contains(t, script, "[Console]::OutputEncoding")
	assert.Contains(t, script, "function Get-Probe { uptime }")
	assert.Contains(t, script, "try {\n    Get-Probe\n}")
	assert.Contains(t, script, "Write-Error $_.Exception.Message")
}
