package tools

import (
	"fmt"
	"runtime"
	"strings"
)

// Dialect selects how the wrapper script around a tool body is composed.
type Dialect string

const (
	DialectShell      Dialect = "shell"
	DialectPowerShell Dialect = "powershell"
)

// Interpreter describes the external script host. Anything that accepts a
// script file and reports stdout/stderr/exit code is substitutable.
type Interpreter struct {
	Command string
	Args    []string // passed before the script path
	Ext     string   // script file extension, including the dot
	Dialect Dialect
}

// DefaultInterpreter picks PowerShell on Windows and bash elsewhere.
func DefaultInterpreter() Interpreter {
	if runtime.GOOS == "windows" {
		return PowerShellInterpreter("powershell")
	}
	return ShellInterpreter("bash")
}

// InterpreterFor maps a configured command name to an Interpreter, so
// settings can pick "pwsh", "bash", "sh" or similar by name.
func InterpreterFor(command string) Interpreter {
	switch command {
	case "":
		return DefaultInterpreter()
	case "powershell", "pwsh":
		return PowerShellInterpreter(command)
	default:
		return ShellInterpreter(command)
	}
}

func ShellInterpreter(command string) Interpreter {
	return Interpreter{
		Command: command,
		Ext:     ".sh",
		Dialect: DialectShell,
	}
}

func PowerShellInterpreter(command string) Interpreter {
	return Interpreter{
		Command: command,
		Args:    []string{"-NoProfile", "-ExecutionPolicy", "Bypass", "-File"},
		Ext:     ".ps1",
		Dialect: DialectPowerShell,
	}
}

// Wrap composes the full wrapper script: force UTF-8 output, embed the tool
// body verbatim, then invoke the tool so that a runtime failure ends up on
// stderr with a non-zero exit status instead of an unhandled crash.
func (i Interpreter) Wrap(script, name, argsText string) string {
	call := strings.TrimSpace(name + " " + argsText)

	switch i.Dialect {
	case DialectPowerShell:
		return fmt.Sprintf(`[Console]::OutputEncoding = [System.Text.Encoding]::UTF8
$OutputEncoding = [System.Text.Encoding]::UTF8

%s

try {
    %s
} catch {
    Write-Error $_.Exception.Message
    exit 1
}
`, script, call)
	default:
		return fmt.Sprintf(`#!/usr/bin/env %s
export LANG=C.UTF-8
export LC_ALL=C.UTF-8

%s

%s
rc=$?
if [ $rc -ne 0 ]; then
    echo "tool '%s' failed with exit status $rc" >&2
    exit $rc
fi
`, i.Command, script, call, name)
	}
}
