// Package hostrun executes privileged shell scripts on the local host and
// maps their exit status onto convergence results.
package hostrun

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"kubeseed/internal/converge"
)

// exitCommandNotFound is the shell's exit status for a missing command.
// It separates "the probe itself is broken" from "ran and reported down".
const exitCommandNotFound = 127

// Output captures one completed command execution.
type Output struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Runner executes a shell script on the local host.
// Production: ExecRunner. Tests: in-memory fakes.
type Runner interface {
	// Run executes the script and returns its output. A non-zero exit is
	// reported through Output, not the error; the error is reserved for
	// failures to execute at all.
	Run(ctx context.Context, script string) (Output, error)
}

// ExecRunner runs scripts through a local shell.
type ExecRunner struct {
	// Shell is the interpreter path; empty means /bin/sh.
	Shell string
}

func (r ExecRunner) Run(ctx context.Context, script string) (Output, error) {
	shell := r.Shell
	if shell == "" {
		shell = "/bin/sh"
	}

	cmd := exec.CommandContext(ctx, shell, "-e", "-c", script)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	out := Output{Stdout: stdout.String(), Stderr: stderr.String()}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			out.ExitCode = exitErr.ExitCode()
			return out, nil
		}
		return out, fmt.Errorf("run shell %s: %w", shell, err)
	}
	return out, nil
}

// Exec runs a script that is expected to succeed and returns an error
// carrying the script's own diagnostics otherwise. Used for install steps
// and remedial actions.
func Exec(ctx context.Context, r Runner, desc, script string) error {
	out, err := r.Run(ctx, script)
	if err != nil {
		return fmt.Errorf("%s: %w", desc, err)
	}
	if out.ExitCode != 0 {
		return fmt.Errorf("%s: exit %d: %s", desc, out.ExitCode, out.Diagnostic())
	}
	return nil
}

// Probe adapts a script to a convergence probe. Exit 0 is ready, a missing
// command is a probe error, and any other non-zero exit is not-ready with
// the script's diagnostics attached.
func Probe(r Runner, script string) converge.Probe {
	return func(ctx context.Context) converge.Result {
		out, err := r.Run(ctx, script)
		if err != nil {
			return converge.ProbeError(err)
		}
		switch {
		case out.ExitCode == 0:
			return converge.Ready(strings.TrimSpace(out.Stdout))
		case out.ExitCode == exitCommandNotFound:
			return converge.ProbeError(fmt.Errorf("command not found: %s", out.Diagnostic()))
		default:
			return converge.NotReady(fmt.Sprintf("exit %d: %s", out.ExitCode, out.Diagnostic()))
		}
	}
}

// Diagnostic returns the most useful line of the command's output: the
// first non-empty stderr line, falling back to stdout.
func (o Output) Diagnostic() string {
	if line := firstLine(o.Stderr); line != "" {
		return line
	}
	if line := firstLine(o.Stdout); line != "" {
		return line
	}
	return "(no output)"
}

func firstLine(s string) string {
	for _, line := range strings.Split(s, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

// ShellQuote single-quotes s for safe interpolation into a script.
func ShellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'"'"'`) + "'"
}
