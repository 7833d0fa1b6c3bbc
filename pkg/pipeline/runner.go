package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// CommandRunner executes a single external command and returns its standard
// output. Implementations must block until the process exits.
//
// The executor depends on this interface rather than os/exec directly so
// tests can substitute a recording fake and assert the exact sequence of
// intended commands without spawning processes.
type CommandRunner interface {
	Run(ctx context.Context, program string, args []string) (string, error)
}

// ExecRunner is the os/exec backed CommandRunner used in production.
type ExecRunner struct {
	// Dir is the working directory for executed commands. Empty means the
	// current process working directory.
	Dir string
}

// Run invokes the program and waits for completion. Stdout is returned
// trimmed. On failure the returned error is an *ExecError carrying the
// command line, both captured streams and the exit code.
func (r *ExecRunner) Run(ctx context.Context, program string, args []string) (string, error) {
	cmd := exec.CommandContext(ctx, program, args...)
	cmd.Dir = r.Dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil {
		exitCode := -1
		if exitErr, ok := err.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		}
		return "", &ExecError{
			Program:  program,
			Args:     args,
			Stdout:   stdout.String(),
			Stderr:   stderr.String(),
			ExitCode: exitCode,
			Err:      err,
		}
	}

	return strings.TrimSpace(stdout.String()), nil
}

// ExecError describes a failed command invocation.
// Its message combines the command line, the underlying error and both
// captured streams: tolerated-failure patterns must be able to match
// wherever the tool printed its complaint (git writes "nothing to commit"
// to stdout, most other diagnostics to stderr).
type ExecError struct {
	Program  string
	Args     []string
	Stdout   string
	Stderr   string
	ExitCode int
	Err      error
}

func (e *ExecError) Error() string {
	line := e.Program
	if len(e.Args) > 0 {
		line += " " + strings.Join(e.Args, " ")
	}
	msg := fmt.Sprintf("command failed: %s: %v", line, e.Err)
	if s := strings.TrimSpace(e.Stderr); s != "" {
		msg += ": " + s
	}
	if s := strings.TrimSpace(e.Stdout); s != "" {
		msg += ": " + s
	}
	return msg
}

func (e *ExecError) Unwrap() error {
	return e.Err
}
