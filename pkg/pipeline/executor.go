// Package pipeline runs an ordered list of external commands with per-step
// options: dry-run flag injection, edition gating and tolerated-failure
// matching. Steps are data, not code, so a publish script can be built once
// from its inputs and inspected or replayed against a fake runner in tests.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
)

// Executor walks a step list strictly in order, one process at a time.
// The first genuine failure stops the walk; tolerated failures and skipped
// steps leave the remaining steps untouched.
type Executor struct {
	runner CommandRunner
	out    io.Writer
	logger *slog.Logger
}

// Option configures an Executor.
type Option func(*Executor)

// WithRunner injects the CommandRunner. Defaults to an ExecRunner in the
// current working directory.
func WithRunner(r CommandRunner) Option {
	return func(e *Executor) {
		e.runner = r
	}
}

// WithOutput sets the writer for verbose step output. Defaults to stdout.
func WithOutput(w io.Writer) Option {
	return func(e *Executor) {
		e.out = w
	}
}

// WithLogger sets a structured logger for step diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Executor) {
		e.logger = logger
	}
}

// NewExecutor creates an Executor.
func NewExecutor(opts ...Option) *Executor {
	e := &Executor{
		runner: &ExecRunner{},
		out:    os.Stdout,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run executes the steps in list order under the given context.
//
// Per step: a no-op is skipped; an enterprise-only step is skipped unless
// pctx.Enterprise is set; a dry-run capable step gets "--dry-run" appended
// when pctx.DryRun is set. A failure is checked against the step's
// OKOnError patterns in order, and a match downgrades it to success.
// The first unmatched failure aborts the walk and is returned; no further
// steps execute.
func (e *Executor) Run(ctx context.Context, steps []Step, pctx Context) error {
	for i, step := range steps {
		if err := ctx.Err(); err != nil {
			return err
		}

		if step.IsNoop() {
			e.verbosef(pctx, "skipping empty step\n")
			e.logger.Debug("skipping no-op step", "index", i)
			continue
		}

		if step.Opts != nil && step.Opts.Enterprise && !pctx.Enterprise {
			e.verbosef(pctx, "skipping enterprise only step: %s\n", step)
			e.logger.Debug("skipping enterprise step", "index", i, "cmd", step.String())
			continue
		}

		args := step.Args
		if step.Opts != nil && step.Opts.DryRun && pctx.DryRun {
			// Copy before appending: the declared step list is never mutated.
			args = append(append([]string(nil), args...), "--dry-run")
		}

		e.verbosef(pctx, "executing >> %s %v\n", step.Program, args)
		e.logger.Debug("executing step", "index", i, "program", step.Program, "args", args)

		stdout, err := e.runner.Run(ctx, step.Program, args)
		if err != nil {
			if tolerated(step, err) {
				e.logger.Debug("tolerated step failure", "index", i, "cmd", step.String(), "err", err)
				continue
			}
			return err
		}

		if stdout != "" {
			e.verbosef(pctx, "%s\n", stdout)
		}
	}

	return nil
}

// tolerated reports whether the failure message matches one of the step's
// OKOnError patterns.
func tolerated(step Step, err error) bool {
	if step.Opts == nil || len(step.Opts.OKOnError) == 0 {
		return false
	}
	msg := err.Error()
	for _, pattern := range step.Opts.OKOnError {
		if pattern.MatchString(msg) {
			return true
		}
	}
	return false
}

func (e *Executor) verbosef(pctx Context, format string, args ...any) {
	if !pctx.Verbose {
		return
	}
	fmt.Fprintf(e.out, format, args...)
}
