package pipeline

import (
	"regexp"
	"strings"
)

// Step describes one external command in a publish script.
// A zero-value Step (empty Program) is a structural no-op: it occupies a
// position in the script but executes nothing. Conditional builders (e.g.
// branch resolution) return it when there is nothing to do.
type Step struct {
	Program string
	Args    []string
	Opts    *StepOptions
}

// StepOptions carries the per-step execution options.
type StepOptions struct {
	// DryRun marks the step as dry-run capable. When the global dry-run
	// flag is set, "--dry-run" is appended as the last argument at
	// invocation time.
	DryRun bool

	// Enterprise restricts the step to enterprise plugins. When the
	// manifest is not enterprise, the step is skipped.
	Enterprise bool

	// OKOnError lists failure patterns that are tolerated, in order.
	// A failure whose message matches any pattern is treated as success
	// and the walk continues.
	OKOnError []*regexp.Regexp
}

// IsNoop reports whether the step is a structural no-op.
func (s Step) IsNoop() bool {
	return s.Program == ""
}

// String renders the step as a shell-like command line for logs.
func (s Step) String() string {
	if s.IsNoop() {
		return "(noop)"
	}
	if len(s.Args) == 0 {
		return s.Program
	}
	return s.Program + " " + strings.Join(s.Args, " ")
}

// Context is the global execution context applied to every step of a walk.
type Context struct {
	DryRun     bool
	Verbose    bool
	Enterprise bool
}
