package git

import (
	"context"
	"strings"

	"github.com/nathanwebsterdotme/grafana/pkg/pipeline"
)

// CurrentBranch returns the name of the branch HEAD points at.
func CurrentBranch(ctx context.Context, runner pipeline.CommandRunner) (string, error) {
	out, err := runner.Run(ctx, "git", []string{"rev-parse", "--abbrev-ref", "HEAD"})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// CheckoutStep resolves the branch the release should land on into a step.
//
// Already on the branch: a no-op step. Branch exists locally: checkout.
// Otherwise: create-and-checkout. The decision queries git up front so the
// returned step is unconditional by the time the script runs.
func CheckoutStep(ctx context.Context, runner pipeline.CommandRunner, branch string) (pipeline.Step, error) {
	current, err := CurrentBranch(ctx, runner)
	if err != nil {
		return pipeline.Step{}, err
	}
	if current == branch {
		return pipeline.Step{}, nil
	}

	listing, err := runner.Run(ctx, "git", []string{"branch", "-a"})
	if err != nil {
		return pipeline.Step{}, err
	}

	if hasLocalBranch(listing, branch) {
		return pipeline.Step{Program: "git", Args: []string{"checkout", branch}}, nil
	}
	return pipeline.Step{Program: "git", Args: []string{"checkout", "-b", branch}}, nil
}

// hasLocalBranch scans `git branch -a` output for a local branch with the
// exact name, ignoring remote-tracking entries and the current-branch marker.
func hasLocalBranch(listing, branch string) bool {
	for _, line := range strings.Split(listing, "\n") {
		name := strings.TrimSpace(line)
		name = strings.TrimPrefix(name, "* ")
		name = strings.TrimPrefix(name, "+ ")
		if strings.HasPrefix(name, "remotes/") {
			continue
		}
		if name == branch {
			return true
		}
	}
	return false
}
