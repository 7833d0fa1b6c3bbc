// Package cli wires the publish flow together: configuration, manifest
// resolution, the git command script, and the GitHub release call.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"

	"github.com/nathanwebsterdotme/grafana/internal/changelog"
	"github.com/nathanwebsterdotme/grafana/internal/config"
	"github.com/nathanwebsterdotme/grafana/internal/git"
	"github.com/nathanwebsterdotme/grafana/internal/github"
	"github.com/nathanwebsterdotme/grafana/internal/manifest"
	"github.com/nathanwebsterdotme/grafana/internal/presentation/tui"
	"github.com/nathanwebsterdotme/grafana/pkg/pipeline"
)

// ReleaseOptions contains all the configuration for the release command.
type ReleaseOptions struct {
	// PluginDir is the plugin repository root, holding src/, ci/ and the
	// changelog.
	PluginDir string
	// DryRun appends --dry-run to every step that supports it.
	DryRun bool
	// Verbose echoes each command and its output.
	Verbose bool
	// CommitHash pins the GitHub release to a specific commit.
	CommitHash string
	// Dev enables developer (debug) logging. It never changes release
	// behavior.
	Dev bool
}

// commitNoopPatterns are git commit failures that mean "nothing changed",
// which is fine on a re-release.
var commitNoopPatterns = []*regexp.Regexp{
	regexp.MustCompile("nothing to commit"),
	regexp.MustCompile("nothing added to commit"),
	regexp.MustCompile("no changes added to commit"),
}

// Execute handles the 'release' command logic.
func Execute(ctx context.Context, opts ReleaseOptions) error {
	logger := createLogger(opts.Dev)
	runner := &pipeline.ExecRunner{Dir: opts.PluginDir}
	return release(ctx, opts, runner, os.Stdout, logger)
}

// release is Execute with its process and output boundaries injected.
func release(ctx context.Context, opts ReleaseOptions, runner pipeline.CommandRunner, out io.Writer, logger *slog.Logger) error {
	cfg, err := config.Load(opts.PluginDir)
	if err != nil {
		return err
	}
	logger.Debug("loaded publish config",
		"repository", cfg.RepositoryURL, "token", cfg.Token, "changelog", cfg.ChangelogPath)

	ciDir := filepath.Join(opts.PluginDir, "ci")
	pluginID, err := manifest.ResolvePluginID(opts.PluginDir, ciDir)
	if err != nil {
		return err
	}
	m, err := manifest.Load(manifest.DistManifestPath(ciDir, pluginID))
	if err != nil {
		return err
	}
	version := m.Info.Version
	logger.Debug("resolved plugin build",
		"plugin", pluginID, "version", version, "enterprise", m.Enterprise)

	branch, err := git.CheckoutStep(ctx, runner, "release-"+version)
	if err != nil {
		return err
	}
	steps := publishSteps(cfg.Committer, branch, filepath.Join(ciDir, "dist", pluginID), version)

	prepare := tui.NewSpinner(out, "Preparing release v"+version)
	prepare.Start()
	executor := pipeline.NewExecutor(
		pipeline.WithRunner(runner),
		pipeline.WithOutput(out),
		pipeline.WithLogger(logger),
	)
	err = executor.Run(ctx, steps, pipeline.Context{
		DryRun:     opts.DryRun,
		Verbose:    opts.Verbose,
		Enterprise: m.Enterprise,
	})
	if err != nil {
		prepare.Fail("")
		return err
	}
	prepare.Succeed("")

	repo, err := git.ParseRemoteURL(cfg.RepositoryURL)
	if err != nil {
		return err
	}

	notesPath := cfg.ChangelogPath
	if !filepath.IsAbs(notesPath) {
		notesPath = filepath.Join(opts.PluginDir, notesPath)
	}
	notes, err := changelog.ExtractFile(notesPath)
	if err != nil {
		return fmt.Errorf("failed to extract release notes: %w", err)
	}
	if opts.Verbose && notes != "" {
		render := tui.NewRenderer()
		if preview, err := render(notes); err == nil {
			fmt.Fprint(out, preview)
		}
	}

	ghOpts := []github.Option{github.WithLogger(logger)}
	if cfg.APIBaseURL != "" {
		ghOpts = append(ghOpts, github.WithBaseURL(cfg.APIBaseURL))
	}
	client, err := github.NewClient(cfg.Token, repo, notes, opts.CommitHash, ghOpts...)
	if err != nil {
		return err
	}

	publish := tui.NewSpinner(out, "Creating GitHub release v"+version)
	publish.Start()
	if err := client.Release(ctx, version); err != nil {
		publish.Fail("")
		return err
	}
	publish.Succeed("")

	logger.Info("release published",
		"plugin", pluginID, "version", version, "repo", repo.Owner+"/"+repo.Name)
	return nil
}

// publishSteps builds the release script. The branch step comes resolved
// from git; distContentDir is where CI left the built plugin.
func publishSteps(committer config.Committer, branch pipeline.Step, distContentDir, version string) []pipeline.Step {
	return []pipeline.Step{
		{Program: "git", Args: []string{"config", "user.email", committer.Email}},
		{Program: "git", Args: []string{"config", "user.name", committer.Name}},
		branch,
		{Program: "/bin/rm", Args: []string{"-rf", "dist"}, Opts: &pipeline.StepOptions{DryRun: true}},
		{Program: "mv", Args: []string{"-v", distContentDir, "dist"}},
		{Program: "git", Args: []string{"add", "--force", "dist"}, Opts: &pipeline.StepOptions{DryRun: true}},
		{Program: "/bin/rm", Args: []string{"-rf", "src"}, Opts: &pipeline.StepOptions{Enterprise: true}},
		{Program: "git", Args: []string{"rm", "-rf", "src"}, Opts: &pipeline.StepOptions{Enterprise: true}},
		{Program: "git", Args: []string{"commit", "-m", fmt.Sprintf("automated release v%s [skip ci]", version)}, Opts: &pipeline.StepOptions{
			DryRun:    true,
			OKOnError: commitNoopPatterns,
		}},
		{Program: "git", Args: []string{"push", "-f", "origin", "release-" + version}, Opts: &pipeline.StepOptions{DryRun: true}},
		{Program: "git", Args: []string{"tag", "-f", "v" + version}},
		{Program: "git", Args: []string{"push", "-f", "origin", "v" + version}, Opts: &pipeline.StepOptions{DryRun: true}},
	}
}
