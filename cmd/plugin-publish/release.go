package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nathanwebsterdotme/grafana"
	"github.com/nathanwebsterdotme/grafana/internal/cli"
	"github.com/nathanwebsterdotme/grafana/internal/presentation/tui"
)

// releaseCmd represents the release command
var releaseCmd = &cobra.Command{
	Use:   "release",
	Short: "Push the release branch and create the GitHub release",
	Long: `Runs the publish script against the plugin in the target directory:
sets the committer identity, checks out release-<version>, replaces dist/
with the CI build, force-pushes the branch and the v<version> tag, and
creates the GitHub release from the latest changelog entry.

Requires CIRCLE_REPOSITORY_URL and GITHUB_TOKEN in the environment.`,
	Run: func(cmd *cobra.Command, args []string) {
		pluginDir, _ := cmd.Flags().GetString("dir")
		if !cmd.Flags().Changed("dir") && len(args) > 0 {
			pluginDir = args[0]
		}
		dryRun, _ := cmd.Flags().GetBool("dry-run")
		verbose, _ := cmd.Flags().GetBool("verbose")
		commitHash, _ := cmd.Flags().GetString("commit-hash")
		dev, _ := cmd.Flags().GetBool("dev")

		tui.PrintBanner(strings.TrimSpace(grafana.Version))

		sc := cli.NewSignalContext(context.Background())
		defer sc.Cancel()

		err := cli.Execute(sc, cli.ReleaseOptions{
			PluginDir:  pluginDir,
			DryRun:     dryRun,
			Verbose:    verbose,
			CommitHash: commitHash,
			Dev:        dev,
		})
		if err != nil {
			if sc.Signal() != nil {
				fmt.Fprintf(os.Stderr, "Interrupted (%s)\n", sc.Signal())
			} else {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			}
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(releaseCmd)

	releaseCmd.Flags().Bool("dry-run", false, "Append --dry-run to every step that supports it")
	releaseCmd.Flags().BoolP("verbose", "v", false, "Echo each command and its output")
	releaseCmd.Flags().String("commit-hash", "", "Pin the GitHub release to a specific commit")
	releaseCmd.Flags().Bool("dev", false, "Enable developer (debug) logging")
}
