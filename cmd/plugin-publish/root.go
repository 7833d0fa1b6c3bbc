package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "plugin-publish",
	Short: "Publish Grafana plugin builds to GitHub",
	Long: `plugin-publish pushes a CI-built Grafana plugin to its release branch
and creates a GitHub release with changelog-derived notes.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("dir", ".", "Plugin repository root")
}
