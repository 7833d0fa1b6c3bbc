package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nathanwebsterdotme/grafana"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of plugin-publish",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("plugin-publish version %s\n", strings.TrimSpace(grafana.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
