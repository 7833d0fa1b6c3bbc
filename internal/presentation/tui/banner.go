package tui

import (
	"fmt"

	"github.com/muesli/termenv"
)

// PrintBanner outputs a short banner identifying the publish tool.
func PrintBanner(version string) {
	p := termenv.ColorProfile()
	// Grafana orange for the name, faint grey for the version.
	name := termenv.String("plugin-publish").Foreground(p.Color("#f46800")).Bold()
	ver := termenv.String(version).Faint()

	fmt.Println()
	fmt.Printf("  %s %s\n", name, ver)
	fmt.Println()
}
