package tui

import (
	"github.com/charmbracelet/glamour"
)

// NewRenderer returns a function that renders markdown using glamour.
// The publish flow uses it to preview the extracted release notes before
// they are attached to the GitHub release.
func NewRenderer() func(string) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(), // Automatically detect light/dark background
		glamour.WithEmoji(),     // Changelogs use :tada: style shortcodes
	)

	return func(markdown string) (string, error) {
		if err != nil {
			// The preview is best effort; fall back to the raw notes.
			return markdown, nil
		}
		return r.Render(markdown)
	}
}
