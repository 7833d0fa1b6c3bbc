package grafana

import _ "embed"

// Version is the tool version, read from the VERSION file.
//
//go:embed VERSION
var Version string
