// Package testutils holds fixture helpers shared across package tests.
package testutils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// WriteFile writes content to path, creating parent directories as needed.
// It fails the test immediately on error.
func WriteFile(t *testing.T, path, content string) {
	t.Helper()

	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755), "Failed to create fixture directories")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644), "Failed to write fixture file")
}
