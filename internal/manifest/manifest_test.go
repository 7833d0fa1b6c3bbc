package manifest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nathanwebsterdotme/grafana/internal/testutils"
)

const clockPanelManifest = `{
  "$schema": "https://raw.githubusercontent.com/grafana/grafana/main/docs/sources/developers/plugins/plugin.schema.json",
  "type": "panel",
  "name": "Clock",
  "id": "grafana-clock-panel",
  "info": {
    "description": "Clock panel for grafana",
    "author": {
      "name": "Grafana Labs",
      "url": "https://grafana.com"
    },
    "keywords": ["clock", "panel"],
    "version": "2.1.0",
    "updated": "2021-11-17"
  },
  "dependencies": {
    "grafanaDependency": ">=7.0.0"
  }
}`

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plugin.json")
	testutils.WriteFile(t, path, clockPanelManifest)

	m, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "grafana-clock-panel", m.ID)
	assert.Equal(t, "panel", m.Type)
	assert.Equal(t, "Clock", m.Name)
	assert.False(t, m.Enterprise)
	assert.Equal(t, "2.1.0", m.Info.Version)
	assert.Equal(t, "Clock panel for grafana", m.Info.Description)
	assert.Equal(t, "Grafana Labs", m.Info.Author.Name)
	assert.Equal(t, "https://grafana.com", m.Info.Author.URL)
}

func TestLoad_EnterprisePlugin(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plugin.json")
	testutils.WriteFile(t, path, `{"id": "grafana-splunk-datasource", "enterprise": true, "info": {"version": "1.0.0"}}`)

	m, err := Load(path)
	require.NoError(t, err)
	assert.True(t, m.Enterprise)
}

func TestLoad_RequiresIDAndVersion(t *testing.T) {
	tests := map[string]string{
		"missing id":      `{"info": {"version": "1.0.0"}}`,
		"missing info":    `{"id": "grafana-clock-panel"}`,
		"missing version": `{"id": "grafana-clock-panel", "info": {"author": {"name": "Grafana Labs"}}}`,
	}

	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "plugin.json")
			testutils.WriteFile(t, path, content)

			_, err := Load(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "missing id and/or info.version")
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "plugin.json"))
	require.Error(t, err)
}

func TestLoad_MalformedJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plugin.json")
	testutils.WriteFile(t, path, `{"id": "broken"`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse")
}

func TestResolvePluginID_FromSourceManifest(t *testing.T) {
	root := t.TempDir()
	testutils.WriteFile(t, filepath.Join(root, "src", "plugin.json"), clockPanelManifest)

	id, err := ResolvePluginID(root, filepath.Join(root, "ci"))
	require.NoError(t, err)
	assert.Equal(t, "grafana-clock-panel", id)
}

func TestResolvePluginID_SourceManifestWithoutID(t *testing.T) {
	root := t.TempDir()
	testutils.WriteFile(t, filepath.Join(root, "src", "plugin.json"), `{"info": {"version": "1.0.0"}}`)

	_, err := ResolvePluginID(root, filepath.Join(root, "ci"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no plugin id")
}

func TestResolvePluginID_FallsBackToDistDirectory(t *testing.T) {
	root := t.TempDir()
	ciDir := filepath.Join(root, "ci")
	testutils.WriteFile(t, filepath.Join(ciDir, "dist", "grafana-clock-panel", "plugin.json"), clockPanelManifest)
	// Packaged artifacts next to the build directory must not confuse the scan.
	testutils.WriteFile(t, filepath.Join(ciDir, "dist", "grafana-clock-panel-2.1.0.zip"), "not a directory")

	id, err := ResolvePluginID(root, ciDir)
	require.NoError(t, err)
	assert.Equal(t, "grafana-clock-panel", id)
}

func TestResolvePluginID_MultipleDistBuilds(t *testing.T) {
	root := t.TempDir()
	ciDir := filepath.Join(root, "ci")
	testutils.WriteFile(t, filepath.Join(ciDir, "dist", "plugin-one", "plugin.json"), clockPanelManifest)
	testutils.WriteFile(t, filepath.Join(ciDir, "dist", "plugin-two", "plugin.json"), clockPanelManifest)

	_, err := ResolvePluginID(root, ciDir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot determine the plugin id")
}

func TestResolvePluginID_NoDistBuilds(t *testing.T) {
	root := t.TempDir()
	ciDir := filepath.Join(root, "ci")
	require.NoError(t, os.MkdirAll(filepath.Join(ciDir, "dist"), 0o755))

	_, err := ResolvePluginID(root, ciDir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no plugin build found")
}

func TestResolvePluginID_MissingDistDirectory(t *testing.T) {
	root := t.TempDir()

	_, err := ResolvePluginID(root, filepath.Join(root, "ci"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to locate plugin build")
}

func TestDistManifestPath(t *testing.T) {
	got := DistManifestPath(filepath.Join("work", "ci"), "grafana-clock-panel")
	assert.Equal(t, filepath.Join("work", "ci", "dist", "grafana-clock-panel", "plugin.json"), got)
}
