// Package manifest reads Grafana plugin.json manifests and resolves where
// the CI build placed the distributable one.
package manifest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/mitchellh/mapstructure"
)

// Manifest is the subset of plugin.json the publish task cares about.
// Real manifests carry more (keywords, links, screenshots, dependencies);
// decoding goes through a generic map so unknown fields never break a
// release.
type Manifest struct {
	ID         string `mapstructure:"id"`
	Type       string `mapstructure:"type"`
	Name       string `mapstructure:"name"`
	Enterprise bool   `mapstructure:"enterprise"`
	Info       Info   `mapstructure:"info"`
}

// Info mirrors the plugin.json "info" block.
type Info struct {
	Version     string `mapstructure:"version"`
	Description string `mapstructure:"description"`
	Updated     string `mapstructure:"updated"`
	Author      Author `mapstructure:"author"`
}

// Author mirrors the plugin.json "info.author" block.
type Author struct {
	Name string `mapstructure:"name"`
	URL  string `mapstructure:"url"`
}

// Load reads and validates a plugin.json. The id and info.version fields are
// required: branch, tag and release names are all derived from them.
func Load(path string) (*Manifest, error) {
	m, err := decode(path)
	if err != nil {
		return nil, err
	}
	if m.ID == "" || m.Info.Version == "" {
		return nil, fmt.Errorf("%s is missing id and/or info.version", path)
	}
	return m, nil
}

func decode(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	var m Manifest
	if err := mapstructure.Decode(raw, &m); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return &m, nil
}

// ResolvePluginID determines the plugin id for the build under root.
// The source manifest (src/plugin.json) is authoritative; when it is absent
// the lone directory under <ci>/dist names the plugin.
func ResolvePluginID(root, ciDir string) (string, error) {
	srcManifest := filepath.Join(root, "src", "plugin.json")
	m, err := decode(srcManifest)
	switch {
	case err == nil:
		if m.ID == "" {
			return "", fmt.Errorf("%s has no plugin id", srcManifest)
		}
		return m.ID, nil
	case !errors.Is(err, fs.ErrNotExist):
		return "", err
	}

	return distPluginID(filepath.Join(ciDir, "dist"))
}

// DistManifestPath is the location of the built plugin's manifest inside the
// CI output tree: <ci>/dist/<plugin-id>/plugin.json.
func DistManifestPath(ciDir, pluginID string) string {
	return filepath.Join(ciDir, "dist", pluginID, "plugin.json")
}

func distPluginID(distDir string) (string, error) {
	entries, err := os.ReadDir(distDir)
	if err != nil {
		return "", fmt.Errorf("failed to locate plugin build: %w", err)
	}

	var dirs []string
	for _, e := range entries {
		if e.IsDir() {
			dirs = append(dirs, e.Name())
		}
	}

	switch len(dirs) {
	case 1:
		return dirs[0], nil
	case 0:
		return "", fmt.Errorf("no plugin build found in %s", distDir)
	default:
		return "", fmt.Errorf("found %d plugin builds in %s, cannot determine the plugin id", len(dirs), distDir)
	}
}
