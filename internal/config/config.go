// Package config assembles everything the publish task needs from the
// environment and an optional publish.yaml next to the plugin. It is read
// once at startup; the rest of the program receives plain values.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	defaultCommitterEmail = "eng@grafana.com"
	defaultCommitterName  = "Grafana"
	defaultChangelogPath  = "CHANGELOG.md"
)

// Config carries the resolved publish settings.
type Config struct {
	// RepositoryURL is the git remote the release is pushed to, taken from
	// CIRCLE_REPOSITORY_URL.
	RepositoryURL string
	// Token authenticates GitHub API calls, taken from GITHUB_TOKEN.
	Token string
	// Committer identifies the automated release commits.
	Committer Committer
	// ChangelogPath points at the changelog, relative to the plugin root
	// unless absolute.
	ChangelogPath string
	// APIBaseURL overrides the GitHub API endpoint, mainly for tests and
	// GitHub Enterprise installs. Empty means api.github.com.
	APIBaseURL string
}

// Committer is the git identity used for release commits.
type Committer struct {
	Email string `yaml:"email" json:"email"`
	Name  string `yaml:"name" json:"name"`
}

// MissingVarError reports a required environment variable that is not set.
type MissingVarError struct {
	Name string
	Hint string
}

func (e *MissingVarError) Error() string {
	if e.Hint == "" {
		return fmt.Sprintf("%s environment variable is not set", e.Name)
	}
	return fmt.Sprintf("%s environment variable is not set. %s", e.Name, e.Hint)
}

// fileConfig is the shape of an optional publish.yaml or publish.json.
type fileConfig struct {
	Committer  Committer `yaml:"committer" json:"committer"`
	Changelog  string    `yaml:"changelog" json:"changelog"`
	APIBaseURL string    `yaml:"apiBaseUrl" json:"apiBaseUrl"`
}

// Load reads the required environment variables and merges in an optional
// publish.yaml (or publish.json) found in dir. A missing file is fine;
// missing environment is not.
func Load(dir string) (*Config, error) {
	repoURL := os.Getenv("CIRCLE_REPOSITORY_URL")
	if repoURL == "" {
		return nil, &MissingVarError{
			Name: "CIRCLE_REPOSITORY_URL",
			Hint: "It should contain the git remote URL of the plugin repository and is provided by CircleCI jobs.",
		}
	}

	token := os.Getenv("GITHUB_TOKEN")
	if token == "" {
		return nil, &MissingVarError{
			Name: "GITHUB_TOKEN",
			Hint: "Create a personal access token with access to the plugin repository. See: https://github.com/settings/tokens",
		}
	}

	cfg := &Config{
		RepositoryURL: repoURL,
		Token:         token,
		Committer: Committer{
			Email: defaultCommitterEmail,
			Name:  defaultCommitterName,
		},
		ChangelogPath: defaultChangelogPath,
	}

	if err := applyFile(cfg, dir); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyFile overlays the first publish config file found in dir onto cfg.
func applyFile(cfg *Config, dir string) error {
	for _, name := range []string{"publish.yaml", "publish.json"} {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to read publish config: %w", err)
		}

		var fc fileConfig
		if strings.ToLower(filepath.Ext(path)) == ".json" {
			if err := json.Unmarshal(data, &fc); err != nil {
				return fmt.Errorf("failed to parse %s: %w", path, err)
			}
		} else {
			if err := yaml.Unmarshal(data, &fc); err != nil {
				return fmt.Errorf("failed to parse %s: %w", path, err)
			}
		}

		if fc.Committer.Email != "" {
			cfg.Committer.Email = fc.Committer.Email
		}
		if fc.Committer.Name != "" {
			cfg.Committer.Name = fc.Committer.Name
		}
		if fc.Changelog != "" {
			cfg.ChangelogPath = fc.Changelog
		}
		if fc.APIBaseURL != "" {
			cfg.APIBaseURL = fc.APIBaseURL
		}
		return nil
	}
	return nil
}
