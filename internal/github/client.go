// Package github publishes plugin releases through the GitHub REST API.
package github

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	gogithub "github.com/google/go-github/v58/github"

	"github.com/nathanwebsterdotme/grafana/internal/git"
	"github.com/nathanwebsterdotme/grafana/internal/logging"
)

// Client creates GitHub releases for a plugin repository. An existing
// release for the same tag is replaced, so re-running a publish is safe.
type Client struct {
	gh         *gogithub.Client
	repo       git.Repo
	notes      string
	commitHash string
	baseURL    string
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at a different API endpoint, e.g. a test
// server or a GitHub Enterprise install. A missing trailing slash is added.
func WithBaseURL(rawURL string) Option {
	return func(c *Client) {
		c.baseURL = rawURL
	}
}

// WithLogger sets the logger used for release diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient builds a release client for repo. notes become the release body;
// commitHash, when non-empty, is the commit the release tag points at.
func NewClient(token string, repo git.Repo, notes, commitHash string, opts ...Option) (*Client, error) {
	c := &Client{
		gh:         gogithub.NewClient(nil).WithAuthToken(token),
		repo:       repo,
		notes:      notes,
		commitHash: commitHash,
		logger:     logging.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.baseURL != "" {
		u, err := url.Parse(c.baseURL)
		if err != nil {
			return nil, fmt.Errorf("invalid GitHub API base URL %q: %w", c.baseURL, err)
		}
		if !strings.HasSuffix(u.Path, "/") {
			u.Path += "/"
		}
		c.gh.BaseURL = u
	}
	return c, nil
}

// Release publishes version as tag v<version>. A release already attached to
// the tag is deleted first; anything else on the API path is an error.
func (c *Client) Release(ctx context.Context, version string) error {
	tag := "v" + version

	existing, resp, err := c.gh.Repositories.GetReleaseByTag(ctx, c.repo.Owner, c.repo.Name, tag)
	switch {
	case err == nil:
		c.logger.Debug("replacing existing release", "tag", tag, "id", existing.GetID())
		if _, err := c.gh.Repositories.DeleteRelease(ctx, c.repo.Owner, c.repo.Name, existing.GetID()); err != nil {
			return fmt.Errorf("failed to delete existing release %s: %w", tag, err)
		}
	case resp != nil && resp.StatusCode == http.StatusNotFound:
		// First release for this tag.
	default:
		return fmt.Errorf("failed to look up release %s: %w", tag, err)
	}

	release := &gogithub.RepositoryRelease{
		TagName:    gogithub.String(tag),
		Name:       gogithub.String(tag),
		Body:       gogithub.String(c.notes),
		Draft:      gogithub.Bool(false),
		Prerelease: gogithub.Bool(false),
	}
	if c.commitHash != "" {
		release.TargetCommitish = gogithub.String(c.commitHash)
	}

	created, _, err := c.gh.Repositories.CreateRelease(ctx, c.repo.Owner, c.repo.Name, release)
	if err != nil {
		return fmt.Errorf("failed to create release %s: %w", tag, err)
	}
	c.logger.Debug("release created", "tag", tag, "id", created.GetID(), "url", created.GetHTMLURL())
	return nil
}
