// Package git provides the small set of git interactions the publish task
// needs: parsing the CI remote URL into owner/name and resolving the release
// branch into a checkout step.
package git

import (
	"fmt"
	"regexp"
)

// Repo identifies a hosted repository.
type Repo struct {
	Owner string
	Name  string
}

var (
	sshRemote = regexp.MustCompile(`^git@[^:/]+:(.*?)/(.*?)\.git`)
	// Accepts both the standard https remote (…/owner/repo.git) and the
	// legacy spelling with a slash before .git (…/owner/repo/.git) that
	// some CI providers hand out.
	httpsRemote = regexp.MustCompile(`^https://[^/]+/(.*?)/(.*?)/?\.git`)
)

// ParseRemoteURL extracts owner and repository name from a git remote URL in
// SSH form (git@host:owner/repo.git) or HTTPS form
// (https://host/owner/repo.git). Any other shape yields a *URLParseError.
func ParseRemoteURL(remote string) (Repo, error) {
	for _, pattern := range []*regexp.Regexp{sshRemote, httpsRemote} {
		if m := pattern.FindStringSubmatch(remote); len(m) > 2 {
			return Repo{Owner: m[1], Name: m[2]}, nil
		}
	}
	return Repo{}, &URLParseError{URL: remote}
}

// URLParseError reports a remote URL that matches neither supported form.
type URLParseError struct {
	URL string
}

func (e *URLParseError) Error() string {
	return fmt.Sprintf("could not find a suitable git repository in %q (expected git@host:owner/repo.git or https://host/owner/repo.git)", e.URL)
}
