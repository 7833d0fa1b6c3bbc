/*
Package grafana houses plugin-publish, the release-automation tool that turns
a CI-built Grafana plugin into a published GitHub release.

Publishing walks a fixed script: configure the git committer identity, switch
to the release-<version> branch, swap the dist/ directory for the freshly
built plugin, commit and force-push the branch and the v<version> tag, then
create (or replace) the GitHub release with notes extracted from
CHANGELOG.md. Steps are data, so dry-run flag injection, enterprise-only
gating and tolerated "nothing to commit" failures apply uniformly, and tests
can assert the exact command sequence without spawning processes.

# Usage

The tool expects to run inside a CircleCI job with CIRCLE_REPOSITORY_URL and
GITHUB_TOKEN set, from the plugin repository root:

	plugin-publish release
	plugin-publish release --dry-run --verbose
	plugin-publish release --commit-hash 8c2a743

An optional publish.yaml next to the plugin overrides the committer identity,
the changelog location and the GitHub API base URL.
*/
package grafana
