package github

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nathanwebsterdotme/grafana/internal/git"
)

// fakeGitHub serves the three release endpoints the client touches.
type fakeGitHub struct {
	mu          sync.Mutex
	existingID  int64 // 0 means no release exists for the tag yet
	failLookup  bool
	failDelete  bool
	failCreate  bool
	deleted     []int64
	created     []map[string]any
	authHeaders []string
}

func (f *fakeGitHub) handler() http.Handler {
	r := chi.NewRouter()
	r.Get("/repos/{owner}/{repo}/releases/tags/{tag}", f.getReleaseByTag)
	r.Delete("/repos/{owner}/{repo}/releases/{id}", f.deleteRelease)
	r.Post("/repos/{owner}/{repo}/releases", f.createRelease)
	return r
}

func (f *fakeGitHub) getReleaseByTag(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.authHeaders = append(f.authHeaders, r.Header.Get("Authorization"))
	w.Header().Set("Content-Type", "application/json")
	switch {
	case f.failLookup:
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, `{"message": "boom"}`)
	case f.existingID == 0:
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"message": "Not Found"}`)
	default:
		fmt.Fprintf(w, `{"id": %d, "tag_name": %q}`, f.existingID, chi.URLParam(r, "tag"))
	}
}

func (f *fakeGitHub) deleteRelease(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failDelete {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	f.deleted = append(f.deleted, id)
	w.WriteHeader(http.StatusNoContent)
}

func (f *fakeGitHub) createRelease(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if f.failCreate {
		w.WriteHeader(http.StatusUnprocessableEntity)
		fmt.Fprint(w, `{"message": "Validation Failed"}`)
		return
	}

	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	f.created = append(f.created, body)
	w.WriteHeader(http.StatusCreated)
	fmt.Fprint(w, `{"id": 210, "html_url": "https://github.com/grafana/clock-panel/releases/tag/v2.1.0"}`)
}

func (f *fakeGitHub) createdReleases() []map[string]any {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.created
}

func (f *fakeGitHub) deletedIDs() []int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.deleted
}

func (f *fakeGitHub) seenAuthHeaders() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.authHeaders
}

func newTestClient(t *testing.T, f *fakeGitHub, notes, commitHash string) *Client {
	t.Helper()

	srv := httptest.NewServer(f.handler())
	t.Cleanup(srv.Close)

	c, err := NewClient("ghp_testtoken", git.Repo{Owner: "grafana", Name: "clock-panel"}, notes, commitHash,
		WithBaseURL(srv.URL))
	require.NoError(t, err)
	return c
}

func TestRelease_CreatesNewRelease(t *testing.T) {
	f := &fakeGitHub{}
	c := newTestClient(t, f, "- Initial release", "")

	require.NoError(t, c.Release(context.Background(), "2.1.0"))

	created := f.createdReleases()
	require.Len(t, created, 1)
	rel := created[0]
	assert.Equal(t, "v2.1.0", rel["tag_name"])
	assert.Equal(t, "v2.1.0", rel["name"])
	assert.Equal(t, "- Initial release", rel["body"])
	assert.Equal(t, false, rel["draft"])
	assert.Equal(t, false, rel["prerelease"])
	assert.NotContains(t, rel, "target_commitish")
	assert.Empty(t, f.deletedIDs(), "nothing to delete on a first release")
}

func TestRelease_ReplacesExistingRelease(t *testing.T) {
	f := &fakeGitHub{existingID: 117}
	c := newTestClient(t, f, "- Fixed the clock drift", "")

	require.NoError(t, c.Release(context.Background(), "2.1.1"))

	assert.Equal(t, []int64{117}, f.deletedIDs())
	require.Len(t, f.createdReleases(), 1)
}

func TestRelease_PinsCommitHash(t *testing.T) {
	f := &fakeGitHub{}
	c := newTestClient(t, f, "notes", "8c2a743b1d")

	require.NoError(t, c.Release(context.Background(), "2.1.0"))

	created := f.createdReleases()
	require.Len(t, created, 1)
	assert.Equal(t, "8c2a743b1d", created[0]["target_commitish"])
}

func TestRelease_LookupFailure(t *testing.T) {
	f := &fakeGitHub{failLookup: true}
	c := newTestClient(t, f, "notes", "")

	err := c.Release(context.Background(), "2.1.0")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to look up release v2.1.0")
	assert.Empty(t, f.createdReleases())
}

func TestRelease_DeleteFailure(t *testing.T) {
	f := &fakeGitHub{existingID: 9, failDelete: true}
	c := newTestClient(t, f, "notes", "")

	err := c.Release(context.Background(), "2.1.0")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to delete existing release v2.1.0")
	assert.Empty(t, f.createdReleases())
}

func TestRelease_CreateFailure(t *testing.T) {
	f := &fakeGitHub{failCreate: true}
	c := newTestClient(t, f, "notes", "")

	err := c.Release(context.Background(), "2.1.0")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create release v2.1.0")
}

func TestRelease_SendsAuthToken(t *testing.T) {
	f := &fakeGitHub{}
	c := newTestClient(t, f, "notes", "")

	require.NoError(t, c.Release(context.Background(), "2.1.0"))

	headers := f.seenAuthHeaders()
	require.NotEmpty(t, headers)
	assert.Equal(t, "Bearer ghp_testtoken", headers[0])
}

func TestNewClient_InvalidBaseURL(t *testing.T) {
	_, err := NewClient("tok", git.Repo{Owner: "grafana", Name: "clock-panel"}, "", "",
		WithBaseURL("://not-a-url"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid GitHub API base URL")
}
