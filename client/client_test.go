package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingServer answers every request with a canned JSON body and counts
// requests per method and path.
type countingServer struct {
	mu     sync.Mutex
	hits   map[string]int
	status map[string]int
}

func newCountingServer(t *testing.T) (*countingServer, *Client) {
	t.Helper()
	cs := &countingServer{hits: map[string]int{}, status: map[string]int{}}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Method + " " + r.URL.Path
		cs.mu.Lock()
		cs.hits[key]++
		code := cs.status[key]
		cs.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		if code != 0 {
			w.WriteHeader(code)
			json.NewEncoder(w).Encode(map[string]any{
				"message": "Invalid project data",
				"errors":  []FieldError{{Field: "title", Message: "title is required"}},
			})
			return
		}
		switch {
		case r.Method == http.MethodPost && r.URL.Path == PathProjects:
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(`{"id":"p-new","title":"New"}`))
		case r.Method == http.MethodGet && (r.URL.Path == PathProjects || r.URL.Path == PathFeaturedProjects ||
			r.URL.Path == PathBlogs || r.URL.Path == PathAllBlogs || r.URL.Path == PathMessages):
			w.Write([]byte(`[]`))
		case r.Method == http.MethodGet && r.URL.Path == PathStats:
			w.Write([]byte(`{"projects":1,"blogs":0,"messages":0,"unreadMessages":0,"cards":[]}`))
		case r.Method == http.MethodGet:
			w.Write([]byte(`{"id":"x"}`))
		default:
			w.Write([]byte(`{"success":true,"message":"ok"}`))
		}
	}))
	t.Cleanup(srv.Close)

	c, err := New(srv.URL)
	require.NoError(t, err)
	return cs, c
}

func (cs *countingServer) count(key string) int {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	return cs.hits[key]
}

func (cs *countingServer) fail(key string, code int) {
	cs.mu.Lock()
	cs.status[key] = code
	cs.mu.Unlock()
}

// warm fetches every cacheable path once.
func warm(t *testing.T, c *Client) {
	t.Helper()
	ctx := context.Background()
	_, err := c.Projects(ctx)
	require.NoError(t, err)
	_, err = c.FeaturedProjects(ctx)
	require.NoError(t, err)
	_, err = c.Project(ctx, "p1")
	require.NoError(t, err)
	_, err = c.PublishedBlogs(ctx)
	require.NoError(t, err)
	_, err = c.AllBlogs(ctx)
	require.NoError(t, err)
	_, err = c.Blog(ctx, "b1")
	require.NoError(t, err)
	_, err = c.Messages(ctx)
	require.NoError(t, err)
	_, err = c.Stats(ctx)
	require.NoError(t, err)
}

func TestGetIsCachedByPath(t *testing.T) {
	cs, c := newCountingServer(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := c.Projects(ctx)
		require.NoError(t, err)
	}
	assert.Equal(t, 1, cs.count("GET "+PathProjects))
	assert.True(t, c.Cached(PathProjects))
}

func TestProjectMutationInvalidatesProjectPaths(t *testing.T) {
	_, c := newCountingServer(t)
	warm(t, c)

	_, err := c.UpdateProject(context.Background(), "p1", ProjectInput{Title: Ptr("Renamed")})
	require.NoError(t, err)

	for _, p := range []string{PathProjects, PathFeaturedProjects, "/api/projects/p1", PathStats} {
		assert.False(t, c.Cached(p), "expected %s to be invalidated", p)
	}
	for _, p := range []string{PathBlogs, PathAllBlogs, "/api/blogs/b1", PathMessages} {
		assert.True(t, c.Cached(p), "expected %s to stay cached", p)
	}
}

func TestBlogMutationInvalidatesBlogPaths(t *testing.T) {
	_, c := newCountingServer(t)
	warm(t, c)

	require.NoError(t, c.DeleteBlog(context.Background(), "b1"))

	for _, p := range []string{PathBlogs, PathAllBlogs, "/api/blogs/b1", PathStats} {
		assert.False(t, c.Cached(p), "expected %s to be invalidated", p)
	}
	for _, p := range []string{PathProjects, PathFeaturedProjects, "/api/projects/p1", PathMessages} {
		assert.True(t, c.Cached(p), "expected %s to stay cached", p)
	}
}

func TestMessageMutationInvalidatesMessagePaths(t *testing.T) {
	_, c := newCountingServer(t)
	warm(t, c)

	require.NoError(t, c.MarkMessageRead(context.Background(), "m1"))

	assert.False(t, c.Cached(PathMessages))
	assert.False(t, c.Cached(PathStats))
	assert.True(t, c.Cached(PathProjects))
	assert.True(t, c.Cached(PathBlogs))
}

func TestCreateInvalidatesNewRecordPath(t *testing.T) {
	_, c := newCountingServer(t)
	warm(t, c)

	p, err := c.CreateProject(context.Background(), ProjectInput{Title: Ptr("New"), Description: Ptr("d")})
	require.NoError(t, err)
	assert.Equal(t, "p-new", p.ID)
	assert.False(t, c.Cached(PathProjects))
	assert.False(t, c.Cached(PathStats))
}

func TestLoginAndLogoutClearWholeCache(t *testing.T) {
	_, c := newCountingServer(t)
	ctx := context.Background()

	warm(t, c)
	require.NoError(t, c.Login(ctx, "admin", "admin123"))
	assert.False(t, c.Cached(PathProjects))
	assert.False(t, c.Cached(PathMessages))

	warm(t, c)
	require.NoError(t, c.Logout(ctx))
	assert.False(t, c.Cached(PathBlogs))
	assert.False(t, c.Cached(PathStats))
}

func TestFailedMutationKeepsCache(t *testing.T) {
	cs, c := newCountingServer(t)
	warm(t, c)
	cs.fail("PUT /api/projects/p1", http.StatusBadRequest)

	_, err := c.UpdateProject(context.Background(), "p1", ProjectInput{Title: Ptr("")})
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "Invalid project data", apiErr.Message)
	require.Len(t, apiErr.Errors, 1)
	assert.Equal(t, "title", apiErr.Errors[0].Field)

	assert.True(t, c.Cached(PathProjects))
	assert.True(t, c.Cached(PathStats))
}

func TestFailedGetIsNotCached(t *testing.T) {
	cs, c := newCountingServer(t)
	cs.fail("GET "+PathStats, http.StatusUnauthorized)

	_, err := c.Stats(context.Background())
	require.Error(t, err)
	assert.False(t, c.Cached(PathStats))
}

func TestInvalidationsContract(t *testing.T) {
	assert.ElementsMatch(t,
		[]string{"/api/projects", "/api/projects/featured", "/api/projects/42", "/api/admin/stats"},
		Invalidations.Project("42"))
	assert.ElementsMatch(t,
		[]string{"/api/blogs", "/api/blogs/all", "/api/blogs/42", "/api/admin/stats"},
		Invalidations.Blog("42"))
	assert.ElementsMatch(t,
		[]string{"/api/messages", "/api/admin/stats"},
		Invalidations.Message())
}
