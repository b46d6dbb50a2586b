package portfolio

import (
	"context"
	"sync"
	"time"

	"github.com/eringen/portfolio/models"
)

type listSource interface {
	ListProjects(ctx context.Context, featuredOnly bool) ([]models.Project, error)
	ListBlogs(ctx context.Context, publishedOnly bool) ([]models.Blog, error)
}

// ListCache is an in-memory TTL cache of the public project and blog lists.
// Every project or blog mutation must call Invalidate.
type ListCache struct {
	mu       sync.RWMutex
	projects []models.Project
	blogs    []models.Blog
	fetched  time.Time
	ttl      time.Duration
	source   listSource
}

// NewListCache creates a ListCache backed by source.
func NewListCache(source listSource, ttl time.Duration) *ListCache {
	return &ListCache{source: source, ttl: ttl}
}

func (c *ListCache) valid() bool {
	return c.projects != nil && c.blogs != nil && time.Since(c.fetched) < c.ttl
}

// Invalidate clears the cache so the next read triggers a fresh load.
func (c *ListCache) Invalidate() {
	c.mu.Lock()
	c.projects = nil
	c.blogs = nil
	c.mu.Unlock()
}

func (c *ListCache) load(ctx context.Context) error {
	if c.valid() {
		return nil
	}
	projects, err := c.source.ListProjects(ctx, false)
	if err != nil {
		return err
	}
	blogs, err := c.source.ListBlogs(ctx, true)
	if err != nil {
		return err
	}
	c.projects = projects
	c.blogs = blogs
	c.fetched = time.Now()
	return nil
}

// ensureLoaded returns the cached lists, reloading them under the write lock
// only when they are stale.
func (c *ListCache) ensureLoaded(ctx context.Context) ([]models.Project, []models.Blog, error) {
	c.mu.RLock()
	if c.valid() {
		projects, blogs := c.projects, c.blogs
		c.mu.RUnlock()
		return projects, blogs, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.load(ctx); err != nil {
		return nil, nil, err
	}
	return c.projects, c.blogs, nil
}

// Projects returns every project, newest first.
func (c *ListCache) Projects(ctx context.Context) ([]models.Project, error) {
	projects, _, err := c.ensureLoaded(ctx)
	return projects, err
}

// FeaturedProjects returns the featured subset of Projects in the same order.
func (c *ListCache) FeaturedProjects(ctx context.Context) ([]models.Project, error) {
	projects, _, err := c.ensureLoaded(ctx)
	if err != nil {
		return nil, err
	}
	featured := make([]models.Project, 0, len(projects))
	for _, p := range projects {
		if p.Featured {
			featured = append(featured, p)
		}
	}
	return featured, nil
}

// PublishedBlogs returns published posts, newest first.
func (c *ListCache) PublishedBlogs(ctx context.Context) ([]models.Blog, error) {
	_, blogs, err := c.ensureLoaded(ctx)
	return blogs, err
}

// PublishedBlog returns a published post by id from the cache.
func (c *ListCache) PublishedBlog(ctx context.Context, id string) (models.Blog, error) {
	_, blogs, err := c.ensureLoaded(ctx)
	if err != nil {
		return models.Blog{}, err
	}
	for _, b := range blogs {
		if b.ID == id {
			return b, nil
		}
	}
	return models.Blog{}, ErrNotFound
}
