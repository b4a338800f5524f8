package littlehouse

import (
	"fmt"
	"sync"
	"time"

	"github.com/eringen/littlehouse/content"
)

// PostCache is an in-memory copy of the published listing with a TTL.
// Bodies are never cached; single posts are read from disk.
type PostCache struct {
	mu      sync.RWMutex
	posts   []content.PostMeta
	fetched time.Time
	ttl     time.Duration
	store   *content.Store
}

// NewPostCache creates a PostCache backed by the given Store. A negative
// ttl disables caching.
func NewPostCache(s *content.Store, ttl time.Duration) *PostCache {
	return &PostCache{store: s, ttl: ttl}
}

func (c *PostCache) valid() bool {
	return c.posts != nil && c.ttl >= 0 && time.Since(c.fetched) < c.ttl
}

// Invalidate clears the cache so the next read triggers a fresh load.
func (c *PostCache) Invalidate() {
	c.mu.Lock()
	c.posts = nil
	c.mu.Unlock()
}

// ListPublished returns every published post, newest first. Callers must
// not modify the returned slice.
func (c *PostCache) ListPublished() ([]content.PostMeta, error) {
	c.mu.RLock()
	if c.valid() {
		posts := c.posts
		c.mu.RUnlock()
		return posts, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.valid() {
		return c.posts, nil
	}
	posts, err := c.store.ListPublished(0)
	if err != nil {
		return nil, fmt.Errorf("list published: %w", err)
	}
	c.posts = posts
	c.fetched = time.Now()
	return posts, nil
}

// Latest returns at most n published posts.
func (c *PostCache) Latest(n int) ([]content.PostMeta, error) {
	posts, err := c.ListPublished()
	if err != nil {
		return nil, err
	}
	if n > 0 && len(posts) > n {
		posts = posts[:n]
	}
	return posts, nil
}

// GetPost returns a published post by slug. Drafts are reported as
// content.ErrNotFound.
func (c *PostCache) GetPost(slug string) (content.Post, error) {
	post, err := c.store.GetBySlug(slug)
	if err != nil {
		return content.Post{}, err
	}
	if !post.Published {
		return content.Post{}, fmt.Errorf("%w: %s", content.ErrNotFound, slug)
	}
	return post, nil
}
