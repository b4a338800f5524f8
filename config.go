package littlehouse

import (
	"strings"
	"time"
)

// Site is the public identity of the blog, safe to hand to templates.
type Site struct {
	Name        string // Site name (default "My Little House")
	URL         string // Canonical URL (default "http://localhost:3000")
	Description string // Site description for feeds and meta tags
	Author      string // Author name for feeds and JSON-LD
}

// SiteConfig holds all configuration for a littlehouse site.
type SiteConfig struct {
	Site

	Addr      string // Listen address (default ":3000")
	PostsDir  string // Markdown posts directory (default "content/posts")
	StaticDir string // Static assets served under /public (default "public")

	// Metadata applied when a post file omits it, and when an author does.
	ReadCategory  string // default "Uncategorized"
	WriteCategory string // default "日常记录"
	DefaultAuthor string // default "小屋主人"

	HomePostCount int // Posts on the home page and in /api/posts (default 5)

	AnalyticsEnabled       bool   // Record page views
	AnalyticsDatabasePath  string // Analytics SQLite path (default "data/analytics.db")
	AnalyticsRetentionDays int    // Days of visits kept (default 365)

	AdminPassword     string // Study passphrase, compared in constant time
	AdminPasswordHash string // bcrypt hash; takes precedence over AdminPassword
	SessionSecret     string // Required: session and token signing secret
	CookieSecure      bool   // Set true for HTTPS

	AuthTTL      time.Duration // Lifetime of a study login (default 24h)
	PostCacheTTL time.Duration // Published listing cache TTL (default 30s, negative disables)
	WatchContent bool          // Invalidate the cache when PostsDir changes on disk
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "My Little House"
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	c.URL = strings.TrimSuffix(c.URL, "/")
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.PostsDir == "" {
		c.PostsDir = "content/posts"
	}
	if c.StaticDir == "" {
		c.StaticDir = "public"
	}
	if c.ReadCategory == "" {
		c.ReadCategory = "Uncategorized"
	}
	if c.WriteCategory == "" {
		c.WriteCategory = "日常记录"
	}
	if c.DefaultAuthor == "" {
		c.DefaultAuthor = "小屋主人"
	}
	if c.HomePostCount == 0 {
		c.HomePostCount = 5
	}
	if c.AnalyticsDatabasePath == "" {
		c.AnalyticsDatabasePath = "data/analytics.db"
	}
	if c.AnalyticsRetentionDays == 0 {
		c.AnalyticsRetentionDays = 365
	}
	if c.AuthTTL == 0 {
		c.AuthTTL = 24 * time.Hour
	}
	if c.PostCacheTTL == 0 {
		c.PostCacheTTL = 30 * time.Second
	}
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback receives the App after the built-in routes are set up.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithClock replaces time.Now for token checks and new posts.
func WithClock(now func() time.Time) Option {
	return func(a *App) {
		a.now = now
	}
}
