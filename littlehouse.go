// Package littlehouse is a personal blog served from a directory of markdown
// files, built with Go, Echo, and templ.
//
// Posts live on disk as markdown with YAML front matter (see package
// content). The App adds public pages in two locales, RSS/Atom feeds, a JSON
// listing, a password-gated writing desk for authoring, cover-image uploads,
// server-side analytics and a static export.
//
// Users provide their own templ templates via the ViewFuncs struct;
// package views ships a default set.
package littlehouse

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"

	"github.com/eringen/littlehouse/analytics"
	"github.com/eringen/littlehouse/content"
)

// ViewFuncs holds the templ components the App renders pages with.
type ViewFuncs struct {
	Home        func(p Page, posts []content.PostMeta, categories, tags []content.Count) templ.Component
	BlogIndex   func(p Page, posts []content.PostMeta) templ.Component
	Post        func(p Page, post content.Post, related []content.PostMeta) templ.Component
	Categories  func(p Page, categories []content.Count) templ.Component
	Category    func(p Page, category string, posts []content.PostMeta) templ.Component
	Tags        func(p Page, tags []content.Count) templ.Component
	Tag         func(p Page, tag string, posts []content.PostMeta) templ.Component
	About       func(p Page) templ.Component
	StudyLogin  func(p Page, showError bool) templ.Component
	StudyDesk   func(p Page, posts []content.PostMeta, images []Image) templ.Component
	NotFound    func(p Page) templ.Component
	ServerError func(p Page) templ.Component
}

// App wires together the post store, cache, handlers, middleware, and
// user-provided templates.
type App struct {
	Config SiteConfig
	Echo   *echo.Echo
	Store  *content.Store
	Cache  *PostCache
	Views  ViewFuncs

	loginLimiter   *LoginLimiter
	analyticsStore *analytics.Store
	customRoutes   []func(*App)
	now            func() time.Time
	closers        []func()
	ready          bool
}

// New creates an App with the given configuration and view functions.
func New(cfg SiteConfig, views ViewFuncs, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config: cfg,
		Echo:   echo.New(),
		Views:  views,
		now:    time.Now,
	}
	a.Echo.HideBanner = true

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Setup opens the store, cache and analytics database and registers the
// middleware and routes. Start calls it; tests and Export call it directly.
// Calling it again is a no-op.
func (a *App) Setup() error {
	if a.ready {
		return nil
	}
	if a.Config.SessionSecret == "" {
		return errors.New("littlehouse: SessionSecret is required")
	}

	a.Store = content.NewStore(a.Config.PostsDir,
		content.WithLogger(a.Echo.Logger),
		content.WithClock(a.now),
		content.WithReadDefaults(content.Defaults{Category: a.Config.ReadCategory}),
		content.WithWriteDefaults(content.Defaults{
			Category: a.Config.WriteCategory,
			Author:   a.Config.DefaultAuthor,
		}),
	)
	a.Cache = NewPostCache(a.Store, a.Config.PostCacheTTL)
	a.loginLimiter = NewLoginLimiter(5, time.Minute)
	a.closers = append(a.closers, a.loginLimiter.Stop)

	if a.Config.WatchContent {
		stop, err := a.watchContent(time.Second)
		if err != nil {
			return fmt.Errorf("littlehouse: watch %s: %w", a.Config.PostsDir, err)
		}
		a.closers = append(a.closers, stop)
	}

	if a.Config.AnalyticsEnabled {
		store, err := analytics.NewStore(a.Config.AnalyticsDatabasePath)
		if err != nil {
			return fmt.Errorf("littlehouse: init analytics: %w", err)
		}
		a.analyticsStore = store
		if err := analytics.InitSalt(store); err != nil {
			return fmt.Errorf("littlehouse: init analytics salt: %w", err)
		}
		stop := store.StartCleanupScheduler(a.Config.AnalyticsRetentionDays, 24*time.Hour)
		a.closers = append(a.closers, stop)
	}

	a.setupMiddleware()
	a.setupRoutes()

	for _, fn := range a.customRoutes {
		fn(a)
	}

	a.ready = true
	return nil
}

// Start sets the App up and listens on Config.Addr until the server is
// shut down.
func (a *App) Start() error {
	if err := a.Setup(); err != nil {
		return err
	}
	if a.Config.AdminPassword == "" && a.Config.AdminPasswordHash == "" {
		a.Echo.Logger.Warn("no study password configured; authoring is disabled")
	}
	if err := a.Echo.Start(a.Config.Addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (a *App) setupRoutes() {
	e := a.Echo

	e.Static("/public", a.Config.StaticDir)
	e.GET("/favicon.svg", a.handleFavicon)
	e.GET("/robots.txt", a.handleRobots)
	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/feed.xml", a.handleFeed)
	e.GET("/atom.xml", a.handleAtom)

	// Public pages; locale prefixes are stripped before routing.
	e.GET("/", a.handleHome)
	e.GET("/blog/", a.handleBlogIndex)
	e.GET("/blog/:slug/", a.handlePost)
	e.GET("/category/", a.handleCategories)
	e.GET("/category/:category/", a.handleCategory)
	e.GET("/tag/", a.handleTags)
	e.GET("/tag/:tag/", a.handleTag)
	e.GET("/about/", a.handleAbout)

	e.GET("/api/posts", a.handleAPIPosts)

	// Writing desk
	e.GET("/study/", a.handleStudy)
	e.POST("/api/study/login", a.handleStudyLogin)
	e.POST("/api/study/logout", a.handleStudyLogout)

	study := e.Group("/api/study", a.requireAuthor)
	study.GET("/posts", a.handleStudyPosts)
	study.POST("/posts", a.handleStudyCreate)
	study.PUT("/posts", a.handleStudyUpdate)
	study.DELETE("/posts", a.handleStudyDelete)
	study.GET("/images", a.handleImageList)
	study.POST("/images", a.handleImageUpload)
	study.DELETE("/images/:filename", a.handleImageDelete)
	study.GET("/stats", a.handleStudyStats)
}

// Close stops background work and closes the analytics database.
func (a *App) Close() error {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
	if a.analyticsStore != nil {
		if err := a.analyticsStore.Close(); err != nil {
			return err
		}
		a.analyticsStore = nil
	}
	return nil
}
