package main

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/jessevdk/go-flags"
	glog "github.com/labstack/gommon/log"

	"github.com/eringen/littlehouse"
	"github.com/eringen/littlehouse/views"
)

// version is set at build time via ldflags.
var version = "dev"

// siteOptions are shared by every command and may come from the environment.
type siteOptions struct {
	Name        string `long:"site-name" env:"SITE_NAME" description:"Site name"`
	URL         string `long:"site-url" env:"SITE_URL" description:"Canonical site URL (e.g. https://example.com)"`
	Description string `long:"site-description" env:"SITE_DESCRIPTION" description:"Site description for feeds and meta tags"`
	Author      string `long:"site-author" env:"SITE_AUTHOR" description:"Author name for feeds and JSON-LD"`

	Addr      string `long:"addr" env:"ADDR" default:":3000" description:"HTTP listen address"`
	PostsDir  string `long:"posts-dir" env:"POSTS_DIR" default:"content/posts" description:"Directory of markdown posts"`
	StaticDir string `long:"static-dir" env:"STATIC_DIR" default:"public" description:"Static assets served under /public"`

	AdminPassword     string `long:"admin-password" env:"ADMIN_PASSWORD" description:"Study passphrase"`
	AdminPasswordHash string `long:"admin-password-hash" env:"ADMIN_PASSWORD_HASH" description:"bcrypt hash of the study passphrase"`
	SessionSecret     string `long:"session-secret" env:"SESSION_SECRET" description:"Secret for sessions and auth tokens"`
	CookieSecure      bool   `long:"cookie-secure" env:"COOKIE_SECURE" description:"Mark cookies Secure (HTTPS only)"`

	Analytics              bool   `long:"analytics" env:"ANALYTICS_ENABLED" description:"Record page views"`
	AnalyticsDatabasePath  string `long:"analytics-db" env:"ANALYTICS_DATABASE_PATH" default:"data/analytics.db" description:"Analytics SQLite database"`
	AnalyticsRetentionDays int    `long:"analytics-retention-days" env:"ANALYTICS_RETENTION_DAYS" default:"365" description:"Days of visits to keep"`

	PostCacheTTL time.Duration `long:"post-cache-ttl" env:"POST_CACHE_TTL" default:"30s" description:"Published listing cache TTL (negative disables)"`
	Watch        bool          `long:"watch" env:"WATCH_CONTENT" description:"Invalidate the cache when posts change on disk"`
	Debug        bool          `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

var opts siteOptions

func (o siteOptions) config() littlehouse.SiteConfig {
	return littlehouse.SiteConfig{
		Site: littlehouse.Site{
			Name:        o.Name,
			URL:         o.URL,
			Description: o.Description,
			Author:      o.Author,
		},
		Addr:                   o.Addr,
		PostsDir:               o.PostsDir,
		StaticDir:              o.StaticDir,
		AdminPassword:          o.AdminPassword,
		AdminPasswordHash:      o.AdminPasswordHash,
		SessionSecret:          o.SessionSecret,
		CookieSecure:           o.CookieSecure,
		AnalyticsEnabled:       o.Analytics,
		AnalyticsDatabasePath:  o.AnalyticsDatabasePath,
		AnalyticsRetentionDays: o.AnalyticsRetentionDays,
		PostCacheTTL:           o.PostCacheTTL,
		WatchContent:           o.Watch,
	}
}

func (o siteOptions) newApp(cfg littlehouse.SiteConfig) *littlehouse.App {
	app := littlehouse.New(cfg, views.Funcs())
	if o.Debug {
		app.Echo.Debug = true
		app.Echo.Logger.SetLevel(glog.DEBUG)
	} else {
		app.Echo.Logger.SetLevel(glog.INFO)
	}
	return app
}

type serveCommand struct {
	ShutdownTimeout time.Duration `long:"shutdown-timeout" env:"SHUTDOWN_TIMEOUT" default:"10s" description:"Time allowed for in-flight requests on shutdown"`
}

func (c *serveCommand) Execute(args []string) error {
	app := opts.newApp(opts.config())
	if err := app.Setup(); err != nil {
		return err
	}
	defer app.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() { errc <- app.Start() }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	log.Printf("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), c.ShutdownTimeout)
	defer cancel()
	return app.Echo.Shutdown(shutdownCtx)
}

type exportCommand struct {
	Out string `long:"out" short:"o" env:"EXPORT_DIR" default:"dist" description:"Output directory"`
}

func (c *exportCommand) Execute(args []string) error {
	cfg := opts.config()
	// Nothing is signed during an export.
	cfg.SessionSecret = cmp.Or(cfg.SessionSecret, uuid.NewString())
	cfg.AnalyticsEnabled = false
	cfg.WatchContent = false

	app := opts.newApp(cfg)
	defer app.Close()
	if err := app.Export(c.Out); err != nil {
		return err
	}
	log.Printf("exported site to %s", c.Out)
	return nil
}

type versionCommand struct{}

func (versionCommand) Execute(args []string) error {
	fmt.Printf("littlehouse %s\n", version)
	return nil
}

func main() {
	parser := flags.NewParser(&opts, flags.Default)
	parser.ShortDescription = "A personal blog served from a directory of markdown files"

	mustAdd(parser, "serve", "Run the web server", "Serve the blog until SIGINT or SIGTERM.", &serveCommand{})
	mustAdd(parser, "export", "Write a static copy of the site", "Render every public page, feed and listing into a directory.", &exportCommand{})
	mustAdd(parser, "new-post", "Create a post", "Create a post from a file or standard input.", &newPostCommand{})
	mustAdd(parser, "hash-password", "Print a bcrypt hash", "Hash a passphrase for ADMIN_PASSWORD_HASH.", &hashPasswordCommand{})
	mustAdd(parser, "version", "Print the version", "Print the littlehouse version.", &versionCommand{})

	if _, err := parser.Parse(); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			return
		}
		// flags.Default prints every error, including those from commands.
		os.Exit(1)
	}
}

func mustAdd(p *flags.Parser, name, short, long string, data any) {
	if _, err := p.AddCommand(name, short, long, data); err != nil {
		log.Fatalf("register %s: %v", name, err)
	}
}
