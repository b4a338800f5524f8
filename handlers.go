package littlehouse

import (
	"cmp"
	"errors"
	"net/http"
	"path/filepath"
	"slices"

	"github.com/labstack/echo/v4"

	"github.com/eringen/littlehouse/content"
	"github.com/eringen/littlehouse/i18n"
)

const relatedPostCount = 3

// page builds the template metadata for the current request.
func (a *App) page(c echo.Context, title, description string) Page {
	path := c.Request().URL.Path
	l := Locale(c)
	if description == "" {
		description = a.Config.Description
	}
	return Page{
		Site:        a.Config.Site,
		Locale:      l,
		Path:        path,
		Title:       title,
		Description: description,
		URL:         a.Config.URL + i18n.AddPrefix(path, l),
		OGType:      "website",
		CSRFToken:   CsrfToken(c),
	}
}

func (a *App) handleHome(c echo.Context) error {
	all, err := a.Cache.ListPublished()
	if err != nil {
		return err
	}
	latest := all
	if n := a.Config.HomePostCount; len(latest) > n {
		latest = latest[:n]
	}
	return Render(c, a.Views.Home(a.page(c, "", ""), latest, content.Categories(all), content.Tags(all)))
}

func (a *App) handleBlogIndex(c echo.Context) error {
	posts, err := a.Cache.ListPublished()
	if err != nil {
		return err
	}
	return Render(c, a.Views.BlogIndex(a.page(c, "Blog", ""), posts))
}

func (a *App) handlePost(c echo.Context) error {
	post, err := a.Cache.GetPost(c.Param("slug"))
	if err != nil {
		if errors.Is(err, content.ErrNotFound) {
			return echo.ErrNotFound
		}
		return err
	}
	posts, err := a.Cache.ListPublished()
	if err != nil {
		return err
	}
	p := a.page(c, post.Title, post.Excerpt)
	p.OGType = "article"
	return Render(c, a.Views.Post(p, post, content.Related(post.PostMeta, posts, relatedPostCount)))
}

func (a *App) handleCategories(c echo.Context) error {
	posts, err := a.Cache.ListPublished()
	if err != nil {
		return err
	}
	return Render(c, a.Views.Categories(a.page(c, "Categories", ""), content.Categories(posts)))
}

func (a *App) handleCategory(c echo.Context) error {
	name, err := pathParam(c, "category")
	if err != nil {
		return err
	}
	all, err := a.Cache.ListPublished()
	if err != nil {
		return err
	}
	posts := content.FilterByCategory(all, name)
	if len(posts) == 0 {
		return echo.ErrNotFound
	}
	return Render(c, a.Views.Category(a.page(c, name, ""), name, posts))
}

func (a *App) handleTags(c echo.Context) error {
	posts, err := a.Cache.ListPublished()
	if err != nil {
		return err
	}
	return Render(c, a.Views.Tags(a.page(c, "Tags", ""), content.Tags(posts)))
}

func (a *App) handleTag(c echo.Context) error {
	name, err := pathParam(c, "tag")
	if err != nil {
		return err
	}
	all, err := a.Cache.ListPublished()
	if err != nil {
		return err
	}
	posts := content.FilterByTag(all, name)
	if len(posts) == 0 {
		return echo.ErrNotFound
	}
	return Render(c, a.Views.Tag(a.page(c, "#"+name, ""), name, posts))
}

func (a *App) handleAbout(c echo.Context) error {
	return Render(c, a.Views.About(a.page(c, "About", "")))
}

// handleAPIPosts serves the latest published posts, or all of them with
// ?all=true. total is always the number of published posts. Posts without
// an author are credited to the default author.
func (a *App) handleAPIPosts(c echo.Context) error {
	all, err := a.Cache.ListPublished()
	if err != nil {
		return jsonStoreError(c, err)
	}
	posts := all
	if c.QueryParam("all") != "true" && len(posts) > a.Config.HomePostCount {
		posts = posts[:a.Config.HomePostCount]
	}
	// posts aliases the cached listing.
	posts = slices.Clone(posts)
	for i := range posts {
		posts[i].Author = cmp.Or(posts[i].Author, a.Config.DefaultAuthor)
	}
	total := len(all)
	return c.JSON(http.StatusOK, apiResponse{Success: true, Data: posts, Total: &total})
}

func (a *App) handleSitemap(c echo.Context) error {
	posts, err := a.Cache.ListPublished()
	if err != nil {
		return err
	}
	return a.renderSitemap(c, posts)
}

func (a *App) handleFeed(c echo.Context) error {
	posts, err := a.Cache.ListPublished()
	if err != nil {
		return err
	}
	return a.renderRSS(c, posts)
}

func (a *App) handleAtom(c echo.Context) error {
	posts, err := a.Cache.ListPublished()
	if err != nil {
		return err
	}
	return a.renderAtom(c, posts)
}

func (a *App) handleFavicon(c echo.Context) error {
	return c.File(filepath.Join(a.Config.StaticDir, "favicon.svg"))
}

// handleRobots serves the static robots.txt when there is one, otherwise a
// default pointing crawlers at the sitemap and away from the desk.
func (a *App) handleRobots(c echo.Context) error {
	path := filepath.Join(a.Config.StaticDir, "robots.txt")
	if fileExists(path) {
		return c.File(path)
	}
	body := "User-agent: *\nAllow: /\nDisallow: /study/\nDisallow: /api/study/\n\nSitemap: " +
		a.Config.URL + "/sitemap.xml\n"
	return c.String(http.StatusOK, body)
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	he, ok := err.(*echo.HTTPError)
	if ok && he.Code == http.StatusNotFound && !isAssetPath(c.Request().URL.Path) {
		_ = RenderStatus(c, http.StatusNotFound, a.Views.NotFound(a.page(c, "404", "")))
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		c.Logger().Errorf("server error: %v", err)
		_ = RenderStatus(c, code, a.Views.ServerError(a.page(c, "500", "")))
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}
