package littlehouse

import (
	"encoding/xml"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/eringen/littlehouse/content"
	"github.com/eringen/littlehouse/i18n"
)

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

// sitemapPaths lists every public page path, unprefixed, with the date it
// last changed where one is known.
func sitemapPaths(posts []content.PostMeta) []sitemapURL {
	urls := []sitemapURL{
		{Loc: "/"},
		{Loc: "/blog/"},
		{Loc: "/category/"},
		{Loc: "/tag/"},
		{Loc: "/about/"},
	}
	for _, p := range posts {
		urls = append(urls, sitemapURL{
			Loc:     p.Link(),
			LastMod: firstNonEmpty(p.UpdatedAt, p.Date),
		})
	}
	for _, cat := range content.Categories(posts) {
		urls = append(urls, sitemapURL{Loc: "/category/" + PathEscape(cat.Name) + "/"})
	}
	for _, tag := range content.Tags(posts) {
		urls = append(urls, sitemapURL{Loc: "/tag/" + PathEscape(tag.Name) + "/"})
	}
	return urls
}

func (a *App) renderSitemap(c echo.Context, posts []content.PostMeta) error {
	var urls []sitemapURL
	for _, l := range i18n.Locales {
		for _, u := range sitemapPaths(posts) {
			u.Loc = a.Config.URL + i18n.AddPrefix(u.Loc, l)
			urls = append(urls, u)
		}
	}
	sitemap := sitemapURLSet{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  urls,
	}
	c.Response().Header().Set(echo.HeaderContentType, "application/xml; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	c.Response().Write([]byte(xml.Header))
	return xml.NewEncoder(c.Response()).Encode(sitemap)
}
