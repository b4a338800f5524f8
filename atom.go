package littlehouse

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	atom "github.com/thomas11/atomgenerator"

	"github.com/eringen/littlehouse/content"
)

func (a *App) renderAtom(c echo.Context, posts []content.PostMeta) error {
	body, err := a.atomFeed(posts)
	if err != nil {
		return err
	}
	return c.Blob(http.StatusOK, "application/atom+xml; charset=utf-8", body)
}

func (a *App) atomFeed(posts []content.PostMeta) ([]byte, error) {
	if len(posts) > feedItemLimit {
		posts = posts[:feedItemLimit]
	}
	updated := a.now()
	if len(posts) > 0 {
		if t := content.ParseDate(posts[0].Date); !t.IsZero() {
			updated = t
		}
	}
	feed := atom.Feed{
		Title:   a.Config.Name,
		Link:    BuildURL(a.Config.URL) + "/",
		PubDate: updated,
	}
	feed.AddAuthor(atom.Author{
		Name: firstNonEmpty(a.Config.Author, a.Config.DefaultAuthor),
		Uri:  a.Config.URL,
	})

	for _, p := range posts {
		date := content.ParseDate(p.Date)
		if date.IsZero() {
			date = updated
		}
		e := &atom.Entry{
			Title:       p.Title,
			Description: firstNonEmpty(p.Excerpt, p.Title),
			Link:        BuildURL(a.Config.URL, "blog", p.Slug),
			PubDate:     date,
		}
		if p.Category != "" {
			e.AddCategory(atom.Category{Term: p.Category})
		}
		for _, t := range p.Tags {
			e.AddCategory(atom.Category{Term: t})
		}
		feed.AddEntry(e)
	}

	if errs := feed.Validate(); len(errs) > 0 {
		return nil, fmt.Errorf("atom feed: %w", errs[0])
	}
	return feed.GenXml()
}
