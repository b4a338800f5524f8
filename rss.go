package littlehouse

import (
	"encoding/xml"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/eringen/littlehouse/content"
)

const feedItemLimit = 20

type rssXML struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title         string    `xml:"title"`
	Link          string    `xml:"link"`
	Description   string    `xml:"description"`
	Language      string    `xml:"language,omitempty"`
	LastBuildDate string    `xml:"lastBuildDate,omitempty"`
	Items         []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string   `xml:"title"`
	Link        string   `xml:"link"`
	Description string   `xml:"description"`
	Author      string   `xml:"author,omitempty"`
	Categories  []string `xml:"category"`
	PubDate     string   `xml:"pubDate"`
	GUID        string   `xml:"guid"`
}

func (a *App) renderRSS(c echo.Context, posts []content.PostMeta) error {
	base := a.Config.URL
	if len(posts) > feedItemLimit {
		posts = posts[:feedItemLimit]
	}
	items := make([]rssItem, 0, len(posts))
	for _, p := range posts {
		pubDate := ""
		if t := content.ParseDate(p.Date); !t.IsZero() {
			pubDate = t.Format(time.RFC1123Z)
		}
		postURL := BuildURL(base, "blog", p.Slug)
		categories := append([]string{p.Category}, p.Tags...)
		items = append(items, rssItem{
			Title:       p.Title,
			Link:        postURL,
			Description: p.Excerpt,
			Author:      p.Author,
			Categories:  FilterEmpty(categories),
			PubDate:     pubDate,
			GUID:        postURL,
		})
	}
	channel := rssChannel{
		Title:       a.Config.Name,
		Link:        BuildURL(base) + "/",
		Description: a.Config.Description,
		Language:    "zh-CN",
		Items:       items,
	}
	if len(items) > 0 {
		channel.LastBuildDate = items[0].PubDate
	}
	feed := rssXML{Version: "2.0", Channel: channel}
	c.Response().Header().Set(echo.HeaderContentType, "application/rss+xml; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	c.Response().Write([]byte(xml.Header))
	return xml.NewEncoder(c.Response()).Encode(feed)
}
