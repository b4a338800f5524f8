package littlehouse

import "github.com/eringen/littlehouse/i18n"

// Page carries per-request metadata into templates: the site identity, the
// locale the page is served in, SEO fields and the CSRF token for forms.
type Page struct {
	Site        Site
	Locale      i18n.Locale
	Path        string // request path without the locale prefix
	Title       string
	Description string
	URL         string // canonical + og:url
	OGType      string // "website" or "article"
	CSRFToken   string
}

// Link localises an unprefixed site path for the page's locale.
func (p Page) Link(path string) string {
	return i18n.AddPrefix(path, p.Locale)
}

// Alternate returns the page's own path in another locale.
func (p Page) Alternate(l i18n.Locale) string {
	return i18n.AddPrefix(p.Path, l)
}

// Image is an uploaded picture in the static uploads directory.
type Image struct {
	Filename string `json:"filename"`
	URL      string `json:"url"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Size     int64  `json:"size"`
	Modified string `json:"modified"`
}
