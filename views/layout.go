package views

import (
	"github.com/a-h/templ"

	"github.com/eringen/littlehouse"
	"github.com/eringen/littlehouse/i18n"
)

// layout wraps body in the page shell: head with SEO metadata, navigation
// with a language switch, and footer. jsonLD is written verbatim into a
// script tag when non-empty.
func layout(p littlehouse.Page, jsonLD string, body templ.Component) templ.Component {
	return component(func(w *writer) {
		title := p.Site.Name
		if p.Title != "" {
			title = p.Title + " | " + p.Site.Name
		}
		w.raw(`<!DOCTYPE html><html lang="`)
		w.text(p.Locale.Tag())
		w.raw(`"><head><meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1">`)
		w.raw(`<title>`)
		w.text(title)
		w.raw(`</title><meta name="description" content="`)
		w.text(p.Description)
		w.raw(`"><link rel="canonical" href="`)
		w.text(p.URL)
		w.raw(`"><meta property="og:title" content="`)
		w.text(title)
		w.raw(`"><meta property="og:type" content="`)
		w.text(p.OGType)
		w.raw(`"><meta property="og:url" content="`)
		w.text(p.URL)
		w.raw(`">`)
		for _, l := range i18n.Locales {
			w.raw(`<link rel="alternate" hreflang="`)
			w.text(l.Tag())
			w.raw(`" href="`)
			w.text(p.Site.URL + p.Alternate(l))
			w.raw(`">`)
		}
		w.raw(`<link rel="alternate" type="application/rss+xml" title="RSS" href="/feed.xml">`)
		w.raw(`<link rel="alternate" type="application/atom+xml" title="Atom" href="/atom.xml">`)
		w.raw(`<link rel="icon" href="/favicon.svg" type="image/svg+xml">`)
		w.raw(`<link rel="stylesheet" href="/public/styles.css">`)
		if jsonLD != "" {
			w.raw(`<script type="application/ld+json">`)
			w.raw(jsonLD)
			w.raw(`</script>`)
		}
		w.raw(`</head><body><header class="site-header">`)
		w.link(p.Link("/"), "site-name", p.Site.Name)
		w.raw(`<nav>`)
		for _, item := range []struct{ path, key string }{
			{"/blog/", "blog"},
			{"/category/", "categories"},
			{"/tag/", "tags"},
			{"/about/", "about"},
		} {
			w.link(p.Link(item.path), "", label(p.Locale, item.key))
		}
		w.raw(`</nav><nav class="lang">`)
		for _, l := range i18n.Locales {
			if l == p.Locale {
				w.raw(`<span aria-current="true">`)
				w.text(l.Name())
				w.raw(`</span>`)
				continue
			}
			w.link(p.Alternate(l), "", l.Name())
		}
		w.raw(`</nav></header><main>`)
		w.component(body)
		w.raw(`</main><footer class="site-footer"><p>&copy; `)
		w.text(p.Site.Name)
		w.raw(` &middot; <a href="/feed.xml">RSS</a> &middot; `)
		w.link(p.Link("/study/"), "", label(p.Locale, "study"))
		w.raw(`</p></footer></body></html>`)
	})
}
