package views

import (
	"github.com/a-h/templ"

	"github.com/eringen/littlehouse"
	"github.com/eringen/littlehouse/content"
	"github.com/eringen/littlehouse/markdown"
)

// Funcs returns the default templates.
func Funcs() littlehouse.ViewFuncs {
	return littlehouse.ViewFuncs{
		Home:        Home,
		BlogIndex:   BlogIndex,
		Post:        Post,
		Categories:  Categories,
		Category:    Category,
		Tags:        Tags,
		Tag:         Tag,
		About:       About,
		StudyLogin:  StudyLogin,
		StudyDesk:   StudyDesk,
		NotFound:    NotFound,
		ServerError: ServerError,
	}
}

func Home(p littlehouse.Page, posts []content.PostMeta, categories, tags []content.Count) templ.Component {
	return layout(p, littlehouse.WebsiteJsonLD(p.Site), component(func(w *writer) {
		w.raw(`<section class="intro"><h1>`)
		w.text(p.Site.Name)
		w.raw(`</h1><p>`)
		w.text(p.Site.Description)
		w.raw(`</p></section><section><h2>`)
		w.text(label(p.Locale, "latest"))
		w.raw(`</h2>`)
		postList(w, p, posts)
		w.raw(`<p>`)
		w.link(p.Link("/blog/"), "more", label(p.Locale, "all_posts")+" →")
		w.raw(`</p></section><aside>`)
		countList(w, p, label(p.Locale, "categories"), "/category/", categories)
		countList(w, p, label(p.Locale, "tags"), "/tag/", tags)
		w.raw(`</aside>`)
	}))
}

func BlogIndex(p littlehouse.Page, posts []content.PostMeta) templ.Component {
	return layout(p, "", component(func(w *writer) {
		w.raw(`<h1>`)
		w.text(label(p.Locale, "blog"))
		w.raw(`</h1>`)
		postList(w, p, posts)
	}))
}

func Post(p littlehouse.Page, post content.Post, related []content.PostMeta) templ.Component {
	return layout(p, littlehouse.BlogPostingJsonLD(post.PostMeta, p.Site), component(func(w *writer) {
		w.raw(`<article class="post"><header><h1>`)
		w.text(post.Title)
		w.raw(`</h1>`)
		postMeta(w, p, post.PostMeta)
		w.raw(`</header>`)
		if post.CoverImage != "" {
			w.raw(`<img class="cover" src="`)
			w.text(post.CoverImage)
			w.raw(`" alt="`)
			w.text(post.Title)
			w.raw(`">`)
		}
		w.raw(`<div class="prose">`)
		w.component(markdown.Markdown(post.Content))
		w.raw(`</div>`)
		if len(post.Tags) > 0 {
			w.raw(`<p class="tags">`)
			for _, t := range post.Tags {
				w.link(p.Link("/tag/"+PathEscape(t)+"/"), TagClass(false), "#"+t)
				w.raw(" ")
			}
			w.raw(`</p>`)
		}
		w.raw(`</article>`)
		if len(related) > 0 {
			w.raw(`<section class="related"><h2>`)
			w.text(label(p.Locale, "related"))
			w.raw(`</h2>`)
			postList(w, p, related)
			w.raw(`</section>`)
		}
	}))
}

func Categories(p littlehouse.Page, categories []content.Count) templ.Component {
	return layout(p, "", component(func(w *writer) {
		countList(w, p, label(p.Locale, "categories"), "/category/", categories)
	}))
}

func Category(p littlehouse.Page, category string, posts []content.PostMeta) templ.Component {
	return layout(p, "", component(func(w *writer) {
		w.raw(`<h1>`)
		w.text(category)
		w.raw(`</h1>`)
		postList(w, p, posts)
	}))
}

func Tags(p littlehouse.Page, tags []content.Count) templ.Component {
	return layout(p, "", component(func(w *writer) {
		countList(w, p, label(p.Locale, "tags"), "/tag/", tags)
	}))
}

func Tag(p littlehouse.Page, tag string, posts []content.PostMeta) templ.Component {
	return layout(p, "", component(func(w *writer) {
		w.raw(`<h1>#`)
		w.text(tag)
		w.raw(`</h1>`)
		postList(w, p, posts)
	}))
}

func About(p littlehouse.Page) templ.Component {
	return layout(p, "", component(func(w *writer) {
		w.raw(`<h1>`)
		w.text(label(p.Locale, "about"))
		w.raw(`</h1><p>`)
		w.text(label(p.Locale, "about_body"))
		w.raw(`</p>`)
	}))
}

func NotFound(p littlehouse.Page) templ.Component {
	return layout(p, "", errorBody(p, "404", "not_found"))
}

func ServerError(p littlehouse.Page) templ.Component {
	return layout(p, "", errorBody(p, "500", "server_err"))
}

func errorBody(p littlehouse.Page, code, key string) templ.Component {
	return component(func(w *writer) {
		w.raw(`<section class="error"><h1>`)
		w.text(code)
		w.raw(`</h1><p>`)
		w.text(label(p.Locale, key))
		w.raw(`</p>`)
		w.link(p.Link("/"), "", label(p.Locale, "back_home"))
		w.raw(`</section>`)
	})
}

func postList(w *writer, p littlehouse.Page, posts []content.PostMeta) {
	if len(posts) == 0 {
		w.raw(`<p class="empty">`)
		w.text(label(p.Locale, "no_posts"))
		w.raw(`</p>`)
		return
	}
	w.raw(`<ul class="post-list">`)
	for _, post := range posts {
		w.raw(`<li><h3>`)
		w.link(p.Link(post.Link()), "", post.Title)
		w.raw(`</h3>`)
		postMeta(w, p, post)
		if post.Excerpt != "" {
			w.raw(`<p>`)
			w.text(post.Excerpt)
			w.raw(`</p>`)
		}
		w.raw(`</li>`)
	}
	w.raw(`</ul>`)
}

func postMeta(w *writer, p littlehouse.Page, post content.PostMeta) {
	w.raw(`<p class="meta"><time datetime="`)
	w.text(post.Date)
	w.raw(`">`)
	w.text(post.Date)
	w.raw(`</time> · `)
	w.link(p.Link("/category/"+PathEscape(post.Category)+"/"), "", post.Category)
	w.raw(` · `)
	w.text(post.ReadingTime)
	if post.Author != "" {
		w.raw(` · `)
		w.text(label(p.Locale, "by") + " " + post.Author)
	}
	w.raw(`</p>`)
}

func countList(w *writer, p littlehouse.Page, heading, prefix string, counts []content.Count) {
	w.raw(`<section class="counts"><h2>`)
	w.text(heading)
	w.raw(`</h2><ul>`)
	for _, c := range counts {
		w.raw(`<li>`)
		w.link(p.Link(prefix+PathEscape(c.Name)+"/"), "", c.Name)
		w.raw(` <span>`)
		w.int(c.Count)
		w.raw(`</span></li>`)
	}
	w.raw(`</ul></section>`)
}
