package views

import (
	"context"
	"io"
	"net/url"
	"strconv"

	"github.com/a-h/templ"
)

// writer accumulates the first error so components can write straight
// through and check once at the end.
type writer struct {
	ctx context.Context
	w   io.Writer
	err error
}

func (w *writer) raw(s string) {
	if w.err == nil {
		_, w.err = io.WriteString(w.w, s)
	}
}

func (w *writer) text(s string) {
	w.raw(templ.EscapeString(s))
}

func (w *writer) int(n int) {
	w.raw(strconv.Itoa(n))
}

func (w *writer) component(c templ.Component) {
	if w.err == nil {
		w.err = c.Render(w.ctx, w.w)
	}
}

// link writes an anchor with an escaped href and text.
func (w *writer) link(href, class, text string) {
	w.raw(`<a href="`)
	w.text(href)
	w.raw(`"`)
	if class != "" {
		w.raw(` class="`)
		w.raw(class)
		w.raw(`"`)
	}
	w.raw(`>`)
	w.text(text)
	w.raw(`</a>`)
}

// component builds a templ.Component from a func that writes through w.
func component(fn func(w *writer)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, out io.Writer) error {
		w := &writer{ctx: ctx, w: out}
		fn(w)
		return w.err
	})
}

// PathEscape wraps url.PathEscape for use in links.
func PathEscape(s string) string {
	return url.PathEscape(s)
}

// TagClass returns CSS classes for a tag pill, with active variant.
func TagClass(active bool) string {
	base := "tag"
	if active {
		base += " tag-active"
	}
	return base
}
