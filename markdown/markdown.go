// Package markdown renders post bodies to HTML as templ components.
package markdown

import (
	"bytes"
	"context"
	"hash/fnv"
	"html"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/a-h/templ"
	gocache "github.com/patrickmn/go-cache"
	"github.com/russross/blackfriday/v2"
)

const extensions = blackfriday.CommonExtensions |
	blackfriday.AutoHeadingIDs |
	blackfriday.Footnotes

const htmlFlags = blackfriday.CommonHTMLFlags |
	blackfriday.HrefTargetBlank |
	blackfriday.NofollowLinks

// rendered memoises HTML by content hash, so edits never hit stale entries.
var rendered = gocache.New(time.Hour, 10*time.Minute)

var (
	reTag      = regexp.MustCompile(`<[^>]*>`)
	reJSXBlock = regexp.MustCompile(`(?m)^(import\s.+\sfrom\s+['"][^'"]+['"];?|export\s+(const|default|function)\s.*)$`)
	reSpaces   = regexp.MustCompile(`\s+`)
)

// Markdown returns a templ.Component that renders md as HTML.
func Markdown(content string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, HTML(content))
		return err
	})
}

// HTML returns the rendered HTML of md.
func HTML(md string) string {
	key := cacheKey(md)
	if v, ok := rendered.Get(key); ok {
		return v.(string)
	}
	var buf bytes.Buffer
	RenderMarkdown(&buf, md)
	out := buf.String()
	rendered.Set(key, out, gocache.DefaultExpiration)
	return out
}

// RenderMarkdown writes the HTML representation of md to buf. MDX
// import/export lines are dropped; they only mean something to a JS bundler.
func RenderMarkdown(buf *bytes.Buffer, md string) {
	src := strings.ReplaceAll(md, "\r\n", "\n")
	src = reJSXBlock.ReplaceAllString(src, "")
	renderer := blackfriday.NewHTMLRenderer(blackfriday.HTMLRendererParameters{
		Flags: htmlFlags,
	})
	buf.Write(blackfriday.Run([]byte(src),
		blackfriday.WithExtensions(extensions),
		blackfriday.WithRenderer(renderer),
	))
}

// PlainText renders md and strips every tag, leaving collapsed text.
func PlainText(md string) string {
	text := reTag.ReplaceAllString(HTML(md), " ")
	text = html.UnescapeString(text)
	return strings.TrimSpace(reSpaces.ReplaceAllString(text, " "))
}

// Excerpt returns at most n runes of the plain text of md, cut at a word
// boundary where there is one and suffixed with an ellipsis when trimmed.
func Excerpt(md string, n int) string {
	text := PlainText(md)
	if utf8.RuneCountInString(text) <= n {
		return text
	}
	runes := []rune(text)
	cut := string(runes[:n])
	if i := strings.LastIndexByte(cut, ' '); i > len(cut)/2 {
		cut = cut[:i]
	}
	return strings.TrimSpace(cut) + "…"
}

func cacheKey(md string) string {
	h := fnv.New64a()
	h.Write([]byte(md))
	return strconv.FormatUint(h.Sum64(), 16) + ":" + strconv.Itoa(len(md))
}
