package views

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/a-h/templ"

	"github.com/eringen/littlehouse"
	"github.com/eringen/littlehouse/content"
	"github.com/eringen/littlehouse/i18n"
)

func renderString(t *testing.T, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	if err := c.Render(context.Background(), &buf); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	return buf.String()
}

func testPage(l i18n.Locale, path string) littlehouse.Page {
	return littlehouse.Page{
		Site:      littlehouse.Site{Name: "Little House", URL: "https://example.com", Description: "notes"},
		Locale:    l,
		Path:      path,
		URL:       "https://example.com" + i18n.AddPrefix(path, l),
		OGType:    "website",
		CSRFToken: "tok",
	}
}

var samplePost = content.Post{
	PostMeta: content.PostMeta{
		Slug:        "2024-01-01-hello-1704103200123",
		Title:       "Hello <World>",
		Date:        "2024-01-01",
		Excerpt:     "first",
		Category:    "日常记录",
		Tags:        []string{"go", "life"},
		Author:      "小屋主人",
		Published:   true,
		ReadingTime: "1 min read",
	},
	Content: "## Section\n\nSome **bold** text.",
}

func TestPostRendersMarkdownAndEscapesTitle(t *testing.T) {
	got := renderString(t, Post(testPage(i18n.English, "/blog/x/"), samplePost, nil))
	if !strings.Contains(got, "Hello &lt;World&gt;") {
		t.Errorf("title not escaped: %s", got)
	}
	if !strings.Contains(got, "<strong>bold</strong>") {
		t.Errorf("markdown not rendered")
	}
	if !strings.Contains(got, `"@type":"BlogPosting"`) {
		t.Errorf("missing BlogPosting JSON-LD")
	}
	if !strings.Contains(got, `href="/tag/go/"`) {
		t.Errorf("missing tag link")
	}
}

func TestLayoutLocalisesLinks(t *testing.T) {
	got := renderString(t, About(testPage(i18n.Chinese, "/about/")))
	if !strings.Contains(got, `lang="zh-CN"`) {
		t.Errorf("missing lang attribute")
	}
	if !strings.Contains(got, `href="/zh-CN/blog/"`) {
		t.Errorf("nav links not prefixed")
	}
	if !strings.Contains(got, `hreflang="en" href="https://example.com/about/"`) {
		t.Errorf("missing English alternate")
	}
	if !strings.Contains(got, "关于") {
		t.Errorf("labels not translated")
	}
}

func TestHomeListsCounts(t *testing.T) {
	posts := []content.PostMeta{samplePost.PostMeta}
	got := renderString(t, Home(testPage(i18n.English, "/"), posts,
		content.Categories(posts), content.Tags(posts)))
	if !strings.Contains(got, `href="/category/`+PathEscape("日常记录")+`/"`) {
		t.Errorf("category link missing: %s", got)
	}
	if !strings.Contains(got, `"@type":"WebSite"`) {
		t.Errorf("missing WebSite JSON-LD")
	}
}

func TestEmptyListing(t *testing.T) {
	got := renderString(t, BlogIndex(testPage(i18n.English, "/blog/"), nil))
	if !strings.Contains(got, "Nothing on the bookshelf yet.") {
		t.Errorf("missing empty state")
	}
}

func TestStudyPages(t *testing.T) {
	login := renderString(t, StudyLogin(testPage(i18n.Chinese, "/study/"), true))
	if !strings.Contains(login, `action="/zh-CN/api/study/login"`) {
		t.Errorf("login form action not localised: %s", login)
	}
	if !strings.Contains(login, "暗号不对哦") {
		t.Errorf("missing error message")
	}

	posts := []content.PostMeta{{FileName: "draft.mdx", Title: "Draft", Published: false}}
	images := []littlehouse.Image{{Filename: "cat.jpg", URL: "/public/uploads/cat.jpg"}}
	desk := renderString(t, StudyDesk(testPage(i18n.English, "/study/"), posts, images))
	for _, want := range []string{`data-file="draft.mdx"`, `data-csrf="tok"`, "/public/uploads/cat.jpg", "<em>Draft</em>"} {
		if !strings.Contains(desk, want) {
			t.Errorf("desk missing %q", want)
		}
	}
}

func TestFuncsComplete(t *testing.T) {
	f := Funcs()
	if f.Home == nil || f.Post == nil || f.StudyDesk == nil || f.NotFound == nil || f.ServerError == nil {
		t.Fatal("Funcs left a template unset")
	}
}
