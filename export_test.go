package littlehouse

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestExport(t *testing.T) {
	ta := newTestApp(t, nil)
	ta.seed(t)
	ta.writePost(t, "cjk.md", "title: 随笔\ndate: 2023-12-01\ncategory: 日常记录\npublished: true", "x")
	if err := os.MkdirAll(ta.staticDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(ta.staticDir, "styles.css"), []byte("body{}"), 0o644); err != nil {
		t.Fatal(err)
	}

	out := t.TempDir()
	if err := ta.Export(out); err != nil {
		t.Fatalf("Export: %v", err)
	}

	for _, name := range []string{
		"index.html",
		"blog/index.html",
		"blog/2024-01-05-post-5/index.html",
		"zh-CN/blog/2024-01-05-post-5/index.html",
		"category/日常记录/index.html",
		"tag/go/index.html",
		"about/index.html",
		"feed.xml",
		"atom.xml",
		"sitemap.xml",
		"robots.txt",
		"public/styles.css",
	} {
		if _, err := os.Stat(filepath.Join(out, filepath.FromSlash(name))); err != nil {
			t.Errorf("missing %s: %v", name, err)
		}
	}
	if _, err := os.Stat(filepath.Join(out, "blog", "2024-02-01-draft", "index.html")); !os.IsNotExist(err) {
		t.Errorf("draft exported: %v", err)
	}

	page, err := os.ReadFile(filepath.Join(out, "zh-CN", "about", "index.html"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(page), "about zh-CN") {
		t.Errorf("zh-CN about page = %q", page)
	}

	raw, err := os.ReadFile(filepath.Join(out, "api", "posts", "all.json"))
	if err != nil {
		t.Fatal(err)
	}
	var all struct {
		Data  []map[string]any `json:"data"`
		Total int              `json:"total"`
	}
	if err := json.Unmarshal(raw, &all); err != nil {
		t.Fatal(err)
	}
	if len(all.Data) != 8 || all.Total != 8 {
		t.Errorf("all.json has %d posts, total %d, want 8", len(all.Data), all.Total)
	}
	if _, err := os.Stat(filepath.Join(out, "api", "posts", "index.json")); err != nil {
		t.Errorf("missing api/posts/index.json: %v", err)
	}
}

func TestExportFileName(t *testing.T) {
	tests := map[string]string{
		"/":                        "index.html",
		"/zh-CN/":                  "zh-CN/index.html",
		"/blog/a/":                 "blog/a/index.html",
		"/feed.xml":                "feed.xml",
		"/api/posts":               "api/posts/index.json",
		"/api/posts?all=true":      "api/posts/all.json",
		"/tag/%E8%AF%BB%E4%B9%A6/": "tag/读书/index.html",
	}
	for in, want := range tests {
		if got := exportFileName(in); got != want {
			t.Errorf("exportFileName(%q) = %q, want %q", in, got, want)
		}
	}
}
