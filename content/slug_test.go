package content

import (
	"testing"
	"time"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Hello World!", "hello-world"},
		{"Go   Generics", "go-generics"},
		{" Hello", "-hello"},
		{"  Go   Generics  ", "-go-generics-"},
		{"我的 第一篇 文章", "我的-第一篇-文章"},
		{"Mixed 中文 and English", "mixed-中文-and-english"},
		{"snake_case-and-dash", "snake_case-and-dash"},
		{"!!!", "untitled"},
		{"", "untitled"},
		{"Ünïcödé", "ncd"},
		{"a/b\\c..d", "abcd"},
	}
	for _, tt := range tests {
		if got := Slugify(tt.input); got != tt.expected {
			t.Errorf("Slugify(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestNewFileNameUsesUTC(t *testing.T) {
	loc := time.FixedZone("UTC+8", 8*60*60)
	created := time.Date(2024, 1, 2, 1, 0, 0, 0, loc) // 2024-01-01 17:00 UTC
	got := NewFileName("Late Night", created)
	want := "2024-01-01-late-night-1704128400000.mdx"
	if got != want {
		t.Errorf("NewFileName = %q, want %q", got, want)
	}
}

func TestSlugOf(t *testing.T) {
	tests := map[string]string{
		"post.mdx": "post",
		"post.md":  "post",
		"post":     "post",
		"a.md.mdx": "a.md",
		"note.txt": "note.txt",
	}
	for in, want := range tests {
		if got := SlugOf(in); got != want {
			t.Errorf("SlugOf(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestEmbeddedTimestamp(t *testing.T) {
	ts, ok := embeddedTimestamp("2025-11-03-title-1762128000000.mdx")
	if !ok || ts != 1762128000000 {
		t.Errorf("embeddedTimestamp = %d, %v", ts, ok)
	}
	if _, ok := embeddedTimestamp("2025-11-03-title.mdx"); ok {
		t.Error("expected no timestamp without a 13-digit suffix")
	}
	if _, ok := embeddedTimestamp("short-123.md"); ok {
		t.Error("expected no timestamp for a short number")
	}
}
