package i18n

import (
	"context"
	"testing"
)

func TestFromPath(t *testing.T) {
	tests := []struct {
		path string
		want Locale
	}{
		{"/", English},
		{"/blog/x/", English},
		{"/zh-CN", Chinese},
		{"/zh-CN/blog/", Chinese},
		{"/zh/study/", Chinese},
		{"/zhong/", English},
	}
	for _, tt := range tests {
		if got := FromPath(tt.path); got != tt.want {
			t.Errorf("FromPath(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestStripPrefix(t *testing.T) {
	tests := map[string]string{
		"/zh-CN":        "/",
		"/zh-CN/":       "/",
		"/zh-CN/tag/a/": "/tag/a/",
		"/zh/blog/":     "/blog/",
		"/about/":       "/about/",
	}
	for in, want := range tests {
		if got := StripPrefix(in); got != want {
			t.Errorf("StripPrefix(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestLocalize(t *testing.T) {
	tests := []struct {
		path   string
		locale Locale
		want   string
	}{
		{"/blog/", Chinese, "/zh-CN/blog/"},
		{"/", Chinese, "/zh-CN/"},
		{"/zh-CN/blog/", English, "/blog/"},
		{"/zh/about/", Chinese, "/zh-CN/about/"},
		{"about/", English, "/about/"},
	}
	for _, tt := range tests {
		if got := Localize(tt.path, tt.locale); got != tt.want {
			t.Errorf("Localize(%q, %q) = %q, want %q", tt.path, tt.locale, got, tt.want)
		}
	}
}

func TestNegotiate(t *testing.T) {
	tests := map[string]Locale{
		"":                        English,
		"zh-CN,zh;q=0.9,en;q=0.8": Chinese,
		"en-US,en;q=0.9":          English,
		"fr-FR":                   English,
		"de;q=0.9, zh-Hans;q=0.8": Chinese,
	}
	for header, want := range tests {
		if got := Negotiate(header); got != want {
			t.Errorf("Negotiate(%q) = %q, want %q", header, got, want)
		}
	}
}

func TestParse(t *testing.T) {
	if got := Parse("zh"); got != Chinese {
		t.Errorf("Parse(zh) = %q", got)
	}
	if got := Parse("en-GB"); got != English {
		t.Errorf("Parse(en-GB) = %q", got)
	}
	if got := Parse("???"); got != Default {
		t.Errorf("Parse(???) = %q", got)
	}
}

func TestContextRoundTrip(t *testing.T) {
	ctx := WithLocale(context.Background(), Chinese)
	if got := FromContext(ctx); got != Chinese {
		t.Errorf("FromContext = %q", got)
	}
	if got := FromContext(context.Background()); got != Default {
		t.Errorf("FromContext(empty) = %q", got)
	}
}

func TestT(t *testing.T) {
	if got := T(Chinese, MsgDeleted); got != "文章已删除" {
		t.Errorf("T(zh, deleted) = %q", got)
	}
	if got := T(Locale("fr"), MsgDeleted); got != "Post deleted" {
		t.Errorf("T(fr, deleted) = %q", got)
	}
	if got := T(English, "nope"); got != "nope" {
		t.Errorf("T(en, nope) = %q", got)
	}
}
