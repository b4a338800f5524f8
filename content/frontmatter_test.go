package content

import (
	"errors"
	"testing"
)

func TestSplitFrontMatter(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantMeta string
		wantBody string
	}{
		{"standard", "---\ntitle: x\n---\n\nbody", "title: x\n", "body"},
		{"no blank line", "---\ntitle: x\n---\nbody", "title: x\n", "body"},
		{"crlf", "---\r\ntitle: x\r\n---\r\n\r\nbody", "title: x\r\n", "body"},
		{"empty block", "---\n---\n\nbody", "", "body"},
		{"closing at eof", "---\ntitle: x\n---", "title: x\n", ""},
		{"no front matter", "# just markdown", "", "# just markdown"},
		{"bom", "\xef\xbb\xbf---\ntitle: x\n---\n\nbody", "title: x\n", "body"},
	}
	for _, tt := range tests {
		meta, body, err := splitFrontMatter([]byte(tt.input))
		if err != nil {
			t.Errorf("%s: unexpected error %v", tt.name, err)
			continue
		}
		if string(meta) != tt.wantMeta {
			t.Errorf("%s: meta = %q, want %q", tt.name, meta, tt.wantMeta)
		}
		if body != tt.wantBody {
			t.Errorf("%s: body = %q, want %q", tt.name, body, tt.wantBody)
		}
	}
}

func TestSplitFrontMatterUnterminated(t *testing.T) {
	_, _, err := splitFrontMatter([]byte("---\ntitle: x\nbody"))
	if !errors.Is(err, errUnterminated) {
		t.Errorf("err = %v, want errUnterminated", err)
	}
}

func TestParseFrontMatterTolerantTypes(t *testing.T) {
	raw := "---\n" +
		"title: 2024\n" +
		"date: 2024-01-15\n" +
		"tags: go, web , \n" +
		"published: \"true\"\n" +
		"excerpt:\n" +
		"extra: ignored\n" +
		"---\n\nbody"
	fm, body, err := parseFrontMatter([]byte(raw))
	if err != nil {
		t.Fatalf("parseFrontMatter failed: %v", err)
	}
	if fm.Title != "2024" {
		t.Errorf("Title = %q, want %q", fm.Title, "2024")
	}
	if fm.Date != "2024-01-15" {
		t.Errorf("Date = %q, want %q", fm.Date, "2024-01-15")
	}
	if len(fm.Tags) != 2 || fm.Tags[0] != "go" || fm.Tags[1] != "web" {
		t.Errorf("Tags = %v, want [go web]", fm.Tags)
	}
	if !fm.Published {
		t.Error("Published should accept a quoted true")
	}
	if fm.Excerpt != "" {
		t.Errorf("Excerpt = %q, want empty", fm.Excerpt)
	}
	if body != "body" {
		t.Errorf("body = %q", body)
	}
}

func TestParseFrontMatterRejectsNestedTitle(t *testing.T) {
	_, _, err := parseFrontMatter([]byte("---\ntitle:\n  nested: true\n---\n\nbody"))
	if err == nil {
		t.Error("expected an error for a mapping title")
	}
}

func TestMarshalPostRoundTrip(t *testing.T) {
	meta := PostMeta{
		Title:     "Line\nbreak \"and\" \\ slash",
		Date:      "2024-01-01",
		Excerpt:   "冒号: 也可以",
		Category:  "日常记录",
		Tags:      []string{"a, b", "c"},
		Author:    "me",
		Published: true,
		CreatedAt: "2024-01-01",
		UpdatedAt: "2024-01-02",
	}
	raw := marshalPost(meta, "content\n")
	fm, body, err := parseFrontMatter(raw)
	if err != nil {
		t.Fatalf("parseFrontMatter failed: %v\n%s", err, raw)
	}
	if string(fm.Title) != meta.Title {
		t.Errorf("Title = %q, want %q", fm.Title, meta.Title)
	}
	if string(fm.Excerpt) != meta.Excerpt {
		t.Errorf("Excerpt = %q, want %q", fm.Excerpt, meta.Excerpt)
	}
	if len(fm.Tags) != 2 || fm.Tags[0] != "a, b" {
		t.Errorf("Tags = %v", fm.Tags)
	}
	if !fm.Published || fm.UpdatedAt != "2024-01-02" {
		t.Errorf("Published = %v, UpdatedAt = %q", fm.Published, fm.UpdatedAt)
	}
	if body != "content\n" {
		t.Errorf("body = %q", body)
	}
}
