package content

import (
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"
)

type recordingLogger struct {
	warnings []string
}

func (l *recordingLogger) Warnf(format string, args ...interface{}) {
	l.warnings = append(l.warnings, format)
}

func setupTestStore(t *testing.T, opts ...Option) (*Store, string) {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "posts")
	return NewStore(dir, opts...), dir
}

func writePostFile(t *testing.T, dir, name, body string) {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func fixedClock(ts string) func() time.Time {
	t, err := time.Parse(time.RFC3339Nano, ts)
	if err != nil {
		panic(err)
	}
	return func() time.Time { return t }
}

func TestListAllMissingDirectory(t *testing.T) {
	s, _ := setupTestStore(t)
	posts, err := s.ListAll()
	if err != nil {
		t.Fatalf("ListAll failed: %v", err)
	}
	if len(posts) != 0 {
		t.Errorf("expected no posts, got %d", len(posts))
	}
}

func TestListAllDefaults(t *testing.T) {
	s, dir := setupTestStore(t)
	writePostFile(t, dir, "bare.md", "---\ndate: 2024-03-01\n---\n\nJust a body.")

	posts, err := s.ListAll()
	if err != nil {
		t.Fatalf("ListAll failed: %v", err)
	}
	if len(posts) != 1 {
		t.Fatalf("expected 1 post, got %d", len(posts))
	}
	got := posts[0]
	if got.Slug != "bare" {
		t.Errorf("Slug = %q, want %q", got.Slug, "bare")
	}
	if got.Title != "bare" {
		t.Errorf("Title = %q, want slug fallback %q", got.Title, "bare")
	}
	if got.Category != "Uncategorized" {
		t.Errorf("Category = %q, want %q", got.Category, "Uncategorized")
	}
	if got.Tags == nil || len(got.Tags) != 0 {
		t.Errorf("Tags = %#v, want empty non-nil slice", got.Tags)
	}
	if got.Published {
		t.Error("Published should default to false")
	}
	if got.Date != "2024-03-01" {
		t.Errorf("Date = %q, want %q", got.Date, "2024-03-01")
	}
	if got.ReadingTime != "1 min read" {
		t.Errorf("ReadingTime = %q, want %q", got.ReadingTime, "1 min read")
	}
}

func TestListAllSkipsUnparseableFiles(t *testing.T) {
	logger := &recordingLogger{}
	s, dir := setupTestStore(t, WithLogger(logger))
	writePostFile(t, dir, "good.mdx", "---\ntitle: Good\ndate: 2024-01-01\n---\n\nok")
	writePostFile(t, dir, "broken.mdx", "---\ntitle: [unclosed\n---\n\nbody")
	writePostFile(t, dir, "unterminated.md", "---\ntitle: Never closed\n")
	writePostFile(t, dir, "notes.txt", "ignored")

	posts, err := s.ListAll()
	if err != nil {
		t.Fatalf("ListAll failed: %v", err)
	}
	if len(posts) != 1 || posts[0].Slug != "good" {
		t.Fatalf("expected only the good post, got %+v", posts)
	}
	if len(logger.warnings) != 2 {
		t.Errorf("expected 2 warnings, got %d", len(logger.warnings))
	}
}

func TestListAllNoFrontMatter(t *testing.T) {
	s, dir := setupTestStore(t)
	writePostFile(t, dir, "plain.md", "# Heading\n\nNo metadata here.")

	posts, err := s.ListAll()
	if err != nil {
		t.Fatalf("ListAll failed: %v", err)
	}
	if len(posts) != 1 {
		t.Fatalf("expected 1 post, got %d", len(posts))
	}
	p, err := s.GetBySlug("plain")
	if err != nil {
		t.Fatalf("GetBySlug failed: %v", err)
	}
	if p.Content != "# Heading\n\nNo metadata here." {
		t.Errorf("Content = %q", p.Content)
	}
}

func TestListPublishedFiltersDrafts(t *testing.T) {
	s, dir := setupTestStore(t)
	writePostFile(t, dir, "a.mdx", "---\ntitle: A\ndate: 2024-01-03\npublished: true\n---\n\na")
	writePostFile(t, dir, "b.mdx", "---\ntitle: B\ndate: 2024-01-02\npublished: \"true\"\n---\n\nb")
	writePostFile(t, dir, "c.mdx", "---\ntitle: C\ndate: 2024-01-04\npublished: \"false\"\n---\n\nc")
	writePostFile(t, dir, "d.mdx", "---\ntitle: D\ndate: 2024-01-05\n---\n\nd")

	posts, err := s.ListPublished(0)
	if err != nil {
		t.Fatalf("ListPublished failed: %v", err)
	}
	if len(posts) != 2 {
		t.Fatalf("expected 2 published posts, got %d", len(posts))
	}
	for _, p := range posts {
		if !p.Published {
			t.Errorf("post %s is not published", p.Slug)
		}
	}
	if posts[0].Slug != "a" || posts[1].Slug != "b" {
		t.Errorf("order = [%s %s], want [a b]", posts[0].Slug, posts[1].Slug)
	}

	limited, err := s.ListPublished(1)
	if err != nil {
		t.Fatalf("ListPublished(1) failed: %v", err)
	}
	if len(limited) != 1 || limited[0].Slug != "a" {
		t.Errorf("ListPublished(1) = %+v, want only a", limited)
	}
}

func TestListPublishedOnlyAcceptsTrue(t *testing.T) {
	s, dir := setupTestStore(t)
	for name, value := range map[string]string{
		"one.mdx":    "1",
		"t.mdx":      "\"t\"",
		"yes.mdx":    "yes",
		"upper.mdx":  "\"TRUE\"",
		"string.mdx": "\"true\"",
		"bool.mdx":   "true",
	} {
		writePostFile(t, dir, name, "---\ntitle: X\ndate: 2024-01-01\npublished: "+value+"\n---\n\nx")
	}

	posts, err := s.ListPublished(0)
	if err != nil {
		t.Fatalf("ListPublished failed: %v", err)
	}
	got := map[string]bool{}
	for _, p := range posts {
		got[p.FileName] = true
	}
	if len(got) != 2 || !got["string.mdx"] || !got["bool.mdx"] {
		t.Errorf("published = %v, want only bool.mdx and string.mdx", got)
	}
}

func TestSortTieBreakByTimestamp(t *testing.T) {
	s, dir := setupTestStore(t)
	writePostFile(t, dir, "2024-05-01-first-1714521600000.mdx", "---\ntitle: First\ndate: 2024-05-01\n---\n\n1")
	writePostFile(t, dir, "2024-05-01-second-1714525200000.mdx", "---\ntitle: Second\ndate: 2024-05-01\n---\n\n2")
	writePostFile(t, dir, "2024-04-30-older-1714435200000.mdx", "---\ntitle: Older\ndate: 2024-04-30\n---\n\n3")

	posts, err := s.ListAll()
	if err != nil {
		t.Fatalf("ListAll failed: %v", err)
	}
	want := []string{"Second", "First", "Older"}
	for i, w := range want {
		if posts[i].Title != w {
			t.Errorf("posts[%d].Title = %q, want %q", i, posts[i].Title, w)
		}
	}
}

func TestSortFallsBackToFileName(t *testing.T) {
	posts := []PostMeta{
		{FileName: "alpha.md", Date: "2024-01-01"},
		{FileName: "beta.md", Date: "2024-01-01"},
		{FileName: "2024-01-01-x-1704067200000.mdx", Date: "2024-01-01"},
	}
	SortPosts(posts)
	if posts[0].FileName != "beta.md" || posts[1].FileName != "alpha.md" {
		t.Errorf("order = %v", []string{posts[0].FileName, posts[1].FileName, posts[2].FileName})
	}
}

func TestSortISODates(t *testing.T) {
	posts := []PostMeta{
		{FileName: "a.md", Date: "2024-01-01T08:00:00Z"},
		{FileName: "b.md", Date: "2024-01-01T09:00:00Z"},
		{FileName: "c.md", Date: "not a date"},
	}
	SortPosts(posts)
	if posts[0].FileName != "b.md" || posts[2].FileName != "c.md" {
		t.Errorf("order = %v", []string{posts[0].FileName, posts[1].FileName, posts[2].FileName})
	}
}

func TestCreateFileName(t *testing.T) {
	s, dir := setupTestStore(t, WithClock(fixedClock("2024-01-01T10:00:00.123Z")))

	name, err := s.Create(Fields{Title: "Hello World!", Content: "Body"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if !regexp.MustCompile(`^2024-01-01-hello-world-\d{13}\.mdx$`).MatchString(name) {
		t.Errorf("file name %q does not match the expected pattern", name)
	}
	if name != "2024-01-01-hello-world-1704103200123.mdx" {
		t.Errorf("file name = %q", name)
	}
	if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
		t.Errorf("file not written: %v", err)
	}
}

func TestCreateThenGetBySlugRoundTrip(t *testing.T) {
	s, _ := setupTestStore(t, WithClock(fixedClock("2024-02-10T12:00:00Z")))
	body := "\n# Title\n\nSome *markdown* with \"quotes\" and a trailing newline\n"

	name, err := s.Create(Fields{
		Title:     `A "quoted" title: with colon`,
		Content:   body,
		Excerpt:   "short",
		Tags:      []string{"go", " 生活 ", ""},
		Published: true,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	got, err := s.GetBySlug(SlugOf(name))
	if err != nil {
		t.Fatalf("GetBySlug failed: %v", err)
	}
	if got.Content != body {
		t.Errorf("Content = %q, want %q", got.Content, body)
	}
	if got.Title != `A "quoted" title: with colon` {
		t.Errorf("Title = %q", got.Title)
	}
	if got.Date != "2024-02-10" || got.CreatedAt != "2024-02-10" {
		t.Errorf("Date = %q, CreatedAt = %q", got.Date, got.CreatedAt)
	}
	if got.Category != "日常记录" {
		t.Errorf("Category = %q, want write default", got.Category)
	}
	if got.Author != "小屋主人" {
		t.Errorf("Author = %q, want write default", got.Author)
	}
	if len(got.Tags) != 2 || got.Tags[0] != "go" || got.Tags[1] != "生活" {
		t.Errorf("Tags = %v, want [go 生活]", got.Tags)
	}
	if !got.Published {
		t.Error("Published should be true")
	}
}

func TestCreateWritesFlatFrontMatter(t *testing.T) {
	s, dir := setupTestStore(t, WithClock(fixedClock("2024-02-10T12:00:00Z")))
	name, err := s.Create(Fields{Title: "Tags", Content: "x", Tags: []string{"a", "b"}})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	raw, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	text := string(raw)
	if !strings.HasPrefix(text, "---\ntitle: \"Tags\"\n") {
		t.Errorf("unexpected header: %q", text)
	}
	if !strings.Contains(text, "\ntags: [\"a\", \"b\"]\n") {
		t.Errorf("tags not rendered as a flow list: %q", text)
	}
	if !strings.HasSuffix(text, "\n---\n\nx") {
		t.Errorf("body not separated by a blank line: %q", text)
	}
}

func TestCreateRequiresTitleAndContent(t *testing.T) {
	s, _ := setupTestStore(t)
	if _, err := s.Create(Fields{Title: "", Content: "x"}); !errors.Is(err, ErrInvalid) {
		t.Errorf("missing title: err = %v, want ErrInvalid", err)
	}
	if _, err := s.Create(Fields{Title: "x", Content: "  "}); !errors.Is(err, ErrInvalid) {
		t.Errorf("missing content: err = %v, want ErrInvalid", err)
	}
}

func TestCreateConflict(t *testing.T) {
	s, _ := setupTestStore(t, WithClock(fixedClock("2024-01-01T00:00:00Z")))
	if _, err := s.Create(Fields{Title: "Same", Content: "one"}); err != nil {
		t.Fatalf("first Create failed: %v", err)
	}
	if _, err := s.Create(Fields{Title: "Same", Content: "two"}); !errors.Is(err, ErrConflict) {
		t.Errorf("second Create err = %v, want ErrConflict", err)
	}
}

func TestUpdateMovesDateKeepsCreatedAt(t *testing.T) {
	now := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	s, _ := setupTestStore(t, WithClock(func() time.Time { return now }))

	name, err := s.Create(Fields{Title: "Evolving", Content: "v1"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	for i, day := range []int{5, 9} {
		now = time.Date(2024, 1, day, 9, 0, 0, 0, time.UTC)
		if err := s.Update(name, Fields{Title: "Evolving", Content: "v" + string(rune('2'+i)), Published: true}); err != nil {
			t.Fatalf("Update %d failed: %v", i, err)
		}
	}

	got, err := s.Get(name)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.CreatedAt != "2024-01-01" {
		t.Errorf("CreatedAt = %q, want %q", got.CreatedAt, "2024-01-01")
	}
	if got.Date != "2024-01-09" {
		t.Errorf("Date = %q, want %q", got.Date, "2024-01-09")
	}
	if got.UpdatedAt != "2024-01-09" {
		t.Errorf("UpdatedAt = %q, want %q", got.UpdatedAt, "2024-01-09")
	}
	if got.Content != "v3" || !got.Published {
		t.Errorf("Content = %q, Published = %v", got.Content, got.Published)
	}
}

func TestUpdateLegacyFileWithoutCreatedAt(t *testing.T) {
	s, dir := setupTestStore(t, WithClock(fixedClock("2024-06-01T00:00:00Z")))
	writePostFile(t, dir, "legacy.mdx", "---\ntitle: \"Legacy\"\ndate: \"2023-12-24\"\npublished: \"true\"\n---\n\nold")

	if err := s.Update("legacy.mdx", Fields{Title: "Legacy", Content: "new"}); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	got, err := s.Get("legacy.mdx")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.CreatedAt != "2024-06-01" {
		t.Errorf("CreatedAt = %q, want today", got.CreatedAt)
	}
	if got.Date != "2024-06-01" || got.UpdatedAt != "2024-06-01" {
		t.Errorf("Date = %q, UpdatedAt = %q, want today", got.Date, got.UpdatedAt)
	}
}

func TestUpdateNotFound(t *testing.T) {
	s, _ := setupTestStore(t)
	err := s.Update("missing.mdx", Fields{Title: "x", Content: "y"})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestDelete(t *testing.T) {
	s, dir := setupTestStore(t)
	writePostFile(t, dir, "gone.mdx", "---\ntitle: Gone\n---\n\nbye")

	if err := s.Delete("gone.mdx"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := s.GetBySlug("gone"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetBySlug after delete: err = %v, want ErrNotFound", err)
	}
	if err := s.Delete("gone.mdx"); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Delete: err = %v, want ErrNotFound", err)
	}
}

func TestGetBySlugPrefersMDX(t *testing.T) {
	s, dir := setupTestStore(t)
	writePostFile(t, dir, "dup.md", "---\ntitle: From MD\n---\n\nmd")
	writePostFile(t, dir, "dup.mdx", "---\ntitle: From MDX\n---\n\nmdx")

	got, err := s.GetBySlug("dup")
	if err != nil {
		t.Fatalf("GetBySlug failed: %v", err)
	}
	if got.Title != "From MDX" {
		t.Errorf("Title = %q, want %q", got.Title, "From MDX")
	}
	got, err = s.GetBySlug("dup.md")
	if err != nil {
		t.Fatalf("GetBySlug with extension failed: %v", err)
	}
	if got.Title != "From MDX" {
		t.Errorf("extension should be stripped before lookup, got %q", got.Title)
	}
}

func TestGetBySlugNotFound(t *testing.T) {
	s, _ := setupTestStore(t)
	if _, err := s.GetBySlug("nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestRejectsPathTraversal(t *testing.T) {
	s, _ := setupTestStore(t)
	for _, name := range []string{"../secret.md", "a/b.mdx", "..", `..\x.md`} {
		if _, err := s.Get(name); !errors.Is(err, ErrInvalid) {
			t.Errorf("Get(%q) err = %v, want ErrInvalid", name, err)
		}
		if err := s.Delete(name); !errors.Is(err, ErrInvalid) {
			t.Errorf("Delete(%q) err = %v, want ErrInvalid", name, err)
		}
	}
	if _, err := s.Get("notes.txt"); !errors.Is(err, ErrInvalid) {
		t.Errorf("Get(notes.txt) err = %v, want ErrInvalid", err)
	}
}

func TestReadDefaultsAreConfigurable(t *testing.T) {
	s, dir := setupTestStore(t, WithReadDefaults(Defaults{Category: "Misc", Author: "Me"}))
	writePostFile(t, dir, "x.md", "---\ntitle: X\n---\n\nbody")
	got, err := s.GetBySlug("x")
	if err != nil {
		t.Fatalf("GetBySlug failed: %v", err)
	}
	if got.Category != "Misc" || got.Author != "Me" {
		t.Errorf("Category = %q, Author = %q", got.Category, got.Author)
	}
}
