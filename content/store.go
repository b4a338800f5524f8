package content

import (
	"cmp"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// Logger receives warnings about files skipped during a scan. echo.Logger
// satisfies it.
type Logger interface {
	Warnf(format string, args ...interface{})
}

type stdLogger struct{}

func (stdLogger) Warnf(format string, args ...interface{}) {
	log.Printf("content: "+format, args...)
}

// Store reads and writes posts in a single directory. It holds no state
// besides its configuration and is safe for concurrent use; concurrent
// writers to the same file name race and the last write wins.
type Store struct {
	dir           string
	readDefaults  Defaults
	writeDefaults Defaults
	now           func() time.Time
	logger        Logger
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets where skipped-file warnings go (default: the log package).
func WithLogger(l Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock replaces time.Now for file names and date stamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// WithReadDefaults sets the metadata filled in when a file omits it.
func WithReadDefaults(d Defaults) Option {
	return func(s *Store) {
		s.readDefaults = d
	}
}

// WithWriteDefaults sets the metadata filled in when an author omits it.
func WithWriteDefaults(d Defaults) Option {
	return func(s *Store) {
		s.writeDefaults = d
	}
}

// NewStore returns a Store for dir. The directory is created on the first
// write, not here.
func NewStore(dir string, opts ...Option) *Store {
	s := &Store{
		dir:           dir,
		readDefaults:  Defaults{Category: "Uncategorized"},
		writeDefaults: Defaults{Category: "日常记录", Author: "小屋主人"},
		now:           time.Now,
		logger:        stdLogger{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Dir returns the posts directory.
func (s *Store) Dir() string {
	return s.dir
}

// ListPublished returns published posts, newest first. A positive limit
// caps the number returned.
func (s *Store) ListPublished(limit int) ([]PostMeta, error) {
	all, err := s.ListAll()
	if err != nil {
		return nil, err
	}
	published := make([]PostMeta, 0, len(all))
	for _, m := range all {
		if m.Published {
			published = append(published, m)
		}
	}
	if limit > 0 && len(published) > limit {
		published = published[:limit]
	}
	return published, nil
}

// ListAll returns every post, drafts included, newest first. Files that
// cannot be read or parsed are logged and left out.
func (s *Store) ListAll() ([]PostMeta, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []PostMeta{}, nil
		}
		return nil, fmt.Errorf("list %s: %w", s.dir, err)
	}
	posts := make([]PostMeta, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !isPostFile(e.Name()) {
			continue
		}
		p, err := s.read(e.Name())
		if err != nil {
			s.logger.Warnf("skipping %s: %v", e.Name(), err)
			continue
		}
		posts = append(posts, p.PostMeta)
	}
	SortPosts(posts)
	return posts, nil
}

// GetBySlug resolves slug to {slug}.mdx, then {slug}.md.
func (s *Store) GetBySlug(slug string) (Post, error) {
	slug = SlugOf(slug)
	if err := checkName(slug); err != nil {
		return Post{}, err
	}
	for _, ext := range []string{extMDX, extMD} {
		p, err := s.read(slug + ext)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		return p, err
	}
	return Post{}, fmt.Errorf("%w: %s", ErrNotFound, slug)
}

// Get reads a post by its exact file name.
func (s *Store) Get(fileName string) (Post, error) {
	if err := checkFileName(fileName); err != nil {
		return Post{}, err
	}
	return s.read(fileName)
}

// Create writes a new post and returns its file name.
func (s *Store) Create(f Fields) (string, error) {
	if err := requireFields(f); err != nil {
		return "", err
	}
	now := s.now()
	name := NewFileName(f.Title, now)
	today := now.UTC().Format(dateLayout)
	meta := s.metaFromFields(f)
	meta.Date = today
	meta.CreatedAt = today

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create %s: %w", s.dir, err)
	}
	path := filepath.Join(s.dir, name)
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return "", fmt.Errorf("%w: %s", ErrConflict, name)
		}
		return "", fmt.Errorf("create %s: %w", name, err)
	}
	if _, err := file.Write(marshalPost(meta, f.Content)); err != nil {
		file.Close()
		os.Remove(path)
		return "", fmt.Errorf("write %s: %w", name, err)
	}
	if err := file.Close(); err != nil {
		return "", fmt.Errorf("write %s: %w", name, err)
	}
	return name, nil
}

// Update rewrites an existing post. date and updatedAt move to today;
// createdAt is kept when the file has one and is today otherwise.
func (s *Store) Update(fileName string, f Fields) error {
	if err := checkFileName(fileName); err != nil {
		return err
	}
	if err := requireFields(f); err != nil {
		return err
	}
	path := filepath.Join(s.dir, fileName)
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrNotFound, fileName)
		}
		return fmt.Errorf("read %s: %w", fileName, err)
	}
	today := s.now().UTC().Format(dateLayout)
	meta := s.metaFromFields(f)
	// An unparseable file is still rewritten; it just loses its createdAt.
	if old, _, err := parseFrontMatter(raw); err == nil {
		meta.CreatedAt = string(old.CreatedAt)
	}
	meta.Date = today
	meta.CreatedAt = cmp.Or(meta.CreatedAt, today)
	meta.UpdatedAt = today

	return writeFileAtomic(path, marshalPost(meta, f.Content))
}

// Delete removes a post file.
func (s *Store) Delete(fileName string) error {
	if err := checkFileName(fileName); err != nil {
		return err
	}
	if err := os.Remove(filepath.Join(s.dir, fileName)); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrNotFound, fileName)
		}
		return fmt.Errorf("delete %s: %w", fileName, err)
	}
	return nil
}

func (s *Store) read(name string) (Post, error) {
	path := filepath.Join(s.dir, name)
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Post{}, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return Post{}, fmt.Errorf("read %s: %w", name, err)
	}
	fm, body, err := parseFrontMatter(raw)
	if err != nil {
		return Post{}, fmt.Errorf("parse %s: %w", name, err)
	}
	slug := SlugOf(name)
	date := string(fm.Date)
	if date == "" {
		if info, err := os.Stat(path); err == nil {
			date = info.ModTime().UTC().Format(dateLayout)
		}
	}
	tags := []string(fm.Tags)
	if tags == nil {
		tags = []string{}
	}
	words := countWords(body)
	return Post{
		PostMeta: PostMeta{
			Slug:        slug,
			FileName:    name,
			Title:       cmp.Or(string(fm.Title), slug),
			Date:        date,
			Excerpt:     string(fm.Excerpt),
			Category:    cmp.Or(string(fm.Category), s.readDefaults.Category),
			Tags:        tags,
			Author:      cmp.Or(string(fm.Author), s.readDefaults.Author),
			CoverImage:  string(fm.CoverImage),
			Published:   bool(fm.Published),
			CreatedAt:   string(fm.CreatedAt),
			UpdatedAt:   string(fm.UpdatedAt),
			ReadingTime: readingTime(words),
			WordCount:   words,
		},
		Content: body,
	}, nil
}

func (s *Store) metaFromFields(f Fields) PostMeta {
	tags := make([]string, 0, len(f.Tags))
	for _, t := range f.Tags {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return PostMeta{
		Title:      strings.TrimSpace(f.Title),
		Excerpt:    f.Excerpt,
		Category:   cmp.Or(strings.TrimSpace(f.Category), s.writeDefaults.Category),
		Tags:       tags,
		Author:     cmp.Or(strings.TrimSpace(f.Author), s.writeDefaults.Author),
		CoverImage: strings.TrimSpace(f.CoverImage),
		Published:  f.Published,
	}
}

func requireFields(f Fields) error {
	if strings.TrimSpace(f.Title) == "" || strings.TrimSpace(f.Content) == "" {
		return fmt.Errorf("%w: title and content are required", ErrInvalid)
	}
	return nil
}

// writeFileAtomic replaces path through a temp file in the same directory.
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-"+filepath.Base(path)+"-*")
	if err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	return nil
}

// SortPosts orders posts newest first. Equal dates fall back to the
// millisecond timestamp in the file name, then to the file name itself.
func SortPosts(posts []PostMeta) {
	slices.SortStableFunc(posts, func(a, b PostMeta) int {
		if c := ParseDate(b.Date).Compare(ParseDate(a.Date)); c != 0 {
			return c
		}
		ta, okA := embeddedTimestamp(a.FileName)
		tb, okB := embeddedTimestamp(b.FileName)
		if okA && okB {
			return cmp.Compare(tb, ta)
		}
		return strings.Compare(b.FileName, a.FileName)
	})
}

var dateLayouts = []string{
	dateLayout,
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006/01/02",
}

// ParseDate reads a front matter date in any of the layouts posts use. It
// returns the zero time for dates it cannot read, which sorts them after
// every dated post.
func ParseDate(s string) time.Time {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
