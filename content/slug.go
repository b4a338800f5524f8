package content

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	extMDX = ".mdx"
	extMD  = ".md"
)

var (
	reSlugStrip  = regexp.MustCompile(`[^\w\x{4e00}-\x{9fa5}\s-]`)
	reWhitespace = regexp.MustCompile(`\s+`)
	reTimestamp  = regexp.MustCompile(`(\d{13})\.mdx?$`)
)

// Slugify turns a title into the slug part of a file name. Word characters,
// CJK ideographs and hyphens are kept; whitespace runs become hyphens.
func Slugify(title string) string {
	s := strings.ToLower(title)
	s = reSlugStrip.ReplaceAllString(s, "")
	s = reWhitespace.ReplaceAllString(s, "-")
	if s == "" {
		return "untitled"
	}
	return s
}

// NewFileName builds {YYYY-MM-DD}-{slug}-{epoch-ms}.mdx for a post created
// at t. The millisecond suffix orders posts written on the same day.
func NewFileName(title string, t time.Time) string {
	t = t.UTC()
	return fmt.Sprintf("%s-%s-%d%s", t.Format(dateLayout), Slugify(title), t.UnixMilli(), extMDX)
}

// SlugOf strips the markdown extension from a file name.
func SlugOf(fileName string) string {
	switch {
	case strings.HasSuffix(fileName, extMDX):
		return strings.TrimSuffix(fileName, extMDX)
	case strings.HasSuffix(fileName, extMD):
		return strings.TrimSuffix(fileName, extMD)
	}
	return fileName
}

// embeddedTimestamp returns the 13-digit millisecond timestamp that
// NewFileName puts before the extension.
func embeddedTimestamp(fileName string) (int64, bool) {
	m := reTimestamp.FindStringSubmatch(fileName)
	if m == nil {
		return 0, false
	}
	ts, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return 0, false
	}
	return ts, true
}

func isPostFile(name string) bool {
	return strings.HasSuffix(name, extMDX) || strings.HasSuffix(name, extMD)
}

// checkName rejects anything that is not a bare file name inside the posts
// directory.
func checkName(name string) error {
	if name == "" || name == "." || name == ".." ||
		strings.ContainsAny(name, `/\`) || filepath.Base(name) != name ||
		strings.Contains(name, "..") {
		return fmt.Errorf("%w: bad file name %q", ErrInvalid, name)
	}
	return nil
}

func checkFileName(name string) error {
	if err := checkName(name); err != nil {
		return err
	}
	if !isPostFile(name) {
		return fmt.Errorf("%w: %q is not a markdown file", ErrInvalid, name)
	}
	return nil
}
