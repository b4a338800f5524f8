package littlehouse

import (
	"encoding/json"
	"net/url"
	"os"
	"path"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/eringen/littlehouse/content"
)

// BuildURL joins a base URL with path segments, ensuring a trailing slash.
// Segments are escaped, so tags and categories may contain any text.
func BuildURL(base string, pathSegments ...string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	u.Path = path.Join(u.Path, path.Join(pathSegments...))
	if len(pathSegments) > 0 && !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return u.String()
}

// FilterEmpty removes empty/whitespace-only strings from a slice.
func FilterEmpty(vals []string) []string {
	var out []string
	for _, v := range vals {
		if s := strings.TrimSpace(v); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// SplitTags splits comma-separated tag input, accepting both ASCII and
// full-width commas.
func SplitTags(vals []string) []string {
	var out []string
	for _, v := range vals {
		v = strings.ReplaceAll(v, "，", ",")
		out = append(out, FilterEmpty(strings.Split(v, ","))...)
	}
	return out
}

// JoinTags joins tags with ", ".
func JoinTags(tags []string) string {
	return strings.Join(tags, ", ")
}

// PathEscape escapes a string for use in a URL path.
func PathEscape(s string) string {
	return url.PathEscape(s)
}

// pathParam returns a route parameter, unescaping it when the request was
// routed on its raw path.
func pathParam(c echo.Context, name string) (string, error) {
	v := c.Param(name)
	if c.Request().URL.RawPath == "" {
		return v, nil
	}
	s, err := url.PathUnescape(v)
	if err != nil {
		return "", echo.ErrNotFound
	}
	return s, nil
}

func fileExists(name string) bool {
	info, err := os.Stat(name)
	return err == nil && !info.IsDir()
}

// WebsiteJsonLD returns a JSON-LD string for a WebSite schema.
func WebsiteJsonLD(site Site) string {
	data := map[string]interface{}{
		"@context":    "https://schema.org",
		"@type":       "WebSite",
		"name":        site.Name,
		"url":         BuildURL(site.URL),
		"description": site.Description,
	}
	if site.Author != "" {
		data["author"] = map[string]string{
			"@type": "Person",
			"name":  site.Author,
		}
	}
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return string(b)
}

// BlogPostingJsonLD returns a JSON-LD string for a BlogPosting schema.
func BlogPostingJsonLD(post content.PostMeta, site Site) string {
	postURL := BuildURL(site.URL, "blog", post.Slug)
	data := map[string]interface{}{
		"@context":      "https://schema.org",
		"@type":         "BlogPosting",
		"headline":      post.Title,
		"description":   post.Excerpt,
		"datePublished": post.Date,
		"url":           postURL,
		"wordCount":     post.WordCount,
		"mainEntityOfPage": map[string]string{
			"@type": "WebPage",
			"@id":   postURL,
		},
	}
	if post.UpdatedAt != "" {
		data["dateModified"] = post.UpdatedAt
	}
	if post.CoverImage != "" {
		data["image"] = absURL(site.URL, post.CoverImage)
	}
	if author := firstNonEmpty(post.Author, site.Author); author != "" {
		data["author"] = map[string]string{
			"@type": "Person",
			"name":  author,
		}
	}
	if site.Name != "" {
		data["publisher"] = map[string]string{
			"@type": "Organization",
			"name":  site.Name,
		}
	}
	if post.Category != "" {
		data["articleSection"] = post.Category
	}
	if len(post.Tags) > 0 {
		data["keywords"] = strings.Join(post.Tags, ", ")
	}
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return string(b)
}

// absURL resolves a site-relative link such as /public/uploads/a.jpg.
func absURL(base, link string) string {
	if strings.HasPrefix(link, "http://") || strings.HasPrefix(link, "https://") {
		return link
	}
	return strings.TrimSuffix(base, "/") + "/" + strings.TrimPrefix(link, "/")
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
