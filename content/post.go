// Package content is the file-backed post store. Each post is a markdown
// file with YAML front matter in a single directory; nothing is indexed, so
// every read re-scans the directory.
package content

// PostMeta is a post's metadata without its markdown body.
type PostMeta struct {
	Slug        string   `json:"slug"`
	FileName    string   `json:"fileName"`
	Title       string   `json:"title"`
	Date        string   `json:"date"`
	Excerpt     string   `json:"excerpt"`
	Category    string   `json:"category"`
	Tags        []string `json:"tags"`
	Author      string   `json:"author"`
	CoverImage  string   `json:"coverImage,omitempty"`
	Published   bool     `json:"published"`
	CreatedAt   string   `json:"createdAt,omitempty"`
	UpdatedAt   string   `json:"updatedAt,omitempty"`
	ReadingTime string   `json:"readingTime"`
	WordCount   int      `json:"wordCount"`
}

// Link returns the public URL path of the post.
func (m PostMeta) Link() string {
	return "/blog/" + m.Slug + "/"
}

// Post is a post with its markdown body.
type Post struct {
	PostMeta
	Content string `json:"content"`
}

// Fields are the author-supplied values for Create and Update.
type Fields struct {
	Title      string   `json:"title" form:"title"`
	Content    string   `json:"content" form:"content"`
	Excerpt    string   `json:"excerpt" form:"excerpt"`
	Category   string   `json:"category" form:"category"`
	Tags       []string `json:"tags" form:"tags"`
	Author     string   `json:"author" form:"author"`
	CoverImage string   `json:"coverImage" form:"coverImage"`
	Published  bool     `json:"published" form:"published"`
}

// Defaults fill in metadata a post does not set.
type Defaults struct {
	Category string
	Author   string
}

// Count is a category or tag with the number of posts carrying it.
type Count struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}
