package content

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const delimiter = "---"

var errUnterminated = errors.New("unterminated front matter")

// frontMatter is the typed form of the YAML block at the top of a post.
// Field types are tolerant: files written by hand, by older tooling, or by
// the original site quote every scalar.
type frontMatter struct {
	Title      scalar  `yaml:"title"`
	Date       scalar  `yaml:"date"`
	Excerpt    scalar  `yaml:"excerpt"`
	Category   scalar  `yaml:"category"`
	Tags       tagList `yaml:"tags"`
	Author     scalar  `yaml:"author"`
	CoverImage scalar  `yaml:"coverImage"`
	Published  flag    `yaml:"published"`
	CreatedAt  scalar  `yaml:"createdAt"`
	UpdatedAt  scalar  `yaml:"updatedAt"`
}

// scalar keeps the literal text of any YAML scalar, so dates, numbers and
// booleans all survive as strings.
type scalar string

func (s *scalar) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: expected a scalar value", n.Line)
	}
	if n.ShortTag() == "!!null" {
		*s = ""
		return nil
	}
	*s = scalar(n.Value)
	return nil
}

// flag is true only for a YAML boolean true or the exact string "true".
// Anything else, including 1, "t" and yes, leaves the post unpublished.
type flag bool

func (f *flag) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: expected a boolean", n.Line)
	}
	*f = false
	switch n.ShortTag() {
	case "!!bool":
		var v bool
		if err := n.Decode(&v); err != nil {
			return nil
		}
		*f = flag(v)
	case "!!str":
		*f = n.Value == "true"
	}
	return nil
}

// tagList accepts a YAML sequence or a comma-separated string.
type tagList []string

func (t *tagList) UnmarshalYAML(n *yaml.Node) error {
	var out []string
	switch n.Kind {
	case yaml.SequenceNode:
		for _, item := range n.Content {
			if item.Kind != yaml.ScalarNode {
				return fmt.Errorf("line %d: tags must be scalars", item.Line)
			}
			if v := strings.TrimSpace(item.Value); v != "" {
				out = append(out, v)
			}
		}
	case yaml.ScalarNode:
		for _, part := range strings.Split(n.Value, ",") {
			if v := strings.TrimSpace(part); v != "" {
				out = append(out, v)
			}
		}
	default:
		return fmt.Errorf("line %d: tags must be a list", n.Line)
	}
	*t = out
	return nil
}

// splitFrontMatter separates the YAML block from the markdown body. A file
// that does not open with a delimiter line has no front matter. The blank
// line written after the closing delimiter is not part of the body.
func splitFrontMatter(raw []byte) (meta []byte, body string, err error) {
	raw = bytes.TrimPrefix(raw, []byte("\xef\xbb\xbf"))
	first, rest, ok := cutLine(raw)
	if !ok || string(bytes.TrimRight(first, "\r")) != delimiter {
		return nil, string(raw), nil
	}
	start := rest
	offset := 0
	for len(rest) > 0 {
		line, next, _ := cutLine(rest)
		if string(bytes.TrimRight(line, "\r")) == delimiter {
			meta = start[:offset]
			body := next
			switch {
			case bytes.HasPrefix(body, []byte("\r\n")):
				body = body[2:]
			case bytes.HasPrefix(body, []byte("\n")):
				body = body[1:]
			}
			return meta, string(body), nil
		}
		offset += len(rest) - len(next)
		rest = next
	}
	return nil, "", errUnterminated
}

// cutLine returns the first line of b without its newline and the remainder.
// ok is false when b holds no newline at all.
func cutLine(b []byte) (line, rest []byte, ok bool) {
	i := bytes.IndexByte(b, '\n')
	if i < 0 {
		return b, nil, false
	}
	return b[:i], b[i+1:], true
}

func parseFrontMatter(raw []byte) (frontMatter, string, error) {
	var fm frontMatter
	meta, body, err := splitFrontMatter(raw)
	if err != nil {
		return fm, "", err
	}
	if len(bytes.TrimSpace(meta)) == 0 {
		return fm, body, nil
	}
	if err := yaml.Unmarshal(meta, &fm); err != nil {
		return fm, "", fmt.Errorf("front matter: %w", err)
	}
	return fm, body, nil
}

// marshalPost renders a post as a front matter block followed by a blank
// line and the body.
func marshalPost(m PostMeta, body string) []byte {
	var b bytes.Buffer
	b.WriteString(delimiter + "\n")
	writeScalar(&b, "title", m.Title)
	writeScalar(&b, "date", m.Date)
	writeScalar(&b, "excerpt", m.Excerpt)
	writeScalar(&b, "category", m.Category)
	writeList(&b, "tags", m.Tags)
	writeScalar(&b, "author", m.Author)
	fmt.Fprintf(&b, "published: %t\n", m.Published)
	if m.CoverImage != "" {
		writeScalar(&b, "coverImage", m.CoverImage)
	}
	if m.CreatedAt != "" {
		writeScalar(&b, "createdAt", m.CreatedAt)
	}
	if m.UpdatedAt != "" {
		writeScalar(&b, "updatedAt", m.UpdatedAt)
	}
	b.WriteString(delimiter + "\n\n")
	b.WriteString(body)
	return b.Bytes()
}

func writeScalar(b *bytes.Buffer, key, value string) {
	b.WriteString(key)
	b.WriteString(": ")
	b.WriteString(strconv.Quote(value))
	b.WriteByte('\n')
}

func writeList(b *bytes.Buffer, key string, values []string) {
	b.WriteString(key)
	b.WriteString(": [")
	for i, v := range values {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(strconv.Quote(v))
	}
	b.WriteString("]\n")
}
