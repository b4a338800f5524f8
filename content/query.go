package content

import "strings"

// Categories returns each distinct category with its post count, in the
// order categories first appear in posts.
func Categories(posts []PostMeta) []Count {
	return countBy(posts, func(m PostMeta) []string { return []string{m.Category} })
}

// Tags returns each distinct tag with its post count, in first-seen order.
func Tags(posts []PostMeta) []Count {
	return countBy(posts, func(m PostMeta) []string { return m.Tags })
}

func countBy(posts []PostMeta, keys func(PostMeta) []string) []Count {
	index := make(map[string]int)
	var out []Count
	for _, p := range posts {
		seen := make(map[string]struct{})
		for _, k := range keys(p) {
			if k == "" {
				continue
			}
			if _, dup := seen[k]; dup {
				continue
			}
			seen[k] = struct{}{}
			if i, ok := index[k]; ok {
				out[i].Count++
				continue
			}
			index[k] = len(out)
			out = append(out, Count{Name: k, Count: 1})
		}
	}
	return out
}

// FilterByCategory keeps posts whose category equals category exactly.
func FilterByCategory(posts []PostMeta, category string) []PostMeta {
	var out []PostMeta
	for _, p := range posts {
		if p.Category == category {
			out = append(out, p)
		}
	}
	return out
}

// FilterByTag keeps posts carrying tag exactly.
func FilterByTag(posts []PostMeta, tag string) []PostMeta {
	var out []PostMeta
	for _, p := range posts {
		for _, t := range p.Tags {
			if t == tag {
				out = append(out, p)
				break
			}
		}
	}
	return out
}

// Related returns up to n other posts sharing a tag (case-insensitive) or,
// failing that, the category with current.
func Related(current PostMeta, posts []PostMeta, n int) []PostMeta {
	tagSet := make(map[string]struct{})
	for _, t := range current.Tags {
		tagSet[strings.ToLower(strings.TrimSpace(t))] = struct{}{}
	}
	var byTag, byCategory []PostMeta
	for _, p := range posts {
		if p.Slug == current.Slug {
			continue
		}
		shared := false
		for _, t := range p.Tags {
			if _, ok := tagSet[strings.ToLower(strings.TrimSpace(t))]; ok {
				shared = true
				break
			}
		}
		switch {
		case shared:
			byTag = append(byTag, p)
		case p.Category == current.Category:
			byCategory = append(byCategory, p)
		}
	}
	related := append(byTag, byCategory...)
	if n > 0 && len(related) > n {
		related = related[:n]
	}
	return related
}
