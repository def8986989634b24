package models

import "strconv"

// Page is one rendered page of a built site, ready for segmentation.
// HTML holds the rendered content region markup, not the full document.
type Page struct {
	Path        string         `json:"path"`
	Title       string         `json:"title"`
	Lang        string         `json:"lang"`
	Frontmatter map[string]any `json:"frontmatter"`
	HTML        string         `json:"html"`
	HasExcerpt  bool           `json:"has_excerpt"`
}

// SearchEnabled reports whether frontmatter opts the page into the index.
// Only an explicit `search: false` opts out.
func (p Page) SearchEnabled() bool {
	v, ok := p.Frontmatter["search"]
	if !ok {
		return true
	}
	enabled, isBool := v.(bool)
	if !isBool {
		return true
	}
	return enabled
}

// PageRank returns the ranking weight from frontmatter, 0 when unset.
// YAML frontmatter yields ints, JSON manifests yield float64s; authors
// occasionally quote the number, so strings are coerced too.
func (p Page) PageRank() float64 {
	v, ok := p.Frontmatter["page_rank"]
	if !ok {
		v, ok = p.Frontmatter["pageRank"]
	}
	if !ok {
		return 0
	}
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case string:
		if f, err := strconv.ParseFloat(n, 64); err == nil {
			return f
		}
	}
	return 0
}

// ShouldIndex reports whether the page participates in the search index
// at all. The generated 404 page never does.
func (p Page) ShouldIndex() bool {
	return p.SearchEnabled() && p.Path != "/404.html"
}
