// Package segmenter splits a rendered page into search documents, one per
// stretch of text between block boundaries, each stamped with the heading
// hierarchy active where the text appeared.
package segmenter

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/cnlancehu/vuepress-plugin-meilisearch-indexer/models"
	"github.com/cnlancehu/vuepress-plugin-meilisearch-indexer/pkg/hierarchy"
)

// truncationMarker is the comment the site generator leaves where an
// excerpt ends, e.g. <!-- more -->.
const truncationMarker = "more"

var whitespaceRuns = regexp.MustCompile(`\s+`)

// Segment walks the rendered markup of a page and returns its search
// documents. Empty markup and markup the parser rejects yield nil; markup
// that parses but produces no emission yields a single placeholder so the
// page title stays findable. When indexContent is false only pages with
// an excerpt contribute content, and only up to the truncation marker.
func Segment(page models.Page, baseURL string, indexContent bool) []models.SearchDocument {
	if page.HTML == "" {
		return nil
	}
	nodes, err := html.ParseFragment(strings.NewReader(page.HTML), &html.Node{
		Type:     html.ElementNode,
		Data:     "body",
		DataAtom: atom.Body,
	})
	if err != nil {
		return nil
	}

	lang := page.Lang
	if lang == "" {
		lang = "en"
	}
	w := &walker{
		url:          baseURL + page.Path,
		lang:         lang,
		pageRank:     page.PageRank(),
		indexContent: indexContent,
		hasExcerpt:   page.HasExcerpt,
		tracker:      hierarchy.NewTracker(page.Title),
	}
	for _, n := range nodes {
		w.walk(n, false)
	}
	if w.buf.Len() > 0 {
		w.flush()
	}
	return w.finish(page.Title)
}

type walker struct {
	url          string
	lang         string
	pageRank     float64
	indexContent bool
	hasExcerpt   bool

	tracker *hierarchy.Tracker
	buf     strings.Builder
	// preserved marks that the buffer received text from inside a pre
	// block, so the flush must not collapse its whitespace.
	preserved bool
	truncated bool
	docs      []models.SearchDocument
}

func (w *walker) walk(n *html.Node, preserve bool) {
	switch n.Type {
	case html.TextNode:
		if preserve {
			w.buf.WriteString(n.Data)
			w.preserved = true
			return
		}
		if strings.TrimSpace(n.Data) != "" {
			w.buf.WriteString(n.Data)
		}

	case html.CommentNode:
		// The excerpt marker ends content indexing unless the full
		// body was requested anyway. Flush first: text before the
		// marker belongs to the excerpt.
		if !w.indexContent && w.hasExcerpt && !w.truncated &&
			strings.TrimSpace(n.Data) == truncationMarker {
			w.flush()
			w.truncated = true
		}

	case html.ElementNode:
		if level, ok := headingLevels[n.Data]; ok {
			w.flush()
			w.tracker.Observe(level, headingText(n), attrVal(n, "id"))
			return
		}
		if blockTags[n.Data] {
			w.flush()
			childPreserve := preserve || preserveTags[n.Data]
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				w.walk(c, childPreserve)
			}
			return
		}
		if inlineTags[n.Data] {
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				w.walk(c, preserve)
			}
		}
	}
}

// flush empties the accumulator and, while indexing is active, appends a
// document stamped with the current hierarchy snapshot. Documents whose
// content normalizes to empty are appended too; the post-processing in
// finish decides whether they survive.
func (w *walker) flush() {
	raw := w.buf.String()
	preserved := w.preserved
	w.buf.Reset()
	w.preserved = false

	if !w.active() {
		return
	}

	var content string
	if preserved {
		content = strings.TrimSpace(raw)
	} else {
		content = strings.TrimSpace(whitespaceRuns.ReplaceAllString(raw, " "))
	}

	snap := w.tracker.Snapshot()
	doc := models.SearchDocument{
		Content:  content,
		URL:      w.url,
		Anchor:   snap.Anchor,
		Lang:     w.lang,
		Level:    snap.Depth,
		Position: len(w.docs),
		PageRank: w.pageRank,
	}
	doc.ObjectID = ObjectID(w.url, snap.Anchor, doc.Position)
	doc.SetHierarchy(snap.Levels)
	w.docs = append(w.docs, doc)
}

// active reports whether flushes emit documents. Full-content builds
// always emit; excerpt builds emit until the truncation marker.
func (w *walker) active() bool {
	return w.indexContent || (w.hasExcerpt && !w.truncated)
}

// finish applies post-processing: documents with content win, an all-empty
// emission is returned as-is, and a page that emitted nothing gets one
// placeholder carrying just the title.
func (w *walker) finish(title string) []models.SearchDocument {
	var nonEmpty []models.SearchDocument
	for _, d := range w.docs {
		if d.Content != "" {
			nonEmpty = append(nonEmpty, d)
		}
	}
	if len(nonEmpty) > 0 {
		return nonEmpty
	}
	if len(w.docs) > 0 {
		return w.docs
	}

	doc := models.SearchDocument{
		ObjectID: ObjectID(w.url, nil, 0),
		URL:      w.url,
		Lang:     w.lang,
		PageRank: w.pageRank,
	}
	var levels [models.HierarchyDepth]*string
	levels[0] = &title
	doc.SetHierarchy(levels)
	return []models.SearchDocument{doc}
}

// headingText collects a heading's visible text. Site generators wrap
// heading text in a permalink anchor; when that anchor is the sole child,
// the text comes from the anchor's first child so the permalink symbol
// never leaks into the hierarchy.
func headingText(n *html.Node) string {
	root := n
	if c := n.FirstChild; c != nil && c.NextSibling == nil &&
		c.Type == html.ElementNode && c.Data == "a" && hasClass(c, "header-anchor") {
		root = c.FirstChild
	}
	return strings.TrimSpace(whitespaceRuns.ReplaceAllString(collectText(root), " "))
}

func collectText(n *html.Node) string {
	if n == nil {
		return ""
	}
	var b strings.Builder
	var visit func(*html.Node)
	visit = func(node *html.Node) {
		if node.Type == html.TextNode {
			b.WriteString(node.Data)
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			visit(c)
		}
	}
	visit(n)
	return b.String()
}

func attrVal(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attrVal(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}
