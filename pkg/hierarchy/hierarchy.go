// Package hierarchy tracks the stack of active headings while a page is
// walked, so each emitted document can carry its full heading path.
package hierarchy

import "github.com/cnlancehu/vuepress-plugin-meilisearch-indexer/models"

// MaxLevel is the deepest HTML heading level tracked (h6).
const MaxLevel = 6

// Frame is one active heading. Anchor is empty when the heading carries
// no id attribute.
type Frame struct {
	Level  int
	Text   string
	Anchor string
}

// Tracker holds at most one frame per level. Level 0 is the page title
// and is never evicted; levels 1 through 6 follow the h1-h6 tags seen so
// far. A Tracker is not safe for concurrent use; each page walk owns one.
type Tracker struct {
	frames [models.HierarchyDepth]*Frame
}

// NewTracker seeds the stack with the page title at level 0.
func NewTracker(title string) *Tracker {
	t := &Tracker{}
	t.frames[0] = &Frame{Level: 0, Text: title}
	return t
}

// Observe records a heading, evicting every frame at the same level or
// deeper first. A heading never nests under an equal or deeper one, so an
// h2 after an h3 closes the h3's subtree. Levels outside 1..6 are ignored.
func (t *Tracker) Observe(level int, text, anchor string) {
	if level < 1 || level > MaxLevel {
		return
	}
	for l := level; l <= MaxLevel; l++ {
		t.frames[l] = nil
	}
	t.frames[level] = &Frame{Level: level, Text: text, Anchor: anchor}
}

// Snapshot is the immutable view of the stack a document is stamped with.
type Snapshot struct {
	// Levels holds the heading text per level, nil where no frame is
	// active.
	Levels [models.HierarchyDepth]*string
	// Depth is the level of the deepest active frame.
	Depth int
	// Anchor is the anchor of the deepest frame that has one, nil when
	// no active frame carries an id.
	Anchor *string
}

// Snapshot captures the current stack. The returned values do not alias
// tracker state and stay valid across later Observe calls.
func (t *Tracker) Snapshot() Snapshot {
	var s Snapshot
	for l, f := range t.frames {
		if f == nil {
			continue
		}
		text := f.Text
		s.Levels[l] = &text
		s.Depth = l
		if f.Anchor != "" {
			anchor := f.Anchor
			s.Anchor = &anchor
		}
	}
	return s
}
