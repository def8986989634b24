// Package pages loads the rendered pages of a built site, either from a
// manifest the site generator emits or by walking the generator's output
// directory.
package pages

import (
	"context"
	"regexp"

	"github.com/cnlancehu/vuepress-plugin-meilisearch-indexer/models"
)

// Source enumerates the pages of a built site in a stable order.
type Source interface {
	Pages(ctx context.Context) ([]models.Page, error)
}

// excerptMarker matches the comment a generator leaves where the excerpt
// ends.
var excerptMarker = regexp.MustCompile(`<!--\s*more\s*-->`)

// hasExcerpt reports whether a page declares an excerpt, either through
// frontmatter or by carrying the marker in its markup.
func hasExcerpt(frontmatter map[string]any, markup string) bool {
	switch v := frontmatter["excerpt"].(type) {
	case bool:
		if v {
			return true
		}
	case string:
		if v != "" {
			return true
		}
	}
	return excerptMarker.MatchString(markup)
}
