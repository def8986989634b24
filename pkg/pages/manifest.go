package pages

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cnlancehu/vuepress-plugin-meilisearch-indexer/models"
)

// ManifestSource reads the JSON page manifest a site generator writes
// during its build, one record per rendered page. Page order follows the
// manifest.
type ManifestSource struct {
	path string
}

func NewManifestSource(path string) *ManifestSource {
	return &ManifestSource{path: path}
}

type manifestEntry struct {
	Path        string         `json:"path"`
	Title       string         `json:"title"`
	Lang        string         `json:"lang"`
	Frontmatter map[string]any `json:"frontmatter"`
	HTML        string         `json:"html"`
	// ContentFile points at a file holding the rendered markup, relative
	// to the manifest, for generators that keep the manifest itself
	// small.
	ContentFile string `json:"content_file"`
}

func (m *ManifestSource) Pages(ctx context.Context) ([]models.Page, error) {
	data, err := os.ReadFile(m.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	var entries []manifestEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse manifest %s: %w", m.path, err)
	}

	baseDir := filepath.Dir(m.path)
	pagesOut := make([]models.Page, 0, len(entries))
	for i, e := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if e.Path == "" {
			return nil, fmt.Errorf("manifest entry %d has no path", i)
		}

		markup := e.HTML
		if markup == "" && e.ContentFile != "" {
			raw, err := os.ReadFile(filepath.Join(baseDir, e.ContentFile))
			if err != nil {
				return nil, fmt.Errorf("failed to read content of %s: %w", e.Path, err)
			}
			markup = string(raw)
		}

		pagesOut = append(pagesOut, models.Page{
			Path:        e.Path,
			Title:       e.Title,
			Lang:        e.Lang,
			Frontmatter: e.Frontmatter,
			HTML:        markup,
			HasExcerpt:  hasExcerpt(e.Frontmatter, markup),
		})
	}
	return pagesOut, nil
}
