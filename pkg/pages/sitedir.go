package pages

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
	"golang.org/x/sync/errgroup"

	"github.com/cnlancehu/vuepress-plugin-meilisearch-indexer/models"
)

// DefaultSelectors are tried in order to locate the content region of a
// rendered page. They cover the default VuePress themes; pages no
// selector matches fall back to readability extraction.
var DefaultSelectors = []string{
	"main .theme-default-content",
	"main.page",
	"main",
	"article",
}

// SiteDirOptions tune how a site directory is walked.
type SiteDirOptions struct {
	// Selectors override DefaultSelectors when non-empty.
	Selectors []string
	// DetectLang infers a page language from its text when the markup
	// declares none.
	DetectLang bool
	// Workers caps concurrent page loads.
	Workers int
}

// SiteDirSource walks a generator's output directory and reconstructs
// pages from the rendered HTML files themselves. It is the source of
// choice when no manifest survived the site build.
type SiteDirSource struct {
	dir        string
	selectors  []string
	detectLang bool
	workers    int
	logger     *slog.Logger
}

func NewSiteDirSource(dir string, opts SiteDirOptions, logger *slog.Logger) *SiteDirSource {
	selectors := opts.Selectors
	if len(selectors) == 0 {
		selectors = DefaultSelectors
	}
	workers := opts.Workers
	if workers < 1 {
		workers = 4
	}
	return &SiteDirSource{
		dir:        dir,
		selectors:  selectors,
		detectLang: opts.DetectLang,
		workers:    workers,
		logger:     logger,
	}
}

// Pages loads every .html file under the directory, in path order. A page
// that cannot be read or parsed is logged and skipped; one broken file
// must not sink the whole build.
func (s *SiteDirSource) Pages(ctx context.Context) ([]models.Page, error) {
	var paths []string
	err := filepath.WalkDir(s.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), ".html") {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", s.dir, err)
	}
	sort.Strings(paths)

	loaded := make([]models.Page, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			page, err := s.loadPage(path)
			if err != nil {
				s.logger.Warn("skipping unreadable page",
					"path", path, "error", err, "error_type", "read_error")
				return nil
			}
			loaded[i] = page
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	pagesOut := make([]models.Page, 0, len(loaded))
	for _, p := range loaded {
		if p.Path != "" {
			pagesOut = append(pagesOut, p)
		}
	}
	return pagesOut, nil
}

func (s *SiteDirSource) loadPage(path string) (models.Page, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return models.Page{}, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(raw))
	if err != nil {
		return models.Page{}, fmt.Errorf("failed to parse HTML: %w", err)
	}

	page := models.Page{Path: s.logicalPath(path)}
	page.Title = pageTitle(doc)
	page.Lang, _ = doc.Find("html").Attr("lang")

	var markup, text string
	for _, sel := range s.selectors {
		region := doc.Find(sel).First()
		if region.Length() == 0 {
			continue
		}
		markup, err = region.Html()
		if err != nil {
			return models.Page{}, fmt.Errorf("failed to serialize content region: %w", err)
		}
		text = region.Text()
		break
	}

	if strings.TrimSpace(markup) == "" {
		// Themed layouts are gone or custom; let readability find the
		// article body instead.
		parser := readability.NewParser()
		article, err := parser.Parse(bytes.NewReader(raw), &url.URL{
			Scheme: "file",
			Path:   page.Path,
		})
		if err != nil {
			return models.Page{}, fmt.Errorf("no content region found: %w", err)
		}
		markup = article.Content
		text = article.TextContent
		if page.Title == "" {
			page.Title = article.Title
		}
	}

	page.HTML = markup
	page.HasExcerpt = hasExcerpt(nil, markup)
	if page.Lang == "" && s.detectLang {
		page.Lang = DetectLang(text)
	}
	return page, nil
}

// logicalPath maps an output file back to the URL path it is served at;
// directory indexes collapse to their directory.
func (s *SiteDirSource) logicalPath(path string) string {
	rel, err := filepath.Rel(s.dir, path)
	if err != nil {
		rel = path
	}
	p := "/" + filepath.ToSlash(rel)
	return strings.TrimSuffix(p, "index.html")
}

// pageTitle reads the document title, dropping the site-name suffix a
// theme appends after " | ".
func pageTitle(doc *goquery.Document) string {
	title := strings.TrimSpace(doc.Find("title").First().Text())
	if base, _, found := strings.Cut(title, " | "); found {
		return strings.TrimSpace(base)
	}
	return title
}
