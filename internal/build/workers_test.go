package build

import (
	"io"
	"log/slog"
	"testing"

	"github.com/cnlancehu/vuepress-plugin-meilisearch-indexer/models"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRun_PreservesPageOrder(t *testing.T) {
	pagesIn := []models.Page{
		{Path: "/a/", Title: "A", HTML: "<p>alpha</p>"},
		{Path: "/b/", Title: "B", HTML: "<p>beta</p>"},
		{Path: "/c/", Title: "C", HTML: "<p>gamma</p>"},
	}

	results := run(testLogger(), pagesIn, "https://docs.example.com", true, 3)
	if len(results) != 3 {
		t.Fatalf("run() returned %d results, want 3", len(results))
	}

	wantPaths := []string{"/a/", "/b/", "/c/"}
	for i, want := range wantPaths {
		if results[i].Path != want {
			t.Errorf("results[%d].Path = %q, want %q", i, results[i].Path, want)
		}
	}

	if got := results[1].Documents[0].Content; got != "beta" {
		t.Errorf("results[1] content = %q, want %q", got, "beta")
	}
	if got := results[0].Documents[0].URL; got != "https://docs.example.com/a/" {
		t.Errorf("results[0] URL = %q, want %q", got, "https://docs.example.com/a/")
	}
}

func TestRun_RecordsParseErrors(t *testing.T) {
	pagesIn := []models.Page{
		{Path: "/ok/", Title: "OK", HTML: "<p>fine</p>"},
		{Path: "/broken/", Title: "Broken", HTML: ""},
	}

	results := run(testLogger(), pagesIn, "", true, 2)
	if len(results) != 2 {
		t.Fatalf("run() returned %d results, want 2", len(results))
	}

	if results[0].Error != nil {
		t.Errorf("results[0].Error = %v, want nil", results[0].Error)
	}
	if results[1].Error == nil {
		t.Fatal("results[1].Error = nil, want parse failure")
	}
	if results[1].ErrorType != "parse_error" {
		t.Errorf("results[1].ErrorType = %q, want %q", results[1].ErrorType, "parse_error")
	}
	if len(results[1].Documents) != 0 {
		t.Errorf("failed page produced %d documents, want 0", len(results[1].Documents))
	}
}

func TestRun_NoPages(t *testing.T) {
	results := run(testLogger(), nil, "", true, 4)
	if len(results) != 0 {
		t.Fatalf("run() returned %d results, want 0", len(results))
	}
}
