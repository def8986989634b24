package build

import (
	"github.com/cnlancehu/vuepress-plugin-meilisearch-indexer/models"
)

// Job is one page handed to a segmentation worker.
type Job struct {
	Index int
	Page  models.Page
}

// Result holds the outcome of one segmented page. Index preserves page
// order across the worker pool so document positions stay deterministic.
type Result struct {
	Index     int
	Path      string
	Documents []models.SearchDocument
	Error     error
	ErrorType string
}

// Stats provides summary statistics for the run.
type Stats struct {
	Pages            int            `json:"pages"`
	Skipped          int            `json:"skipped"`
	Failed           int            `json:"failed"`
	Documents        int            `json:"documents"`
	Languages        map[string]int `json:"languages,omitempty"`
	TotalTimeSeconds float64        `json:"total_time_seconds"`
}

// Summary is the structured line printed to stdout when a build ends.
type Summary struct {
	Status   string `json:"status"`
	Output   string `json:"output,omitempty"`
	Deployed bool   `json:"deployed"`
	Stats    Stats  `json:"stats"`
}
