package build

import (
	"errors"
	"log/slog"
	"sync"

	"github.com/cnlancehu/vuepress-plugin-meilisearch-indexer/models"
	"github.com/cnlancehu/vuepress-plugin-meilisearch-indexer/pkg/segmenter"
)

// run fans pages out to a worker pool and returns one result per page,
// in page order.
func run(logger *slog.Logger, pagesIn []models.Page, baseURL string, indexContent bool, workerCount int) []Result {
	logger.Info("starting segmentation", "pages", len(pagesIn), "workers", workerCount)

	var wg sync.WaitGroup
	jobs := make(chan Job, len(pagesIn))
	results := make(chan Result, len(pagesIn))

	for w := 1; w <= workerCount; w++ {
		wg.Add(1)
		go worker(w, logger, &wg, jobs, results, baseURL, indexContent)
	}

	for i, page := range pagesIn {
		jobs <- Job{Index: i, Page: page}
	}
	close(jobs)

	wg.Wait()
	close(results)
	logger.Info("all segmentation workers finished")

	ordered := make([]Result, len(pagesIn))
	for result := range results {
		ordered[result.Index] = result
	}
	return ordered
}

func worker(id int, logger *slog.Logger, wg *sync.WaitGroup, jobs <-chan Job, results chan<- Result, baseURL string, indexContent bool) {
	defer wg.Done()
	for job := range jobs {
		result := Result{Index: job.Index, Path: job.Page.Path}

		docs := segmenter.Segment(job.Page, baseURL, indexContent)
		if docs == nil {
			result.Error = errors.New("markup is empty or unparseable")
			result.ErrorType = "parse_error"
			logger.Warn("page produced no documents",
				"worker_id", id, "path", job.Page.Path, "error_type", result.ErrorType)
			results <- result
			continue
		}

		result.Documents = docs
		logger.Debug("page segmented", "worker_id", id, "path", job.Page.Path, "documents", len(docs))
		results <- result
	}
}
