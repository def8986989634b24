package build

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/cnlancehu/vuepress-plugin-meilisearch-indexer/internal/logging"
	"github.com/cnlancehu/vuepress-plugin-meilisearch-indexer/models"
	"github.com/cnlancehu/vuepress-plugin-meilisearch-indexer/pkg/deployer"
	"github.com/cnlancehu/vuepress-plugin-meilisearch-indexer/pkg/pages"
	"github.com/cnlancehu/vuepress-plugin-meilisearch-indexer/pkg/storage"
)

// Command is the build subcommand: load the site's pages, segment them
// into search documents, write the document set and optionally push it to
// the configured index.
func Command() *cli.Command {
	return &cli.Command{
		Name:  "build",
		Usage: "Segment a built site into search documents",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "YAML config file", Value: "indexer.yaml"},
			&cli.StringFlag{Name: "site-dir", Usage: "directory of the built site"},
			&cli.StringFlag{Name: "manifest", Usage: "page manifest emitted by the site generator"},
			&cli.StringFlag{Name: "base-url", Usage: "prefix prepended to page paths to form document URLs"},
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "file the document set is written to"},
			&cli.BoolFlag{Name: "full-content", Usage: "index full page bodies, not just excerpts", Value: true},
			&cli.BoolFlag{Name: "detect-language", Usage: "detect page language when markup omits it"},
			&cli.IntFlag{Name: "workers", Usage: "concurrent segmentation workers", Value: 4},
			&cli.BoolFlag{Name: "deploy", Usage: "push the documents to the configured index"},
			&cli.StringFlag{Name: "host", Usage: "MeiliSearch URL or sqlite:<path>"},
			&cli.StringFlag{Name: "api-key", Usage: "MeiliSearch API key"},
			&cli.StringFlag{Name: "index", Usage: "target index uid"},
			&cli.StringFlag{Name: "mode", Usage: "deploy mode: full or incremental"},
			&cli.BoolFlag{Name: "quiet", Aliases: []string{"q"}, Usage: "log errors only"},
		},
		Action: BuildAction,
	}
}

func BuildAction(c *cli.Context) error {
	logger := logging.New(c.Bool("quiet"))
	startTime := time.Now()

	cfg, err := resolveConfig(c)
	if err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(2)
	}

	source := newSource(cfg, logger)
	all, err := source.Pages(c.Context)
	if err != nil {
		logger.Error("failed to load pages", "error", err, "error_type", "read_error")
		os.Exit(2)
	}

	kept := make([]models.Page, 0, len(all))
	for _, p := range all {
		if p.ShouldIndex() {
			kept = append(kept, p)
		} else {
			logger.Debug("page excluded from index", "path", p.Path)
		}
	}
	skipped := len(all) - len(kept)

	results := run(logger, kept, cfg.BaseURL, cfg.IndexContent, cfg.WorkerCount)

	stats := Stats{Pages: len(kept), Skipped: skipped, Languages: map[string]int{}}
	docs := []models.SearchDocument{}
	for _, r := range results {
		if r.Error != nil {
			stats.Failed++
			continue
		}
		docs = append(docs, r.Documents...)
		for _, d := range r.Documents {
			stats.Languages[d.Lang]++
		}
	}
	stats.Documents = len(docs)
	summary := Summary{Status: "success"}

	if cfg.Output != "" {
		data, err := json.MarshalIndent(docs, "", "  ")
		if err != nil {
			logger.Error("failed to encode documents", "error", err, "error_type", "save_error")
			os.Exit(2)
		}
		store := &storage.Storage{}
		if err := store.SaveFile(cfg.Output, data); err != nil {
			logger.Error("failed to write document set",
				"error", err, "error_type", "save_error", "output", cfg.Output)
			summary.Status = "partial_failure"
		} else {
			summary.Output = cfg.Output
			logger.Info("document set written", "output", cfg.Output, "bytes", len(data))
		}
	}

	if c.Bool("deploy") {
		if err := deploy(c.Context, logger, cfg.Deploy, docs); err != nil {
			logger.Error("deploy failed", "error", err, "error_type", "deploy_error")
			summary.Status = "partial_failure"
		} else {
			summary.Deployed = true
		}
	}

	stats.TotalTimeSeconds = time.Since(startTime).Seconds()
	summary.Stats = stats

	out, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		logger.Error("failed to marshal summary", "error", err)
		os.Exit(2)
	}
	fmt.Println(string(out))

	if summary.Status != "success" {
		os.Exit(1)
	}
	return nil
}

// resolveConfig merges defaults, the optional config file and CLI flags,
// flags winning.
func resolveConfig(c *cli.Context) (models.Config, error) {
	cfg := models.DefaultConfig()
	store := &storage.Storage{}

	path := c.String("config")
	if c.IsSet("config") || store.HasFile(path) {
		loaded, err := models.LoadConfig(path)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}

	if c.IsSet("site-dir") {
		cfg.SiteDir = c.String("site-dir")
	}
	if c.IsSet("manifest") {
		cfg.Manifest = c.String("manifest")
	}
	if c.IsSet("base-url") {
		cfg.BaseURL = c.String("base-url")
	}
	if c.IsSet("output") {
		cfg.Output = c.String("output")
	}
	if c.IsSet("full-content") {
		cfg.IndexContent = c.Bool("full-content")
	}
	if c.IsSet("detect-language") {
		cfg.DetectLanguage = c.Bool("detect-language")
	}
	if c.IsSet("workers") {
		cfg.WorkerCount = c.Int("workers")
	}
	if c.IsSet("host") {
		cfg.Deploy.Host = c.String("host")
	}
	if c.IsSet("api-key") {
		cfg.Deploy.APIKey = c.String("api-key")
	}
	if c.IsSet("index") {
		cfg.Deploy.Index = c.String("index")
	}
	if c.IsSet("mode") {
		cfg.Deploy.Mode = models.DeployMode(c.String("mode"))
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func newSource(cfg models.Config, logger *slog.Logger) pages.Source {
	if cfg.Manifest != "" {
		return pages.NewManifestSource(cfg.Manifest)
	}
	return pages.NewSiteDirSource(cfg.SiteDir, pages.SiteDirOptions{
		Selectors:  cfg.ContentSelectors,
		DetectLang: cfg.DetectLanguage,
		Workers:    cfg.WorkerCount,
	}, logger)
}

func deploy(ctx context.Context, logger *slog.Logger, cfg models.DeployConfig, docs []models.SearchDocument) error {
	target, err := deployer.NewStore(cfg)
	if err != nil {
		return err
	}
	defer target.Close()

	mode, err := models.ParseDeployMode(string(cfg.Mode))
	if err != nil {
		return err
	}

	outcome, err := deployer.NewEngine(target, mode, logger).Sync(ctx, docs)
	if err != nil {
		return err
	}
	logger.Info("deploy finished",
		"mode", string(outcome.Mode), "documents", outcome.Documents, "duration", outcome.Duration.String())
	return nil
}
