package deploy

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/cnlancehu/vuepress-plugin-meilisearch-indexer/internal/logging"
	"github.com/cnlancehu/vuepress-plugin-meilisearch-indexer/models"
	"github.com/cnlancehu/vuepress-plugin-meilisearch-indexer/pkg/deployer"
	"github.com/cnlancehu/vuepress-plugin-meilisearch-indexer/pkg/storage"
)

// Summary is the machine-readable result printed to stdout.
type Summary struct {
	Status           string  `json:"status"`
	Mode             string  `json:"mode"`
	Documents        int     `json:"documents"`
	Input            string  `json:"input"`
	TotalTimeSeconds float64 `json:"total_time_seconds"`
}

// Command is the deploy subcommand: read a document set produced by build
// and push it to the configured index.
func Command() *cli.Command {
	return &cli.Command{
		Name:  "deploy",
		Usage: "Push a built document set to the search index",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "YAML config file", Value: "indexer.yaml"},
			&cli.StringFlag{Name: "input", Aliases: []string{"i"}, Usage: "document set produced by build"},
			&cli.StringFlag{Name: "host", Usage: "MeiliSearch URL or sqlite:<path>"},
			&cli.StringFlag{Name: "api-key", Usage: "MeiliSearch API key"},
			&cli.StringFlag{Name: "index", Usage: "target index uid"},
			&cli.StringFlag{Name: "mode", Usage: "deploy mode: full or incremental"},
			&cli.BoolFlag{Name: "quiet", Aliases: []string{"q"}, Usage: "log errors only"},
		},
		Action: DeployAction,
	}
}

func DeployAction(c *cli.Context) error {
	logger := logging.New(c.Bool("quiet"))
	startTime := time.Now()

	cfg, err := resolveConfig(c)
	if err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(2)
	}

	input := cfg.Output
	if c.IsSet("input") {
		input = c.String("input")
	}
	if input == "" {
		logger.Error("no input document set configured")
		os.Exit(2)
	}

	store := &storage.Storage{}
	data, err := store.ReadFile(input)
	if err != nil {
		logger.Error("failed to read document set",
			"error", err, "error_type", "read_error", "input", input)
		os.Exit(2)
	}
	var docs []models.SearchDocument
	if err := json.Unmarshal(data, &docs); err != nil {
		logger.Error("document set is not valid JSON",
			"error", err, "error_type", "parse_error", "input", input)
		os.Exit(2)
	}
	logger.Info("document set loaded", "input", input, "documents", len(docs))

	target, err := deployer.NewStore(cfg.Deploy)
	if err != nil {
		logger.Error("invalid deploy configuration", "error", err)
		os.Exit(2)
	}
	defer target.Close()

	mode, err := models.ParseDeployMode(string(cfg.Deploy.Mode))
	if err != nil {
		logger.Error("invalid deploy configuration", "error", err)
		os.Exit(2)
	}

	outcome, err := deployer.NewEngine(target, mode, logger).Sync(c.Context, docs)
	if err != nil {
		logger.Error("deploy failed", "error", err, "error_type", "deploy_error")
		os.Exit(1)
	}

	summary := Summary{
		Status:           "success",
		Mode:             string(outcome.Mode),
		Documents:        outcome.Documents,
		Input:            input,
		TotalTimeSeconds: time.Since(startTime).Seconds(),
	}
	out, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		logger.Error("failed to marshal summary", "error", err)
		os.Exit(2)
	}
	fmt.Println(string(out))
	return nil
}

// resolveConfig merges defaults, the optional config file and CLI flags,
// flags winning. Deploy settings are validated by deployer.NewStore, so a
// config without a page source is fine here.
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
	return cfg, nil
}
