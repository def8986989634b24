package search

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/cnlancehu/vuepress-plugin-meilisearch-indexer/internal/logging"
	"github.com/cnlancehu/vuepress-plugin-meilisearch-indexer/models"
	"github.com/cnlancehu/vuepress-plugin-meilisearch-indexer/pkg/localindex"
	"github.com/cnlancehu/vuepress-plugin-meilisearch-indexer/pkg/storage"
)

// Results is the machine-readable output printed to stdout.
type Results struct {
	Query string           `json:"query"`
	Total int              `json:"total"`
	Hits  []localindex.Hit `json:"hits"`
}

// Command is the search subcommand: run a full-text query against a local
// sqlite index to preview what a deploy produced.
func Command() *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "Query a local sqlite index",
		ArgsUsage: "term...",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "YAML config file", Value: "indexer.yaml"},
			&cli.StringFlag{Name: "host", Usage: "sqlite:<path> index to query"},
			&cli.IntFlag{Name: "limit", Aliases: []string{"n"}, Usage: "maximum number of hits", Value: 20},
			&cli.BoolFlag{Name: "quiet", Aliases: []string{"q"}, Usage: "log errors only"},
		},
		Action: SearchAction,
	}
}

func SearchAction(c *cli.Context) error {
	logger := logging.New(c.Bool("quiet"))

	query := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if query == "" {
		logger.Error("no query terms given")
		os.Exit(2)
	}

	host, err := resolveHost(c)
	if err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(2)
	}
	path, ok := models.DeployConfig{Host: host}.SQLiteTarget()
	if !ok || path == "" {
		logger.Error("search needs a sqlite: deploy host", "host", host)
		os.Exit(2)
	}

	store, err := localindex.Open(path)
	if err != nil {
		logger.Error("failed to open index", "error", err, "path", path)
		os.Exit(2)
	}
	defer store.Close()

	total, err := store.Count(c.Context)
	if err != nil {
		logger.Error("failed to inspect index", "error", err)
		os.Exit(1)
	}
	hits, err := store.Search(c.Context, query, c.Int("limit"))
	if err != nil {
		logger.Error("search failed", "error", err)
		os.Exit(1)
	}
	if hits == nil {
		hits = []localindex.Hit{}
	}

	out, err := json.MarshalIndent(Results{Query: query, Total: total, Hits: hits}, "", "  ")
	if err != nil {
		logger.Error("failed to marshal results", "error", err)
		os.Exit(2)
	}
	fmt.Println(string(out))
	return nil
}

// resolveHost prefers the --host flag, then the config file's deploy host.
func resolveHost(c *cli.Context) (string, error) {
	if c.IsSet("host") {
		return c.String("host"), nil
	}
	store := &storage.Storage{}
	path := c.String("config")
	if c.IsSet("config") || store.HasFile(path) {
		cfg, err := models.LoadConfig(path)
		if err != nil {
			return "", err
		}
		return cfg.Deploy.Host, nil
	}
	return "", nil
}
