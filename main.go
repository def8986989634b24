package main

import (
	"log"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/cnlancehu/vuepress-plugin-meilisearch-indexer/internal/build"
	"github.com/cnlancehu/vuepress-plugin-meilisearch-indexer/internal/deploy"
	"github.com/cnlancehu/vuepress-plugin-meilisearch-indexer/internal/search"
)

func main() {
	app := &cli.App{
		Name:  "vuepress-meilisearch-indexer",
		Usage: "segment a built VuePress site into search documents and sync them to MeiliSearch",
		Commands: []*cli.Command{
			build.Command(),
			deploy.Command(),
			search.Command(),
		},
	}
	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
