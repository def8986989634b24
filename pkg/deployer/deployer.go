// Package deployer reconciles a built document set with a search index,
// either a remote MeiliSearch instance or a local SQLite index.
package deployer

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/cnlancehu/vuepress-plugin-meilisearch-indexer/models"
	"github.com/cnlancehu/vuepress-plugin-meilisearch-indexer/pkg/localindex"
	"github.com/cnlancehu/vuepress-plugin-meilisearch-indexer/pkg/meili"
)

// DocumentStore is the write surface of a search index. Implementations
// must make Upsert replace by objectID so repeated syncs converge.
type DocumentStore interface {
	DeleteAll(ctx context.Context) error
	Insert(ctx context.Context, docs []models.SearchDocument) error
	Upsert(ctx context.Context, docs []models.SearchDocument) error
	Close() error
}

// ConfigError marks failures caused by the deploy configuration rather
// than the target store; nothing was attempted against the index.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return "deploy config: " + e.Reason
}

// Credential env vars, tried in order when no api_key is configured.
const (
	envMasterKey = "MEILI_MASTER_KEY"
	envAPIKey    = "MEILISEARCH_API_KEY"
)

// NewStore builds the store for a deploy target: a MeiliSearch client, or
// a local SQLite index when the host uses the sqlite: scheme. The caller
// owns the returned store and must Close it.
func NewStore(cfg models.DeployConfig) (DocumentStore, error) {
	if err := cfg.Validate(); err != nil {
		return nil, &ConfigError{Reason: err.Error()}
	}

	if path, ok := cfg.SQLiteTarget(); ok {
		store, err := localindex.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open local index: %w", err)
		}
		return store, nil
	}

	key := cfg.APIKey
	if key == "" {
		key = os.Getenv(envMasterKey)
	}
	if key == "" {
		key = os.Getenv(envAPIKey)
	}
	if key == "" {
		return nil, &ConfigError{
			Reason: fmt.Sprintf("no api key configured and neither %s nor %s is set", envMasterKey, envAPIKey),
		}
	}
	return meili.NewClient(cfg.Host, key, cfg.Index), nil
}

// Outcome summarizes a finished sync.
type Outcome struct {
	Mode      models.DeployMode
	Documents int
	Duration  time.Duration
}

// Engine pushes document sets to a store in the configured mode.
type Engine struct {
	store  DocumentStore
	mode   models.DeployMode
	logger *slog.Logger
}

func NewEngine(store DocumentStore, mode models.DeployMode, logger *slog.Logger) *Engine {
	return &Engine{store: store, mode: mode, logger: logger}
}

// Sync reconciles the index with docs. Full mode deletes everything and
// then inserts the new set; the two steps are not atomic, so a failure
// between them leaves the index empty until the next run. Incremental
// mode only upserts, so documents of removed pages linger.
func (e *Engine) Sync(ctx context.Context, docs []models.SearchDocument) (*Outcome, error) {
	start := time.Now()

	switch e.mode {
	case models.DeployModeFull:
		e.logger.Info("clearing index before insert", "documents", len(docs))
		if err := e.store.DeleteAll(ctx); err != nil {
			return nil, fmt.Errorf("failed to clear index: %w", err)
		}
		if err := e.store.Insert(ctx, docs); err != nil {
			return nil, fmt.Errorf("failed to insert documents: %w", err)
		}
	case models.DeployModeIncremental:
		e.logger.Info("upserting documents", "documents", len(docs))
		if err := e.store.Upsert(ctx, docs); err != nil {
			return nil, fmt.Errorf("failed to upsert documents: %w", err)
		}
	default:
		return nil, &ConfigError{Reason: fmt.Sprintf("unknown deploy mode %q", e.mode)}
	}

	return &Outcome{Mode: e.mode, Documents: len(docs), Duration: time.Since(start)}, nil
}
