// Package localindex stores search documents in a local SQLite database
// with an FTS5 index, as a self-hosted stand-in for a remote MeiliSearch
// instance. It is selected with a sqlite: host in the deploy config.
package localindex

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/cnlancehu/vuepress-plugin-meilisearch-indexer/models"
)

// The table persists across runs: incremental deploys rely on earlier
// documents still being there. Full deploys clear it through DeleteAll
// instead of dropping the schema.
const schema = `
CREATE TABLE IF NOT EXISTS documents (
	object_id TEXT PRIMARY KEY,
	url TEXT NOT NULL,
	anchor TEXT,
	title TEXT NOT NULL,
	heading TEXT NOT NULL,
	content TEXT NOT NULL,
	lang TEXT NOT NULL,
	level INTEGER NOT NULL,
	position INTEGER NOT NULL,
	page_rank REAL NOT NULL,
	document TEXT NOT NULL
);

CREATE VIRTUAL TABLE IF NOT EXISTS documents_fts USING fts5(
	title, heading, content,
	content='documents',
	content_rowid='rowid'
);

CREATE TRIGGER IF NOT EXISTS documents_ai AFTER INSERT ON documents BEGIN
	INSERT INTO documents_fts(rowid, title, heading, content)
	VALUES (new.rowid, new.title, new.heading, new.content);
END;

CREATE TRIGGER IF NOT EXISTS documents_ad AFTER DELETE ON documents BEGIN
	INSERT INTO documents_fts(documents_fts, rowid, title, heading, content)
	VALUES ('delete', old.rowid, old.title, old.heading, old.content);
END;

CREATE TRIGGER IF NOT EXISTS documents_au AFTER UPDATE ON documents BEGIN
	INSERT INTO documents_fts(documents_fts, rowid, title, heading, content)
	VALUES ('delete', old.rowid, old.title, old.heading, old.content);
	INSERT INTO documents_fts(rowid, title, heading, content)
	VALUES (new.rowid, new.title, new.heading, new.content);
END;
`

// Store is a DocumentStore backed by a single SQLite file.
type Store struct {
	db *sql.DB
}

// Open creates the database and schema if needed. Parent directories are
// created too, so a fresh checkout can deploy to e.g. sqlite:dist/search.db.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create db dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)

	for _, pragma := range []string{"PRAGMA journal_mode=WAL", "PRAGMA busy_timeout=5000"} {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to apply %s: %w", pragma, err)
		}
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	return &Store{db: db}, nil
}

// DeleteAll removes every document; the FTS triggers keep the index in
// step.
func (s *Store) DeleteAll(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM documents"); err != nil {
		return fmt.Errorf("failed to clear documents: %w", err)
	}
	return nil
}

// Insert writes documents, replacing on objectID collision to match the
// remote store's add-documents semantics.
func (s *Store) Insert(ctx context.Context, docs []models.SearchDocument) error {
	return s.write(ctx, docs)
}

// Upsert writes documents, replacing existing ones by objectID. In SQLite
// insert and upsert coincide; the distinction only matters remotely.
func (s *Store) Upsert(ctx context.Context, docs []models.SearchDocument) error {
	return s.write(ctx, docs)
}

func (s *Store) write(ctx context.Context, docs []models.SearchDocument) error {
	if len(docs) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `INSERT OR REPLACE INTO documents
		(object_id, url, anchor, title, heading, content, lang, level, position, page_rank, document)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, doc := range docs {
		raw, err := json.Marshal(doc)
		if err != nil {
			return fmt.Errorf("failed to encode document %s: %w", doc.ObjectID, err)
		}
		_, err = stmt.ExecContext(ctx,
			doc.ObjectID, doc.URL, doc.Anchor, doc.Title(), doc.DeepestHeading(),
			doc.Content, doc.Lang, doc.Level, doc.Position, doc.PageRank, string(raw),
		)
		if err != nil {
			return fmt.Errorf("failed to write document %s: %w", doc.ObjectID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit documents: %w", err)
	}
	return nil
}

// Count reports how many documents the index holds.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM documents").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count documents: %w", err)
	}
	return n, nil
}

// Hit is one full-text match.
type Hit struct {
	ObjectID string `json:"objectID"`
	URL      string `json:"url"`
	Heading  string `json:"heading"`
	Snippet  string `json:"snippet"`
}

// Search runs an FTS5 match over title, heading and content, best matches
// first. Queries are quoted per term so user input cannot break the FTS
// syntax.
func (s *Store) Search(ctx context.Context, query string, limit int) ([]Hit, error) {
	query = sanitizeQuery(query)
	if query == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx, `SELECT d.object_id, d.url, d.heading,
			snippet(documents_fts, 2, '[', ']', '...', 8)
		FROM documents_fts f
		JOIN documents d ON d.rowid = f.rowid
		WHERE documents_fts MATCH ?
		ORDER BY f.rank
		LIMIT ?`, query, limit)
	if err != nil {
		return nil, fmt.Errorf("search query failed: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var hits []Hit
	for rows.Next() {
		var h Hit
		if err := rows.Scan(&h.ObjectID, &h.URL, &h.Heading, &h.Snippet); err != nil {
			return nil, fmt.Errorf("failed to scan hit: %w", err)
		}
		hits = append(hits, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read hits: %w", err)
	}
	return hits, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func sanitizeQuery(q string) string {
	var terms []string
	for _, t := range strings.Fields(q) {
		t = strings.ReplaceAll(t, `"`, "")
		if t == "" {
			continue
		}
		terms = append(terms, `"`+t+`"`)
	}
	return strings.Join(terms, " ")
}
