package meili

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cnlancehu/vuepress-plugin-meilisearch-indexer/models"
)

type writeCall struct {
	method string
	path   string
	query  url.Values
	auth   string
	count  int
}

// fakeMeili acknowledges writes with incrementing task uids and serves
// task lookups, optionally reporting "processing" for a few polls first.
type fakeMeili struct {
	mu           sync.Mutex
	writes       []writeCall
	taskPolls    map[int64]int
	pendingPolls int
	finalStatus  string
	nextTask     int64
}

func newFakeMeili() *fakeMeili {
	return &fakeMeili{taskPolls: make(map[int64]int), finalStatus: "succeeded"}
}

func (f *fakeMeili) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if strings.HasPrefix(r.URL.Path, "/tasks/") {
		uid, _ := strconv.ParseInt(strings.TrimPrefix(r.URL.Path, "/tasks/"), 10, 64)
		f.taskPolls[uid]++
		status := f.finalStatus
		if f.taskPolls[uid] <= f.pendingPolls {
			status = "processing"
		}
		resp := map[string]any{"uid": uid, "status": status}
		if status == "failed" {
			resp["error"] = map[string]string{
				"message": "document id is invalid",
				"code":    "invalid_document_id",
			}
		}
		_ = json.NewEncoder(w).Encode(resp)
		return
	}

	var docs []models.SearchDocument
	_ = json.NewDecoder(r.Body).Decode(&docs)

	f.nextTask++
	f.writes = append(f.writes, writeCall{
		method: r.Method,
		path:   r.URL.Path,
		query:  r.URL.Query(),
		auth:   r.Header.Get("Authorization"),
		count:  len(docs),
	})
	w.WriteHeader(http.StatusAccepted)
	_ = json.NewEncoder(w).Encode(map[string]any{"taskUid": f.nextTask})
}

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := NewClient(srv.URL, "test-key", "docs")
	c.pollInterval = time.Millisecond
	return c
}

func someDocs(n int) []models.SearchDocument {
	docs := make([]models.SearchDocument, n)
	for i := range docs {
		docs[i] = models.SearchDocument{
			ObjectID: "doc-" + strconv.Itoa(i),
			URL:      "https://docs.example.com/guide/",
			Lang:     "en",
			Position: i,
		}
	}
	return docs
}

func TestDeleteAll_WaitsForTask(t *testing.T) {
	fake := newFakeMeili()
	fake.pendingPolls = 2
	c := newTestClient(t, fake)

	require.NoError(t, c.DeleteAll(context.Background()))

	require.Len(t, fake.writes, 1)
	call := fake.writes[0]
	assert.Equal(t, http.MethodDelete, call.method)
	assert.Equal(t, "/indexes/docs/documents", call.path)
	assert.Equal(t, "Bearer test-key", call.auth)
	assert.Equal(t, 3, fake.taskPolls[1], "expected polling through processing states")
}

func TestUpsert_BatchesWithPrimaryKey(t *testing.T) {
	fake := newFakeMeili()
	c := newTestClient(t, fake)
	c.batchSize = 2

	require.NoError(t, c.Upsert(context.Background(), someDocs(5)))

	require.Len(t, fake.writes, 3)
	wantCounts := []int{2, 2, 1}
	for i, call := range fake.writes {
		assert.Equal(t, http.MethodPut, call.method)
		assert.Equal(t, "/indexes/docs/documents", call.path)
		assert.Equal(t, "objectID", call.query.Get("primaryKey"))
		assert.Equal(t, wantCounts[i], call.count)
	}
}

func TestInsert_UsesPost(t *testing.T) {
	fake := newFakeMeili()
	c := newTestClient(t, fake)

	require.NoError(t, c.Insert(context.Background(), someDocs(1)))

	require.Len(t, fake.writes, 1)
	assert.Equal(t, http.MethodPost, fake.writes[0].method)
}

func TestPush_EmptySetSendsNothing(t *testing.T) {
	fake := newFakeMeili()
	c := newTestClient(t, fake)

	require.NoError(t, c.Insert(context.Background(), nil))
	assert.Empty(t, fake.writes)
}

func TestTaskFailureSurfaces(t *testing.T) {
	fake := newFakeMeili()
	fake.finalStatus = "failed"
	c := newTestClient(t, fake)

	err := c.Insert(context.Background(), someDocs(1))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "document id is invalid")
	assert.Contains(t, err.Error(), "invalid_document_id")
}

func TestAPIErrorSurfaces(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "invalid API key"})
	})
	c := newTestClient(t, handler)

	err := c.DeleteAll(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid API key")
	assert.Contains(t, err.Error(), "401")
}

func TestWaitForTask_HonorsContext(t *testing.T) {
	fake := newFakeMeili()
	fake.pendingPolls = 1 << 20 // never finishes on its own
	c := newTestClient(t, fake)

	ctx, cancel := context.WithTimeout(context.Background(), 25*time.Millisecond)
	defer cancel()

	err := c.DeleteAll(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
