// Package meili is a minimal MeiliSearch client covering the three
// document operations a deploy needs. MeiliSearch queues writes as async
// tasks, so every operation waits for its task to reach a final status
// before returning.
package meili

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cnlancehu/vuepress-plugin-meilisearch-indexer/models"
)

const (
	// primaryKey matches the identity field of SearchDocument; passing
	// it explicitly avoids MeiliSearch inferring the wrong attribute on
	// a fresh index.
	primaryKey = "objectID"

	defaultBatchSize    = 1000
	defaultPollInterval = 500 * time.Millisecond
)

type Client struct {
	host   string
	apiKey string
	index  string

	client       *http.Client
	batchSize    int
	pollInterval time.Duration
}

// NewClient targets one index of a MeiliSearch instance. The host is the
// instance base URL, e.g. http://127.0.0.1:7700.
func NewClient(host, apiKey, index string) *Client {
	return &Client{
		host:         strings.TrimRight(host, "/"),
		apiKey:       apiKey,
		index:        index,
		client:       &http.Client{},
		batchSize:    defaultBatchSize,
		pollInterval: defaultPollInterval,
	}
}

// DeleteAll removes every document from the index.
func (c *Client) DeleteAll(ctx context.Context) error {
	task, err := c.do(ctx, http.MethodDelete, c.documentsPath(), nil)
	if err != nil {
		return fmt.Errorf("failed to delete documents: %w", err)
	}
	return c.waitForTask(ctx, task)
}

// Insert adds documents to the index. MeiliSearch's add-documents call
// replaces on key collision, which is acceptable: inserts only run right
// after DeleteAll.
func (c *Client) Insert(ctx context.Context, docs []models.SearchDocument) error {
	return c.pushDocuments(ctx, http.MethodPost, docs)
}

// Upsert adds documents, replacing any existing document with the same
// objectID.
func (c *Client) Upsert(ctx context.Context, docs []models.SearchDocument) error {
	return c.pushDocuments(ctx, http.MethodPut, docs)
}

// Close satisfies the store interface; the client holds no resources.
func (c *Client) Close() error { return nil }

// pushDocuments sends docs in batches and waits for each batch's task, so
// a failure surfaces before the next batch goes out.
func (c *Client) pushDocuments(ctx context.Context, method string, docs []models.SearchDocument) error {
	for start := 0; start < len(docs); start += c.batchSize {
		end := start + c.batchSize
		if end > len(docs) {
			end = len(docs)
		}

		payload, err := json.Marshal(docs[start:end])
		if err != nil {
			return fmt.Errorf("failed to encode documents: %w", err)
		}
		task, err := c.do(ctx, method, c.documentsPath()+"?primaryKey="+primaryKey, bytes.NewReader(payload))
		if err != nil {
			return fmt.Errorf("failed to send documents %d-%d: %w", start, end-1, err)
		}
		if err := c.waitForTask(ctx, task); err != nil {
			return fmt.Errorf("documents %d-%d rejected: %w", start, end-1, err)
		}
	}
	return nil
}

func (c *Client) documentsPath() string {
	return "/indexes/" + c.index + "/documents"
}

// taskRef is the acknowledgement MeiliSearch returns for queued writes.
type taskRef struct {
	TaskUID int64 `json:"taskUid"`
}

// task is the subset of the task object the client inspects.
type task struct {
	UID    int64  `json:"uid"`
	Status string `json:"status"`
	Error  struct {
		Message string `json:"message"`
		Code    string `json:"code"`
	} `json:"error"`
}

// do issues one API request and decodes the task acknowledgement.
func (c *Client) do(ctx context.Context, method, path string, body io.Reader) (taskRef, error) {
	var ref taskRef

	req, err := http.NewRequestWithContext(ctx, method, c.host+path, body)
	if err != nil {
		return ref, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return ref, fmt.Errorf("request to %s failed: %w", c.host, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return ref, fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return ref, fmt.Errorf("%s %s returned %d: %s", method, path, resp.StatusCode, apiMessage(data))
	}
	if err := json.Unmarshal(data, &ref); err != nil {
		return ref, fmt.Errorf("failed to decode task acknowledgement: %w", err)
	}
	return ref, nil
}

// waitForTask polls until the task reaches a final status. MeiliSearch
// reports enqueued and processing before succeeded, failed or canceled.
func (c *Client) waitForTask(ctx context.Context, ref taskRef) error {
	for {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet,
			fmt.Sprintf("%s/tasks/%d", c.host, ref.TaskUID), nil)
		if err != nil {
			return fmt.Errorf("failed to build task request: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+c.apiKey)

		resp, err := c.client.Do(req)
		if err != nil {
			return fmt.Errorf("failed to poll task %d: %w", ref.TaskUID, err)
		}
		data, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return fmt.Errorf("failed to read task %d: %w", ref.TaskUID, err)
		}
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("task %d lookup returned %d: %s", ref.TaskUID, resp.StatusCode, apiMessage(data))
		}

		var t task
		if err := json.Unmarshal(data, &t); err != nil {
			return fmt.Errorf("failed to decode task %d: %w", ref.TaskUID, err)
		}
		switch t.Status {
		case "succeeded":
			return nil
		case "failed", "canceled":
			return fmt.Errorf("task %d %s: %s (%s)", ref.TaskUID, t.Status, t.Error.Message, t.Error.Code)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(c.pollInterval):
		}
	}
}

// apiMessage extracts the human-readable message from a MeiliSearch error
// body, falling back to the raw payload.
func apiMessage(data []byte) string {
	var e struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &e); err == nil && e.Message != "" {
		return e.Message
	}
	return strings.TrimSpace(string(data))
}
