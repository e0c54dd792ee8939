package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/covernet/covernet/pkg/config"
	"github.com/covernet/covernet/pkg/logging"
	"github.com/covernet/covernet/pkg/telemetry"
)

// ErrDisabled is returned when no search backend is configured
var ErrDisabled = fmt.Errorf("search is disabled")

// Client talks to the full-text search service over HTTP. When no backend is
// configured all operations are no-ops and queries return ErrDisabled.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger
}

// New creates a new search client
func New(cfg *config.SearchConfig) *Client {
	logger := logging.WithComponent("search")
	if !cfg.Enabled {
		logger.Info("search disabled")
		return &Client{logger: logger}
	}

	logger.Info("search client initialized", zap.String("url", cfg.URL))
	return &Client{
		baseURL: cfg.URL,
		http:    &http.Client{Timeout: 10 * time.Second},
		logger:  logger,
	}
}

// Enabled reports whether a search backend is configured
func (c *Client) Enabled() bool {
	return c.http != nil
}

// Index adds or replaces a document in an index
func (c *Client) Index(ctx context.Context, index string, id int64, doc map[string]interface{}) error {
	if !c.Enabled() {
		return nil
	}

	ctx, span := telemetry.StartSpan(ctx, "search.index")
	defer span.End()

	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal document: %w", err)
	}

	url := fmt.Sprintf("%s/%s/_doc/%d", c.baseURL, index, id)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to index document %d: %w", id, err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 300 {
		return fmt.Errorf("search service returned %d indexing document %d", resp.StatusCode, id)
	}
	return nil
}

// Remove deletes a document from an index. Missing documents are not an error.
func (c *Client) Remove(ctx context.Context, index string, id int64) error {
	if !c.Enabled() {
		return nil
	}

	ctx, span := telemetry.StartSpan(ctx, "search.remove")
	defer span.End()

	url := fmt.Sprintf("%s/%s/_doc/%d", c.baseURL, index, id)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, url, nil)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to remove document %d: %w", id, err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 300 && resp.StatusCode != http.StatusNotFound {
		return fmt.Errorf("search service returned %d removing document %d", resp.StatusCode, id)
	}
	return nil
}

// Query runs a full-text query against an index and returns the matching
// document ids, best match first, along with the total hit count.
func (c *Client) Query(ctx context.Context, index, query string, page, perPage int) ([]int64, int64, error) {
	if !c.Enabled() {
		return nil, 0, ErrDisabled
	}

	ctx, span := telemetry.StartSpan(ctx, "search.query")
	defer span.End()

	body, err := json.Marshal(map[string]interface{}{
		"query": map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  query,
				"fields": []string{"*"},
			},
		},
		"from": (page - 1) * perPage,
		"size": perPage,
	})
	if err != nil {
		return nil, 0, err
	}

	url := fmt.Sprintf("%s/%s/_search", c.baseURL, index)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("search query failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return nil, 0, fmt.Errorf("search service returned %d", resp.StatusCode)
	}

	var response struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				ID int64 `json:"_id,string"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, 0, fmt.Errorf("failed to unmarshal search response: %w", err)
	}

	ids := make([]int64, 0, len(response.Hits.Hits))
	for _, hit := range response.Hits.Hits {
		ids = append(ids, hit.ID)
	}
	return ids, response.Hits.Total.Value, nil
}
