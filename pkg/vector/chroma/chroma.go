// Package chroma provides a Chroma vector database driver implementation.
package chroma

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/papercomputeco/newsvec/pkg/vector"
)

const collectionsPath = "/api/v2/tenants/default_tenant/databases/default_database/collections"

// Driver implements vector.Driver using Chroma's REST API.
type Driver struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// Config holds configuration for the Chroma driver.
type Config struct {
	// URL is the Chroma server URL (e.g., "http://localhost:8000").
	URL string

	// Timeout bounds each HTTP request. Defaults to 60 seconds.
	Timeout time.Duration
}

// NewDriver creates a new Chroma vector driver. No request is made until a
// collection is resolved.
func NewDriver(c Config, logger *slog.Logger) (*Driver, error) {
	if c.URL == "" {
		return nil, fmt.Errorf("chroma URL is required")
	}

	timeout := c.Timeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}

	return &Driver{
		baseURL: c.URL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}, nil
}

// GetCollection looks a collection up by name.
func (d *Driver) GetCollection(ctx context.Context, name string) (vector.Collection, error) {
	var coll chromaCollection
	status, err := d.do(ctx, http.MethodGet, collectionsPath+"/"+url.PathEscape(name), nil, &coll)
	if err != nil {
		if status == http.StatusNotFound {
			return nil, fmt.Errorf("%w: %s", vector.ErrCollectionNotFound, name)
		}
		return nil, fmt.Errorf("getting collection %q: %w", name, err)
	}

	return d.handle(coll), nil
}

// CreateCollection creates a cosine collection whose metadata records the
// embedding configuration.
func (d *Driver) CreateCollection(ctx context.Context, name string, cfg vector.CollectionConfig) (vector.Collection, error) {
	body := chromaCreateRequest{
		Name: name,
		Metadata: map[string]any{
			metaSpace:      "cosine",
			metaProvider:   cfg.Provider,
			metaModel:      cfg.Model,
			metaDimensions: cfg.Dimensions,
		},
		GetOrCreate: true,
	}

	var coll chromaCollection
	if _, err := d.do(ctx, http.MethodPost, collectionsPath, body, &coll); err != nil {
		return nil, fmt.Errorf("creating collection %q: %w", name, err)
	}

	d.logger.Info("created chroma collection",
		"collection", name,
		"collection_id", coll.ID,
		"model", cfg.Model,
	)

	return d.handle(coll), nil
}

// DeleteCollection drops a collection by name.
func (d *Driver) DeleteCollection(ctx context.Context, name string) error {
	status, err := d.do(ctx, http.MethodDelete, collectionsPath+"/"+url.PathEscape(name), nil, nil)
	if err != nil {
		if status == http.StatusNotFound {
			return fmt.Errorf("%w: %s", vector.ErrCollectionNotFound, name)
		}
		return fmt.Errorf("deleting collection %q: %w", name, err)
	}

	d.logger.Debug("deleted chroma collection", "collection", name)
	return nil
}

// Close releases resources held by the driver.
func (d *Driver) Close() error {
	// HTTP client doesn't require explicit cleanup
	return nil
}

func (d *Driver) handle(coll chromaCollection) *Collection {
	return &Collection{
		driver: d,
		id:     coll.ID,
		name:   coll.Name,
		config: configFromMetadata(coll.Metadata),
	}
}

// do sends a JSON request and decodes a JSON response into out when non-nil.
// The returned status is 0 when no response was received.
func (d *Driver) do(ctx context.Context, method, path string, in, out any) (int, error) {
	var body io.Reader
	if in != nil {
		jsonBody, err := json.Marshal(in)
		if err != nil {
			return 0, fmt.Errorf("marshaling request: %w", err)
		}
		body = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, d.baseURL+path, body)
	if err != nil {
		return 0, fmt.Errorf("creating request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", vector.ErrConnection, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		respBody, _ := io.ReadAll(resp.Body)
		return resp.StatusCode, fmt.Errorf("chroma returned status %d: %s", resp.StatusCode, string(respBody))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, fmt.Errorf("decoding response: %w", err)
		}
	}

	return resp.StatusCode, nil
}

// Collection is a handle to one chroma collection.
type Collection struct {
	driver *Driver
	id     string
	name   string
	config vector.CollectionConfig
}

func (c *Collection) Name() string                    { return c.name }
func (c *Collection) Config() vector.CollectionConfig { return c.config }

func (c *Collection) path(op string) string {
	return collectionsPath + "/" + c.id + "/" + op
}

// Upsert stores records, overwriting existing ids.
func (c *Collection) Upsert(ctx context.Context, records []vector.Record) error {
	if len(records) == 0 {
		return nil
	}

	req := chromaUpsertRequest{
		IDs:        make([]string, len(records)),
		Embeddings: make([][]float32, len(records)),
		Metadatas:  make([]map[string]any, len(records)),
		Documents:  make([]string, len(records)),
	}

	for i, r := range records {
		req.IDs[i] = r.ID
		req.Embeddings[i] = r.Embedding
		req.Documents[i] = r.Document

		meta := make(map[string]any, len(r.Metadata))
		for k, v := range r.Metadata {
			meta[k] = v
		}
		req.Metadatas[i] = meta
	}

	if _, err := c.driver.do(ctx, http.MethodPost, c.path("upsert"), req, nil); err != nil {
		return fmt.Errorf("upserting into %q: %w", c.name, err)
	}

	c.driver.logger.Debug("upserted records to chroma",
		"collection", c.name,
		"count", len(records),
	)

	return nil
}

// GetAll returns every record in the collection.
func (c *Collection) GetAll(ctx context.Context) ([]vector.Record, error) {
	var resp chromaGetResponse
	req := chromaGetRequest{Include: []string{"documents", "metadatas"}}
	if _, err := c.driver.do(ctx, http.MethodPost, c.path("get"), req, &resp); err != nil {
		return nil, fmt.Errorf("getting records from %q: %w", c.name, err)
	}

	records := make([]vector.Record, 0, len(resp.IDs))
	for i, id := range resp.IDs {
		r := vector.Record{ID: id, Metadata: map[string]string{}}
		if i < len(resp.Documents) && resp.Documents[i] != nil {
			r.Document = *resp.Documents[i]
		}
		if i < len(resp.Metadatas) {
			r.Metadata = stringMetadata(resp.Metadatas[i])
		}
		records = append(records, r)
	}

	return records, nil
}

// Query finds the n nearest records to the given embedding.
func (c *Collection) Query(ctx context.Context, embedding []float32, n int) ([]vector.Hit, error) {
	hits := make([]vector.Hit, 0)
	if n <= 0 {
		return hits, nil
	}

	req := chromaQueryRequest{
		QueryEmbeddings: [][]float32{embedding},
		NResults:        n,
		Include:         []string{"documents", "metadatas", "distances"},
	}

	var resp chromaQueryResponse
	if _, err := c.driver.do(ctx, http.MethodPost, c.path("query"), req, &resp); err != nil {
		return nil, fmt.Errorf("querying %q: %w", c.name, err)
	}

	// Process first group (we only query with one embedding)
	if len(resp.IDs) == 0 || len(resp.IDs[0]) == 0 {
		return hits, nil
	}

	ids := resp.IDs[0]
	var distances []float64
	if len(resp.Distances) > 0 {
		distances = resp.Distances[0]
	}
	var metadatas []map[string]any
	if len(resp.Metadatas) > 0 {
		metadatas = resp.Metadatas[0]
	}
	var documents []*string
	if len(resp.Documents) > 0 {
		documents = resp.Documents[0]
	}

	for i, id := range ids {
		hit := vector.Hit{Record: vector.Record{ID: id, Metadata: map[string]string{}}}
		if i < len(distances) {
			hit.Distance = distances[i]
		}
		if i < len(metadatas) {
			hit.Metadata = stringMetadata(metadatas[i])
		}
		if i < len(documents) && documents[i] != nil {
			hit.Document = *documents[i]
		}
		hits = append(hits, hit)
	}

	c.driver.logger.Debug("queried chroma",
		"collection", c.name,
		"results", len(hits),
	)

	return hits, nil
}

// Count returns the number of records in the collection.
func (c *Collection) Count(ctx context.Context) (int, error) {
	var n int
	if _, err := c.driver.do(ctx, http.MethodGet, c.path("count"), nil, &n); err != nil {
		return 0, fmt.Errorf("counting %q: %w", c.name, err)
	}
	return n, nil
}

func stringMetadata(m map[string]any) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		switch val := v.(type) {
		case string:
			out[k] = val
		case nil:
			out[k] = ""
		default:
			out[k] = fmt.Sprint(val)
		}
	}
	return out
}

func configFromMetadata(m map[string]any) vector.CollectionConfig {
	cfg := vector.CollectionConfig{}
	if v, ok := m[metaProvider].(string); ok {
		cfg.Provider = v
	}
	if v, ok := m[metaModel].(string); ok {
		cfg.Model = v
	}
	switch v := m[metaDimensions].(type) {
	case float64:
		cfg.Dimensions = uint(v)
	case string:
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			cfg.Dimensions = uint(n)
		}
	}
	return cfg
}
