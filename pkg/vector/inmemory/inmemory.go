// Package inmemory provides a process-local vector driver with brute-force
// cosine search. Records do not survive the process.
package inmemory

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/papercomputeco/newsvec/pkg/vector"
)

// Driver implements vector.Driver over in-process maps.
type Driver struct {
	mu          sync.RWMutex
	collections map[string]*Collection
	logger      *slog.Logger
}

// NewDriver creates an empty in-memory driver.
func NewDriver(logger *slog.Logger) *Driver {
	return &Driver{
		collections: make(map[string]*Collection),
		logger:      logger,
	}
}

// GetCollection returns the named collection.
func (d *Driver) GetCollection(_ context.Context, name string) (vector.Collection, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	c, ok := d.collections[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", vector.ErrCollectionNotFound, name)
	}
	return c, nil
}

// CreateCollection creates the named collection, or returns the existing one.
func (d *Driver) CreateCollection(_ context.Context, name string, cfg vector.CollectionConfig) (vector.Collection, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if c, ok := d.collections[name]; ok {
		return c, nil
	}

	c := &Collection{
		name:    name,
		config:  cfg,
		index:   make(map[string]int),
		records: make([]vector.Record, 0),
	}
	d.collections[name] = c

	d.logger.Debug("created in-memory collection", "collection", name, "model", cfg.Model)
	return c, nil
}

// DeleteCollection drops the named collection.
func (d *Driver) DeleteCollection(_ context.Context, name string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	c, ok := d.collections[name]
	if !ok {
		return fmt.Errorf("%w: %s", vector.ErrCollectionNotFound, name)
	}
	delete(d.collections, name)

	// stale handles see an empty collection
	c.mu.Lock()
	c.records = c.records[:0]
	c.index = make(map[string]int)
	c.mu.Unlock()

	d.logger.Debug("deleted in-memory collection", "collection", name)
	return nil
}

// Close is a no-op.
func (d *Driver) Close() error {
	return nil
}

// Collection is one in-memory collection. Records keep insertion order.
type Collection struct {
	mu      sync.RWMutex
	name    string
	config  vector.CollectionConfig
	index   map[string]int
	records []vector.Record
}

func (c *Collection) Name() string                    { return c.name }
func (c *Collection) Config() vector.CollectionConfig { return c.config }

// Upsert stores records, overwriting existing ids in place.
func (c *Collection) Upsert(_ context.Context, records []vector.Record) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, r := range records {
		if err := vector.CheckDimensions(r.Embedding, c.config.Dimensions); err != nil {
			return fmt.Errorf("record %s: %w", r.ID, err)
		}

		stored := vector.Record{
			ID:        r.ID,
			Document:  r.Document,
			Metadata:  vector.CopyMetadata(r.Metadata),
			Embedding: append([]float32(nil), r.Embedding...),
		}

		if i, ok := c.index[r.ID]; ok {
			c.records[i] = stored
			continue
		}
		c.index[r.ID] = len(c.records)
		c.records = append(c.records, stored)
	}
	return nil
}

// GetAll returns every record in insertion order.
func (c *Collection) GetAll(_ context.Context) ([]vector.Record, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]vector.Record, 0, len(c.records))
	for _, r := range c.records {
		out = append(out, vector.Record{
			ID:       r.ID,
			Document: r.Document,
			Metadata: vector.CopyMetadata(r.Metadata),
		})
	}
	return out, nil
}

// Query scans every record and returns the n closest by cosine distance.
func (c *Collection) Query(_ context.Context, embedding []float32, n int) ([]vector.Hit, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	hits := make([]vector.Hit, 0, len(c.records))
	for _, r := range c.records {
		dist, err := vector.CosineDistance(embedding, r.Embedding)
		if err != nil {
			return nil, fmt.Errorf("record %s: %w", r.ID, err)
		}
		hits = append(hits, vector.Hit{
			Record: vector.Record{
				ID:       r.ID,
				Document: r.Document,
				Metadata: vector.CopyMetadata(r.Metadata),
			},
			Distance: dist,
		})
	}

	vector.SortHits(hits)
	if n >= 0 && len(hits) > n {
		hits = hits[:n]
	}
	return hits, nil
}

// Count returns the number of records.
func (c *Collection) Count(_ context.Context) (int, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.records), nil
}
