// Package vector provides interfaces and implementations for named vector
// collections: upserting embedded records and nearest-neighbor queries.
package vector

import "context"

// Record is a stored item: id, embeddable text, flat string metadata and the
// embedding computed from the text.
type Record struct {
	// ID uniquely identifies the record within its collection.
	ID string

	// Document is the text the embedding was computed from.
	Document string

	// Metadata holds scalar string fields stored next to the vector.
	Metadata map[string]string

	// Embedding is the vector representation of Document. Drivers are not
	// required to return it from reads.
	Embedding []float32
}

// Hit is a query match.
type Hit struct {
	Record

	// Distance is the cosine distance between the query and the record
	// embedding, in [0, 2]. Lower is closer.
	Distance float64
}

// CollectionConfig is the embedding configuration a collection is bound to.
type CollectionConfig struct {
	// Provider names the embedding provider, e.g. "openai".
	Provider string

	// Model is the embedding model name.
	Model string

	// Dimensions is the length of every embedding in the collection.
	Dimensions uint
}

// Driver manages named collections in a vector store.
type Driver interface {
	// GetCollection returns a handle to an existing collection, or an error
	// wrapping ErrCollectionNotFound when no collection has that name.
	GetCollection(ctx context.Context, name string) (Collection, error)

	// CreateCollection creates a collection bound to the given configuration.
	// All collections use cosine distance.
	CreateCollection(ctx context.Context, name string, cfg CollectionConfig) (Collection, error)

	// DeleteCollection drops a collection and every record in it. It returns an
	// error wrapping ErrCollectionNotFound when no collection has that name.
	DeleteCollection(ctx context.Context, name string) error

	// Close releases any resources held by the driver.
	Close() error
}

// Collection is a handle to one named collection.
type Collection interface {
	// Name returns the collection name.
	Name() string

	// Config returns the embedding configuration stored with the collection.
	Config() CollectionConfig

	// Upsert stores records. A record whose ID already exists is overwritten.
	Upsert(ctx context.Context, records []Record) error

	// GetAll returns every record in store-defined order.
	GetAll(ctx context.Context) ([]Record, error)

	// Query returns up to n records nearest to embedding, closest first.
	Query(ctx context.Context, embedding []float32, n int) ([]Hit, error)

	// Count returns the number of records in the collection.
	Count(ctx context.Context) (int, error)
}
