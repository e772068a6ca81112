// Package index is the indexing and retrieval engine: it turns articles into
// deduplicated vector records and free-text queries into ranked results.
package index

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/papercomputeco/newsvec/pkg/embeddings"
	"github.com/papercomputeco/newsvec/pkg/vector"
)

const (
	// DefaultCollection is used when no collection name is given.
	DefaultCollection = "news_articles"

	// DefaultLimit is used when a search asks for zero or fewer results.
	DefaultLimit = 5
)

// Collection is a resolved collection bound to the embedder it was resolved
// with.
type Collection struct {
	vector.Collection

	embedder embeddings.Embedder
}

// Embed embeds text with the collection's bound embedder.
func (c *Collection) Embed(ctx context.Context, text string) ([]float32, error) {
	return c.embedder.Embed(ctx, text)
}

// Registry resolves collection names to handles, creating missing
// collections on first use.
type Registry struct {
	driver    vector.Driver
	embedder  embeddings.Embedder
	embedding vector.CollectionConfig
	logger    *slog.Logger
}

// NewRegistry creates a registry whose collections are bound to embedder and
// created with the given embedding configuration.
func NewRegistry(driver vector.Driver, embedder embeddings.Embedder, embedding vector.CollectionConfig, logger *slog.Logger) *Registry {
	return &Registry{
		driver:    driver,
		embedder:  embedder,
		embedding: embedding,
		logger:    logger,
	}
}

// Resolve returns the named collection, creating it when it does not exist.
// An empty name resolves to DefaultCollection. Nothing is cached: every call
// asks the store.
func (r *Registry) Resolve(ctx context.Context, name string) (*Collection, error) {
	name = collectionName(name)

	coll, err := r.driver.GetCollection(ctx, name)
	switch {
	case err == nil:
		r.checkEmbedding(coll)
	case errors.Is(err, vector.ErrCollectionNotFound):
		coll, err = r.driver.CreateCollection(ctx, name, r.embedding)
		if err != nil {
			r.logger.Error("failed to create collection", "collection", name, "error", err)
			return nil, fmt.Errorf("%w: creating collection %q: %w", ErrUnavailable, name, err)
		}
		r.logger.Info("created collection", "collection", name, "model", r.embedding.Model)
	default:
		r.logger.Error("failed to resolve collection", "collection", name, "error", err)
		return nil, fmt.Errorf("%w: resolving collection %q: %w", ErrUnavailable, name, err)
	}

	return &Collection{Collection: coll, embedder: r.embedder}, nil
}

// drop deletes the named collection. A missing collection counts as dropped.
func (r *Registry) drop(ctx context.Context, name string) error {
	name = collectionName(name)

	err := r.driver.DeleteCollection(ctx, name)
	if err != nil && !errors.Is(err, vector.ErrCollectionNotFound) {
		return fmt.Errorf("%w: deleting collection %q: %w", ErrUnavailable, name, err)
	}
	return nil
}

// checkEmbedding warns when an existing collection was built with a different
// embedding model than the one configured. Mixing models is not prevented.
func (r *Registry) checkEmbedding(coll vector.Collection) {
	stored := coll.Config()

	if stored.Model != "" && r.embedding.Model != "" && stored.Model != r.embedding.Model {
		r.logger.Warn("collection embedding model differs from configured model",
			"collection", coll.Name(),
			"stored_model", stored.Model,
			"configured_model", r.embedding.Model,
		)
	}

	if stored.Dimensions != 0 && r.embedding.Dimensions != 0 && stored.Dimensions != r.embedding.Dimensions {
		r.logger.Warn("collection embedding dimensions differ from configured dimensions",
			"collection", coll.Name(),
			"stored_dimensions", stored.Dimensions,
			"configured_dimensions", r.embedding.Dimensions,
		)
	}
}

func collectionName(name string) string {
	if name == "" {
		return DefaultCollection
	}
	return name
}
