package index

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/papercomputeco/newsvec/pkg/article"
)

// Reader lists and resets collections.
type Reader struct {
	registry *Registry
	logger   *slog.Logger
}

// NewReader creates a reader over the registry.
func NewReader(registry *Registry, logger *slog.Logger) *Reader {
	return &Reader{registry: registry, logger: logger}
}

// GetAll returns every record in the collection in store order. The
// collection is resolved first, so an unknown name yields an empty slice.
func (r *Reader) GetAll(ctx context.Context, collection string) ([]article.Record, error) {
	coll, err := r.registry.Resolve(ctx, collection)
	if err != nil {
		return nil, err
	}

	stored, err := coll.GetAll(ctx)
	if err != nil {
		r.logger.Error("failed to list articles", "collection", coll.Name(), "error", err)
		return nil, fmt.Errorf("%w: listing collection %q: %w", ErrUnavailable, coll.Name(), err)
	}

	records := make([]article.Record, 0, len(stored))
	for _, s := range stored {
		records = append(records, article.Record{
			ID:       s.ID,
			Document: s.Document,
			Metadata: s.Metadata,
		})
	}
	return records, nil
}

// DeleteAll drops the collection and everything in it. The next read or
// write re-creates it empty.
func (r *Reader) DeleteAll(ctx context.Context, collection string) error {
	if err := r.registry.drop(ctx, collection); err != nil {
		r.logger.Error("failed to delete collection", "collection", collectionName(collection), "error", err)
		return err
	}

	r.logger.Info("deleted collection", "collection", collectionName(collection))
	return nil
}
