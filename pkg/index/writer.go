package index

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/papercomputeco/newsvec/pkg/article"
	"github.com/papercomputeco/newsvec/pkg/vector"
)

// Writer stores articles as vector records.
type Writer struct {
	registry *Registry
	logger   *slog.Logger
}

// NewWriter creates a writer over the registry.
func NewWriter(registry *Registry, logger *slog.Logger) *Writer {
	return &Writer{registry: registry, logger: logger}
}

// Store builds the article's record, embeds its text and upserts it into the
// collection. Storing the same URL again overwrites the earlier record.
func (w *Writer) Store(ctx context.Context, a article.Article, collection string) (article.Record, error) {
	if strings.TrimSpace(a.URL) == "" {
		return article.Record{}, ErrMissingURL
	}

	rec := article.BuildRecord(a)

	coll, err := w.registry.Resolve(ctx, collection)
	if err != nil {
		return rec, err
	}

	emb, err := coll.Embed(ctx, rec.Document)
	if err != nil {
		w.logger.Error("failed to embed article", "url", a.URL, "collection", coll.Name(), "error", err)
		return rec, fmt.Errorf("%w: embedding article %s: %w", ErrUnavailable, a.URL, err)
	}

	err = coll.Upsert(ctx, []vector.Record{{
		ID:        rec.ID,
		Document:  rec.Document,
		Metadata:  rec.Metadata,
		Embedding: emb,
	}})
	if err != nil {
		w.logger.Error("failed to store article", "url", a.URL, "collection", coll.Name(), "error", err)
		return rec, fmt.Errorf("%w: storing article %s: %w", ErrUnavailable, a.URL, err)
	}

	w.logger.Debug("stored article", "id", rec.ID, "url", a.URL, "collection", coll.Name())
	return rec, nil
}
