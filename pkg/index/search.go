package index

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/papercomputeco/newsvec/pkg/article"
	"github.com/papercomputeco/newsvec/pkg/vector"
)

// Result is one ranked search match. It is never persisted.
type Result struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	URL         string   `json:"url"`
	Topics      []string `json:"topics"`
	PublishDate string   `json:"publish_date"`

	// RelevanceScore is 1 - Distance. It orders results but is not a
	// normalized similarity: cosine distance spans [0, 2].
	RelevanceScore float64 `json:"relevance_score"`
	Distance       float64 `json:"distance"`

	Document string `json:"document"`
}

// Engine answers free-text queries by nearest-neighbor search.
type Engine struct {
	registry *Registry
	logger   *slog.Logger
}

// NewEngine creates a query engine over the registry.
func NewEngine(registry *Registry, logger *slog.Logger) *Engine {
	return &Engine{registry: registry, logger: logger}
}

// Search embeds query and returns up to limit matches from the collection,
// closest first. limit <= 0 means DefaultLimit. An empty collection yields an
// empty slice and no error.
func (e *Engine) Search(ctx context.Context, query, collection string, limit int) ([]Result, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}

	coll, err := e.registry.Resolve(ctx, collection)
	if err != nil {
		return nil, err
	}

	emb, err := coll.Embed(ctx, query)
	if err != nil {
		e.logger.Error("failed to embed query", "collection", coll.Name(), "error", err)
		return nil, fmt.Errorf("%w: embedding query: %w", ErrUnavailable, err)
	}

	hits, err := coll.Query(ctx, emb, limit)
	if err != nil {
		e.logger.Error("failed to query collection", "collection", coll.Name(), "error", err)
		return nil, fmt.Errorf("%w: querying collection %q: %w", ErrUnavailable, coll.Name(), err)
	}

	vector.SortHits(hits)

	results := make([]Result, 0, len(hits))
	for _, h := range hits {
		results = append(results, toResult(h))
	}

	e.logger.Debug("searched collection",
		"collection", coll.Name(),
		"limit", limit,
		"results", len(results),
	)

	return results, nil
}

func toResult(h vector.Hit) Result {
	rec := article.Record{ID: h.ID, Document: h.Document, Metadata: h.Metadata}

	return Result{
		ID:             h.ID,
		Title:          rec.Title(),
		URL:            rec.URL(),
		Topics:         rec.Topics(),
		PublishDate:    rec.PublishDate(),
		RelevanceScore: 1 - h.Distance,
		Distance:       h.Distance,
		Document:       h.Document,
	}
}
