package index

import (
	"context"
	"log/slog"

	"github.com/papercomputeco/newsvec/pkg/article"
	"github.com/papercomputeco/newsvec/pkg/embeddings"
	"github.com/papercomputeco/newsvec/pkg/eventstream"
	"github.com/papercomputeco/newsvec/pkg/eventstream/nop"
	"github.com/papercomputeco/newsvec/pkg/logger"
	"github.com/papercomputeco/newsvec/pkg/vector"
)

// Config wires the engine's collaborators.
type Config struct {
	// Driver is the vector store. Required.
	Driver vector.Driver

	// Embedder embeds documents and queries. Required.
	Embedder embeddings.Embedder

	// Embedding is the configuration new collections are created with.
	Embedding vector.CollectionConfig

	// Publisher receives index events. Defaults to a no-op publisher.
	Publisher eventstream.Publisher

	// Logger defaults to a no-op logger.
	Logger *slog.Logger
}

// Service bundles the registry, writer, reader and engine and publishes an
// event after every successful store and reset.
type Service struct {
	Registry *Registry
	Writer   *Writer
	Reader   *Reader
	Engine   *Engine

	publisher eventstream.Publisher
	logger    *slog.Logger
}

// New builds a Service from c.
func New(c Config) *Service {
	log := c.Logger
	if log == nil {
		log = logger.Nop()
	}

	pub := c.Publisher
	if pub == nil {
		pub = nop.NewPublisher(log)
	}

	registry := NewRegistry(c.Driver, c.Embedder, c.Embedding, log)

	return &Service{
		Registry:  registry,
		Writer:    NewWriter(registry, log),
		Reader:    NewReader(registry, log),
		Engine:    NewEngine(registry, log),
		publisher: pub,
		logger:    log,
	}
}

// Store stores an article and publishes an indexed event.
func (s *Service) Store(ctx context.Context, a article.Article, collection string) (article.Record, error) {
	rec, err := s.Writer.Store(ctx, a, collection)
	if err != nil {
		return rec, err
	}

	s.publish(ctx, eventstream.NewArticleIndexedEvent(collectionName(collection), rec))
	return rec, nil
}

// GetAll returns every record in the collection.
func (s *Service) GetAll(ctx context.Context, collection string) ([]article.Record, error) {
	return s.Reader.GetAll(ctx, collection)
}

// DeleteAll drops the collection and publishes a reset event.
func (s *Service) DeleteAll(ctx context.Context, collection string) error {
	if err := s.Reader.DeleteAll(ctx, collection); err != nil {
		return err
	}

	s.publish(ctx, eventstream.NewCollectionResetEvent(collectionName(collection)))
	return nil
}

// Search runs a query against the collection.
func (s *Service) Search(ctx context.Context, query, collection string, limit int) ([]Result, error) {
	return s.Engine.Search(ctx, query, collection, limit)
}

// Close closes the publisher, embedder and driver.
func (s *Service) Close() error {
	var first error
	for _, closer := range []func() error{
		s.publisher.Close,
		s.Registry.embedder.Close,
		s.Registry.driver.Close,
	} {
		if err := closer(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// publish never fails the operation that triggered it.
func (s *Service) publish(ctx context.Context, event *eventstream.Event) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("failed to publish event",
			"event_type", event.EventType,
			"collection", event.Collection,
			"error", err,
		)
	}
}
