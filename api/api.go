package api

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"

	"github.com/papercomputeco/newsvec/api/mcp"
	"github.com/papercomputeco/newsvec/pkg/article"
	"github.com/papercomputeco/newsvec/pkg/index"
)

// Index is the article index the server exposes. index.Service satisfies it.
type Index interface {
	Store(ctx context.Context, a article.Article, collection string) (article.Record, error)
	GetAll(ctx context.Context, collection string) ([]article.Record, error)
	DeleteAll(ctx context.Context, collection string) error
	Search(ctx context.Context, query, collection string, limit int) ([]index.Result, error)
}

// Server is the API server for managing and querying the article index.
type Server struct {
	config Config
	index  Index
	logger *slog.Logger
	app    *fiber.App
}

// NewServer creates a new API server. The index is injected so the same
// service can back the CLI and the server.
func NewServer(config Config, idx Index, logger *slog.Logger) (*Server, error) {
	if config.DefaultCollection == "" {
		config.DefaultCollection = index.DefaultCollection
	}
	if config.DefaultLimit <= 0 {
		config.DefaultLimit = index.DefaultLimit
	}

	mcpServer, err := mcp.NewServer(mcp.Config{
		Index:             idx,
		DefaultCollection: config.DefaultCollection,
		Logger:            logger,
	})
	if err != nil {
		return nil, fmt.Errorf("creating MCP server: %w", err)
	}

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	s := &Server{
		config: config,
		index:  idx,
		logger: logger,
		app:    app,
	}

	app.Get("/ping", s.handlePing)
	app.Post("/v1/articles", s.handleStoreArticle)
	app.Get("/v1/collections/:name/articles", s.handleListArticles)
	app.Delete("/v1/collections/:name", s.handleDeleteCollection)
	app.Get("/v1/search", s.handleSearch)
	app.All("/mcp", adaptor.HTTPHandler(mcpServer.Handler()))

	return s, nil
}

// Run starts the API server on the configured address.
func (s *Server) Run() error {
	s.logger.Info("starting API server", "listen", s.config.ListenAddr)
	return s.app.Listen(s.config.ListenAddr)
}

// Shutdown gracefully shuts down the API server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

func (s *Server) collection(name string) string {
	if name == "" {
		return s.config.DefaultCollection
	}
	return name
}
